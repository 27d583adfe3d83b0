package idgen

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// ErrNotInitialized is returned by New until Init succeeds
var ErrNotInitialized = errors.New("idgen: snowflake node is not initialized")

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

// Init sets up the process-wide snowflake node. Once a node is set further
// calls are no-ops.
func Init(nodeID int64) error {
	mu.Lock()
	defer mu.Unlock()
	if node != nil {
		return nil
	}
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("idgen: node %d: %w", nodeID, err)
	}
	node = n
	return nil
}

// New generates an id that is unique across every discussion tree of the
// deployment, not only among siblings.
func New() (int64, error) {
	mu.RLock()
	n := node
	mu.RUnlock()
	if n == nil {
		return 0, ErrNotInitialized
	}
	return n.Generate().Int64(), nil
}
