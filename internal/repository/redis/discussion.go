package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository/cache"
)

const (
	KeyDiscussion = "discussion:%d"

	// 物理过期时间需要比逻辑过期时间长，保证过期数据仍可返回
	physicalTTLFactor = 6
)

type discussionCache struct {
	client *redis.Client
}

var _ domain.DiscussionCache = (*discussionCache)(nil)

func NewDiscussionCache(client *redis.Client) *discussionCache {
	return &discussionCache{
		client,
	}
}

func (c *discussionCache) GetDiscussion(ctx context.Context, id int64) (domain.Discussion, bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyDiscussion, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Discussion{}, false, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Discussion{}, false, err
	}

	var entry cache.DataWithLogicalExpire[domain.Discussion]
	if err = json.Unmarshal(data, &entry); err != nil {
		return domain.Discussion{}, false, err
	}
	return entry.Data, entry.IsLogicalExpired(), nil
}

func (c *discussionCache) SetDiscussion(ctx context.Context, d *domain.Discussion, ttl time.Duration) error {
	data, err := json.Marshal(cache.NewDataWithLogicalExpire(*d, ttl))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyDiscussion, d.ID), data, ttl*physicalTTLFactor).Err()
}

func (c *discussionCache) DeleteDiscussion(ctx context.Context, id int64) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyDiscussion, id)).Err()
}
