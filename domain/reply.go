package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ReplyNode is a reply to a discussion or to another reply.
// Replies nest without a depth limit and are owned by their Discussion.
type ReplyNode struct {
	ID      int64
	Author  User
	Content string
	Reactions
	Mentions  []User
	Replies   []ReplyNode
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReplyPath addresses a node inside a discussion tree. The empty path is the
// discussion itself. Every element is searched for at any depth below the
// node matched by the previous element.
type ReplyPath []int64

// IsRoot reports whether the path addresses the discussion itself
func (p ReplyPath) IsRoot() bool {
	return len(p) == 0
}

func (p ReplyPath) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseReplyPath parses ids separated by commas. Blank elements are skipped.
func ParseReplyPath(ids ...string) (ReplyPath, error) {
	path := make(ReplyPath, 0, len(ids))
	for _, raw := range ids {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid reply id %q: %w", s, ErrBadParamInput)
			}
			path = append(path, id)
		}
	}
	return path, nil
}

// NodeRef is a mutable handle on a resolved node. It stays valid until the
// sibling slice holding the node is reallocated, so callers only append to
// the node's own Replies.
type NodeRef struct {
	Reactions *Reactions
	Replies   *[]ReplyNode
	UpdatedAt *time.Time
	Reply     *ReplyNode // nil for the discussion itself
}

// Locate resolves path to a node. It fails with ErrReplyNotFound at the first
// element that does not exist below the previously resolved node.
func (d *Discussion) Locate(path ReplyPath) (NodeRef, error) {
	ref := NodeRef{
		Reactions: &d.Reactions,
		Replies:   &d.Replies,
		UpdatedAt: &d.UpdatedAt,
	}
	for _, id := range path {
		node := findReply(*ref.Replies, id)
		if node == nil {
			return NodeRef{}, ErrReplyNotFound
		}
		ref = NodeRef{
			Reactions: &node.Reactions,
			Replies:   &node.Replies,
			UpdatedAt: &node.UpdatedAt,
			Reply:     node,
		}
	}
	return ref, nil
}

// FindReply searches the whole tree for id
func (d *Discussion) FindReply(id int64) *ReplyNode {
	return findReply(d.Replies, id)
}

func findReply(nodes []ReplyNode, id int64) *ReplyNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
		if found := findReply(nodes[i].Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every reply in pre-order. Returning false stops the walk.
func (d *Discussion) Walk(fn func(r *ReplyNode) bool) {
	walkReplies(d.Replies, fn)
}

func walkReplies(nodes []ReplyNode, fn func(r *ReplyNode) bool) bool {
	for i := range nodes {
		if !fn(&nodes[i]) {
			return false
		}
		if !walkReplies(nodes[i].Replies, fn) {
			return false
		}
	}
	return true
}

// AddReply appends reply under the node addressed by parent. The discussion
// is left untouched when parent cannot be resolved or the id is taken.
func (d *Discussion) AddReply(parent ReplyPath, reply ReplyNode, now time.Time) error {
	if reply.ID == 0 {
		return fmt.Errorf("reply id is required: %w", ErrBadParamInput)
	}
	if strings.TrimSpace(reply.Content) == "" {
		return fmt.Errorf("reply content is required: %w", ErrBadParamInput)
	}
	if d.FindReply(reply.ID) != nil {
		return fmt.Errorf("reply %d: %w", reply.ID, ErrConflict)
	}

	ref, err := d.Locate(parent)
	if err != nil {
		return ErrParentReplyNotFound
	}

	if reply.Replies == nil {
		reply.Replies = []ReplyNode{}
	}
	reply.CreatedAt = now
	reply.UpdatedAt = now
	*ref.Replies = append(*ref.Replies, reply)
	*ref.UpdatedAt = now
	d.UpdatedAt = now
	return nil
}

// React toggles a like or dislike from uid on the node addressed by path
func (d *Discussion) React(path ReplyPath, uid int64, kind ReactionKind, now time.Time) (ReactionState, error) {
	if kind != Like && kind != Dislike {
		return ReactionNone, ErrBadParamInput
	}
	ref, err := d.Locate(path)
	if err != nil {
		return ReactionNone, err
	}
	state := ref.Reactions.Toggle(uid, kind)
	*ref.UpdatedAt = now
	d.UpdatedAt = now
	return state, nil
}

// ReplyCount counts root-level replies only
func (d *Discussion) ReplyCount() int64 {
	return int64(len(d.Replies))
}

// UserIDs collects the distinct author and mention ids of the whole tree
func (d *Discussion) UserIDs() []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	add := func(id int64) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	add(d.Author.ID)
	for _, m := range d.Mentions {
		add(m.ID)
	}
	d.Walk(func(r *ReplyNode) bool {
		add(r.Author.ID)
		for _, m := range r.Mentions {
			add(m.ID)
		}
		return true
	})
	return ids
}

// FillUsers replaces every author and mention with the matching entry of users
func (d *Discussion) FillUsers(users map[int64]User) {
	fill := func(u *User) {
		if full, ok := users[u.ID]; ok {
			*u = full
		}
	}

	fill(&d.Author)
	for i := range d.Mentions {
		fill(&d.Mentions[i])
	}
	d.Walk(func(r *ReplyNode) bool {
		fill(&r.Author)
		for i := range r.Mentions {
			fill(&r.Mentions[i])
		}
		return true
	})
}

// Clone returns a deep copy of the aggregate. Callers sharing one loaded
// discussion must clone it before filling users or mutating it.
func (d *Discussion) Clone() Discussion {
	c := *d
	if d.QuestionID != nil {
		qid := *d.QuestionID
		c.QuestionID = &qid
	}
	c.Tags = slices.Clone(d.Tags)
	c.Reactions = d.Reactions.clone()
	c.Mentions = slices.Clone(d.Mentions)
	c.Replies = cloneReplies(d.Replies)
	return c
}

func cloneReplies(replies []ReplyNode) []ReplyNode {
	if replies == nil {
		return nil
	}
	res := make([]ReplyNode, len(replies))
	for i, r := range replies {
		r.Reactions = r.Reactions.clone()
		r.Mentions = slices.Clone(r.Mentions)
		r.Replies = cloneReplies(r.Replies)
		res[i] = r
	}
	return res
}
