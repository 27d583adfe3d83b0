package domain

import "slices"

// ReactionKind is either a like or a dislike
type ReactionKind int8

const (
	Like ReactionKind = iota + 1
	Dislike
)

func (k ReactionKind) String() string {
	switch k {
	case Like:
		return "like"
	case Dislike:
		return "dislike"
	default:
		return "unknown"
	}
}

// ReactionState is where a single user stands on a single node
type ReactionState int8

const (
	ReactionNone ReactionState = iota
	ReactionLiked
	ReactionDisliked
)

func (s ReactionState) String() string {
	switch s {
	case ReactionLiked:
		return "liked"
	case ReactionDisliked:
		return "disliked"
	default:
		return "none"
	}
}

// Reactions holds the users who liked or disliked a node.
// A user id is never present in both sets.
type Reactions struct {
	Likes    []int64
	Dislikes []int64
}

// State reports the current reaction of uid
func (r *Reactions) State(uid int64) ReactionState {
	switch {
	case slices.Contains(r.Likes, uid):
		return ReactionLiked
	case slices.Contains(r.Dislikes, uid):
		return ReactionDisliked
	default:
		return ReactionNone
	}
}

// Toggle applies a like or dislike from uid.
// Reacting with the kind already recorded removes it; otherwise the reaction
// is recorded and the opposite one, if any, is dropped.
func (r *Reactions) Toggle(uid int64, kind ReactionKind) ReactionState {
	state := ReactionLiked
	if kind == Dislike {
		state = ReactionDisliked
	}
	prev := r.State(uid)

	switch prev {
	case ReactionLiked:
		r.Likes = slices.DeleteFunc(r.Likes, func(id int64) bool { return id == uid })
	case ReactionDisliked:
		r.Dislikes = slices.DeleteFunc(r.Dislikes, func(id int64) bool { return id == uid })
	}
	if prev == state {
		return ReactionNone
	}

	if state == ReactionLiked {
		r.Likes = append(r.Likes, uid)
	} else {
		r.Dislikes = append(r.Dislikes, uid)
	}
	return state
}

func (r Reactions) clone() Reactions {
	return Reactions{Likes: slices.Clone(r.Likes), Dislikes: slices.Clone(r.Dislikes)}
}

// LikesCount returns the number of likes
func (r *Reactions) LikesCount() int64 {
	return int64(len(r.Likes))
}

// DislikesCount returns the number of dislikes
func (r *Reactions) DislikesCount() int64 {
	return int64(len(r.Dislikes))
}

// ParseReactionKind maps "like"/"dislike" to a ReactionKind
func ParseReactionKind(s string) (ReactionKind, error) {
	switch s {
	case "like":
		return Like, nil
	case "dislike":
		return Dislike, nil
	default:
		return 0, ErrBadParamInput
	}
}
