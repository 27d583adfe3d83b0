package response

import (
	"strconv"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

type Discussion struct {
	ID            int64    `json:"id"`
	QuestionID    *int64   `json:"question_id,omitempty"`
	Author        User     `json:"author"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Approach      string   `json:"approach,omitempty"`
	Tags          []string `json:"tags"`
	Likes         []int64  `json:"likes"`
	Dislikes      []int64  `json:"dislikes"`
	LikesCount    int64    `json:"likes_count"`
	DislikesCount int64    `json:"dislikes_count"`
	Mentions      []User   `json:"mentions"`
	Replies       []Reply  `json:"replies"`
	ReplyCount    int64    `json:"reply_count"`
	IsPinned      bool     `json:"is_pinned"`
	Views         int64    `json:"views"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// Reply ID 由 snowflake 生成，以字符串输出避免前端精度丢失
type Reply struct {
	ID            string  `json:"id"`
	Author        User    `json:"author"`
	Content       string  `json:"content"`
	Likes         []int64 `json:"likes"`
	Dislikes      []int64 `json:"dislikes"`
	LikesCount    int64   `json:"likes_count"`
	DislikesCount int64   `json:"dislikes_count"`
	Mentions      []User  `json:"mentions"`
	Replies       []Reply `json:"replies"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewDiscussionFromDomain: Domain -> Response
func NewDiscussionFromDomain(d *domain.Discussion) Discussion {
	return Discussion{
		ID:            d.ID,
		QuestionID:    d.QuestionID,
		Author:        NewUserFromDomain(d.Author),
		Title:         d.Title,
		Content:       d.Content,
		Category:      string(d.Category),
		Approach:      string(d.Approach),
		Tags:          orEmpty(d.Tags),
		Likes:         orEmpty(d.Likes),
		Dislikes:      orEmpty(d.Dislikes),
		LikesCount:    d.LikesCount(),
		DislikesCount: d.DislikesCount(),
		Mentions:      NewUsersFromDomain(d.Mentions),
		Replies:       newRepliesFromDomain(d.Replies),
		ReplyCount:    d.ReplyCount(),
		IsPinned:      d.IsPinned,
		Views:         d.Views,
		CreatedAt:     d.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:     d.UpdatedAt.Format(DateTimeFormat),
	}
}

func NewDiscussionsFromDomain(list []domain.Discussion) []Discussion {
	res := make([]Discussion, len(list))
	for i := range list {
		res[i] = NewDiscussionFromDomain(&list[i])
	}
	return res
}

func newRepliesFromDomain(replies []domain.ReplyNode) []Reply {
	res := make([]Reply, len(replies))
	for i := range replies {
		r := &replies[i]
		res[i] = Reply{
			ID:            strconv.FormatInt(r.ID, 10),
			Author:        NewUserFromDomain(r.Author),
			Content:       r.Content,
			Likes:         orEmpty(r.Likes),
			Dislikes:      orEmpty(r.Dislikes),
			LikesCount:    r.LikesCount(),
			DislikesCount: r.DislikesCount(),
			Mentions:      NewUsersFromDomain(r.Mentions),
			Replies:       newRepliesFromDomain(r.Replies),
			CreatedAt:     r.CreatedAt.Format(DateTimeFormat),
			UpdatedAt:     r.UpdatedAt.Format(DateTimeFormat),
		}
	}
	return res
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
