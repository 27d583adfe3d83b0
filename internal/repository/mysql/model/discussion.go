package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

// Discussion stores one aggregate per row; the reply tree lives in a JSON column.
type Discussion struct {
	ID         int64                       `gorm:"primaryKey;autoIncrement"`
	QuestionID *int64                      `gorm:"column:question_id;index:idx_question_created,priority:1"`
	UserID     int64                       `gorm:"column:user_id;not null;index"`
	Title      string                      `gorm:"type:varchar(255);not null"`
	Content    string                      `gorm:"type:longtext;not null"`
	Category   string                      `gorm:"type:varchar(16);not null;default:General;index"`
	Approach   *string                     `gorm:"type:varchar(16)"`
	Tags       datatypes.JSONSlice[string] `gorm:"type:json"`
	Likes      datatypes.JSONSlice[int64]  `gorm:"type:json"`
	Dislikes   datatypes.JSONSlice[int64]  `gorm:"type:json"`
	Mentions   datatypes.JSONSlice[int64]  `gorm:"type:json"`
	Replies    datatypes.JSONType[[]Reply] `gorm:"type:json"`
	LikesCount int64                       `gorm:"column:likes_count;default:0;index"`
	ReplyCount int64                       `gorm:"column:reply_count;default:0"`
	IsPinned   bool                        `gorm:"column:is_pinned;default:false"`
	Views      int64                       `gorm:"default:0;index"`
	UpdatedAt  time.Time                   `gorm:"type:datetime"`
	CreatedAt  time.Time                   `gorm:"type:datetime;index;index:idx_question_created,priority:2"`
}

func (Discussion) TableName() string {
	return "discussion"
}

// Reply is the JSON shape of a reply node
type Reply struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Likes     []int64   `json:"likes"`
	Dislikes  []int64   `json:"dislikes"`
	Mentions  []int64   `json:"mentions"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Discussion) ToDomain() domain.Discussion {
	d := domain.Discussion{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Author:     domain.User{ID: m.UserID},
		Title:      m.Title,
		Content:    m.Content,
		Category:   domain.Category(m.Category),
		Tags:       nonNil([]string(m.Tags)),
		Reactions: domain.Reactions{
			Likes:    nonNil([]int64(m.Likes)),
			Dislikes: nonNil([]int64(m.Dislikes)),
		},
		Mentions:  usersFromIDs(m.Mentions),
		Replies:   repliesToDomain(m.Replies.Data()),
		IsPinned:  m.IsPinned,
		Views:     m.Views,
		UpdatedAt: m.UpdatedAt,
		CreatedAt: m.CreatedAt,
	}
	if m.Approach != nil {
		d.Approach = domain.Approach(*m.Approach)
	}
	return d
}

func NewDiscussionFromDomain(d *domain.Discussion) *Discussion {
	m := &Discussion{
		ID:         d.ID,
		QuestionID: d.QuestionID,
		UserID:     d.Author.ID,
		Title:      d.Title,
		Content:    d.Content,
		Category:   string(d.Category),
		Tags:       datatypes.JSONSlice[string](nonNil(d.Tags)),
		Likes:      datatypes.JSONSlice[int64](nonNil(d.Likes)),
		Dislikes:   datatypes.JSONSlice[int64](nonNil(d.Dislikes)),
		Mentions:   datatypes.JSONSlice[int64](idsFromUsers(d.Mentions)),
		Replies:    datatypes.NewJSONType(repliesFromDomain(d.Replies)),
		LikesCount: d.LikesCount(),
		ReplyCount: d.ReplyCount(),
		IsPinned:   d.IsPinned,
		Views:      d.Views,
		UpdatedAt:  d.UpdatedAt,
		CreatedAt:  d.CreatedAt,
	}
	if d.Approach != "" {
		approach := string(d.Approach)
		m.Approach = &approach
	}
	return m
}

func repliesToDomain(replies []Reply) []domain.ReplyNode {
	res := make([]domain.ReplyNode, len(replies))
	for i, r := range replies {
		res[i] = domain.ReplyNode{
			ID:      r.ID,
			Author:  domain.User{ID: r.UserID},
			Content: r.Content,
			Reactions: domain.Reactions{
				Likes:    nonNil(r.Likes),
				Dislikes: nonNil(r.Dislikes),
			},
			Mentions:  usersFromIDs(r.Mentions),
			Replies:   repliesToDomain(r.Replies),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return res
}

func repliesFromDomain(replies []domain.ReplyNode) []Reply {
	res := make([]Reply, len(replies))
	for i, r := range replies {
		res[i] = Reply{
			ID:        r.ID,
			UserID:    r.Author.ID,
			Content:   r.Content,
			Likes:     nonNil(r.Likes),
			Dislikes:  nonNil(r.Dislikes),
			Mentions:  idsFromUsers(r.Mentions),
			Replies:   repliesFromDomain(r.Replies),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return res
}

func usersFromIDs(ids []int64) []domain.User {
	res := make([]domain.User, len(ids))
	for i, id := range ids {
		res[i] = domain.User{ID: id}
	}
	return res
}

func idsFromUsers(users []domain.User) []int64 {
	res := make([]int64, len(users))
	for i, u := range users {
		res[i] = u.ID
	}
	return res
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
