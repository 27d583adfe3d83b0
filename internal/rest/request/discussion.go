package request

import (
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

type Discussion struct {
	QuestionID *int64   `json:"question_id"`
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Category   string   `json:"category"`
	Approach   string   `json:"approach"`
	Tags       []string `json:"tags"`
}

// ToDomain: Request -> Domain
func (r *Discussion) ToDomain() domain.Discussion {
	// question_id 为 0 视为没有关联题目，即普通论坛帖子
	questionID := r.QuestionID
	if questionID != nil && *questionID == 0 {
		questionID = nil
	}
	return domain.Discussion{
		QuestionID: questionID,
		Title:      r.Title,
		Content:    r.Content,
		Category:   domain.Category(r.Category),
		Approach:   domain.Approach(r.Approach),
		Tags:       r.Tags,
	}
}

// Reply 回复可以挂在讨论本身、某条回复或更深的嵌套回复下
type Reply struct {
	Content    string   `json:"content" binding:"required"`
	ParentID   string   `json:"parent_id"`   // 任意深度的回复 ID
	ParentPath []string `json:"parent_path"` // 逐级定位的回复 ID 路径
}

// Parent resolves where the reply is attached. Empty means the discussion itself.
func (r *Reply) Parent() (domain.ReplyPath, error) {
	if len(r.ParentPath) > 0 {
		return domain.ParseReplyPath(r.ParentPath...)
	}
	return domain.ParseReplyPath(r.ParentID)
}

type DiscussionEdit struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Approach string `json:"approach"`
}

func (r *DiscussionEdit) ToDomain() domain.DiscussionEdit {
	return domain.DiscussionEdit{
		Title:    r.Title,
		Content:  r.Content,
		Approach: domain.Approach(r.Approach),
	}
}
