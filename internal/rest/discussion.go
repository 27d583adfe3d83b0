package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/middleware"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/request"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/response"
)

// DiscussionHandler represent the httphandler for discussion
type DiscussionHandler struct {
	Service domain.DiscussionUsecase
}

func NewDiscussionHandler(svc domain.DiscussionUsecase) *DiscussionHandler {
	return &DiscussionHandler{
		Service: svc,
	}
}

// Fetch lists forum discussions: ?filter=trending|newest|oldest|most-liked&category=&search=
func (h *DiscussionHandler) Fetch(c *gin.Context) {
	opts := domain.ListOptions{
		Filter:   domain.ListFilter(c.DefaultQuery("filter", string(domain.FilterTrending))),
		Category: domain.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	list, err := h.Service.Fetch(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionsFromDomain(list))
}

// GetByID will get discussion by given id
func (h *DiscussionHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	d, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionFromDomain(&d))
}

func (h *DiscussionHandler) FetchByQuestion(c *gin.Context) {
	qid, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	list, err := h.Service.FetchByQuestion(c.Request.Context(), qid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionsFromDomain(list))
}

func (h *DiscussionHandler) FetchSolutions(c *gin.Context) {
	qid, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	list, err := h.Service.FetchSolutions(c.Request.Context(), qid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionsFromDomain(list))
}

func (h *DiscussionHandler) CountByQuestion(c *gin.Context) {
	qid, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	count, err := h.Service.CountByQuestion(c.Request.Context(), qid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Store will store the discussion by given request body
func (h *DiscussionHandler) Store(c *gin.Context) {
	var req request.Discussion
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	d := req.ToDomain()
	d.Author.ID = uid
	if err := h.Service.Store(c.Request.Context(), &d); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewDiscussionFromDomain(&d))
}

// AddReply attaches a reply to the discussion or to any reply below it
func (h *DiscussionHandler) AddReply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.Reply
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	parent, err := req.Parent()
	if err != nil {
		writeError(c, err)
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	d, err := h.Service.AddReply(c.Request.Context(), id, uid, req.Content, parent)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionFromDomain(&d))
}

// Like toggles a like on the discussion, ?replyId=&nestedReplyId= or ?path=a,b,c
func (h *DiscussionHandler) Like(c *gin.Context) {
	h.react(c, domain.Like)
}

// Dislike toggles a dislike, addressed like Like
func (h *DiscussionHandler) Dislike(c *gin.Context) {
	h.react(c, domain.Dislike)
}

func (h *DiscussionHandler) react(c *gin.Context, kind domain.ReactionKind) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	path, err := reactionPath(c)
	if err != nil {
		writeError(c, err)
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	d, err := h.Service.React(c.Request.Context(), id, uid, kind, path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionFromDomain(&d))
}

// Edit lets the author change title, content and approach
func (h *DiscussionHandler) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.DiscussionEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	d, err := h.Service.Edit(c.Request.Context(), id, uid, req.ToDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDiscussionFromDomain(&d))
}

// Delete will delete the discussion with its whole reply tree
func (h *DiscussionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, uid); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discussion deleted successfully"})
}

func (h *DiscussionHandler) IncrementViews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	views, err := h.Service.IncrementViews(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "views": views})
}

func reactionPath(c *gin.Context) (domain.ReplyPath, error) {
	if path := c.Query("path"); path != "" {
		return domain.ParseReplyPath(path)
	}
	return domain.ParseReplyPath(c.Query("replyId"), c.Query("nestedReplyId"))
}

// paramID 非法 ID 按资源不存在处理
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (int64, bool) {
	v, exists := c.Get(middleware.ContextKeyUserID)
	uid, ok := v.(int64)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return 0, false
	}
	return uid, true
}
