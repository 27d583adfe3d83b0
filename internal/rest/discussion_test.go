package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faker/faker/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/middleware"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/mocks"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/response"
)

const testSecret = "test-secret"

func newRouter(svc *mocks.DiscussionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := rest.NewDiscussionHandler(svc)

	g := r.Group("/discussions")
	g.GET("", h.Fetch)
	g.GET("/question/:questionId", h.FetchByQuestion)
	g.GET("/question/:questionId/solutions", h.FetchSolutions)
	g.GET("/question/:questionId/count", h.CountByQuestion)
	g.GET("/:id", h.GetByID)
	g.POST("/view/:id", h.IncrementViews)

	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware(testSecret))
	auth.POST("", h.Store)
	auth.POST("/:id/reply", h.AddReply)
	auth.POST("/:id/like", h.Like)
	auth.POST("/:id/dislike", h.Dislike)
	auth.PATCH("/:id", h.Edit)
	auth.DELETE("/:id", h.Delete)
	return r
}

func do(t *testing.T, r http.Handler, method, target string, uid int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != 0 {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
			UserID: uid,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleDiscussion() domain.Discussion {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return domain.Discussion{
		ID:        1,
		Author:    domain.User{ID: 100, Name: faker.Name(), Username: "alice"},
		Title:     faker.Sentence(),
		Content:   faker.Paragraph(),
		Category:  domain.CategoryGeneral,
		Tags:      []string{"go"},
		Reactions: domain.Reactions{Likes: []int64{7, 8}, Dislikes: []int64{}},
		Replies: []domain.ReplyNode{
			{
				ID:      1790000000000000001,
				Author:  domain.User{ID: 101, Username: "bob"},
				Content: "reply",
				Replies: []domain.ReplyNode{
					{ID: 1790000000000000002, Author: domain.User{ID: 102}, Content: "nested", Replies: []domain.ReplyNode{}},
				},
			},
		},
		Views:     3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestGetByID(t *testing.T) {
	svc := new(mocks.DiscussionService)
	d := sampleDiscussion()
	svc.On("GetByID", mock.Anything, int64(1)).Return(d, nil).Once()
	svc.On("GetByID", mock.Anything, int64(2)).Return(domain.Discussion{}, domain.ErrDiscussionNotFound).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodGet, "/discussions/1", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got response.Discussion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, d.Title, got.Title)
	assert.EqualValues(t, 2, got.LikesCount)
	assert.EqualValues(t, 1, got.ReplyCount)
	assert.Equal(t, "2024-05-01 10:00:00", got.CreatedAt)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, "1790000000000000001", got.Replies[0].ID)
	require.Len(t, got.Replies[0].Replies, 1)
	assert.Equal(t, "1790000000000000002", got.Replies[0].Replies[0].ID)

	w = do(t, r, http.MethodGet, "/discussions/2", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"discussion not found"}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/discussions/abc", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestFetch(t *testing.T) {
	svc := new(mocks.DiscussionService)
	opts := domain.ListOptions{Filter: domain.FilterMostLiked, Category: domain.CategoryStudy, Search: "graph"}
	svc.On("Fetch", mock.Anything, opts).Return([]domain.Discussion{sampleDiscussion()}, nil).Once()
	svc.On("Fetch", mock.Anything, domain.ListOptions{Filter: domain.FilterTrending}).
		Return([]domain.Discussion{}, nil).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodGet, "/discussions?filter=most-liked&category=Study&search=graph", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []response.Discussion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)

	w = do(t, r, http.MethodGet, "/discussions", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestQuestionEndpoints(t *testing.T) {
	svc := new(mocks.DiscussionService)
	svc.On("FetchByQuestion", mock.Anything, int64(9)).Return([]domain.Discussion{sampleDiscussion()}, nil).Once()
	svc.On("FetchSolutions", mock.Anything, int64(9)).Return([]domain.Discussion{}, nil).Once()
	svc.On("CountByQuestion", mock.Anything, int64(9)).Return(int64(4), nil).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodGet, "/discussions/question/9", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/discussions/question/9/solutions", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/discussions/question/9/count", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":4}`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestStore(t *testing.T) {
	svc := new(mocks.DiscussionService)
	svc.On("Store", mock.Anything, mock.MatchedBy(func(d *domain.Discussion) bool {
		return d.Author.ID == 100 && d.Title == "hello" && d.Category == domain.CategorySolutions &&
			d.Approach == domain.ApproachLogic && d.QuestionID != nil && *d.QuestionID == 5
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Discussion).ID = 11
	}).Return(nil).Once()
	svc.On("Store", mock.Anything, mock.Anything).Return(domain.ErrApproachRequired).Once()
	r := newRouter(svc)

	body := map[string]any{
		"question_id": 5,
		"title":       "hello",
		"content":     "world",
		"category":    "Solutions",
		"approach":    "Logic",
	}
	w := do(t, r, http.MethodPost, "/discussions", 100, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var got response.Discussion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 11, got.ID)

	body["approach"] = ""
	w = do(t, r, http.MethodPost, "/discussions", 100, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"approach is required for solutions"}`, w.Body.String())

	w = do(t, r, http.MethodPost, "/discussions", 100, map[string]any{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/discussions", 0, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.AssertExpectations(t)
}

func TestStoreZeroQuestionIsForumPost(t *testing.T) {
	svc := new(mocks.DiscussionService)
	svc.On("Store", mock.Anything, mock.MatchedBy(func(d *domain.Discussion) bool {
		return d.QuestionID == nil
	})).Return(nil).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodPost, "/discussions", 100, map[string]any{
		"question_id": 0,
		"title":       "hello",
		"content":     "world",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestAddReply(t *testing.T) {
	svc := new(mocks.DiscussionService)
	d := sampleDiscussion()
	svc.On("AddReply", mock.Anything, int64(1), int64(101), "hi", domain.ReplyPath{}).Return(d, nil).Once()
	svc.On("AddReply", mock.Anything, int64(1), int64(101), "hi", domain.ReplyPath{1790000000000000001}).Return(d, nil).Once()
	svc.On("AddReply", mock.Anything, int64(1), int64(101), "hi", domain.ReplyPath{10, 11}).
		Return(domain.Discussion{}, domain.ErrParentReplyNotFound).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodPost, "/discussions/1/reply", 101, map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/discussions/1/reply", 101, map[string]any{
		"content":   "hi",
		"parent_id": "1790000000000000001",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/discussions/1/reply", 101, map[string]any{
		"content":     "hi",
		"parent_path": []string{"10", "11"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"parent reply not found"}`, w.Body.String())

	w = do(t, r, http.MethodPost, "/discussions/1/reply", 101, map[string]any{
		"content":   "hi",
		"parent_id": "oops",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestReact(t *testing.T) {
	svc := new(mocks.DiscussionService)
	d := sampleDiscussion()
	svc.On("React", mock.Anything, int64(1), int64(7), domain.Like, domain.ReplyPath{}).Return(d, nil).Once()
	svc.On("React", mock.Anything, int64(1), int64(7), domain.Dislike, domain.ReplyPath{10, 11}).Return(d, nil).Once()
	svc.On("React", mock.Anything, int64(1), int64(7), domain.Like, domain.ReplyPath{10, 11, 12}).
		Return(domain.Discussion{}, domain.ErrReplyNotFound).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodPost, "/discussions/1/like", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/discussions/1/dislike?replyId=10&nestedReplyId=11", 7, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/discussions/1/like?path=10,11,12", 7, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/discussions/1/like?replyId=-3", 7, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestEditAndDelete(t *testing.T) {
	svc := new(mocks.DiscussionService)
	edit := domain.DiscussionEdit{Title: "t", Content: "c"}
	svc.On("Edit", mock.Anything, int64(1), int64(200), edit).Return(domain.Discussion{}, domain.ErrNotDiscussionOwner).Once()
	svc.On("Edit", mock.Anything, int64(1), int64(100), edit).Return(sampleDiscussion(), nil).Once()
	svc.On("Delete", mock.Anything, int64(1), int64(100)).Return(nil).Once()
	svc.On("Delete", mock.Anything, int64(1), int64(200)).Return(errors.New("db down")).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodPatch, "/discussions/1", 200, map[string]any{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPatch, "/discussions/1", 100, map[string]any{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodDelete, "/discussions/1", 100, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodDelete, "/discussions/1", 200, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal Server Error"}`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestIncrementViews(t *testing.T) {
	svc := new(mocks.DiscussionService)
	svc.On("IncrementViews", mock.Anything, int64(1)).Return(int64(12), nil).Once()
	r := newRouter(svc)

	w := do(t, r, http.MethodPost, "/discussions/view/1", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"views":12}`, w.Body.String())

	svc.AssertExpectations(t)
}
