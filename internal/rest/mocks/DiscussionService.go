package mocks

import (
	context "context"

	domain "github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	mock "github.com/stretchr/testify/mock"
)

// DiscussionService is a mock type for the DiscussionUsecase type
type DiscussionService struct {
	mock.Mock
}

func (_m *DiscussionService) discussionResult(ret mock.Arguments) (domain.Discussion, error) {
	var r0 domain.Discussion
	if v, ok := ret.Get(0).(domain.Discussion); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *DiscussionService) listResult(ret mock.Arguments) ([]domain.Discussion, error) {
	var r0 []domain.Discussion
	if v, ok := ret.Get(0).([]domain.Discussion); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// Fetch provides a mock function with given fields: ctx, opts
func (_m *DiscussionService) Fetch(ctx context.Context, opts domain.ListOptions) ([]domain.Discussion, error) {
	return _m.listResult(_m.Called(ctx, opts))
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *DiscussionService) GetByID(ctx context.Context, id int64) (domain.Discussion, error) {
	return _m.discussionResult(_m.Called(ctx, id))
}

// FetchByQuestion provides a mock function with given fields: ctx, questionID
func (_m *DiscussionService) FetchByQuestion(ctx context.Context, questionID int64) ([]domain.Discussion, error) {
	return _m.listResult(_m.Called(ctx, questionID))
}

// FetchSolutions provides a mock function with given fields: ctx, questionID
func (_m *DiscussionService) FetchSolutions(ctx context.Context, questionID int64) ([]domain.Discussion, error) {
	return _m.listResult(_m.Called(ctx, questionID))
}

// CountByQuestion provides a mock function with given fields: ctx, questionID
func (_m *DiscussionService) CountByQuestion(ctx context.Context, questionID int64) (int64, error) {
	ret := _m.Called(ctx, questionID)
	return ret.Get(0).(int64), ret.Error(1)
}

// Store provides a mock function with given fields: ctx, d
func (_m *DiscussionService) Store(ctx context.Context, d *domain.Discussion) error {
	ret := _m.Called(ctx, d)
	return ret.Error(0)
}

// AddReply provides a mock function with given fields: ctx, discussionID, authorID, content, parent
func (_m *DiscussionService) AddReply(ctx context.Context, discussionID int64, authorID int64, content string, parent domain.ReplyPath) (domain.Discussion, error) {
	return _m.discussionResult(_m.Called(ctx, discussionID, authorID, content, parent))
}

// React provides a mock function with given fields: ctx, discussionID, userID, kind, path
func (_m *DiscussionService) React(ctx context.Context, discussionID int64, userID int64, kind domain.ReactionKind, path domain.ReplyPath) (domain.Discussion, error) {
	return _m.discussionResult(_m.Called(ctx, discussionID, userID, kind, path))
}

// Edit provides a mock function with given fields: ctx, discussionID, requesterID, edit
func (_m *DiscussionService) Edit(ctx context.Context, discussionID int64, requesterID int64, edit domain.DiscussionEdit) (domain.Discussion, error) {
	return _m.discussionResult(_m.Called(ctx, discussionID, requesterID, edit))
}

// Delete provides a mock function with given fields: ctx, discussionID, requesterID
func (_m *DiscussionService) Delete(ctx context.Context, discussionID int64, requesterID int64) error {
	ret := _m.Called(ctx, discussionID, requesterID)
	return ret.Error(0)
}

// IncrementViews provides a mock function with given fields: ctx, discussionID
func (_m *DiscussionService) IncrementViews(ctx context.Context, discussionID int64) (int64, error) {
	ret := _m.Called(ctx, discussionID)
	return ret.Get(0).(int64), ret.Error(1)
}

// InitBloomFilter provides a mock function with given fields: ctx
func (_m *DiscussionService) InitBloomFilter(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
