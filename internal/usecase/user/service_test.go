package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/usecase/user"
)

type userRepoMock struct {
	mock.Mock
	domain.UserRepository
}

func (m *userRepoMock) SearchByUsername(ctx context.Context, query string, limit int) ([]domain.User, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]domain.User), args.Error(1)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	repo := new(userRepoMock)
	found := []domain.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "malika"}}
	repo.On("SearchByUsername", ctx, "ali", domain.UserSearchLimit).Return(found, nil).Once()
	svc := user.NewService(repo)

	res, err := svc.Search(ctx, "  ali ")
	require.NoError(t, err)
	assert.Equal(t, found, res)

	res, err = svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	repo.AssertExpectations(t)
}
