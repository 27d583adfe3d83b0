package mocks

import (
	context "context"

	domain "github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	mock "github.com/stretchr/testify/mock"
)

// UserService is a mock type for the UserUsecase type
type UserService struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, query
func (_m *UserService) Search(ctx context.Context, query string) ([]domain.User, error) {
	ret := _m.Called(ctx, query)

	var r0 []domain.User
	if v, ok := ret.Get(0).([]domain.User); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}
