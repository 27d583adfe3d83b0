package user

import (
	"context"
	"strings"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

type Service struct {
	userRepo domain.UserRepository
}

var _ domain.UserUsecase = (*Service)(nil)

func NewService(u domain.UserRepository) *Service {
	return &Service{
		userRepo: u,
	}
}

// Search 用于 @ 提及的自动补全
func (s *Service) Search(ctx context.Context, query string) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.User{}, nil
	}
	return s.userRepo.SearchByUsername(ctx, query, domain.UserSearchLimit)
}
