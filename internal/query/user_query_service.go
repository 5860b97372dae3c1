package query

import (
	"context"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
	"github.com/harborbank/ledger-service/internal/repository"
)

type UserQueryService struct {
	userRepo *repository.UserRepository
}

func NewUserQueryService(userRepo *repository.UserRepository) *UserQueryService {
	return &UserQueryService{userRepo: userRepo}
}

// GetUser fetches a user view. Users may only fetch themselves.
func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	if q.UserID != q.RequestingUserID {
		return nil, ledger.ErrForbidden
	}
	user, err := s.userRepo.GetByID(q.UserID)
	if err != nil {
		return nil, err
	}
	return &models.UserView{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}
