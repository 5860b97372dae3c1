package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/events"
	"github.com/harborbank/ledger-service/internal/models"
	"github.com/harborbank/ledger-service/internal/repository"
	"github.com/harborbank/ledger-service/internal/utils"
)

// UserCommandService handles user registration. Users are immutable after
// creation; there is no update or delete path.
type UserCommandService struct {
	userRepo  *repository.UserRepository
	publisher *events.Publisher
}

func NewUserCommandService(userRepo *repository.UserRepository, publisher *events.Publisher) *UserCommandService {
	return &UserCommandService{userRepo: userRepo, publisher: publisher}
}

func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) (*models.User, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}
	return user, nil
}
