package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidFrequency = errors.New("invalid email frequency")
	ErrNameRequired     = errors.New("user name is required")
)

type Service interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Sync(ctx context.Context, id int64, input domain.SyncUserInput) (*domain.User, error)
}

type service struct {
	userRepo repository.UserRepository
}

func NewService(userRepo repository.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Sync mirrors the wiki's view of an account. The email frequency is kept
// when the input omits it.
func (s *service) Sync(ctx context.Context, id int64, input domain.SyncUserInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}

	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:             id,
		Name:           input.Name,
		Email:          input.Email,
		Language:       input.Language,
		Timezone:       input.Timezone,
		DateFormat:     input.DateFormat,
		Groups:         strings.Join(input.Groups, ","),
		EmailFrequency: domain.EmailFrequencySingle,
		UpdatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	if existing != nil {
		user.EmailFrequency = existing.EmailFrequency
		user.EmailBatchSentAt = existing.EmailBatchSentAt
	}
	if input.EmailFrequency != nil {
		if !input.EmailFrequency.IsValid() {
			return nil, ErrInvalidFrequency
		}
		user.EmailFrequency = *input.EmailFrequency
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
