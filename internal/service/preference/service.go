package preference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
)

var (
	ErrUnknownCategory  = errors.New("unknown notification category")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrInvalidFrequency = errors.New("invalid email frequency")
)

var outputFormats = []string{domain.OutputWeb, domain.OutputEmail}

type Service interface {
	EnabledEventTypes(ctx context.Context, user *domain.User, outputFormat string) ([]string, error)
	Get(ctx context.Context, user *domain.User) (*domain.PreferenceSettings, error)
	Update(ctx context.Context, user *domain.User, input domain.UpdatePreferencesInput) (*domain.PreferenceSettings, error)
}

// CountInvalidator drops a user's cached unread count.
type CountInvalidator interface {
	InvalidateCount(ctx context.Context, userID int64)
}

type service struct {
	prefRepo repository.PreferenceRepository
	userRepo repository.UserRepository
	registry *domain.Registry
	counts   CountInvalidator
}

func NewService(prefRepo repository.PreferenceRepository, userRepo repository.UserRepository, registry *domain.Registry, counts CountInvalidator) Service {
	return &service{
		prefRepo: prefRepo,
		userRepo: userRepo,
		registry: registry,
		counts:   counts,
	}
}

// EnabledEventTypes lists the types user receives through outputFormat:
// every registered type whose category the user is eligible for and has
// not switched off.
func (s *service) EnabledEventTypes(ctx context.Context, user *domain.User, outputFormat string) ([]string, error) {
	prefs, err := s.prefRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var types []string
	for _, name := range s.registry.TypeNames() {
		category := s.registry.CategoryOf(name)
		if !s.registry.IsEligible(user, category) {
			continue
		}
		if s.subscribed(prefs, outputFormat, category) {
			types = append(types, name)
		}
	}
	return types, nil
}

func (s *service) Get(ctx context.Context, user *domain.User) (*domain.PreferenceSettings, error) {
	prefs, err := s.prefRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	subs := domain.Subscriptions{}
	for _, format := range outputFormats {
		subs[format] = map[string]bool{}
		for _, category := range s.registry.CategoryNames() {
			if !s.registry.IsEligible(user, category) {
				continue
			}
			subs[format][category] = s.subscribed(prefs, format, category)
		}
	}

	return &domain.PreferenceSettings{
		EmailFrequency: user.EmailFrequency,
		Subscriptions:  subs,
	}, nil
}

func (s *service) Update(ctx context.Context, user *domain.User, input domain.UpdatePreferencesInput) (*domain.PreferenceSettings, error) {
	values := make(map[string]string)
	for format, categories := range input.Subscriptions {
		if format != domain.OutputWeb && format != domain.OutputEmail {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
		}
		for category, enabled := range categories {
			if _, ok := s.registry.Categories[category]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
			}
			values[domain.SubscriptionOption(format, category)] = boolOption(enabled)
		}
	}

	if input.EmailFrequency != nil {
		if !input.EmailFrequency.IsValid() {
			return nil, ErrInvalidFrequency
		}
		user.EmailFrequency = *input.EmailFrequency
		user.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		if err := s.userRepo.Upsert(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update email frequency: %w", err)
		}
	}

	if err := s.prefRepo.Set(ctx, user.ID, values); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	// Web subscriptions decide which rows the unread count includes.
	if len(input.Subscriptions[domain.OutputWeb]) > 0 && s.counts != nil {
		s.counts.InvalidateCount(ctx, user.ID)
	}

	return s.Get(ctx, user)
}

func (s *service) subscribed(prefs map[string]string, format, category string) bool {
	v, ok := prefs[domain.SubscriptionOption(format, category)]
	if !ok {
		return s.registry.SubscriptionDefault(format, category)
	}
	return v == "1" || v == "true"
}

func boolOption(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
