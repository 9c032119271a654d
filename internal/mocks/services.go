package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/service/auth"
	"wiki-echo/internal/service/email"
	"wiki-echo/internal/service/presentation"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendNotification(ctx context.Context, user *domain.User, model presentation.Model) error {
	args := m.Called(ctx, user, model)
	return args.Error(0)
}

func (m *EmailService) SendDigest(ctx context.Context, user *domain.User, items []email.DigestItem) error {
	args := m.Called(ctx, user, items)
	return args.Error(0)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Notify(ctx context.Context, input domain.NotifyInput) (*domain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *NotificationService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *NotificationService) List(ctx context.Context, user *domain.User, format string, params domain.ListParams) (*domain.NotificationList, error) {
	args := m.Called(ctx, user, format, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationList), args.Error(1)
}

func (m *NotificationService) UnreadCount(ctx context.Context, user *domain.User, source string) (*domain.UnreadCount, error) {
	args := m.Called(ctx, user, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnreadCount), args.Error(1)
}

func (m *NotificationService) MarkRead(ctx context.Context, user *domain.User, eventIDs []int64) (int64, error) {
	args := m.Called(ctx, user, eventIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAllRead(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

type PreferenceService struct {
	mock.Mock
}

func (m *PreferenceService) EnabledEventTypes(ctx context.Context, user *domain.User, outputFormat string) ([]string, error) {
	args := m.Called(ctx, user, outputFormat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *PreferenceService) Get(ctx context.Context, user *domain.User) (*domain.PreferenceSettings, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreferenceSettings), args.Error(1)
}

func (m *PreferenceService) Update(ctx context.Context, user *domain.User, input domain.UpdatePreferencesInput) (*domain.PreferenceSettings, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreferenceSettings), args.Error(1)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserService) Sync(ctx context.Context, id int64, input domain.SyncUserInput) (*domain.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type AuthService struct {
	mock.Mock
}

func (m *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *AuthService) IssueToken(user *domain.User, ttl time.Duration) (string, error) {
	args := m.Called(user, ttl)
	return args.String(0), args.Error(1)
}

func (m *AuthService) ResolveUser(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type IconService struct {
	mock.Mock
}

func (m *IconService) RasterizedURL(ctx context.Context, iconType, lang string) string {
	args := m.Called(ctx, iconType, lang)
	return args.String(0)
}

func (m *IconService) Upload(ctx context.Context, iconType, dir string, reader io.Reader, size int64) error {
	args := m.Called(ctx, iconType, dir, reader, size)
	return args.Error(0)
}
