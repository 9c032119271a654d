package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"wiki-echo/internal/domain"
)

type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Create(ctx context.Context, event *domain.Event) (int64, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EventRepository) GetByID(ctx context.Context, id int64, fromPrimary bool) (*domain.Event, error) {
	args := m.Called(ctx, id, fromPrimary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Event), args.Error(1)
}

func (m *EventRepository) UpdateExtra(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventRepository) MarkDeleted(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationRepository) ListForUser(ctx context.Context, userID int64, eventTypes []string, params domain.ListParams) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, eventTypes, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) ListBundled(ctx context.Context, userID int64, displayHash string) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, displayHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) RawBundleData(ctx context.Context, userID int64, bundleHash, outputType string) ([]*domain.Event, error) {
	args := m.Called(ctx, userID, bundleHash, outputType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Event), args.Error(1)
}

func (m *NotificationRepository) LastBundleStat(ctx context.Context, userID int64, bundleHash string) (*domain.BundleStat, error) {
	args := m.Called(ctx, userID, bundleHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BundleStat), args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, userID int64, eventIDs []int64, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, eventIDs, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, source string, userID int64, eventTypes []string, limit int64) (int64, error) {
	args := m.Called(ctx, source, userID, eventTypes, limit)
	return args.Get(0).(int64), args.Error(1)
}

type EmailBatchRepository struct {
	mock.Mock
}

func (m *EmailBatchRepository) Add(ctx context.Context, item *domain.EmailBatchItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *EmailBatchRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.EmailBatchItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EmailBatchItem), args.Error(1)
}

func (m *EmailBatchRepository) UsersWithPending(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *EmailBatchRepository) DeleteForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *EmailBatchRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

type TargetPageRepository struct {
	mock.Mock
}

func (m *TargetPageRepository) Create(ctx context.Context, pages []domain.TargetPage) error {
	args := m.Called(ctx, pages)
	return args.Error(0)
}

func (m *TargetPageRepository) ListForEvents(ctx context.Context, userID int64, eventIDs []int64) (map[int64][]int64, error) {
	args := m.Called(ctx, userID, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]int64), args.Error(1)
}

func (m *TargetPageRepository) DeleteForEvents(ctx context.Context, userID int64, eventIDs []int64) error {
	args := m.Called(ctx, userID, eventIDs)
	return args.Error(0)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*domain.User), args.Error(1)
}

func (m *UserRepository) MarkBatchSent(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) ListForUser(ctx context.Context, userID int64) (map[string]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *PreferenceRepository) Set(ctx context.Context, userID int64, values map[string]string) error {
	args := m.Called(ctx, userID, values)
	return args.Error(0)
}

type UpdateLogRepository struct {
	mock.Mock
}

func (m *UpdateLogRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *UpdateLogRepository) Insert(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
