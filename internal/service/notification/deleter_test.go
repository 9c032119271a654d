package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/config"
	"wiki-echo/internal/domain"
	"wiki-echo/internal/mocks"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service/notification"
)

func TestDeferredDeleter_Flush(t *testing.T) {
	ctx := context.Background()
	events := new(mocks.EventRepository)
	d := notification.NewDeferredDeleter(events)

	d.Add(nil)
	d.Add(&domain.Event{})
	d.Add(&domain.Event{ID: 9})
	d.Add(&domain.Event{ID: 3})
	d.Add(&domain.Event{ID: 9})
	assert.Equal(t, 2, d.Pending())

	events.On("MarkDeleted", mock.Anything, []int64{3, 9}).Return(errors.New("db down")).Once()
	require.Error(t, d.Flush(ctx))
	assert.Equal(t, 2, d.Pending())

	events.On("MarkDeleted", mock.Anything, []int64{3, 9}).Return(nil).Once()
	require.NoError(t, d.Flush(ctx))
	assert.Equal(t, 0, d.Pending())

	require.NoError(t, d.Flush(ctx))
	events.AssertNumberOfCalls(t, "MarkDeleted", 2)
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	notifs := new(mocks.NotificationRepository)
	targets := new(mocks.TargetPageRepository)
	repos := &repository.Repositories{Notification: notifs, TargetPage: targets}
	svc := notification.NewService(repos, nil, nil, nil, nil, nil, nil, nil, &config.Config{WikiID: "testwiki"})
	user := &domain.User{ID: 7}

	n, err := svc.MarkRead(ctx, user, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	notifs.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	notifs.On("MarkRead", mock.Anything, int64(7), []int64{1, 2}, mock.AnythingOfType("time.Time")).Return(int64(2), nil).Once()
	targets.On("DeleteForEvents", mock.Anything, int64(7), []int64{1, 2}).Return(nil).Once()
	n, err = svc.MarkRead(ctx, user, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	notifs.On("MarkRead", mock.Anything, int64(7), []int64{5}, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	_, err = svc.MarkRead(ctx, user, []int64{5})
	assert.ErrorContains(t, err, "failed to mark notifications read")
	targets.AssertNotCalled(t, "DeleteForEvents", mock.Anything, int64(7), []int64{5})

	notifs.On("MarkAllRead", mock.Anything, int64(7), mock.MatchedBy(func(at time.Time) bool {
		return at.Location() == time.UTC
	})).Return(int64(4), nil).Once()
	n, err = svc.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	notifs.AssertExpectations(t)
	targets.AssertExpectations(t)
}
