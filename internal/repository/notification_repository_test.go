package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/testutil"
)

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func seedNotification(t *testing.T, repos *repository.Repositories, userID int64, eventType string, at time.Time, displayHash string) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := repos.Event.Create(ctx, newEvent(eventType))
	require.NoError(t, err)

	err = repos.Notification.Create(ctx, &domain.Notification{
		EventID:     id,
		UserID:      userID,
		Timestamp:   at,
		BundleBase:  true,
		BundleHash:  displayHash,
		DisplayHash: displayHash,
	})
	require.NoError(t, err)
	return id
}

func countBase(t *testing.T, db *sqlx.DB, userID int64, displayHash string) int {
	t.Helper()
	var n int
	err := db.Get(&n, `SELECT COUNT(*) FROM echo_notification
		WHERE notification_user = ? AND notification_bundle_display_hash = ? AND notification_bundle_base = ?`,
		userID, displayHash, true)
	require.NoError(t, err)
	return n
}

func TestNotificationRepository_CreateRoundTrip(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	id := seedNotification(t, repos, 1, "mention", baseTime, "")

	list, err := repos.Notification.ListForUser(ctx, 1, []string{"mention"}, domain.ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].EventID)
	assert.True(t, list[0].Timestamp.Equal(baseTime))
	assert.False(t, list[0].IsRead())
	require.NotNil(t, list[0].Event)
	assert.Equal(t, "mention", list[0].Event.Type)
}

func TestNotificationRepository_ListForUser(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 4; i++ {
		ids = append(ids, seedNotification(t, repos, 1, "mention", baseTime.Add(time.Duration(i)*time.Minute), ""))
	}
	seedNotification(t, repos, 1, "reverted", baseTime.Add(time.Hour), "")
	seedNotification(t, repos, 2, "mention", baseTime, "")

	t.Run("newest first filtered by type", func(t *testing.T) {
		list, err := repos.Notification.ListForUser(ctx, 1, []string{"mention"}, domain.ListParams{Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, ids[3], list[0].EventID)
		assert.Equal(t, ids[0], list[3].EventID)
	})

	t.Run("continues from offset", func(t *testing.T) {
		ts := baseTime.Add(2 * time.Minute)
		list, err := repos.Notification.ListForUser(ctx, 1, []string{"mention"}, domain.ListParams{
			Limit: 10, Timestamp: &ts, Offset: ids[2],
		})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, ids[1], list[0].EventID)
	})

	t.Run("start point ignored without offset", func(t *testing.T) {
		ts := baseTime
		list, err := repos.Notification.ListForUser(ctx, 1, []string{"mention"}, domain.ListParams{Limit: 10, Timestamp: &ts})
		require.NoError(t, err)
		assert.Len(t, list, 4)
	})

	t.Run("limit", func(t *testing.T) {
		list, err := repos.Notification.ListForUser(ctx, 1, []string{"mention", "reverted"}, domain.ListParams{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("no enabled types", func(t *testing.T) {
		list, err := repos.Notification.ListForUser(ctx, 1, nil, domain.ListParams{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestNotificationRepository_BundleDemotion(t *testing.T) {
	repos, db := testutil.NewTestRepositories(t)
	ctx := context.Background()

	first := seedNotification(t, repos, 1, "edit-user-talk", baseTime, "abc")
	second := seedNotification(t, repos, 1, "edit-user-talk", baseTime.Add(time.Minute), "abc")
	third := seedNotification(t, repos, 1, "edit-user-talk", baseTime.Add(2*time.Minute), "abc")

	assert.Equal(t, 1, countBase(t, db, 1, "abc"))

	list, err := repos.Notification.ListForUser(ctx, 1, []string{"edit-user-talk"}, domain.ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, third, list[0].EventID)

	bundled, err := repos.Notification.ListBundled(ctx, 1, "abc")
	require.NoError(t, err)
	require.Len(t, bundled, 2)
	assert.Equal(t, second, bundled[0].EventID)
	assert.Equal(t, first, bundled[1].EventID)

	events, err := repos.Notification.RawBundleData(ctx, 1, "abc", domain.OutputWeb)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	stat, err := repos.Notification.LastBundleStat(ctx, 1, "abc")
	require.NoError(t, err)
	require.NotNil(t, stat)
	assert.Equal(t, "abc", stat.DisplayHash)
	assert.Nil(t, stat.ReadTimestamp)

	stat, err = repos.Notification.LastBundleStat(ctx, 1, "missing")
	require.NoError(t, err)
	assert.Nil(t, stat)
}

func TestNotificationRepository_RawBundleDataEmail(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := repos.Event.Create(ctx, newEvent("page-linked"))
		require.NoError(t, err)
		require.NoError(t, repos.EmailBatch.Add(ctx, &domain.EmailBatchItem{UserID: 1, EventID: id, EventPriority: 5, EventHash: "h1"}))
		ids = append(ids, id)
	}

	events, err := repos.Notification.RawBundleData(ctx, 1, "h1", domain.OutputEmail)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, ids[2], events[0].ID)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	a := seedNotification(t, repos, 1, "mention", baseTime, "")
	b := seedNotification(t, repos, 1, "mention", baseTime.Add(time.Minute), "")
	readAt := baseTime.Add(time.Hour)

	t.Run("empty list is a no-op", func(t *testing.T) {
		n, err := repos.Notification.MarkRead(ctx, 1, nil, readAt)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("sets read timestamp once", func(t *testing.T) {
		n, err := repos.Notification.MarkRead(ctx, 1, []int64{a}, readAt)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repos.Notification.MarkRead(ctx, 1, []int64{a}, readAt.Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n)

		list, err := repos.Notification.ListForUser(ctx, 1, []string{"mention"}, domain.ListParams{Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b, list[0].EventID)
		assert.False(t, list[0].IsRead())
		require.True(t, list[1].IsRead())
		assert.True(t, list[1].ReadTimestamp.Equal(readAt))
	})

	t.Run("mark all", func(t *testing.T) {
		n, err := repos.Notification.MarkAllRead(ctx, 1, readAt)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedNotification(t, repos, 1, "mention", baseTime.Add(time.Duration(i)*time.Second), "")
	}
	deleted := seedNotification(t, repos, 1, "mention", baseTime, "")
	require.NoError(t, repos.Event.MarkDeleted(ctx, []int64{deleted}))

	count, err := repos.Notification.CountUnread(ctx, domain.DBReplica, 1, []string{"mention"}, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	count, err = repos.Notification.CountUnread(ctx, domain.DBPrimary, 1, []string{"mention"}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repos.Notification.CountUnread(ctx, "bogus", 1, nil, 100)
	require.NoError(t, err)
	assert.Zero(t, count)
}
