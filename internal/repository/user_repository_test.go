package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/testutil"
)

func TestUserRepository_Upsert(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	user := &domain.User{
		ID: 5, Name: "Alice", Email: "alice@example.org", Language: "de",
		Timezone: "Europe/Berlin", DateFormat: "dmy", Groups: "sysop",
		EmailFrequency: domain.EmailFrequencyDaily, UpdatedAt: baseTime,
	}
	require.NoError(t, repos.User.Upsert(ctx, user))

	user.Email = "alice@example.com"
	require.NoError(t, repos.User.Upsert(ctx, user))

	got, err := repos.User.GetByID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, domain.EmailFrequencyDaily, got.EmailFrequency)
	assert.True(t, got.InGroup(domain.GroupSysop))
	assert.Nil(t, got.EmailBatchSentAt)

	require.NoError(t, repos.User.MarkBatchSent(ctx, 5, baseTime.Add(time.Hour)))
	users, err := repos.User.GetByIDs(ctx, []int64{5, 6})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[5].EmailBatchSentAt)

	missing, err := repos.User.GetByID(ctx, 6)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPreferenceRepository_Set(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Preference.Set(ctx, 1, map[string]string{
		"echo-subscriptions-web-mention": "0",
		"echo-subscriptions-email-other": "1",
	}))
	require.NoError(t, repos.Preference.Set(ctx, 1, map[string]string{
		"echo-subscriptions-web-mention": "1",
	}))

	prefs, err := repos.Preference.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"echo-subscriptions-web-mention": "1",
		"echo-subscriptions-email-other": "1",
	}, prefs)
}

func TestEmailBatchRepository(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.EmailBatch.Add(ctx, &domain.EmailBatchItem{UserID: 1, EventID: 10, EventPriority: 9}))
	require.NoError(t, repos.EmailBatch.Add(ctx, &domain.EmailBatchItem{UserID: 1, EventID: 11, EventPriority: 1}))
	require.NoError(t, repos.EmailBatch.Add(ctx, &domain.EmailBatchItem{UserID: 1, EventID: 11, EventPriority: 1}))
	require.NoError(t, repos.EmailBatch.Add(ctx, &domain.EmailBatchItem{UserID: 2, EventID: 10, EventPriority: 9}))

	users, err := repos.EmailBatch.UsersWithPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, users)

	items, err := repos.EmailBatch.ListForUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(11), items[0].EventID)

	require.NoError(t, repos.EmailBatch.DeleteByIDs(ctx, 1, []int64{items[0].ID}))

	items, err = repos.EmailBatch.ListForUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, repos.EmailBatch.DeleteForUser(ctx, 1))

	items, err = repos.EmailBatch.ListForUser(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repos.EmailBatch.ListForUser(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1, "other users keep their rows")
}

func TestTargetPageRepository(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.TargetPage.Create(ctx, []domain.TargetPage{
		{UserID: 1, PageID: 100, EventID: 10},
		{UserID: 1, PageID: 101, EventID: 10},
		{UserID: 1, PageID: 100, EventID: 11},
		{UserID: 2, PageID: 100, EventID: 10},
	}))

	pages, err := repos.TargetPage.ListForEvents(ctx, 1, []int64{10, 11, 12})
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101}, pages[10])
	assert.Equal(t, []int64{100}, pages[11])
	assert.Empty(t, pages[12])

	require.NoError(t, repos.TargetPage.DeleteForEvents(ctx, 1, []int64{10}))
	pages, err = repos.TargetPage.ListForEvents(ctx, 1, []int64{10})
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestUpdateLogRepository(t *testing.T) {
	repos, _ := testutil.NewTestRepositories(t)
	ctx := context.Background()

	ok, err := repos.UpdateLog.Exists(ctx, "UpdateEchoSchemaForSuppression")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repos.UpdateLog.Insert(ctx, "UpdateEchoSchemaForSuppression"))
	require.NoError(t, repos.UpdateLog.Insert(ctx, "UpdateEchoSchemaForSuppression"))

	ok, err = repos.UpdateLog.Exists(ctx, "UpdateEchoSchemaForSuppression")
	require.NoError(t, err)
	assert.True(t, ok)
}
