package maintenance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/maintenance"
	"wiki-echo/internal/testutil"
)

func TestBatchRowIterator_WalksInKeyOrder(t *testing.T) {
	ctx := context.Background()
	repos, db := testutil.NewTestRepositories(t)

	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, createEvent(t, repos, &domain.Event{Type: "welcome"}))
	}
	createEvent(t, repos, &domain.Event{Type: "mention"})

	it := maintenance.NewBatchRowIterator(db, "echo_event", "event_id", 2)
	it.AddConditions("event_type = ?", "welcome")
	it.SetFetchColumns("event_type")

	var seen []int64
	batches := 0
	for {
		batch, err := it.Next(ctx)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		batches++
		for _, row := range batch {
			assert.Equal(t, "welcome", row.String("event_type"))
			seen = append(seen, row.Int64("event_id"))
		}
	}
	assert.Equal(t, ids, seen)
	assert.Equal(t, 3, batches)
}

func TestBatchRowWriter_Write(t *testing.T) {
	ctx := context.Background()
	repos, db := testutil.NewTestRepositories(t)
	id := createEvent(t, repos, &domain.Event{Type: "welcome"})

	w := maintenance.NewBatchRowWriter(db, "echo_event", "event_id")
	require.NoError(t, w.Write(ctx, nil))
	require.NoError(t, w.Write(ctx, []maintenance.RowUpdate{
		{ID: id, Changes: map[string]any{"event_page_id": int64(5), "event_page_title": "Home"}},
	}))

	ev, err := repos.Event.GetByID(ctx, id, true)
	require.NoError(t, err)
	require.NotNil(t, ev.PageID)
	assert.Equal(t, int64(5), *ev.PageID)
	assert.Equal(t, "Home", *ev.PageTitle)
}
