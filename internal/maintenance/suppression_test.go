package maintenance_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/maintenance"
	"wiki-echo/internal/mocks"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/testutil"
)

type stubResolver struct {
	mu    sync.Mutex
	ids   map[string]int64
	calls [][]string
}

func (s *stubResolver) Resolve(_ context.Context, titles []string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, titles)
	out := map[string]int64{}
	for _, t := range titles {
		if id, ok := s.ids[t]; ok {
			out[t] = id
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func createEvent(t *testing.T, repos *repository.Repositories, ev *domain.Event) int64 {
	t.Helper()
	id, err := repos.Event.Create(context.Background(), ev)
	require.NoError(t, err)
	return id
}

func TestRunSuppressionUpdate(t *testing.T) {
	ctx := context.Background()
	repos, db := testutil.NewTestRepositories(t)

	mainPage := createEvent(t, repos, &domain.Event{
		Type: "edit-user-talk", PageNamespace: intPtr(domain.NSMain), PageTitle: strPtr("Main_Page"),
	})
	missing := createEvent(t, repos, &domain.Event{
		Type: "edit-user-talk", PageNamespace: intPtr(domain.NSTalk), PageTitle: strPtr("Gone"),
	})
	linkedEv := &domain.Event{Type: "page-linked", PageNamespace: intPtr(domain.NSMain), PageTitle: strPtr("Target")}
	require.NoError(t, linkedEv.SetExtra(domain.EventExtra{"link-from-namespace": 0, "link-from-title": "Source"}))
	linked := createEvent(t, repos, linkedEv)
	already := createEvent(t, repos, &domain.Event{
		Type: "edit-user-talk", PageNamespace: intPtr(domain.NSMain), PageTitle: strPtr("Main_Page"), PageID: func() *int64 { v := int64(99); return &v }(),
	})
	noTitle := createEvent(t, repos, &domain.Event{Type: "welcome"})

	resolver := &stubResolver{ids: map[string]int64{"Main Page": 10, "Target": 20, "Source": 30}}

	var output []string
	ran, err := maintenance.RunSuppressionUpdate(ctx, db, db, repos.UpdateLog, resolver, 2, func(s string) {
		output = append(output, s)
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.NotEmpty(t, output)

	get := func(id int64) *domain.Event {
		ev, err := repos.Event.GetByID(ctx, id, true)
		require.NoError(t, err)
		require.NotNil(t, ev)
		return ev
	}

	ev := get(mainPage)
	require.NotNil(t, ev.PageID)
	assert.Equal(t, int64(10), *ev.PageID)

	assert.Nil(t, get(missing).PageID)

	ev = get(linked)
	require.NotNil(t, ev.PageID)
	assert.Equal(t, int64(20), *ev.PageID)
	assert.Equal(t, int64(30), ev.Extra().Int64("link-from-page-id"))
	assert.Equal(t, "Source", ev.Extra().String("link-from-title"))

	assert.Equal(t, int64(99), *get(already).PageID)
	assert.Nil(t, get(noTitle).PageID)

	done, err := repos.UpdateLog.Exists(ctx, maintenance.SuppressionUpdateKey)
	require.NoError(t, err)
	assert.True(t, done)

	calls := len(resolver.calls)
	ran, err = maintenance.RunSuppressionUpdate(ctx, db, db, repos.UpdateLog, resolver, 2, func(string) {})
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, calls, len(resolver.calls))
}

func TestSuppressionRowUpdateGenerator_LeavesUnresolvedRows(t *testing.T) {
	gen := maintenance.NewSuppressionRowUpdateGenerator(&stubResolver{ids: map[string]int64{}})

	changes, err := gen.Update(context.Background(), maintenance.Row{
		"event_id":             int64(1),
		"event_page_namespace": int64(0),
		"event_page_title":     "Nowhere",
		"event_type":           "page-linked",
		"event_extra":          `{"link-from-title":"Elsewhere","link-from-namespace":0}`,
	})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestSuppressionRowUpdateGenerator_PreparesBatchInOneLookup(t *testing.T) {
	ctx := context.Background()
	resolver := &stubResolver{ids: map[string]int64{"A": 1, "User talk:B": 2}}
	gen := maintenance.NewSuppressionRowUpdateGenerator(resolver)

	rows := []maintenance.Row{
		{"event_id": int64(1), "event_page_namespace": int64(0), "event_page_title": []byte("A"), "event_type": "x"},
		{"event_id": int64(2), "event_page_namespace": int64(domain.NSUserTalk), "event_page_title": "B", "event_type": "x"},
		{"event_id": int64(3), "event_page_namespace": int64(0), "event_page_title": "A", "event_type": "x"},
	}
	require.NoError(t, gen.Prepare(ctx, rows))
	require.Len(t, resolver.calls, 1)
	assert.ElementsMatch(t, []string{"A", "User talk:B"}, resolver.calls[0])

	for i, want := range []int64{1, 2, 1} {
		changes, err := gen.Update(ctx, rows[i])
		require.NoError(t, err)
		assert.Equal(t, want, changes["event_page_id"])
	}
	assert.Len(t, resolver.calls, 1)
}

func TestRunSuppressionUpdate_UpdateLogGuards(t *testing.T) {
	ctx := context.Background()

	updateLog := new(mocks.UpdateLogRepository)
	updateLog.On("Exists", mock.Anything, maintenance.SuppressionUpdateKey).Return(true, nil).Once()

	var output []string
	ran, err := maintenance.RunSuppressionUpdate(ctx, nil, nil, updateLog, &stubResolver{}, 10, func(s string) {
		output = append(output, s)
	})
	require.NoError(t, err)
	assert.False(t, ran)
	require.Len(t, output, 1)
	assert.Contains(t, output[0], maintenance.SuppressionUpdateKey)

	updateLog.On("Exists", mock.Anything, maintenance.SuppressionUpdateKey).Return(false, errors.New("db down")).Once()
	_, err = maintenance.RunSuppressionUpdate(ctx, nil, nil, updateLog, &stubResolver{}, 10, func(string) {})
	assert.Error(t, err)
	updateLog.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
