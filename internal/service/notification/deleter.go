package notification

import (
	"context"
	log "log/slog"
	"sort"
	"sync"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
)

// DeferredDeleter collects events that failed to render and flags them
// deleted once the response that found them is done.
type DeferredDeleter struct {
	events repository.EventRepository

	mu      sync.Mutex
	pending map[int64]struct{}
}

func NewDeferredDeleter(events repository.EventRepository) *DeferredDeleter {
	return &DeferredDeleter{
		events:  events,
		pending: make(map[int64]struct{}),
	}
}

func (d *DeferredDeleter) Add(event *domain.Event) {
	if event == nil || event.ID == 0 {
		return
	}
	d.mu.Lock()
	d.pending[event.ID] = struct{}{}
	d.mu.Unlock()
}

func (d *DeferredDeleter) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush marks every queued event deleted. Failed ids are re-queued.
func (d *DeferredDeleter) Flush(ctx context.Context) error {
	d.mu.Lock()
	ids := make([]int64, 0, len(d.pending))
	for id := range d.pending {
		ids = append(ids, id)
	}
	d.pending = make(map[int64]struct{})
	d.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if err := d.events.MarkDeleted(ctx, ids); err != nil {
		d.mu.Lock()
		for _, id := range ids {
			d.pending[id] = struct{}{}
		}
		d.mu.Unlock()
		log.ErrorContext(ctx, "failed to mark events deleted", "event_ids", ids, "err", err)
		return err
	}
	log.InfoContext(ctx, "marked unformattable events deleted", "count", len(ids))
	return nil
}
