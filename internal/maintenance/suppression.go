package maintenance

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
)

const (
	// SuppressionUpdateKey marks the event_page_id backfill as done.
	SuppressionUpdateKey = "UpdateEchoSchemaForSuppression"

	DefaultBatchSize = 500
)

// SuppressionRowUpdateGenerator fills event_page_id from the stored page
// title, and link-from-page-id for page-linked events.
type SuppressionRowUpdateGenerator struct {
	resolver PageResolver
	pageIDs  map[string]int64
}

func NewSuppressionRowUpdateGenerator(resolver PageResolver) *SuppressionRowUpdateGenerator {
	return &SuppressionRowUpdateGenerator{resolver: resolver, pageIDs: map[string]int64{}}
}

// Prepare resolves every title referenced by the batch in bulk.
func (g *SuppressionRowUpdateGenerator) Prepare(ctx context.Context, rows []Row) error {
	seen := map[string]bool{}
	var titles []string
	add := func(t *domain.Title) {
		if t == nil {
			return
		}
		name := t.PrefixedText()
		if _, cached := g.pageIDs[name]; cached || seen[name] {
			return
		}
		seen[name] = true
		titles = append(titles, name)
	}

	for _, row := range rows {
		add(rowTitle(row))
		add(linkFromTitle(row))
	}
	if len(titles) == 0 {
		return nil
	}

	resolved, err := g.resolver.Resolve(ctx, titles)
	if err != nil {
		return err
	}
	for _, name := range titles {
		g.pageIDs[name] = resolved[name]
	}
	return nil
}

func (g *SuppressionRowUpdateGenerator) Update(ctx context.Context, row Row) (map[string]any, error) {
	changes := map[string]any{}

	if title := rowTitle(row); title != nil {
		if id, err := g.pageID(ctx, title); err != nil {
			return nil, err
		} else if id != 0 {
			changes["event_page_id"] = id
		}
	}

	if row.String("event_type") == "page-linked" {
		extraChange, err := g.pageLinkedExtra(ctx, row)
		if err != nil {
			return nil, err
		}
		if extraChange != nil {
			changes["event_extra"] = *extraChange
		}
	}

	return changes, nil
}

// pageLinkedExtra adds link-from-page-id next to the stored link source title.
func (g *SuppressionRowUpdateGenerator) pageLinkedExtra(ctx context.Context, row Row) (*string, error) {
	from := linkFromTitle(row)
	if from == nil {
		return nil, nil
	}
	extra := rowExtra(row)
	if extra.Int64("link-from-page-id") != 0 {
		return nil, nil
	}
	id, err := g.pageID(ctx, from)
	if err != nil || id == 0 {
		return nil, err
	}
	extra["link-from-page-id"] = id
	return domain.SerializeExtra(extra)
}

func (g *SuppressionRowUpdateGenerator) pageID(ctx context.Context, t *domain.Title) (int64, error) {
	name := t.PrefixedText()
	if id, ok := g.pageIDs[name]; ok {
		return id, nil
	}
	resolved, err := g.resolver.Resolve(ctx, []string{name})
	if err != nil {
		return 0, err
	}
	g.pageIDs[name] = resolved[name]
	return resolved[name], nil
}

func rowTitle(row Row) *domain.Title {
	if row.IsNull("event_page_title") || row.String("event_page_title") == "" {
		return nil
	}
	return domain.NewTitle(int(row.Int64("event_page_namespace")), row.String("event_page_title"))
}

func rowExtra(row Row) domain.EventExtra {
	raw := row.String("event_extra")
	ev := &domain.Event{ExtraJSON: &raw}
	return ev.Extra()
}

func linkFromTitle(row Row) *domain.Title {
	if row.String("event_type") != "page-linked" {
		return nil
	}
	extra := rowExtra(row)
	title := extra.String("link-from-title")
	if title == "" {
		return nil
	}
	return domain.NewTitle(int(extra.Int64("link-from-namespace")), title)
}

// RunSuppressionUpdate backfills event_page_id once. It reports whether
// the update ran.
func RunSuppressionUpdate(ctx context.Context, primary, replica *sqlx.DB, updateLog repository.UpdateLogRepository, resolver PageResolver, batchSize int, output func(string)) (bool, error) {
	done, err := updateLog.Exists(ctx, SuppressionUpdateKey)
	if err != nil {
		return false, err
	}
	if done {
		output(fmt.Sprintf("...%s key set, skipping\n", SuppressionUpdateKey))
		return false, nil
	}

	reader := NewBatchRowIterator(replica, "echo_event", "event_id", batchSize)
	reader.AddConditions("event_page_title IS NOT NULL")
	reader.AddConditions("event_page_id IS NULL")
	reader.SetFetchColumns("event_page_namespace", "event_page_title", "event_extra", "event_type")

	updater := NewBatchRowUpdate(
		reader,
		NewBatchRowWriter(primary, "echo_event", "event_id"),
		NewSuppressionRowUpdateGenerator(resolver),
	)
	updater.SetOutput(output)

	updated, err := updater.Execute(ctx)
	if err != nil {
		return false, err
	}

	if err := updateLog.Insert(ctx, SuppressionUpdateKey); err != nil {
		return false, err
	}
	log.InfoContext(ctx, "suppression update complete", "rows_updated", updated)
	return true, nil
}
