package formatter

import (
	"context"
	"strconv"
	"time"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/service/icon"
	"wiki-echo/internal/service/presentation"
)

const (
	tsMW      = "20060102150405"
	tsISO8601 = "2006-01-02T15:04:05Z"
)

// Deleter queues events that can no longer be displayed for a deferred
// mark-as-deleted.
type Deleter interface {
	Add(event *domain.Event)
}

// Formatter turns stored notifications into their API representation.
type Formatter struct {
	factory  *presentation.Factory
	registry *domain.Registry
	icons    icon.Service
	wikiID   string
	deleter  Deleter
	now      func() time.Time
}

func New(factory *presentation.Factory, registry *domain.Registry, icons icon.Service, wikiID string, deleter Deleter) *Formatter {
	return &Formatter{
		factory:  factory,
		registry: registry,
		icons:    icons,
		wikiID:   wikiID,
		deleter:  deleter,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for date headers.
func (f *Formatter) SetClock(now func() time.Time) {
	f.now = now
}

// Formats lists the supported surfaces.
func Formats() []string {
	return []string{"flyout", "model", "special", "html"}
}

// FormatOutput formats n for user. An empty format skips rendering of the
// "*" field. It returns false when the notification cannot be displayed, in
// which case its event is handed to the deleter.
func (f *Formatter) FormatOutput(ctx context.Context, n *domain.Notification, format string, user *domain.User, lang string) (*domain.FormattedNotification, bool) {
	event := n.Event

	var bundledIDs []int64
	if len(n.BundledNotifications) > 0 {
		bundled := make([]*domain.Event, 0, len(n.BundledNotifications))
		for _, b := range n.BundledNotifications {
			bundled = append(bundled, b.Event)
			bundledIDs = append(bundledIDs, b.Event.ID)
		}
		event.BundledEvents = bundled
	}

	ts := n.Timestamp.UTC()
	loc := user.Location()
	local := ts.In(loc)
	_, offset := local.Zone()

	out := &domain.FormattedNotification{
		Wiki:     f.wikiID,
		ID:       event.ID,
		Type:     event.Type,
		Category: f.registry.CategoryOf(event.Type),
		Timestamp: domain.OutputTimestamp{
			UTCISO8601: ts.Format(tsISO8601),
			UTCUnix:    strconv.FormatInt(ts.Unix(), 10),
			Unix:       strconv.FormatInt(ts.Unix()+int64(offset), 10),
			UTCMW:      ts.Format(tsMW),
			MW:         local.Format(tsMW),
			Date:       f.dateHeader(user, lang, ts),
		},
		BundledIDs:  bundledIDs,
		Variant:     event.VariantString(),
		TargetPages: []int64{},
	}

	if title := event.Title(); title != nil {
		out.Title = &domain.OutputTitle{
			Full:         title.PrefixedText(),
			Namespace:    title.NSText(),
			NamespaceKey: title.Namespace,
			Text:         title.Text(),
		}
	}

	if event.Agent != nil {
		if event.UserCanSeeAgent(user) {
			out.Agent = domain.VisibleAgent(event.Agent)
		} else {
			out.Agent = domain.HiddenAgent()
		}
	}

	out.RevID = event.RevisionID()

	if n.ReadTimestamp != nil {
		out.Read = n.ReadTimestamp.UTC().Format(tsMW)
	}

	if len(n.TargetPages) > 0 {
		out.TargetPages = append(out.TargetPages, n.TargetPages...)
	}

	if format == "" {
		return out, true
	}

	formatted, ok := f.formatNotification(ctx, event, user, format, lang)
	if !ok {
		if f.deleter != nil {
			f.deleter.Add(event)
		}
		return nil, false
	}
	out.Formatted = formatted

	if len(n.BundledNotifications) > 0 && f.registry.IsBundleExpandable(event.Type) {
		all := append([]*domain.Notification{n}, n.BundledNotifications...)
		for _, item := range all {
			single := singleNotification(item)
			if fo, ok := f.FormatOutput(ctx, single, format, user, lang); ok {
				out.BundledNotifications = append(out.BundledNotifications, fo)
			}
		}
	}

	return out, true
}

func (f *Formatter) formatNotification(ctx context.Context, event *domain.Event, user *domain.User, format, lang string) (any, bool) {
	render, ok := surfaces[format]
	if !ok {
		return nil, false
	}
	model := f.factory.New(event, user, lang, domain.OutputWeb)
	if !model.CanRender() {
		return nil, false
	}
	return render(ctx, f, model), true
}

// singleNotification copies n without its bundle so it formats on its own.
func singleNotification(n *domain.Notification) *domain.Notification {
	c := *n
	c.BundledNotifications = nil
	if n.Event != nil {
		ev := *n.Event
		ev.BundledEvents = nil
		c.Event = &ev
	}
	return &c
}

func (f *Formatter) iconURL(ctx context.Context, model presentation.Model) string {
	if f.icons == nil {
		return ""
	}
	return f.icons.RasterizedURL(ctx, model.IconType(), model.Lang())
}
