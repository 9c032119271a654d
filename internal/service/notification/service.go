package notification

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"wiki-echo/internal/config"
	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service/countcache"
	"wiki-echo/internal/service/email"
	"wiki-echo/internal/service/formatter"
	"wiki-echo/internal/service/preference"
	"wiki-echo/internal/service/presentation"
)

var ErrUnknownType = errors.New("unknown notification type")

type Service interface {
	Notify(ctx context.Context, input domain.NotifyInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, user *domain.User, format string, params domain.ListParams) (*domain.NotificationList, error)
	UnreadCount(ctx context.Context, user *domain.User, source string) (*domain.UnreadCount, error)
	MarkRead(ctx context.Context, user *domain.User, eventIDs []int64) (int64, error)
	MarkAllRead(ctx context.Context, user *domain.User) (int64, error)
}

type service struct {
	repos     *repository.Repositories
	prefSvc   preference.Service
	emailSvc  email.Service
	formatter *formatter.Formatter
	factory   *presentation.Factory
	deleter   *DeferredDeleter
	registry  *domain.Registry
	counts    *countcache.Cache
	config    *config.Config
}

func NewService(
	repos *repository.Repositories,
	prefSvc preference.Service,
	emailSvc email.Service,
	formatter *formatter.Formatter,
	factory *presentation.Factory,
	deleter *DeferredDeleter,
	registry *domain.Registry,
	counts *countcache.Cache,
	cfg *config.Config,
) Service {
	return &service{
		repos:     repos,
		prefSvc:   prefSvc,
		emailSvc:  emailSvc,
		formatter: formatter,
		factory:   factory,
		deleter:   deleter,
		registry:  registry,
		counts:    counts,
		config:    cfg,
	}
}

type delivery struct {
	user  *domain.User
	web   bool
	email bool
}

// Notify stores the event and fans it out to every recipient except the
// agent, on the channels each recipient has enabled for its type. All
// rows are written in one transaction so a failed call leaves nothing
// behind and can be retried.
func (s *service) Notify(ctx context.Context, input domain.NotifyInput) (*domain.Event, error) {
	if _, ok := s.registry.Type(input.Type); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, input.Type)
	}

	recipients := uniqueIDs(input.Recipients)
	users, err := s.repos.User.GetByIDs(ctx, recipients)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	event := newEvent(input)
	deliveries, err := s.deliveries(ctx, event, input.AgentID, recipients, users)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	targetPageIDs := event.Extra().Int64s("target-page")

	err = s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		id, err := tx.Event.Create(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		event.ID = id

		var targetPages []domain.TargetPage
		for _, d := range deliveries {
			if d.web {
				if err := s.createWebNotification(ctx, tx, event, d.user.ID, now); err != nil {
					return err
				}
				for _, pageID := range targetPageIDs {
					targetPages = append(targetPages, domain.TargetPage{UserID: d.user.ID, PageID: pageID, EventID: event.ID})
				}
			}
			if d.email {
				if err := s.queueDigest(ctx, tx, event, d.user); err != nil {
					return err
				}
			}
		}

		if err := tx.TargetPage.Create(ctx, targetPages); err != nil {
			return fmt.Errorf("failed to record target pages: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range deliveries {
		if d.web {
			s.counts.InvalidateCount(ctx, d.user.ID)
		}
		if d.email && d.user.EmailFrequency == domain.EmailFrequencySingle {
			s.sendSingle(event, d.user)
		}
	}

	log.InfoContext(ctx, "event notified", "event_id", event.ID, "type", event.Type, "recipients", len(recipients))
	return event, nil
}

// deliveries resolves the channels each recipient gets event on.
func (s *service) deliveries(ctx context.Context, event *domain.Event, agentID int64, recipients []int64, users map[int64]*domain.User) ([]delivery, error) {
	var out []delivery
	for _, userID := range recipients {
		if userID == agentID && userID != 0 {
			continue
		}
		user, ok := users[userID]
		if !ok {
			user = &domain.User{ID: userID, EmailFrequency: domain.EmailFrequencySingle}
		}

		webTypes, err := s.prefSvc.EnabledEventTypes(ctx, user, domain.OutputWeb)
		if err != nil {
			return nil, err
		}
		emailTypes, err := s.prefSvc.EnabledEventTypes(ctx, user, domain.OutputEmail)
		if err != nil {
			return nil, err
		}

		d := delivery{
			user:  user,
			web:   contains(webTypes, event.Type),
			email: contains(emailTypes, event.Type) && user.EmailFrequency != domain.EmailFrequencyNever,
		}
		if d.web || d.email {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *service) createWebNotification(ctx context.Context, repos *repository.Repositories, event *domain.Event, userID int64, now time.Time) error {
	notif := &domain.Notification{
		EventID:    event.ID,
		UserID:     userID,
		Timestamp:  now,
		BundleBase: true,
	}

	if s.registry.CanBundle(event.Type, domain.OutputWeb) {
		notif.BundleHash = BundleHash(event)
		stat, err := repos.Notification.LastBundleStat(ctx, userID, notif.BundleHash)
		if err != nil {
			return fmt.Errorf("failed to load bundle stat: %w", err)
		}
		if stat != nil && stat.ReadTimestamp == nil && stat.DisplayHash != "" {
			notif.DisplayHash = stat.DisplayHash
		} else {
			notif.DisplayHash = DisplayHash(notif.BundleHash, event.ID)
		}
	}

	if err := repos.Notification.Create(ctx, notif); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// queueDigest adds a digest row for daily and weekly users. Single-email
// users are mailed once the event is committed.
func (s *service) queueDigest(ctx context.Context, repos *repository.Repositories, event *domain.Event, user *domain.User) error {
	if user.EmailFrequency.Period() <= 0 {
		return nil
	}
	hash := ""
	if s.registry.CanBundle(event.Type, domain.OutputEmail) {
		hash = BundleHash(event)
	}
	item := &domain.EmailBatchItem{
		UserID:        user.ID,
		EventID:       event.ID,
		EventPriority: s.registry.Priority(event.Type),
		EventHash:     hash,
	}
	if err := repos.EmailBatch.Add(ctx, item); err != nil {
		return fmt.Errorf("failed to queue email: %w", err)
	}
	return nil
}

func (s *service) sendSingle(event *domain.Event, user *domain.User) {
	if s.emailSvc == nil || user.Email == "" {
		return
	}
	go func() {
		ctx := context.Background()
		model := s.factory.New(event, user, user.LanguageCode(), domain.OutputEmail)
		if !model.CanRender() {
			return
		}
		if err := s.emailSvc.SendNotification(ctx, user, model); err != nil {
			log.ErrorContext(ctx, "failed to send notification email", "event_id", event.ID, "user_id", user.ID, "err", err)
		}
	}()
}

func (s *service) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.repos.Event.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateAgents(ctx, []*domain.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// List returns the user's bundle heads newest first, formatted for format.
func (s *service) List(ctx context.Context, user *domain.User, format string, params domain.ListParams) (*domain.NotificationList, error) {
	params.Validate()
	result := &domain.NotificationList{List: []*domain.FormattedNotification{}}

	types, err := s.prefSvc.EnabledEventTypes(ctx, user, domain.OutputWeb)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return result, nil
	}

	notifs, err := s.repos.Notification.ListForUser(ctx, user.ID, types, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if err := s.hydrate(ctx, user, notifs); err != nil {
		return nil, err
	}

	lang := user.LanguageCode()
	for _, n := range notifs {
		if out, ok := s.formatter.FormatOutput(ctx, n, format, user, lang); ok {
			result.List = append(result.List, out)
		}
	}

	if s.deleter != nil && s.deleter.Pending() > 0 {
		go func() {
			_ = s.deleter.Flush(context.Background())
		}()
	}

	if len(notifs) == params.Limit {
		last := notifs[len(notifs)-1]
		result.Continue = domain.FormatContinue(last.Timestamp, last.EventID)
	}
	return result, nil
}

// hydrate attaches bundled rows, agents and target pages to notifs.
func (s *service) hydrate(ctx context.Context, user *domain.User, notifs []*domain.Notification) error {
	var events []*domain.Event
	eventIDs := make([]int64, 0, len(notifs))
	for _, n := range notifs {
		events = append(events, n.Event)
		eventIDs = append(eventIDs, n.EventID)

		if n.DisplayHash == "" || !s.registry.CanBundle(n.Event.Type, domain.OutputWeb) {
			continue
		}
		bundled, err := s.repos.Notification.ListBundled(ctx, user.ID, n.DisplayHash)
		if err != nil {
			return fmt.Errorf("failed to load bundle: %w", err)
		}
		n.BundledNotifications = bundled
		for _, b := range bundled {
			events = append(events, b.Event)
		}
	}

	if err := s.hydrateAgents(ctx, events); err != nil {
		return err
	}

	pages, err := s.repos.TargetPage.ListForEvents(ctx, user.ID, eventIDs)
	if err != nil {
		return fmt.Errorf("failed to load target pages: %w", err)
	}
	for _, n := range notifs {
		n.TargetPages = pages[n.EventID]
	}
	return nil
}

func (s *service) hydrateAgents(ctx context.Context, events []*domain.Event) error {
	var agentIDs []int64
	for _, e := range events {
		if e.AgentID != 0 {
			agentIDs = append(agentIDs, e.AgentID)
		}
	}

	users := map[int64]*domain.User{}
	if len(agentIDs) > 0 {
		var err error
		users, err = s.repos.User.GetByIDs(ctx, uniqueIDs(agentIDs))
		if err != nil {
			return fmt.Errorf("failed to load agents: %w", err)
		}
	}

	for _, e := range events {
		switch {
		case e.AgentID != 0:
			name := e.Extra().String("agent-name")
			if u, ok := users[e.AgentID]; ok && u.Name != "" {
				name = u.Name
			}
			e.Agent = &domain.Agent{ID: e.AgentID, Name: name}
		case e.AgentIP != nil:
			e.Agent = &domain.Agent{Name: *e.AgentIP}
		}
	}
	return nil
}

// UnreadCount counts unread bundle heads up to the configured maximum.
// Replica reads are served from the cache when possible.
func (s *service) UnreadCount(ctx context.Context, user *domain.User, source string) (*domain.UnreadCount, error) {
	if source != domain.DBPrimary {
		source = domain.DBReplica
	}
	maxCount := s.config.MaxNotificationCount

	if source == domain.DBReplica {
		if cached, ok := s.counts.Get(ctx, user.ID); ok {
			return formatCount(cached, maxCount), nil
		}
	}

	types, err := s.prefSvc.EnabledEventTypes(ctx, user, domain.OutputWeb)
	if err != nil {
		return nil, err
	}

	count, err := s.repos.Notification.CountUnread(ctx, source, user.ID, types, maxCount+1)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	s.counts.Set(ctx, user.ID, count)
	return formatCount(count, maxCount), nil
}

func (s *service) MarkRead(ctx context.Context, user *domain.User, eventIDs []int64) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC().Truncate(time.Second)
	updated, err := s.repos.Notification.MarkRead(ctx, user.ID, eventIDs, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if err := s.repos.TargetPage.DeleteForEvents(ctx, user.ID, eventIDs); err != nil {
		return 0, fmt.Errorf("failed to clear target pages: %w", err)
	}
	s.counts.InvalidateCount(ctx, user.ID)
	return updated, nil
}

func (s *service) MarkAllRead(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC().Truncate(time.Second)
	updated, err := s.repos.Notification.MarkAllRead(ctx, user.ID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.counts.InvalidateCount(ctx, user.ID)
	return updated, nil
}

// formatCount renders "max+" once count exceeds maxCount.
func formatCount(count, maxCount int64) *domain.UnreadCount {
	out := &domain.UnreadCount{Count: strconv.FormatInt(count, 10), RawCount: count}
	if count > maxCount {
		out.Count = strconv.FormatInt(maxCount, 10) + "+"
	}
	return out
}

func newEvent(input domain.NotifyInput) *domain.Event {
	event := &domain.Event{
		Type:          input.Type,
		AgentID:       input.AgentID,
		PageNamespace: input.PageNamespace,
		PageID:        input.PageID,
	}
	if input.Variant != "" {
		v := input.Variant
		event.Variant = &v
	}
	if input.AgentIP != "" {
		ip := input.AgentIP
		event.AgentIP = &ip
	}
	if input.PageTitle != "" {
		title := domain.NewTitle(0, input.PageTitle).DBKey
		event.PageTitle = &title
	}

	extra := domain.EventExtra{}
	for k, v := range input.Extra {
		extra[k] = v
	}
	if input.AgentName != "" {
		extra["agent-name"] = input.AgentName
	}
	_ = event.SetExtra(extra)

	switch {
	case event.AgentID != 0:
		event.Agent = &domain.Agent{ID: event.AgentID, Name: input.AgentName}
	case event.AgentIP != nil:
		event.Agent = &domain.Agent{Name: *event.AgentIP}
	}
	return event
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
