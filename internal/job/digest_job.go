package job

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/pkg/logger"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service/email"
	"wiki-echo/internal/service/presentation"
)

// MaxDigestItems caps the queued rows read for one digest.
const MaxDigestItems = 100

// DigestJob sends the daily and weekly notification digests.
type DigestJob struct {
	repos    *repository.Repositories
	factory  *presentation.Factory
	emailSvc email.Service
	now      func() time.Time
}

func NewDigestJob(repos *repository.Repositories, factory *presentation.Factory, emailSvc email.Service) *DigestJob {
	return &DigestJob{
		repos:    repos,
		factory:  factory,
		emailSvc: emailSvc,
		now:      time.Now,
	}
}

// SetClock replaces the time source used to judge digest periods.
func (j *DigestJob) SetClock(now func() time.Time) {
	j.now = now
}

func (j *DigestJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-digest-"+uuid.NewString())
	if err := j.Process(ctx); err != nil {
		log.ErrorContext(ctx, "digest job failed", "err", err)
	}
}

// Process sends a digest to every user with queued rows whose period has
// elapsed since their last digest.
func (j *DigestJob) Process(ctx context.Context) error {
	userIDs, err := j.repos.EmailBatch.UsersWithPending(ctx)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	users, err := j.repos.User.GetByIDs(ctx, userIDs)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "DigestJob processing", "user_count", len(userIDs))

	sent := 0
	for _, uid := range userIDs {
		user, ok := users[uid]
		if !ok {
			continue
		}
		done, err := j.processUser(ctx, user)
		if err != nil {
			log.ErrorContext(ctx, "digest failed", "user_id", uid, "err", err)
			continue
		}
		if done {
			sent++
		}
	}

	log.InfoContext(ctx, "DigestJob finished", "sent", sent)
	return nil
}

type digestEntry struct {
	head  *domain.Event
	count int
}

func (j *DigestJob) processUser(ctx context.Context, user *domain.User) (bool, error) {
	now := j.now().UTC().Truncate(time.Second)

	if user.EmailFrequency == domain.EmailFrequencyNever {
		return false, j.repos.EmailBatch.DeleteForUser(ctx, user.ID)
	}
	if period := user.EmailFrequency.Period(); period > 0 && user.EmailBatchSentAt != nil {
		if now.Sub(*user.EmailBatchSentAt) < period {
			return false, nil
		}
	}

	items, err := j.repos.EmailBatch.ListForUser(ctx, user.ID, MaxDigestItems)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return false, nil
	}

	entries, err := j.collect(ctx, user, items)
	if err != nil {
		return false, err
	}

	var events []*domain.Event
	for _, e := range entries {
		events = append(events, e.head)
		events = append(events, e.head.BundledEvents...)
	}
	if err := j.hydrateAgents(ctx, events); err != nil {
		return false, err
	}

	lang := user.LanguageCode()
	digest := make([]email.DigestItem, 0, len(entries))
	for _, e := range entries {
		model := j.factory.New(e.head, user, lang, domain.OutputEmail)
		if !model.CanRender() {
			continue
		}
		digest = append(digest, email.DigestItem{Model: model, Count: e.count})
	}

	sendErr := j.emailSvc.SendDigest(ctx, user, digest)
	if sendErr != nil && !errors.Is(sendErr, email.ErrNoAddress) {
		return false, sendErr
	}

	if err := j.repos.EmailBatch.DeleteByIDs(ctx, user.ID, queueIDs(items)); err != nil {
		return false, err
	}
	if err := j.repos.User.MarkBatchSent(ctx, user.ID, now); err != nil {
		return false, err
	}
	return sendErr == nil && len(digest) > 0, nil
}

// collect folds queued rows into one entry per bundle, keeping the
// priority order of the queue.
func (j *DigestJob) collect(ctx context.Context, user *domain.User, items []*domain.EmailBatchItem) ([]digestEntry, error) {
	var singleIDs []int64
	seenHash := map[string]bool{}
	var order []string

	bundles := map[string][]*domain.Event{}
	for _, item := range items {
		if item.EventHash == "" {
			singleIDs = append(singleIDs, item.EventID)
			order = append(order, "")
			continue
		}
		if seenHash[item.EventHash] {
			continue
		}
		seenHash[item.EventHash] = true
		order = append(order, item.EventHash)

		events, err := j.repos.Notification.RawBundleData(ctx, user.ID, item.EventHash, domain.OutputEmail)
		if err != nil {
			return nil, err
		}
		bundles[item.EventHash] = liveEvents(events)
	}

	singles := map[int64]*domain.Event{}
	if len(singleIDs) > 0 {
		events, err := j.repos.Event.GetByIDs(ctx, singleIDs)
		if err != nil {
			return nil, err
		}
		for _, e := range liveEvents(events) {
			singles[e.ID] = e
		}
	}

	var entries []digestEntry
	next := 0
	for _, key := range order {
		if key == "" {
			id := singleIDs[next]
			next++
			if e, ok := singles[id]; ok {
				entries = append(entries, digestEntry{head: e, count: 1})
			}
			continue
		}
		events := bundles[key]
		if len(events) == 0 {
			continue
		}
		head := events[0]
		head.BundledEvents = events[1:]
		entries = append(entries, digestEntry{head: head, count: len(events)})
	}
	return entries, nil
}

func (j *DigestJob) hydrateAgents(ctx context.Context, events []*domain.Event) error {
	var ids []int64
	for _, e := range events {
		if e.AgentID != 0 {
			ids = append(ids, e.AgentID)
		}
	}
	agents, err := j.repos.User.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, e := range events {
		switch {
		case e.AgentID != 0:
			name := e.Extra().String("agent-name")
			if u, ok := agents[e.AgentID]; ok && u.Name != "" {
				name = u.Name
			}
			e.Agent = &domain.Agent{ID: e.AgentID, Name: name}
		case e.AgentIP != nil:
			e.Agent = &domain.Agent{Name: *e.AgentIP}
		}
	}
	return nil
}

func liveEvents(events []*domain.Event) []*domain.Event {
	out := events[:0]
	for _, e := range events {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}

// queueIDs lists the rows a digest consumed. Rows past the page stay
// queued for the next run.
func queueIDs(items []*domain.EmailBatchItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
