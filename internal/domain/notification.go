package domain

import "time"

// Notification is the per-recipient fan-out row of an Event.
type Notification struct {
	EventID       int64      `json:"event_id" db:"notification_event"`
	UserID        int64      `json:"user_id" db:"notification_user"`
	Timestamp     time.Time  `json:"timestamp" db:"notification_timestamp"`
	ReadTimestamp *time.Time `json:"read_timestamp,omitempty" db:"notification_read_timestamp"`
	BundleBase    bool       `json:"bundle_base" db:"notification_bundle_base"`
	BundleHash    string     `json:"bundle_hash" db:"notification_bundle_hash"`
	DisplayHash   string     `json:"bundle_display_hash" db:"notification_bundle_display_hash"`

	Event                *Event          `json:"-" db:"-"`
	BundledNotifications []*Notification `json:"-" db:"-"`
	TargetPages          []int64         `json:"-" db:"-"`
}

func (n *Notification) IsRead() bool {
	return n.ReadTimestamp != nil
}

// NotificationRow is one row of the notification/event join.
type NotificationRow struct {
	Notification
	Event
}

// ToNotification splits a joined row into a notification with its event attached.
func (r *NotificationRow) ToNotification() *Notification {
	n := r.Notification
	ev := r.Event
	n.Event = &ev
	return &n
}

// BundleStat is the newest read state of a bundle for a user.
type BundleStat struct {
	ReadTimestamp *time.Time `db:"notification_read_timestamp"`
	DisplayHash   string     `db:"notification_bundle_display_hash"`
}

// EmailBatchItem is a queued event awaiting a digest email.
type EmailBatchItem struct {
	ID            int64  `db:"eeb_id"`
	UserID        int64  `db:"eeb_user_id"`
	EventID       int64  `db:"eeb_event_id"`
	EventPriority int    `db:"eeb_event_priority"`
	EventHash     string `db:"eeb_event_hash"`
}

// TargetPage links a notification to a page whose visit marks it read.
type TargetPage struct {
	UserID  int64 `db:"etp_user"`
	PageID  int64 `db:"etp_page"`
	EventID int64 `db:"etp_event"`
}

// Output formats accepted by the backend when selecting enabled types.
const (
	OutputWeb   = "web"
	OutputEmail = "email"
)

// DB sources for reads that may need read-your-writes.
const (
	DBReplica = "replica"
	DBPrimary = "primary"
)
