package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidContinue = errors.New("invalid continue token")

// ListParams is timestamp+event keyset pagination for notification lists.
// Both Timestamp and Offset must be set for the start point to apply.
type ListParams struct {
	Limit     int
	Timestamp *time.Time
	Offset    int64
}

const (
	DefaultListLimit = 25
	MaxListLimit     = 50
)

func (p *ListParams) Validate() {
	if p.Limit < 1 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
}

func (p *ListParams) HasStart() bool {
	return p.Timestamp != nil && p.Offset > 0
}

// ParseContinue reads a "utcunix|eventid" token.
func ParseContinue(token string) (*time.Time, int64, error) {
	if token == "" {
		return nil, 0, nil
	}
	parts := strings.SplitN(token, "|", 2)
	if len(parts) != 2 {
		return nil, 0, ErrInvalidContinue
	}
	unix, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, 0, ErrInvalidContinue
	}
	offset, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || offset <= 0 {
		return nil, 0, ErrInvalidContinue
	}
	ts := time.Unix(unix, 0).UTC()
	return &ts, offset, nil
}

func FormatContinue(ts time.Time, eventID int64) string {
	return strconv.FormatInt(ts.Unix(), 10) + "|" + strconv.FormatInt(eventID, 10)
}

type NotificationList struct {
	List     []*FormattedNotification `json:"list"`
	Continue string                   `json:"continue,omitempty"`
}
