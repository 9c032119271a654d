package domain

import (
	"strings"
	"time"
)

// User mirrors the wiki account fields the notification service needs.
type User struct {
	ID               int64          `json:"id" db:"user_id"`
	Name             string         `json:"name" db:"user_name"`
	Email            string         `json:"email" db:"user_email"`
	Language         string         `json:"language" db:"user_language"`
	Timezone         string         `json:"timezone" db:"user_timezone"`
	DateFormat       string         `json:"date_format" db:"user_date_format"`
	Groups           string         `json:"groups" db:"user_groups"`
	EmailFrequency   EmailFrequency `json:"email_frequency" db:"user_email_frequency"`
	EmailBatchSentAt *time.Time     `json:"-" db:"user_email_batch_sent_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"user_updated_at"`
}

type SyncUserInput struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Language       string          `json:"language"`
	Timezone       string          `json:"timezone"`
	DateFormat     string          `json:"date_format"`
	Groups         []string        `json:"groups"`
	EmailFrequency *EmailFrequency `json:"email_frequency"`
}

// EmailFrequency follows the wiki's echo-email-frequency option values.
type EmailFrequency int

const (
	EmailFrequencyNever  EmailFrequency = -1
	EmailFrequencySingle EmailFrequency = 0
	EmailFrequencyDaily  EmailFrequency = 1
	EmailFrequencyWeekly EmailFrequency = 7
)

func (f EmailFrequency) IsValid() bool {
	switch f {
	case EmailFrequencyNever, EmailFrequencySingle, EmailFrequencyDaily, EmailFrequencyWeekly:
		return true
	}
	return false
}

// Period is the minimum time between digests, zero for non-digest frequencies.
func (f EmailFrequency) Period() time.Duration {
	switch f {
	case EmailFrequencyDaily:
		return 24 * time.Hour
	case EmailFrequencyWeekly:
		return 7 * 24 * time.Hour
	}
	return 0
}

const (
	GroupBot   = "bot"
	GroupSysop = "sysop"

	RightDeletedHistory = "deletedhistory"
)

var groupRights = map[string][]string{
	GroupSysop: {RightDeletedHistory},
	"suppress": {RightDeletedHistory},
}

func (u *User) GroupList() []string {
	if u.Groups == "" {
		return nil
	}
	parts := strings.Split(u.Groups, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (u *User) InGroup(group string) bool {
	for _, g := range u.GroupList() {
		if g == group {
			return true
		}
	}
	return false
}

func (u *User) HasRight(right string) bool {
	for _, g := range u.GroupList() {
		for _, r := range groupRights[g] {
			if r == right {
				return true
			}
		}
	}
	return false
}

// Location resolves the user's timezone, falling back to UTC.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (u *User) LanguageCode() string {
	if u.Language == "" {
		return "en"
	}
	return u.Language
}

// Preference keys stored per user.
func SubscriptionOption(outputFormat, category string) string {
	return "echo-subscriptions-" + outputFormat + "-" + category
}

type Preference struct {
	UserID   int64  `json:"-" db:"up_user"`
	Property string `json:"property" db:"up_property"`
	Value    string `json:"value" db:"up_value"`
}

// Subscriptions maps output format to category to enabled.
type Subscriptions map[string]map[string]bool

type PreferenceSettings struct {
	EmailFrequency EmailFrequency `json:"email_frequency"`
	Subscriptions  Subscriptions  `json:"subscriptions"`
}

type UpdatePreferencesInput struct {
	Subscriptions  Subscriptions   `json:"subscriptions"`
	EmailFrequency *EmailFrequency `json:"email_frequency"`
}
