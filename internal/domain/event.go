package domain

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Event is the immutable record of an action that may notify users.
type Event struct {
	ID            int64   `json:"id" db:"event_id"`
	Type          string  `json:"type" db:"event_type"`
	Variant       *string `json:"variant,omitempty" db:"event_variant"`
	AgentID       int64   `json:"agent_id" db:"event_agent_id"`
	AgentIP       *string `json:"agent_ip,omitempty" db:"event_agent_ip"`
	PageNamespace *int    `json:"page_namespace,omitempty" db:"event_page_namespace"`
	PageTitle     *string `json:"page_title,omitempty" db:"event_page_title"`
	PageID        *int64  `json:"page_id,omitempty" db:"event_page_id"`
	ExtraJSON     *string `json:"-" db:"event_extra"`
	Deleted       bool    `json:"deleted" db:"event_deleted"`

	Agent         *Agent   `json:"-" db:"-"`
	BundledEvents []*Event `json:"-" db:"-"`

	extra EventExtra
}

// EventExtra is the free-form payload attached to an event.
type EventExtra map[string]any

// Agent is the user or IP address that caused an event.
type Agent struct {
	ID   int64
	Name string
}

func (a *Agent) IsAnonymous() bool {
	return a.ID == 0
}

type NotifyInput struct {
	Type          string     `json:"type"`
	Variant       string     `json:"variant,omitempty"`
	AgentID       int64      `json:"agent_id"`
	AgentName     string     `json:"agent_name,omitempty"`
	AgentIP       string     `json:"agent_ip,omitempty"`
	PageNamespace *int       `json:"page_namespace,omitempty"`
	PageTitle     string     `json:"page_title,omitempty"`
	PageID        *int64     `json:"page_id,omitempty"`
	Extra         EventExtra `json:"extra,omitempty"`
	Recipients    []int64    `json:"recipients"`
}

// Extra decodes and memoizes the serialized extra payload.
func (e *Event) Extra() EventExtra {
	if e.extra != nil {
		return e.extra
	}
	e.extra = EventExtra{}
	if e.ExtraJSON != nil && *e.ExtraJSON != "" {
		_ = json.Unmarshal([]byte(*e.ExtraJSON), &e.extra)
	}
	return e.extra
}

// SetExtra replaces the extra payload and refreshes its serialized form.
func (e *Event) SetExtra(extra EventExtra) error {
	serialized, err := SerializeExtra(extra)
	if err != nil {
		return err
	}
	e.extra = extra
	e.ExtraJSON = serialized
	return nil
}

func SerializeExtra(extra EventExtra) (*string, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// Title returns the page the event is about, or nil.
func (e *Event) Title() *Title {
	if e.PageTitle == nil || *e.PageTitle == "" {
		return nil
	}
	ns := 0
	if e.PageNamespace != nil {
		ns = *e.PageNamespace
	}
	return NewTitle(ns, *e.PageTitle)
}

// RevisionID returns extra["revid"] when present.
func (e *Event) RevisionID() int64 {
	return e.Extra().Int64("revid")
}

func (e *Event) VariantString() string {
	if e.Variant == nil {
		return ""
	}
	return *e.Variant
}

// UserCanSeeAgent reports whether viewer may see the agent. Agents of
// revisions with a suppressed user are only visible to users with the
// deletedhistory right.
func (e *Event) UserCanSeeAgent(viewer *User) bool {
	if !e.Extra().Bool("rev-deleted-user") {
		return true
	}
	return viewer != nil && viewer.HasRight(RightDeletedHistory)
}

func (x EventExtra) Int64(key string) int64 {
	switch v := x[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

func (x EventExtra) String(key string) string {
	if v, ok := x[key].(string); ok {
		return v
	}
	return ""
}

func (x EventExtra) Bool(key string) bool {
	switch v := x[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	}
	return false
}

// Int64s reads a list of ids, accepting a single id as well.
func (x EventExtra) Int64s(key string) []int64 {
	var out []int64
	switch v := x[key].(type) {
	case []any:
		for _, item := range v {
			out = append(out, EventExtra{"v": item}.Int64("v"))
		}
	case []int64:
		out = append(out, v...)
	case nil:
	default:
		if n := x.Int64(key); n != 0 {
			out = append(out, n)
		}
	}
	return out
}
