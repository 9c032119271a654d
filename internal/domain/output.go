package domain

// FormattedNotification is the API shape of one notification.
type FormattedNotification struct {
	Wiki                 string                   `json:"wiki"`
	ID                   int64                    `json:"id"`
	Type                 string                   `json:"type"`
	Category             string                   `json:"category"`
	Timestamp            OutputTimestamp          `json:"timestamp"`
	BundledIDs           []int64                  `json:"bundledIds,omitempty"`
	Variant              string                   `json:"variant,omitempty"`
	Title                *OutputTitle             `json:"title,omitempty"`
	Agent                *OutputAgent             `json:"agent,omitempty"`
	RevID                int64                    `json:"revid,omitempty"`
	Read                 string                   `json:"read,omitempty"`
	TargetPages          []int64                  `json:"targetpages"`
	Formatted            any                      `json:"*,omitempty"`
	BundledNotifications []*FormattedNotification `json:"bundledNotifications,omitempty"`
}

// OutputTimestamp carries the same instant in the encodings clients expect.
// UTC values are in UTC, the others in the viewer's local time.
type OutputTimestamp struct {
	UTCISO8601 string `json:"utciso8601"`
	UTCUnix    string `json:"utcunix"`
	Unix       string `json:"unix"`
	UTCMW      string `json:"utcmw"`
	MW         string `json:"mw"`
	Date       string `json:"date"`
}

type OutputTitle struct {
	Full         string `json:"full"`
	Namespace    string `json:"namespace"`
	NamespaceKey int    `json:"namespace-key"`
	Text         string `json:"text"`
}

// OutputAgent is either {id, name} or {userhidden: ""}.
type OutputAgent struct {
	ID         *int64  `json:"id,omitempty"`
	Name       string  `json:"name,omitempty"`
	UserHidden *string `json:"userhidden,omitempty"`
}

func VisibleAgent(a *Agent) *OutputAgent {
	id := a.ID
	return &OutputAgent{ID: &id, Name: a.Name}
}

func HiddenAgent() *OutputAgent {
	empty := ""
	return &OutputAgent{UserHidden: &empty}
}

// UnreadCount is the badge value. Count reads "max+" once capped.
type UnreadCount struct {
	Count    string `json:"count"`
	RawCount int64  `json:"rawcount"`
}

// Link is a labelled URL rendered by presentation surfaces.
type Link struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}
