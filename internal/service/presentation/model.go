package presentation

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/pkg/i18n"
)

// Model renders the strings and links of one event for one viewer.
type Model interface {
	Event() *domain.Event
	Lang() string
	CanRender() bool
	IconType() string
	// HeaderMessage is HTML with user supplied parts escaped.
	HeaderMessage() string
	CompactHeaderMessage() string
	SubjectMessage() string
	BodyMessage() string
	PrimaryLink() *domain.Link
	SecondaryLinks() []*domain.Link
}

type constructor func(b *base) Model

var models = map[string]constructor{
	"welcome":        func(b *base) Model { return &welcomeModel{b} },
	"edit-user-talk": func(b *base) Model { return &editUserTalkModel{b} },
	"mention":        func(b *base) Model { return &mentionModel{b} },
	"reverted":       func(b *base) Model { return &revertedModel{b} },
	"page-linked":    func(b *base) Model { return &pageLinkedModel{b} },
	"user-rights":    func(b *base) Model { return &userRightsModel{b} },
	"emailuser":      func(b *base) Model { return &emailUserModel{b} },
}

type Factory struct {
	site     Site
	registry *domain.Registry
}

func NewFactory(site Site, registry *domain.Registry) *Factory {
	return &Factory{site: site, registry: registry}
}

func (f *Factory) Site() Site { return f.site }

// New builds the model for event. Types without a model never render.
func (f *Factory) New(event *domain.Event, viewer *domain.User, lang, distribution string) Model {
	b := &base{
		event:        event,
		viewer:       viewer,
		lang:         lang,
		distribution: distribution,
		site:         f.site,
	}
	if t, ok := f.registry.Type(event.Type); ok {
		b.icon = t.Icon
	}
	ctor, ok := models[event.Type]
	if !ok {
		return &unknownModel{b}
	}
	return ctor(b)
}

type base struct {
	event        *domain.Event
	viewer       *domain.User
	lang         string
	distribution string
	site         Site
	icon         string
}

func (b *base) Event() *domain.Event { return b.event }

func (b *base) Lang() string { return b.lang }

func (b *base) CanRender() bool { return true }

func (b *base) IconType() string {
	if b.icon == "" {
		return "placeholder"
	}
	return b.icon
}

func (b *base) CompactHeaderMessage() string { return "" }

func (b *base) SubjectMessage() string { return "" }

func (b *base) BodyMessage() string { return "" }

func (b *base) SecondaryLinks() []*domain.Link { return nil }

// msg translates key with params escaped for HTML.
func (b *base) msg(key string, params ...string) string {
	escaped := make([]string, len(params))
	for i, p := range params {
		escaped[i] = html.EscapeString(p)
	}
	return i18n.Message(b.lang, key, escaped...)
}

func (b *base) text(key string) string {
	return i18n.Translate(b.lang, key)
}

func (b *base) isBundled() bool {
	return len(b.event.BundledEvents) > 0
}

func (b *base) bundleCount() int {
	return len(b.event.BundledEvents) + 1
}

func (b *base) agentVisible() bool {
	return b.event.UserCanSeeAgent(b.viewer)
}

// agentName is the display name of the agent as the viewer may see it.
func (b *base) agentName() string {
	if !b.agentVisible() {
		return b.text("echo-rev-deleted-user")
	}
	if a := b.event.Agent; a != nil && a.Name != "" {
		return a.Name
	}
	if name := b.event.Extra().String("agent-name"); name != "" {
		return name
	}
	if b.event.AgentIP != nil {
		return *b.event.AgentIP
	}
	return b.text("echo-anon-user")
}

func (b *base) agentLink() *domain.Link {
	if !b.agentVisible() || b.event.AgentID == 0 {
		return nil
	}
	name := b.agentName()
	return &domain.Link{URL: b.site.UserPageURL(name), Label: name}
}

func (b *base) diffLink() *domain.Link {
	rev := b.event.RevisionID()
	if rev == 0 {
		return nil
	}
	return &domain.Link{URL: b.site.DiffURL(rev), Label: b.text("notification-link-text-view-changes")}
}

func (b *base) titleText() string {
	if t := b.event.Title(); t != nil {
		return t.PrefixedText()
	}
	return ""
}

// excerpt shortens s to at most n runes.
func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

type unknownModel struct{ *base }

func (m *unknownModel) CanRender() bool { return false }

func (m *unknownModel) HeaderMessage() string { return "" }

func (m *unknownModel) PrimaryLink() *domain.Link { return nil }

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText strips markup from a rendered message.
func PlainText(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

// CompactHeader falls back to the full header.
func CompactHeader(m Model) string {
	if h := m.CompactHeaderMessage(); h != "" {
		return h
	}
	return m.HeaderMessage()
}

// Subject falls back to the plain text header.
func Subject(m Model) string {
	if s := m.SubjectMessage(); s != "" {
		return PlainText(s)
	}
	return PlainText(m.HeaderMessage())
}

// PrimaryLinkWithMarkAsRead adds the markasread parameter to the primary
// link so following it clears the notification.
func PrimaryLinkWithMarkAsRead(m Model, wikiID string) *domain.Link {
	link := m.PrimaryLink()
	if link == nil {
		return nil
	}
	u, err := url.Parse(link.URL)
	if err != nil {
		return link
	}
	q := u.Query()
	q.Set("markasread", strconv.FormatInt(m.Event().ID, 10))
	if wikiID != "" {
		q.Set("markasreadwiki", wikiID)
	}
	u.RawQuery = q.Encode()
	return &domain.Link{URL: u.String(), Label: link.Label}
}
