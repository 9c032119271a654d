package presentation

import (
	"strconv"
	"strings"

	"wiki-echo/internal/domain"
)

const bodyExcerptLength = 150

type welcomeModel struct{ *base }

func (m *welcomeModel) HeaderMessage() string {
	name := ""
	if m.viewer != nil {
		name = m.viewer.Name
	}
	return m.msg("notification-header-welcome", m.site.Name, name)
}

func (m *welcomeModel) PrimaryLink() *domain.Link {
	target := m.event.Extra().String("welcome-link")
	if target == "" {
		target = "/wiki/Help:Getting_started"
	}
	return &domain.Link{URL: m.site.Expand(target), Label: m.text("notification-welcome-link-text")}
}

type editUserTalkModel struct{ *base }

func (m *editUserTalkModel) CanRender() bool {
	return m.event.Title() != nil
}

func (m *editUserTalkModel) HeaderMessage() string {
	if m.isBundled() {
		return m.msg("notification-bundle-header-edit-user-talk", strconv.Itoa(m.bundleCount()))
	}
	if section := m.event.Extra().String("section-title"); section != "" {
		return m.msg("notification-header-edit-user-talk-with-section", m.agentName(), section)
	}
	return m.msg("notification-header-edit-user-talk", m.agentName())
}

func (m *editUserTalkModel) CompactHeaderMessage() string {
	if m.isBundled() {
		return ""
	}
	return m.msg("notification-header-edit-user-talk", m.agentName())
}

func (m *editUserTalkModel) SubjectMessage() string {
	if m.isBundled() {
		return ""
	}
	return m.msg("notification-subject-edit-user-talk", m.agentName())
}

func (m *editUserTalkModel) BodyMessage() string {
	if m.isBundled() {
		return ""
	}
	return excerpt(m.event.Extra().String("content"), bodyExcerptLength)
}

func (m *editUserTalkModel) PrimaryLink() *domain.Link {
	u := m.site.PageURL(m.event.Title())
	if m.isBundled() {
		return &domain.Link{URL: u, Label: m.text("notification-link-text-view-messages")}
	}
	if section := m.event.Extra().String("section-title"); section != "" {
		u += "#" + AnchorEncode(section)
	}
	return &domain.Link{URL: u, Label: m.text("notification-link-text-view-message")}
}

func (m *editUserTalkModel) SecondaryLinks() []*domain.Link {
	if m.isBundled() {
		return nil
	}
	return []*domain.Link{m.agentLink(), m.diffLink()}
}

type mentionModel struct{ *base }

func (m *mentionModel) CanRender() bool {
	return m.event.Title() != nil
}

func (m *mentionModel) HeaderMessage() string {
	return m.msg("notification-header-mention", m.agentName(), m.titleText())
}

func (m *mentionModel) BodyMessage() string {
	return excerpt(m.event.Extra().String("content"), bodyExcerptLength)
}

func (m *mentionModel) PrimaryLink() *domain.Link {
	u := m.site.PageURL(m.event.Title())
	if section := m.event.Extra().String("section-title"); section != "" {
		u += "#" + AnchorEncode(section)
	}
	return &domain.Link{URL: u, Label: m.text("notification-link-text-view-mention")}
}

func (m *mentionModel) SecondaryLinks() []*domain.Link {
	return []*domain.Link{m.agentLink(), m.diffLink()}
}

type revertedModel struct{ *base }

func (m *revertedModel) CanRender() bool {
	return m.event.Title() != nil
}

func (m *revertedModel) HeaderMessage() string {
	return m.msg("notification-header-reverted", m.agentName(), m.titleText())
}

func (m *revertedModel) BodyMessage() string {
	return excerpt(m.event.Extra().String("summary"), bodyExcerptLength)
}

func (m *revertedModel) PrimaryLink() *domain.Link {
	if link := m.diffLink(); link != nil {
		return link
	}
	return &domain.Link{URL: m.site.PageURL(m.event.Title()), Label: m.text("notification-link-text-view-page")}
}

func (m *revertedModel) SecondaryLinks() []*domain.Link {
	return []*domain.Link{m.agentLink()}
}

type pageLinkedModel struct{ *base }

func (m *pageLinkedModel) CanRender() bool {
	return m.event.Title() != nil && m.event.Extra().String("link-from-title") != ""
}

func (m *pageLinkedModel) HeaderMessage() string {
	from := m.event.Extra().String("link-from-title")
	if m.isBundled() {
		return m.msg("notification-bundle-header-page-linked", from, m.titleText(), strconv.Itoa(m.bundleCount()-1))
	}
	return m.msg("notification-header-page-linked", from, m.titleText())
}

func (m *pageLinkedModel) PrimaryLink() *domain.Link {
	extra := m.event.Extra()
	from := domain.NewTitle(int(extra.Int64("link-from-namespace")), extra.String("link-from-title"))
	return &domain.Link{URL: m.site.PageURL(from), Label: m.text("notification-link-text-view-page")}
}

func (m *pageLinkedModel) SecondaryLinks() []*domain.Link {
	return []*domain.Link{{
		URL:   m.site.SpecialURL("WhatLinksHere/" + m.event.Title().PrefixedDBKey()),
		Label: m.text("notification-link-text-what-links-here"),
	}}
}

type userRightsModel struct{ *base }

func (m *userRightsModel) groups(key string) []string {
	var out []string
	switch v := m.event.Extra()[key].(type) {
	case []any:
		for _, g := range v {
			if s, ok := g.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	}
	return out
}

func (m *userRightsModel) CanRender() bool {
	return len(m.groups("add")) > 0 || len(m.groups("remove")) > 0
}

func (m *userRightsModel) HeaderMessage() string {
	add := strings.Join(m.groups("add"), ", ")
	remove := strings.Join(m.groups("remove"), ", ")
	switch {
	case add != "" && remove != "":
		return m.msg("notification-header-user-rights-add-and-remove", m.agentName(), add, remove)
	case add != "":
		return m.msg("notification-header-user-rights-add-only", m.agentName(), add)
	default:
		return m.msg("notification-header-user-rights-remove-only", m.agentName(), remove)
	}
}

func (m *userRightsModel) PrimaryLink() *domain.Link {
	return &domain.Link{URL: m.site.SpecialURL("ListGroupRights"), Label: m.text("notification-link-text-view-user-rights")}
}

func (m *userRightsModel) SecondaryLinks() []*domain.Link {
	return []*domain.Link{m.agentLink()}
}

type emailUserModel struct{ *base }

func (m *emailUserModel) CanRender() bool {
	return m.event.AgentID != 0
}

func (m *emailUserModel) HeaderMessage() string {
	return m.msg("notification-header-emailuser", m.agentName())
}

func (m *emailUserModel) SubjectMessage() string {
	return m.msg("notification-subject-emailuser", m.agentName())
}

func (m *emailUserModel) PrimaryLink() *domain.Link {
	return m.agentLink()
}
