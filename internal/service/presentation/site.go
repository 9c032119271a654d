package presentation

import (
	"net/url"
	"strconv"
	"strings"

	"wiki-echo/internal/domain"
)

// Site builds canonical URLs on the wiki the notifications point into.
type Site struct {
	Name    string
	BaseURL string
}

func (s Site) PageURL(t *domain.Title) string {
	return s.BaseURL + "/wiki/" + escapeTitle(t.PrefixedDBKey())
}

func (s Site) SpecialURL(page string) string {
	return s.BaseURL + "/wiki/Special:" + escapeTitle(page)
}

func (s Site) UserPageURL(name string) string {
	return s.PageURL(domain.NewTitle(domain.NSUser, name))
}

func (s Site) DiffURL(revID int64) string {
	q := url.Values{}
	q.Set("diff", strconv.FormatInt(revID, 10))
	q.Set("oldid", "prev")
	return s.BaseURL + "/w/index.php?" + q.Encode()
}

// PreferencesURL points at the notification section of user preferences.
func (s Site) PreferencesURL() string {
	return s.SpecialURL("Preferences") + "#mw-prefsection-echo"
}

func (s Site) NotificationsURL() string {
	return s.SpecialURL("Notifications")
}

// Expand makes a relative URL absolute on this site.
func (s Site) Expand(u string) string {
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return s.BaseURL + u
	}
	return u
}

func escapeTitle(dbKey string) string {
	return url.PathEscape(dbKey)
}

// AnchorEncode turns a section title into a fragment id.
func AnchorEncode(section string) string {
	return url.PathEscape(strings.ReplaceAll(section, " ", "_"))
}
