package formatter

import (
	"html"
	"strconv"
	"time"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/pkg/i18n"
)

const twoDays = 172800

var monthKeys = [12]string{
	"january", "february", "march", "april", "may_long", "june",
	"july", "august", "september", "october", "november", "december",
}

// dateHeader buckets ts into today, yesterday or a pretty date, judged in
// the user's local time.
func (f *Formatter) dateHeader(user *domain.User, lang string, ts time.Time) string {
	now := f.now().UTC()
	loc := user.Location()
	day := ts.In(loc).Format("20060102")

	if now.Unix()-ts.Unix() > twoDays {
		return prettyDate(user, lang, ts.In(loc))
	}
	if now.In(loc).Format("20060102") == day {
		return html.EscapeString(i18n.Translate(lang, "echo-date-today"))
	}
	if now.Add(-24*time.Hour).In(loc).Format("20060102") == day {
		return html.EscapeString(i18n.Translate(lang, "echo-date-yesterday"))
	}
	return prettyDate(user, lang, ts.In(loc))
}

// prettyDate renders "May 10" or "10 May" depending on the date preference.
func prettyDate(user *domain.User, lang string, local time.Time) string {
	pref := user.DateFormat
	if pref == "" {
		pref = "default"
	}
	key := "echo-pretty-date-" + pref
	if !i18n.Has(lang, key) {
		key = "echo-pretty-date-default"
	}
	month := i18n.Translate(lang, monthKeys[local.Month()-1])
	return i18n.Message(lang, key, month, strconv.Itoa(local.Day()))
}
