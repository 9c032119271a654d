package email

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/pkg/i18n"
	"wiki-echo/internal/service/icon"
	"wiki-echo/internal/service/presentation"
)

const (
	PrimaryLinkStyle    = "cursor:pointer; text-align:center; text-decoration:none; padding:.45em 0.6em .45em; color:#D9EEF7; background:#3366BB; font-family: Arial, Helvetica, sans-serif;font-size: 13px;"
	SecondaryLinkStyle  = "text-decoration: none;font-size: 10px;font-family: Arial, Helvetica, sans-serif; color: #808184;"
	preferenceLinkStyle = "text-decoration: none; color: #3868B0;"
	actionSeparator     = "&nbsp;&nbsp;"
)

// Rendered is a ready to send email.
type Rendered struct {
	Subject string
	Body    string
}

// DigestItem is one bundle in a digest email. Count includes the bundle head.
type DigestItem struct {
	Model presentation.Model
	Count int
}

// Formatter renders presentation models into the HTML email layout.
type Formatter struct {
	site          presentation.Site
	icons         icon.Service
	wikiID        string
	footerAddress string
}

func NewFormatter(site presentation.Site, icons icon.Service, wikiID, footerAddress string) *Formatter {
	return &Formatter{
		site:          site,
		icons:         icons,
		wikiID:        wikiID,
		footerAddress: footerAddress,
	}
}

type singleData struct {
	LangCode   string
	Dir        string
	AlignStart string
	IconURL    string
	Intro      template.HTML
	Summary    string
	Action     template.HTML
	Footer     template.HTML
}

// Format renders a single notification email.
func (f *Formatter) Format(ctx context.Context, model presentation.Model) (*Rendered, error) {
	lang := model.Lang()

	var actions []string
	if primary := presentation.PrimaryLinkWithMarkAsRead(model, f.wikiID); primary != nil {
		actions = append(actions, f.renderLink(primary, PrimaryLinkStyle))
	}
	for _, link := range model.SecondaryLinks() {
		if link != nil {
			actions = append(actions, f.renderLink(link, SecondaryLinkStyle))
		}
	}

	data := singleData{
		LangCode:   lang,
		Dir:        i18n.Dir(lang),
		AlignStart: i18n.AlignStart(lang),
		IconURL:    f.iconURL(ctx, model),
		Intro:      template.HTML(model.HeaderMessage()),
		Summary:    model.BodyMessage(),
		Action:     template.HTML(strings.Join(actions, actionSeparator)),
		Footer:     f.Footer(lang),
	}

	var body bytes.Buffer
	if err := singleTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	return &Rendered{
		Subject: presentation.Subject(model),
		Body:    body.String(),
	}, nil
}

type digestRow struct {
	IconURL string
	Header  template.HTML
	More    string
}

type digestData struct {
	LangCode   string
	Dir        string
	AlignStart string
	Intro      string
	Rows       []digestRow
	Action     template.HTML
	Footer     template.HTML
}

// FormatDigest renders a daily or weekly digest for user.
func (f *Formatter) FormatDigest(ctx context.Context, user *domain.User, items []DigestItem) (*Rendered, error) {
	lang := user.LanguageCode()
	period := "daily"
	if user.EmailFrequency == domain.EmailFrequencyWeekly {
		period = "weekly"
	}

	total := 0
	rows := make([]digestRow, 0, len(items))
	for _, item := range items {
		total += item.Count
		row := digestRow{
			IconURL: f.iconURL(ctx, item.Model),
			Header:  template.HTML(presentation.CompactHeader(item.Model)),
		}
		if item.Count > 1 {
			row.More = i18n.Message(lang, "echo-email-batch-bundle-more", strconv.Itoa(item.Count-1))
		}
		rows = append(rows, row)
	}

	viewAll := &domain.Link{
		URL:   f.site.NotificationsURL(),
		Label: i18n.Translate(lang, "echo-email-batch-link-text-view-all-notifications"),
	}

	data := digestData{
		LangCode:   lang,
		Dir:        i18n.Dir(lang),
		AlignStart: i18n.AlignStart(lang),
		Intro:      i18n.Message(lang, "echo-email-batch-body-intro-"+period, user.Name, f.site.Name),
		Rows:       rows,
		Action:     template.HTML(f.renderLink(viewAll, PrimaryLinkStyle)),
		Footer:     f.Footer(lang),
	}

	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute digest template: %w", err)
	}

	return &Rendered{
		Subject: i18n.Message(lang, "echo-email-batch-subject-"+period, strconv.Itoa(total), f.site.Name),
		Body:    body.String(),
	}, nil
}

// Footer links to the notification preferences, followed by the configured
// postal address if any.
func (f *Formatter) Footer(lang string) template.HTML {
	prefLink := f.renderLink(&domain.Link{
		URL:   f.site.PreferencesURL(),
		Label: i18n.Translate(lang, "echo-email-html-footer-preference-link-text"),
	}, preferenceLinkStyle)

	footer := i18n.Message(lang, "echo-email-html-footer-with-link", prefLink)
	if f.footerAddress != "" {
		footer += "<br />" + f.footerAddress
	}
	return template.HTML(footer)
}

func (f *Formatter) renderLink(link *domain.Link, style string) string {
	return fmt.Sprintf(`<a href="%s" style="%s">%s</a>`,
		html.EscapeString(f.site.Expand(link.URL)),
		html.EscapeString(style),
		html.EscapeString(link.Label),
	)
}

func (f *Formatter) iconURL(ctx context.Context, model presentation.Model) string {
	if f.icons == nil {
		return ""
	}
	return f.site.Expand(f.icons.RasterizedURL(ctx, model.IconType(), model.Lang()))
}
