package formatter

import (
	"bytes"
	"context"
	"html/template"
	log "log/slog"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/pkg/i18n"
	"wiki-echo/internal/service/presentation"
)

type surface func(ctx context.Context, f *Formatter, model presentation.Model) any

var surfaces = map[string]surface{
	"flyout":  formatFlyout,
	"model":   formatModel,
	"special": formatSpecial,
	"html":    formatSpecial,
}

// ModelOutput is the structured rendering consumed by client side widgets.
type ModelOutput struct {
	Header         string         `json:"header"`
	CompactHeader  string         `json:"compactHeader"`
	Body           string         `json:"body"`
	Icon           string         `json:"icon"`
	IconURL        string         `json:"iconUrl"`
	PrimaryLink    *domain.Link   `json:"primaryLink,omitempty"`
	SecondaryLinks []*domain.Link `json:"secondaryLinks"`
}

func formatModel(ctx context.Context, f *Formatter, model presentation.Model) any {
	secondary := []*domain.Link{}
	for _, l := range model.SecondaryLinks() {
		if l != nil {
			secondary = append(secondary, l)
		}
	}
	return &ModelOutput{
		Header:         model.HeaderMessage(),
		CompactHeader:  presentation.CompactHeader(model),
		Body:           model.BodyMessage(),
		Icon:           model.IconType(),
		IconURL:        f.iconURL(ctx, model),
		PrimaryLink:    model.PrimaryLink(),
		SecondaryLinks: secondary,
	}
}

type rowData struct {
	Dir       string
	IconURL   string
	Header    template.HTML
	Body      string
	Primary   *domain.Link
	Secondary []*domain.Link
}

var flyoutTemplate = template.Must(template.New("flyout").Parse(
	`<div class="mw-echo-state" dir="{{.Dir}}">` +
		`{{if .IconURL}}<img class="mw-echo-icon" src="{{.IconURL}}" alt="">{{end}}` +
		`<div class="mw-echo-content">` +
		`<div class="mw-echo-title">{{.Header}}</div>` +
		`{{if .Primary}}<a class="mw-echo-notification-primary-link" href="{{.Primary.URL}}"></a>{{end}}` +
		`</div></div>`))

var specialTemplate = template.Must(template.New("special").Parse(
	`<div class="mw-echo-notification" dir="{{.Dir}}">` +
		`{{if .IconURL}}<img class="mw-echo-icon" src="{{.IconURL}}" alt="">{{end}}` +
		`<div class="mw-echo-content">` +
		`<div class="mw-echo-header">{{.Header}}</div>` +
		`{{if .Body}}<div class="mw-echo-body">{{.Body}}</div>{{end}}` +
		`<div class="mw-echo-links">` +
		`{{if .Primary}}<a class="mw-echo-primary-link" href="{{.Primary.URL}}">{{.Primary.Label}}</a>{{end}}` +
		`{{range .Secondary}} <a class="mw-echo-secondary-link" href="{{.URL}}">{{.Label}}</a>{{end}}` +
		`</div></div></div>`))

// formatFlyout renders the compact header with a mark-as-read primary link.
func formatFlyout(ctx context.Context, f *Formatter, model presentation.Model) any {
	return render(ctx, flyoutTemplate, rowData{
		Dir:     i18n.Dir(model.Lang()),
		IconURL: f.iconURL(ctx, model),
		Header:  template.HTML(presentation.CompactHeader(model)),
		Primary: presentation.PrimaryLinkWithMarkAsRead(model, f.wikiID),
	})
}

func formatSpecial(ctx context.Context, f *Formatter, model presentation.Model) any {
	var secondary []*domain.Link
	for _, l := range model.SecondaryLinks() {
		if l != nil {
			secondary = append(secondary, l)
		}
	}
	return render(ctx, specialTemplate, rowData{
		Dir:       i18n.Dir(model.Lang()),
		IconURL:   f.iconURL(ctx, model),
		Header:    template.HTML(model.HeaderMessage()),
		Body:      model.BodyMessage(),
		Primary:   model.PrimaryLink(),
		Secondary: secondary,
	})
}

func render(ctx context.Context, tmpl *template.Template, data rowData) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.ErrorContext(ctx, "failed to render notification", "template", tmpl.Name(), "err", err)
		return ""
	}
	return buf.String()
}
