package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"eventsearch/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateFuncs are shared by the html and text templates.
var templateFuncs = map[string]any{
	"day": func(t time.Time) string { return t.Format(time.DateOnly) },
	"tags": func(tags []string) string {
		if len(tags) == 0 {
			return ""
		}
		return "#" + strings.Join(tags, " #")
	},
}

// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
// Templates are looked up by file name: "<name>_subject.txt", "<name>.html" and "<name>.txt".
type templateRenderer struct {
	html *template.Template
	text *texttemplate.Template
}

// NewTemplateRenderer returns an EmailTemplateRenderer over the embedded templates folder.
// It panics if an embedded template does not parse.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		html: template.Must(template.New("email").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")),
		text: texttemplate.Must(texttemplate.New("email").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.txt")),
	}
}

// Render executes the named template (e.g. "event_notice") with data and returns subject, html, and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, templateName+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	// a subject is one line
	subject = strings.Join(strings.Fields(buf.String()), " ")

	buf.Reset()
	if err := r.html.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := r.text.ExecuteTemplate(&buf, templateName+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return subject, htmlBody, buf.String(), nil
}
