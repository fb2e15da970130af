package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"launch_notifier/internal/domain"
)

const (
	subjectTimeFormat = "02 Jan 2006 15:04 MST"
	bodyTimeFormat    = "Mon Jan 02 2006 15:04 MST"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type RendererKind string

const (
	RendererPlaintext RendererKind = "plaintext"
	RendererHTML      RendererKind = "html"
)

// ParseRendererKind maps a config value to a renderer. Empty means plaintext.
func ParseRendererKind(s string) (RendererKind, error) {
	switch RendererKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", RendererPlaintext:
		return RendererPlaintext, nil
	case RendererHTML:
		return RendererHTML, nil
	default:
		return "", fmt.Errorf("%w: unknown renderer %q", domain.ErrConfig, s)
	}
}

// Message is a rendered notification.
type Message struct {
	Subject  string
	Text     string
	HTML     string
	Launches *domain.LaunchCollection
}

type templateData struct {
	Count    int
	Launches []domain.Launch
	Now      string
}

// Renderer turns a launch collection into a Message.
type Renderer struct {
	kind    RendererKind
	loc     *time.Location
	now     func() time.Time
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// NewRenderer parses the embedded templates. Local times are shown in loc.
func NewRenderer(kind RendererKind, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{kind: kind, loc: loc, now: time.Now}
	funcs := r.funcs()

	var err error
	r.subject, err = texttemplate.New("subject.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/subject.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse subject template: %w", err)
	}
	r.text, err = texttemplate.New("launches.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/launches.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}

	switch kind {
	case RendererPlaintext:
	case RendererHTML:
		r.html, err = htmltemplate.New("launches.html.tmpl").Funcs(htmltemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/launches.html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse html template: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown renderer %q", domain.ErrConfig, kind)
	}
	return r, nil
}

func (r *Renderer) Kind() RendererKind {
	return r.kind
}

func (r *Renderer) Render(c *domain.LaunchCollection) (Message, error) {
	data := templateData{
		Count:    c.Count,
		Launches: c.Results,
		Now:      r.now().In(r.loc).Format(subjectTimeFormat),
	}

	var subject, text bytes.Buffer
	if err := r.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render subject: %w", err)
	}
	if err := r.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}

	msg := Message{
		Subject:  strings.TrimSpace(subject.String()),
		Text:     text.String(),
		Launches: c,
	}

	if r.html != nil {
		var html bytes.Buffer
		if err := r.html.Execute(&html, data); err != nil {
			return Message{}, fmt.Errorf("render html body: %w", err)
		}
		msg.HTML = html.String()
	}
	return msg, nil
}

func (r *Renderer) funcs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"formatTime": func(ts *string) string {
			return formatWireTime(ts, time.UTC)
		},
		"localFormatTime": func(ts *string) string {
			return formatWireTime(ts, r.loc)
		},
		"statusName": func(l domain.Launch) string {
			if name := l.StatusName(); name != nil {
				return *name
			}
			return ""
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// formatWireTime returns "" for a missing or unparsable timestamp.
func formatWireTime(ts *string, loc *time.Location) string {
	if ts == nil {
		return ""
	}
	t, err := time.Parse(domain.WireTimeFormat, *ts)
	if err != nil {
		return ""
	}
	return t.In(loc).Format(bodyTimeFormat)
}
