package template

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/google/uuid"
)

// Renderer is the default Compiler. Subjects and sender names render as text
// templates, bodies as HTML templates, optionally wrapped in a layout that
// receives the rendered body as {{.Content}}.
type Renderer struct{}

var _ Compiler = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Compile renders the payload. Every failure comes back wrapped in
// ErrCompilationFailed with the underlying cause message.
func (r *Renderer) Compile(_ context.Context, _, _, _ uuid.UUID, p Payload) (Compiled, error) {
	data := map[string]any{
		"payload": p.Variables,
		"events":  p.Events,
	}
	for k, v := range p.Variables {
		data[k] = v
	}

	subject, err := renderText("subject", p.Subject, data)
	if err != nil {
		return Compiled{}, fmt.Errorf("%w: %v", ErrCompilationFailed, err)
	}

	body, err := renderHTML("content", p.Content, data)
	if err != nil {
		return Compiled{}, fmt.Errorf("%w: %v", ErrCompilationFailed, err)
	}

	if p.Layout != "" {
		layoutData := map[string]any{
			"Content": htmltemplate.HTML(body),
			"payload": p.Variables,
		}

		body, err = renderHTML("layout", p.Layout, layoutData)
		if err != nil {
			return Compiled{}, fmt.Errorf("%w: %v", ErrCompilationFailed, err)
		}
	}

	senderName, err := renderText("sender_name", p.SenderName, data)
	if err != nil {
		return Compiled{}, fmt.Errorf("%w: %v", ErrCompilationFailed, err)
	}

	return Compiled{
		Subject:    subject,
		HTML:       body,
		Text:       stripTags(body),
		SenderName: senderName,
	}, nil
}

func renderText(name, tmpl string, data map[string]any) (string, error) {
	t, err := texttemplate.New(name).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}

	return strings.ReplaceAll(sb.String(), "<no value>", ""), nil
}

func renderHTML(name, tmpl string, data map[string]any) (string, error) {
	t, err := htmltemplate.New(name).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// stripTags produces the plain-text alternative of an HTML body. Enough for
// multipart fallback; not an HTML parser.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false

	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}

	return strings.TrimSpace(sb.String())
}
