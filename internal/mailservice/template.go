package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Rendered is one e-mail produced from a template.
type Rendered struct {
	Subject string
	Plain   string
	HTML    string
}

// NewTemplate parses every embedded template. Each file defines the
// subject, plainBody and htmlBody blocks.
func NewTemplate() *Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	tp := &Template{byName: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		tp.byName[path.Base(file)] = template.Must(template.New("email").ParseFS(templateFS, file))
	}

	return tp
}

func (tp *Template) Render(name string, data any) (*Rendered, error) {
	t, ok := tp.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	var out [3]bytes.Buffer
	for i, block := range []string{"subject", "plainBody", "htmlBody"} {
		if err := t.ExecuteTemplate(&out[i], block, data); err != nil {
			return nil, fmt.Errorf("could not render %s of %s: %w", block, name, err)
		}
	}

	return &Rendered{
		Subject: strings.TrimSpace(out[0].String()),
		Plain:   strings.TrimSpace(out[1].String()),
		HTML:    out[2].String(),
	}, nil
}
