package tpladapter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"time"

	_ "embed"

	"github.com/dustin/go-humanize"
	"github.com/jgivc/jncepweb/internal/entity"
)

const (
	funcNameBytes      = "bytes"
	funcNameAgo        = "ago"
	funcNamePathEscape = "pathEscape"
	funcNameSafeHTML   = "safeHTML"
)

//go:embed template.html
var defaultTemplate string

type tplAdapter struct {
	tpl *template.Template
}

// NewTplAdapter parses the file list template, or the embedded default when templateFileName is empty.
func NewTplAdapter(templateFileName string) (*tplAdapter, error) {
	tpl := template.New("").Funcs(template.FuncMap{
		funcNameBytes: func(size int64) string {
			if size < 0 {
				size = 0
			}

			return humanize.Bytes(uint64(size))
		},
		funcNameAgo:        func(t time.Time) string { return humanize.Time(t) },
		funcNamePathEscape: url.PathEscape,
		// Description HTML is rendered by goldmark from a file the operator controls.
		funcNameSafeHTML: func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
	})

	src := defaultTemplate
	if templateFileName != "" {
		data, err := os.ReadFile(templateFileName)
		if err != nil {
			return nil, fmt.Errorf("cannot read template: %w", err)
		}

		src = string(data)
	}

	if _, err := tpl.Parse(src); err != nil {
		return nil, fmt.Errorf("cannot parse template: %w", err)
	}

	return &tplAdapter{tpl: tpl}, nil
}

func (a *tplAdapter) Render(list *entity.FileList) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := a.tpl.Execute(&buf, list); err != nil {
		return nil, fmt.Errorf("cannot execute template: %w", err)
	}

	return buf.Bytes(), nil
}
