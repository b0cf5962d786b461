// Package views embeds the HTML templates for the table, registration form and
// error fallback, and builds a pongo2 engine over them.
package views

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embedded embed.FS

const (
	TableTemplate = "table"
	FormTemplate  = "registration"
)

// FS exposes the embedded templates rooted at the templates directory.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// NewEngine returns an engine loading the embedded templates.
func NewEngine(opts ...gotemplate.Option) (*gotemplate.Engine, error) {
	return gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(FS())}, opts...)...)
}
