package formkit

import (
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formkit/pkg/render/views"
)

// EmbeddedTemplates exposes the built-in table and registration templates so
// callers can reuse or extend them without importing the views package.
func EmbeddedTemplates() fs.FS {
	return views.FS()
}

// NewTemplateEngine returns a pongo2 engine over the embedded templates.
func NewTemplateEngine(options ...gotemplate.Option) (*gotemplate.Engine, error) {
	return views.NewEngine(options...)
}
