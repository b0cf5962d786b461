// Package template defines the renderer-agnostic template interface used by
// the table, form and boundary views.
package template
