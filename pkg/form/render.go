package form

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/views"
)

type fieldView struct {
	label     string
	inputType string
	secret    bool
}

var fieldViews = map[string]fieldView{
	FieldUsername:        {label: "Username", inputType: "text"},
	FieldEmail:           {label: "Email", inputType: "email"},
	FieldPassword:        {label: "Password", inputType: "password", secret: true},
	FieldConfirmPassword: {label: "Confirm password", inputType: "password", secret: true},
}

// Label returns the display label of field.
func Label(field string) string {
	if v, ok := fieldViews[field]; ok {
		return v.label
	}
	return field
}

// IsSecret reports whether field holds a password.
func IsSecret(field string) bool {
	return fieldViews[field].secret
}

// ViewContext builds the registration template context. Password values are
// never written back into markup.
func ViewContext(state State, action string) map[string]any {
	fields := make([]map[string]any, 0, len(Fields))
	for _, name := range Fields {
		v := fieldViews[name]
		value := state.Values[name]
		if v.secret {
			value = ""
		}
		errMsg := ""
		if state.Touched[name] {
			errMsg = state.Errors[name]
		}
		fields = append(fields, map[string]any{
			"name":  name,
			"label": v.label,
			"type":  v.inputType,
			"value": value,
			"error": errMsg,
		})
	}
	return map[string]any{
		"action":     action,
		"form_error": state.FormError,
		"fields":     fields,
		"submitting": state.IsSubmitting,
	}
}

// RenderHTML renders state with the registration template.
func RenderHTML(renderer template.TemplateRenderer, state State, action string) (string, error) {
	if renderer == nil {
		return "", errors.New("form: renderer is required")
	}
	out, err := renderer.RenderTemplate(views.FormTemplate, ViewContext(state, action))
	if err != nil {
		return "", fmt.Errorf("form: render html: %w", err)
	}
	return out, nil
}
