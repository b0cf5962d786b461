package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formkit/pkg/render"
)

var registrationFields = []string{"username", "email", "password", "confirmPassword"}

func TestMapErrorPayload_ServerPathVariants(t *testing.T) {
	payload := map[string][]string{
		"/body/username":        {"Username is already taken"},
		"body.email":            {" Email already registered ", "Email already registered"},
		"$.data.password[0]":    {"Password was found in a breach list"},
		"non_field_errors":      {"Form level error"},
		"request/body/nickname": {"Should fall back to form errors"},
		"":                      {"Unscoped form error"},
		"confirmPassword":       {"  "},
	}

	mapped := render.MapErrorPayload(registrationFields, payload)

	wantFields := map[string][]string{
		"username": {"Username is already taken"},
		"email":    {"Email already registered"},
		"password": {"Password was found in a breach list"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_EmptyPayload(t *testing.T) {
	mapped := render.MapErrorPayload(registrationFields, nil)
	if len(mapped.Fields) != 0 || len(mapped.Form) != 0 {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestErrorMapping_FirstFieldErrors(t *testing.T) {
	mapped := render.MapErrorPayload(registrationFields, map[string][]string{
		"email": {"first", "second"},
	})
	want := map[string]string{"email": "first"}
	if diff := cmp.Diff(want, mapped.FirstFieldErrors()); diff != "" {
		t.Fatalf("first field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
