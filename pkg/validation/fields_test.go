package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestValidatePassword_Policy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "strong", password: "Str0ng!Pass", valid: true},
		{name: "empty", password: "", valid: false},
		{name: "too short", password: "Aa1!aa", valid: false},
		{name: "no upper", password: "lower1!case", valid: false},
		{name: "no lower", password: "UPPER1!CASE", valid: false},
		{name: "no digit", password: "NoDigits!!x", valid: false},
		{name: "no special", password: "NoSpecial123", valid: false},
		{name: "too long", password: "Aa1!" + strings.Repeat("x", 125), valid: false},
		{name: "max length", password: "Aa1!" + strings.Repeat("xy", 62), valid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := validation.ValidatePassword(tc.password)
			if got.IsValid != tc.valid {
				t.Fatalf("ValidatePassword(%q).IsValid = %v, want %v (errors: %v)", tc.password, got.IsValid, tc.valid, got.Errors)
			}
			if got.IsValid != (len(got.Errors) == 0) {
				t.Fatalf("IsValid must mirror empty errors, got %+v", got)
			}
		})
	}
}

func TestValidatePassword_CommonPasswordCaseInsensitive(t *testing.T) {
	got := validation.ValidatePassword("PASSWORD123")
	if got.IsValid {
		t.Fatalf("expected common password to be rejected")
	}
	found := false
	for _, msg := range got.Errors {
		if strings.Contains(msg, "too common") {
			found = true
		}
		if strings.Contains(msg, "PASSWORD123") {
			t.Fatalf("error message must not echo the password: %q", msg)
		}
	}
	if !found {
		t.Fatalf("expected deny-list error, got %v", got.Errors)
	}
}

func TestValidatePassword_RepeatedPatternIsWarning(t *testing.T) {
	got := validation.ValidatePassword("Ab1!xyzAb1!")
	if !got.IsValid {
		t.Fatalf("repeated pattern must not invalidate, errors: %v", got.Errors)
	}
	want := []string{"Avoid using repeated patterns in your password"}
	if diff := cmp.Diff(want, got.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}

	clean := validation.ValidatePassword("Zq7!mwTrp")
	if len(clean.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", clean.Warnings)
	}
}

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		username string
		want     []string
	}{
		{username: "jane_doe-1", want: []string{}},
		{username: "", want: []string{"Username is required"}},
		{username: "ab", want: []string{"Username must be at least 3 characters long"}},
		{username: strings.Repeat("a", 31), want: []string{"Username cannot exceed 30 characters"}},
		{username: "bad name", want: []string{"Username can only contain letters, numbers, underscores, and hyphens"}},
		{username: "_leading", want: []string{"Username must start with a letter or number"}},
		{username: "AdminUser", want: []string{"Username is not available"}},
		{username: "support-desk", want: []string{"Username is not available"}},
		{username: "wwwhat", want: []string{"Username is not available"}},
	}

	for _, tc := range cases {
		got := validation.ValidateUsername(tc.username)
		if diff := cmp.Diff(tc.want, got.Errors); diff != "" {
			t.Fatalf("ValidateUsername(%q) errors mismatch (-want +got):\n%s", tc.username, diff)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.example.org"}
	for _, email := range valid {
		if got := validation.ValidateEmail(email); !got.IsValid {
			t.Fatalf("expected %q to be valid, errors: %v", email, got.Errors)
		}
	}

	invalid := []string{"", "not-an-email", "user@", "user@example", "a..b@example.com", strings.Repeat("a", 250) + "@example.com"}
	for _, email := range invalid {
		if got := validation.ValidateEmail(email); got.IsValid {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+1 (555) 123-4567", "555.123.4567", "+442071838750"}
	for _, phone := range valid {
		if got := validation.ValidatePhone(phone); !got.IsValid {
			t.Fatalf("expected %q to be valid, errors: %v", phone, got.Errors)
		}
	}

	invalid := []string{"", "12345", "555-CALL-NOW", "+1234567890123456"}
	for _, phone := range invalid {
		if got := validation.ValidatePhone(phone); got.IsValid {
			t.Fatalf("expected %q to be invalid", phone)
		}
	}
}
