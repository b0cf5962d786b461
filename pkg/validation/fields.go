package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxEmailLength follows the RFC 5321 path limit.
	MaxEmailLength = 254

	MinPasswordLength = 8
	MaxPasswordLength = 128

	MinUsernameLength = 3
	MaxUsernameLength = 30

	// PasswordSpecialChars lists the punctuation accepted as a special character.
	PasswordSpecialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	commonPasswords = map[string]struct{}{
		"password":    {},
		"123456":      {},
		"admin":       {},
		"qwerty":      {},
		"letmein":     {},
		"welcome":     {},
		"password123": {},
		"12345678":    {},
		"abc123":      {},
	}

	reservedUsernamePrefixes = []string{
		"admin", "root", "system", "test", "demo", "api", "www", "mail", "support",
	}
)

// ValidateEmail checks that value looks like a deliverable address.
func ValidateEmail(value string) Result {
	email := strings.TrimSpace(value)
	if email == "" {
		return invalid("Email is required")
	}
	if len(email) > MaxEmailLength {
		return invalid("Email address is too long")
	}
	if !emailPattern.MatchString(email) || strings.Contains(email, "..") {
		return invalid("Please enter a valid email address")
	}
	return NewResult()
}

// ValidatePassword enforces the password policy. The repeated-pattern check
// only produces a warning.
func ValidatePassword(password string) Result {
	if password == "" {
		return invalid("Password is required")
	}

	result := NewResult()
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		result.AddError("Password must be at least 8 characters long")
	}
	if length > MaxPasswordLength {
		result.AddError("Password cannot exceed 128 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(PasswordSpecialChars, r) {
			hasSpecial = true
		}
	}
	if !hasLower {
		result.AddError("Password must contain at least one lowercase letter")
	}
	if !hasUpper {
		result.AddError("Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		result.AddError("Password must contain at least one number")
	}
	if !hasSpecial {
		result.AddError("Password must contain at least one special character")
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		result.AddError("Password is too common. Please choose a more secure password")
	}

	if length <= MaxPasswordLength && hasRepeatedPattern(password) {
		result.AddWarning("Avoid using repeated patterns in your password")
	}
	return result
}

// hasRepeatedPattern reports whether any substring of two or more runes occurs
// twice without overlapping.
func hasRepeatedPattern(password string) bool {
	runes := []rune(password)
	n := len(runes)
	for size := 2; size*2 <= n; size++ {
		for start := 0; start+size*2 <= n; start++ {
			needle := string(runes[start : start+size])
			if strings.Contains(string(runes[start+size:]), needle) {
				return true
			}
		}
	}
	return false
}

// ValidateUsername checks length, charset and reserved names. Reserved names
// are reported as unavailable without naming the rule.
func ValidateUsername(value string) Result {
	username := strings.TrimSpace(value)
	if username == "" {
		return invalid("Username is required")
	}

	length := utf8.RuneCountInString(username)
	if length < MinUsernameLength {
		return invalid("Username must be at least 3 characters long")
	}
	if length > MaxUsernameLength {
		return invalid("Username cannot exceed 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("Username can only contain letters, numbers, underscores, and hyphens")
	}
	if !isASCIIAlnum(username[0]) {
		return invalid("Username must start with a letter or number")
	}

	lower := strings.ToLower(username)
	for _, prefix := range reservedUsernamePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return invalid("Username is not available")
		}
	}
	return NewResult()
}

// ValidatePhone accepts 10 to 15 digits with common separators and an optional
// leading plus sign.
func ValidatePhone(value string) Result {
	phone := strings.TrimSpace(value)
	if phone == "" {
		return invalid("Phone number is required")
	}

	phone = strings.TrimPrefix(phone, "+")
	digits := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, phone)

	if !isDigits(digits) {
		return invalid("Phone number can only contain digits and separators")
	}
	if len(digits) < 10 || len(digits) > 15 {
		return invalid("Phone number must have between 10 and 15 digits")
	}
	return NewResult()
}

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
