package validation

import "strings"

const (
	MinCardDigits = 13
	MaxCardDigits = 19
)

// ValidateCreditCard strips spaces and dashes, then checks length and the Luhn
// checksum.
func ValidateCreditCard(value string) Result {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(value))
	if digits == "" {
		return invalid("Card number is required")
	}
	if !isDigits(digits) {
		return invalid("Card number can only contain digits")
	}
	if len(digits) < MinCardDigits || len(digits) > MaxCardDigits {
		return invalid("Card number must be between 13 and 19 digits")
	}
	if !Luhn(digits) {
		return invalid("Card number is invalid")
	}
	return NewResult()
}

// Luhn reports whether digits passes the mod-10 checksum. Every second digit
// from the right is doubled and reduced by nine when it exceeds nine.
func Luhn(digits string) bool {
	if !isDigits(digits) {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
