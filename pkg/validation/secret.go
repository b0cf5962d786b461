package validation

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	MinTokenLength = 16
	MaxTokenLength = 512
)

// ErrTokenGeneration wraps failures of the system random source.
var ErrTokenGeneration = errors.New("validation: token generation failed")

// ValidateAPIKey compares provided against expected at a cost that depends
// only on the length of provided. Empty keys never match.
func ValidateAPIKey(provided, expected string) bool {
	if provided == "" || expected == "" {
		return false
	}
	return compareSecret(provided, expected, nil)
}

// MatchToken is the token flavour of ValidateAPIKey.
func MatchToken(provided, expected string) bool {
	return ValidateAPIKey(provided, expected)
}

// compareSecret walks every byte of provided, folding differences into a
// single accumulator. When the lengths differ the walk still runs to the end
// against a wrapped view of expected and the result is forced to false. step,
// when set, is invoked once per compared byte.
func compareSecret(provided, expected string, step func()) bool {
	var diff byte
	if len(provided) != len(expected) {
		diff = 1
	}
	n := len(expected)
	for i := 0; i < len(provided); i++ {
		var want byte
		if n > 0 {
			want = expected[i%n]
		}
		diff |= provided[i] ^ want
		if step != nil {
			step()
		}
	}
	return diff == 0
}

// ValidateToken checks the shape of an opaque URL-safe token.
func ValidateToken(token string) Result {
	token = strings.TrimSpace(token)
	if token == "" {
		return invalid("Token is required")
	}
	if len(token) < MinTokenLength || len(token) > MaxTokenLength {
		return invalid("Token has an invalid length")
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if isASCIIAlnum(c) || c == '-' || c == '_' || c == '.' || c == '=' {
			continue
		}
		return invalid("Token contains invalid characters")
	}
	return NewResult()
}

// GenerateSessionToken returns a URL-safe token built from n random bytes.
func GenerateSessionToken(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateAPIKey returns prefix_<token>.
func GenerateAPIKey(prefix string, n int) (string, error) {
	token, err := GenerateSessionToken(n)
	if err != nil {
		return "", err
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "fk"
	}
	return prefix + "_" + token, nil
}

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*"
)

// GenerateTemporaryPassword returns a random password of length n (minimum 8)
// holding at least one character of every required class.
func GenerateTemporaryPassword(n int) (string, error) {
	if n < MinPasswordLength {
		n = MinPasswordLength
	}
	if n > MaxPasswordLength {
		n = MaxPasswordLength
	}

	out := make([]byte, 0, n)
	for _, set := range []string{lowerChars, upperChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	all := lowerChars + upperChars + digitChars + specialChars
	for len(out) < n {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
		}
		k := int(j.Int64())
		out[i], out[k] = out[k], out[i]
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return set[idx.Int64()], nil
}
