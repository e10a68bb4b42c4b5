package authdomain

import (
	"errors"
	"strings"
)

// ErrInvalidEntry is returned for allowlist entries that are neither an
// address nor a *@domain pattern.
var ErrInvalidEntry = errors.New("allowlist entry must be an email address or *@domain")

// User is the caller resolved from a bearer token.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Candidates returns the allowlist keys that would admit email: the exact
// address and its *@domain pattern. A malformed address yields nil.
func Candidates(email string) []string {
	email = NormalizeEmail(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return nil
	}
	return []string{email, "*@" + domain}
}

// ParseEntry normalizes an allowlist entry.
func ParseEntry(entry string) (string, error) {
	entry = NormalizeEmail(entry)
	local, domain, ok := strings.Cut(entry, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", ErrInvalidEntry
	}
	if strings.Contains(local, "*") && local != "*" {
		return "", ErrInvalidEntry
	}
	return entry, nil
}
