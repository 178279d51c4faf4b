package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/unidecode"
)

const (
	DefaultLoginDomain = "ffportal.com"
	MinPasswordLength  = 6
)

// NormalizeLoginID turns a bare handle into an email address on domain.
// Input that already contains '@' is used as typed.
func NormalizeLoginID(id, domain string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "@") {
		return id
	}
	if domain == "" {
		domain = DefaultLoginDomain
	}
	if !isASCII(id) {
		id = strings.Join(strings.Fields(unidecode.Unidecode(id)), "")
	}
	return id + "@" + domain
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// ValidateRegistration checks the registration form before the identity
// provider is contacted.
func ValidateRegistration(name, loginID, gameID, password string) error {
	for _, v := range []string{name, loginID, gameID, password} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
