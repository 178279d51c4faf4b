package rules

import (
	"strings"

	"ff-portal/models"
)

// ValidateJoinNames checks the roster shape: a known type, one name per slot
// and no blank names.
func ValidateJoinNames(t models.MatchType, names []string) error {
	n, err := RosterSize(t)
	if err != nil {
		return err
	}
	if len(names) != n {
		return ErrWrongRosterSize
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return ErrBlankPlayerName
		}
	}
	return nil
}

// ValidateJoin is the full pre-submit check: roster shape first, then funds.
func ValidateJoin(t models.MatchType, names []string, base, balance int64) error {
	if err := ValidateJoinNames(t, names); err != nil {
		return err
	}
	fee, err := EntryFee(base, t)
	if err != nil {
		return err
	}
	if balance < fee {
		return ErrInsufficientBalance
	}
	return nil
}

// TrimNames returns names with surrounding whitespace removed.
func TrimNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}
