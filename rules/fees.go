package rules

import "ff-portal/models"

// RosterSize is the number of player names a team of type t carries.
func RosterSize(t models.MatchType) (int, error) {
	switch t {
	case models.MatchSolo:
		return 1, nil
	case models.MatchDuo:
		return 2, nil
	case models.MatchSquad:
		return 4, nil
	}
	return 0, ErrInvalidMatchType
}

// EntryFee is the per-team fee: the per-player base times the roster size.
func EntryFee(base int64, t models.MatchType) (int64, error) {
	n, err := RosterSize(t)
	if err != nil {
		return 0, err
	}
	return base * int64(n), nil
}

// NewJoinNames returns one empty name per slot of t.
func NewJoinNames(t models.MatchType) []string {
	n, err := RosterSize(t)
	if err != nil {
		return nil
	}
	return make([]string, n)
}

// Prize is what a team earned: the tier prize for ranks 1 to 3 plus the
// per-kill bonus. Missing results count as nothing.
func Prize(t models.Tournament, rank, kills *int) int64 {
	var total int64
	if rank != nil {
		switch *rank {
		case 1:
			total += t.Prize1
		case 2:
			total += t.Prize2
		case 3:
			total += t.Prize3
		}
	}
	if kills != nil {
		total += int64(*kills) * t.PerKill
	}
	return total
}
