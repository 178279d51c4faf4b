package rules

import (
	"time"

	"ff-portal/models"
)

const (
	// JoinCutoff is how long before the start a match goes live and room
	// credentials become visible.
	JoinCutoff = 10 * time.Minute
	// MatchDuration is how long after the start a match still counts as live.
	MatchDuration = 20 * time.Minute
)

// DeriveStatus computes the effective status of a tournament. A stored
// Finished always wins; any other stored value is ignored in favour of the
// time window around startMillis.
func DeriveStatus(startMillis int64, stored models.MatchStatus, now time.Time) models.MatchStatus {
	if stored == models.StatusFinished {
		return models.StatusFinished
	}
	start := time.UnixMilli(startMillis)
	switch {
	case now.Before(start.Add(-JoinCutoff)):
		return models.StatusUpcoming
	case now.Before(start.Add(MatchDuration)):
		return models.StatusLive
	default:
		return models.StatusFinished
	}
}

// DisplayStatus is the label shown to users; Finished reads as Complete.
func DisplayStatus(s models.MatchStatus) string {
	if s == models.StatusFinished {
		return "Complete"
	}
	return string(s)
}

// CanJoin reports whether the join action is offered for a tournament.
func CanJoin(derived models.MatchStatus, filled, maxPlayers int) bool {
	return derived != models.StatusFinished && filled < maxPlayers
}

// RoomVisible reports whether room credentials may be shown to a user.
func RoomVisible(derived models.MatchStatus, joined bool) bool {
	return joined && derived == models.StatusLive
}
