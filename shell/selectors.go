package shell

import (
	"ff-portal/models"
	"ff-portal/rules"
)

// Tab is one entry of the bottom navigation bar.
type Tab struct {
	View  View
	Icon  string
	Label string
}

var tabs = []Tab{
	{ViewHome, "🏠", "Home"},
	{ViewMyMatches, "🏆", "Matches"},
	{ViewWallet, "💰", "Wallet"},
	{ViewSupport, "💬", "Support"},
	{ViewAdmin, "⚙️", "Admin"},
}

// Tabs lists the navigation tabs the signed-in user may open.
func Tabs(s State) []Tab {
	if s.Session == nil {
		return nil
	}
	out := make([]Tab, 0, len(tabs))
	for _, t := range tabs {
		if t.View == ViewAdmin && !s.Session.IsAdmin() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func Balance(s State) int64 {
	if s.Profile == nil {
		return 0
	}
	return s.Profile.Balance
}

func UserID(s State) string {
	if s.Session == nil {
		return ""
	}
	return s.Session.UserID
}

func FindTournament(s State, id string) *models.Tournament {
	for i := range s.Tournaments {
		if s.Tournaments[i].ID == id {
			return &s.Tournaments[i]
		}
	}
	return nil
}

// Status is the derived status of t at the state's clock.
func Status(s State, t models.Tournament) models.MatchStatus {
	return rules.DeriveStatus(t.StartTime, t.Status, s.Now)
}

// HomeTournaments are the tournaments that have not finished.
func HomeTournaments(s State) []models.Tournament {
	var out []models.Tournament
	for _, t := range s.Tournaments {
		if Status(s, t) != models.StatusFinished {
			out = append(out, t)
		}
	}
	return out
}

// MyTournaments are the tournaments the user has a roster entry in.
func MyTournaments(s State) []models.Tournament {
	var out []models.Tournament
	for _, t := range s.Tournaments {
		if Record(s, t) != nil {
			out = append(out, t)
		}
	}
	return out
}

// Record is the user's roster entry in t, if any.
func Record(s State, t models.Tournament) *models.PlayerRecord {
	uid := UserID(s)
	if uid == "" {
		return nil
	}
	for i := range t.JoinedPlayers {
		if t.JoinedPlayers[i].UserID == uid {
			return &t.JoinedPlayers[i]
		}
	}
	return nil
}

// JoinFee is the fee of the open join dialog, or zero.
func JoinFee(s State) int64 {
	if s.Join == nil {
		return 0
	}
	t := FindTournament(s, s.Join.TournamentID)
	if t == nil {
		return 0
	}
	fee, _ := rules.EntryFee(t.BaseEntryFee, s.Join.Type)
	return fee
}

// OwnMessages filters the support thread to the user's own messages; an
// administrator's snapshot holds everyone's.
func OwnMessages(s State) []models.SupportMessage {
	uid := UserID(s)
	var out []models.SupportMessage
	for _, m := range s.Messages {
		if m.UserID == uid {
			out = append(out, m)
		}
	}
	return out
}
