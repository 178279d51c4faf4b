package shell

import (
	"errors"

	"ff-portal/models"
	"ff-portal/rules"
)

// Alert codes raised by the shell itself. Rule violations use the code of
// the rules.Error.
const (
	AlertJoinSuccess = "join_success"
	AlertNotFound    = "not_found"
)

// Reduce returns the state after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SessionChanged:
		s.Session = a.Session
		if a.Session == nil {
			return signedOut(s)
		}
		if s.View == ViewLogin || s.View == ViewRegister {
			s.View = ViewHome
		}

	case SignedOut:
		return signedOut(s)

	case ProfileLoaded:
		s.Profile = a.Profile
	case TournamentsLoaded:
		s.Tournaments = a.Tournaments
	case TransactionsLoaded:
		s.Transactions = a.Transactions
	case MessagesLoaded:
		s.Messages = a.Messages
	case NoticesLoaded:
		s.Notices = a.Notices
	case SettingsLoaded:
		s.Settings = a.Settings
	case MarqueeLoaded:
		s.Marquee = a.Text
	case Tick:
		s.Now = a.Now

	case Navigate:
		if s.Session == nil {
			if a.View == ViewLogin || a.View == ViewRegister {
				s.View = a.View
			}
			return s
		}
		if a.View == ViewAdmin && !s.Session.IsAdmin() {
			return s
		}
		s.View = a.View

	case SelectWallet:
		s.WalletTab = a.Tab

	case ShowPlayers:
		s.PlayerList = a.TournamentID
	case ClosePlayers:
		s.PlayerList = ""

	case OpenJoin:
		s.Join = &JoinForm{
			TournamentID: a.TournamentID,
			Type:         models.MatchSolo,
			Names:        []string{""},
		}

	case SelectType:
		if s.Join == nil || s.Join.Submitting {
			return s
		}
		names := rules.NewJoinNames(a.Type)
		if names == nil {
			return s
		}
		s.Join = &JoinForm{TournamentID: s.Join.TournamentID, Type: a.Type, Names: names}

	case SetName:
		if s.Join == nil || s.Join.Submitting || a.Index < 0 || a.Index >= len(s.Join.Names) {
			return s
		}
		form := *s.Join
		form.Names = append([]string(nil), s.Join.Names...)
		form.Names[a.Index] = a.Name
		s.Join = &form

	case SubmitJoin:
		if s.Join == nil || s.Join.Submitting {
			return s
		}
		if err := ValidateJoin(s); err != nil {
			s.Alert = alertCode(err)
			return s
		}
		form := *s.Join
		form.Submitting = true
		s.Join = &form

	case JoinFinished:
		if s.Join == nil {
			return s
		}
		if a.Code == "" {
			s.Join = nil
			s.Alert = AlertJoinSuccess
			return s
		}
		form := *s.Join
		form.Submitting = false
		s.Join = &form
		s.Alert = a.Code
		s.AlertDetail = a.Detail

	case CloseJoin:
		if s.Join != nil && !s.Join.Submitting {
			s.Join = nil
		}

	case ShowAlert:
		s.Alert = a.Code
		s.AlertDetail = a.Detail
	case DismissAlert:
		s.Alert = ""
		s.AlertDetail = ""
	}
	return s
}

func signedOut(s State) State {
	next := Initial(s.Now)
	next.Alert = s.Alert
	next.AlertDetail = s.AlertDetail
	return next
}

// ValidateJoin runs the checks made before a join request is sent.
func ValidateJoin(s State) error {
	if s.Join == nil {
		return nil
	}
	t := FindTournament(s, s.Join.TournamentID)
	if t == nil {
		return errNoTournament
	}
	return rules.ValidateJoin(s.Join.Type, s.Join.Names, t.BaseEntryFee, Balance(s))
}

var errNoTournament = errors.New("tournament not found")

func alertCode(err error) string {
	var ruleErr *rules.Error
	if errors.As(err, &ruleErr) {
		return ruleErr.Code
	}
	return AlertNotFound
}
