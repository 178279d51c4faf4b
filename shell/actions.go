package shell

import (
	"encoding/json"
	"fmt"
	"time"

	"ff-portal/models"
)

// Action is one thing that happened: a user intent, a server snapshot or a
// completed request.
type Action interface{ action() }

type (
	SessionChanged struct{ Session *Session }
	SignedOut      struct{}

	ProfileLoaded      struct{ Profile *models.UserProfile }
	TournamentsLoaded  struct{ Tournaments []models.Tournament }
	TransactionsLoaded struct{ Transactions []models.Transaction }
	MessagesLoaded     struct{ Messages []models.SupportMessage }
	NoticesLoaded      struct{ Notices []models.Notice }
	SettingsLoaded     struct{ Settings models.AdminSettings }
	MarqueeLoaded      struct{ Text string }
	Tick               struct{ Now time.Time }

	Navigate     struct{ View View }
	SelectWallet struct{ Tab WalletTab }
	ShowPlayers  struct{ TournamentID string }
	ClosePlayers struct{}

	OpenJoin   struct{ TournamentID string }
	SelectType struct{ Type models.MatchType }
	SubmitJoin struct{}
	CloseJoin  struct{}

	DismissAlert struct{}
)

// SetName edits one name slot of the join dialog.
type SetName struct {
	Index int
	Name  string
}

// JoinFinished reports the join request's outcome; an empty Code is success.
type JoinFinished struct {
	Code   string
	Detail string
}

type ShowAlert struct {
	Code   string
	Detail string
}

func (SessionChanged) action()     {}
func (SignedOut) action()          {}
func (ProfileLoaded) action()      {}
func (TournamentsLoaded) action()  {}
func (TransactionsLoaded) action() {}
func (MessagesLoaded) action()     {}
func (NoticesLoaded) action()      {}
func (SettingsLoaded) action()     {}
func (MarqueeLoaded) action()      {}
func (Tick) action()               {}
func (Navigate) action()           {}
func (SelectWallet) action()       {}
func (ShowPlayers) action()        {}
func (ClosePlayers) action()       {}
func (OpenJoin) action()           {}
func (SelectType) action()         {}
func (SetName) action()            {}
func (SubmitJoin) action()         {}
func (JoinFinished) action()       {}
func (CloseJoin) action()          {}
func (ShowAlert) action()          {}
func (DismissAlert) action()       {}

// SnapshotAction decodes one stream event into the action that replaces the
// matching collection.
func SnapshotAction(topic string, data []byte) (Action, error) {
	switch topic {
	case "profile":
		var p models.UserProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		return ProfileLoaded{Profile: &p}, nil
	case "tournaments":
		var ts []models.Tournament
		if err := json.Unmarshal(data, &ts); err != nil {
			return nil, fmt.Errorf("decode tournaments: %w", err)
		}
		return TournamentsLoaded{Tournaments: ts}, nil
	case "transactions":
		var txs []models.Transaction
		if err := json.Unmarshal(data, &txs); err != nil {
			return nil, fmt.Errorf("decode transactions: %w", err)
		}
		return TransactionsLoaded{Transactions: txs}, nil
	case "messages":
		var msgs []models.SupportMessage
		if err := json.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
		return MessagesLoaded{Messages: msgs}, nil
	case "notices":
		var ns []models.Notice
		if err := json.Unmarshal(data, &ns); err != nil {
			return nil, fmt.Errorf("decode notices: %w", err)
		}
		return NoticesLoaded{Notices: ns}, nil
	case "settings":
		var s models.AdminSettings
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		return SettingsLoaded{Settings: s}, nil
	case "marquee":
		var m models.Marquee
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode marquee: %w", err)
		}
		return MarqueeLoaded{Text: m.Text}, nil
	case "tick":
		var t struct {
			Now int64 `json:"now"`
		}
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode tick: %w", err)
		}
		return Tick{Now: time.UnixMilli(t.Now)}, nil
	}
	return nil, fmt.Errorf("unknown topic %q", topic)
}
