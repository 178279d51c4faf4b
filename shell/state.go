package shell

import (
	"time"

	"ff-portal/models"
)

// View is the screen the shell is showing.
type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewHome      View = "home"
	ViewMyMatches View = "my-matches"
	ViewWallet    View = "wallet"
	ViewSupport   View = "support"
	ViewAdmin     View = "admin"
	ViewProfile   View = "profile"
)

// Session is the signed-in identity as the shell sees it.
type Session struct {
	Token  string   `yaml:"token" json:"token"`
	UserID string   `yaml:"user_id" json:"user_id"`
	Email  string   `yaml:"email" json:"email"`
	Roles  []string `yaml:"roles" json:"roles"`
}

func (s *Session) IsAdmin() bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

// JoinForm is the open join dialog.
type JoinForm struct {
	TournamentID string
	Type         models.MatchType
	Names        []string
	Submitting   bool
}

// State is everything the terminal client knows. It is only changed by
// Reduce.
type State struct {
	Session *Session
	Profile *models.UserProfile

	Tournaments  []models.Tournament
	Transactions []models.Transaction
	Messages     []models.SupportMessage
	Notices      []models.Notice
	Settings     models.AdminSettings
	Marquee      string

	View       View
	Join       *JoinForm
	PlayerList string
	WalletTab  WalletTab

	// Alert is a message code waiting to be shown; AlertDetail carries the
	// server's text when the code has no translation.
	Alert       string
	AlertDetail string

	Now time.Time
}

type WalletTab string

const (
	TabDeposit  WalletTab = "deposit"
	TabWithdraw WalletTab = "withdraw"
)

// Initial is the state before any session is known.
func Initial(now time.Time) State {
	return State{
		View:      ViewLogin,
		Settings:  models.DefaultSettings(),
		Marquee:   models.DefaultMarqueeText,
		WalletTab: TabDeposit,
		Now:       now,
	}
}
