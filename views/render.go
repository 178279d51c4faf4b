package views

import (
	"fmt"
	"strings"
	"time"

	"ff-portal/models"
	"ff-portal/rules"
	"ff-portal/shell"

	"golang.org/x/text/message"
)

// Renderer draws shell state as plain text in one language.
type Renderer struct {
	p   *message.Printer
	loc *time.Location
}

func New(lang string) *Renderer {
	return &Renderer{p: newPrinter(lang), loc: time.Local}
}

// In returns a copy of r that prints times in loc.
func (r *Renderer) In(loc *time.Location) *Renderer {
	return &Renderer{p: r.p, loc: loc}
}

func (r *Renderer) T(key string, args ...any) string {
	return r.p.Sprintf(key, args...)
}

func (r *Renderer) Money(n int64) string {
	return r.p.Sprintf("৳%d", n)
}

// Alert is the text for an alert code, falling back to the server's message.
func (r *Renderer) Alert(code, detail string) string {
	if key, ok := alertText[code]; ok {
		return r.T(key)
	}
	if detail != "" {
		return r.T("Error: %s", detail)
	}
	return code
}

func (r *Renderer) when(ms int64) string {
	return time.UnixMilli(ms).In(r.loc).Format("02 Jan 15:04")
}

func button(label string, enabled bool) string {
	if enabled {
		return "[ " + label + " ]"
	}
	return "( " + label + " )"
}

func rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("─", 36) + "\n")
}

// Screen renders the current view plus any open dialog and pending alert.
func (r *Renderer) Screen(s shell.State) string {
	var b strings.Builder
	switch s.View {
	case shell.ViewLogin:
		b.WriteString(r.Login(false))
	case shell.ViewRegister:
		b.WriteString(r.Register(false))
	case shell.ViewHome:
		b.WriteString(r.Home(s))
	case shell.ViewMyMatches:
		b.WriteString(r.MyMatches(s))
	case shell.ViewWallet:
		b.WriteString(r.Wallet(s))
	case shell.ViewSupport:
		b.WriteString(r.Support(s))
	case shell.ViewAdmin:
		b.WriteString(r.Admin(s))
	case shell.ViewProfile:
		b.WriteString(r.Profile(s))
	}
	if s.PlayerList != "" {
		if t := shell.FindTournament(s, s.PlayerList); t != nil {
			b.WriteString(r.Players(*t))
		}
	}
	if s.Join != nil {
		b.WriteString(r.JoinDialog(s))
	}
	if nav := r.Navbar(s); nav != "" {
		b.WriteString(nav)
	}
	if s.Alert != "" {
		fmt.Fprintf(&b, "\n⚠️  %s\n", r.Alert(s.Alert, s.AlertDetail))
	}
	return b.String()
}

func (r *Renderer) Login(submitting bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", r.T("FF Portal"), r.T("Play and win"))
	rule(&b)
	fmt.Fprintf(&b, "%s: ____\n%s: ____\n", r.T("Email or user ID"), r.T("Password"))
	label := r.T("Login")
	if submitting {
		label = r.T("Please wait...")
	}
	fmt.Fprintf(&b, "%s\n", button(label, !submitting))
	fmt.Fprintf(&b, "%s: %s\n", r.T("Other options"), button(r.T("Login with Google"), !submitting))
	fmt.Fprintf(&b, "%s %s\n", r.T("No account?"), r.T("Register"))
	return b.String()
}

func (r *Renderer) Register(submitting bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.T("Registration"))
	rule(&b)
	for _, field := range []string{"Full name", "User ID or email", "Free Fire game ID"} {
		fmt.Fprintf(&b, "%s: ____\n", r.T(field))
	}
	fmt.Fprintf(&b, "%s (%s): ____\n", r.T("Password"), r.T("At least 6 characters"))
	label := r.T("Complete registration")
	if submitting {
		label = r.T("Processing...")
	}
	fmt.Fprintf(&b, "%s\n%s\n", button(label, !submitting), r.T("Back to login"))
	return b.String()
}

// TournamentCard shows one tournament the way the signed-in user may see it.
func (r *Renderer) TournamentCard(s shell.State, t models.Tournament) string {
	var b strings.Builder
	status := shell.Status(s, t)
	filled := len(t.JoinedPlayers)

	fmt.Fprintf(&b, "┌ %s  [%s] [%s]\n", t.Title, t.Type, rules.DisplayStatus(status))
	fmt.Fprintf(&b, "│ %s %s · %s %s · %s %s\n",
		r.T("1st prize"), r.Money(t.Prize1),
		r.T("Per kill"), r.Money(t.PerKill),
		r.T("Base fee"), r.Money(t.BaseEntryFee))
	fmt.Fprintf(&b, "│ %s\n│ %s\n", r.T("Map: %s", t.Map), r.T("Time: %s", r.when(t.StartTime)))
	fmt.Fprintf(&b, "│ 👥 %s\n", r.T("Player list (%d)", filled))

	if rec := shell.Record(s, t); rec != nil {
		fmt.Fprintf(&b, "│ ✅ %s\n", r.T("Joined (%s)", rec.ParticipationType))
		switch {
		case status == models.StatusFinished:
			fmt.Fprintf(&b, "│ %s\n", r.T("Match over"))
		case rules.RoomVisible(status, true):
			fmt.Fprintf(&b, "│ ID: %s\n│ PASS: %s\n", r.orWaiting(t.RoomID), r.orWaiting(t.RoomPass))
		default:
			fmt.Fprintf(&b, "│ %s\n", r.T("Room ID comes 10 minutes before start"))
		}
	} else {
		var label string
		switch {
		case status == models.StatusFinished:
			label = r.T("Closed")
		case filled >= t.MaxPlayers:
			label = r.T("Full")
		default:
			label = r.T("Join")
		}
		fmt.Fprintf(&b, "│ %s\n", button(label, rules.CanJoin(status, filled, t.MaxPlayers)))
	}
	fmt.Fprintf(&b, "└ id: %s\n", t.ID)
	return b.String()
}

func (r *Renderer) orWaiting(v string) string {
	if v == "" {
		return r.T("Waiting for room")
	}
	return v
}

// Players lists the roster in join order.
func (r *Renderer) Players(t models.Tournament) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s · %s\n", r.T("Player list (%d)", len(t.JoinedPlayers)), t.Title)
	rule(&b)
	if len(t.JoinedPlayers) == 0 {
		fmt.Fprintf(&b, "%s\n", r.T("Nobody has joined yet"))
	}
	for i, p := range t.JoinedPlayers {
		fmt.Fprintf(&b, "%s [%s]: %s\n", r.T("Team %d", i+1), p.ParticipationType, strings.Join(p.Names, ", "))
	}
	return b.String()
}

// JoinDialog shows the open join form with its computed fee.
func (r *Renderer) JoinDialog(s shell.State) string {
	if s.Join == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s: ", r.T("Match mode"))
	for _, typ := range []models.MatchType{models.MatchSolo, models.MatchDuo, models.MatchSquad} {
		if typ == s.Join.Type {
			fmt.Fprintf(&b, "[%s] ", typ)
		} else {
			fmt.Fprintf(&b, " %s  ", typ)
		}
	}
	b.WriteString("\n")
	for i, name := range s.Join.Names {
		if name == "" {
			name = "____"
		}
		fmt.Fprintf(&b, "%s (%s): %s\n", r.T("Player %d", i+1), r.T("Game name"), name)
	}
	fmt.Fprintf(&b, "%s: %s\n", r.T("Total fee"), r.Money(shell.JoinFee(s)))
	confirm := r.T("Confirm")
	if s.Join.Submitting {
		confirm = r.T("Processing...")
	}
	fmt.Fprintf(&b, "%s %s\n", button(r.T("Cancel"), !s.Join.Submitting), button(confirm, !s.Join.Submitting))
	return b.String()
}

func (r *Renderer) Navbar(s shell.State) string {
	tabs := shell.Tabs(s)
	if len(tabs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := tab.Icon + " " + r.T(tab.Label)
		if tab.View == s.View {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return "\n" + strings.Join(parts, "  ") + "\n"
}

func (r *Renderer) header(s shell.State) string {
	name := ""
	if s.Profile != nil {
		name = s.Profile.Name
	}
	return fmt.Sprintf("%s · %s ⚙️    %s %s\n", r.T("FF Portal"), name, r.T("Balance"), r.Money(shell.Balance(s)))
}

func (r *Renderer) Home(s shell.State) string {
	var b strings.Builder
	b.WriteString(r.header(s))
	if s.Marquee != "" {
		fmt.Fprintf(&b, "📢 %s\n", s.Marquee)
	}
	if len(s.Notices) > 0 {
		fmt.Fprintf(&b, "\n%s\n", r.T("Important notices"))
		for _, n := range s.Notices {
			fmt.Fprintf(&b, "🔔 %s\n", n.Text)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", r.T("Running tournaments"))
	home := shell.HomeTournaments(s)
	if len(home) == 0 {
		fmt.Fprintf(&b, "%s\n", r.T("No tournaments right now"))
	}
	for _, t := range home {
		b.WriteString(r.TournamentCard(s, t))
	}
	return b.String()
}

func (r *Renderer) MyMatches(s shell.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.T("My matches"))
	rule(&b)
	mine := shell.MyTournaments(s)
	if len(mine) == 0 {
		fmt.Fprintf(&b, "%s\n", r.T("You have not joined any match"))
	}
	for _, t := range mine {
		b.WriteString(r.TournamentCard(s, t))
	}
	return b.String()
}

func (r *Renderer) Wallet(s shell.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s: %s\n", r.T("Wallet"), r.T("Current balance"), r.Money(shell.Balance(s)))
	fmt.Fprintf(&b, "%s %s\n",
		button(r.T("Add money"), s.WalletTab != shell.TabDeposit),
		button(r.T("Withdraw money"), s.WalletTab != shell.TabWithdraw))
	rule(&b)

	if s.WalletTab == shell.TabWithdraw {
		fmt.Fprintf(&b, "%s: ৳ %d+\n", r.T("How much to withdraw"), rules.MinWithdrawal)
		fmt.Fprintf(&b, "%s: ____\n", r.T("%s number", "bKash/Nagad"))
		fmt.Fprintf(&b, "%s\n", button(r.T("Request withdrawal"), true))
	} else {
		fmt.Fprintf(&b, "%s\n", r.T("Our %s number: %s", models.MethodBkash, s.Settings.BkashNumber))
		fmt.Fprintf(&b, "%s\n", r.T("Our %s number: %s", models.MethodNagad, s.Settings.NagadNumber))
		fmt.Fprintf(&b, "%s: ৳ %d+\n", r.T("Amount"), rules.MinDeposit)
		fmt.Fprintf(&b, "%s: ____\n", r.T("%s number", "bKash/Nagad"))
		fmt.Fprintf(&b, "%s: ____\n", r.T("Transaction ID"))
		fmt.Fprintf(&b, "%s\n", button(r.T("Request deposit"), true))
	}

	if len(s.Transactions) > 0 {
		fmt.Fprintf(&b, "\n%s\n", r.T("Transactions"))
		for _, tx := range s.Transactions {
			fmt.Fprintf(&b, "%s  %-8s %s  %s\n", r.when(tx.Date), tx.Type, r.Money(tx.Amount), tx.Status)
		}
	}
	return b.String()
}

func (r *Renderer) Support(s shell.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.T("Support"))
	rule(&b)
	fmt.Fprintf(&b, "%s\n%s\n", r.T("Describe your problem in detail..."), button(r.T("Send message"), true))
	for _, m := range shell.OwnMessages(s) {
		fmt.Fprintf(&b, "\n• %s\n", m.Message)
		if m.Reply != "" {
			fmt.Fprintf(&b, "  ↳ %s\n", r.T("Reply: %s", m.Reply))
		}
	}
	return b.String()
}

func (r *Renderer) Profile(s shell.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.T("Profile settings"))
	rule(&b)
	if p := s.Profile; p != nil {
		fmt.Fprintf(&b, "%s: %s\n%s: %s\n", r.T("Name"), p.Name, r.T("Game ID"), p.GameID)
	}
	fmt.Fprintf(&b, "%s\n", button(r.T("Log out"), true))
	return b.String()
}

// Admin summarizes what needs an administrator's attention.
func (r *Renderer) Admin(s shell.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.T("Admin control"))
	rule(&b)
	pending := 0
	for _, tx := range s.Transactions {
		if tx.Status == models.TxPending {
			pending++
			fmt.Fprintf(&b, "%s  %s %-8s %s  %s %s\n", tx.ID, tx.UserID, tx.Type, r.Money(tx.Amount), tx.Method, tx.TransactionRef)
		}
	}
	unanswered := 0
	for _, m := range s.Messages {
		if m.Status == models.MessagePending {
			unanswered++
			fmt.Fprintf(&b, "%s  %s: %s\n", m.ID, m.UserName, m.Message)
		}
	}
	fmt.Fprintf(&b, "pending transactions: %d · open messages: %d · tournaments: %d\n", pending, unanswered, len(s.Tournaments))
	return b.String()
}
