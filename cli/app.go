package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ff-portal/client"
	"ff-portal/rules"
	"ff-portal/shell"
	"ff-portal/views"

	"github.com/spf13/cobra"
)

// app is one command invocation: settings, an API client and the shell
// state that the renderer draws.
type app struct {
	dir      string
	settings Settings
	api      *client.Client
	r        *views.Renderer
	state    shell.State
	out      io.Writer
}

func newApp(cmd *cobra.Command, signedIn bool) (*app, error) {
	dir := Dir()
	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	a := newAppWith(dir, settings, cmd.OutOrStdout())
	if !signedIn {
		return a, nil
	}
	sess, err := loadSession(dir, settings.Server)
	if err != nil {
		return nil, err
	}
	a.signIn(sess)
	return a, nil
}

func newAppWith(dir string, settings Settings, out io.Writer) *app {
	return &app{
		dir:      dir,
		settings: settings,
		api:      client.New(settings.Server, ""),
		r:        views.New(settings.Lang),
		state:    shell.Initial(time.Now()),
		out:      out,
	}
}

func (a *app) dispatch(act shell.Action) {
	a.state = shell.Reduce(a.state, act)
}

func (a *app) signIn(sess *shell.Session) {
	a.api.Token = sess.Token
	a.dispatch(shell.SessionChanged{Session: sess})
}

// remember caches a fresh sign-in and loads its profile into the state.
func (a *app) remember(res *client.AuthResult) error {
	sess := &shell.Session{
		Token:  res.Session.Token,
		UserID: res.Session.UserID,
		Email:  res.Session.Email,
		Roles:  res.Session.Roles,
	}
	if err := saveSession(a.dir, a.settings.Server, sess); err != nil {
		return err
	}
	a.signIn(sess)
	profile := res.Profile
	a.dispatch(shell.ProfileLoaded{Profile: &profile})
	return nil
}

// refresh loads every collection the screens draw from.
func (a *app) refresh(ctx context.Context) error {
	profile, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	a.dispatch(shell.ProfileLoaded{Profile: profile})

	tournaments, err := a.api.Tournaments(ctx, "all")
	if err != nil {
		return err
	}
	a.dispatch(shell.TournamentsLoaded{Tournaments: tournaments})

	wallet, err := a.api.Wallet(ctx)
	if err != nil {
		return err
	}
	a.dispatch(shell.TransactionsLoaded{Transactions: wallet.Transactions})

	settings, err := a.api.Settings(ctx)
	if err != nil {
		return err
	}
	a.dispatch(shell.SettingsLoaded{Settings: *settings})

	msgs, err := a.api.Messages(ctx)
	if err != nil {
		return err
	}
	a.dispatch(shell.MessagesLoaded{Messages: msgs})

	notices, err := a.api.Notices(ctx)
	if err != nil {
		return err
	}
	a.dispatch(shell.NoticesLoaded{Notices: notices})

	marquee, err := a.api.Marquee(ctx)
	if err != nil {
		return err
	}
	a.dispatch(shell.MarqueeLoaded{Text: marquee})
	return nil
}

// show refreshes the state, opens view and prints the screen.
func (a *app) show(ctx context.Context, view shell.View) error {
	if err := a.refresh(ctx); err != nil {
		return a.fail(err)
	}
	a.dispatch(shell.Navigate{View: view})
	fmt.Fprint(a.out, a.r.Screen(a.state))
	return nil
}

func (a *app) say(code string) {
	fmt.Fprintln(a.out, a.r.Alert(code, ""))
}

// fail turns API and rule errors into the localized alert text.
func (a *app) fail(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(a.r.Alert(apiErr.Code, apiErr.Message))
	}
	var ruleErr *rules.Error
	if errors.As(err, &ruleErr) {
		return errors.New(a.r.Alert(ruleErr.Code, ruleErr.Message))
	}
	return err
}
