package cli

import (
	"fmt"

	"ff-portal/client"
	"ff-portal/rules"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login [user-id or email]",
	Short: "Sign in with a user ID or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in with a Google identity token",
	RunE:  runGoogle,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the cached session",
	RunE:  runLogout,
}

func init() {
	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("id", "", "User ID or email")
	registerCmd.Flags().String("game-id", "", "Free Fire game ID")
	registerCmd.Flags().String("password", "", "Password (at least 6 characters)")

	loginCmd.Flags().String("password", "", "Password")

	googleCmd.Flags().String("id-token", "", "ID token issued by Google")
	_ = googleCmd.MarkFlagRequired("id-token")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	id, _ := cmd.Flags().GetString("id")
	gameID, _ := cmd.Flags().GetString("game-id")
	password, _ := cmd.Flags().GetString("password")

	if err := rules.ValidateRegistration(name, id, gameID, password); err != nil {
		return a.fail(err)
	}
	res, err := a.api.Register(cmd.Context(), client.Registration{Name: name, LoginID: id, GameID: gameID, Password: password})
	if err != nil {
		return a.fail(err)
	}
	if err := a.remember(res); err != nil {
		return err
	}
	a.say("register_success")
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	password, _ := cmd.Flags().GetString("password")
	res, err := a.api.Login(cmd.Context(), args[0], password)
	if err != nil {
		return a.fail(err)
	}
	if err := a.remember(res); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s · %s %s\n", res.Profile.Name, a.r.T("Balance"), a.r.Money(res.Profile.Balance))
	return nil
}

func runGoogle(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	token, _ := cmd.Flags().GetString("id-token")
	res, err := a.api.Federated(cmd.Context(), "google", token)
	if err != nil {
		return a.fail(err)
	}
	if err := a.remember(res); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s · %s %s\n", res.Profile.Name, a.r.T("Balance"), a.r.Money(res.Profile.Balance))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err == errNotSignedIn {
		return nil
	}
	if err != nil {
		return err
	}
	if err := a.api.Logout(cmd.Context()); err != nil {
		// The local session is dropped either way.
		fmt.Fprintln(cmd.ErrOrStderr(), a.fail(err))
	}
	return clearSession(a.dir)
}
