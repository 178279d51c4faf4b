package cli

import (
	"fmt"

	"ff-portal/shell"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show notices and running tournaments",
	RunE:  screen(shell.ViewHome),
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show the matches you joined",
	RunE:  screen(shell.ViewMyMatches),
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE:  screen(shell.ViewProfile),
}

var playersCmd = &cobra.Command{
	Use:   "players [tournament-id]",
	Short: "List the teams registered for a tournament",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayers,
}

func screen(view shell.View) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		return a.show(cmd.Context(), view)
	}
}

func runPlayers(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	t, err := a.api.Tournament(cmd.Context(), args[0])
	if err != nil {
		return a.fail(err)
	}
	players, err := a.api.Players(cmd.Context(), t.ID)
	if err != nil {
		return a.fail(err)
	}
	t.JoinedPlayers = players
	fmt.Fprint(a.out, a.r.Players(*t))
	return nil
}
