package cli

import (
	"context"
	"errors"
	"fmt"

	"ff-portal/client"
	"ff-portal/models"
	"ff-portal/rules"
	"ff-portal/shell"

	"github.com/spf13/cobra"
)

var joinCmd = &cobra.Command{
	Use:   "join [tournament-id]",
	Short: "Join a tournament with one name per player slot",
	Long: `Join a tournament. Solo takes one --name, Duo two and Squad four; the
entry fee is the base fee times the number of slots.`,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().String("type", string(models.MatchSolo), "Match mode: Solo, Duo or Squad")
	joinCmd.Flags().StringArray("name", nil, "In-game name of a player (repeat per slot)")
	joinCmd.Flags().Bool("quote", false, "Only show the fee for this match mode")
}

func runJoin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	typ, _ := cmd.Flags().GetString("type")
	names, _ := cmd.Flags().GetStringArray("name")
	quoteOnly, _ := cmd.Flags().GetBool("quote")

	if quoteOnly {
		q, err := a.api.Quote(cmd.Context(), args[0], models.MatchType(typ))
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "%s: %s · %s %s\n", a.r.T("Total fee"), a.r.Money(q.Fee), a.r.T("Balance"), a.r.Money(q.Balance))
		if !q.Affordable {
			a.say("insufficient_balance")
		}
		return nil
	}
	if err := a.refresh(cmd.Context()); err != nil {
		return a.fail(err)
	}
	return a.join(cmd.Context(), args[0], models.MatchType(typ), names)
}

// join drives the join dialog through the reducer so the request is only
// sent once the local checks pass.
func (a *app) join(ctx context.Context, id string, typ models.MatchType, names []string) error {
	a.dispatch(shell.OpenJoin{TournamentID: id})
	if typ != a.state.Join.Type {
		a.dispatch(shell.SelectType{Type: typ})
		if a.state.Join.Type != typ {
			return a.fail(rules.ErrInvalidMatchType)
		}
	}
	if len(names) > len(a.state.Join.Names) {
		return errors.New(a.r.Alert("wrong_roster_size", ""))
	}
	for i, name := range names {
		a.dispatch(shell.SetName{Index: i, Name: name})
	}
	fmt.Fprint(a.out, a.r.JoinDialog(a.state))

	a.dispatch(shell.SubmitJoin{})
	if !a.state.Join.Submitting {
		return errors.New(a.r.Alert(a.state.Alert, a.state.AlertDetail))
	}

	_, err := a.api.Join(ctx, id, a.state.Join.Type, a.state.Join.Names)
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		a.dispatch(shell.JoinFinished{Code: apiErr.Code, Detail: apiErr.Message})
		return errors.New(a.r.Alert(a.state.Alert, a.state.AlertDetail))
	case err != nil:
		return err
	}
	a.dispatch(shell.JoinFinished{})
	a.say(a.state.Alert)
	return nil
}
