package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ff-portal/shell"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a screen live as the server pushes changes",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("view", string(shell.ViewHome), "Screen to follow: home, my-matches, wallet, support, profile or admin")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	view, _ := cmd.Flags().GetString("view")
	a.dispatch(shell.Navigate{View: shell.View(view)})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.api.OnReconnect = func(err error, wait time.Duration) {
		fmt.Fprintln(a.out, "\n"+a.r.T("Connection lost, reconnecting in %s", wait))
	}
	err = a.api.Follow(ctx, func(topic string, data []byte) error {
		a.apply(topic, data)
		fmt.Fprint(a.out, "\033[H\033[2J", a.r.Screen(a.state))
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return a.fail(err)
}

// apply folds one stream event into the state. Unknown topics are skipped
// so older clients keep working against newer servers.
func (a *app) apply(topic string, data []byte) {
	act, err := shell.SnapshotAction(topic, data)
	if err != nil {
		return
	}
	a.dispatch(act)
}
