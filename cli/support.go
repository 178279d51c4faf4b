package cli

import (
	"strings"

	"ff-portal/shell"

	"github.com/spf13/cobra"
)

var supportCmd = &cobra.Command{
	Use:   "support",
	Short: "Message the support team",
}

var supportSendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message to support",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSupportSend,
}

var supportListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your messages and their replies",
	RunE:  screen(shell.ViewSupport),
}

func init() {
	supportCmd.AddCommand(supportSendCmd)
	supportCmd.AddCommand(supportListCmd)
}

func runSupportSend(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	if _, err := a.api.SendMessage(cmd.Context(), strings.Join(args, " ")); err != nil {
		return a.fail(err)
	}
	a.say("message_sent")
	return nil
}
