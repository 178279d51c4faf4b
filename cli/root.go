package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "ffportal",
		Short: "FF Portal terminal client",
		Long: `ffportal signs in to an FF Portal server, lists tournaments, joins them
and manages the wallet from the terminal.

Settings come from ~/.ffportal/config.yaml and FFPORTAL_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("server", defaultServer, "Portal server URL")
	rootCmd.PersistentFlags().String("lang", "en", "Display language (en or bn)")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(googleCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
