package auth

import (
	"github.com/spf13/cobra"
)

// NewCommand groups the credential commands for the cloud, DNS and config
// var backends.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage wither's API tokens",
		Long: `Manage the API tokens wither uses for the droplet provider,
the DNS provider and the Heroku config var store.

Tokens are read from the environment first, then the OS keyring.`,
	}

	cmd.AddCommand(LoginCommand(), StatusCommand())

	return cmd
}
