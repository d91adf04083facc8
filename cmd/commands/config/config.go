package config

import (
	"fmt"
	"io"

	"pickaxeclub/wither/internal/app"
	"pickaxeclub/wither/internal/config"
	"pickaxeclub/wither/internal/configvars"
	"pickaxeclub/wither/internal/httpclient"
	"pickaxeclub/wither/internal/logging"
	"pickaxeclub/wither/internal/services/auth"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wither configuration variables",
		Long: "Read and write the configuration variables wither runs with.\n\n" +
			"Values live in the store named by WITHER_CONFIG_STORE (the Heroku app's\n" +
			"config vars by default). Writing a Heroku config var restarts the app.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(GetCommand())
	cmd.AddCommand(SetCommand())
	cmd.AddCommand(KeysCommand())

	return cmd
}

// KeysCommand returns the "config keys" command.
func KeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List configuration variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.KeysHelp())
		},
	}
}

// openStore loads the process configuration and opens its config var store.
func openStore() (configvars.Store, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client := httpclient.New(logging.WithComponent("http"), httpclient.DefaultRetryMax)
	return app.OpenVars(cfg, auth.DefaultStore(), client)
}
