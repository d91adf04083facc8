package cmd

import (
	"os"

	"pickaxeclub/wither/cmd/commands/auth"
	cfgcmd "pickaxeclub/wither/cmd/commands/config"
	"pickaxeclub/wither/cmd/commands/droplet"
	"pickaxeclub/wither/cmd/commands/say"
	"pickaxeclub/wither/cmd/commands/serve"
	"pickaxeclub/wither/internal/config"
	dnsproviders "pickaxeclub/wither/internal/dns/providers"
	"pickaxeclub/wither/internal/httpclient"
	"pickaxeclub/wither/internal/logging"
	"pickaxeclub/wither/internal/providers"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "wither",
		Short: "Chat-ops bridge for the pickaxe.club Minecraft server",
		Long: `wither connects a Slack channel to the pickaxe.club Minecraft server.

It relays chat in both directions and lets operators boot, shut down,
back up and re-point the game droplet from chat.

Quick start:
  wither serve                          # Run the webhook server
  wither say --as qrush wither status   # Try a chat line locally
  wither droplet status                 # Show the game droplet
  wither config keys                    # List configuration variables`,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(droplet.NewCommand())
	cmd.AddCommand(say.NewCommand())
	cmd.AddCommand(serve.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logCfg := logging.Config{Output: os.Stderr}
	if cfg, err := config.Load(); err == nil {
		logCfg.Level = cfg.LogLevel
		logCfg.JSONOutput = cfg.JSONLogs()
	}
	logging.Init(logCfg)

	providers.RegisterAll()
	dnsHTTP := httpclient.New(logging.WithComponent("dns"), httpclient.DefaultRetryMax)
	dnsproviders.RegisterAll(dnsHTTP.StandardClient())

	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
