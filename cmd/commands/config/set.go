package config

import (
	"context"
	"fmt"
	"strings"

	"pickaxeclub/wither/internal/config"
	dnsproviders "pickaxeclub/wither/internal/dns/providers"
	"pickaxeclub/wither/internal/droplet"
	"pickaxeclub/wither/internal/providers"
	"pickaxeclub/wither/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration variable",
		Long: "Write a configuration variable to the config store.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  wither config set RCON_IP 203.0.113.5\n" +
			"  wither config set cloud-provider hetzner",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(value string) error{
	"cloud-provider":    validateProvider,
	"dns-updater":       validateUpdater,
	"rcon-ip":           util.ValidateIPv4,
	"boot-restore-week": validateWeek,
}

func runSet(cmd *cobra.Command, args []string) {
	spec := config.Lookup(args[0])
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	value := strings.TrimSpace(args[1])
	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
	}

	vars, closer, err := openStore()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := vars.Set(context.Background(), spec.Env, value); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Env, value)
}

// validateProvider checks that the given name is a registered cloud provider.
func validateProvider(name string) error {
	normalized := util.NormalizeKey(name)
	known := providers.List()
	for _, p := range known {
		if p == normalized {
			return nil
		}
	}
	return fmt.Errorf("unknown provider %q (registered: %v)", name, known)
}

// validateUpdater accepts the built-in updaters and registered DNS providers.
func validateUpdater(name string) error {
	known := append([]string{"script", "nsupdate"}, dnsproviders.List()...)
	for _, u := range known {
		if u == name {
			return nil
		}
	}
	return fmt.Errorf("unknown dns updater %q (valid: %s)", name, strings.Join(known, ", "))
}

func validateWeek(week string) error {
	_, err := droplet.ParseRestoreWeek(week)
	return err
}
