package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pickaxeclub/wither/internal/config"
	"pickaxeclub/wither/internal/configvars"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration variable",
		Long: "Print one configuration variable, or every known one when no key is given.\n\n" +
			"Keys may be given as variable names or CLI names.\n\n" +
			"Examples:\n" +
			"  wither config get                 # all known variables\n" +
			"  wither config get RCON_IP\n" +
			"  wither config get boot-restore-week",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	var spec *config.KeySpec
	if len(args) == 1 {
		spec = config.Lookup(args[0])
		if spec == nil {
			return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
		}
	}

	vars, closer, err := openStore()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	ctx := context.Background()

	if spec != nil {
		value, err := vars.Get(ctx, spec.Env)
		switch {
		case errors.Is(err, configvars.ErrNotFound):
			fmt.Fprintln(cmd.OutOrStdout(), "not set")
		case err != nil:
			return err
		default:
			fmt.Fprintln(cmd.OutOrStdout(), value)
		}
		return nil
	}

	all, err := vars.All(ctx)
	if err != nil {
		return err
	}
	for _, k := range config.Keys {
		value, ok := all[k.Env]
		if !ok || value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k.Env, value)
	}
	return nil
}
