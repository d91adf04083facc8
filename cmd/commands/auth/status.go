package auth

import (
	"errors"
	"fmt"
	"sort"

	"pickaxeclub/wither/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status for providers",
		Long: `Show which providers have a token in the environment or the keychain.

Example:
  wither auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(cmd, auth.DefaultStore())
		},
		SilenceUsage: true,
	}

	return cmd
}

func printStatus(cmd *cobra.Command, store auth.Store) error {
	names := make([]string, 0, len(auth.DefaultEnvVars))
	for name := range auth.DefaultEnvVars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, provider := range names {
		_, err := store.GetToken(provider)
		switch {
		case err == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: logged in\n", provider)
		case errors.Is(err, auth.ErrTokenNotFound):
			fmt.Fprintf(cmd.OutOrStdout(), "%s: not logged in (%s)\n", provider, auth.DefaultEnvVars[provider])
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", provider, err)
		}
	}
	return nil
}
