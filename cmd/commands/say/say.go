package say

import (
	"context"
	"fmt"
	"strings"

	"pickaxeclub/wither/internal/app"
	"pickaxeclub/wither/internal/chat"
	"pickaxeclub/wither/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "say" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "say --as <user> <text...>",
		Short: "Run one chat line through the dispatcher",
		Long: `Run one chat line through the dispatcher as if it came from the chat
platform. Chat output is printed here instead of being posted.

Game and cloud side effects are real.

Examples:
  wither say --as qrush wither status
  wither say --as qrush hello from the terminal`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runSay,
		SilenceUsage: true,
	}

	cmd.Flags().String("as", "", "Chat user name to act as (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func runSay(cmd *cobra.Command, args []string) error {
	issuer, _ := cmd.Flags().GetString("as")
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return fmt.Errorf("--as cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.Build(cfg, app.Options{Poster: chat.NewConsolePoster(cmd.OutOrStdout())})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Dispatcher.Dispatch(context.Background(), issuer, strings.Join(args, " "))
}
