package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"pickaxeclub/wither/internal/app"
	"pickaxeclub/wither/internal/config"
	"pickaxeclub/wither/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewCommand returns the "serve" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long: `Run the HTTP server that receives chat, game log and droplet boot
webhooks. The port comes from PORT.

Stops gracefully on SIGINT or SIGTERM.`,
		Args:         cobra.NoArgs,
		RunE:         runServe,
		SilenceUsage: true,
	}

	cmd.Flags().String("port", "", "Listen port (overrides PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	a, err := app.Build(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.WithComponent("serve")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server().Run(gctx)
	})
	g.Go(func() error {
		a.Probe(gctx, logger)
		return nil
	})

	return g.Wait()
}
