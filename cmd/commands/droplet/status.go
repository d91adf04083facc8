package droplet

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"pickaxeclub/wither/internal/config"
	"pickaxeclub/wither/internal/domain"
	"pickaxeclub/wither/internal/droplet"
	"pickaxeclub/wither/internal/providers"
	"pickaxeclub/wither/internal/services/auth"

	"github.com/spf13/cobra"
)

// StatusCommand returns the "droplet status" command.
func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the managed droplet",
		Long: `Show the droplet named by WITHER_DROPLET_NAME as the cloud provider
reports it right now.

Examples:
  wither droplet status
  wither droplet status -o json`,
		Args:         cobra.NoArgs,
		RunE:         runStatus,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	provider, err := providers.Get(cfg.CloudProvider, auth.DefaultStore())
	if err != nil {
		return err
	}

	d, err := droplet.Find(context.Background(), provider, cfg.DropletName)
	if err != nil {
		return fmt.Errorf("failed to list droplets: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	if d == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is not running on %s.\n", cfg.DropletName, provider.GetDisplayName())
		return nil
	}
	printDroplet(cmd, d)
	return nil
}

// printDroplet prints a vertical key-value table of the droplet.
func printDroplet(cmd *cobra.Command, d *domain.Droplet) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "  ID:\t%s\n", d.ID)
	fmt.Fprintf(w, "  Name:\t%s\n", d.Name)
	fmt.Fprintf(w, "  Status:\t%s\n", d.Status)
	fmt.Fprintf(w, "  Provider:\t%s\n", d.Provider)
	fmt.Fprintf(w, "  Size:\t%s\n", d.Size)
	if d.Image != "" {
		fmt.Fprintf(w, "  Image:\t%s\n", d.Image)
	}
	fmt.Fprintf(w, "  Region:\t%s\n", d.Region)
	if d.PublicIPv4 != "" {
		fmt.Fprintf(w, "  IPv4:\t%s\n", d.PublicIPv4)
	}
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Created:\t%s\n", d.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	w.Flush()
}
