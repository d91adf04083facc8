package droplet

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "droplet" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "droplet",
		Short: "Inspect the game droplet",
	}

	cmd.AddCommand(StatusCommand())

	return cmd
}
