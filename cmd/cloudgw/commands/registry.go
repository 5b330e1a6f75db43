package commands

import (
	"github.com/spf13/cobra"

	"cloudgw/internal/app"
)

func registryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Run the service registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPort("8761")
			return app.RunRegistry(cmd.Context(), cfg, log)
		},
	}
}
