package commands

import (
	"github.com/spf13/cobra"

	"cloudgw/internal/app"
	"cloudgw/internal/service"
)

func customerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "customer",
		Short: "Serve the customer report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPort("8081")
			return app.RunReport(cmd.Context(), cfg, service.CustomerReport, log)
		},
	}
}
