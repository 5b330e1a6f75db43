package commands

import (
	"github.com/spf13/cobra"

	"cloudgw/internal/app"
	"cloudgw/internal/service"
)

func employeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "employee",
		Short: "Serve the employee report and register with the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPort("8082")
			return app.RunReport(cmd.Context(), cfg, service.EmployeeReport, log)
		},
	}
}
