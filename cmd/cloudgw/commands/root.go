package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cloudgw/internal/config"
	"cloudgw/internal/logging"
)

var (
	cfg *config.AppConfig
	log *zap.Logger

	port string
)

// Execute runs the CLI until ctx is done or the selected command returns.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:          "cloudgw",
		Short:        "Report services and service registry",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if port != "" {
				cfg.Port = port
			}

			l, err := logging.New(cfg.Log, cfg.Location())
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")

	root.AddCommand(customerCmd(), employeeCmd(), registryCmd(), appsCmd())
	return root.ExecuteContext(ctx)
}

// defaultPort applies a role's port when neither --port nor PORT is set.
func defaultPort(p string) {
	if cfg.Port == "" {
		cfg.Port = p
	}
}
