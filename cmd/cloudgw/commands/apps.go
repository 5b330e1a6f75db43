package commands

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cloudgw/internal/discovery"
	"cloudgw/internal/model"
)

func appsCmd() *cobra.Command {
	var registryURL string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List the instances known to the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if registryURL == "" {
				registryURL = cfg.Discovery.RegistryURL
			}
			apps, err := discovery.NewEurekaClient(registryURL).Applications(cmd.Context())
			if err != nil {
				return err
			}
			return printApplications(cmd.OutOrStdout(), apps)
		},
	}
	cmd.Flags().StringVar(&registryURL, "registry", "", "registry base URL (default REGISTRY_URL)")
	return cmd
}

func printApplications(w io.Writer, apps *model.Applications) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "APP\tINSTANCE\tSTATUS\tADDRESS")
	for _, a := range apps.Applications {
		for _, inst := range a.Instances {
			host := inst.IPAddr
			if host == "" {
				host = inst.HostName
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, inst.InstanceID, inst.Status, net.JoinHostPort(host, strconv.Itoa(inst.Port)))
		}
	}
	return tw.Flush()
}
