package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hiersim/manet-simulations/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available simulations",
	Long:  `List all available simulations with their descriptions and parameter counts`,
	RunE:  listSimulations,
}

func listSimulations(_ *cobra.Command, _ []string) error {
	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		return fmt.Errorf("failed to discover simulations: %w", err)
	}

	if len(simInfos) == 0 {
		fmt.Println("No simulations found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tCATEGORY\tPARAMS\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t------\t-----------")

	for _, info := range simInfos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			info.Config.Name,
			info.Config.Version,
			info.Config.Category,
			len(info.Config.Parameters),
			info.Config.Description,
		)
	}

	return w.Flush()
}
