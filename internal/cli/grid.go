package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavshah/guard-roster-go/pkg/report"
)

func newGridCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the workers and the week's slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := root.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n%s\n", report.WorkerTable(roster.Workers), report.SlotTable(roster.Grid.Slots()))
			fmt.Fprintf(out, "Slot length %g hrs, weekly cap %g hrs\n", roster.Grid.SlotDuration, roster.Grid.MaxHoursPerWeek)
			return nil
		},
	}
}
