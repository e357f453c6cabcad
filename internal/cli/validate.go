package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavshah/guard-roster-go/pkg/models"
	"github.com/arnavshah/guard-roster-go/pkg/scheduler"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var active []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a roster file without solving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			roster, err := root.load()
			if err == nil {
				var workers []models.Worker
				workers, err = roster.Active(active)
				if err == nil {
					fmt.Fprintf(out, "roster OK: %d workers, %d slots\n", len(workers), len(roster.Grid.Slots()))
					for _, w := range scheduler.CapacityWarnings(workers, roster.Grid) {
						fmt.Fprintf(out, "warning: %s\n", w)
					}
					return nil
				}
			}

			var cfgErr *models.ConfigError
			if errors.As(err, &cfgErr) {
				for _, p := range cfgErr.Problems {
					fmt.Fprintf(out, "problem: %s\n", p)
				}
			}
			return err
		},
	}
	cmd.Flags().StringSliceVar(&active, "active", nil, "names of the workers available this week (default all)")
	return cmd
}
