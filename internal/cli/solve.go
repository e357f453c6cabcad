package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavshah/guard-roster-go/pkg/report"
	"github.com/arnavshah/guard-roster-go/pkg/scheduler"
)

type solveOptions struct {
	mode         string
	active       []string
	timeLimit    time.Duration
	format       string
	allowPartial bool
	strict       bool
}

func newSolveCmd(root *rootOptions) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the week and print the roster",
		Example: `  roster solve --mode exact
  roster solve --active "John Smith,Jane Doe" --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "auto", "solver mode (exact, heuristic, auto)")
	cmd.Flags().StringSliceVar(&opts.active, "active", nil, "names of the workers available this week (default all)")
	cmd.Flags().DurationVar(&opts.timeLimit, "time-limit", 10*time.Second, "exact solver time budget")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format (table, csv, json)")
	cmd.Flags().BoolVar(&opts.allowPartial, "allow-partial", false, "let the exact solver leave slots unfilled instead of failing")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any slot is left unfilled")
	return cmd
}

func runSolve(cmd *cobra.Command, root *rootOptions, opts *solveOptions) error {
	switch opts.format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	mode, err := scheduler.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	roster, err := root.load()
	if err != nil {
		return err
	}
	workers, err := roster.Active(opts.active)
	if err != nil {
		return err
	}

	s, err := scheduler.NewScheduler(workers, roster.Grid,
		scheduler.WithPolicy(roster.Policy),
		scheduler.WithLogger(root.logger(cmd)),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result := s.Run(ctx, scheduler.RunOptions{
		Mode: mode,
		ExactOptions: scheduler.ExactOptions{
			TimeLimit:    opts.timeLimit,
			AllowPartial: opts.allowPartial,
		},
	})

	out := cmd.OutOrStdout()
	switch opts.format {
	case "csv":
		err = report.WriteCSV(out, result.Rows)
	case "json":
		err = report.WriteJSON(out, result.Rows, result.Summary)
	default:
		_, err = fmt.Fprintf(out, "%s\n\n%s", report.Table(result.Rows), report.SummaryText(result.Summary))
	}
	if err != nil {
		return err
	}

	if n := len(result.Summary.UnfilledSlots); opts.strict && n > 0 {
		return fmt.Errorf("%d slots left unfilled (%s)", n, result.Summary.Status)
	}
	return nil
}
