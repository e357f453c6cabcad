// Package cli implements the roster command line tool.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arnavshah/guard-roster-go/pkg/config"
	"github.com/arnavshah/guard-roster-go/pkg/logging"
)

type rootOptions struct {
	rosterFile string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the command tree. Output goes to cmd.OutOrStdout so tests
// can capture it.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Build weekly guard rosters",
		Long: `roster assigns workers to the week's shift slots.

The exact solver finds the cheapest roster that covers every slot. The
heuristic solver fills slots greedily, favouring whoever has worked least.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.rosterFile, "roster", "", "roster YAML file (default is the built-in week)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(newSolveCmd(opts))
	cmd.AddCommand(newGridCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	return cmd
}

// Execute runs the root command
func Execute() error {
	config.LoadDotEnv()
	return NewRootCmd().Execute()
}

func (o *rootOptions) load() (*config.Roster, error) {
	return config.LoadRoster(o.rosterFile)
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logging.New(o.logLevel, o.logFormat, cmd.ErrOrStderr())
}
