package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-finance/atlas/internal/buildinfo"
	"github.com/atlas-finance/atlas/internal/logging"
)

// app carries state shared by all subcommands.
type app struct {
	verbose bool
	logger  *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "atlas",
		Short:   "Fixed-asset depreciation schedules and dotation postings",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				return nil
			}
			logger, err := logging.New("debug")
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newScheduleCommand(a))
	rootCmd.AddCommand(newBatchCommand(a))
	rootCmd.AddCommand(newClassesCommand())
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
