package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clubops/eventwatch/internal/domain"
)

// FlagError marks a command-line parsing failure so main can exit with the
// conventional usage-error status.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string { return e.Err.Error() }
func (e *FlagError) Unwrap() error { return e.Err }

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var oldData, newData string

	rootCmd := &cobra.Command{
		Use:   "eventwatch",
		Short: "Report new and changed WildApricot events between two snapshots",
		Long: "eventwatch compares two snapshots of a WildApricot event collection,\n" +
			"filtered to future events carrying the configured tag, and prints the\n" +
			"events that are new or whose confirmed registration count changed.\n\n" +
			"Without flags it loads the most recent snapshot from the data directory,\n" +
			"fetches the live collection, saves it as a new snapshot, and reports the\n" +
			"differences. With --old-data and --new-data it compares the two files\n" +
			"offline.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (oldData == "") != (newData == "") {
				return domain.ErrDataFlagPair
			}

			app, err := wireApp()
			if err != nil {
				return err
			}
			return runReport(cmd, app, oldData, newData)
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &FlagError{Err: err}
	})

	rootCmd.Flags().StringVar(&oldData, "old-data", "", "Snapshot file to compare against (default: most recent in the data directory)")
	rootCmd.Flags().StringVar(&newData, "new-data", "", "Snapshot file to compare (default: fetch live events and save a snapshot)")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
