package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/causelist/internal/sink"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [result.json]",
	Short: "Print the summary of a saved result",
	Long: `Show reads a result written by check and prints its summary.
The exit status follows the saved outcome (0 found, 1 not found).

Example:
  causelist show
  causelist show ~/cases/ecourts_result.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	path := cfg.Output.Path
	if len(args) == 1 {
		path = args[0]
	}

	outcome, err := sink.Load(path)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	sink.RenderSummary(cmd.OutOrStdout(), outcome)

	if !outcome.Found {
		return &ExitError{Code: ExitNotFound, Silent: true}
	}
	return nil
}
