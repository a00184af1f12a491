package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/causelist/internal/store"
)

var (
	historyLimit int
	historyQuery string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded checks, newest first",
	Long: `List checks recorded with --history (or history.enabled in the config).

Example:
  causelist history
  causelist history --limit 5 --cnr MHAU012345662020
  causelist history --cnr "CC 123/2023"`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum checks to list")
	historyCmd.Flags().StringVar(&historyQuery, "cnr", "", "only checks for this CNR (or case key like \"CC 123/2023\")")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No history recorded yet (%s)\n", cfg.History.Path)
		return nil
	}

	db, err := store.NewSQLite(cfg.History.Path)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(cmd.Context()); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	checks, err := db.List(cmd.Context(), store.ListOptions{Limit: historyLimit, Query: historyQuery})
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	return writeHistory(cmd.OutOrStdout(), checks)
}

// writeHistory prints checks as an aligned table
func writeHistory(w io.Writer, checks []store.Check) error {
	if len(checks) == 0 {
		_, _ = fmt.Fprintln(w, "No matching checks")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RECORDED\tDATE\tQUERY\tFOUND\tSERIAL\tCOURT\tMETHOD")
	for _, c := range checks {
		found := "no"
		if c.Found {
			found = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.RecordedAt.Local().Format("2006-01-02 15:04"),
			c.CheckedDate,
			c.QueryKey,
			found,
			dash(c.Serial),
			dash(c.Court),
			dash(string(c.Method)),
		)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
