package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/db"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs",
	Long: `Lists the most recent extract, export and categories runs recorded in the
local database.

  manifest history --limit 5
  manifest history clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryClear(cmd)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if a.history == nil {
		a.Close()
		return nil, apperr.New(apperr.KindInvalidInput, "run history is disabled")
	}
	return a, nil
}

func runHistory(cmd *cobra.Command) error {
	a, err := openHistory()
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.history.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return apperr.Wrap(apperr.KindIO, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Run History")
	fmt.Fprintln(w, "------------------------------------")
	if len(runs) == 0 {
		fmt.Fprintln(w, "No history found.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "[%s] %-10s %-6s %5d records  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.Operation, r.Status, r.RecordCount, strings.Join(r.Paths, ", "))
		if r.Output != "" {
			fmt.Fprintf(w, "    -> %s\n", r.Output)
		}
		if r.Status != db.StatusOK {
			fmt.Fprintf(w, "    %s: %s\n", r.ErrorKind, r.ErrorMessage)
		}
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command) error {
	a, err := openHistory()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.history.ClearRuns(cmd.Context())
	if err != nil {
		return apperr.Wrap(apperr.KindIO, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d runs.\n", n)
	return nil
}
