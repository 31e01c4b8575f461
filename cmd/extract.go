package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Parse manifests and print every record as JSON",
	Long: `Parses each document in the order given and prints all records as one JSON
array. Any failing document aborts the whole call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write the JSON to this file instead of stdout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, paths []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.service.Extract(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if extractOut != "" {
		if err := os.WriteFile(extractOut, []byte(out), 0o644); err != nil {
			return apperr.Wrap(apperr.KindIO, err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
