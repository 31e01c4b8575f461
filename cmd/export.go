package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/commands"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

var (
	exportCategories string
	exportOutput     string
)

var exportCmd = &cobra.Command{
	Use:   "export [paths...]",
	Short: "Write the records of selected categories to CSV or XLSX",
	Long: `Parses every document, keeps the records whose category is selected and
writes them to --output. A .xlsx extension produces a workbook, anything else CSV.

--categories takes a comma separated mix of category codes, template names from
the config file, "all" or "none":
  manifest export a.csv b.csv --categories 1,3,40 --output out.csv
  manifest export a.csv --categories clothing --output clothing.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportCategories, "categories", "c", "all", "categories to keep")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (.csv or .xlsx)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, paths []string) error {
	if exportOutput == "" {
		return apperr.New(apperr.KindInvalidInput, "no output path provided")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var available []models.Category
	if wantsAll(exportCategories) {
		available, err = a.service.Categories(cmd.Context(), paths)
		if err != nil {
			return err
		}
	}

	codes, err := commands.ResolveCategories(exportCategories, a.parser.CategoryTemplates, available)
	if err != nil {
		return err
	}

	n, err := a.service.BuildFilteredExport(cmd.Context(), paths, codes, exportOutput)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", n, exportOutput)
	return nil
}

func wantsAll(selection string) bool {
	for _, tok := range strings.Split(selection, ",") {
		if strings.EqualFold(strings.TrimSpace(tok), "all") {
			return true
		}
	}
	return false
}
