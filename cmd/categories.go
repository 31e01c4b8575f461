package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories [paths...]",
	Short: "List the category codes found in the manifests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCategories(cmd, args)
	},
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, paths []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cats, err := a.service.Categories(cmd.Context(), paths)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if categoriesJSON {
		data, err := json.Marshal(cats)
		if err != nil {
			return apperr.Wrap(apperr.KindJSON, err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(cats) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	fmt.Fprintf(w, "%-5s %-7s %s\n", "CODE", "ITEMS", "DESCRIPTION")
	for _, c := range cats {
		fmt.Fprintf(w, "%-5d %-7d %s\n", c.ID, c.Count, c.Description)
	}

	if len(a.parser.CategoryTemplates) > 0 {
		names := make([]string, 0, len(a.parser.CategoryTemplates))
		for name := range a.parser.CategoryTemplates {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Templates:")
		for _, name := range names {
			fmt.Fprintf(w, "  %-12s %v\n", name, a.parser.CategoryTemplates[name])
		}
	}
	return nil
}
