package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

type datasetFile struct {
	Recipes []analytics.Recipe
	Report  dataset.ParseReport
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Parse a dataset file and print the cleaning report",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, file, err := readDataset(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	counts, err := analytics.CategoryCounts(file.Recipes, analytics.FieldDietType)
	if err != nil {
		return err
	}

	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Report    dataset.ParseReport       `json:"report"`
			DietTypes []analytics.CategoryCount `json:"diet_types"`
		}{file.Report, counts})
	}

	r := file.Report
	fmt.Fprintf(out, "rows: %d\naccepted: %d\nrejected: %d\nimputed: %d\nduplicates: %d\n",
		r.Rows, r.Accepted, r.Rejected, r.Imputed, r.Duplicates)
	for _, e := range r.Errors {
		fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Reason)
	}
	fmt.Fprintln(out, "diet types:")
	for _, c := range counts {
		fmt.Fprintf(out, "  %s: %d\n", c.Value, c.Count)
	}
	return nil
}
