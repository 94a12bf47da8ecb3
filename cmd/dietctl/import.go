package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/diet-insights/backend/internal/bootstrap"
	"github.com/pageza/diet-insights/backend/internal/database"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the recipes table with a cleaned dataset file",
	Long:  `Parses a CSV or XLSX dataset, cleans it and replaces the contents of the recipes table in one transaction.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var migrationsDir string

func init() {
	importCmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "Directory holding the SQL migrations")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	_, file, err := readDataset(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bootstrap.MigrationsDir = migrationsDir
	db, err := bootstrap.OpenDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := dataset.NewDBSource(db, log).Import(cmd.Context(), file.Recipes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d recipes (%d rejected, %d imputed)\n",
		len(file.Recipes), file.Report.Rejected, file.Report.Imputed)
	return nil
}
