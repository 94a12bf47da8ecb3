package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/dataset"
	"github.com/pageza/diet-insights/backend/internal/logger"
)

var (
	debug  bool
	dedupe bool

	// replaced in tests
	loadConfig = config.LoadConfig
	log        = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "dietctl",
	Short:         "Manage the diet insights dataset",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(debug)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dedupe, "dedupe", false, "Drop duplicate rows while parsing")
}

// readDataset reads and cleans a local CSV or XLSX file.
func readDataset(path string) ([]byte, *datasetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	recipes, report, err := dataset.Parse(filepath.Base(path), data, dataset.ParseOptions{Dedupe: dedupe})
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, &datasetFile{Recipes: recipes, Report: report}, nil
}
