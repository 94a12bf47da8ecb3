package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a dataset file to the S3 dataset key",
	Long:  `Validates a CSV or XLSX dataset and uploads it unchanged to the configured bucket, where the s3 source picks it up by ETag.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var (
	uploadKey     string
	uploadPresign time.Duration
)

func init() {
	uploadCmd.Flags().StringVar(&uploadKey, "key", "", "Object key (defaults to DATASET_KEY)")
	uploadCmd.Flags().DurationVar(&uploadPresign, "presign", 0, "Print a presigned download URL valid for this long")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	data, file, err := readDataset(args[0])
	if err != nil {
		return err
	}
	if len(file.Recipes) == 0 {
		return fmt.Errorf("%s has no valid recipes", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}

	key := uploadKey
	if key == "" {
		key = cfg.DatasetKey
	}
	if err := dataset.PutObject(ctx, s3cfg.Client, s3cfg.BucketName, key, data, contentType(args[0])); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "uploaded %s to s3://%s/%s (%d recipes)\n", args[0], s3cfg.BucketName, key, len(file.Recipes))

	if uploadPresign > 0 {
		url, err := s3cfg.GeneratePresignedURL(ctx, key, uploadPresign)
		if err != nil {
			return fmt.Errorf("presign: %w", err)
		}
		fmt.Fprintln(out, url)
	}
	return nil
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}
