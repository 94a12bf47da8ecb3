package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/bootstrap"
	"github.com/pageza/diet-insights/backend/internal/cache"
	"github.com/pageza/diet-insights/backend/internal/service"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload precomputed summaries of the configured dataset",
	Long:  `Computes the diet counts, overall macro averages and dashboard insights of the configured dataset source and uploads them, with the cleaned dataset, under S3_PUBLISH_PREFIX.`,
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// publishing reads the dataset once
	cfg.DatasetWatch = false

	ctx := cmd.Context()
	src, err := bootstrap.OpenSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer src.Close()

	s3cfg := src.S3
	if s3cfg == nil {
		if s3cfg, err = config.NewS3Config(ctx, cfg); err != nil {
			return err
		}
	}

	insights := service.NewInsightsService(src.Source, cache.Noop{}, cfg.Analytics, log)
	res, err := service.NewPublisher(insights, src.Source, s3cfg.Client, s3cfg.BucketName, cfg.S3PublishPrefix, log).Publish(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "published dataset version %s\n", res.Version)
	for _, key := range res.Keys {
		fmt.Fprintf(out, "  s3://%s/%s\n", s3cfg.BucketName, key)
	}
	return nil
}
