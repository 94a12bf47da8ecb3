package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

// Published object names, relative to the publish prefix.
const (
	DietSummaryObject         = "diet_summary.json"
	MacroAveragesObject       = "macro_averages.json"
	NutritionalInsightsObject = "nutritional_insights.json"
	CleanedDatasetObject      = "Cleaned_Diets.csv"
)

// PublishResult lists what a Publish call uploaded.
type PublishResult struct {
	Version string   `json:"version"`
	Keys    []string `json:"keys"`
}

// Publisher computes precalculated summaries and uploads them next to the
// dataset so static consumers can read them without calling the API.
type Publisher struct {
	insights *InsightsService
	source   dataset.Source
	client   dataset.ObjectAPI
	bucket   string
	prefix   string
	logger   *zap.Logger
}

// NewPublisher creates a new Publisher instance
func NewPublisher(insights *InsightsService, source dataset.Source, client dataset.ObjectAPI, bucket, prefix string, logger *zap.Logger) *Publisher {
	return &Publisher{
		insights: insights,
		source:   source,
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

// Publish uploads the diet counts, overall macro averages, the dashboard
// insights and the cleaned dataset.
func (p *Publisher) Publish(ctx context.Context) (PublishResult, error) {
	snap, err := p.source.Load(ctx)
	if err != nil {
		return PublishResult{}, err
	}
	records := snap.Recipes

	counts, err := analytics.CategoryCounts(records, analytics.FieldDietType)
	if err != nil {
		return PublishResult{}, err
	}
	averages, err := overallAverages(records)
	if err != nil {
		return PublishResult{}, err
	}
	insights, err := p.insights.NutritionalInsights(ctx)
	if err != nil {
		return PublishResult{}, err
	}

	var cleaned bytes.Buffer
	if err := dataset.WriteCSV(&cleaned, records); err != nil {
		return PublishResult{}, fmt.Errorf("write cleaned dataset: %w", err)
	}

	objects := []struct {
		name        string
		value       any
		raw         []byte
		contentType string
	}{
		{name: DietSummaryObject, value: countMap(counts), contentType: "application/json"},
		{name: MacroAveragesObject, value: averages, contentType: "application/json"},
		{name: NutritionalInsightsObject, value: insights, contentType: "application/json"},
		{name: CleanedDatasetObject, raw: cleaned.Bytes(), contentType: "text/csv"},
	}

	result := PublishResult{Version: snap.Version}
	for _, obj := range objects {
		body := obj.raw
		if body == nil {
			if body, err = json.MarshalIndent(obj.value, "", "  "); err != nil {
				return result, fmt.Errorf("encode %s: %w", obj.name, err)
			}
		}
		key := path.Join(p.prefix, obj.name)
		if err := dataset.PutObject(ctx, p.client, p.bucket, key, body, obj.contentType); err != nil {
			return result, err
		}
		p.logger.Info("published", zap.String("bucket", p.bucket), zap.String("key", key), zap.Int("bytes", len(body)))
		result.Keys = append(result.Keys, key)
	}
	return result, nil
}

// overallAverages is zero for an empty dataset.
func overallAverages(records []analytics.Recipe) (MacroAverages, error) {
	if len(records) == 0 {
		return MacroAverages{}, nil
	}
	sums, err := analytics.SummarizeAll(records, analytics.NutrientFields)
	if err != nil {
		return MacroAverages{}, err
	}
	return MacroAverages{
		Protein: round2(sums[0].Average),
		Carbs:   round2(sums[1].Average),
		Fat:     round2(sums[2].Average),
	}, nil
}
