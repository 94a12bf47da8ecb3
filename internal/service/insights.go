package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/cache"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

// ErrRecipeNotFound is returned when a named recipe is not in the dataset.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecordFilter narrows the records an endpoint works on.
type RecordFilter struct {
	DietType string
	Search   string
}

func (f RecordFilter) query() analytics.Query {
	return analytics.Query{Search: f.Search, DietType: f.DietType}
}

func (f RecordFilter) params() []string {
	return []string{"diet=" + f.DietType, "search=" + f.Search}
}

// RecipeQuery selects a page of recipes.
type RecipeQuery struct {
	RecordFilter
	Page     int
	PageSize int
}

// ClusterQuery configures a clustering request. K of zero picks a default.
type ClusterQuery struct {
	RecordFilter
	K              int
	IncludeMembers bool
}

// ScatterQuery configures a scatter plot. A nil Seed uses the configured one.
type ScatterQuery struct {
	RecordFilter
	X    string
	Y    string
	Seed *uint64
}

// InsightsService computes the analytics responses over the current dataset
// snapshot. Results are cached per snapshot version.
type InsightsService struct {
	source dataset.Source
	cache  cache.Cache
	cfg    config.AnalyticsConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewInsightsService creates a new InsightsService instance
func NewInsightsService(source dataset.Source, c cache.Cache, cfg config.AnalyticsConfig, logger *zap.Logger) *InsightsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &InsightsService{
		source: source,
		cache:  c,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Config returns the analytics settings the service was built with.
func (s *InsightsService) Config() config.AnalyticsConfig {
	return s.cfg
}

// DatasetStatus reports which snapshot is being served.
func (s *InsightsService) DatasetStatus(ctx context.Context) (DatasetStatus, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return DatasetStatus{}, err
	}
	return DatasetStatus{
		Source:   s.source.Name(),
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
		Recipes:  len(snap.Recipes),
		Report:   snap.Report,
	}, nil
}

// cached loads the snapshot and returns the stored result for op and params,
// computing and storing it on a miss. Cache failures only cost a recompute.
func cached[T any](ctx context.Context, s *InsightsService, op string, params []string, compute func(records []analytics.Recipe) (T, error)) (T, error) {
	var out T
	snap, err := s.source.Load(ctx)
	if err != nil {
		return out, err
	}

	key := cache.Key(snap.Version, op, params...)
	err = s.cache.Get(ctx, key, &out)
	switch {
	case err == nil:
		s.logger.Debug("cache hit", zap.String("key", key))
		return out, nil
	case !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err = compute(snap.Recipes)
	if err != nil {
		return out, err
	}
	if err := s.cache.Set(ctx, key, out); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func view(r analytics.Recipe) RecipeView {
	return RecipeView{
		RecipeName:  r.Name,
		DietType:    r.DietType,
		CuisineType: r.CuisineType,
		Protein:     round2(r.Protein),
		Carbs:       round2(r.Carbs),
		Fat:         round2(r.Fat),
	}
}

func views(records []analytics.Recipe) []RecipeView {
	out := make([]RecipeView, len(records))
	for i, r := range records {
		out[i] = view(r)
	}
	return out
}
