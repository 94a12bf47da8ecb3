package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/service"
)

// MockInsightsService is a mock implementation of service.IInsightsService
type MockInsightsService struct {
	mock.Mock
}

var _ service.IInsightsService = (*MockInsightsService)(nil)

// Config returns the analytics defaults unless a Config call is expected.
func (m *MockInsightsService) Config() config.AnalyticsConfig {
	for _, call := range m.ExpectedCalls {
		if call.Method == "Config" {
			return m.Called().Get(0).(config.AnalyticsConfig)
		}
	}
	var cfg config.AnalyticsConfig
	cfg.ApplyDefaults()
	return cfg
}

func (m *MockInsightsService) DatasetStatus(ctx context.Context) (service.DatasetStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.DatasetStatus), args.Error(1)
}

func (m *MockInsightsService) NutritionalInsights(ctx context.Context) (service.NutritionalInsights, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.NutritionalInsights), args.Error(1)
}

func (m *MockInsightsService) Recipes(ctx context.Context, q service.RecipeQuery) (service.RecipePage, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(service.RecipePage), args.Error(1)
}

func (m *MockInsightsService) Clusters(ctx context.Context, q service.ClusterQuery) (service.ClusterResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(service.ClusterResponse), args.Error(1)
}

func (m *MockInsightsService) BarChart(ctx context.Context) (service.BarChart, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.BarChart), args.Error(1)
}

func (m *MockInsightsService) ScatterPlot(ctx context.Context, q service.ScatterQuery) (service.ScatterPlot, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(service.ScatterPlot), args.Error(1)
}

func (m *MockInsightsService) Heatmap(ctx context.Context, f service.RecordFilter) (service.Heatmap, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(service.Heatmap), args.Error(1)
}

func (m *MockInsightsService) PieChart(ctx context.Context) (service.PieChart, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.PieChart), args.Error(1)
}

func (m *MockInsightsService) ChartData(ctx context.Context, chartType string) (any, error) {
	args := m.Called(ctx, chartType)
	return args.Get(0), args.Error(1)
}

func (m *MockInsightsService) DietTypes(ctx context.Context) (service.DietTypes, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.DietTypes), args.Error(1)
}

func (m *MockInsightsService) Summary(ctx context.Context) (service.DietSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.DietSummary), args.Error(1)
}

func (m *MockInsightsService) Macronutrients(ctx context.Context) (map[string]service.MacroAverages, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]service.MacroAverages), args.Error(1)
}

func (m *MockInsightsService) NutrientRanges(ctx context.Context) (map[string]service.NutrientRange, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]service.NutrientRange), args.Error(1)
}

func (m *MockInsightsService) Correlations(ctx context.Context) (service.CorrelationReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.CorrelationReport), args.Error(1)
}

func (m *MockInsightsService) Comparison(ctx context.Context) ([]service.DietComparison, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.DietComparison), args.Error(1)
}

func (m *MockInsightsService) TopRecipes(ctx context.Context, nutrient string, n int) ([]service.TopRecipe, error) {
	args := m.Called(ctx, nutrient, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TopRecipe), args.Error(1)
}

func (m *MockInsightsService) CuisineDistribution(ctx context.Context) (map[string]map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]map[string]int), args.Error(1)
}

func (m *MockInsightsService) RecipesByDiet(ctx context.Context, dietType string) ([]service.RecipeView, error) {
	args := m.Called(ctx, dietType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeView), args.Error(1)
}

func (m *MockInsightsService) SearchRecipes(ctx context.Context, term, field string) ([]service.RecipeView, error) {
	args := m.Called(ctx, term, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeView), args.Error(1)
}

func (m *MockInsightsService) SimilarRecipes(ctx context.Context, name string, n int) (service.SimilarRecipes, error) {
	args := m.Called(ctx, name, n)
	return args.Get(0).(service.SimilarRecipes), args.Error(1)
}
