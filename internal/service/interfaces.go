package service

import (
	"context"

	"github.com/pageza/diet-insights/backend/config"
)

// IInsightsService defines the analytics operations served over HTTP
type IInsightsService interface {
	Config() config.AnalyticsConfig
	DatasetStatus(ctx context.Context) (DatasetStatus, error)

	NutritionalInsights(ctx context.Context) (NutritionalInsights, error)
	Recipes(ctx context.Context, q RecipeQuery) (RecipePage, error)
	Clusters(ctx context.Context, q ClusterQuery) (ClusterResponse, error)

	// Chart data
	BarChart(ctx context.Context) (BarChart, error)
	ScatterPlot(ctx context.Context, q ScatterQuery) (ScatterPlot, error)
	Heatmap(ctx context.Context, f RecordFilter) (Heatmap, error)
	PieChart(ctx context.Context) (PieChart, error)
	ChartData(ctx context.Context, chartType string) (any, error)

	DietTypes(ctx context.Context) (DietTypes, error)
	Summary(ctx context.Context) (DietSummary, error)
	Macronutrients(ctx context.Context) (map[string]MacroAverages, error)
	NutrientRanges(ctx context.Context) (map[string]NutrientRange, error)
	Correlations(ctx context.Context) (CorrelationReport, error)
	Comparison(ctx context.Context) ([]DietComparison, error)
	TopRecipes(ctx context.Context, nutrient string, n int) ([]TopRecipe, error)
	CuisineDistribution(ctx context.Context) (map[string]map[string]int, error)
	RecipesByDiet(ctx context.Context, dietType string) ([]RecipeView, error)
	SearchRecipes(ctx context.Context, term, field string) ([]RecipeView, error)
	SimilarRecipes(ctx context.Context, name string, n int) (SimilarRecipes, error)
}

var _ IInsightsService = (*InsightsService)(nil)
