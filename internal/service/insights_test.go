package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/cache"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

func fixtureRecipes() []analytics.Recipe {
	return []analytics.Recipe{
		{Name: "Steak Salad", DietType: "keto", CuisineType: "american", Protein: 40, Carbs: 5, Fat: 30},
		{Name: "Lentil Curry", DietType: "vegan", CuisineType: "indian", Protein: 18, Carbs: 50, Fat: 6},
		{Name: "Bacon Eggs", DietType: "keto", CuisineType: "american", Protein: 25, Carbs: 2, Fat: 35},
		{Name: "Tofu Stir Fry", DietType: "vegan", CuisineType: "chinese", Protein: 20, Carbs: 30, Fat: 10},
		{Name: "Salmon Bowl", DietType: "paleo", CuisineType: "japanese", Protein: 35, Carbs: 20, Fat: 18},
		{Name: "Chickpea Salad", DietType: "vegan", CuisineType: "mediterranean", Protein: 15, Carbs: 45, Fat: 9},
		{Name: "Keto Chicken", DietType: "keto", CuisineType: "american", Protein: 42, Carbs: 3, Fat: 25},
	}
}

func defaultAnalytics() config.AnalyticsConfig {
	var cfg config.AnalyticsConfig
	cfg.ApplyDefaults()
	return cfg
}

// memoryCache is an in-process cache.Cache that counts hits.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) error { return errors.New("connection refused") }
func (brokenCache) Set(context.Context, string, any) error { return errors.New("connection refused") }

func newTestService(t *testing.T) *InsightsService {
	t.Helper()
	return NewInsightsService(dataset.NewStaticSource(fixtureRecipes()), nil, defaultAnalytics(), zap.NewNop())
}

func TestSummary(t *testing.T) {
	s := newTestService(t)
	sum, err := s.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DietSummary{
		TotalRecipes:      7,
		TotalDietTypes:    3,
		TotalCuisineTypes: 5,
		DietTypes:         []string{"keto", "vegan", "paleo"},
		MostCommonDiet:    "keto",
		MostCommonCuisine: "american",
	}, sum)
}

func TestSummaryEmptyDataset(t *testing.T) {
	s := NewInsightsService(dataset.NewStaticSource(nil), nil, defaultAnalytics(), zap.NewNop())
	sum, err := s.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalRecipes)
	assert.Equal(t, "Unknown", sum.MostCommonDiet)

	ranges, err := s.NutrientRanges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestMacronutrientsAndComparison(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	macros, err := s.Macronutrients(ctx)
	require.NoError(t, err)
	assert.Equal(t, MacroAverages{Protein: 35.67, Carbs: 3.33, Fat: 30}, macros["keto"])
	assert.Equal(t, MacroAverages{Protein: 17.67, Carbs: 41.67, Fat: 8.33}, macros["vegan"])
	assert.Equal(t, MacroAverages{Protein: 35, Carbs: 20, Fat: 18}, macros["paleo"])

	comparison, err := s.Comparison(ctx)
	require.NoError(t, err)
	require.Len(t, comparison, 3)
	assert.Equal(t, DietComparison{DietType: "keto", Protein: 35.67, Carbs: 3.33, Fat: 30, TotalRecipes: 3}, comparison[0])
	assert.Equal(t, "paleo", comparison[2].DietType)
	assert.Equal(t, 1, comparison[2].TotalRecipes)
}

func TestNutrientRanges(t *testing.T) {
	ranges, err := newTestService(t).NutrientRanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NutrientRange{Min: 15, Max: 42, Average: 27.86, Median: 25}, ranges["Protein"])
	assert.Len(t, ranges, 3)
}

func TestCuisineDistributionAndDietTypes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	dist, err := s.CuisineDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"american": 3}, dist["keto"])
	assert.Equal(t, map[string]int{"indian": 1, "chinese": 1, "mediterranean": 1}, dist["vegan"])

	types, err := s.DietTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keto", "paleo", "vegan"}, types.DietTypes)
	assert.Equal(t, map[string]int{"keto": 3, "vegan": 3, "paleo": 1}, types.DietCounts)
	assert.Equal(t, 3, types.TotalTypes)
}

func TestRecipesPagination(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	page, err := s.Recipes(ctx, RecipeQuery{Page: 3, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Keto Chicken", page.Recipes[0].RecipeName)
	assert.Equal(t, Pagination{CurrentPage: 3, TotalPages: 3, TotalRecipes: 7, PageSize: 3, HasNext: false, HasPrevious: true}, page.Pagination)

	filtered, err := s.Recipes(ctx, RecipeQuery{RecordFilter: RecordFilter{DietType: "VEGAN", Search: "salad"}, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, filtered.Recipes, 1)
	assert.Equal(t, "Chickpea Salad", filtered.Recipes[0].RecipeName)
	assert.Equal(t, RecipeFilters{DietType: "VEGAN", SearchTerm: "salad"}, filtered.Filters)

	beyond, err := s.Recipes(ctx, RecipeQuery{Page: 9, PageSize: 20})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Recipes)
	assert.Empty(t, beyond.Recipes)
	assert.Equal(t, 1, beyond.Pagination.TotalPages)

	var paramErr *analytics.InvalidParameterError
	_, err = s.Recipes(ctx, RecipeQuery{Page: 0, PageSize: 20})
	assert.ErrorAs(t, err, &paramErr)
	_, err = s.Recipes(ctx, RecipeQuery{Page: 1, PageSize: 101})
	assert.ErrorAs(t, err, &paramErr)
}

func TestSearchAndRecipesByDiet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	found, err := s.SearchRecipes(ctx, "SALAD", "")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Steak Salad", found[0].RecipeName)
	assert.Equal(t, "Chickpea Salad", found[1].RecipeName)

	byCuisine, err := s.SearchRecipes(ctx, "ameri", "Cuisine_type")
	require.NoError(t, err)
	assert.Len(t, byCuisine, 3)

	var paramErr *analytics.InvalidParameterError
	_, err = s.SearchRecipes(ctx, " ", "")
	assert.ErrorAs(t, err, &paramErr)

	var fieldErr *analytics.InvalidFieldError
	_, err = s.SearchRecipes(ctx, "10", "protein")
	assert.ErrorAs(t, err, &fieldErr)

	paleo, err := s.RecipesByDiet(ctx, "Paleo")
	require.NoError(t, err)
	assert.Equal(t, []RecipeView{{RecipeName: "Salmon Bowl", DietType: "paleo", CuisineType: "japanese", Protein: 35, Carbs: 20, Fat: 18}}, paleo)

	none, err := s.RecipesByDiet(ctx, "carnivore")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTopRecipes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	top, err := s.TopRecipes(ctx, "Protein", 2)
	require.NoError(t, err)
	assert.Equal(t, []TopRecipe{
		{RecipeName: "Keto Chicken", DietType: "keto", CuisineType: "american", NutrientValue: 42, NutrientType: "Protein"},
		{RecipeName: "Steak Salad", DietType: "keto", CuisineType: "american", NutrientValue: 40, NutrientType: "Protein"},
	}, top)

	all, err := s.TopRecipes(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	clampedLow, err := s.TopRecipes(ctx, "carbs", -4)
	require.NoError(t, err)
	require.Len(t, clampedLow, 1)
	assert.Equal(t, "Lentil Curry", clampedLow[0].RecipeName)

	clampedHigh, err := s.TopRecipes(ctx, "fat", 1000)
	require.NoError(t, err)
	assert.Len(t, clampedHigh, 7)

	var fieldErr *analytics.InvalidFieldError
	_, err = s.TopRecipes(ctx, "Calories", 5)
	assert.ErrorAs(t, err, &fieldErr)
}

func TestSimilarRecipes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	similar, err := s.SimilarRecipes(ctx, "bacon eggs", 2)
	require.NoError(t, err)
	assert.Equal(t, "Bacon Eggs", similar.Recipe.RecipeName)
	require.Len(t, similar.Similar, 2)
	assert.Equal(t, "Steak Salad", similar.Similar[0].RecipeName)
	assert.Equal(t, 16.09, similar.Similar[0].Distance)
	assert.Equal(t, "Keto Chicken", similar.Similar[1].RecipeName)

	_, err = s.SimilarRecipes(ctx, "Pancakes", 2)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	var paramErr *analytics.InvalidParameterError
	_, err = s.SimilarRecipes(ctx, "", 2)
	assert.ErrorAs(t, err, &paramErr)
	_, err = s.SimilarRecipes(ctx, "Bacon Eggs", -1)
	assert.ErrorAs(t, err, &paramErr)
}

func TestNutritionalInsights(t *testing.T) {
	s := newTestService(t)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	insights, err := s.NutritionalInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:00:00Z", insights.Timestamp)
	assert.Equal(t, 7, insights.Summary.TotalRecipes)
	assert.Len(t, insights.Macronutrients, 3)
	assert.Len(t, insights.NutrientRanges, 3)
	assert.Equal(t, 7, insights.DietDistribution.TotalRecipes)
	require.Len(t, insights.TopProteinRecipes, 5)
	assert.Equal(t, "Keto Chicken", insights.TopProteinRecipes[0].RecipeName)
	assert.Len(t, insights.Correlations.Correlations, 3)
}

func TestCorrelations(t *testing.T) {
	report, err := newTestService(t).Correlations(context.Background())
	require.NoError(t, err)
	require.Contains(t, report.Correlations, "Protein_vs_Carbs")
	require.Contains(t, report.Correlations, "Protein_vs_Fat")
	require.Contains(t, report.Correlations, "Carbs_vs_Fat")

	pc := report.Correlations["Protein_vs_Carbs"]
	assert.Less(t, pc.Correlation, 0.0)
	assert.GreaterOrEqual(t, pc.Correlation, -1.0)
	assert.Equal(t, analytics.InterpretCorrelation(pc.Correlation), pc.Strength)
	assert.Equal(t, []string{"Protein", "Carbs"}, pc.Nutrients)

	single := NewInsightsService(dataset.NewStaticSource(fixtureRecipes()[:1]), nil, defaultAnalytics(), zap.NewNop())
	empty, err := single.Correlations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty.Correlations)
	assert.NotEmpty(t, empty.Interpretation)
}

func TestDatasetUnavailable(t *testing.T) {
	s := NewInsightsService(dataset.FailingSource{Err: errors.New("bucket gone")}, nil, defaultAnalytics(), zap.NewNop())
	_, err := s.Summary(context.Background())

	var unavailable *analytics.DatasetUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "bucket gone")

	_, err = s.DatasetStatus(context.Background())
	assert.ErrorAs(t, err, &unavailable)
}

func TestDatasetStatus(t *testing.T) {
	status, err := newTestService(t).DatasetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static", status.Source)
	assert.Equal(t, 7, status.Recipes)
	assert.NotEmpty(t, status.Version)
}

func TestResultsAreCachedPerVersion(t *testing.T) {
	mem := newMemoryCache()
	s := NewInsightsService(dataset.NewStaticSource(fixtureRecipes()), mem, defaultAnalytics(), zap.NewNop())
	ctx := context.Background()

	first, err := s.Clusters(ctx, ClusterQuery{K: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, mem.hits)

	second, err := s.Clusters(ctx, ClusterQuery{K: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, mem.hits)
	assert.Equal(t, first, second)

	snap, err := dataset.NewStaticSource(fixtureRecipes()).Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, mem.entries, cache.Key(snap.Version, "clusters", "diet=", "search=", "k=2", "members=false"))

	_, err = s.Clusters(ctx, ClusterQuery{K: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, mem.hits)
}

func TestCacheKeysKeepFiltersApart(t *testing.T) {
	mem := newMemoryCache()
	s := NewInsightsService(dataset.NewStaticSource(fixtureRecipes()), mem, defaultAnalytics(), zap.NewNop())
	ctx := context.Background()

	_, err := s.Heatmap(ctx, RecordFilter{DietType: "a:search=b"})
	require.NoError(t, err)
	_, err = s.Heatmap(ctx, RecordFilter{DietType: "a", Search: "b:search="})
	require.NoError(t, err)

	assert.Equal(t, 0, mem.hits)
	assert.Len(t, mem.entries, 2)
}

func TestBrokenCacheStillComputes(t *testing.T) {
	s := NewInsightsService(dataset.NewStaticSource(fixtureRecipes()), brokenCache{}, defaultAnalytics(), zap.NewNop())
	pie, err := s.PieChart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, pie.TotalRecipes)
}
