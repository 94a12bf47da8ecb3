package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRecipes() []Recipe {
	return []Recipe{
		{Name: "A", DietType: "Keto", CuisineType: "american", Protein: 30, Carbs: 5, Fat: 20},
		{Name: "B", DietType: "Vegan", CuisineType: "indian", Protein: 10, Carbs: 40, Fat: 5},
	}
}

func sampleRecipes() []Recipe {
	return []Recipe{
		{Name: "Steak Salad", DietType: "paleo", CuisineType: "american", Protein: 45, Carbs: 10, Fat: 22},
		{Name: "Lentil Curry", DietType: "vegan", CuisineType: "indian", Protein: 18, Carbs: 60, Fat: 8},
		{Name: "Bacon Eggs", DietType: "keto", CuisineType: "american", Protein: 25, Carbs: 2, Fat: 35},
		{Name: "Tofu Stir Fry", DietType: "vegan", CuisineType: "chinese", Protein: 20, Carbs: 30, Fat: 12},
		{Name: "Salmon Bowl", DietType: "paleo", CuisineType: "japanese", Protein: 40, Carbs: 15, Fat: 18},
		{Name: "Chickpea Salad", DietType: "vegan", CuisineType: "mediterranean", Protein: 15, Carbs: 45, Fat: 10},
		{Name: "Keto Chicken", DietType: "keto", CuisineType: "american", Protein: 38, Carbs: 4, Fat: 28},
	}
}

func TestSummarizeScenario(t *testing.T) {
	s, err := Summarize(twoRecipes(), FieldProtein)
	require.NoError(t, err)
	assert.Equal(t, NutrientSummary{Field: FieldProtein, Min: 10, Max: 30, Average: 20, Median: 20}, s)
}

func TestSummarizeOddMedian(t *testing.T) {
	s, err := Summarize(sampleRecipes(), FieldFat)
	require.NoError(t, err)
	assert.Equal(t, 8.0, s.Min)
	assert.Equal(t, 35.0, s.Max)
	assert.Equal(t, 18.0, s.Median)
	assert.InDelta(t, 133.0/7, s.Average, 1e-9)
}

func TestSummarizeOrdering(t *testing.T) {
	for _, f := range NutrientFields {
		s, err := Summarize(sampleRecipes(), f)
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Min, s.Median, f)
		assert.LessOrEqual(t, s.Median, s.Max, f)
		assert.GreaterOrEqual(t, s.Average, s.Min, f)
		assert.LessOrEqual(t, s.Average, s.Max, f)
	}

	constant := []Recipe{{Fat: 0.1}, {Fat: 0.1}, {Fat: 0.1}}
	s, err := Summarize(constant, FieldFat)
	require.NoError(t, err)
	assert.Equal(t, 0.1, s.Average)
}

func TestSummarizeErrors(t *testing.T) {
	_, err := Summarize(twoRecipes(), FieldDietType)
	var fieldErr *InvalidFieldError
	assert.True(t, errors.As(err, &fieldErr))

	_, err = Summarize(nil, FieldProtein)
	var dataErr *InsufficientDataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestGroupSummarize(t *testing.T) {
	g, err := GroupSummarize(sampleRecipes(), FieldDietType, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"paleo", "vegan", "keto"}, g.Labels())
	assert.Equal(t, NutrientFields, g.Fields)

	vegan, ok := g.Lookup("vegan")
	require.True(t, ok)
	assert.Equal(t, 3, vegan.Count)
	assert.InDelta(t, 53.0/3, vegan.Means[FieldProtein], 1e-9)
	assert.InDelta(t, 45.0, vegan.Means[FieldCarbs], 1e-9)
	assert.InDelta(t, 10.0, vegan.Means[FieldFat], 1e-9)

	_, ok = g.Lookup("mediterranean")
	assert.False(t, ok)
}

func TestGroupSummarizeOmitsEmptyGroupsAndValidates(t *testing.T) {
	g, err := GroupSummarize(nil, FieldDietType, []Field{FieldProtein})
	require.NoError(t, err)
	assert.Empty(t, g.Groups)

	_, err = GroupSummarize(twoRecipes(), FieldProtein, nil)
	var fieldErr *InvalidFieldError
	assert.ErrorAs(t, err, &fieldErr)

	_, err = GroupSummarize(twoRecipes(), FieldDietType, []Field{FieldCuisineType})
	assert.ErrorAs(t, err, &fieldErr)
}

func TestCategoryCounts(t *testing.T) {
	counts, err := CategoryCounts(sampleRecipes(), FieldDietType)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Value: "vegan", Count: 3},
		{Value: "paleo", Count: 2},
		{Value: "keto", Count: 2},
	}, counts)
}

func TestMode(t *testing.T) {
	m, err := Mode(sampleRecipes(), FieldCuisineType)
	require.NoError(t, err)
	assert.Equal(t, "american", m)

	// paleo and keto tie after removing vegan
	var noVegan []Recipe
	for _, r := range sampleRecipes() {
		if r.DietType != "vegan" {
			noVegan = append(noVegan, r)
		}
	}
	m, err = Mode(noVegan, FieldDietType)
	require.NoError(t, err)
	assert.Equal(t, "keto", m)

	_, err = Mode(nil, FieldDietType)
	var dataErr *InsufficientDataError
	assert.ErrorAs(t, err, &dataErr)
}

func TestDistinct(t *testing.T) {
	d, err := Distinct(sampleRecipes(), FieldDietType)
	require.NoError(t, err)
	assert.Equal(t, []string{"keto", "paleo", "vegan"}, d)
}

func TestTopN(t *testing.T) {
	top, err := TopN(sampleRecipes(), FieldProtein, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Steak Salad", top[0].Name)
	assert.Equal(t, "Salmon Bowl", top[1].Name)
	assert.Equal(t, "Keto Chicken", top[2].Name)

	all, err := TopN(twoRecipes(), FieldCarbs, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = TopN(twoRecipes(), FieldCarbs, 0)
	var paramErr *InvalidParameterError
	assert.ErrorAs(t, err, &paramErr)
}

func TestCrossCounts(t *testing.T) {
	cc, err := CrossCounts(sampleRecipes(), FieldDietType, FieldCuisineType)
	require.NoError(t, err)
	require.Len(t, cc, 3)
	assert.Equal(t, "paleo", cc[0].Group)
	assert.Equal(t, []CategoryCount{{Value: "american", Count: 1}, {Value: "japanese", Count: 1}}, cc[0].Counts)
	assert.Equal(t, "keto", cc[2].Group)
	assert.Equal(t, []CategoryCount{{Value: "american", Count: 2}}, cc[2].Counts)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want Field
	}{
		{"Protein", FieldProtein},
		{"protein(g)", FieldProtein},
		{"CARBS", FieldCarbs},
		{"Fat(g)", FieldFat},
		{"Diet_type", FieldDietType},
		{"cuisine", FieldCuisineType},
		{"Recipe_name", FieldName},
	}
	for _, tt := range tests {
		got, err := ParseField(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseField("sugar")
	var fieldErr *InvalidFieldError
	assert.ErrorAs(t, err, &fieldErr)

	_, err = ParseNutrientField("Diet_type")
	assert.ErrorAs(t, err, &fieldErr)
}
