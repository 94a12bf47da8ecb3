package service

import (
	"context"
	"errors"
	"time"

	"github.com/pageza/diet-insights/backend/internal/analytics"
)

const (
	insightsTopProtein     = 5
	correlationExplanation = "Correlation values range from -1 to 1, where values closer to -1 or 1 indicate stronger relationships"
)

// NutritionalInsights bundles the dashboard statistics into one response.
func (s *InsightsService) NutritionalInsights(ctx context.Context) (NutritionalInsights, error) {
	out, err := cached(ctx, s, "insights", nil, func(records []analytics.Recipe) (NutritionalInsights, error) {
		var (
			res NutritionalInsights
			err error
		)
		if res.Summary, err = summary(records); err != nil {
			return res, err
		}
		if res.Macronutrients, err = macronutrients(records); err != nil {
			return res, err
		}
		if res.NutrientRanges, err = nutrientRanges(records); err != nil {
			return res, err
		}
		if res.DietDistribution, err = pieChart(records); err != nil {
			return res, err
		}
		if res.TopProteinRecipes, err = topRecipes(records, analytics.FieldProtein, insightsTopProtein); err != nil {
			return res, err
		}
		if res.Correlations, err = correlations(records); err != nil {
			return res, err
		}
		return res, nil
	})
	if err != nil {
		return out, err
	}
	out.Timestamp = s.now().UTC().Format(time.RFC3339)
	return out, nil
}

// Summary reports dataset totals and the most common categories.
func (s *InsightsService) Summary(ctx context.Context) (DietSummary, error) {
	return cached(ctx, s, "summary", nil, summary)
}

// Macronutrients averages each macronutrient per diet type.
func (s *InsightsService) Macronutrients(ctx context.Context) (map[string]MacroAverages, error) {
	return cached(ctx, s, "macronutrients", nil, macronutrients)
}

// Comparison lists per diet type means with recipe counts, in
// first-appearance order.
func (s *InsightsService) Comparison(ctx context.Context) ([]DietComparison, error) {
	return cached(ctx, s, "comparison", nil, func(records []analytics.Recipe) ([]DietComparison, error) {
		groups, err := analytics.GroupSummarize(records, analytics.FieldDietType, nil)
		if err != nil {
			return nil, err
		}
		out := make([]DietComparison, 0, len(groups.Groups))
		for _, g := range groups.Groups {
			out = append(out, DietComparison{
				DietType:     g.Group,
				Protein:      round2(g.Means[analytics.FieldProtein]),
				Carbs:        round2(g.Means[analytics.FieldCarbs]),
				Fat:          round2(g.Means[analytics.FieldFat]),
				TotalRecipes: g.Count,
			})
		}
		return out, nil
	})
}

// CuisineDistribution counts cuisines within each diet type.
func (s *InsightsService) CuisineDistribution(ctx context.Context) (map[string]map[string]int, error) {
	return cached(ctx, s, "cuisine-distribution", nil, func(records []analytics.Recipe) (map[string]map[string]int, error) {
		cross, err := analytics.CrossCounts(records, analytics.FieldDietType, analytics.FieldCuisineType)
		if err != nil {
			return nil, err
		}
		out := make(map[string]map[string]int, len(cross))
		for _, c := range cross {
			out[c.Group] = countMap(c.Counts)
		}
		return out, nil
	})
}

// NutrientRanges reports min, max, mean and median per macronutrient.
func (s *InsightsService) NutrientRanges(ctx context.Context) (map[string]NutrientRange, error) {
	return cached(ctx, s, "nutrient-ranges", nil, nutrientRanges)
}

// DietTypes lists the diet types for filter controls.
func (s *InsightsService) DietTypes(ctx context.Context) (DietTypes, error) {
	return cached(ctx, s, "diet-types", nil, func(records []analytics.Recipe) (DietTypes, error) {
		distinct, err := analytics.Distinct(records, analytics.FieldDietType)
		if err != nil {
			return DietTypes{}, err
		}
		counts, err := analytics.CategoryCounts(records, analytics.FieldDietType)
		if err != nil {
			return DietTypes{}, err
		}
		return DietTypes{
			DietTypes:  distinct,
			DietCounts: countMap(counts),
			TotalTypes: len(distinct),
		}, nil
	})
}

// Correlations describes the Pearson correlation of every nutrient pair.
func (s *InsightsService) Correlations(ctx context.Context) (CorrelationReport, error) {
	return cached(ctx, s, "correlations", nil, correlations)
}

func summary(records []analytics.Recipe) (DietSummary, error) {
	diets, err := analytics.CategoryCounts(records, analytics.FieldDietType)
	if err != nil {
		return DietSummary{}, err
	}
	cuisines, err := analytics.CategoryCounts(records, analytics.FieldCuisineType)
	if err != nil {
		return DietSummary{}, err
	}

	// diet types in first-appearance order
	seen := make(map[string]bool, len(diets))
	order := make([]string, 0, len(diets))
	for _, r := range records {
		if !seen[r.DietType] {
			seen[r.DietType] = true
			order = append(order, r.DietType)
		}
	}

	return DietSummary{
		TotalRecipes:      len(records),
		TotalDietTypes:    len(diets),
		TotalCuisineTypes: len(cuisines),
		DietTypes:         order,
		MostCommonDiet:    modeOrUnknown(records, analytics.FieldDietType),
		MostCommonCuisine: modeOrUnknown(records, analytics.FieldCuisineType),
	}, nil
}

func modeOrUnknown(records []analytics.Recipe, field analytics.Field) string {
	m, err := analytics.Mode(records, field)
	if err != nil {
		return "Unknown"
	}
	return m
}

func macronutrients(records []analytics.Recipe) (map[string]MacroAverages, error) {
	groups, err := analytics.GroupSummarize(records, analytics.FieldDietType, nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string]MacroAverages, len(groups.Groups))
	for _, g := range groups.Groups {
		out[g.Group] = MacroAverages{
			Protein: round2(g.Means[analytics.FieldProtein]),
			Carbs:   round2(g.Means[analytics.FieldCarbs]),
			Fat:     round2(g.Means[analytics.FieldFat]),
		}
	}
	return out, nil
}

// nutrientRanges is empty for an empty dataset.
func nutrientRanges(records []analytics.Recipe) (map[string]NutrientRange, error) {
	out := make(map[string]NutrientRange, len(analytics.NutrientFields))
	if len(records) == 0 {
		return out, nil
	}
	summaries, err := analytics.SummarizeAll(records, analytics.NutrientFields)
	if err != nil {
		return nil, err
	}
	for _, sum := range summaries {
		out[sum.Field.Label()] = NutrientRange{
			Min:     round2(sum.Min),
			Max:     round2(sum.Max),
			Average: round2(sum.Average),
			Median:  round2(sum.Median),
		}
	}
	return out, nil
}

// correlations leaves the map empty when fewer than two records exist.
func correlations(records []analytics.Recipe) (CorrelationReport, error) {
	report := CorrelationReport{
		Correlations:   map[string]CorrelationEntry{},
		Interpretation: correlationExplanation,
	}
	m, err := analytics.Correlate(records, nil)
	var insufficient *analytics.InsufficientDataError
	if errors.As(err, &insufficient) {
		return report, nil
	}
	if err != nil {
		return report, err
	}
	for i := range m.Fields {
		for j := i + 1; j < len(m.Fields); j++ {
			a, b := m.Fields[i].Label(), m.Fields[j].Label()
			r := round3(m.Values[i][j])
			report.Correlations[a+"_vs_"+b] = CorrelationEntry{
				Correlation: r,
				Strength:    analytics.InterpretCorrelation(r),
				Nutrients:   []string{a, b},
			}
		}
	}
	return report, nil
}

func countMap(counts []analytics.CategoryCount) map[string]int {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.Value] = c.Count
	}
	return out
}
