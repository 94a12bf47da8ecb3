package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/diet-insights/backend/internal/analytics"
)

var palette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40"}

type barSeries struct {
	field analytics.Field
	rgb   string
}

var barSeriesColors = []barSeries{
	{analytics.FieldProtein, "54, 162, 235"},
	{analytics.FieldCarbs, "255, 99, 132"},
	{analytics.FieldFat, "255, 206, 86"},
}

// BarChart shapes average macronutrients per diet type as Chart.js series.
func (s *InsightsService) BarChart(ctx context.Context) (BarChart, error) {
	return cached(ctx, s, "bar-chart", nil, barChart)
}

// PieChart shapes the recipe count per diet type, most common first.
func (s *InsightsService) PieChart(ctx context.Context) (PieChart, error) {
	return cached(ctx, s, "pie-chart", nil, pieChart)
}

// Heatmap lays out the nutrient correlation matrix as cells. With fewer than
// two matching records the pairs default to 0.
func (s *InsightsService) Heatmap(ctx context.Context, f RecordFilter) (Heatmap, error) {
	return cached(ctx, s, "heatmap", f.params(), func(records []analytics.Recipe) (Heatmap, error) {
		m, err := analytics.Correlate(analytics.Filter(records, f.query()), nil)
		var insufficient *analytics.InsufficientDataError
		if errors.As(err, &insufficient) {
			m, err = uncorrelated(analytics.NutrientFields), nil
		}
		if err != nil {
			return Heatmap{}, err
		}
		labels := make([]string, len(m.Fields))
		for i, field := range m.Fields {
			labels[i] = field.Label()
		}
		cells := make([]HeatmapCell, 0, len(labels)*len(labels))
		for i, row := range labels {
			for j, col := range labels {
				cells = append(cells, HeatmapCell{
					X:        j,
					Y:        i,
					Value:    round3(m.Values[i][j]),
					RowLabel: row,
					ColLabel: col,
				})
			}
		}
		return Heatmap{
			ChartType: "heatmap",
			Title:     "Nutrient Correlations",
			Labels:    labels,
			Data:      cells,
			MinValue:  -1,
			MaxValue:  1,
		}, nil
	})
}

// uncorrelated is the matrix with ones on the diagonal and zeros elsewhere.
func uncorrelated(fields []analytics.Field) analytics.CorrelationMatrix {
	m := analytics.CorrelationMatrix{
		Fields: append([]analytics.Field(nil), fields...),
		Values: make([][]float64, len(fields)),
	}
	for i := range fields {
		m.Values[i] = make([]float64, len(fields))
		m.Values[i][i] = 1
	}
	return m
}

// ScatterPlot samples up to the configured number of recipes and plots two
// nutrients against each other. The same seed yields the same sample.
func (s *InsightsService) ScatterPlot(ctx context.Context, q ScatterQuery) (ScatterPlot, error) {
	if q.X == "" {
		q.X = analytics.FieldProtein.Label()
	}
	if q.Y == "" {
		q.Y = analytics.FieldCarbs.Label()
	}
	x, err := analytics.ParseNutrientField(q.X)
	if err != nil {
		return ScatterPlot{}, err
	}
	y, err := analytics.ParseNutrientField(q.Y)
	if err != nil {
		return ScatterPlot{}, err
	}
	seed := s.cfg.SampleSeed
	if q.Seed != nil {
		seed = *q.Seed
	}

	params := append(q.params(), "x="+string(x), "y="+string(y), "seed="+strconv.FormatUint(seed, 10))
	return cached(ctx, s, "scatter-plot", params, func(records []analytics.Recipe) (ScatterPlot, error) {
		filtered := analytics.Filter(records, q.query())
		sample, err := analytics.Sample(filtered, s.cfg.ScatterSampleSize, analytics.NewRand(seed))
		if err != nil {
			return ScatterPlot{}, err
		}

		colors := map[string]string{}
		diets := []string{}
		for _, r := range sample {
			if _, ok := colors[r.DietType]; !ok {
				colors[r.DietType] = palette[len(diets)%len(palette)]
				diets = append(diets, r.DietType)
			}
		}

		points := make([]ScatterPoint, len(sample))
		for i, r := range sample {
			points[i] = ScatterPoint{
				X:          round2(r.Value(x)),
				Y:          round2(r.Value(y)),
				DietType:   r.DietType,
				RecipeName: r.Name,
				Color:      colors[r.DietType],
			}
		}

		return ScatterPlot{
			ChartType:    "scatter",
			Title:        fmt.Sprintf("%s vs %s Relationship", x.Label(), y.Label()),
			XAxis:        x.Label() + " (g)",
			YAxis:        y.Label() + " (g)",
			Data:         points,
			DietTypes:    diets,
			Colors:       colors,
			SampleSize:   len(points),
			TotalRecipes: len(filtered),
			Seed:         seed,
		}, nil
	})
}

// ChartData dispatches to a chart by name: bar, scatter, heatmap or pie.
func (s *InsightsService) ChartData(ctx context.Context, chartType string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(chartType)) {
	case "", "bar":
		return s.BarChart(ctx)
	case "scatter":
		return s.ScatterPlot(ctx, ScatterQuery{})
	case "heatmap":
		return s.Heatmap(ctx, RecordFilter{})
	case "pie":
		return s.PieChart(ctx)
	}
	return nil, &analytics.InvalidParameterError{Name: "type", Value: chartType, Reason: "unsupported chart type"}
}

func barChart(records []analytics.Recipe) (BarChart, error) {
	groups, err := analytics.GroupSummarize(records, analytics.FieldDietType, nil)
	if err != nil {
		return BarChart{}, err
	}
	labels := groups.Labels()
	datasets := make([]BarDataset, 0, len(barSeriesColors))
	for _, series := range barSeriesColors {
		data := make([]float64, len(groups.Groups))
		for i, g := range groups.Groups {
			data[i] = round2(g.Means[series.field])
		}
		datasets = append(datasets, BarDataset{
			Label:           series.field.Label() + " (g)",
			Data:            data,
			BackgroundColor: "rgba(" + series.rgb + ", 0.8)",
			BorderColor:     "rgba(" + series.rgb + ", 1)",
			BorderWidth:     1,
		})
	}
	return BarChart{
		ChartType: "bar",
		Title:     "Average Macronutrient Content by Diet Type",
		Labels:    labels,
		Datasets:  datasets,
	}, nil
}

func pieChart(records []analytics.Recipe) (PieChart, error) {
	counts, err := analytics.CategoryCounts(records, analytics.FieldDietType)
	if err != nil {
		return PieChart{}, err
	}
	labels := make([]string, len(counts))
	data := make([]int, len(counts))
	colors := make([]string, len(counts))
	total := 0
	for i, c := range counts {
		labels[i] = c.Value
		data[i] = c.Count
		colors[i] = palette[i%len(palette)]
		total += c.Count
	}
	return PieChart{
		ChartType: "pie",
		Title:     "Recipe Distribution by Diet Type",
		Labels:    labels,
		Datasets: []PieDataset{{
			Data:            data,
			BackgroundColor: colors,
			BorderWidth:     2,
		}},
		TotalRecipes: total,
	}, nil
}
