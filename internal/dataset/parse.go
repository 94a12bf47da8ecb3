package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pageza/diet-insights/backend/internal/analytics"
)

const maxReportedErrors = 100

// ParseOptions controls row cleaning.
type ParseOptions struct {
	// Dedupe drops rows identical to an earlier row after imputation.
	Dedupe bool
}

// RowError describes a rejected row. Row is 1-based and counts the header.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseReport summarizes what cleaning did to the input.
type ParseReport struct {
	Rows       int        `json:"rows"`
	Accepted   int        `json:"accepted"`
	Rejected   int        `json:"rejected"`
	Imputed    int        `json:"imputed"`
	Duplicates int        `json:"duplicates"`
	Errors     []RowError `json:"errors,omitempty"`
}

func (r *ParseReport) reject(row int, reason string) {
	r.Rejected++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, RowError{Row: row, Reason: reason})
	}
}

type column int

const (
	colName column = iota
	colDiet
	colCuisine
	colProtein
	colCarbs
	colFat
	numColumns
)

var headerNames = map[string]column{
	"recipe_name":  colName,
	"diet_type":    colDiet,
	"cuisine_type": colCuisine,
	"protein(g)":   colProtein,
	"carbs(g)":     colCarbs,
	"fat(g)":       colFat,
}

var requiredColumns = []struct {
	col  column
	name string
}{
	{colName, "Recipe_name"},
	{colDiet, "Diet_type"},
	{colProtein, "Protein(g)"},
	{colCarbs, "Carbs(g)"},
	{colFat, "Fat(g)"},
}

// partial is a row before missing values are imputed.
type partial struct {
	recipe         analytics.Recipe
	missingNum     [3]bool
	missingDiet    bool
	missingCuisine bool
}

// parseRows cleans tabular rows whose first row is the header. Numeric gaps
// are filled with the column mean and categorical gaps with the column mode.
func parseRows(rows [][]string, opts ParseOptions) ([]analytics.Recipe, ParseReport, error) {
	var report ParseReport
	if len(rows) == 0 {
		return nil, report, fmt.Errorf("dataset is empty: missing header row")
	}

	index := [numColumns]int{}
	for i := range index {
		index[i] = -1
	}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if c, ok := headerNames[key]; ok && index[c] < 0 {
			index[c] = i
		}
	}
	var missing []string
	for _, rc := range requiredColumns {
		if index[rc.col] < 0 {
			missing = append(missing, rc.name)
		}
	}
	if len(missing) > 0 {
		return nil, report, fmt.Errorf("dataset header is missing columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, c column) string {
		i := index[c]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var parsed []partial
	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}
		report.Rows++

		p := partial{}
		p.recipe.Name = cell(row, colName)
		if p.recipe.Name == "" {
			report.reject(line, "missing recipe name")
			continue
		}
		p.recipe.DietType = cell(row, colDiet)
		p.missingDiet = isMissing(p.recipe.DietType)
		p.recipe.CuisineType = cell(row, colCuisine)
		p.missingCuisine = isMissing(p.recipe.CuisineType)

		ok := true
		for i, c := range []column{colProtein, colCarbs, colFat} {
			raw := cell(row, c)
			if isMissing(raw) {
				p.missingNum[i] = true
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				report.reject(line, fmt.Sprintf("%s: not a number: %q", analytics.NutrientFields[i].Column(), raw))
				ok = false
				break
			}
			if v < 0 {
				report.reject(line, fmt.Sprintf("%s: negative value %v", analytics.NutrientFields[i].Column(), v))
				ok = false
				break
			}
			setNutrient(&p.recipe, i, v)
		}
		if ok {
			parsed = append(parsed, p)
		}
	}

	impute(parsed, &report)

	recipes := make([]analytics.Recipe, 0, len(parsed))
	seen := make(map[analytics.Recipe]struct{}, len(parsed))
	for _, p := range parsed {
		if opts.Dedupe {
			if _, dup := seen[p.recipe]; dup {
				report.Duplicates++
				continue
			}
			seen[p.recipe] = struct{}{}
		}
		recipes = append(recipes, p.recipe)
	}
	report.Accepted = len(recipes)
	return recipes, report, nil
}

func impute(parsed []partial, report *ParseReport) {
	var sums [3]float64
	var counts [3]int
	diets := map[string]int{}
	cuisines := map[string]int{}
	for _, p := range parsed {
		for i := 0; i < 3; i++ {
			if !p.missingNum[i] {
				sums[i] += nutrient(p.recipe, i)
				counts[i]++
			}
		}
		if !p.missingDiet {
			diets[p.recipe.DietType]++
		}
		if !p.missingCuisine {
			cuisines[p.recipe.CuisineType]++
		}
	}

	var means [3]float64
	for i := range means {
		if counts[i] > 0 {
			means[i] = sums[i] / float64(counts[i])
		}
	}
	dietMode := mode(diets)
	cuisineMode := mode(cuisines)

	for j := range parsed {
		p := &parsed[j]
		filled := false
		for i := 0; i < 3; i++ {
			if p.missingNum[i] {
				setNutrient(&p.recipe, i, means[i])
				filled = true
			}
		}
		if p.missingDiet {
			p.recipe.DietType = dietMode
			filled = true
		}
		if p.missingCuisine {
			p.recipe.CuisineType = cuisineMode
			filled = true
		}
		if filled {
			report.Imputed++
		}
	}
}

// mode picks the most frequent value, ties to the smallest; "Unknown" when empty.
func mode(counts map[string]int) string {
	if len(counts) == 0 {
		return "Unknown"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

func nutrient(r analytics.Recipe, i int) float64 {
	return r.Value(analytics.NutrientFields[i])
}

func setNutrient(r *analytics.Recipe, i int, v float64) {
	switch analytics.NutrientFields[i] {
	case analytics.FieldProtein:
		r.Protein = v
	case analytics.FieldCarbs:
		r.Carbs = v
	case analytics.FieldFat:
		r.Fat = v
	}
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "null", "none", "n/a":
		return true
	}
	return false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
