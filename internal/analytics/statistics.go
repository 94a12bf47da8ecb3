package analytics

import (
	"sort"
)

// Summarize computes min, max, mean and median of a numeric field.
func Summarize(records []Recipe, field Field) (NutrientSummary, error) {
	if err := requireNumeric(field); err != nil {
		return NutrientSummary{}, err
	}
	if len(records) == 0 {
		return NutrientSummary{}, &InsufficientDataError{Operation: "summarize", Need: 1, Have: 0}
	}

	vals := values(records, field)
	sort.Float64s(vals)

	var sum float64
	for _, v := range vals {
		sum += v
	}

	n := len(vals)
	median := vals[n/2]
	if n%2 == 0 {
		median = (vals[n/2-1] + vals[n/2]) / 2
	}

	avg := sum / float64(n)
	// float summation can land a hair outside the range on constant input
	if avg < vals[0] {
		avg = vals[0]
	} else if avg > vals[n-1] {
		avg = vals[n-1]
	}

	return NutrientSummary{
		Field:   field,
		Min:     vals[0],
		Max:     vals[n-1],
		Average: avg,
		Median:  median,
	}, nil
}

// SummarizeAll summarizes every field in order.
func SummarizeAll(records []Recipe, fields []Field) ([]NutrientSummary, error) {
	out := make([]NutrientSummary, 0, len(fields))
	for _, f := range fields {
		s, err := Summarize(records, f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GroupSummarize partitions records by a categorical field and averages each
// value field per group. Groups keep first-appearance order; a nil
// valueFields means all nutrient fields.
func GroupSummarize(records []Recipe, groupField Field, valueFields []Field) (GroupSummary, error) {
	if err := requireCategorical(groupField); err != nil {
		return GroupSummary{}, err
	}
	if len(valueFields) == 0 {
		valueFields = NutrientFields
	}
	for _, f := range valueFields {
		if err := requireNumeric(f); err != nil {
			return GroupSummary{}, err
		}
	}

	type acc struct {
		count int
		sums  []float64
	}
	var order []string
	groups := make(map[string]*acc)
	for _, r := range records {
		key := r.Category(groupField)
		a, ok := groups[key]
		if !ok {
			a = &acc{sums: make([]float64, len(valueFields))}
			groups[key] = a
			order = append(order, key)
		}
		a.count++
		for i, f := range valueFields {
			a.sums[i] += r.Value(f)
		}
	}

	summary := GroupSummary{
		GroupField: groupField,
		Fields:     append([]Field(nil), valueFields...),
		Groups:     make([]GroupMean, 0, len(order)),
	}
	for _, key := range order {
		a := groups[key]
		means := make(map[Field]float64, len(valueFields))
		for i, f := range valueFields {
			means[f] = a.sums[i] / float64(a.count)
		}
		summary.Groups = append(summary.Groups, GroupMean{Group: key, Count: a.count, Means: means})
	}
	return summary, nil
}

// CategoryCounts counts records per value of a categorical field, most
// frequent first. Equal counts keep first-appearance order.
func CategoryCounts(records []Recipe, field Field) ([]CategoryCount, error) {
	if err := requireCategorical(field); err != nil {
		return nil, err
	}
	return countValues(records, field), nil
}

func countValues(records []Recipe, field Field) []CategoryCount {
	index := make(map[string]int)
	counts := []CategoryCount{}
	for _, r := range records {
		v := r.Category(field)
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, CategoryCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Mode returns the most frequent value of a categorical field. Ties go to the
// lexicographically smallest value.
func Mode(records []Recipe, field Field) (string, error) {
	if err := requireCategorical(field); err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", &InsufficientDataError{Operation: "mode", Need: 1, Have: 0}
	}
	counts := countValues(records, field)
	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count < best.Count {
			break
		}
		if c.Value < best.Value {
			best = c
		}
	}
	return best.Value, nil
}

// Distinct returns the sorted unique values of a categorical field.
func Distinct(records []Recipe, field Field) ([]string, error) {
	if err := requireCategorical(field); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := r.Category(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// TopN returns the n records with the largest value of field, highest first.
// Equal values keep dataset order.
func TopN(records []Recipe, field Field, n int) ([]Recipe, error) {
	if err := requireNumeric(field); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &InvalidParameterError{Name: "n", Value: n, Reason: "must be at least 1"}
	}
	sorted := append([]Recipe(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value(field) > sorted[j].Value(field)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n], nil
}

// CrossCounts counts the inner field within each outer group. Outer groups
// keep first-appearance order.
func CrossCounts(records []Recipe, outer, inner Field) ([]CrossCount, error) {
	if err := requireCategorical(outer); err != nil {
		return nil, err
	}
	if err := requireCategorical(inner); err != nil {
		return nil, err
	}

	var order []string
	buckets := make(map[string][]Recipe)
	for _, r := range records {
		key := r.Category(outer)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], r)
	}

	out := make([]CrossCount, 0, len(order))
	for _, key := range order {
		out = append(out, CrossCount{Group: key, Counts: countValues(buckets[key], inner)})
	}
	return out, nil
}
