package analytics

import "math"

// CorrelationMatrix is a symmetric matrix of Pearson coefficients indexed in
// the order of Fields.
type CorrelationMatrix struct {
	Fields []Field     `json:"fields"`
	Values [][]float64 `json:"values"`
}

// At returns the coefficient of a pair of fields.
func (m CorrelationMatrix) At(a, b Field) (float64, bool) {
	i, j := -1, -1
	for k, f := range m.Fields {
		if f == a && i < 0 {
			i = k
		}
		if f == b && j < 0 {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Correlate computes the Pearson correlation of every pair of fields. A nil
// fields slice means all nutrient fields.
func Correlate(records []Recipe, fields []Field) (CorrelationMatrix, error) {
	if len(fields) == 0 {
		fields = NutrientFields
	}
	seen := make(map[Field]bool, len(fields))
	for _, f := range fields {
		if err := requireNumeric(f); err != nil {
			return CorrelationMatrix{}, err
		}
		if seen[f] {
			return CorrelationMatrix{}, &InvalidFieldError{Field: string(f), Reason: "requested twice"}
		}
		seen[f] = true
	}
	if len(records) < 2 {
		return CorrelationMatrix{}, &InsufficientDataError{Operation: "correlation", Need: 2, Have: len(records)}
	}

	series := make([][]float64, len(fields))
	for i, f := range fields {
		series[i] = values(records, f)
	}

	m := CorrelationMatrix{
		Fields: append([]Field(nil), fields...),
		Values: make([][]float64, len(fields)),
	}
	for i := range fields {
		m.Values[i] = make([]float64, len(fields))
		m.Values[i][i] = 1
	}
	for i := range fields {
		for j := i + 1; j < len(fields); j++ {
			r := Pearson(series[i], series[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

// Pearson returns the linear correlation of two equally long series. A
// constant series has no defined correlation and yields 0.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 || constant(xs) || constant(ys) {
		return 0
	}

	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

// InterpretCorrelation names the strength of a coefficient.
func InterpretCorrelation(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.8:
		return "Very Strong"
	case a >= 0.6:
		return "Strong"
	case a >= 0.4:
		return "Moderate"
	case a >= 0.2:
		return "Weak"
	default:
		return "Very Weak"
	}
}
