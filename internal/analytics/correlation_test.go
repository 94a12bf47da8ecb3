package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	m, err := Correlate(sampleRecipes(), nil)
	require.NoError(t, err)
	require.Equal(t, NutrientFields, m.Fields)

	for i := range m.Fields {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Fields {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.GreaterOrEqual(t, m.Values[i][j], -1.0)
			assert.LessOrEqual(t, m.Values[i][j], 1.0)
		}
	}

	// high-protein recipes in the fixture are low in carbs
	pc, ok := m.At(FieldProtein, FieldCarbs)
	require.True(t, ok)
	assert.Less(t, pc, 0.0)
}

func TestCorrelatePerfectLine(t *testing.T) {
	records := []Recipe{
		{Protein: 1, Carbs: 2, Fat: 10},
		{Protein: 2, Carbs: 4, Fat: 8},
		{Protein: 3, Carbs: 6, Fat: 6},
	}
	m, err := Correlate(records, nil)
	require.NoError(t, err)

	pc, _ := m.At(FieldProtein, FieldCarbs)
	assert.InDelta(t, 1.0, pc, 1e-12)
	pf, _ := m.At(FieldProtein, FieldFat)
	assert.InDelta(t, -1.0, pf, 1e-12)
}

func TestCorrelateZeroVariance(t *testing.T) {
	records := []Recipe{
		{Protein: 5, Carbs: 1, Fat: 3},
		{Protein: 5, Carbs: 9, Fat: 4},
		{Protein: 5, Carbs: 4, Fat: 1},
	}
	m, err := Correlate(records, []Field{FieldProtein, FieldCarbs})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, m.Values)
}

func TestCorrelateErrors(t *testing.T) {
	_, err := Correlate(twoRecipes()[:1], nil)
	var dataErr *InsufficientDataError
	assert.ErrorAs(t, err, &dataErr)

	_, err = Correlate(twoRecipes(), []Field{FieldProtein, FieldDietType})
	var fieldErr *InvalidFieldError
	assert.ErrorAs(t, err, &fieldErr)

	_, err = Correlate(twoRecipes(), []Field{FieldFat, FieldFat})
	assert.ErrorAs(t, err, &fieldErr)
}

func TestInterpretCorrelation(t *testing.T) {
	assert.Equal(t, "Very Strong", InterpretCorrelation(-0.85))
	assert.Equal(t, "Strong", InterpretCorrelation(0.6))
	assert.Equal(t, "Moderate", InterpretCorrelation(0.45))
	assert.Equal(t, "Weak", InterpretCorrelation(-0.2))
	assert.Equal(t, "Very Weak", InterpretCorrelation(0.05))
}
