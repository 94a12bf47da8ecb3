package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []Recipe {
	out := make([]Recipe, n)
	for i := range out {
		out[i] = Recipe{Name: fmt.Sprintf("r%03d", i), Protein: float64(i)}
	}
	return out
}

func TestSampleReproducible(t *testing.T) {
	records := numbered(200)
	a, err := Sample(records, 20, NewRand(42))
	require.NoError(t, err)
	b, err := Sample(records, 20, NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Sample(records, 20, NewRand(7))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSampleKeepsOrderWithoutDuplicates(t *testing.T) {
	records := numbered(100)
	got, err := Sample(records, 30, NewRand(1))
	require.NoError(t, err)
	require.Len(t, got, 30)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Protein, got[i].Protein)
	}
}

func TestSampleSmallInput(t *testing.T) {
	records := numbered(5)
	got, err := Sample(records, 500, nil)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	got, err = Sample(records, 0, NewRand(3))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Sample(records, -1, NewRand(3))
	var paramErr *InvalidParameterError
	assert.ErrorAs(t, err, &paramErr)
}
