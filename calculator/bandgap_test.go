package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFindGaps(t *testing.T) {
	mins := []float64{0, 0.30, 0.50, 0.52}
	maxs := []float64{0.25, 0.45, 0.515, 0.70}
	g, err := FindGaps(mins, maxs, 0.01)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	require.Equal(t, []float64{0.25, 0.45}, g.Bottoms)
	require.Equal(t, []float64{0.30, 0.50}, g.Tops)
	require.Equal(t, []int{0, 1}, g.Lower)

	g, err = FindGaps(mins, maxs, 0.1)
	require.NoError(t, err)
	require.Zero(t, g.Len())

	g, err = FindGaps(mins, maxs, 0)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, g.Lower)
	for i := range g.Bottoms {
		require.Less(t, g.Bottoms[i], g.Tops[i])
	}
}

func TestFindGapsNone(t *testing.T) {
	g, err := FindGaps([]float64{0, 0.1}, []float64{0.2, 0.3}, 0.01)
	require.NoError(t, err)
	require.NotNil(t, g.Bottoms)
	require.Zero(t, g.Len())
}

func TestFindGapsMismatch(t *testing.T) {
	_, err := FindGaps([]float64{0, 1}, []float64{0}, 0)
	require.True(t, errors.Is(err, ErrBandGapInconsistency))
}

func TestExtractGaps(t *testing.T) {
	omega := mat.NewDense(3, 4, []float64{
		0.0, 0.1, 0.2, 0.1,
		0.4, math.NaN(), 0.5, 0.45,
		0.48, 0.6, 0.7, 0.65,
	})
	ext := Extrema(omega)
	require.Equal(t, Extremum{Min: 0.4, Max: 0.5}, ext[1])

	g, err := ExtractGaps(omega, 0.01)
	require.NoError(t, err)
	require.Equal(t, []int{0}, g.Lower)
	require.Equal(t, 0.2, g.Bottoms[0])
	require.Equal(t, 0.4, g.Tops[0])
}

func TestExtremaNoPoints(t *testing.T) {
	ext := Extrema(&mat.Dense{})
	require.Empty(t, ext)
}
