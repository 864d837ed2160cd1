package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBandFrequencyTensor(t *testing.T) {
	tensor := NewBandFrequencyTensor(2, 3, 4, 5)
	require.Len(t, tensor.Raw(), 120)
	require.True(t, math.IsNaN(tensor.At(1, 2, 3, 4)))

	tensor.setPoint(1, 2, 4, []float64{0, 1, 2, 3})
	require.Equal(t, 3.0, tensor.At(1, 2, 3, 4))

	slice := tensor.Slice(1, 2)
	r, c := slice.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 5, c)
	require.Equal(t, 2.0, slice.At(2, 4))

	slice.Set(0, 0, 7)
	require.Equal(t, 7.0, tensor.At(1, 2, 0, 0), "slices share storage")

	tensor.invalidatePoint(1, 2, 4)
	require.True(t, math.IsNaN(tensor.At(1, 2, 1, 4)))

	_, err := WrapBandFrequencyTensor(2, 3, 4, 5, make([]float64, 10))
	require.Error(t, err)
	wrapped, err := WrapBandFrequencyTensor(2, 3, 4, 5, tensor.Raw())
	require.NoError(t, err)
	require.Equal(t, 7.0, wrapped.At(1, 2, 0, 0))
}

func TestNewBandGapBounds(t *testing.T) {
	gaps := [][]Gaps{
		{
			{Bottoms: []float64{0.2}, Tops: []float64{0.3}, Lower: []int{1}},
			{Bottoms: []float64{0.1, 0.5}, Tops: []float64{0.2, 0.6}, Lower: []int{0, 4}},
		},
		nil,
	}
	b := NewBandGapBounds(gaps, 2, 2)
	require.Equal(t, 2, b.NGaps)
	require.Equal(t, 0.2, b.Min[0][0][0])
	require.Equal(t, 0.3, b.Max[0][0][0])
	require.Equal(t, 0.5, b.Min[1][1][0])
	require.Equal(t, 0.6, b.Max[1][1][0])
	require.Zero(t, b.Min[1][0][0], "missing gaps are zero filled")
	require.Zero(t, b.Max[0][1][1])
}
