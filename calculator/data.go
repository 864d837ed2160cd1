package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// BandFrequencyTensor stores ω[radius, kz, band, point] in one flat
// row-major slice. Every (radius, kz) slice is a contiguous bands×points
// block. Samples that were never solved, or failed, hold NaN.
type BandFrequencyTensor struct {
	NRadius, NKz, NBands, NPoints int

	data []float64
}

func NewBandFrequencyTensor(nRadius, nKz, nBands, nPoints int) *BandFrequencyTensor {
	data := make([]float64, nRadius*nKz*nBands*nPoints)
	for i := range data {
		data[i] = math.NaN()
	}
	return &BandFrequencyTensor{
		NRadius: nRadius,
		NKz:     nKz,
		NBands:  nBands,
		NPoints: nPoints,
		data:    data,
	}
}

// WrapBandFrequencyTensor adopts data laid out as by Raw, e.g. read back
// from disk.
func WrapBandFrequencyTensor(nRadius, nKz, nBands, nPoints int, data []float64) (*BandFrequencyTensor, error) {
	if want := nRadius * nKz * nBands * nPoints; len(data) != want {
		return nil, fmt.Errorf("calculator: %d frequencies for a %d×%d×%d×%d tensor", len(data), nRadius, nKz, nBands, nPoints)
	}
	return &BandFrequencyTensor{
		NRadius: nRadius,
		NKz:     nKz,
		NBands:  nBands,
		NPoints: nPoints,
		data:    data,
	}, nil
}

func (t *BandFrequencyTensor) offset(r, kz int) int {
	return (r*t.NKz + kz) * t.NBands * t.NPoints
}

func (t *BandFrequencyTensor) At(r, kz, band, point int) float64 {
	return t.data[t.offset(r, kz)+band*t.NPoints+point]
}

// Slice returns the bands×points matrix of one (radius, kz) pair. The
// matrix shares storage with the tensor.
func (t *BandFrequencyTensor) Slice(r, kz int) *mat.Dense {
	off := t.offset(r, kz)
	return mat.NewDense(t.NBands, t.NPoints, t.data[off:off+t.NBands*t.NPoints])
}

// Raw exposes the flat storage for serialisation.
func (t *BandFrequencyTensor) Raw() []float64 {
	return t.data
}

// setPoint writes the sorted frequencies of one Brillouin point. Each
// (r, kz, point) column belongs to exactly one worker.
func (t *BandFrequencyTensor) setPoint(r, kz, point int, omega []float64) {
	off := t.offset(r, kz) + point
	for b, w := range omega {
		t.data[off+b*t.NPoints] = w
	}
}

func (t *BandFrequencyTensor) invalidatePoint(r, kz, point int) {
	off := t.offset(r, kz) + point
	for b := 0; b < t.NBands; b++ {
		t.data[off+b*t.NPoints] = math.NaN()
	}
}

// BandGapBounds holds Min/Max[gap][kz][radius]. Slots beyond the number of
// gaps found at a given (kz, radius) are zero.
type BandGapBounds struct {
	NGaps, NKz, NRadius int

	Min [][][]float64
	Max [][][]float64
}

// NewBandGapBounds lays out gaps[radius][kz] into gap-major arrays sized by
// the largest gap count.
func NewBandGapBounds(gaps [][]Gaps, nKz, nRadius int) *BandGapBounds {
	nGaps := 0
	for _, row := range gaps {
		for _, g := range row {
			if g.Len() > nGaps {
				nGaps = g.Len()
			}
		}
	}
	b := &BandGapBounds{
		NGaps:   nGaps,
		NKz:     nKz,
		NRadius: nRadius,
		Min:     make([][][]float64, nGaps),
		Max:     make([][][]float64, nGaps),
	}
	for i := 0; i < nGaps; i++ {
		b.Min[i] = make([][]float64, nKz)
		b.Max[i] = make([][]float64, nKz)
		for k := 0; k < nKz; k++ {
			b.Min[i][k] = make([]float64, nRadius)
			b.Max[i][k] = make([]float64, nRadius)
		}
	}
	for r, row := range gaps {
		for k, g := range row {
			for i := range g.Bottoms {
				b.Min[i][k][r] = g.Bottoms[i]
				b.Max[i][k][r] = g.Tops[i]
			}
		}
	}
	return b
}
