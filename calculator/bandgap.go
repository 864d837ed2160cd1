package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Extremum struct {
	Min, Max float64
}

// Gaps lists the gaps of one (radius, kz) slice in increasing frequency.
// Lower[i] is the band below gap i.
type Gaps struct {
	Bottoms []float64 `json:"bottoms"`
	Tops    []float64 `json:"tops"`
	Lower   []int     `json:"lower"`
}

func (g Gaps) Len() int {
	return len(g.Bottoms)
}

// Extrema returns the minimum and maximum of every band (row) of omega over
// the Brillouin path (columns). NaN samples are skipped; a band with no
// valid sample gets NaN extrema.
func Extrema(omega mat.Matrix) []Extremum {
	bands, points := omega.Dims()
	ext := make([]Extremum, bands)
	if points == 0 {
		for b := range ext {
			ext[b] = Extremum{Min: math.NaN(), Max: math.NaN()}
		}
		return ext
	}
	row := make([]float64, points)
	for b := 0; b < bands; b++ {
		mat.Row(row, b, omega)
		ext[b] = Extremum{Min: floats.Min(row), Max: floats.Max(row)}
	}
	return ext
}

// FindGaps reports a gap between band i and i+1 when maxs[i] + tol <
// mins[i+1].
func FindGaps(mins, maxs []float64, tol float64) (Gaps, error) {
	if len(mins) != len(maxs) {
		return Gaps{}, fmt.Errorf("%w: %d minima against %d maxima", ErrBandGapInconsistency, len(mins), len(maxs))
	}
	g := Gaps{
		Bottoms: []float64{},
		Tops:    []float64{},
		Lower:   []int{},
	}
	for i := 0; i+1 < len(mins); i++ {
		if maxs[i]+tol < mins[i+1] {
			g.Bottoms = append(g.Bottoms, maxs[i])
			g.Tops = append(g.Tops, mins[i+1])
			g.Lower = append(g.Lower, i)
		}
	}
	return g, nil
}

func ExtractGaps(omega mat.Matrix, tol float64) (Gaps, error) {
	ext := Extrema(omega)
	mins := make([]float64, len(ext))
	maxs := make([]float64, len(ext))
	for i, e := range ext {
		mins[i], maxs[i] = e.Min, e.Max
	}
	return FindGaps(mins, maxs, tol)
}
