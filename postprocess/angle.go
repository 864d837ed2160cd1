// Package postprocess turns gap frequencies and axial wavevectors into
// effective indices and propagation angles under a homogenised-cladding
// approximation.
package postprocess

import (
	"math"

	"phc/calculator"
)

type Regime int

const (
	Propagating Regime = iota
	Evanescent
)

func (r Regime) String() string {
	if r == Propagating {
		return "propagating"
	}
	return "evanescent"
}

type AngleEstimate struct {
	Frequency float64 // ω in units of 2πc/a
	Kz        float64
	NEff      float64 // kz/ω
	Theta     float64 // polar angle from the crystal axis, degrees
	Regime    Regime
}

// CladdingIndex is the area-weighted index of the crystal seen as a
// homogeneous medium.
func CladdingIndex(f, na, nb float64) float64 {
	return math.Sqrt(f*na*na + (1-f)*nb*nb)
}

// EstimateAngle classifies a (ω, kz) pair against the cladding light line
// kz = nClad·ω. Below it the wave propagates at θ = acos(kz/(nClad·ω)).
func EstimateAngle(omega, kz, nClad float64) AngleEstimate {
	e := AngleEstimate{Frequency: omega, Kz: kz, Regime: Evanescent}
	if omega <= 0 || math.IsNaN(omega) {
		return e
	}
	e.NEff = kz / omega
	if kz > nClad*omega {
		return e
	}
	e.Regime = Propagating
	e.Theta = math.Acos(kz/(nClad*omega)) * 180 / math.Pi
	return e
}

// GapEdge pairs the two edges of one gap with their angle estimates.
type GapEdge struct {
	RadiusIndex int
	KzIndex     int
	Lower       int // band below the gap

	Radius float64
	Kz     float64
	Bottom AngleEstimate
	Top    AngleEstimate
}

// EstimateGapEdges returns one entry per gap of the result, radius-major.
// Radii the sweep did not reach contribute nothing.
func EstimateGapEdges(res *calculator.Result, na, nb float64) []GapEdge {
	var edges []GapEdge
	for r, row := range res.Gaps {
		for k, gaps := range row {
			edges = append(edges, gapEdges(r, k, res.Radii[r], res.Kzs[k], res.Lattice.Fill[r], gaps, na, nb)...)
		}
	}
	return edges
}

// EstimateSlice is EstimateGapEdges for a single streamed slice.
func EstimateSlice(s calculator.SliceResult, na, nb float64) []GapEdge {
	return gapEdges(s.RadiusIndex, s.KzIndex, s.Radius, s.Kz, s.Fill, s.Gaps, na, nb)
}

func gapEdges(r, k int, radius, kz, fill float64, gaps calculator.Gaps, na, nb float64) []GapEdge {
	nClad := CladdingIndex(fill, na, nb)
	edges := make([]GapEdge, 0, gaps.Len())
	for i := range gaps.Bottoms {
		edges = append(edges, GapEdge{
			RadiusIndex: r,
			KzIndex:     k,
			Lower:       gaps.Lower[i],
			Radius:      radius,
			Kz:          kz,
			Bottom:      EstimateAngle(gaps.Bottoms[i], kz, nClad),
			Top:         EstimateAngle(gaps.Tops[i], kz, nClad),
		})
	}
	return edges
}
