package lattice

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// triangular (hexagonal) lattice, path Γ → M → K → Γ
type triangular struct{}

var sqrt3 = math.Sqrt(3)

func (triangular) Name() string { return "Triangular lattice" }

func (triangular) Kind() Kind { return Triangular }

func (triangular) Primitive() (a1, a2 r2.Vec) {
	return r2.Vec{X: 1}, r2.Vec{X: 0.5, Y: sqrt3 / 2}
}

func (triangular) Reciprocal() (b1, b2 r2.Vec) {
	return r2.Vec{X: 1, Y: -1 / sqrt3}, r2.Vec{Y: 2 / sqrt3}
}

func (triangular) SymmetryPoints() []SymmetryPoint {
	return []SymmetryPoint{
		{Label: "Γ", K: r2.Vec{}},
		{Label: "M", K: r2.Vec{Y: 1 / sqrt3}},
		{Label: "K", K: r2.Vec{X: 1.0 / 3, Y: 1 / sqrt3}},
		{Label: "Γ", K: r2.Vec{}},
	}
}

// unit cell area is √3/2
func (triangular) FillingFraction(r float64) float64 {
	return 2 * math.Pi / sqrt3 * r * r
}
