package lattice

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// square lattice, path Γ → X → M → Γ
type square struct{}

func (square) Name() string { return "Square lattice" }

func (square) Kind() Kind { return Square }

func (square) Primitive() (a1, a2 r2.Vec) {
	return r2.Vec{X: 1}, r2.Vec{Y: 1}
}

func (square) Reciprocal() (b1, b2 r2.Vec) {
	return r2.Vec{X: 1}, r2.Vec{Y: 1}
}

func (square) SymmetryPoints() []SymmetryPoint {
	return []SymmetryPoint{
		{Label: "Γ", K: r2.Vec{}},
		{Label: "X", K: r2.Vec{X: 0.5}},
		{Label: "M", K: r2.Vec{X: 0.5, Y: 0.5}},
		{Label: "Γ", K: r2.Vec{}},
	}
}

func (square) FillingFraction(r float64) float64 {
	return math.Pi * r * r
}
