package calculator

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// DielectricParams describes one radius of the sweep.
type DielectricParams struct {
	Radius float64 // inclusion radius in units of a
	Na     float64 // inclusion index
	Nb     float64 // background index
	Fill   float64 // filling fraction for Radius

	B1, B2 r2.Vec
	N1, N2 int
}

func (p DielectricParams) Size() int {
	return p.N1 * p.N2
}

// Average is the zeroth Fourier coefficient, the area-weighted permittivity.
func (p DielectricParams) Average() float64 {
	return p.Fill*p.Na*p.Na + (1-p.Fill)*p.Nb*p.Nb
}

// Coefficients returns the N×N matrix of Fourier coefficients ε(G-G') of
// a lattice of circular inclusions, N = N1·N2. Plane wave (l, m) is packed
// at u = l·N2 + m.
func Coefficients(p DielectricParams) *mat.SymDense {
	n := p.Size()
	epsi := mat.NewSymDense(n, nil)
	avg := p.Average()
	contrast := 2 * p.Fill * (p.Na*p.Na - p.Nb*p.Nb)

	for l := 0; l < p.N1; l++ {
		for m := 0; m < p.N2; m++ {
			u := l*p.N2 + m
			for q := 0; q < p.N1; q++ {
				for s := 0; s < p.N2; s++ {
					v := q*p.N2 + s
					if v < u {
						continue
					}
					epsi.SetSym(u, v, coefficient(l-q, m-s, p.B1, p.B2, p.Radius, avg, contrast))
				}
			}
		}
	}
	return epsi
}

// coefficient depends only on the reciprocal vector difference, so ε is
// symmetric and only the upper triangle needs to be stored.
func coefficient(dl, dm int, b1, b2 r2.Vec, radius, avg, contrast float64) float64 {
	gg := r2.Add(r2.Scale(float64(dl), b1), r2.Scale(float64(dm), b2))
	g := r2.Norm(gg)
	if g == 0 {
		return avg
	}
	x := 2 * math.Pi * g * radius
	if x == 0 {
		// J1(x)/x → 1/2
		return contrast / 2
	}
	return contrast * math.J1(x) / x
}

// BlockDiagonal replicates epsi copies times along the diagonal, one block
// per field component.
func BlockDiagonal(epsi *mat.SymDense, copies int) *mat.SymDense {
	n := epsi.SymmetricDim()
	blk := mat.NewSymDense(n*copies, nil)
	for c := 0; c < copies; c++ {
		off := c * n
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				blk.SetSym(off+i, off+j, epsi.At(i, j))
			}
		}
	}
	return blk
}
