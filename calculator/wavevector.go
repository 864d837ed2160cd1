package calculator

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Wavevectors holds the diagonals of kGx, kGy and kGz, i.e. the components
// of k+G for every plane wave in Coefficients order.
type Wavevectors struct {
	X, Y, Z []float64
}

func AssembleWavevectors(kx, ky, kz float64, b1, b2 r2.Vec, n1, n2 int) Wavevectors {
	n := n1 * n2
	no1, no2 := (n1-1)/2, (n2-1)/2
	w := Wavevectors{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}
	for l := 0; l < n1; l++ {
		for m := 0; m < n2; m++ {
			u := l*n2 + m
			g := r2.Add(r2.Scale(float64(l-no1), b1), r2.Scale(float64(m-no2), b2))
			w.X[u] = kx + g.X
			w.Y[u] = ky + g.Y
			w.Z[u] = kz
		}
	}
	return w
}

func (w Wavevectors) Len() int {
	return len(w.X)
}

// CrossOperator returns the matrix of (k+G)×, block layout
//
//	[  0   -kGz   kGy ]
//	[ kGz    0   -kGx ]
//	[-kGy   kGx    0  ]
func (w Wavevectors) CrossOperator() *mat.Dense {
	n := w.Len()
	k := mat.NewDense(3*n, 3*n, nil)
	for i := 0; i < n; i++ {
		k.Set(i, n+i, -w.Z[i])
		k.Set(i, 2*n+i, w.Y[i])
		k.Set(n+i, i, w.Z[i])
		k.Set(n+i, 2*n+i, -w.X[i])
		k.Set(2*n+i, i, -w.Y[i])
		k.Set(2*n+i, n+i, w.X[i])
	}
	return k
}

// Operator returns A = KCross·KCross. KCross is skew-symmetric so A is
// symmetric; the product is symmetrised to remove rounding asymmetry.
func (w Wavevectors) Operator() *mat.SymDense {
	k := w.CrossOperator()
	var a mat.Dense
	a.Mul(k, k)
	return symmetrize(&a)
}

func symmetrize(a *mat.Dense) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (a.At(i, j)+a.At(j, i))/2)
		}
	}
	return s
}
