package calculator

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestFrequencies(t *testing.T) {
	omega, err := frequencies([]float64{-4, 1e-18, -1}, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2}, omega)

	_, err = frequencies([]float64{-4, math.NaN(), -1}, 3)
	require.True(t, errors.Is(err, ErrEigenSolve))
}

func TestNewEigenSolverRejectsEmpty(t *testing.T) {
	_, err := NewEigenSolver(nil)
	require.True(t, errors.Is(err, ErrEigenSolve))
}

func TestSolveDimensionMismatch(t *testing.T) {
	s, err := NewEigenSolver(BlockDiagonal(Coefficients(squareParams(0.3, 1)), 3))
	require.NoError(t, err)
	require.Equal(t, 27, s.Dim())
	_, err = s.Solve(AssembleWavevectors(0, 0, 0, r2.Vec{X: 1}, r2.Vec{Y: 1}, 5, 5))
	require.True(t, errors.Is(err, ErrEigenSolve))
}

// In a homogeneous medium every plane wave contributes 0 and twice |k+G|/n.
func TestSolveHomogeneous(t *testing.T) {
	p := squareParams(0.3, 1)
	p.Na, p.Nb = 1.5, 1.5
	s, err := NewEigenSolver(BlockDiagonal(Coefficients(p), 3))
	require.NoError(t, err)

	w := AssembleWavevectors(0.2, 0.1, 0.3, p.B1, p.B2, p.N1, p.N2)
	omega, err := s.Solve(w)
	require.NoError(t, err)

	want := make([]float64, 0, 27)
	for u := 0; u < w.Len(); u++ {
		k := math.Sqrt(w.X[u]*w.X[u]+w.Y[u]*w.Y[u]+w.Z[u]*w.Z[u]) / 1.5
		want = append(want, 0, k, k)
	}
	sort.Float64s(want)
	require.Len(t, omega, 27)
	for i := range want {
		require.InDelta(t, want[i], omega[i], 1e-6, "band %d", i)
	}
}

func TestSolvePhotonicCrystal(t *testing.T) {
	p := squareParams(0.35, 2)
	s, err := NewEigenSolver(BlockDiagonal(Coefficients(p), 3))
	require.NoError(t, err)

	// Γ, kz = 0: the G = 0 wave gives three zero modes, every other wave one
	omega, err := s.Solve(AssembleWavevectors(0, 0, 0, p.B1, p.B2, p.N1, p.N2))
	require.NoError(t, err)
	require.Len(t, omega, 75)
	require.True(t, sort.Float64sAreSorted(omega))
	for i := 0; i < 27; i++ {
		require.InDelta(t, 0, omega[i], 1e-5, "band %d", i)
	}
	require.Greater(t, omega[27], 0.1)

	// X, kz = 0: the first transverse band lies between the light lines of
	// the two materials
	omega, err = s.Solve(AssembleWavevectors(0.5, 0, 0, p.B1, p.B2, p.N1, p.N2))
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		require.InDelta(t, 0, omega[i], 1e-5)
	}
	require.GreaterOrEqual(t, omega[25], 0.5/1.6-1e-9)
	require.LessOrEqual(t, omega[25], 0.5+1e-9)
	for _, w := range omega {
		require.False(t, math.IsNaN(w))
		require.GreaterOrEqual(t, w, 0.0)
	}
}

func TestSolveGeneralPath(t *testing.T) {
	// not positive definite, Cholesky fails
	eps := mat.NewSymDense(27, nil)
	for i := 0; i < 27; i++ {
		eps.SetSym(i, i, -1)
	}
	s, err := NewEigenSolver(eps)
	require.NoError(t, err)
	require.Nil(t, s.chol)

	omega, err := s.Solve(AssembleWavevectors(0.2, 0, 0.1, r2.Vec{X: 1}, r2.Vec{Y: 1}, 3, 3))
	require.NoError(t, err)
	require.Len(t, omega, 27)
	for _, w := range omega {
		require.InDelta(t, 0, w, 1e-6, "negative ω² is clipped")
	}
}
