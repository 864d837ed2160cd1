package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// EigenSolver solves A·v = -ω²·ε·v for one radius. It is built once per
// radius and shared read-only by all workers.
type EigenSolver struct {
	dim int
	eps *mat.SymDense

	// lower Cholesky factor of eps, nil when eps is not numerically
	// positive definite and the general dense path is used
	chol *mat.TriDense
}

func NewEigenSolver(epsBlk *mat.SymDense) (*EigenSolver, error) {
	if epsBlk == nil || epsBlk.SymmetricDim() == 0 {
		return nil, fmt.Errorf("%w: empty dielectric matrix", ErrEigenSolve)
	}
	s := &EigenSolver{dim: epsBlk.SymmetricDim(), eps: epsBlk}

	var c mat.Cholesky
	if c.Factorize(epsBlk) {
		var l mat.TriDense
		c.LTo(&l)
		s.chol = &l
	} else {
		log.WithField("dim", s.dim).Warn("dielectric matrix is not positive definite, using general eigensolver")
	}
	return s, nil
}

func (s *EigenSolver) Dim() int {
	return s.dim
}

// Solve returns the 3N frequencies ω (in units of 2πc/a) for one Bloch
// wavevector, sorted ascending.
func (s *EigenSolver) Solve(w Wavevectors) ([]float64, error) {
	if 3*w.Len() != s.dim {
		return nil, fmt.Errorf("%w: %d plane waves against a %d×%d dielectric matrix",
			ErrEigenSolve, w.Len(), s.dim, s.dim)
	}
	a := w.Operator()

	var (
		d   []float64
		err error
	)
	if s.chol != nil {
		d, err = s.symmetric(a)
	} else {
		d, err = s.general(a)
	}
	if err != nil {
		return nil, err
	}
	return frequencies(d, s.dim)
}

// symmetric reduces the pencil (A, LLᵀ) to C = L⁻¹·A·L⁻ᵀ.
func (s *EigenSolver) symmetric(a *mat.SymDense) ([]float64, error) {
	var x, c mat.Dense
	if err := solveLower(s.chol, &x, a); err != nil {
		return nil, err
	}
	// A is symmetric so L⁻¹·(L⁻¹·A)ᵀ = L⁻¹·A·L⁻ᵀ
	if err := solveLower(s.chol, &c, x.T()); err != nil {
		return nil, err
	}
	var es mat.EigenSym
	if !es.Factorize(symmetrize(&c), false) {
		return nil, fmt.Errorf("%w: symmetric eigendecomposition did not converge", ErrEigenSolve)
	}
	return es.Values(nil), nil
}

func (s *EigenSolver) general(a *mat.SymDense) ([]float64, error) {
	var m mat.Dense
	if err := m.Solve(s.eps, a); err != nil && !usableCondition(err) {
		return nil, fmt.Errorf("%w: %v", ErrEigenSolve, err)
	}
	var eig mat.Eigen
	if !eig.Factorize(&m, mat.EigenNone) {
		return nil, fmt.Errorf("%w: eigendecomposition did not converge", ErrEigenSolve)
	}
	values := eig.Values(nil)
	d := make([]float64, len(values))
	for i, v := range values {
		d[i] = real(v)
	}
	return d, nil
}

func solveLower(l *mat.TriDense, dst *mat.Dense, b mat.Matrix) error {
	err := l.SolveTo(dst, false, b)
	if err != nil && !usableCondition(err) {
		return fmt.Errorf("%w: %v", ErrEigenSolve, err)
	}
	return nil
}

// a finite condition number only warns about accuracy, the result is set
func usableCondition(err error) bool {
	var c mat.Condition
	return errors.As(err, &c) && !math.IsInf(float64(c), 0)
}

// frequencies maps generalized eigenvalues D to ω = sqrt(-D). Negative
// arguments from rounding noise are clipped to zero.
func frequencies(d []float64, want int) ([]float64, error) {
	omega := make([]float64, 0, len(d))
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		omega = append(omega, math.Sqrt(math.Max(0, -v)))
	}
	if len(omega) != want {
		return nil, fmt.Errorf("%w: %d finite eigenvalues, expected %d", ErrEigenSolve, len(omega), want)
	}
	sort.Float64s(omega)
	return omega, nil
}
