package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestParseKind(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Kind
	}{
		{"square", Square},
		{" Square ", Square},
		{"triangular", Triangular},
		{"hex", Triangular},
	} {
		k, err := ParseKind(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, k, tc.in)
	}

	_, err := ParseKind("honeycomb")
	require.True(t, errors.Is(err, ErrUnknownLattice))
}

func TestReciprocalDuality(t *testing.T) {
	for _, kind := range []Kind{Square, Triangular} {
		g, err := NewGeometry(kind)
		require.NoError(t, err)
		a1, a2 := g.Primitive()
		b1, b2 := g.Reciprocal()
		require.InDelta(t, 1, r2.Dot(b1, a1), 1e-12, kind.String())
		require.InDelta(t, 0, r2.Dot(b1, a2), 1e-12, kind.String())
		require.InDelta(t, 0, r2.Dot(b2, a1), 1e-12, kind.String())
		require.InDelta(t, 1, r2.Dot(b2, a2), 1e-12, kind.String())
	}
}

func TestPathClosure(t *testing.T) {
	for _, kind := range []Kind{Square, Triangular} {
		l, err := New(kind, 10, []float64{0.2})
		require.NoError(t, err)
		p := l.Path
		n := p.Len()
		require.Equal(t, len(p.Kx), len(p.Ky))

		require.Equal(t, 0.0, p.Kx[0])
		require.Equal(t, 0.0, p.Ky[0])
		require.Equal(t, 0.0, p.Kx[n-1])
		require.Equal(t, 0.0, p.Ky[n-1])

		g, _ := NewGeometry(kind)
		sym := g.SymmetryPoints()
		require.Len(t, p.KP, len(sym))
		require.Equal(t, 0, p.KP[0])
		require.Equal(t, n-1, p.KP[len(p.KP)-1])
		for i, idx := range p.KP {
			require.InDelta(t, sym[i].K.X, p.Kx[idx], 1e-12)
			require.InDelta(t, sym[i].K.Y, p.Ky[idx], 1e-12)
			require.Equal(t, sym[i].Label, p.KL[i])
		}
	}
}

func TestPathHasNoDuplicateCorners(t *testing.T) {
	l, err := New(Square, 10, nil)
	require.NoError(t, err)
	p := l.Path
	// 10 + 10 + round(10·√2) samples, two shared corners removed
	require.Equal(t, 10+10+14-2, p.Len())
	for j := 1; j < p.Len(); j++ {
		same := p.Kx[j] == p.Kx[j-1] && p.Ky[j] == p.Ky[j-1]
		require.False(t, same, "repeated sample at %d", j)
	}
	require.Equal(t, []int{0, 9, 18, 31}, p.KP)
	require.Equal(t, []string{"Γ", "X", "M", "Γ"}, p.KL)
}

func TestTriangularPathCounts(t *testing.T) {
	l, err := New(Triangular, 10, nil)
	require.NoError(t, err)
	// ΓM = 1/√3, MK = 1/3, KΓ = 2/3
	require.Equal(t, 10+6+12-2, l.Path.Len())
	require.Equal(t, []string{"Γ", "M", "K", "Γ"}, l.Path.KL)
}

func TestDegeneratePath(t *testing.T) {
	_, err := New(Square, 1, nil)
	require.True(t, errors.Is(err, ErrGeometryDegenerate))

	_, err = TracePath([]SymmetryPoint{{Label: "Γ"}, {Label: "Γ"}}, 10)
	require.True(t, errors.Is(err, ErrGeometryDegenerate))
}

func TestFillingFraction(t *testing.T) {
	sq, _ := NewGeometry(Square)
	tri, _ := NewGeometry(Triangular)

	require.InDelta(t, math.Pi*0.09, sq.FillingFraction(0.3), 1e-15)
	require.InDelta(t, 2*math.Pi/math.Sqrt(3)*0.09, tri.FillingFraction(0.3), 1e-15)

	// below the touching radius the cylinders never overlap
	for r := 0.01; r < 0.5; r += 0.01 {
		require.Less(t, sq.FillingFraction(r), 1.0)
		require.Less(t, tri.FillingFraction(r), 1.0)
	}
	// the square bound is only crossed past r = 1/√π, the triangular one past r = 0.525
	require.Greater(t, sq.FillingFraction(0.57), 1.0)
	require.Greater(t, tri.FillingFraction(0.53), 1.0)

	l, err := New(Square, 4, []float64{0.1, 0.2})
	require.NoError(t, err)
	require.Len(t, l.Fill, 2)
	require.InDelta(t, math.Pi*0.04, l.Fill[1], 1e-15)
}
