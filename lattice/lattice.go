package lattice

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
)

// Lattice geometry: real/reciprocal primitive vectors and the irreducible
// Brillouin zone perimeter. All lengths are normalised to the lattice constant a, reciprocal vectors
// are pre-divided by 2π so that b_i · a_j = δ_ij.

var (
	ErrUnknownLattice     = errors.New("lattice: unknown lattice kind")
	ErrGeometryDegenerate = errors.New("lattice: degenerate Brillouin path")
)

type Kind int

const (
	Square Kind = iota
	Triangular
)

func (k Kind) String() string {
	switch k {
	case Square:
		return "square"
	case Triangular:
		return "triangular"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names used in config files ("square", "triangular",
// "hex" and "tri" are aliases of the latter).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "sq":
		return Square, nil
	case "triangular", "tri", "hex", "hexagonal":
		return Triangular, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLattice, s)
}

// SymmetryPoint is a labelled high-symmetry wavevector of the irreducible zone.
type SymmetryPoint struct {
	Label string
	K     r2.Vec
}

// Geometry is implemented once per lattice symmetry.
type Geometry interface {
	Name() string
	Kind() Kind
	// Primitive returns the real-space primitive vectors a1, a2.
	Primitive() (a1, a2 r2.Vec)
	// Reciprocal returns b1, b2 normalised by 2π/a.
	Reciprocal() (b1, b2 r2.Vec)
	// SymmetryPoints lists the closed zone perimeter, first and last are Γ.
	SymmetryPoints() []SymmetryPoint
	// FillingFraction is the inclusion area over the unit-cell area.
	FillingFraction(r float64) float64
}

func NewGeometry(kind Kind) (Geometry, error) {
	switch kind {
	case Square:
		return square{}, nil
	case Triangular:
		return triangular{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownLattice, kind)
}

type Lattice struct {
	Kind Kind
	Name string

	A1, A2 r2.Vec
	B1, B2 r2.Vec

	Path BrillouinPath
	Fill []float64 // filling fraction per radius
}

// New builds the lattice of the given kind sampled with nr points on the
// first zone edge.
func New(kind Kind, nr int, radii []float64) (*Lattice, error) {
	g, err := NewGeometry(kind)
	if err != nil {
		return nil, err
	}
	return Build(g, nr, radii)
}

func Build(g Geometry, nr int, radii []float64) (*Lattice, error) {
	path, err := TracePath(g.SymmetryPoints(), nr)
	if err != nil {
		return nil, fmt.Errorf("%s lattice: %w", g.Kind(), err)
	}
	l := &Lattice{
		Kind: g.Kind(),
		Name: g.Name(),
		Path: path,
		Fill: make([]float64, len(radii)),
	}
	l.A1, l.A2 = g.Primitive()
	l.B1, l.B2 = g.Reciprocal()
	for i, r := range radii {
		l.Fill[i] = g.FillingFraction(r)
	}

	log.WithFields(log.Fields{
		"lattice": l.Name,
		"points":  path.Len(),
		"KP":      path.KP,
		"KL":      path.KL,
	}).Info("brillouin path traced")
	return l, nil
}
