package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

type BrillouinPath struct {
	Kx, Ky []float64
	KP     []int    // indices of the symmetry points in Kx/Ky
	KL     []string // labels of the symmetry points
}

func (p BrillouinPath) Len() int {
	return len(p.Kx)
}

func (p BrillouinPath) At(j int) (kx, ky float64) {
	return p.Kx[j], p.Ky[j]
}

// TracePath samples the closed polyline through points. The first segment
// gets nr samples, the others are scaled by their length ratio to it. Both
// segment endpoints are sampled and the shared corner of consecutive segments
// is kept only once.
func TracePath(points []SymmetryPoint, nr int) (BrillouinPath, error) {
	if len(points) < 2 {
		return BrillouinPath{}, fmt.Errorf("%w: %d symmetry points", ErrGeometryDegenerate, len(points))
	}
	segments := len(points) - 1
	lengths := make([]float64, segments)
	for i := 0; i < segments; i++ {
		lengths[i] = r2.Norm(r2.Sub(points[i+1].K, points[i].K))
		if lengths[i] == 0 {
			return BrillouinPath{}, fmt.Errorf("%w: segment %s-%s has zero length",
				ErrGeometryDegenerate, points[i].Label, points[i+1].Label)
		}
	}

	counts := make([]int, segments)
	total := 1
	for i := range counts {
		counts[i] = int(math.Round(float64(nr) * lengths[i] / lengths[0]))
		if counts[i] < 2 {
			return BrillouinPath{}, fmt.Errorf("%w: segment %s-%s gets %d samples with Nr=%d",
				ErrGeometryDegenerate, points[i].Label, points[i+1].Label, counts[i], nr)
		}
		total += counts[i] - 1
	}

	path := BrillouinPath{
		Kx: make([]float64, 0, total),
		Ky: make([]float64, 0, total),
		KP: make([]int, 0, len(points)),
		KL: make([]string, 0, len(points)),
	}
	path.KP = append(path.KP, 0)
	path.KL = append(path.KL, points[0].Label)
	for i, n := range counts {
		xs := floats.Span(make([]float64, n), points[i].K.X, points[i+1].K.X)
		ys := floats.Span(make([]float64, n), points[i].K.Y, points[i+1].K.Y)
		// pin the corner so that the closing Γ is exactly (0,0)
		xs[n-1], ys[n-1] = points[i+1].K.X, points[i+1].K.Y
		if i > 0 {
			xs, ys = xs[1:], ys[1:]
		}
		path.Kx = append(path.Kx, xs...)
		path.Ky = append(path.Ky, ys...)
		path.KP = append(path.KP, len(path.Kx)-1)
		path.KL = append(path.KL, points[i+1].Label)
	}
	return path, nil
}
