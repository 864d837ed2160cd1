package calculator

import (
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

type CoefficientMethod int

const (
	Analytic CoefficientMethod = iota // closed-form Fourier-Bessel coefficients
	Sampled                           // FFT of a rasterised unit cell
)

func (c CoefficientMethod) String() string {
	if c == Sampled {
		return "sampled"
	}
	return "analytic"
}

func ParseCoefficientMethod(s string) (CoefficientMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "analytic":
		return Analytic, nil
	case "sampled", "fft":
		return Sampled, nil
	}
	return 0, fmt.Errorf("unknown coefficient method %q", s)
}

const supersample = 4

// SampledCoefficients computes the same matrix as Coefficients from a
// samples×samples raster of the unit cell spanned by a1, a2. The raster is
// taken in fractional coordinates so that the FFT bin (k1, k2) is the
// coefficient of G = k1·b1 + k2·b2. samples must exceed 2·(N1-1) and
// 2·(N2-1) to avoid aliasing.
func SampledCoefficients(p DielectricParams, a1, a2 r2.Vec, samples int) *mat.SymDense {
	cell := rasterCell(p, a1, a2, samples)
	spectrum := fft.FFT2Real(cell)
	norm := float64(samples * samples)

	n := p.Size()
	epsi := mat.NewSymDense(n, nil)
	for l := 0; l < p.N1; l++ {
		for m := 0; m < p.N2; m++ {
			u := l*p.N2 + m
			for q := 0; q < p.N1; q++ {
				for s := 0; s < p.N2; s++ {
					v := q*p.N2 + s
					if v < u {
						continue
					}
					k1, k2 := wrap(l-q, samples), wrap(m-s, samples)
					epsi.SetSym(u, v, real(spectrum[k1][k2])/norm)
				}
			}
		}
	}
	return epsi
}

func rasterCell(p DielectricParams, a1, a2 r2.Vec, samples int) [][]float64 {
	epsA, epsB := p.Na*p.Na, p.Nb*p.Nb
	r2max := p.Radius * p.Radius
	step := 1 / float64(samples)

	cell := make([][]float64, samples)
	for i := range cell {
		cell[i] = make([]float64, samples)
		for j := range cell[i] {
			inside := 0
			for si := 0; si < supersample; si++ {
				for sj := 0; sj < supersample; sj++ {
					s1 := (float64(i) + (float64(si)+0.5)/supersample - 0.5) * step
					s2 := (float64(j) + (float64(sj)+0.5)/supersample - 0.5) * step
					pos := r2.Add(r2.Scale(s1, a1), r2.Scale(s2, a2))
					if nearestCenter2(pos, a1, a2) <= r2max {
						inside++
					}
				}
			}
			frac := float64(inside) / (supersample * supersample)
			cell[i][j] = frac*epsA + (1-frac)*epsB
		}
	}
	return cell
}

// squared distance from pos to the closest lattice point
func nearestCenter2(pos, a1, a2 r2.Vec) float64 {
	best := -1.0
	for n1 := -1; n1 <= 2; n1++ {
		for n2 := -1; n2 <= 2; n2++ {
			c := r2.Add(r2.Scale(float64(n1), a1), r2.Scale(float64(n2), a2))
			d := r2.Norm2(r2.Sub(pos, c))
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

func wrap(k, n int) int {
	k %= n
	if k < 0 {
		k += n
	}
	return k
}
