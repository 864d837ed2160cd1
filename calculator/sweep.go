package calculator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"phc/lattice"
)

// SliceResult is the band diagram of one (radius, kz) pair. Omega is
// bands×points and must be treated as read-only.
type SliceResult struct {
	RadiusIndex int
	KzIndex     int
	Radius      float64
	Kz          float64
	Fill        float64

	Omega  *mat.Dense
	Gaps   Gaps
	Failed []int // Brillouin points whose eigensolve failed
}

// SliceSink receives slices in sweep order, radius-major.
type SliceSink interface {
	WriteSlice(s SliceResult) error
}

// Layout is the shape of a sweep, known before it runs.
type Layout struct {
	Lattice *lattice.Lattice
	Radii   []float64
	Kzs     []float64
	Bands   int
}

func (l Layout) Points() int {
	return l.Lattice.Path.Len()
}

type SampleFailure struct {
	Radius, Kz, Point int
	Err               error
}

type Report struct {
	Samples   int
	Failures  []SampleFailure
	Elapsed   time.Duration
	Cancelled bool
}

func (r Report) Fields() log.Fields {
	points := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		points = append(points, fmt.Sprintf("(%d,%d,%d)", f.Radius, f.Kz, f.Point))
	}
	return log.Fields{
		"samples":   r.Samples,
		"failures":  len(r.Failures),
		"failed":    points,
		"elapsed":   r.Elapsed.String(),
		"cancelled": r.Cancelled,
	}
}

type Result struct {
	Layout

	Omega  *BandFrequencyTensor
	Bounds *BandGapBounds
	Gaps   [][]Gaps // [radius][kz], nil rows for radii not reached
	Report Report
}

type Sweep struct {
	cfg    Config
	layout Layout
	n1, n2 int

	sinks []SliceSink
	hub   *CalcHub

	solve func(*EigenSolver, Wavevectors) ([]float64, error)
}

func NewSweep(cfg Config) (*Sweep, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	radii := cfg.Radii()
	lat, err := lattice.New(cfg.Lattice, cfg.Nr, radii)
	if err != nil {
		return nil, err
	}
	n1, n2 := cfg.Truncation()
	return &Sweep{
		cfg: cfg,
		layout: Layout{
			Lattice: lat,
			Radii:   radii,
			Kzs:     cfg.Kzs(),
			Bands:   3 * n1 * n2,
		},
		n1:    n1,
		n2:    n2,
		solve: (*EigenSolver).Solve,
	}, nil
}

func (s *Sweep) Layout() Layout {
	return s.layout
}

func (s *Sweep) Config() Config {
	return s.cfg
}

func (s *Sweep) AddSink(sink SliceSink) {
	s.sinks = append(s.sinks, sink)
}

// Attach registers the hub as a sink and lets its Stop channel cancel Run.
func (s *Sweep) Attach(h *CalcHub) {
	s.hub = h
	s.AddSink(h)
}

// params returns the dielectric description of radius index r.
func (s *Sweep) params(r int) DielectricParams {
	lat := s.layout.Lattice
	return DielectricParams{
		Radius: s.layout.Radii[r],
		Na:     s.cfg.Na,
		Nb:     s.cfg.Nb,
		Fill:   lat.Fill[r],
		B1:     lat.B1,
		B2:     lat.B2,
		N1:     s.n1,
		N2:     s.n2,
	}
}

func (s *Sweep) coefficients(r int) *mat.SymDense {
	p := s.params(r)
	if s.cfg.Coefficients == Sampled {
		return SampledCoefficients(p, s.layout.Lattice.A1, s.layout.Lattice.A2, s.cfg.Samples)
	}
	return Coefficients(p)
}

// Run computes every (radius, kz, point) sample. On cancellation the
// partial result is returned together with the context error; radii that
// were not finished carry NaN frequencies and no gaps.
func (s *Sweep) Run(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.hub != nil {
		go func() {
			select {
			case <-s.hub.Stop:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	start := time.Now()
	lay := s.layout
	lat := lay.Lattice
	nPoints, nKz := lay.Points(), len(lay.Kzs)
	res := &Result{
		Layout: lay,
		Omega:  NewBandFrequencyTensor(len(lay.Radii), nKz, lay.Bands, nPoints),
		Gaps:   make([][]Gaps, len(lay.Radii)),
	}
	log.WithFields(s.cfg.Fields()).Info("sweep started")

	exec := newExecutor(s.cfg.Workers)
	exec.run()
	defer exec.close()

	var (
		mu       sync.Mutex
		failures []SampleFailure
		samples  int64
	)

	for r, radius := range lay.Radii {
		if ctx.Err() != nil {
			break
		}
		solver, err := NewEigenSolver(BlockDiagonal(s.coefficients(r), 3))
		if err != nil {
			return nil, err
		}

		elapsed := exec.dispatchTask(ctx, nKz*nPoints, func(i int) {
			kz, point := i/nPoints, i%nPoints
			kx, ky := lat.Path.At(point)
			atomic.AddInt64(&samples, 1)

			w := AssembleWavevectors(kx, ky, lay.Kzs[kz], lat.B1, lat.B2, s.n1, s.n2)
			omega, err := s.solve(solver, w)
			if err != nil {
				res.Omega.invalidatePoint(r, kz, point)
				mu.Lock()
				failures = append(failures, SampleFailure{Radius: r, Kz: kz, Point: point, Err: err})
				mu.Unlock()
				log.WithFields(log.Fields{
					"radius": radius,
					"kz":     lay.Kzs[kz],
					"point":  point,
				}).WithError(err).Warn("sample failed")
				return
			}
			res.Omega.setPoint(r, kz, point, omega)
		})
		log.WithFields(log.Fields{
			"radius":  radius,
			"fill":    lat.Fill[r],
			"samples": nKz * nPoints,
			"elapsed": elapsed.String(),
		}).Debug("radius solved")

		if ctx.Err() != nil {
			break
		}
		res.Gaps[r] = make([]Gaps, nKz)
		for k, kz := range lay.Kzs {
			omega := res.Omega.Slice(r, k)
			gaps, err := ExtractGaps(omega, s.cfg.Tolerance)
			if err != nil {
				return nil, err
			}
			res.Gaps[r][k] = gaps

			slice := SliceResult{
				RadiusIndex: r,
				KzIndex:     k,
				Radius:      radius,
				Kz:          kz,
				Fill:        lat.Fill[r],
				Omega:       omega,
				Gaps:        gaps,
				Failed:      failedPoints(failures, r, k),
			}
			if err := s.publish(slice); err != nil {
				if !errors.Is(err, ErrStopped) {
					return nil, err
				}
				cancel()
				break
			}
		}
	}

	res.Bounds = NewBandGapBounds(res.Gaps, nKz, len(lay.Radii))
	res.Report = Report{
		Samples:   int(atomic.LoadInt64(&samples)),
		Failures:  failures,
		Elapsed:   time.Since(start),
		Cancelled: ctx.Err() != nil,
	}
	log.WithFields(res.Report.Fields()).Info("sweep finished")
	if res.Report.Cancelled {
		return res, ctx.Err()
	}
	return res, nil
}

func (s *Sweep) publish(slice SliceResult) error {
	for _, sink := range s.sinks {
		if err := sink.WriteSlice(slice); err != nil {
			return fmt.Errorf("calculator: publish slice (%d, %d): %w", slice.RadiusIndex, slice.KzIndex, err)
		}
	}
	return nil
}

func failedPoints(failures []SampleFailure, r, kz int) []int {
	var points []int
	for _, f := range failures {
		if f.Radius == r && f.Kz == kz {
			points = append(points, f.Point)
		}
	}
	return points
}
