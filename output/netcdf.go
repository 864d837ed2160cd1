package output

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ctessum/cdf"
	log "github.com/sirupsen/logrus"

	"phc/calculator"
)

const DataVersion = "phc-1"

// NetCDF collects streamed slices and stores the sweep in a NetCDF file:
//
//	omega[radius, kz, band, point]
//	gap_min, gap_max[gap, kz, radius]
//	radius[radius], kz[kz], kx[point], ky[point]
//
// Coordinates are written on creation, the tensors on Close.
type NetCDF struct {
	mu     sync.Mutex
	file   *os.File
	cf     *cdf.File
	layout calculator.Layout
	omega  *calculator.BandFrequencyTensor
	slices int
}

func CreateNetCDF(path string, lay calculator.Layout) (*NetCDF, error) {
	nPoints := lay.Points()
	nGaps := lay.Bands - 1
	h := cdf.NewHeader(
		[]string{"radius", "kz", "band", "point", "gap"},
		[]int{len(lay.Radii), len(lay.Kzs), lay.Bands, nPoints, nGaps})
	h.AddAttribute("", "comment", "photonic crystal band structure sweep")
	h.AddAttribute("", "data_version", DataVersion)
	h.AddAttribute("", "lattice", lay.Lattice.Kind.String())
	h.AddAttribute("", "kp", toInt32(lay.Lattice.Path.KP))
	h.AddAttribute("", "kl", strings.Join(lay.Lattice.Path.KL, ","))

	h.AddVariable("radius", []string{"radius"}, []float64{0})
	h.AddAttribute("radius", "units", "a")
	h.AddVariable("kz", []string{"kz"}, []float64{0})
	h.AddAttribute("kz", "units", "2π/a")
	h.AddVariable("kx", []string{"point"}, []float64{0})
	h.AddAttribute("kx", "units", "2π/a")
	h.AddVariable("ky", []string{"point"}, []float64{0})
	h.AddAttribute("ky", "units", "2π/a")
	h.AddVariable("omega", []string{"radius", "kz", "band", "point"}, []float64{0})
	h.AddAttribute("omega", "units", "2πc/a")
	h.AddVariable("gap_min", []string{"gap", "kz", "radius"}, []float64{0})
	h.AddAttribute("gap_min", "units", "2πc/a")
	h.AddVariable("gap_max", []string{"gap", "kz", "radius"}, []float64{0})
	h.AddAttribute("gap_max", "units", "2πc/a")
	h.Define()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output: create %s: %w", path, err)
	}
	cf, err := cdf.Create(file, h)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("output: write netcdf header: %w", err)
	}
	n := &NetCDF{
		file:   file,
		cf:     cf,
		layout: lay,
		omega:  calculator.NewBandFrequencyTensor(len(lay.Radii), len(lay.Kzs), lay.Bands, nPoints),
	}
	coords := []struct {
		name string
		data []float64
	}{
		{"radius", lay.Radii},
		{"kz", lay.Kzs},
		{"kx", lay.Lattice.Path.Kx},
		{"ky", lay.Lattice.Path.Ky},
	}
	for _, c := range coords {
		if err := n.write(c.name, c.data); err != nil {
			file.Close()
			return nil, err
		}
	}
	log.WithFields(log.Fields{
		"path":   path,
		"radius": len(lay.Radii),
		"kz":     len(lay.Kzs),
		"bands":  lay.Bands,
		"points": nPoints,
	}).Info("netcdf store created")
	return n, nil
}

func (n *NetCDF) WriteSlice(s calculator.SliceResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	dst := n.omega.Slice(s.RadiusIndex, s.KzIndex)
	dst.Copy(s.Omega)
	n.slices++
	return nil
}

// Close writes the band tensor and the gap bounds of res, then closes the
// file. A nil res stores only the slices received so far.
func (n *NetCDF) Close(res *calculator.Result) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	defer n.file.Close()

	if err := n.write("omega", n.omega.Raw()); err != nil {
		return err
	}
	nGaps := n.layout.Bands - 1
	nKz, nRadius := len(n.layout.Kzs), len(n.layout.Radii)
	gapMin := make([]float64, nGaps*nKz*nRadius)
	gapMax := make([]float64, len(gapMin))
	if res != nil && res.Bounds != nil {
		b := res.Bounds
		for g := 0; g < b.NGaps && g < nGaps; g++ {
			for k := 0; k < nKz; k++ {
				for r := 0; r < nRadius; r++ {
					i := (g*nKz+k)*nRadius + r
					gapMin[i] = b.Min[g][k][r]
					gapMax[i] = b.Max[g][k][r]
				}
			}
		}
	}
	if err := n.write("gap_min", gapMin); err != nil {
		return err
	}
	if err := n.write("gap_max", gapMax); err != nil {
		return err
	}
	if err := cdf.UpdateNumRecs(n.file); err != nil {
		return fmt.Errorf("output: update netcdf records: %w", err)
	}
	log.WithFields(log.Fields{
		"path":   n.file.Name(),
		"slices": n.slices,
	}).Info("netcdf store written")
	return nil
}

func (n *NetCDF) write(name string, data []float64) error {
	end := n.cf.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := n.cf.Writer(name, start, end).Write(data); err != nil {
		return fmt.Errorf("output: writing variable %s to netcdf file: %w", name, err)
	}
	return nil
}

// Dataset is a sweep read back from a NetCDF store.
type Dataset struct {
	Lattice string
	KP      []int
	KL      []string

	Radii, Kzs []float64
	Kx, Ky     []float64

	Omega          *calculator.BandFrequencyTensor
	GapMin, GapMax [][][]float64 // [gap][kz][radius]
}

func LoadNetCDF(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("output: open %s: %w", path, err)
	}
	defer file.Close()
	f, err := cdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("output: read netcdf header: %w", err)
	}

	d := &Dataset{}
	var ok bool
	if d.Lattice, ok = f.Header.GetAttribute("", "lattice").(string); !ok {
		return nil, fmt.Errorf("output: %s has no lattice attribute", path)
	}
	kp, _ := f.Header.GetAttribute("", "kp").([]int32)
	for _, v := range kp {
		d.KP = append(d.KP, int(v))
	}
	if kl, _ := f.Header.GetAttribute("", "kl").(string); kl != "" {
		d.KL = strings.Split(kl, ",")
	}

	read := func(name string) ([]float64, []int, error) {
		dims := f.Header.Lengths(name)
		n := 1
		for _, v := range dims {
			n *= v
		}
		buf := make([]float64, n)
		if n == 0 {
			return buf, dims, nil
		}
		if _, err := f.Reader(name, nil, nil).Read(buf); err != nil {
			return nil, nil, fmt.Errorf("output: reading variable %s: %w", name, err)
		}
		return buf, dims, nil
	}
	for name, dst := range map[string]*[]float64{
		"radius": &d.Radii,
		"kz":     &d.Kzs,
		"kx":     &d.Kx,
		"ky":     &d.Ky,
	} {
		if *dst, _, err = read(name); err != nil {
			return nil, err
		}
	}

	omega, dims, err := read("omega")
	if err != nil {
		return nil, err
	}
	if len(dims) != 4 {
		return nil, fmt.Errorf("output: omega has %d dimensions, want 4", len(dims))
	}
	if d.Omega, err = calculator.WrapBandFrequencyTensor(dims[0], dims[1], dims[2], dims[3], omega); err != nil {
		return nil, err
	}
	if d.GapMin, err = readBounds(read, "gap_min"); err != nil {
		return nil, err
	}
	if d.GapMax, err = readBounds(read, "gap_max"); err != nil {
		return nil, err
	}
	return d, nil
}

func readBounds(read func(string) ([]float64, []int, error), name string) ([][][]float64, error) {
	flat, dims, err := read(name)
	if err != nil {
		return nil, err
	}
	if len(dims) != 3 {
		return nil, fmt.Errorf("output: %s has %d dimensions, want 3", name, len(dims))
	}
	out := make([][][]float64, dims[0])
	for g := range out {
		out[g] = make([][]float64, dims[1])
		for k := range out[g] {
			off := (g*dims[1] + k) * dims[2]
			out[g][k] = flat[off : off+dims[2]]
		}
	}
	return out, nil
}

func toInt32(v []int) []int32 {
	out := make([]int32, len(v))
	for i, x := range v {
		out[i] = int32(x)
	}
	return out
}
