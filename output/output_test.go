package output

import (
	"bytes"
	"encoding/csv"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"phc/calculator"
	"phc/lattice"
	"phc/postprocess"
)

func testLayout(t *testing.T) calculator.Layout {
	radii := []float64{0.2, 0.3}
	lat, err := lattice.New(lattice.Square, 4, radii)
	require.NoError(t, err)
	return calculator.Layout{
		Lattice: lat,
		Radii:   radii,
		Kzs:     []float64{0, 0.5, 1},
		Bands:   3,
	}
}

func TestNetCDFRoundTrip(t *testing.T) {
	lay := testLayout(t)
	path := filepath.Join(t.TempDir(), "bands.nc")
	store, err := CreateNetCDF(path, lay)
	require.NoError(t, err)

	nPoints := lay.Points()
	omega := mat.NewDense(lay.Bands, nPoints, nil)
	for b := 0; b < lay.Bands; b++ {
		for p := 0; p < nPoints; p++ {
			omega.Set(b, p, float64(b)+float64(p)/100)
		}
	}
	require.NoError(t, store.WriteSlice(calculator.SliceResult{RadiusIndex: 1, KzIndex: 2, Omega: omega}))

	gaps := make([][]calculator.Gaps, len(lay.Radii))
	gaps[1] = make([]calculator.Gaps, len(lay.Kzs))
	gaps[1][2] = calculator.Gaps{Bottoms: []float64{0.4}, Tops: []float64{0.6}, Lower: []int{0}}
	res := &calculator.Result{
		Layout: lay,
		Bounds: calculator.NewBandGapBounds(gaps, len(lay.Kzs), len(lay.Radii)),
	}
	require.NoError(t, store.Close(res))

	d, err := LoadNetCDF(path)
	require.NoError(t, err)
	require.Equal(t, "square", d.Lattice)
	require.Equal(t, lay.Lattice.Path.KP, d.KP)
	require.Equal(t, lay.Lattice.Path.KL, d.KL)
	require.Equal(t, lay.Radii, d.Radii)
	require.Equal(t, lay.Kzs, d.Kzs)
	require.Equal(t, lay.Lattice.Path.Kx, d.Kx)

	require.Equal(t, 2, d.Omega.NRadius)
	require.Equal(t, 3, d.Omega.NKz)
	require.InDelta(t, 2.05, d.Omega.At(1, 2, 2, 5), 1e-12)
	require.True(t, math.IsNaN(d.Omega.At(0, 0, 0, 0)), "slices never written stay NaN")

	require.Len(t, d.GapMin, lay.Bands-1)
	require.Equal(t, 0.4, d.GapMin[0][2][1])
	require.Equal(t, 0.6, d.GapMax[0][2][1])
	require.Zero(t, d.GapMin[1][2][1])
}

func TestLoadNetCDFMissingFile(t *testing.T) {
	_, err := LoadNetCDF(filepath.Join(t.TempDir(), "missing.nc"))
	require.Error(t, err)
}

func TestWriteGapCSV(t *testing.T) {
	edges := []postprocess.GapEdge{
		{
			Radius: 0.3,
			Kz:     0.5,
			Lower:  24,
			Bottom: postprocess.EstimateAngle(0, 0.5, 1.3),
			Top:    postprocess.EstimateAngle(0.45, 0.5, 1.3),
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteGapCSV(&buf, edges))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []string{
		"radius", "kz", "lower_band", "bottom", "top", "width",
		"n_eff_bottom", "n_eff_top", "theta_bottom", "theta_top", "regime",
	}, records[0])
	require.Equal(t, "0.300000", records[1][0])
	require.Equal(t, "24", records[1][2])
	require.Equal(t, "0.450000", records[1][5])
	require.Equal(t, "evanescent/propagating", records[1][10])
}

func TestWriteGapCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGapCSV(&buf, nil))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
