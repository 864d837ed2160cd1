package output

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"phc/postprocess"
)

// GapTable lays out one row per gap edge pair.
func GapTable(edges []postprocess.GapEdge) dataframe.DataFrame {
	n := len(edges)
	var (
		radius   = make([]float64, n)
		kz       = make([]float64, n)
		lower    = make([]int, n)
		bottom   = make([]float64, n)
		top      = make([]float64, n)
		width    = make([]float64, n)
		neffLow  = make([]float64, n)
		neffHigh = make([]float64, n)
		thetaLow = make([]float64, n)
		thetaHi  = make([]float64, n)
		regime   = make([]string, n)
	)
	for i, e := range edges {
		radius[i], kz[i], lower[i] = e.Radius, e.Kz, e.Lower
		bottom[i], top[i] = e.Bottom.Frequency, e.Top.Frequency
		width[i] = top[i] - bottom[i]
		neffLow[i], neffHigh[i] = e.Bottom.NEff, e.Top.NEff
		thetaLow[i], thetaHi[i] = e.Bottom.Theta, e.Top.Theta
		regime[i] = e.Bottom.Regime.String() + "/" + e.Top.Regime.String()
	}
	return dataframe.New(
		series.New(radius, series.Float, "radius"),
		series.New(kz, series.Float, "kz"),
		series.New(lower, series.Int, "lower_band"),
		series.New(bottom, series.Float, "bottom"),
		series.New(top, series.Float, "top"),
		series.New(width, series.Float, "width"),
		series.New(neffLow, series.Float, "n_eff_bottom"),
		series.New(neffHigh, series.Float, "n_eff_top"),
		series.New(thetaLow, series.Float, "theta_bottom"),
		series.New(thetaHi, series.Float, "theta_top"),
		series.New(regime, series.String, "regime"),
	)
}

func WriteGapCSV(w io.Writer, edges []postprocess.GapEdge) error {
	df := GapTable(edges)
	if err := df.Error(); err != nil {
		return fmt.Errorf("output: build gap table: %w", err)
	}
	return df.WriteCSV(w)
}

func SaveGapCSV(path string, edges []postprocess.GapEdge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	if err := WriteGapCSV(f, edges); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
