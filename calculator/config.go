package calculator

import (
	"fmt"
	"math"
	"runtime"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/ini.v1"

	"phc/lattice"
	"phc/material"
	"phc/model"
)

const (
	DefaultTolerance = 0.01
	DefaultSamples   = 64
)

type Config struct {
	Na float64 // inclusion index
	Nb float64 // background index

	Lattice lattice.Kind
	Nr      int // samples on the first Brillouin path segment

	RMin, RMax float64
	RNum       int

	KzMin, KzMax float64
	KzNum        int

	Order     int // No1, N1 = N2 = 2·Order+1
	Tolerance float64
	Workers   int

	Coefficients CoefficientMethod
	Samples      int // raster size for Sampled coefficients
}

func DefaultConfig() Config {
	return Config{
		Na:        1.0,
		Nb:        1.6,
		Lattice:   lattice.Square,
		Nr:        10,
		RMin:      0.35,
		RMax:      0.35,
		RNum:      1,
		KzNum:     1,
		Order:     2,
		Tolerance: DefaultTolerance,
		Workers:   runtime.NumCPU(),
		Samples:   DefaultSamples,
	}
}

// LoadConfig reads an ini file. Missing keys keep DefaultConfig values.
// Material names in [material] take precedence over raw indices and are
// resolved through catalog (the default catalog when nil).
func LoadConfig(path string, catalog *material.Catalog) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("calculator: load config: %w", err)
	}
	cfg, err := ConfigFromFile(file, catalog)
	if err != nil {
		return Config{}, err
	}
	log.WithField("path", path).Info("config loaded")
	return cfg, nil
}

// ConfigFromFile is LoadConfig for an ini file the caller already parsed,
// e.g. one that also carries [output] and [server] sections.
func ConfigFromFile(file *ini.File, catalog *material.Catalog) (Config, error) {
	if catalog == nil {
		catalog = material.DefaultCatalog()
	}
	cfg, err := loadCfg(file, catalog)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func loadCfg(file *ini.File, catalog *material.Catalog) (Config, error) {
	def := DefaultConfig()
	mat := file.Section("material")
	geo := file.Section("lattice")
	rad := file.Section("radius")
	kz := file.Section("kz")
	sol := file.Section("solver")

	cfg := Config{
		Na:        mat.Key("na").MustFloat64(def.Na),
		Nb:        mat.Key("nb").MustFloat64(def.Nb),
		Nr:        geo.Key("nr").MustInt(def.Nr),
		RMin:      rad.Key("min").MustFloat64(def.RMin),
		RMax:      rad.Key("max").MustFloat64(def.RMax),
		RNum:      rad.Key("num").MustInt(def.RNum),
		KzMin:     kz.Key("min").MustFloat64(def.KzMin),
		KzMax:     kz.Key("max").MustFloat64(def.KzMax),
		KzNum:     kz.Key("num").MustInt(def.KzNum),
		Order:     sol.Key("order").MustInt(def.Order),
		Tolerance: sol.Key("tolerance").MustFloat64(def.Tolerance),
		Workers:   sol.Key("workers").MustInt(def.Workers),
		Samples:   sol.Key("samples").MustInt(def.Samples),
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	var err error
	if cfg.Lattice, err = lattice.ParseKind(geo.Key("kind").MustString(def.Lattice.String())); err != nil {
		return Config{}, &ConfigError{Param: "lattice", Value: geo.Key("kind").String(), Reason: err.Error()}
	}
	if cfg.Coefficients, err = ParseCoefficientMethod(sol.Key("coefficients").String()); err != nil {
		return Config{}, &ConfigError{Param: "coefficients", Value: sol.Key("coefficients").String(), Reason: err.Error()}
	}
	if name := mat.Key("inclusion").String(); name != "" {
		m, err := catalog.Lookup(name)
		if err != nil {
			return Config{}, &ConfigError{Param: "inclusion", Value: name, Reason: err.Error()}
		}
		cfg.Na = m.Index
	}
	if name := mat.Key("background").String(); name != "" {
		m, err := catalog.Lookup(name)
		if err != nil {
			return Config{}, &ConfigError{Param: "background", Value: name, Reason: err.Error()}
		}
		cfg.Nb = m.Index
	}
	return cfg, nil
}

// FromEnv applies a websocket request on top of base. Zero fields keep the
// base values; the kz range is always taken from env.
func FromEnv(base Config, env model.Env) (Config, error) {
	cfg := base
	setFloat(&cfg.Na, env.Na)
	setFloat(&cfg.Nb, env.Nb)
	setInt(&cfg.Nr, env.Nr)
	setFloat(&cfg.RMin, env.RMin)
	setFloat(&cfg.RMax, env.RMax)
	setInt(&cfg.RNum, env.RNum)
	cfg.KzMin, cfg.KzMax = env.KzMin, env.KzMax
	setInt(&cfg.KzNum, env.KzNum)
	setInt(&cfg.Order, env.Order)
	setFloat(&cfg.Tolerance, env.Tolerance)
	setInt(&cfg.Workers, env.Workers)
	setInt(&cfg.Samples, env.Samples)

	var err error
	if env.Lattice != "" {
		if cfg.Lattice, err = lattice.ParseKind(env.Lattice); err != nil {
			return Config{}, &ConfigError{Param: "lattice", Value: env.Lattice, Reason: err.Error()}
		}
	}
	if env.Coefficients != "" {
		if cfg.Coefficients, err = ParseCoefficientMethod(env.Coefficients); err != nil {
			return Config{}, &ConfigError{Param: "coefficients", Value: env.Coefficients, Reason: err.Error()}
		}
	}
	return cfg, cfg.Validate()
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Validate rejects configurations that cannot produce a sweep. Radii must
// lie in (0, 0.5) so that neighbouring cylinders do not overlap. A single
// radius may be given as rMin == rMax.
func (c Config) Validate() error {
	for _, f := range []struct {
		param string
		v     float64
	}{
		{"na", c.Na},
		{"nb", c.Nb},
		{"rMin", c.RMin},
		{"rMax", c.RMax},
		{"kzMin", c.KzMin},
		{"kzMax", c.KzMax},
		{"tolerance", c.Tolerance},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.param, f.v, "must be finite")
		}
	}

	switch {
	case c.Na <= 0:
		return invalid("na", c.Na, "refractive index must be positive")
	case c.Nb <= 0:
		return invalid("nb", c.Nb, "refractive index must be positive")
	case c.Nr <= 0:
		return invalid("nr", c.Nr, "sampling density must be positive")
	case c.RNum <= 0:
		return invalid("rNum", c.RNum, "radius count must be positive")
	case c.RMin > c.RMax, c.RNum > 1 && c.RMin == c.RMax:
		return invalid("rMin", c.RMin, fmt.Sprintf("must be below rMax = %g", c.RMax))
	case c.RMin <= 0:
		return invalid("rMin", c.RMin, "radius must be positive")
	case c.RMax >= 0.5:
		return invalid("rMax", c.RMax, "cylinders overlap at r >= 0.5")
	case c.KzNum <= 0:
		return invalid("kzNum", c.KzNum, "kz count must be positive")
	case c.KzMin > c.KzMax:
		return invalid("kzMin", c.KzMin, fmt.Sprintf("must not exceed kzMax = %g", c.KzMax))
	case c.Order < 0:
		return invalid("order", c.Order, "truncation order gives no plane waves")
	case c.Tolerance < 0:
		return invalid("tolerance", c.Tolerance, "must not be negative")
	case c.Workers <= 0:
		return invalid("workers", c.Workers, "must be positive")
	case c.Coefficients == Sampled && c.Samples <= 4*c.Order:
		return invalid("samples", c.Samples, fmt.Sprintf("raster must exceed %d to resolve order %d", 4*c.Order, c.Order))
	}
	return nil
}

// Truncation returns N1, N2.
func (c Config) Truncation() (int, int) {
	n := 2*c.Order + 1
	return n, n
}

func (c Config) Radii() []float64 {
	return linspace(c.RMin, c.RMax, c.RNum)
}

func (c Config) Kzs() []float64 {
	return linspace(c.KzMin, c.KzMax, c.KzNum)
}

// linspace follows the usual convention of returning the upper bound for a
// single sample.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{hi}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func (c Config) Fields() log.Fields {
	return log.Fields{
		"na":           c.Na,
		"nb":           c.Nb,
		"lattice":      c.Lattice.String(),
		"nr":           c.Nr,
		"radius":       fmt.Sprintf("[%g, %g]×%d", c.RMin, c.RMax, c.RNum),
		"kz":           fmt.Sprintf("[%g, %g]×%d", c.KzMin, c.KzMax, c.KzNum),
		"order":        c.Order,
		"tolerance":    c.Tolerance,
		"workers":      c.Workers,
		"coefficients": c.Coefficients.String(),
	}
}
