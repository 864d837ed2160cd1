package material

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUnknownMaterial = errors.New("material: unknown material")
	ErrInvalidIndex    = errors.New("material: refractive index must be positive")
)

// Material is a non-dispersive, isotropic dielectric.
type Material struct {
	Name        string  `json:"name"`
	Index       float64 `json:"index"`
	Description string  `json:"description,omitempty"`
}

func (m Material) Permittivity() float64 {
	return m.Index * m.Index
}

type Catalog struct {
	byName map[string]Material
}

// indices near 1.55 µm
var defaults = []Material{
	{Name: "air", Index: 1.0, Description: "vacuum / air"},
	{Name: "water", Index: 1.318},
	{Name: "silica", Index: 1.444, Description: "fused SiO2"},
	{Name: "pmma", Index: 1.481},
	{Name: "polymer", Index: 1.6, Description: "generic high-index polymer"},
	{Name: "chalcogenide", Index: 2.4, Description: "As2Se3 glass"},
	{Name: "silicon", Index: 3.48},
	{Name: "gaas", Index: 3.37},
}

func DefaultCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]Material, len(defaults))}
	for _, m := range defaults {
		c.byName[m.Name] = m
	}
	return c
}

// LoadCatalog reads a JSON array of materials. Entries extend and override
// the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("material: read catalog: %w", err)
	}
	var materials []Material
	if err = json.Unmarshal(data, &materials); err != nil {
		return nil, fmt.Errorf("material: parse catalog %s: %w", path, err)
	}
	c := DefaultCatalog()
	for _, m := range materials {
		if err = c.Add(m); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{
		"path":      path,
		"materials": len(materials),
	}).Info("material catalog loaded")
	return c, nil
}

func (c *Catalog) Add(m Material) error {
	if m.Index <= 0 {
		return fmt.Errorf("%w: %s has index %g", ErrInvalidIndex, m.Name, m.Index)
	}
	m.Name = normalize(m.Name)
	c.byName[m.Name] = m
	return nil
}

func (c *Catalog) Lookup(name string) (Material, error) {
	m, ok := c.byName[normalize(name)]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names returns the catalog entries in alphabetical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
