// Package formats provides parsers for assembly description files.
// An assembly manifest describes a CAD design as reusable components placed
// by occurrences, in YAML or TOML.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manifest errors.
var (
	ErrUnsupportedExt    = errors.New("unsupported manifest extension")
	ErrMissingName       = errors.New("assembly has no name")
	ErrUnknownComponent  = errors.New("unknown component")
	ErrComponentCycle    = errors.New("component contains itself")
	ErrInvalidTransform  = errors.New("invalid transform")
	ErrConflictingPlace  = errors.New("transform given together with translate/rotate")
	ErrMissingComponent  = errors.New("occurrence has no component")
	ErrInvalidBoxSize    = errors.New("box needs three positive sizes")
	ErrAmbiguousGeometry = errors.New("body has both mesh and box")
)

// Assembly is a parsed manifest.
type Assembly struct {
	Name        string               `yaml:"name" toml:"name"`
	Bodies      []Body               `yaml:"bodies" toml:"bodies"` // Bodies of the root component
	Components  map[string]Component `yaml:"components" toml:"components"`
	Occurrences []Occurrence         `yaml:"occurrences" toml:"occurrences"`

	// Dir is the manifest directory; relative mesh paths resolve against it.
	Dir string `yaml:"-" toml:"-"`
}

// Component is a reusable part or sub-assembly.
type Component struct {
	Bodies      []Body       `yaml:"bodies" toml:"bodies"`
	Occurrences []Occurrence `yaml:"occurrences" toml:"occurrences"`
}

// Body is a solid inside a component.
type Body struct {
	Name       string    `yaml:"name" toml:"name"`
	Revision   string    `yaml:"revision" toml:"revision"`     // Shape identity; defaults to component/body
	Material   string    `yaml:"material" toml:"material"`     // Material id
	Appearance string    `yaml:"appearance" toml:"appearance"` // e.g. "Opaque(128, 128, 128)"
	Mesh       string    `yaml:"mesh" toml:"mesh"`             // Binary STL source
	Box        []float64 `yaml:"box" toml:"box"`               // Box size, mesh units
}

// Occurrence places a component inside its parent.
type Occurrence struct {
	Placement `yaml:",inline"`

	Name      string `yaml:"name" toml:"name"` // Defaults to "<component>:<n>"
	Component string `yaml:"component" toml:"component"`
}

// Placement is the local transform of an occurrence. Either Transform or
// Translate/RotateDeg may be given; none means identity.
type Placement struct {
	Transform   []float64 `yaml:"transform" toml:"transform"`     // 16 values, row-major 4x4
	Translate   []float64 `yaml:"translate" toml:"translate"`     // x, y, z in host units
	RotateDeg   []float64 `yaml:"rotate_deg" toml:"rotate_deg"`   // roll, pitch, yaw in degrees
	Unavailable bool      `yaml:"unavailable" toml:"unavailable"` // Host reports no transform
}

// ParseAssembly parses manifest data. ext selects the codec (".yaml",
// ".yml" or ".toml").
func ParseAssembly(data []byte, ext string) (*Assembly, error) {
	var a Assembly
	var err error

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &a)
	case ".toml":
		err = toml.Unmarshal(data, &a)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// ParseAssemblyFile parses a manifest from disk.
func ParseAssemblyFile(path string) (*Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	a, err := ParseAssembly(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	a.Dir = filepath.Dir(path)
	return a, nil
}

// Validate checks references, placements, geometry and component cycles.
func (a *Assembly) Validate() error {
	if a.Name == "" {
		return ErrMissingName
	}
	if err := validateBodies("root", a.Bodies); err != nil {
		return err
	}
	for name, c := range a.Components {
		if err := validateBodies(name, c.Bodies); err != nil {
			return err
		}
	}

	visiting := make(map[string]bool)
	done := make(map[string]bool)

	var check func(occs []Occurrence, where string) error
	check = func(occs []Occurrence, where string) error {
		for i := range occs {
			o := &occs[i]
			if o.Component == "" {
				return fmt.Errorf("%w: %s occurrence %d", ErrMissingComponent, where, i)
			}
			c, ok := a.Components[o.Component]
			if !ok {
				return fmt.Errorf("%w: %q in %s", ErrUnknownComponent, o.Component, where)
			}
			if err := o.Placement.validate(); err != nil {
				return fmt.Errorf("%s occurrence of %q: %w", where, o.Component, err)
			}
			if visiting[o.Component] {
				return fmt.Errorf("%w: %q", ErrComponentCycle, o.Component)
			}
			if done[o.Component] {
				continue
			}
			visiting[o.Component] = true
			if err := check(c.Occurrences, o.Component); err != nil {
				return err
			}
			visiting[o.Component] = false
			done[o.Component] = true
		}
		return nil
	}

	return check(a.Occurrences, "root")
}

func (p *Placement) validate() error {
	if len(p.Transform) > 0 && (len(p.Translate) > 0 || len(p.RotateDeg) > 0) {
		return ErrConflictingPlace
	}
	if len(p.Transform) > 0 && len(p.Transform) != 16 {
		return fmt.Errorf("%w: transform has %d values, want 16", ErrInvalidTransform, len(p.Transform))
	}
	if len(p.Translate) > 0 && len(p.Translate) != 3 {
		return fmt.Errorf("%w: translate has %d values, want 3", ErrInvalidTransform, len(p.Translate))
	}
	if len(p.RotateDeg) > 0 && len(p.RotateDeg) != 3 {
		return fmt.Errorf("%w: rotate_deg has %d values, want 3", ErrInvalidTransform, len(p.RotateDeg))
	}
	return nil
}

func validateBodies(component string, bodies []Body) error {
	for _, b := range bodies {
		if b.Mesh != "" && len(b.Box) > 0 {
			return fmt.Errorf("%w: %s/%s", ErrAmbiguousGeometry, component, b.Name)
		}
		if len(b.Box) == 0 {
			continue
		}
		if len(b.Box) != 3 || b.Box[0] <= 0 || b.Box[1] <= 0 || b.Box[2] <= 0 {
			return fmt.Errorf("%w: %s/%s", ErrInvalidBoxSize, component, b.Name)
		}
	}
	return nil
}

// RevisionOf returns the shape identity for a body of a component.
func RevisionOf(component string, b Body) string {
	if b.Revision != "" {
		return b.Revision
	}
	return component + "/" + b.Name
}

// CountOccurrences returns the number of occurrences in the expanded tree.
func (a *Assembly) CountOccurrences() int {
	var count func(occs []Occurrence) int
	count = func(occs []Occurrence) int {
		n := 0
		for _, o := range occs {
			n += 1 + count(a.Components[o.Component].Occurrences)
		}
		return n
	}
	return count(a.Occurrences)
}
