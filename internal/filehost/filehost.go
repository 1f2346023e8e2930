// Package filehost serves an assembly manifest through the assembly
// interfaces, standing in for a live CAD session.
package filehost

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/cad2urdf/pkg/assembly"
	"github.com/Faultbox/cad2urdf/pkg/formats"
	"github.com/Faultbox/cad2urdf/pkg/pose"
)

// ErrNoGeometry is returned when exporting a body with neither mesh nor box.
var ErrNoGeometry = errors.New("body has no geometry")

// Host exposes a parsed manifest as an assembly.
type Host struct {
	manifest *formats.Assembly
	root     *component
	yields   int
}

// Open parses the manifest at path and builds the occurrence tree.
func Open(path string) (*Host, error) {
	m, err := formats.ParseAssemblyFile(path)
	if err != nil {
		return nil, err
	}
	return New(m), nil
}

// New builds a host from an already parsed manifest. Occurrences without a
// name are numbered per component, the way CAD hosts label instances.
func New(m *formats.Assembly) *Host {
	h := &Host{manifest: m}
	counters := make(map[string]int)
	h.root = &component{
		name:   m.Name,
		bodies: h.bodies(m.Name, m.Bodies),
	}
	h.root.children = h.occurrences(m.Occurrences, counters)
	return h
}

func (h *Host) Name() string        { return h.manifest.Name }
func (h *Host) Root() assembly.Node { return h.root }

// DoEvents has nothing to flush for files; it counts calls.
func (h *Host) DoEvents() { h.yields++ }

// Yields returns how many times DoEvents ran.
func (h *Host) Yields() int { return h.yields }

func (h *Host) occurrences(occs []formats.Occurrence, counters map[string]int) []assembly.Occurrence {
	out := make([]assembly.Occurrence, 0, len(occs))
	for _, o := range occs {
		counters[o.Component]++
		name := o.Name
		if name == "" {
			name = o.Component + ":" + strconv.Itoa(counters[o.Component])
		}
		c := h.manifest.Components[o.Component]
		occ := &occurrence{
			component: component{
				name:   name,
				bodies: h.bodies(o.Component, c.Bodies),
			},
			placement: o.Placement,
		}
		occ.children = h.occurrences(c.Occurrences, counters)
		out = append(out, occ)
	}
	return out
}

func (h *Host) bodies(componentName string, bs []formats.Body) []assembly.Body {
	out := make([]assembly.Body, 0, len(bs))
	for _, b := range bs {
		out = append(out, &body{
			def:      b,
			revision: formats.RevisionOf(componentName, b),
			dir:      h.manifest.Dir,
		})
	}
	return out
}

type component struct {
	name     string
	children []assembly.Occurrence
	bodies   []assembly.Body
}

func (c *component) Name() string                    { return c.name }
func (c *component) Children() []assembly.Occurrence { return c.children }
func (c *component) Bodies() []assembly.Body         { return c.bodies }

type occurrence struct {
	component
	placement formats.Placement
}

// LocalTransform converts the manifest placement to a column-major matrix.
func (o *occurrence) LocalTransform() (mgl64.Mat4, error) {
	p := o.placement
	switch {
	case p.Unavailable:
		return mgl64.Mat4{}, assembly.ErrTransformUnavailable
	case len(p.Transform) == 16:
		var m mgl64.Mat4
		copy(m[:], p.Transform)
		// Manifest rows land in columns; transpose back.
		return m.Transpose(), nil
	}

	local := pose.Identity()
	if len(p.RotateDeg) == 3 {
		rpy := pose.Degrees(mgl64.Vec3{p.RotateDeg[0], p.RotateDeg[1], p.RotateDeg[2]})
		local.Rotation = pose.FromRPY(rpy[0], rpy[1], rpy[2])
	}
	if len(p.Translate) == 3 {
		local.Translation = mgl64.Vec3{p.Translate[0], p.Translate[1], p.Translate[2]}
	}
	return local.Mat4(), nil
}

type body struct {
	def      formats.Body
	revision string
	dir      string
}

func (b *body) Name() string           { return b.def.Name }
func (b *body) RevisionID() string     { return b.revision }
func (b *body) MaterialID() string     { return b.def.Material }
func (b *body) AppearanceName() string { return b.def.Appearance }

// ExportSTL writes the body mesh: a referenced STL is re-encoded, a box is
// tessellated.
func (b *body) ExportSTL(path string) error {
	switch {
	case b.def.Mesh != "":
		src := b.def.Mesh
		if !filepath.IsAbs(src) {
			src = filepath.Join(b.dir, src)
		}
		return formats.CopySTL(src, path)
	case len(b.def.Box) == 3:
		return formats.WriteBoxSTL(path, [3]float64{b.def.Box[0], b.def.Box[1], b.def.Box[2]})
	default:
		return fmt.Errorf("%s: %w", b.def.Name, ErrNoGeometry)
	}
}
