// Package fakehost is an in-memory assembly host for tests.
package fakehost

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/cad2urdf/pkg/assembly"
)

// ErrExportRefused is returned by bodies marked to fail.
var ErrExportRefused = errors.New("export refused")

// Assembly is a scripted design.
type Assembly struct {
	Title  string
	Top    *Occurrence
	Yields int
}

// New returns an assembly with an empty root component.
func New(name string) *Assembly {
	return &Assembly{Title: name, Top: &Occurrence{Label: name}}
}

func (a *Assembly) Name() string        { return a.Title }
func (a *Assembly) Root() assembly.Node { return a.Top }
func (a *Assembly) DoEvents()           { a.Yields++ }

// Occurrence is a placed component. A nil Transform reports
// assembly.ErrTransformUnavailable.
type Occurrence struct {
	Label     string
	Transform *mgl64.Mat4
	Kids      []*Occurrence
	Solids    []*Body
}

func (o *Occurrence) Name() string { return o.Label }

func (o *Occurrence) Children() []assembly.Occurrence {
	out := make([]assembly.Occurrence, len(o.Kids))
	for i, k := range o.Kids {
		out[i] = k
	}
	return out
}

func (o *Occurrence) Bodies() []assembly.Body {
	out := make([]assembly.Body, len(o.Solids))
	for i, b := range o.Solids {
		out[i] = b
	}
	return out
}

func (o *Occurrence) LocalTransform() (mgl64.Mat4, error) {
	if o.Transform == nil {
		return mgl64.Mat4{}, assembly.ErrTransformUnavailable
	}
	return *o.Transform, nil
}

// Add appends a child occurrence with the given transform and returns it.
func (o *Occurrence) Add(name string, m *mgl64.Mat4) *Occurrence {
	c := &Occurrence{Label: name, Transform: m}
	o.Kids = append(o.Kids, c)
	return c
}

// With attaches bodies and returns o.
func (o *Occurrence) With(bodies ...*Body) *Occurrence {
	o.Solids = append(o.Solids, bodies...)
	return o
}

// Body records every export attempt. Fail makes ExportSTL return
// ErrExportRefused without touching the filesystem.
type Body struct {
	Label      string
	Revision   string
	Material   string
	Appearance string
	Fail       bool
	Exports    []string
}

// Solid returns a body with a grey appearance.
func Solid(name, revision string) *Body {
	return &Body{
		Label:      name,
		Revision:   revision,
		Material:   "PrismMaterial-002",
		Appearance: "Opaque(128, 128, 128)",
	}
}

func (b *Body) Name() string           { return b.Label }
func (b *Body) RevisionID() string     { return b.Revision }
func (b *Body) MaterialID() string     { return b.Material }
func (b *Body) AppearanceName() string { return b.Appearance }

func (b *Body) ExportSTL(path string) error {
	b.Exports = append(b.Exports, path)
	if b.Fail {
		return fmt.Errorf("%s: %w", b.Label, ErrExportRefused)
	}
	return os.WriteFile(path, []byte("solid "+b.Label+"\nendsolid "+b.Label+"\n"), 0644)
}

// Mat returns a pointer to m for use as an occurrence transform.
func Mat(m mgl64.Mat4) *mgl64.Mat4 {
	return &m
}
