// Package assembly defines what the exporter needs from a CAD host.
//
// A host adapter wraps its own component and occurrence objects behind these
// interfaces. The exporter never reaches past them, so any host that can
// report local transforms and write STL files can drive an export.
package assembly

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTransformUnavailable is returned by Occurrence.LocalTransform when the
// host cannot provide a transform for the occurrence.
var ErrTransformUnavailable = errors.New("transform unavailable")

// Assembly is the design being exported.
type Assembly interface {
	// Name is used for the output directory and the robot element.
	Name() string
	// Root is the top-level component.
	Root() Node
	// DoEvents lets the host process pending events. Called after every
	// mesh export so the host can finish writing the file.
	DoEvents()
}

// Node is anything that owns bodies and child occurrences.
type Node interface {
	Name() string
	Children() []Occurrence
	Bodies() []Body
}

// Occurrence is a placed instance of a component inside its parent.
type Occurrence interface {
	Node
	// LocalTransform returns the occurrence transform relative to its
	// parent, in the host's native length unit.
	LocalTransform() (mgl64.Mat4, error)
}

// Body is a piece of solid geometry.
type Body interface {
	Name() string
	// RevisionID identifies the underlying shape. Occurrences of the same
	// component report the same value.
	RevisionID() string
	MaterialID() string
	// AppearanceName is the host appearance label, e.g. "Opaque(128, 128, 128)".
	AppearanceName() string
	// ExportSTL writes the body surface mesh to path.
	ExportSTL(path string) error
}
