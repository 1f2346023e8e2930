package urdf

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/dedup"
	"github.com/Faultbox/cad2urdf/internal/flatten"
	"github.com/Faultbox/cad2urdf/internal/logger"
)

// FileName is the description file written next to the meshes directory.
const FileName = "model.urdf"

// Options control unit conversion.
type Options struct {
	// LengthRatio converts host lengths to description lengths.
	LengthRatio float64
	// MeshScale converts mesh file units to description lengths.
	MeshScale float64
}

// DefaultOptions converts centimeters to meters for poses and millimeter
// meshes to meters.
func DefaultOptions() Options {
	return Options{
		LengthRatio: 1.0 / 100.0,
		MeshScale:   0.001,
	}
}

// WithDefaults replaces every non-positive field with its default.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.LengthRatio <= 0 {
		o.LengthRatio = d.LengthRatio
	}
	if o.MeshScale <= 0 {
		o.MeshScale = d.MeshScale
	}
	return o
}

// Build creates the description for every geometry-bearing node. baseDir is
// the directory the description will live in; mesh references are made
// relative to it.
func Build(name string, table *flatten.Table, refs []dedup.BodyRef, groups *dedup.Groups, baseDir string, opts Options) (*Document, error) {
	robot := NewElement("robot", "name", name)

	for _, ref := range refs {
		node := table.Lookup(ref.Path)
		if node == nil {
			return nil, fmt.Errorf("body at %s has no node", ref.Path)
		}

		linkName := flatten.DerivedName(ref.Path)
		// An unknown pose has a zero translation and zero angles.
		xyz := FormatXYZ(node.Pose.Translation, opts.LengthRatio)
		rpy := FormatRPY(node.Pose.RPY())

		mesh, err := meshRef(groups.Lookup(ref.Body.RevisionID()), baseDir)
		if err != nil {
			return nil, err
		}
		if mesh == "" {
			logger.Warn("link has no mesh", zap.String("link", linkName))
		}

		rgb, err := ParseAppearanceColor(ref.Body.AppearanceName())
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", linkName, err)
		}

		link := robot.Add("link", "name", linkName)

		visual := link.Add("visual", "name", linkName+"_visual")
		visual.Add("origin", "xyz", xyz, "rpy", rpy)
		addGeometry(visual, mesh, opts.MeshScale)
		material := visual.Add("material", "name", ref.Body.MaterialID())
		material.Add("color", "rgba", FormatRGBA(rgb))

		collision := link.Add("collision", "name", linkName+"_collision")
		collision.Add("origin", "xyz", xyz, "rpy", rpy)
		addGeometry(collision, mesh, opts.MeshScale)
	}

	return &Document{Root: robot}, nil
}

func addGeometry(parent *Element, mesh string, scale float64) {
	geometry := parent.Add("geometry")
	if mesh == "" {
		return
	}
	geometry.Add("mesh", "filename", mesh, "scale", FormatScale(scale))
}

// meshRef returns the group's mesh file relative to baseDir with forward
// slashes, or "" when the group has no mesh.
func meshRef(g *dedup.Group, baseDir string) (string, error) {
	if g == nil || !g.Exported() {
		return "", nil
	}
	rel, err := filepath.Rel(baseDir, g.MeshFile)
	if err != nil {
		return "", fmt.Errorf("mesh %s outside %s: %w", g.MeshFile, baseDir, err)
	}
	return filepath.ToSlash(rel), nil
}

// WriteFile writes doc to path, replacing any existing file.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
