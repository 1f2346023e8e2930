// Package dedup groups geometry-bearing nodes by shape identity and exports
// one STL mesh per group.
package dedup

import (
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/flatten"
	"github.com/Faultbox/cad2urdf/internal/logger"
	"github.com/Faultbox/cad2urdf/pkg/assembly"
)

// MeshExt is appended to exported mesh names.
const MeshExt = ".stl"

// BodyRef pairs a node path with the body it owns.
type BodyRef struct {
	Path string
	Body assembly.Body
}

// Collect walks the table from the root and returns the first body owned
// directly by each node. Nodes with more than one body contribute only the
// first; bodies of descendants belong to the descendants.
func Collect(t *flatten.Table) []BodyRef {
	var refs []BodyRef

	var walk func(path string)
	walk = func(path string) {
		node := t.Lookup(path)
		if node == nil {
			return
		}
		bodies := node.Handle.Bodies()
		if len(bodies) > 0 {
			refs = append(refs, BodyRef{Path: path, Body: bodies[0]})
			if len(bodies) > 1 {
				logger.Debug("node has several bodies, using the first",
					zap.String("path", path),
					zap.Int("bodies", len(bodies)),
					zap.String("used", bodies[0].Name()))
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(flatten.RootPath)

	return refs
}

// Group is a set of nodes sharing one geometry identity.
type Group struct {
	RevisionID string
	Members    []BodyRef
	// MeshFile is the exported mesh, empty until an export succeeds.
	MeshFile string
	// Err collects member export failures.
	Err error
}

// Exported reports whether the group has a mesh file.
func (g *Group) Exported() bool {
	return g.MeshFile != ""
}

// Groups indexes groups by revision id, keeping first-seen order.
type Groups struct {
	byID  map[string]*Group
	order []*Group
}

// Partition groups refs by body revision id. Members keep the order of refs.
func Partition(refs []BodyRef) *Groups {
	gs := &Groups{byID: make(map[string]*Group)}
	for _, ref := range refs {
		id := ref.Body.RevisionID()
		g, ok := gs.byID[id]
		if !ok {
			g = &Group{RevisionID: id}
			gs.byID[id] = g
			gs.order = append(gs.order, g)
		}
		g.Members = append(g.Members, ref)
	}
	return gs
}

// Lookup returns the group for a revision id, or nil.
func (gs *Groups) Lookup(revisionID string) *Group {
	return gs.byID[revisionID]
}

// All returns groups in first-seen order.
func (gs *Groups) All() []*Group {
	return gs.order
}

// Len returns the number of groups.
func (gs *Groups) Len() int {
	return len(gs.order)
}

// Result summarizes an export pass.
type Result struct {
	Exported int
	Attempts int
	Failed   []*Group
}

// MeshPath returns where the mesh for a node path is written inside dir.
func MeshPath(dir, path string) string {
	return filepath.Join(dir, flatten.DerivedName(path)+MeshExt)
}

// Export writes one mesh per group into dir. Members are tried in order
// until one export succeeds; yield runs after every export call so the host
// can flush the file. A group whose members all fail keeps an empty
// MeshFile and is listed in Result.Failed.
func Export(gs *Groups, dir string, yield func()) Result {
	var res Result

	for _, g := range gs.order {
		for _, m := range g.Members {
			target := MeshPath(dir, m.Path)
			logger.Info("exporting mesh", zap.String("path", m.Path), zap.String("file", target))

			err := m.Body.ExportSTL(target)
			res.Attempts++
			if yield != nil {
				yield()
			}

			if err != nil {
				logger.Warn("mesh export failed", zap.String("path", m.Path), zap.Error(err))
				g.Err = multierr.Append(g.Err, err)
				continue
			}
			g.MeshFile = target
			res.Exported++
			break
		}

		if !g.Exported() {
			logger.Warn("no mesh for geometry group",
				zap.String("revision", g.RevisionID),
				zap.Int("members", len(g.Members)),
				zap.Error(g.Err))
			res.Failed = append(res.Failed, g)
		}
	}

	return res
}
