// Package flatten walks an assembly occurrence tree into a flat table of
// slash-separated paths with accumulated world poses.
package flatten

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/logger"
	"github.com/Faultbox/cad2urdf/pkg/assembly"
	"github.com/Faultbox/cad2urdf/pkg/pose"
)

// RootPath is the path of the top-level component.
const RootPath = "root"

// Separator joins path segments.
const Separator = "/"

// ErrDuplicatePath is wrapped by DuplicatePathError.
var ErrDuplicatePath = errors.New("duplicate path")

// DuplicatePathError reports two occurrences that resolve to the same path.
// The host is expected to keep sibling names unique, so this aborts the export.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate path: %s", e.Path)
}

func (e *DuplicatePathError) Unwrap() error {
	return ErrDuplicatePath
}

// ErrNameCollision is wrapped by NameCollisionError.
var ErrNameCollision = errors.New("derived name collision")

// NameCollisionError reports two distinct paths that derive the same link
// and mesh name, e.g. "A:1" and "A_1".
type NameCollisionError struct {
	Name  string
	Path  string
	Other string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("derived name %q of %s already used by %s", e.Name, e.Path, e.Other)
}

func (e *NameCollisionError) Unwrap() error {
	return ErrNameCollision
}

// Node is one entry of the flattened tree.
type Node struct {
	Path     string
	Name     string
	Handle   assembly.Node
	Parent   string // empty for the root
	Children []string

	// Local is the transform read from the host, unknown if unavailable.
	Local pose.Pose
	// Pose is the accumulated world pose.
	Pose pose.Pose
}

// IsRoot reports whether n is the top-level component.
func (n *Node) IsRoot() bool {
	return n.Path == RootPath
}

// Table holds flattened nodes in depth-first visiting order.
type Table struct {
	nodes map[string]*Node
	names map[string]string // derived name -> path
	order []string
}

func newTable() *Table {
	return &Table{
		nodes: make(map[string]*Node),
		names: make(map[string]string),
	}
}

func (t *Table) add(n *Node) error {
	if _, exists := t.nodes[n.Path]; exists {
		return &DuplicatePathError{Path: n.Path}
	}
	name := DerivedName(n.Path)
	if other, taken := t.names[name]; taken {
		return &NameCollisionError{Name: name, Path: n.Path, Other: other}
	}
	t.names[name] = n.Path
	t.nodes[n.Path] = n
	t.order = append(t.order, n.Path)
	return nil
}

// Lookup returns the node at path, or nil.
func (t *Table) Lookup(path string) *Node {
	return t.nodes[path]
}

// Root returns the top-level node.
func (t *Table) Root() *Node {
	return t.nodes[RootPath]
}

// Len returns the number of nodes including the root.
func (t *Table) Len() int {
	return len(t.order)
}

// Nodes returns all nodes in depth-first order.
func (t *Table) Nodes() []*Node {
	out := make([]*Node, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.nodes[p])
	}
	return out
}

// Flatten visits root and every occurrence below it, depth first.
// The root starts with an unknown pose, so its direct children take their
// local transforms as world poses.
func Flatten(root assembly.Node) (*Table, error) {
	t := newTable()
	rootNode := &Node{
		Path:   RootPath,
		Name:   root.Name(),
		Handle: root,
		Local:  pose.Unknown(),
		Pose:   pose.Unknown(),
	}
	if err := t.add(rootNode); err != nil {
		return nil, err
	}

	if err := t.visit(rootNode, root); err != nil {
		return nil, err
	}

	logger.Debug("flattened assembly", zap.Int("nodes", t.Len()))
	return t, nil
}

func (t *Table) visit(parent *Node, handle assembly.Node) error {
	for _, child := range handle.Children() {
		name := child.Name()
		node := &Node{
			Path:   parent.Path + Separator + Segment(name),
			Name:   name,
			Handle: child,
			Parent: parent.Path,
			Local:  localPose(child),
		}
		if err := t.add(node); err != nil {
			return err
		}
		node.Pose = parent.Pose.Compose(node.Local)
		parent.Children = append(parent.Children, node.Path)

		if err := t.visit(node, child); err != nil {
			return err
		}
	}
	return nil
}

// localPose reads the occurrence transform. Any read failure means the
// pose is unknown and the node inherits its parent's pose.
func localPose(o assembly.Occurrence) pose.Pose {
	m, err := o.LocalTransform()
	if err != nil {
		logger.Debug("transform unavailable, inheriting parent pose",
			zap.String("occurrence", o.Name()), zap.Error(err))
		return pose.Unknown()
	}
	return pose.FromMat4(m)
}

// Segment turns an occurrence name into a path segment.
func Segment(name string) string {
	return strings.ReplaceAll(name, Separator, "_")
}

// DerivedName is the link and mesh base name for a path: the segments below
// the root with ':' replaced, joined by "__". Root-owned geometry is named
// after the root segment. Flatten rejects trees where two paths derive the
// same name.
func DerivedName(path string) string {
	segs := strings.Split(path, Separator)
	if len(segs) > 1 {
		segs = segs[1:]
	}
	for i, s := range segs {
		segs[i] = strings.ReplaceAll(s, ":", "_")
	}
	return strings.Join(segs, "__")
}
