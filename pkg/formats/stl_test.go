package formats

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/simplify"
)

func TestBoxMesh(t *testing.T) {
	mesh := BoxMesh([3]float64{2, 4, 6})

	if len(mesh.Triangles) != 12 {
		t.Fatalf("expected 12 triangles, got %d", len(mesh.Triangles))
	}

	// Signed volume of a closed outward-wound mesh equals its volume.
	var volume float64
	for _, tri := range mesh.Triangles {
		a, b, c := tri.V1, tri.V2, tri.V3
		volume += (a.X*(b.Y*c.Z-b.Z*c.Y) - a.Y*(b.X*c.Z-b.Z*c.X) + a.Z*(b.X*c.Y-b.Y*c.X)) / 6
	}
	if math.Abs(volume-48) > 1e-9 {
		t.Errorf("box volume: got %f, want 48", volume)
	}
}

func TestWriteBoxAndCopySTL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "box.stl")
	dst := filepath.Join(dir, "copy.stl")

	if err := WriteBoxSTL(src, [3]float64{10, 10, 10}); err != nil {
		t.Fatalf("WriteBoxSTL failed: %v", err)
	}
	if err := CopySTL(src, dst); err != nil {
		t.Fatalf("CopySTL failed: %v", err)
	}

	mesh, err := ReadSTL(dst)
	if err != nil {
		t.Fatalf("ReadSTL failed: %v", err)
	}
	if len(mesh.Triangles) != 12 {
		t.Errorf("expected 12 triangles after copy, got %d", len(mesh.Triangles))
	}

	// Binary STL: 80-byte header, count, 50 bytes per triangle
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 84+12*50 {
		t.Errorf("unexpected STL size %d", info.Size())
	}
}

func TestCopySTLErrors(t *testing.T) {
	dir := t.TempDir()

	if err := CopySTL(filepath.Join(dir, "missing.stl"), filepath.Join(dir, "out.stl")); err == nil {
		t.Error("expected error for missing source")
	}

	empty := filepath.Join(dir, "empty.stl")
	if err := simplify.NewMesh(nil).SaveBinarySTL(empty); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	err := CopySTL(empty, filepath.Join(dir, "out.stl"))
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}
