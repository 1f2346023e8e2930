package formats

import (
	"errors"
	"fmt"

	"github.com/fogleman/simplify"
)

// ErrEmptyMesh is returned when an STL source has no triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// BoxMesh returns a closed box of the given size centered on the origin,
// with outward-facing counter-clockwise triangles.
func BoxMesh(size [3]float64) *simplify.Mesh {
	x, y, z := size[0]/2, size[1]/2, size[2]/2
	v := func(sx, sy, sz float64) simplify.Vector {
		return simplify.Vector{X: sx * x, Y: sy * y, Z: sz * z}
	}

	// Corners, bottom face first.
	c := [8]simplify.Vector{
		v(-1, -1, -1), v(1, -1, -1), v(1, 1, -1), v(-1, 1, -1),
		v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1),
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 3, 7, 6}, // +Y
		{1, 2, 6, 5}, // +X
		{3, 0, 4, 7}, // -X
	}

	triangles := make([]*simplify.Triangle, 0, 12)
	for _, q := range quads {
		triangles = append(triangles,
			simplify.NewTriangle(c[q[0]], c[q[1]], c[q[2]]),
			simplify.NewTriangle(c[q[0]], c[q[2]], c[q[3]]),
		)
	}
	return simplify.NewMesh(triangles)
}

// WriteBoxSTL writes a box mesh as binary STL.
func WriteBoxSTL(path string, size [3]float64) error {
	return BoxMesh(size).SaveBinarySTL(path)
}

// CopySTL reads a binary STL from src and writes it to dst.
func CopySTL(src, dst string) error {
	mesh, err := simplify.LoadBinarySTL(src)
	if err != nil {
		return fmt.Errorf("loading %s: %w", src, err)
	}
	if len(mesh.Triangles) == 0 {
		return fmt.Errorf("%s: %w", src, ErrEmptyMesh)
	}
	return mesh.SaveBinarySTL(dst)
}

// ReadSTL loads a binary STL file.
func ReadSTL(path string) (*simplify.Mesh, error) {
	return simplify.LoadBinarySTL(path)
}
