// Package pose provides rigid transforms for placing assembly nodes in world space.
package pose

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid transform: a rotation followed by a translation.
// The zero value is an unknown pose.
type Pose struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Mat3
	Known       bool
}

// Unknown returns a pose with no translation or rotation information.
func Unknown() Pose {
	return Pose{}
}

// Identity returns a known pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Rotation: mgl64.Ident3(), Known: true}
}

// New returns a known pose from a translation and rotation.
func New(t mgl64.Vec3, r mgl64.Mat3) Pose {
	return Pose{Translation: t, Rotation: r, Known: true}
}

// FromMat4 splits a homogeneous transform into translation and rotation.
// Any scale or shear in the upper 3x3 block is kept as-is.
func FromMat4(m mgl64.Mat4) Pose {
	return Pose{
		Translation: m.Col(3).Vec3(),
		Rotation:    m.Mat3(),
		Known:       true,
	}
}

// Compose returns the accumulated pose of a child whose local pose is c,
// placed under a parent whose accumulated pose is p.
//
//	translation = p.T + p.R * c.T
//	rotation    = c.R * p.R
//
// An unknown local pose inherits p unchanged. An unknown parent pose makes
// the local pose the new reference.
func (p Pose) Compose(c Pose) Pose {
	if !c.Known {
		return p
	}
	if !p.Known {
		return c
	}
	return Pose{
		Translation: p.Translation.Add(p.Rotation.Mul3x1(c.Translation)),
		Rotation:    c.Rotation.Mul3(p.Rotation),
		Known:       true,
	}
}

// Chain composes local poses left to right starting from an unknown pose.
func Chain(locals ...Pose) Pose {
	acc := Unknown()
	for _, l := range locals {
		acc = acc.Compose(l)
	}
	return acc
}

// Apply transforms a point by the pose. Unknown poses leave it untouched.
func (p Pose) Apply(v mgl64.Vec3) mgl64.Vec3 {
	if !p.Known {
		return v
	}
	return p.Translation.Add(p.Rotation.Mul3x1(v))
}

// Mat4 returns the pose as a homogeneous transform.
func (p Pose) Mat4() mgl64.Mat4 {
	if !p.Known {
		return mgl64.Ident4()
	}
	r, t := p.Rotation, p.Translation
	return mgl64.Mat4{
		r[0], r[1], r[2], 0,
		r[3], r[4], r[5], 0,
		r[6], r[7], r[8], 0,
		t[0], t[1], t[2], 1,
	}
}

// ApproxEqual reports whether two poses match within eps, compared per
// component by absolute difference.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	if p.Known != o.Known {
		return false
	}
	if !p.Known {
		return true
	}
	return VecNear(p.Translation, o.Translation, eps) &&
		MatNear(p.Rotation, o.Rotation, eps)
}

// VecNear reports whether every component of a and b differs by at most eps.
// Unlike mgl64's relative comparison it treats 1e-17 and 0 as equal.
func VecNear(a, b mgl64.Vec3, eps float64) bool {
	return within(a[:], b[:], eps)
}

// MatNear is VecNear for rotation matrices.
func MatNear(a, b mgl64.Mat3, eps float64) bool {
	return within(a[:], b[:], eps)
}

func within(a, b []float64, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
