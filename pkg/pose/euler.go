package pose

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gimbalEpsilon is the cos(pitch) below which roll and yaw share an axis.
const gimbalEpsilon = 1e-9

// RPY extracts roll, pitch, yaw (radians) from a rotation matrix using the
// robot-description convention: rotate about fixed X by roll, then fixed Y
// by pitch, then fixed Z by yaw, i.e. R = Rz(yaw) * Ry(pitch) * Rx(roll).
//
// At gimbal lock yaw is pinned to zero and the remaining angle goes to roll.
func RPY(r mgl64.Mat3) (roll, pitch, yaw float64) {
	sp := -r.At(2, 0)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	pitch = math.Asin(sp)

	if math.Abs(math.Cos(pitch)) > gimbalEpsilon {
		roll = math.Atan2(r.At(2, 1), r.At(2, 2))
		yaw = math.Atan2(r.At(1, 0), r.At(0, 0))
		return unsign(roll), unsign(pitch), unsign(yaw)
	}

	roll = math.Atan2(-r.At(1, 2), r.At(1, 1))
	return unsign(roll), unsign(pitch), 0
}

// unsign turns negative zero into zero.
func unsign(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// FromRPY builds the rotation that RPY decomposes.
func FromRPY(roll, pitch, yaw float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(yaw).Mul3(mgl64.Rotate3DY(pitch)).Mul3(mgl64.Rotate3DX(roll))
}

// RPY returns the Euler angles of the pose rotation, or zeros when unknown.
func (p Pose) RPY() mgl64.Vec3 {
	if !p.Known {
		return mgl64.Vec3{}
	}
	r, pi, y := RPY(p.Rotation)
	return mgl64.Vec3{r, pi, y}
}

// Degrees converts an angle triple from degrees to radians.
func Degrees(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.DegToRad(v[0]),
		mgl64.DegToRad(v[1]),
		mgl64.DegToRad(v[2]),
	}
}
