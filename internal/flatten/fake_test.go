package flatten

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/cad2urdf/pkg/assembly"
)

type fakeOcc struct {
	name     string
	xform    *mgl64.Mat4
	children []assembly.Occurrence
	bodies   []assembly.Body
}

func (o *fakeOcc) Name() string                    { return o.name }
func (o *fakeOcc) Children() []assembly.Occurrence { return o.children }
func (o *fakeOcc) Bodies() []assembly.Body         { return o.bodies }
func (o *fakeOcc) LocalTransform() (mgl64.Mat4, error) {
	if o.xform == nil {
		return mgl64.Mat4{}, assembly.ErrTransformUnavailable
	}
	return *o.xform, nil
}

func occ(name string, xform *mgl64.Mat4, children ...*fakeOcc) *fakeOcc {
	o := &fakeOcc{name: name, xform: xform}
	for _, c := range children {
		o.children = append(o.children, c)
	}
	return o
}

func mat(m mgl64.Mat4) *mgl64.Mat4 {
	return &m
}
