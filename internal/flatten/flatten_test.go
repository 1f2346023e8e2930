package flatten

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/cad2urdf/pkg/pose"
)

func TestFlattenPaths(t *testing.T) {
	root := occ("Robot", nil,
		occ("Base:1", mat(mgl64.Ident4()),
			occ("Wheel:1", mat(mgl64.Translate3D(5, 0, 0))),
			occ("Wheel:2", mat(mgl64.Translate3D(-5, 0, 0))),
		),
		occ("Arm:1", mat(mgl64.Ident4())),
	)

	table, err := Flatten(root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	want := []string{
		"root",
		"root/Base:1",
		"root/Base:1/Wheel:1",
		"root/Base:1/Wheel:2",
		"root/Arm:1",
	}
	nodes := table.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, n := range nodes {
		if n.Path != want[i] {
			t.Errorf("node %d: got %s, want %s", i, n.Path, want[i])
		}
	}

	base := table.Lookup("root/Base:1")
	if base.Parent != "root" {
		t.Errorf("base parent: got %q, want root", base.Parent)
	}
	if len(base.Children) != 2 || base.Children[0] != "root/Base:1/Wheel:1" {
		t.Errorf("base children: got %v", base.Children)
	}
	if !table.Root().IsRoot() || table.Root().Name != "Robot" {
		t.Errorf("unexpected root node %+v", table.Root())
	}
	if got := table.Root().Children; len(got) != 2 {
		t.Errorf("root children: got %v", got)
	}
}

func TestFlattenAccumulatesPose(t *testing.T) {
	a := mgl64.Translate3D(1, 0, 0).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))
	b := mgl64.Translate3D(1, 0, 0)

	root := occ("Robot", nil, occ("A:1", mat(a), occ("B:1", mat(b))))

	table, err := Flatten(root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	got := table.Lookup("root/A:1/B:1").Pose
	if !got.Known {
		t.Fatal("B pose should be known")
	}
	if !pose.VecNear(got.Translation, mgl64.Vec3{1, 1, 0}, 1e-9) {
		t.Errorf("B translation: got %v, want (1, 1, 0)", got.Translation)
	}
}

func TestFlattenMissingTransformInherits(t *testing.T) {
	parent := mgl64.Translate3D(3, 4, 5).Mul4(mgl64.HomogRotate3DX(0.3))

	root := occ("Robot", nil,
		occ("Frame:1", mat(parent),
			occ("Broken:1", nil,
				occ("Leaf:1", nil),
			),
		),
	)

	table, err := Flatten(root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	frame := table.Lookup("root/Frame:1")
	broken := table.Lookup("root/Frame:1/Broken:1")
	leaf := table.Lookup("root/Frame:1/Broken:1/Leaf:1")

	if broken.Local.Known {
		t.Error("broken occurrence should have an unknown local pose")
	}
	if broken.Pose != frame.Pose {
		t.Errorf("broken pose: got %+v, want parent %+v", broken.Pose, frame.Pose)
	}
	if leaf.Pose != frame.Pose {
		t.Errorf("leaf pose: got %+v, want ancestor %+v", leaf.Pose, frame.Pose)
	}
}

func TestFlattenUnknownAtTopAdoptsChild(t *testing.T) {
	child := mgl64.Translate3D(7, 0, 0)
	root := occ("Robot", nil, occ("Lost:1", nil, occ("Part:1", mat(child))))

	table, err := Flatten(root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if table.Lookup("root/Lost:1").Pose.Known {
		t.Error("pose under root with no transform should stay unknown")
	}
	got := table.Lookup("root/Lost:1/Part:1").Pose
	if !got.Known || !pose.VecNear(got.Translation, mgl64.Vec3{7, 0, 0}, 1e-12) {
		t.Errorf("part pose: got %+v, want local (7, 0, 0)", got)
	}
}

func TestFlattenDuplicatePath(t *testing.T) {
	root := occ("Robot", nil,
		occ("Plate:1", mat(mgl64.Ident4())),
		occ("Plate:1", mat(mgl64.Ident4())),
	)

	_, err := Flatten(root)
	if err == nil {
		t.Fatal("expected duplicate path error")
	}
	if !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("expected ErrDuplicatePath, got %v", err)
	}
	var dup *DuplicatePathError
	if !errors.As(err, &dup) || dup.Path != "root/Plate:1" {
		t.Errorf("expected DuplicatePathError for root/Plate:1, got %v", err)
	}
}

func TestSegmentEscapesSeparator(t *testing.T) {
	root := occ("Robot", nil,
		occ("a/b", mat(mgl64.Ident4())),
		occ("a_b", mat(mgl64.Ident4())),
	)

	_, err := Flatten(root)
	if !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("names colliding after escaping should be duplicates, got %v", err)
	}
}

func TestFlattenDerivedNameCollision(t *testing.T) {
	tests := []struct {
		name  string
		root  *fakeOcc
		path  string
		other string
		want  string
	}{
		{
			"colon and underscore",
			occ("Robot", nil,
				occ("A:1", mat(mgl64.Ident4())),
				occ("A_1", mat(mgl64.Ident4())),
			),
			"root/A_1", "root/A:1", "A_1",
		},
		{
			"double underscore in name",
			occ("Robot", nil,
				occ("A", mat(mgl64.Ident4()),
					occ("B", mat(mgl64.Ident4())),
				),
				occ("A__B", mat(mgl64.Ident4())),
			),
			"root/A__B", "root/A/B", "A__B",
		},
		{
			"child named like the root",
			occ("Robot", nil,
				occ("root", mat(mgl64.Ident4())),
			),
			"root/root", "root", "root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(tt.root)
			if !errors.Is(err, ErrNameCollision) {
				t.Fatalf("expected ErrNameCollision, got %v", err)
			}
			var nc *NameCollisionError
			if !errors.As(err, &nc) {
				t.Fatalf("expected NameCollisionError, got %T", err)
			}
			if nc.Path != tt.path || nc.Other != tt.other || nc.Name != tt.want {
				t.Errorf("collision: got %+v", nc)
			}
		})
	}
}

func TestDerivedName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"root/Base:1", "Base_1"},
		{"root/Base:1/Wheel:2", "Base_1__Wheel_2"},
		{"root/Arm v2:1/Link:3", "Arm v2_1__Link_3"},
		{"root", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DerivedName(tt.path); got != tt.want {
				t.Errorf("DerivedName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
