package viewmatrix

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// within compares with an absolute tolerance; mgl32's relative threshold
// rejects float noise around zero.
func within(eps float32) func(a, b float32) bool {
	return func(a, b float32) bool { return math32.Abs(a-b) < eps }
}

func TestZeroCameraIsIdentity(t *testing.T) {
	if m := (Camera{}).Matrix(); !m.ApproxFuncEqual(mgl32.Ident3(), within(1e-6)) {
		t.Errorf("matrix = %v", m)
	}
}

func TestYawTurnsAroundVertical(t *testing.T) {
	got := Camera{Yaw: 90}.ViewSpace([][3]float32{{1, 0, 0}, {0, 1, 0}})
	if !got[0].ApproxFuncEqual(mgl32.Vec3{0, 0, -1}, within(1e-6)) {
		t.Errorf("x axis -> %v", got[0])
	}
	if !got[1].ApproxFuncEqual(mgl32.Vec3{0, 1, 0}, within(1e-6)) {
		t.Errorf("y axis -> %v", got[1])
	}
}

func TestFitAndProject(t *testing.T) {
	cam := Camera{}
	pts := cam.ViewSpace([][3]float32{{-1, -1, 0}, {1, 1, 0}, {0, 0, 2}})
	f := cam.Fit(pts, 100, 10)
	if f.Scale != 40 {
		t.Fatalf("scale = %v, want 40", f.Scale)
	}
	got := f.Project(pts)
	want := []mgl32.Vec3{{10, 90, 0}, {90, 10, 0}, {50, 50, 2}}
	for i := range want {
		if !got[i].ApproxFuncEqual(want[i], within(1e-4)) {
			t.Errorf("point %d -> %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPerspectiveShrinksFarPoints(t *testing.T) {
	cam := Camera{Perspective: true}
	pts := []mgl32.Vec3{{1, 0, 1}, {1, 0, -1}, {-1, 0, 0}}
	f := cam.Fit(pts, 100, 0)
	if f.CamDist <= 0 {
		t.Fatalf("CamDist = %v", f.CamDist)
	}
	got := f.Project(pts)
	near, far := got[0][0]-50, got[1][0]-50
	if !(near > far && far > 0) {
		t.Errorf("near offset %v, far offset %v", near, far)
	}
}
