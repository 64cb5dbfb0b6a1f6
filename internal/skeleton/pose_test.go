package skeleton

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"ogre-mesh-renderer/internal/chunk/chunktest"
)

func TestWorldTransforms(t *testing.T) {
	quarterZ := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	s := decode(t, skeletonFile(func(b *chunktest.Builder) {
		// The child is declared first and parented last.
		bone(b, "child", 5, mgl32.Vec3{0, 2, 0})
		boneRotated(b, "root", 1, mgl32.Vec3{1, 0, 0}, quarterZ)
		bone(b, "loose", 9, mgl32.Vec3{3, 3, 3})
		parent(b, 5, 1)
	}))

	got := s.BindPositions()
	want := []mgl32.Vec3{{-1, 0, 0}, {1, 0, 0}, {3, 3, 3}}
	if len(got) != len(want) {
		t.Fatalf("positions = %v", got)
	}
	near := func(a, b float32) bool { return math32.Abs(a-b) < 1e-5 }
	for i := range want {
		if !got[i].ApproxFuncEqual(want[i], near) {
			t.Errorf("bone %d at %v, want %v", i, got[i], want[i])
		}
	}
}
