package skeleton

import "github.com/go-gl/mathgl/mgl32"

// LocalTransform returns the bone's bind-pose transform relative to its parent.
func (b *Bone) LocalTransform() mgl32.Mat4 {
	t := mgl32.Translate3D(b.Position[0], b.Position[1], b.Position[2])
	r := b.Orientation.Normalize().Mat4()
	s := mgl32.Scale3D(b.Scale[0], b.Scale[1], b.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// WorldTransforms computes the bind-pose world transform of each bone,
// indexed like Bones. Parents are resolved through the hierarchy, so the order
// of the bone and parent chunks in the file does not matter.
func (s *Skeleton) WorldTransforms() []mgl32.Mat4 {
	worlds := make([]mgl32.Mat4, len(s.Bones))
	index := make(map[*Bone]int, len(s.Bones))
	for i, b := range s.Bones {
		index[b] = i
	}

	var visit func(b *Bone, parent mgl32.Mat4)
	visit = func(b *Bone, parent mgl32.Mat4) {
		w := parent.Mul4(b.LocalTransform())
		worlds[index[b]] = w
		for _, c := range b.Children {
			visit(c, w)
		}
	}
	for _, root := range s.RootBones() {
		visit(root, mgl32.Ident4())
	}
	return worlds
}

// BindPositions returns the world position of each bone in the bind pose.
func (s *Skeleton) BindPositions() []mgl32.Vec3 {
	worlds := s.WorldTransforms()
	out := make([]mgl32.Vec3, len(worlds))
	for i, w := range worlds {
		out[i] = mgl32.TransformCoordinate(mgl32.Vec3{}, w)
	}
	return out
}
