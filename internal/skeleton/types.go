package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Bone is one joint of a skeleton in its bind pose, relative to its parent.
type Bone struct {
	Name        string
	Handle      uint16
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3 // {1,1,1} unless the file stores one

	Parent   *Bone
	Children []*Bone
}

// KeyFrame is a bone transform at a point in time.
type KeyFrame struct {
	Time        float32
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
	HasScale    bool
}

// Track animates one bone.
type Track struct {
	BoneHandle uint16
	Bone       *Bone
	KeyFrames  []KeyFrame
}

// Animation is a named set of tracks.
type Animation struct {
	Name   string
	Length float32
	Tracks []*Track
}

// Track returns the track for a bone handle.
func (a *Animation) Track(handle uint16) (*Track, bool) {
	for _, t := range a.Tracks {
		if t.BoneHandle == handle {
			return t, true
		}
	}
	return nil, false
}

// Skeleton is a decoded skeleton file.
type Skeleton struct {
	Bones      []*Bone // in file order
	Animations []*Animation

	// Truncated is set when the file ended early and the bones read so far
	// are used in their bind pose.
	Truncated bool

	byHandle map[uint16]*Bone
}

func newSkeleton() *Skeleton {
	return &Skeleton{byHandle: make(map[uint16]*Bone)}
}

// Bone returns the bone with the given handle.
func (s *Skeleton) Bone(handle uint16) (*Bone, bool) {
	b, ok := s.byHandle[handle]
	return b, ok
}

// BoneByName returns the first bone named name.
func (s *Skeleton) BoneByName(name string) (*Bone, bool) {
	for _, b := range s.Bones {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// RootBones returns the bones without a parent, in file order.
func (s *Skeleton) RootBones() []*Bone {
	var roots []*Bone
	for _, b := range s.Bones {
		if b.Parent == nil {
			roots = append(roots, b)
		}
	}
	return roots
}

// Animation returns the animation named name.
func (s *Skeleton) Animation(name string) (*Animation, bool) {
	for _, a := range s.Animations {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}
