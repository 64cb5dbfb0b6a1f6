package skeleton

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"ogre-mesh-renderer/internal/chunk"
	"ogre-mesh-renderer/internal/chunk/chunktest"
)

var quiet = WithLogger(zerolog.Nop())

func skeletonFile(body func(*chunktest.Builder)) *chunktest.Builder {
	b := chunktest.New().FileHeader(ChunkHeader, Version)
	if body != nil {
		body(b)
	}
	return b
}

// bone writes a bone with identity orientation.
func bone(b *chunktest.Builder, name string, handle uint16, pos mgl32.Vec3) {
	boneRotated(b, name, handle, pos, mgl32.QuatIdent())
}

func boneRotated(b *chunktest.Builder, name string, handle uint16, pos mgl32.Vec3, q mgl32.Quat) {
	b.Chunk(ChunkBone, func(c *chunktest.Builder) {
		c.String(name).Uint16(handle).Float32s(pos[:]...)
		c.Float32s(q.V[0], q.V[1], q.V[2], q.W)
	})
}

func parent(b *chunktest.Builder, child, parent uint16) {
	b.Chunk(ChunkBoneParent, func(c *chunktest.Builder) { c.Uint16s(child, parent) })
}

func keyFrame(b *chunktest.Builder, time float32, scale *mgl32.Vec3) {
	b.Chunk(ChunkKeyFrame, func(k *chunktest.Builder) {
		k.Float32(time).Float32s(0, 0, 0, 1).Float32s(time, 0, 0)
		if scale != nil {
			k.Float32s(scale[:]...)
		}
	})
}

func decode(t *testing.T, b *chunktest.Builder) *Skeleton {
	t.Helper()
	s, err := NewDecoder(quiet).Decode(b.Reader())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return s
}

func TestBonesAndParents(t *testing.T) {
	s := decode(t, skeletonFile(func(b *chunktest.Builder) {
		bone(b, "root", 0, mgl32.Vec3{})
		bone(b, "spine", 1, mgl32.Vec3{0, 1, 0})
		bone(b, "head", 2, mgl32.Vec3{0, 1, 0})
		bone(b, "arm", 3, mgl32.Vec3{1, 0, 0})
		// Parent chunks in no particular order.
		parent(b, 2, 1)
		parent(b, 3, 1)
		parent(b, 1, 0)
	}))
	if s.Truncated {
		t.Error("complete file reported truncated")
	}
	if len(s.Bones) != 4 {
		t.Fatalf("bones = %d", len(s.Bones))
	}
	spine, ok := s.Bone(1)
	if !ok || spine.Name != "spine" {
		t.Fatalf("Bone(1) = %+v", spine)
	}
	if spine.Parent == nil || spine.Parent.Name != "root" {
		t.Errorf("spine parent = %+v", spine.Parent)
	}
	if len(spine.Children) != 2 {
		t.Errorf("spine children = %d", len(spine.Children))
	}
	if roots := s.RootBones(); len(roots) != 1 || roots[0].Handle != 0 {
		t.Errorf("roots = %+v", roots)
	}
	if head, _ := s.BoneByName("head"); head == nil || head.Parent != spine {
		t.Error("head not attached to spine")
	}
	if spine.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("default scale = %v", spine.Scale)
	}
}

func TestBoneScale(t *testing.T) {
	s := decode(t, skeletonFile(func(b *chunktest.Builder) {
		b.Chunk(ChunkBone, func(c *chunktest.Builder) {
			c.String("scaled").Uint16(7).Float32s(1, 2, 3).Float32s(0, 0, 0, 1).Float32s(2, 2, 2)
		})
	}))
	b, ok := s.Bone(7)
	if !ok {
		t.Fatal("bone 7 missing")
	}
	if b.Position != (mgl32.Vec3{1, 2, 3}) || b.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("bone = %+v", b)
	}
}

func TestKeyFrameScaleFollowsChunkLength(t *testing.T) {
	scale := mgl32.Vec3{1, 2, 3}
	s := decode(t, skeletonFile(func(b *chunktest.Builder) {
		bone(b, "root", 0, mgl32.Vec3{})
		b.Chunk(ChunkAnimation, func(a *chunktest.Builder) {
			a.String("walk").Float32(2)
			a.Chunk(ChunkAnimationTrack, func(tr *chunktest.Builder) {
				tr.Uint16(0)
				keyFrame(tr, 0, nil)
				keyFrame(tr, 1, &scale)
				keyFrame(tr, 2, nil)
			})
		})
	}))
	anim, ok := s.Animation("walk")
	if !ok || anim.Length != 2 {
		t.Fatalf("animation = %+v", anim)
	}
	track, ok := anim.Track(0)
	if !ok || track.Bone == nil || track.Bone.Name != "root" {
		t.Fatalf("track = %+v", track)
	}
	if len(track.KeyFrames) != 3 {
		t.Fatalf("keyframes = %d", len(track.KeyFrames))
	}
	for i, kf := range track.KeyFrames {
		if kf.Time != float32(i) || kf.Translation[0] != float32(i) {
			t.Errorf("keyframe %d = %+v", i, kf)
		}
		if kf.HasScale != (i == 1) {
			t.Errorf("keyframe %d HasScale = %v", i, kf.HasScale)
		}
	}
	if track.KeyFrames[1].Scale != scale || track.KeyFrames[0].Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("scales = %v, %v", track.KeyFrames[0].Scale, track.KeyFrames[1].Scale)
	}
	if track.KeyFrames[0].Rotation != mgl32.QuatIdent() {
		t.Errorf("rotation = %v", track.KeyFrames[0].Rotation)
	}
}

func TestTruncatedStreamKeepsBindPose(t *testing.T) {
	full := skeletonFile(func(b *chunktest.Builder) {
		bone(b, "root", 0, mgl32.Vec3{})
		bone(b, "tip", 1, mgl32.Vec3{0, 1, 0})
		parent(b, 1, 0)
		b.Chunk(ChunkAnimation, func(a *chunktest.Builder) {
			a.String("idle").Float32(1)
			a.Chunk(ChunkAnimationTrack, func(tr *chunktest.Builder) {
				tr.Uint16(1)
				keyFrame(tr, 0, nil)
				keyFrame(tr, 1, nil)
			})
		})
	}).Bytes()

	tests := []struct {
		name  string
		cut   int
		bones int
	}{
		{"mid keyframe", len(full) - 5, 2},
		{"inside keyframe header", len(full) - 35, 2},
		{"mid bone", 80, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewDecoder(quiet).Decode(bytes.NewReader(full[:tt.cut]))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !s.Truncated {
				t.Error("Truncated not set")
			}
			if len(s.Bones) != tt.bones {
				t.Errorf("bones = %d, want %d", len(s.Bones), tt.bones)
			}
		})
	}
}

func TestUnknownTopLevelChunkStops(t *testing.T) {
	s := decode(t, skeletonFile(func(b *chunktest.Builder) {
		bone(b, "root", 0, mgl32.Vec3{})
		b.Chunk(0x5000, func(c *chunktest.Builder) { c.Uint32(0) })
		bone(b, "after", 1, mgl32.Vec3{})
	}))
	if len(s.Bones) != 1 || s.Truncated {
		t.Errorf("bones = %d truncated = %v", len(s.Bones), s.Truncated)
	}
}

func TestStructuralFaults(t *testing.T) {
	tests := []struct {
		name string
		file []byte
		want error
	}{
		{
			name: "version mismatch",
			file: chunktest.New().FileHeader(ChunkHeader, "[Serializer_v1.00]").Bytes(),
			want: chunk.ErrVersionMismatch,
		},
		{
			name: "wrong header id",
			file: chunktest.New().FileHeader(0x2000, Version).Bytes(),
			want: chunk.ErrInvalidHeader,
		},
		{
			name: "truncated header",
			file: chunktest.New().Uint16(ChunkHeader).Raw('[', 'S').Bytes(),
			want: chunk.ErrEndOfStream,
		},
		{
			name: "duplicate handle",
			file: skeletonFile(func(b *chunktest.Builder) {
				bone(b, "a", 3, mgl32.Vec3{})
				bone(b, "b", 3, mgl32.Vec3{})
			}).Bytes(),
			want: chunk.ErrCorrupt,
		},
		{
			name: "unknown parent",
			file: skeletonFile(func(b *chunktest.Builder) {
				bone(b, "a", 0, mgl32.Vec3{})
				parent(b, 0, 9)
			}).Bytes(),
			want: chunk.ErrCorrupt,
		},
		{
			name: "track for unknown bone",
			file: skeletonFile(func(b *chunktest.Builder) {
				bone(b, "a", 0, mgl32.Vec3{})
				b.Chunk(ChunkAnimation, func(a *chunktest.Builder) {
					a.String("x").Float32(1)
					a.Chunk(ChunkAnimationTrack, func(tr *chunktest.Builder) { tr.Uint16(4) })
				})
			}).Bytes(),
			want: chunk.ErrCorrupt,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewDecoder(quiet).Decode(bytes.NewReader(tt.file))
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Error("partial skeleton returned with error")
			}
		})
	}
}

func TestReparentMovesChild(t *testing.T) {
	s := decode(t, skeletonFile(func(b *chunktest.Builder) {
		bone(b, "a", 0, mgl32.Vec3{})
		bone(b, "b", 1, mgl32.Vec3{})
		bone(b, "c", 2, mgl32.Vec3{})
		parent(b, 2, 0)
		parent(b, 2, 1)
	}))
	a, _ := s.Bone(0)
	b, _ := s.Bone(1)
	if len(a.Children) != 0 || len(b.Children) != 1 {
		t.Errorf("children a=%d b=%d", len(a.Children), len(b.Children))
	}
}
