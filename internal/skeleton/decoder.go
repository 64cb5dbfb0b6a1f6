package skeleton

import (
	"bytes"
	"io"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ogre-mesh-renderer/internal/chunk"
)

// Version is the only skeleton header this package reads.
const Version = "[Serializer_v1.10]"

const (
	ChunkHeader         = 0x1000
	ChunkBone           = 0x2000
	ChunkBoneParent     = 0x3000
	ChunkAnimation      = 0x4000
	ChunkAnimationTrack = 0x4100
	ChunkKeyFrame       = 0x4110
)

// keyFrameScaledLength is the length of a keyframe chunk that carries a scale:
// header, time, rotation, translation and scale.
const keyFrameScaledLength = chunk.HeaderSize + 4 + 16 + 12 + 12

// Decoder reads skeleton files.
type Decoder struct {
	log zerolog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the decoder's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{log: log.Logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads a skeleton from src, which must be seekable.
//
// A stream that ends early after the header is not an error: the bones and
// animations read so far are returned with Truncated set. An unknown chunk at
// the top level ends the decode.
func (d *Decoder) Decode(src io.Reader) (*Skeleton, error) {
	r, err := chunk.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "skeleton")
	}
	if err := r.ReadFileHeader(ChunkHeader, Version); err != nil {
		return nil, errors.Wrap(err, "skeleton")
	}
	p := &parser{r: r, s: newSkeleton(), log: d.log}
	if err := p.file(); err != nil {
		if !chunk.IsEndOfStream(err) {
			return nil, errors.Wrap(err, "skeleton")
		}
		p.log.Warn().Err(err).Int("bones", len(p.s.Bones)).
			Msg("skeleton: stream ended early, using bind pose")
		p.s.Truncated = true
	}
	return p.s, nil
}

// Load reads and decodes the skeleton file at path.
func Load(path string, opts ...Option) (*Skeleton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "skeleton: read %s", path)
	}
	s, err := NewDecoder(opts...).Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "skeleton: %s", path)
	}
	return s, nil
}

type parser struct {
	r   *chunk.Reader
	s   *Skeleton
	log zerolog.Logger
}

func (p *parser) file() error {
	for {
		end, err := p.r.IsEndOfStream()
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		h, err := p.r.ReadHeader()
		if err != nil {
			return err
		}
		switch h.ID {
		case ChunkBone:
			if err := p.bone(h); err != nil {
				return errors.Wrapf(err, "bone %d", len(p.s.Bones))
			}
		case ChunkBoneParent:
			if err := p.boneParent(); err != nil {
				return errors.Wrap(err, "bone parent")
			}
		case ChunkAnimation:
			if err := p.animation(); err != nil {
				return errors.Wrapf(err, "animation %d", len(p.s.Animations))
			}
		default:
			p.log.Warn().Stringer("chunk", h).Msg("skeleton: unknown chunk, stopping")
			return nil
		}
	}
}

func (p *parser) bone(h chunk.Header) error {
	name, err := p.r.ReadString()
	if err != nil {
		return errors.Wrap(err, "name")
	}
	handle, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrapf(err, "%q handle", name)
	}
	if _, dup := p.s.byHandle[handle]; dup {
		return errors.Wrapf(chunk.ErrCorrupt, "%q reuses handle %d", name, handle)
	}
	b := &Bone{Name: name, Handle: handle, Scale: mgl32.Vec3{1, 1, 1}}
	if b.Position, err = p.r.ReadVector3(); err != nil {
		return errors.Wrapf(err, "%q position", name)
	}
	if b.Orientation, err = p.r.ReadQuaternion(); err != nil {
		return errors.Wrapf(err, "%q orientation", name)
	}
	// A longer chunk carries a scale after the orientation.
	unscaled := uint32(chunk.HeaderSize + len(name) + 1 + 2 + 12 + 16)
	if h.Length > unscaled {
		if b.Scale, err = p.r.ReadVector3(); err != nil {
			return errors.Wrapf(err, "%q scale", name)
		}
	}
	p.s.Bones = append(p.s.Bones, b)
	p.s.byHandle[handle] = b
	p.log.Debug().Str("bone", name).Uint16("handle", handle).Msg("skeleton: bone")
	return nil
}

func (p *parser) boneParent() error {
	child, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "child handle")
	}
	parent, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "parent handle")
	}
	c, ok := p.s.byHandle[child]
	if !ok {
		return errors.Wrapf(chunk.ErrCorrupt, "unknown child handle %d", child)
	}
	pb, ok := p.s.byHandle[parent]
	if !ok {
		return errors.Wrapf(chunk.ErrCorrupt, "unknown parent handle %d", parent)
	}
	if old := c.Parent; old != nil {
		old.Children = slices.DeleteFunc(old.Children, func(b *Bone) bool { return b == c })
	}
	c.Parent = pb
	pb.Children = append(pb.Children, c)
	return nil
}

func (p *parser) animation() error {
	name, err := p.r.ReadString()
	if err != nil {
		return errors.Wrap(err, "name")
	}
	length, err := p.r.ReadFloat32()
	if err != nil {
		return errors.Wrapf(err, "%q length", name)
	}
	a := &Animation{Name: name, Length: length}
	// Added before the tracks so a truncated animation keeps what was read.
	p.s.Animations = append(p.s.Animations, a)

	for {
		_, ok, err := p.r.NextIn(ChunkAnimationTrack)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := p.track(a); err != nil {
			return errors.Wrapf(err, "%q track %d", name, len(a.Tracks))
		}
	}
}

func (p *parser) track(a *Animation) error {
	handle, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "bone handle")
	}
	b, ok := p.s.byHandle[handle]
	if !ok {
		return errors.Wrapf(chunk.ErrCorrupt, "unknown bone handle %d", handle)
	}
	t := &Track{BoneHandle: handle, Bone: b}
	a.Tracks = append(a.Tracks, t)

	for {
		_, ok, err := p.r.NextIn(ChunkKeyFrame)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		kf, err := p.keyFrame()
		if err != nil {
			return errors.Wrapf(err, "keyframe %d", len(t.KeyFrames))
		}
		t.KeyFrames = append(t.KeyFrames, kf)
	}
}

func (p *parser) keyFrame() (KeyFrame, error) {
	kf := KeyFrame{Scale: mgl32.Vec3{1, 1, 1}}
	var err error
	if kf.Time, err = p.r.ReadFloat32(); err != nil {
		return kf, err
	}
	if kf.Rotation, err = p.r.ReadQuaternion(); err != nil {
		return kf, err
	}
	if kf.Translation, err = p.r.ReadVector3(); err != nil {
		return kf, err
	}
	if p.r.CurrentLength() == keyFrameScaledLength {
		if kf.Scale, err = p.r.ReadVector3(); err != nil {
			return kf, err
		}
		kf.HasScale = true
	}
	return kf, nil
}
