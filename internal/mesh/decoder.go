package mesh

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ogre-mesh-renderer/internal/chunk"
	"ogre-mesh-renderer/internal/hwbuf"
)

// Decoder reads mesh files of one format version. A Decoder holds no per-file
// state, so one value may decode several streams concurrently as long as its
// buffer manager allows it.
type Decoder struct {
	version Version
	buffers hwbuf.Manager
	log     zerolog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithBufferManager sets where vertex and index buffers are allocated.
func WithBufferManager(m hwbuf.Manager) Option {
	return func(d *Decoder) { d.buffers = m }
}

// WithLogger sets the decoder's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

var defaultBuffers = hwbuf.NewMemoryManager()

// NewDecoder returns a decoder that accepts only files of version v.
func NewDecoder(v Version, opts ...Option) *Decoder {
	d := &Decoder{version: v, buffers: defaultBuffers, log: log.Logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) Version() Version {
	return d.version
}

// Decode reads a complete mesh from src, which must be seekable. On error no
// mesh is returned.
func (d *Decoder) Decode(src io.Reader) (*Mesh, error) {
	r, err := chunk.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	if err := r.ReadFileHeader(ChunkHeader, d.version.String()); err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	p := &parser{
		version: d.version,
		buffers: d.buffers,
		log:     d.log.With().Str("version", d.version.String()).Logger(),
		r:       r,
		m:       &Mesh{Version: d.version, EdgeLists: make(map[int]*EdgeData)},
	}
	if err := p.file(); err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	return p.m, nil
}

// Import reads the header version of src, rewinds and decodes the file with
// the matching Decoder.
func Import(src io.Reader, opts ...Option) (*Mesh, error) {
	r, err := chunk.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	start, err := r.Position()
	if err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	s, err := r.ReadFileVersion(ChunkHeader)
	if err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	v, err := ParseVersion(s)
	if err != nil {
		return nil, err
	}
	pos, err := r.Position()
	if err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	if err := r.Skip(start - pos); err != nil {
		return nil, errors.Wrap(err, "mesh")
	}
	return NewDecoder(v, opts...).Decode(src)
}

// Load reads and imports the mesh file at path.
func Load(path string, opts ...Option) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh: read %s", path)
	}
	m, err := Import(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh: %s", path)
	}
	return m, nil
}

// parser holds the state of one Decode call.
type parser struct {
	version Version
	buffers hwbuf.Manager
	log     zerolog.Logger
	r       *chunk.Reader
	m       *Mesh
}

func (p *parser) file() error {
	p.m.AutoBuildEdgeLists = false
	for {
		end, err := p.r.IsEndOfStream()
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		h, err := p.r.ReadHeader()
		if chunk.IsEndOfStream(err) {
			p.log.Debug().Msg("mesh: trailing bytes shorter than a chunk header")
			return nil
		}
		if err != nil {
			return err
		}
		switch h.ID {
		case ChunkMesh:
			if err := p.mesh(); err != nil {
				return err
			}
		default:
			// Only the payload of known chunks is consumed; the next header is
			// read from where this one ended.
			p.log.Debug().Stringer("chunk", h).Msg("mesh: ignoring top-level chunk")
		}
	}
}

func (p *parser) mesh() error {
	animated, err := p.r.ReadBool()
	if err != nil {
		return errors.Wrap(err, "skeletally animated flag")
	}
	p.m.SkeletallyAnimated = animated

	for {
		h, ok, err := p.r.NextIn(ChunkGeometry, ChunkSubMesh, ChunkMeshSkeletonLink,
			ChunkMeshBoneAssignment, ChunkMeshLOD, ChunkMeshBounds,
			ChunkSubMeshNameTable, ChunkEdgeLists)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		p.log.Debug().Stringer("chunk", h).Msg("mesh: chunk")
		switch h.ID {
		case ChunkGeometry:
			vd := newVertexData()
			if err := p.geometry(vd); err != nil {
				return errors.Wrap(err, "shared geometry")
			}
			p.m.SharedVertexData = vd
		case ChunkSubMesh:
			if err := p.subMesh(); err != nil {
				return errors.Wrapf(err, "submesh %d", len(p.m.SubMeshes))
			}
		case ChunkMeshSkeletonLink:
			name, err := p.r.ReadString()
			if err != nil {
				return errors.Wrap(err, "skeleton link")
			}
			p.m.SkeletonName = name
		case ChunkMeshBoneAssignment:
			ba, err := p.boneAssignment()
			if err != nil {
				return errors.Wrap(err, "mesh bone assignment")
			}
			p.m.BoneAssignments = append(p.m.BoneAssignments, ba)
		case ChunkMeshLOD:
			if err := p.lodInfo(); err != nil {
				return errors.Wrap(err, "lod")
			}
		case ChunkMeshBounds:
			if err := p.bounds(); err != nil {
				return errors.Wrap(err, "bounds")
			}
		case ChunkSubMeshNameTable:
			if err := p.nameTable(); err != nil {
				return errors.Wrap(err, "submesh name table")
			}
		case ChunkEdgeLists:
			if err := p.edgeLists(); err != nil {
				return errors.Wrap(err, "edge lists")
			}
		}
	}

	if p.version.autoBuildEdgeLists() {
		p.m.AutoBuildEdgeLists = true
	}
	return nil
}

func (p *parser) subMesh() error {
	sm := &SubMesh{Operation: OperationTriangleList}

	var err error
	if sm.MaterialName, err = p.r.ReadString(); err != nil {
		return errors.Wrap(err, "material name")
	}
	if sm.UseSharedVertices, err = p.r.ReadBool(); err != nil {
		return errors.Wrap(err, "shared vertices flag")
	}
	count, err := p.r.ReadUint32()
	if err != nil {
		return errors.Wrap(err, "index count")
	}
	is32, err := p.r.ReadBool()
	if err != nil {
		return errors.Wrap(err, "32-bit index flag")
	}
	id, err := p.indexData(int(count), is32)
	if err != nil {
		return errors.Wrap(err, "indices")
	}
	sm.IndexData = *id

	if !sm.UseSharedVertices {
		if _, err := p.r.Require(ChunkGeometry); err != nil {
			return errors.Wrap(err, "missing geometry data in mesh file")
		}
		sm.VertexData = newVertexData()
		if err := p.geometry(sm.VertexData); err != nil {
			return errors.Wrap(err, "geometry")
		}
	}

	for {
		h, ok, err := p.r.NextIn(ChunkSubMeshBoneAssignment, ChunkSubMeshOperation)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch h.ID {
		case ChunkSubMeshOperation:
			op, err := p.r.ReadUint16()
			if err != nil {
				return errors.Wrap(err, "operation")
			}
			sm.Operation = OperationType(op)
		case ChunkSubMeshBoneAssignment:
			ba, err := p.boneAssignment()
			if err != nil {
				return errors.Wrap(err, "bone assignment")
			}
			sm.BoneAssignments = append(sm.BoneAssignments, ba)
		}
	}

	p.m.SubMeshes = append(p.m.SubMeshes, sm)
	return nil
}

// indexData reads count indices of the given width into a new index buffer.
func (p *parser) indexData(count int, is32 bool) (*IndexData, error) {
	id := &IndexData{Count: count, Is32Bit: is32}
	if count == 0 {
		return id, nil
	}
	if is32 {
		idx, err := p.r.ReadUint32s(count)
		if err != nil {
			return nil, err
		}
		buf, err := p.buffers.Allocate(4, count, hwbuf.UsageIndex|hwbuf.StaticWriteOnly)
		if err != nil {
			return nil, err
		}
		err = hwbuf.Fill(buf, func(span []byte) error {
			hwbuf.PutUint32s(span, idx)
			return nil
		})
		id.Buffer = buf
		return id, err
	}
	idx, err := p.r.ReadUint16s(count)
	if err != nil {
		return nil, err
	}
	buf, err := p.buffers.Allocate(2, count, hwbuf.UsageIndex|hwbuf.StaticWriteOnly)
	if err != nil {
		return nil, err
	}
	err = hwbuf.Fill(buf, func(span []byte) error {
		hwbuf.PutUint16s(span, idx)
		return nil
	})
	id.Buffer = buf
	return id, err
}

func (p *parser) boneAssignment() (BoneAssignment, error) {
	var ba BoneAssignment
	var err error
	if ba.VertexIndex, err = p.r.ReadUint32(); err != nil {
		return ba, err
	}
	if ba.BoneIndex, err = p.r.ReadUint16(); err != nil {
		return ba, err
	}
	ba.Weight, err = p.r.ReadFloat32()
	return ba, err
}

func (p *parser) bounds() error {
	lo, err := p.r.ReadVector3()
	if err != nil {
		return err
	}
	hi, err := p.r.ReadVector3()
	if err != nil {
		return err
	}
	radius, err := p.r.ReadFloat32()
	if err != nil {
		return err
	}
	p.m.Bounds = AxisAlignedBox{Min: lo, Max: hi}
	p.m.BoundingRadius = radius
	return nil
}

func (p *parser) nameTable() error {
	for {
		_, ok, err := p.r.NextIn(ChunkSubMeshNameTableElem)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		index, err := p.r.ReadInt16()
		if err != nil {
			return err
		}
		name, err := p.r.ReadString()
		if err != nil {
			return err
		}
		if index < 0 || int(index) >= len(p.m.SubMeshes) {
			p.log.Warn().Int16("index", index).Str("name", name).
				Int("submeshes", len(p.m.SubMeshes)).Msg("mesh: name table entry out of range")
			continue
		}
		p.m.SubMeshes[index].Name = name
	}
}
