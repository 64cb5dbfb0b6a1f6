package mesh

import (
	"github.com/pkg/errors"

	"ogre-mesh-renderer/internal/chunk"
	"ogre-mesh-renderer/internal/hwbuf"
)

// geometry decodes a vertex block with the strategy of the file version.
func (p *parser) geometry(vd *VertexData) error {
	count, err := p.r.ReadUint32()
	if err != nil {
		return errors.Wrap(err, "vertex count")
	}
	vd.Start = 0
	vd.Count = int(count)
	if p.version.declarativeGeometry() {
		return p.declaredGeometry(vd)
	}
	return p.legacyGeometry(vd)
}

func (p *parser) declaredGeometry(vd *VertexData) error {
	for {
		h, ok, err := p.r.NextIn(ChunkGeometryVertexDecl, ChunkGeometryVertexBuffer)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch h.ID {
		case ChunkGeometryVertexDecl:
			if err := p.vertexDeclaration(vd); err != nil {
				return errors.Wrap(err, "vertex declaration")
			}
		case ChunkGeometryVertexBuffer:
			if err := p.vertexBuffer(vd); err != nil {
				return errors.Wrap(err, "vertex buffer")
			}
		}
	}
}

func (p *parser) vertexDeclaration(vd *VertexData) error {
	for {
		_, ok, err := p.r.NextIn(ChunkGeometryVertexElement)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		var f [5]uint16
		for i := range f {
			if f[i], err = p.r.ReadUint16(); err != nil {
				return errors.Wrapf(err, "vertex element %d", len(vd.Declaration.Elements))
			}
		}
		vd.Declaration.Add(VertexElement{
			Source:   f[0],
			Type:     ElementType(f[1]),
			Semantic: Semantic(f[2]),
			Offset:   f[3],
			Index:    f[4],
		})
	}
}

func (p *parser) vertexBuffer(vd *VertexData) error {
	bind, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "bind index")
	}
	vertexSize, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "vertex size")
	}
	if _, err := p.r.Require(ChunkGeometryVertexBufData); err != nil {
		return errors.Wrap(err, "can't find vertex buffer data area")
	}
	if declared := vd.Declaration.VertexSize(bind); declared != int(vertexSize) {
		return errors.Wrapf(chunk.ErrSizeMismatch,
			"buffer %d: vertex size %d, declaration says %d", bind, vertexSize, declared)
	}
	if vertexSize == 0 {
		return errors.Wrapf(chunk.ErrCorrupt, "buffer %d: zero vertex size", bind)
	}
	raw, err := p.r.ReadBytes(vd.Count * int(vertexSize))
	if err != nil {
		return errors.Wrap(err, "vertex data")
	}
	buf, err := p.buffers.Allocate(int(vertexSize), vd.Count, hwbuf.UsageVertex|hwbuf.StaticWriteOnly)
	if err != nil {
		return err
	}
	if err := hwbuf.Fill(buf, func(span []byte) error {
		copy(span, raw)
		return nil
	}); err != nil {
		return err
	}
	vd.Bindings[bind] = buf
	return nil
}
