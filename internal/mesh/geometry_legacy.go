package mesh

import (
	"github.com/pkg/errors"

	"ogre-mesh-renderer/internal/chunk"
	"ogre-mesh-renderer/internal/hwbuf"
)

// legacyGeometry decodes the fixed stream layout of the 1.20 and 1.10 formats:
// positions inline, then optional normal, colour and texcoord chunks in any
// order. Each stream gets the next bind index.
func (p *parser) legacyGeometry(vd *VertexData) error {
	var bind uint16
	if err := p.floatStream(vd, bind, 3, SemanticPosition, 0); err != nil {
		return errors.Wrap(err, "positions")
	}
	bind++

	var texSet uint16
	for {
		h, ok, err := p.r.NextIn(ChunkGeometryNormals, ChunkGeometryColours, ChunkGeometryTexCoords)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch h.ID {
		case ChunkGeometryNormals:
			if err := p.floatStream(vd, bind, 3, SemanticNormal, 0); err != nil {
				return errors.Wrap(err, "normals")
			}
		case ChunkGeometryColours:
			if err := p.colourStream(vd, bind); err != nil {
				return errors.Wrap(err, "colours")
			}
		case ChunkGeometryTexCoords:
			if err := p.texCoordStream(vd, bind, texSet); err != nil {
				return errors.Wrapf(err, "texcoord set %d", texSet)
			}
			texSet++
		}
		bind++
	}
}

// floatStream reads dim floats per vertex into a buffer bound at bind.
func (p *parser) floatStream(vd *VertexData, bind uint16, dim int, sem Semantic, index uint16) error {
	vals, err := p.r.ReadFloat32s(vd.Count * dim)
	if err != nil {
		return err
	}
	return p.bindFloats(vd, bind, dim, sem, index, vals)
}

func (p *parser) bindFloats(vd *VertexData, bind uint16, dim int, sem Semantic, index uint16, vals []float32) error {
	typ, ok := FloatType(dim)
	if !ok {
		return errors.Wrapf(chunk.ErrCorrupt, "%d float components", dim)
	}
	vd.Declaration.Add(VertexElement{Source: bind, Type: typ, Semantic: sem, Index: index})
	buf, err := p.buffers.Allocate(typ.Size(), vd.Count, hwbuf.UsageVertex|hwbuf.StaticWriteOnly)
	if err != nil {
		return err
	}
	if err := hwbuf.Fill(buf, func(span []byte) error {
		hwbuf.PutFloat32s(span, vals)
		return nil
	}); err != nil {
		return err
	}
	vd.Bindings[bind] = buf
	return nil
}

func (p *parser) colourStream(vd *VertexData, bind uint16) error {
	vals, err := p.r.ReadUint32s(vd.Count)
	if err != nil {
		return err
	}
	vd.Declaration.Add(VertexElement{Source: bind, Type: TypeColour, Semantic: SemanticDiffuse})
	buf, err := p.buffers.Allocate(TypeColour.Size(), vd.Count, hwbuf.UsageVertex|hwbuf.StaticWriteOnly)
	if err != nil {
		return err
	}
	if err := hwbuf.Fill(buf, func(span []byte) error {
		hwbuf.PutUint32s(span, vals)
		return nil
	}); err != nil {
		return err
	}
	vd.Bindings[bind] = buf
	return nil
}

func (p *parser) texCoordStream(vd *VertexData, bind, set uint16) error {
	dim, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "dimensions")
	}
	if _, ok := FloatType(int(dim)); !ok {
		return errors.Wrapf(chunk.ErrCorrupt, "%d texture coordinate dimensions", dim)
	}
	vals, err := p.r.ReadFloat32s(vd.Count * int(dim))
	if err != nil {
		return err
	}
	if p.version.flipTexCoordV() && dim == 2 {
		flipV(vals)
	}
	return p.bindFloats(vd, bind, int(dim), SemanticTexCoords, set, vals)
}

// flipV rewrites interleaved (u, v) pairs as (u, 1-v).
func flipV(uv []float32) {
	for i := 1; i < len(uv); i += 2 {
		uv[i] = 1 - uv[i]
	}
}
