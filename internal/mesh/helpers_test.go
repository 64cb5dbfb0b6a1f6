package mesh

import (
	"testing"

	"github.com/rs/zerolog"

	"ogre-mesh-renderer/internal/chunk/chunktest"
	"ogre-mesh-renderer/internal/hwbuf"
)

var quiet = []Option{
	WithLogger(zerolog.Nop()),
	WithBufferManager(hwbuf.NewMemoryManager(hwbuf.WithLogger(zerolog.Nop()))),
}

var triangle = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}}

// meshFile writes a file header and one mesh chunk whose body follows the
// skeletally animated flag.
func meshFile(v Version, body func(*chunktest.Builder)) *chunktest.Builder {
	return chunktest.New().
		FileHeader(ChunkHeader, v.String()).
		Chunk(ChunkMesh, func(b *chunktest.Builder) {
			b.Bool(false)
			if body != nil {
				body(b)
			}
		})
}

func element(b *chunktest.Builder, source uint16, typ ElementType, sem Semantic, offset, index uint16) {
	b.Chunk(ChunkGeometryVertexElement, func(e *chunktest.Builder) {
		e.Uint16s(source, uint16(typ), uint16(sem), offset, index)
	})
}

// declaredGeometry writes a 1.30 geometry chunk holding positions in buffer 0.
func declaredGeometry(b *chunktest.Builder, verts [][3]float32) {
	b.Chunk(ChunkGeometry, func(g *chunktest.Builder) {
		g.Uint32(uint32(len(verts)))
		g.Chunk(ChunkGeometryVertexDecl, func(d *chunktest.Builder) {
			element(d, 0, TypeFloat3, SemanticPosition, 0, 0)
		})
		g.Chunk(ChunkGeometryVertexBuffer, func(vb *chunktest.Builder) {
			vb.Uint16(0).Uint16(12)
			vb.Chunk(ChunkGeometryVertexBufData, func(data *chunktest.Builder) {
				for _, v := range verts {
					data.Float32s(v[:]...)
				}
			})
		})
	})
}

// legacyGeometry writes a 1.20/1.10 geometry chunk: inline positions followed
// by whatever streams extra writes.
func legacyGeometry(b *chunktest.Builder, verts [][3]float32, extra func(*chunktest.Builder)) {
	b.Chunk(ChunkGeometry, func(g *chunktest.Builder) {
		g.Uint32(uint32(len(verts)))
		for _, v := range verts {
			g.Float32s(v[:]...)
		}
		if extra != nil {
			extra(g)
		}
	})
}

func geometryFor(v Version, b *chunktest.Builder, verts [][3]float32) {
	if v == Version130 {
		declaredGeometry(b, verts)
	} else {
		legacyGeometry(b, verts, nil)
	}
}

// subMesh writes a submesh chunk. A nil geometry means shared vertices.
func subMesh(b *chunktest.Builder, material string, indices []uint32, is32 bool,
	geometry func(*chunktest.Builder), tail func(*chunktest.Builder)) {
	b.Chunk(ChunkSubMesh, func(s *chunktest.Builder) {
		s.String(material).Bool(geometry == nil).Uint32(uint32(len(indices))).Bool(is32)
		for _, i := range indices {
			if is32 {
				s.Uint32(i)
			} else {
				s.Uint16(uint16(i))
			}
		}
		if geometry != nil {
			geometry(s)
		}
		if tail != nil {
			tail(s)
		}
	})
}

func decode(t *testing.T, v Version, b *chunktest.Builder) *Mesh {
	t.Helper()
	m, err := NewDecoder(v, quiet...).Decode(b.Reader())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return m
}
