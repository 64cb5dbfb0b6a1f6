package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"ogre-mesh-renderer/internal/chunk"
)

// EdgeTriangle is one face of an edge list.
type EdgeTriangle struct {
	IndexSet        uint32
	VertexSet       uint32
	VertIndex       [3]uint32
	SharedVertIndex [3]uint32
	Normal          mgl32.Vec4
}

// Edge joins two triangles. A degenerate edge has only one.
type Edge struct {
	TriIndex        [2]uint32
	VertIndex       [2]uint32
	SharedVertIndex [2]uint32
	Degenerate      bool
}

// EdgeGroup holds the edges whose vertices come from one vertex block.
type EdgeGroup struct {
	VertexSet  uint32
	VertexData *VertexData
	Edges      []Edge
}

// EdgeData is the precomputed adjacency of one LOD level.
type EdgeData struct {
	Triangles  []EdgeTriangle
	EdgeGroups []EdgeGroup
}

// edgeLists decodes per-LOD edge blocks. Manual levels carry no data. The mesh
// is marked as having its edge lists built even when no block follows.
func (p *parser) edgeLists() error {
	for {
		_, ok, err := p.r.NextIn(ChunkEdgeListLOD)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		lod, err := p.r.ReadUint16()
		if err != nil {
			return errors.Wrap(err, "lod index")
		}
		manual, err := p.r.ReadBool()
		if err != nil {
			return errors.Wrapf(err, "lod %d manual flag", lod)
		}
		if manual {
			continue
		}
		ed, err := p.edgeData()
		if err != nil {
			return errors.Wrapf(err, "lod %d", lod)
		}
		p.m.EdgeLists[int(lod)] = ed
	}
	p.m.EdgeListsBuilt = true
	return nil
}

func (p *parser) edgeData() (*EdgeData, error) {
	numTris, err := p.r.ReadUint32()
	if err != nil {
		return nil, errors.Wrap(err, "triangle count")
	}
	numGroups, err := p.r.ReadUint32()
	if err != nil {
		return nil, errors.Wrap(err, "edge group count")
	}

	// Each triangle is 48 bytes; check before sizing the slice.
	if left, err := p.r.Remaining(); err != nil {
		return nil, err
	} else if int64(numTris)*48 > left {
		return nil, errors.Wrapf(chunk.ErrEndOfStream, "%d triangles in %d bytes", numTris, left)
	}

	ed := &EdgeData{Triangles: make([]EdgeTriangle, numTris)}
	for i := range ed.Triangles {
		t := &ed.Triangles[i]
		u, err := p.r.ReadUint32s(8)
		if err != nil {
			return nil, errors.Wrapf(err, "triangle %d", i)
		}
		t.IndexSet, t.VertexSet = u[0], u[1]
		copy(t.VertIndex[:], u[2:5])
		copy(t.SharedVertIndex[:], u[5:8])
		if t.Normal, err = p.r.ReadVector4(); err != nil {
			return nil, errors.Wrapf(err, "triangle %d normal", i)
		}
	}

	for g := uint32(0); g < numGroups; g++ {
		if _, err := p.r.Require(ChunkEdgeGroup); err != nil {
			return nil, errors.Wrapf(err, "edge group %d", g)
		}
		eg, err := p.edgeGroup()
		if err != nil {
			return nil, errors.Wrapf(err, "edge group %d", g)
		}
		ed.EdgeGroups = append(ed.EdgeGroups, eg)
	}
	return ed, nil
}

func (p *parser) edgeGroup() (EdgeGroup, error) {
	var eg EdgeGroup
	var err error
	if eg.VertexSet, err = p.r.ReadUint32(); err != nil {
		return eg, errors.Wrap(err, "vertex set")
	}
	numEdges, err := p.r.ReadUint32()
	if err != nil {
		return eg, errors.Wrap(err, "edge count")
	}
	// Each edge is 25 bytes.
	if left, err := p.r.Remaining(); err != nil {
		return eg, err
	} else if int64(numEdges)*25 > left {
		return eg, errors.Wrapf(chunk.ErrEndOfStream, "%d edges in %d bytes", numEdges, left)
	}
	eg.Edges = make([]Edge, numEdges)
	for i := range eg.Edges {
		e := &eg.Edges[i]
		u, err := p.r.ReadUint32s(6)
		if err != nil {
			return eg, errors.Wrapf(err, "edge %d", i)
		}
		copy(e.TriIndex[:], u[0:2])
		copy(e.VertIndex[:], u[2:4])
		copy(e.SharedVertIndex[:], u[4:6])
		if e.Degenerate, err = p.r.ReadBool(); err != nil {
			return eg, errors.Wrapf(err, "edge %d degenerate flag", i)
		}
	}
	eg.VertexData, err = p.resolveVertexSet(eg.VertexSet)
	return eg, err
}

// resolveVertexSet maps an edge group's vertex set to a vertex block. With
// shared geometry, set 0 is the shared block and set n is SubMesh n-1;
// without it, set n is SubMesh n.
func (p *parser) resolveVertexSet(set uint32) (*VertexData, error) {
	idx := int64(set)
	if p.m.SharedVertexData != nil {
		if set == 0 {
			return p.m.SharedVertexData, nil
		}
		idx--
	}
	if idx >= int64(len(p.m.SubMeshes)) {
		return nil, errors.Wrapf(chunk.ErrCorrupt, "vertex set %d with %d submeshes", set, len(p.m.SubMeshes))
	}
	return p.m.SubMeshes[idx].VertexData, nil
}
