package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"ogre-mesh-renderer/internal/hwbuf"
)

// OperationType is the primitive topology of a SubMesh's index data.
type OperationType uint16

const (
	OperationPointList OperationType = iota + 1
	OperationLineList
	OperationLineStrip
	OperationTriangleList
	OperationTriangleStrip
	OperationTriangleFan
)

func (o OperationType) String() string {
	switch o {
	case OperationPointList:
		return "point_list"
	case OperationLineList:
		return "line_list"
	case OperationLineStrip:
		return "line_strip"
	case OperationTriangleList:
		return "triangle_list"
	case OperationTriangleStrip:
		return "triangle_strip"
	case OperationTriangleFan:
		return "triangle_fan"
	}
	return fmt.Sprintf("operation(%d)", uint16(o))
}

// IndexData is a run of 16- or 32-bit indices.
type IndexData struct {
	Start   int
	Count   int
	Is32Bit bool
	Buffer  hwbuf.Buffer // nil when Count is 0
}

// Indices returns the indices widened to uint32. 16-bit values are widened
// without sign extension.
func (id *IndexData) Indices() []uint32 {
	if id == nil || id.Buffer == nil {
		return nil
	}
	data := id.Buffer.Bytes()
	out := make([]uint32, id.Count)
	for i := range out {
		if id.Is32Bit {
			out[i] = hwbuf.Uint32At(data, id.Start+i)
		} else {
			out[i] = uint32(hwbuf.Uint16At(data, id.Start+i))
		}
	}
	return out
}

// BoneAssignment weights one vertex to one bone.
type BoneAssignment struct {
	VertexIndex uint32
	BoneIndex   uint16
	Weight      float32
}

// SubMesh is one material/topology group of a Mesh.
type SubMesh struct {
	Name              string
	MaterialName      string
	UseSharedVertices bool
	IndexData         IndexData
	VertexData        *VertexData // nil when UseSharedVertices is set
	Operation         OperationType
	BoneAssignments   []BoneAssignment

	// LODFaces holds generated index data for LOD levels 1..n-1 at [level-1].
	LODFaces []*IndexData
}

// LODUsage describes one reduced level of detail.
type LODUsage struct {
	// FromDepthSquared is the squared camera distance at which the level applies.
	FromDepthSquared float32
	// ManualName names an external mesh for manual LODs.
	ManualName string
}

// AxisAlignedBox is a min/max bounding box.
type AxisAlignedBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh is a decoded mesh file.
type Mesh struct {
	Version            Version
	SkeletallyAnimated bool
	SharedVertexData   *VertexData
	SubMeshes          []*SubMesh
	SkeletonName       string
	BoneAssignments    []BoneAssignment

	// NumLODLevels counts level 0, which is the full mesh and never stored.
	NumLODLevels int
	IsLODManual  bool
	// LODUsages holds levels 1..NumLODLevels-1 at [level-1].
	LODUsages []LODUsage

	Bounds         AxisAlignedBox
	BoundingRadius float32

	EdgeLists          map[int]*EdgeData
	EdgeListsBuilt     bool
	AutoBuildEdgeLists bool
}

// SubMeshByName returns the first SubMesh named name.
func (m *Mesh) SubMeshByName(name string) (*SubMesh, bool) {
	for _, sm := range m.SubMeshes {
		if sm.Name == name {
			return sm, true
		}
	}
	return nil, false
}

// Vertices returns the vertex block a SubMesh draws from.
func (sm *SubMesh) Vertices(m *Mesh) *VertexData {
	if sm.UseSharedVertices {
		return m.SharedVertexData
	}
	return sm.VertexData
}

// Triangles expands the SubMesh's index data into triangles according to its
// operation type. Point and line operations yield none.
func (sm *SubMesh) Triangles() [][3]uint32 {
	return expandTriangles(sm.Operation, sm.IndexData.Indices())
}

// LODTriangles returns the triangles of generated LOD level (1..n-1). Level 0
// and levels without generated data return the full index data.
func (sm *SubMesh) LODTriangles(level int) [][3]uint32 {
	if level < 1 || level > len(sm.LODFaces) || sm.LODFaces[level-1] == nil {
		return sm.Triangles()
	}
	return expandTriangles(sm.Operation, sm.LODFaces[level-1].Indices())
}

func expandTriangles(op OperationType, idx []uint32) [][3]uint32 {
	var tris [][3]uint32
	switch op {
	case OperationTriangleList:
		for i := 0; i+2 < len(idx); i += 3 {
			tris = append(tris, [3]uint32{idx[i], idx[i+1], idx[i+2]})
		}
	case OperationTriangleStrip:
		for i := 2; i < len(idx); i++ {
			if i%2 == 0 {
				tris = append(tris, [3]uint32{idx[i-2], idx[i-1], idx[i]})
			} else {
				tris = append(tris, [3]uint32{idx[i-1], idx[i-2], idx[i]})
			}
		}
	case OperationTriangleFan:
		for i := 2; i < len(idx); i++ {
			tris = append(tris, [3]uint32{idx[0], idx[i-1], idx[i]})
		}
	}
	return tris
}
