package mesh

import (
	"fmt"

	"ogre-mesh-renderer/internal/hwbuf"
)

// ElementType is the storage type of one vertex element.
type ElementType uint16

const (
	TypeFloat1 ElementType = iota
	TypeFloat2
	TypeFloat3
	TypeFloat4
	TypeColour
	TypeShort1
	TypeShort2
	TypeShort3
	TypeShort4
	TypeUByte4
	TypeColourARGB
	TypeColourABGR
)

// Size returns the element width in bytes, or 0 for an unknown type.
func (t ElementType) Size() int {
	switch t {
	case TypeFloat1:
		return 4
	case TypeFloat2:
		return 8
	case TypeFloat3:
		return 12
	case TypeFloat4:
		return 16
	case TypeColour, TypeColourARGB, TypeColourABGR, TypeUByte4:
		return 4
	case TypeShort1:
		return 2
	case TypeShort2:
		return 4
	case TypeShort3:
		return 6
	case TypeShort4:
		return 8
	}
	return 0
}

// Components returns the number of scalar values in the element.
func (t ElementType) Components() int {
	switch t {
	case TypeFloat1, TypeShort1, TypeColour, TypeColourARGB, TypeColourABGR:
		return 1
	case TypeFloat2, TypeShort2:
		return 2
	case TypeFloat3, TypeShort3:
		return 3
	case TypeFloat4, TypeShort4, TypeUByte4:
		return 4
	}
	return 0
}

// FloatType returns the float type with n components (1..4).
func FloatType(n int) (ElementType, bool) {
	if n < 1 || n > 4 {
		return 0, false
	}
	return TypeFloat1 + ElementType(n-1), true
}

func (t ElementType) String() string {
	names := [...]string{"float1", "float2", "float3", "float4", "colour",
		"short1", "short2", "short3", "short4", "ubyte4", "colour_argb", "colour_abgr"}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("type(%d)", uint16(t))
}

// Semantic is the meaning of a vertex element.
type Semantic uint16

const (
	SemanticPosition Semantic = iota + 1
	SemanticBlendWeights
	SemanticBlendIndices
	SemanticNormal
	SemanticDiffuse
	SemanticSpecular
	SemanticTexCoords
	SemanticBinormal
	SemanticTangent
)

func (s Semantic) String() string {
	names := [...]string{"", "position", "blend_weights", "blend_indices", "normal",
		"diffuse", "specular", "texcoords", "binormal", "tangent"}
	if s > 0 && int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("semantic(%d)", uint16(s))
}

// VertexElement describes one field of a vertex in a bound buffer.
type VertexElement struct {
	Source   uint16
	Offset   uint16
	Type     ElementType
	Semantic Semantic
	Index    uint16
}

// VertexDeclaration is the ordered element list of a vertex block.
type VertexDeclaration struct {
	Elements []VertexElement
}

// Add appends an element.
func (d *VertexDeclaration) Add(e VertexElement) {
	d.Elements = append(d.Elements, e)
}

// VertexSize returns the byte size of one vertex in the buffer bound at source.
func (d *VertexDeclaration) VertexSize(source uint16) int {
	size := 0
	for _, e := range d.Elements {
		if e.Source == source {
			size += e.Type.Size()
		}
	}
	return size
}

// FindElement returns the first element with the given semantic and index.
func (d *VertexDeclaration) FindElement(sem Semantic, index uint16) (VertexElement, bool) {
	for _, e := range d.Elements {
		if e.Semantic == sem && e.Index == index {
			return e, true
		}
	}
	return VertexElement{}, false
}

// VertexData is a block of vertices: a declaration plus the buffers bound to
// its sources.
type VertexData struct {
	Start       int
	Count       int
	Declaration VertexDeclaration
	Bindings    map[uint16]hwbuf.Buffer
}

func newVertexData() *VertexData {
	return &VertexData{Bindings: make(map[uint16]hwbuf.Buffer)}
}

// Floats reads the float components of the element with the given semantic
// and index for every vertex. ok is false if the element is missing or is not
// a float type.
func (vd *VertexData) Floats(sem Semantic, index uint16) (vals [][]float32, ok bool) {
	if vd == nil {
		return nil, false
	}
	e, found := vd.Declaration.FindElement(sem, index)
	if !found || e.Type > TypeFloat4 {
		return nil, false
	}
	buf, bound := vd.Bindings[e.Source]
	if !bound {
		return nil, false
	}
	data := buf.Bytes()
	stride := buf.Stride()
	n := e.Type.Components()
	vals = make([][]float32, vd.Count)
	for i := range vals {
		base := (vd.Start+i)*stride + int(e.Offset)
		if base+n*4 > len(data) {
			return nil, false
		}
		v := make([]float32, n)
		for k := range v {
			v[k] = hwbuf.Float32At(data, base+k*4)
		}
		vals[i] = v
	}
	return vals, true
}

// Positions returns the vertex positions.
func (vd *VertexData) Positions() [][3]float32 {
	vals, ok := vd.Floats(SemanticPosition, 0)
	if !ok {
		return nil
	}
	out := make([][3]float32, len(vals))
	for i, v := range vals {
		copy(out[i][:], v)
	}
	return out
}

// TexCoords returns the first two components of texture coordinate set.
// One-dimensional sets yield v = 0.
func (vd *VertexData) TexCoords(set uint16) [][2]float32 {
	vals, ok := vd.Floats(SemanticTexCoords, set)
	if !ok {
		return nil
	}
	out := make([][2]float32, len(vals))
	for i, v := range vals {
		copy(out[i][:], v)
	}
	return out
}
