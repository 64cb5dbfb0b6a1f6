package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ComputeBounds recomputes the box and sphere radius around the origin from
// the positions of every vertex block the mesh draws. ok is false when the
// mesh has no positions.
func ComputeBounds(m *Mesh) (box AxisAlignedBox, radius float32, ok bool) {
	inf := math32.Inf(1)
	box.Min = mgl32.Vec3{inf, inf, inf}
	box.Max = mgl32.Vec3{-inf, -inf, -inf}

	var radiusSq float32
	visit := func(vd *VertexData) {
		for _, p := range vd.Positions() {
			ok = true
			for k := 0; k < 3; k++ {
				box.Min[k] = math32.Min(box.Min[k], p[k])
				box.Max[k] = math32.Max(box.Max[k], p[k])
			}
			radiusSq = math32.Max(radiusSq, p[0]*p[0]+p[1]*p[1]+p[2]*p[2])
		}
	}
	if m.SharedVertexData != nil {
		visit(m.SharedVertexData)
	}
	for _, sm := range m.SubMeshes {
		if sm.VertexData != nil {
			visit(sm.VertexData)
		}
	}
	if !ok {
		return AxisAlignedBox{}, 0, false
	}
	return box, math32.Sqrt(radiusSq), true
}

// Contains reports whether b encloses o, allowing tolerance eps per axis.
func (b AxisAlignedBox) Contains(o AxisAlignedBox, eps float32) bool {
	for k := 0; k < 3; k++ {
		if o.Min[k] < b.Min[k]-eps || o.Max[k] > b.Max[k]+eps {
			return false
		}
	}
	return true
}

// Center returns the midpoint of the box.
func (b AxisAlignedBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
