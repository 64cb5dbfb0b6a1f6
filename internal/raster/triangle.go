package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a projected vertex: screen x and y, depth in z.
type Vertex struct {
	Pos mgl32.Vec3
	UV  mgl32.Vec2
}

// Material is what a triangle is painted with. Without a texture, or when
// the vertices carry no texture coordinates, Base is used.
type Material struct {
	Texture *image.NRGBA
	Base    color.NRGBA
	HasUV   bool
}

var defaultBase = color.NRGBA{R: 160, G: 160, B: 170, A: 255}

// DrawTriangle rasterizes one flat-shaded triangle with depth testing.
// Texels with almost no alpha are discarded.
func (fb *FrameBuffer) DrawTriangle(v [3]Vertex, mat *Material, l *Light) {
	p0, p1, p2 := v[0].Pos, v[1].Pos, v[2].Pos

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	nl := n.Len()
	if nl < 1e-8 {
		return
	}
	shade := l.Shade(n.Mul(1 / nl))

	minX := max(int(math32.Min(math32.Min(p0[0], p1[0]), p2[0])), 0)
	maxX := min(int(math32.Max(math32.Max(p0[0], p1[0]), p2[0]))+1, fb.Width-1)
	minY := max(int(math32.Min(math32.Min(p0[1], p1[1]), p2[1])), 0)
	maxY := min(int(math32.Max(math32.Max(p0[1], p1[1]), p2[1]))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (p1[1]-p2[1])*(p0[0]-p2[0]) + (p2[0]-p1[0])*(p0[1]-p2[1])
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det
	dy12, dx21 := p1[1]-p2[1], p2[0]-p1[0]
	dy20, dx02 := p2[1]-p0[1], p0[0]-p2[0]

	textured := mat.Texture != nil && mat.HasUV

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) - p2[1]
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) - p2[0]
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*p0[2] + w1*p1[2] + w2*p2[2]
			zi := row + sx
			if z <= fb.Depth[zi] {
				continue
			}

			c := mat.Base
			if textured {
				uv := v[0].UV.Mul(w0).Add(v[1].UV.Mul(w1)).Add(v[2].UV.Mul(w2))
				c = Sample(mat.Texture, uv)
			}
			if c.A < 8 {
				continue
			}
			fb.Depth[zi] = z

			pi := zi * 4
			fb.Color[pi] = l.lit(c.R, shade)
			fb.Color[pi+1] = l.lit(c.G, shade)
			fb.Color[pi+2] = l.lit(c.B, shade)
			fb.Color[pi+3] = c.A
		}
	}
}
