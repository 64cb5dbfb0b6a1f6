package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"ogre-mesh-renderer/internal/mesh"
	"ogre-mesh-renderer/internal/texture"
	"ogre-mesh-renderer/internal/viewmatrix"
)

// Options controls RenderMesh.
type Options struct {
	Camera      viewmatrix.Camera
	LOD         int // generated LOD level, 0 for full detail
	Textures    texture.Resolver
	Size        int
	Supersample int
	Light       *Light // DefaultLight when nil
}

// margin is the padding around the model, in output pixels.
const margin = 16

// RenderMesh draws every triangle SubMesh of m into a square image of
// Size*Supersample pixels. Textures are looked up by material name.
func RenderMesh(m *mesh.Mesh, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	renderSize := opts.Size * ss
	light := opts.Light
	if light == nil {
		l := DefaultLight()
		light = &l
	}

	// Vertex blocks are shared between SubMeshes, so rotate each once.
	views := make(map[*mesh.VertexData][]mgl32.Vec3)
	var all []mgl32.Vec3
	for _, sm := range m.SubMeshes {
		vd := sm.Vertices(m)
		if vd == nil {
			continue
		}
		if _, ok := views[vd]; ok {
			continue
		}
		pts := opts.Camera.ViewSpace(vd.Positions())
		views[vd] = pts
		all = append(all, pts...)
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	if len(all) == 0 {
		return fb.Image()
	}
	frame := opts.Camera.Fit(all, renderSize, margin*ss)

	screens := make(map[*mesh.VertexData][]mgl32.Vec3, len(views))
	for vd, pts := range views {
		screens[vd] = frame.Project(pts)
	}

	for _, sm := range m.SubMeshes {
		vd := sm.Vertices(m)
		screen, ok := screens[vd]
		if !ok {
			continue
		}
		mat := material(sm, opts.Textures)
		uvs := vd.TexCoords(0)
		mat.HasUV = len(uvs) == len(screen)

		for _, tri := range sm.LODTriangles(opts.LOD) {
			var v [3]Vertex
			inRange := true
			for k, idx := range tri {
				if int(idx) >= len(screen) {
					inRange = false
					break
				}
				v[k].Pos = screen[idx]
				if mat.HasUV {
					v[k].UV = mgl32.Vec2(uvs[idx])
				}
			}
			if inRange {
				fb.DrawTriangle(v, &mat, light)
			}
		}
	}
	return fb.Image()
}

func material(sm *mesh.SubMesh, textures texture.Resolver) Material {
	mat := Material{Base: defaultBase}
	if textures == nil || sm.MaterialName == "" {
		return mat
	}
	if tex := textures.Resolve(sm.MaterialName); tex != nil {
		mat.Texture = tex
		mat.Base = AverageColor(tex)
	}
	return mat
}
