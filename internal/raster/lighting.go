package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Light holds the flat-shading parameters.
type Light struct {
	Dir      mgl32.Vec3
	RimDir   mgl32.Vec3
	Half     mgl32.Vec3 // Blinn-Phong half vector of Dir and the view direction
	Ambient  float32
	Hemi     float32
	Direct   float32
	Rim      float32
	SpecInt  float32
	SpecPow  float32
	Exposure float32
	InvGamma float32
}

// DefaultLight is a key light from the upper right with a cool rim from behind.
func DefaultLight() Light {
	dir := mgl32.Vec3{180, 260, 140}.Normalize()
	view := mgl32.Vec3{0, -110, -400}.Normalize()
	return Light{
		Dir:      dir,
		RimDir:   mgl32.Vec3{-160, 130, -210}.Normalize(),
		Half:     dir.Sub(view).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12,
		Exposure: 1.05,
		InvGamma: 1 / 2.2,
	}
}

// Shade returns the light intensity for a unit face normal. Faces are lit
// from both sides.
func (l *Light) Shade(n mgl32.Vec3) float32 {
	main := math32.Abs(n.Dot(l.Dir))
	rim := math32.Abs(n.Dot(l.RimDir))
	hemi := ((1-math32.Abs(n[1]))*0.5 + 0.5) * l.Hemi
	spec := math32.Pow(math32.Max(n.Dot(l.Half), 0), l.SpecPow) * l.SpecInt
	return l.Ambient + hemi + main*l.Direct + rim*l.Rim + spec
}

var srgbToLinear [256]float32

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math32.Pow(float32(i)/255, 2.2)
	}
}

// acesTonemap is the ACES filmic curve.
func acesTonemap(x float32) float32 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// lit applies shade to an sRGB channel and returns the tone mapped sRGB value.
func (l *Light) lit(c uint8, shade float32) uint8 {
	v := acesTonemap(srgbToLinear[c] * shade * l.Exposure)
	return clamp255(math32.Pow(v, l.InvGamma) * 255)
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
