package viewmatrix

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultFOV is the field of view, in degrees, of a perspective camera that
// does not set one.
const DefaultFOV = 30

// Camera orbits the model: Yaw turns it around the vertical axis, then Pitch
// tilts it toward the viewer. Angles are in degrees.
type Camera struct {
	Yaw         float32
	Pitch       float32
	Perspective bool
	FOV         float32
}

// DefaultCamera is a three-quarter view from slightly above.
func DefaultCamera() Camera {
	return Camera{Yaw: 30, Pitch: 20}
}

// Matrix returns the view rotation.
func (c Camera) Matrix() mgl32.Mat3 {
	yaw := mgl32.Rotate3DY(mgl32.DegToRad(c.Yaw))
	pitch := mgl32.Rotate3DX(mgl32.DegToRad(c.Pitch))
	return pitch.Mul3(yaw)
}

// Frame maps view-space points onto a square render target.
type Frame struct {
	Center mgl32.Vec3 // view-space center of the fitted points
	Scale  float32    // pixels per unit
	Size   int

	// Perspective parameters, set by Fit when the camera asks for it.
	CamDist float32
}

// Fit frames points, already rotated into view space, so that they fill a
// size x size target leaving margin pixels on every side.
func (c Camera) Fit(points []mgl32.Vec3, size, margin int) Frame {
	f := Frame{Size: size, Scale: 1}
	if len(points) == 0 {
		return f
	}

	inf := math32.Inf(1)
	lo := mgl32.Vec3{inf, inf, inf}
	hi := mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range points {
		for k := 0; k < 3; k++ {
			lo[k] = math32.Min(lo[k], p[k])
			hi[k] = math32.Max(hi[k], p[k])
		}
	}
	f.Center = lo.Add(hi).Mul(0.5)

	span := math32.Max(math32.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	usable := float32(size - 2*margin)
	if usable < 1 {
		usable = 1
	}
	f.Scale = usable / span

	if c.Perspective {
		fov := c.FOV
		if fov <= 0 {
			fov = DefaultFOV
		}
		half := math32.Max(span/2, 0.001)
		f.CamDist = half / math32.Tan(mgl32.DegToRad(fov/2))
	}
	return f
}

// ViewSpace rotates positions by the camera.
func (c Camera) ViewSpace(positions [][3]float32) []mgl32.Vec3 {
	r := c.Matrix()
	out := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		out[i] = r.Mul3x1(mgl32.Vec3(p))
	}
	return out
}

// Project maps view-space points to screen space: x to the right, y down and
// z as depth, larger being nearer.
func (f Frame) Project(points []mgl32.Vec3) []mgl32.Vec3 {
	half := float32(f.Size) / 2
	out := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		d := p.Sub(f.Center)
		if f.CamDist > 0 {
			depth := math32.Max(f.CamDist-d[2], 0.1)
			factor := f.CamDist / depth
			d[0] *= factor
			d[1] *= factor
		}
		out[i] = mgl32.Vec3{d[0]*f.Scale + half, -d[1]*f.Scale + half, p[2]}
	}
	return out
}
