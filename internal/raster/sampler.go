package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sample filters tex bilinearly at uv, wrapping coordinates outside [0,1).
func Sample(tex *image.NRGBA, uv mgl32.Vec2) color.NRGBA {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	u := uv[0] - math32.Floor(uv[0])
	v := uv[1] - math32.Floor(uv[1])

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := (x0+1)%w, (y0+1)%h
	dx, dy := fx-float32(x0), fy-float32(y0)

	i00 := y0*tex.Stride + x0*4
	i10 := y0*tex.Stride + x1*4
	i01 := y1*tex.Stride + x0*4
	i11 := y1*tex.Stride + x1*4
	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float32(tex.Pix[i00+c])*w00 + float32(tex.Pix[i10+c])*w10 +
			float32(tex.Pix[i01+c])*w01 + float32(tex.Pix[i11+c])*w11
		out[c] = clamp255(f)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

// AverageColor returns the mean opaque color of tex.
func AverageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return defaultBase
	}
	var sum [3]float32
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := tex.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			i := off + x*4
			sum[0] += float32(tex.Pix[i])
			sum[1] += float32(tex.Pix[i+1])
			sum[2] += float32(tex.Pix[i+2])
		}
	}
	fn := float32(n)
	return color.NRGBA{R: clamp255(sum[0] / fn), G: clamp255(sum[1] / fn), B: clamp255(sum[2] / fn), A: 255}
}
