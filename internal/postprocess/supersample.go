package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks img by factor with premultiplied-alpha CatmullRom
// filtering, which keeps transparent edges from darkening.
func Downsample(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := uint32(img.Pix[si+3])
			for c := 0; c < 3; c++ {
				premul.Pix[di+c] = uint8((uint32(img.Pix[si+c])*a + 127) / 255)
			}
			premul.Pix[di+3] = uint8(a)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		a := uint32(dst.Pix[i+3])
		out.Pix[i+3] = uint8(a)
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = uint8(min((uint32(dst.Pix[i+c])*255+a/2)/a, 255))
		}
	}
	return out
}
