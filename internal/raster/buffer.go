package raster

import (
	"image"

	"github.com/chewxy/math32"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // NRGBA interleaved, len = W*H*4
	Depth  []float32 // per pixel, larger is nearer, initialized to -inf
}

// NewFrameBuffer allocates a transparent color buffer and an empty depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	depth := make([]float32, n)
	inf := math32.Inf(-1)
	for i := range depth {
		depth[i] = inf
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		Depth:  depth,
	}
}

// Image copies the color buffer into a new image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// Coverage returns the number of pixels that were drawn.
func (fb *FrameBuffer) Coverage() int {
	n := 0
	for i := 3; i < len(fb.Color); i += 4 {
		if fb.Color[i] != 0 {
			n++
		}
	}
	return n
}
