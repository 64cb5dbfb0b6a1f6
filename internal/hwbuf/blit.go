package hwbuf

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Blit helpers copy scalars into a span tightly packed in little-endian
// order, which is the layout the readers below expect back.

func PutUint16s(dst []byte, src []uint16) {
	for i, v := range src {
		binary.LittleEndian.PutUint16(dst[i*2:], v)
	}
}

func PutUint32s(dst []byte, src []uint32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], v)
	}
}

func PutFloat32s(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math32.Float32bits(v))
	}
}

func Uint16At(src []byte, i int) uint16 {
	return binary.LittleEndian.Uint16(src[i*2:])
}

func Uint32At(src []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(src[i*4:])
}

// Float32At reads the float at byte offset off.
func Float32At(src []byte, off int) float32 {
	return math32.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
}
