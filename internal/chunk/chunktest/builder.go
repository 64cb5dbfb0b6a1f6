// Package chunktest assembles chunked files byte by byte for decoder tests.
package chunktest

import (
	"bytes"
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Builder appends little-endian values to an in-memory file.
type Builder struct {
	buf []byte
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) Bool(v bool) *Builder {
	if v {
		b.buf = append(b.buf, 1)
	} else {
		b.buf = append(b.buf, 0)
	}
	return b
}

func (b *Builder) Uint16(v uint16) *Builder {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
	return b
}

func (b *Builder) Int16(v int16) *Builder {
	return b.Uint16(uint16(v))
}

func (b *Builder) Uint32(v uint32) *Builder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

func (b *Builder) Int32(v int32) *Builder {
	return b.Uint32(uint32(v))
}

func (b *Builder) Uint64(v uint64) *Builder {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v)
	return b
}

func (b *Builder) Float32(v float32) *Builder {
	return b.Uint32(math32.Float32bits(v))
}

func (b *Builder) Float32s(vs ...float32) *Builder {
	for _, v := range vs {
		b.Float32(v)
	}
	return b
}

func (b *Builder) Uint16s(vs ...uint16) *Builder {
	for _, v := range vs {
		b.Uint16(v)
	}
	return b
}

func (b *Builder) Uint32s(vs ...uint32) *Builder {
	for _, v := range vs {
		b.Uint32(v)
	}
	return b
}

// String appends s and a newline terminator.
func (b *Builder) String(s string) *Builder {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, '\n')
	return b
}

func (b *Builder) Raw(p ...byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// FileHeader appends the header id and version string.
func (b *Builder) FileHeader(id uint16, version string) *Builder {
	return b.Uint16(id).String(version)
}

// Header appends a chunk header with an explicit length.
func (b *Builder) Header(id uint16, length uint32) *Builder {
	return b.Uint16(id).Uint32(length)
}

// Chunk appends a chunk whose payload is written by body. The length field
// covers the header and the payload, including any nested chunks.
func (b *Builder) Chunk(id uint16, body func(*Builder)) *Builder {
	inner := New()
	if body != nil {
		body(inner)
	}
	b.Header(id, uint32(6+len(inner.buf)))
	b.buf = append(b.buf, inner.buf...)
	return b
}

func (b *Builder) Len() int {
	return len(b.buf)
}

func (b *Builder) Bytes() []byte {
	return b.buf
}

// Reader returns a seekable reader over a copy of the assembled bytes.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(bytes.Clone(b.buf))
}
