// Package hwbuf allocates the vertex and index buffers that decoded meshes
// write into. The Manager interface stands in for a GPU buffer allocator; the
// in-memory implementation backs the preview tools and tests.
package hwbuf

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Usage carries allocation hints. Bits combine like GPU buffer usage flags.
type Usage uint8

const (
	UsageVertex Usage = 1 << iota
	UsageIndex
	UsageStatic
	UsageWriteOnly

	StaticWriteOnly = UsageStatic | UsageWriteOnly
)

func (u Usage) String() string {
	var parts []string
	for _, f := range []struct {
		bit  Usage
		name string
	}{
		{UsageVertex, "vertex"},
		{UsageIndex, "index"},
		{UsageStatic, "static"},
		{UsageWriteOnly, "writeonly"},
	} {
		if u&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("usage(%d)", uint8(u))
	}
	return strings.Join(parts, "|")
}

var (
	ErrLocked      = errors.New("hwbuf: buffer is locked")
	ErrNotLocked   = errors.New("hwbuf: buffer is not locked")
	ErrOutOfMemory = errors.New("hwbuf: allocation exceeds limit")
	ErrInvalidSize = errors.New("hwbuf: invalid buffer size")
)

// Buffer is a fixed-size run of Count elements of Stride bytes each.
type Buffer interface {
	ID() uuid.UUID
	Stride() int
	Count() int
	Usage() Usage

	// WritableSpan locks the buffer and returns its full contents for writing.
	WritableSpan() ([]byte, error)
	// Commit releases the lock taken by WritableSpan.
	Commit() error
	// Bytes returns the committed contents. Callers must not modify them.
	Bytes() []byte
}

// Manager allocates buffers.
type Manager interface {
	Allocate(stride, count int, usage Usage) (Buffer, error)
}

// Fill locks buf, hands its span to write and commits.
func Fill(buf Buffer, write func(span []byte) error) error {
	span, err := buf.WritableSpan()
	if err != nil {
		return err
	}
	if err := write(span); err != nil {
		// Release the lock; the write error is the one worth reporting.
		_ = buf.Commit()
		return err
	}
	return buf.Commit()
}
