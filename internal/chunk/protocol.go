package chunk

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed width of a chunk header: a uint16 id and a uint32 length.
const HeaderSize = 6

// Header is a chunk header. Length counts the header itself.
type Header struct {
	ID     uint16
	Length uint32
}

func (h Header) String() string {
	return fmt.Sprintf("chunk 0x%04X (%d bytes)", h.ID, h.Length)
}

// CurrentLength returns the declared length of the chunk whose header was consumed last.
func (r *Reader) CurrentLength() uint32 {
	return r.current
}

// ReadHeader consumes a chunk header and records its length.
func (r *Reader) ReadHeader() (Header, error) {
	id, err := r.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	r.current = length
	return Header{ID: id, Length: length}, nil
}

// Rewind moves back over the header that was just read.
func (r *Reader) Rewind() error {
	return r.Skip(-HeaderSize)
}

// headerAhead reports whether a whole chunk header is left to read.
func (r *Reader) headerAhead() (bool, error) {
	left, err := r.Remaining()
	if err != nil {
		return false, err
	}
	return left >= HeaderSize, nil
}

// Peek returns the next chunk header without consuming it. ok is false when
// fewer than HeaderSize bytes remain.
func (r *Reader) Peek() (h Header, ok bool, err error) {
	if more, err := r.headerAhead(); err != nil || !more {
		return Header{}, false, err
	}
	prev := r.current
	h, err = r.ReadHeader()
	if err != nil {
		return Header{}, false, err
	}
	r.current = prev
	return h, true, r.Rewind()
}

// NextIn consumes the next chunk header only when its id is one of ids.
// Otherwise the stream is left positioned at that header and ok is false,
// which is also the result when fewer than HeaderSize bytes remain. Those
// bytes are left for the caller.
func (r *Reader) NextIn(ids ...uint16) (h Header, ok bool, err error) {
	if more, err := r.headerAhead(); err != nil || !more {
		return Header{}, false, err
	}
	prev := r.current
	h, err = r.ReadHeader()
	if err != nil {
		return Header{}, false, err
	}
	if slices.Contains(ids, h.ID) {
		return h, true, nil
	}
	r.current = prev
	return h, false, r.Rewind()
}

// Require consumes the next chunk header and fails with ErrMissingChunk unless
// its id is id.
func (r *Reader) Require(id uint16) (Header, error) {
	h, ok, err := r.NextIn(id)
	if err != nil {
		return Header{}, err
	}
	if !ok {
		return Header{}, errors.Wrapf(ErrMissingChunk, "chunk: expected 0x%04X", id)
	}
	return h, nil
}

// ReadFileVersion reads the file header: headerID followed by the version string.
func (r *Reader) ReadFileVersion(headerID uint16) (string, error) {
	id, err := r.ReadUint16()
	if err != nil {
		return "", errors.Wrap(err, "chunk: file header")
	}
	if id != headerID {
		return "", errors.Wrapf(ErrInvalidHeader, "chunk: found 0x%04X", id)
	}
	version, err := r.ReadString()
	if err != nil {
		return "", errors.Wrap(err, "chunk: file version")
	}
	return version, nil
}

// ReadFileHeader reads the file header and requires its version string to
// equal expected exactly.
func (r *Reader) ReadFileHeader(headerID uint16, expected string) error {
	version, err := r.ReadFileVersion(headerID)
	if err != nil {
		return err
	}
	if version != expected {
		return errors.Wrapf(ErrVersionMismatch, "chunk: file is %s, decoder expects %s", version, expected)
	}
	return nil
}
