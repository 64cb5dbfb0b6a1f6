package chunk

import (
	"encoding/binary"
	"io"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Reader decodes little-endian primitives from a seekable stream.
// Seeks are always relative to the current position.
type Reader struct {
	rs   io.ReadSeeker
	size int64
	buf  [8]byte

	current uint32 // length of the chunk header read last
}

// NewReader wraps src. The stream must support seeking.
func NewReader(src io.Reader) (*Reader, error) {
	rs, ok := src.(io.ReadSeeker)
	if !ok {
		return nil, errors.WithStack(ErrNotSeekable)
	}
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(ErrNotSeekable, err.Error())
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(ErrNotSeekable, err.Error())
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return nil, errors.Wrap(ErrNotSeekable, err.Error())
	}
	return &Reader{rs: rs, size: end}, nil
}

// Position returns the current offset in the stream.
func (r *Reader) Position() (int64, error) {
	pos, err := r.rs.Seek(0, io.SeekCurrent)
	return pos, errors.Wrap(err, "chunk: tell")
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() (int64, error) {
	pos, err := r.Position()
	if err != nil {
		return 0, err
	}
	return r.size - pos, nil
}

// IsEndOfStream peeks one byte without consuming it.
func (r *Reader) IsEndOfStream() (bool, error) {
	n, err := r.rs.Read(r.buf[:1])
	if n == 0 {
		if err == io.EOF || err == nil {
			return true, nil
		}
		return false, errors.Wrap(err, "chunk: peek")
	}
	if _, err := r.rs.Seek(-1, io.SeekCurrent); err != nil {
		return false, errors.Wrap(err, "chunk: peek")
	}
	return false, nil
}

// Skip moves the position by n bytes relative to the current one.
func (r *Reader) Skip(n int64) error {
	if _, err := r.rs.Seek(n, io.SeekCurrent); err != nil {
		return errors.Wrapf(err, "chunk: skip %d", n)
	}
	return nil
}

func (r *Reader) fill(n int, what string) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.rs, b); err != nil {
		return nil, readErr(err, what)
	}
	return b, nil
}

// ReadFull fills p from the stream.
func (r *Reader) ReadFull(p []byte) error {
	if _, err := io.ReadFull(r.rs, p); err != nil {
		return readErr(err, "bytes")
	}
	return nil
}

// ReadBool reads a one-byte boolean.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.fill(1, "bool")
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.fill(2, "uint16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.fill(4, "uint32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.fill(8, "uint64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math32.Float32frombits(v), err
}

// ReadString reads up to and including a newline and returns the text before it.
func (r *Reader) ReadString() (string, error) {
	return r.ReadStringDelim('\n')
}

// ReadStringDelim reads up to and including delim. Running out of input before
// the delimiter is an error.
func (r *Reader) ReadStringDelim(delim byte) (string, error) {
	var s []byte
	for {
		b, err := r.fill(1, "string")
		if err != nil {
			return "", err
		}
		if b[0] == delim {
			return string(s), nil
		}
		s = append(s, b[0])
	}
}

// ReadVector3 reads x, y, z.
func (r *Reader) ReadVector3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i := range v {
		f, err := r.ReadFloat32()
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

// ReadVector4 reads x, y, z, w.
func (r *Reader) ReadVector4() (mgl32.Vec4, error) {
	var v mgl32.Vec4
	for i := range v {
		f, err := r.ReadFloat32()
		if err != nil {
			return mgl32.Vec4{}, err
		}
		v[i] = f
	}
	return v, nil
}

// ReadQuaternion reads x, y, z, w.
func (r *Reader) ReadQuaternion() (mgl32.Quat, error) {
	v, err := r.ReadVector4()
	if err != nil {
		return mgl32.Quat{}, err
	}
	return mgl32.Quat{W: v[3], V: v.Vec3()}, nil
}

// bulk reads n elements of width w after checking the stream holds them,
// so a corrupt count cannot force a huge allocation.
func (r *Reader) bulk(n, w int, what string) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrCorrupt, "chunk: negative %s count %d", what, n)
	}
	left, err := r.Remaining()
	if err != nil {
		return nil, err
	}
	if int64(n)*int64(w) > left {
		return nil, errors.Wrapf(ErrEndOfStream, "chunk: read %d %s, %d bytes left", n, what, left)
	}
	b := make([]byte, n*w)
	if _, err := io.ReadFull(r.rs, b); err != nil {
		return nil, readErr(err, what)
	}
	return b, nil
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.bulk(n, 1, "bytes")
}

func (r *Reader) ReadUint16s(n int) ([]uint16, error) {
	b, err := r.bulk(n, 2, "uint16s")
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out, nil
}

func (r *Reader) ReadUint32s(n int) ([]uint32, error) {
	b, err := r.bulk(n, 4, "uint32s")
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, nil
}

func (r *Reader) ReadFloat32s(n int) ([]float32, error) {
	b, err := r.bulk(n, 4, "float32s")
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math32.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}
