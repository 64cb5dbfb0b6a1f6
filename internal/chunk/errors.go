package chunk

import (
	"io"

	"github.com/pkg/errors"
)

// Structural faults reported by the decoders. Callers match them with errors.Is;
// the returned errors carry additional context.
var (
	ErrEndOfStream     = errors.New("unexpected end of stream")
	ErrNotSeekable     = errors.New("stream does not support seeking")
	ErrInvalidHeader   = errors.New("invalid file: no header")
	ErrVersionMismatch = errors.New("invalid file: version incompatible")
	ErrMissingChunk    = errors.New("required chunk missing")
	ErrSizeMismatch    = errors.New("declared size does not match")
	ErrCorrupt         = errors.New("corrupt data")
)

// IsEndOfStream reports whether err was caused by running out of input.
func IsEndOfStream(err error) bool {
	return errors.Is(err, ErrEndOfStream)
}

func readErr(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrEndOfStream, "chunk: read %s", what)
	}
	return errors.Wrapf(err, "chunk: read %s", what)
}
