package hwbuf

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Stats summarises what a MemoryManager has handed out.
type Stats struct {
	Buffers int
	Bytes   int64
}

// MemoryManager allocates buffers in main memory. It is safe for concurrent
// use by independent decoders.
type MemoryManager struct {
	mu    sync.Mutex
	limit int64
	stats Stats
	log   zerolog.Logger
}

// MemoryOption configures a MemoryManager.
type MemoryOption func(*MemoryManager)

// WithLimit caps the total bytes the manager will allocate. Zero means no cap.
func WithLimit(bytes int64) MemoryOption {
	return func(m *MemoryManager) { m.limit = bytes }
}

// WithLogger sets the logger used for allocation events.
func WithLogger(l zerolog.Logger) MemoryOption {
	return func(m *MemoryManager) { m.log = l }
}

func NewMemoryManager(opts ...MemoryOption) *MemoryManager {
	m := &MemoryManager{log: log.Logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allocate returns a zeroed buffer of stride*count bytes.
func (m *MemoryManager) Allocate(stride, count int, usage Usage) (Buffer, error) {
	if stride <= 0 || count < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "stride %d count %d", stride, count)
	}
	size := int64(stride) * int64(count)

	m.mu.Lock()
	if m.limit > 0 && m.stats.Bytes+size > m.limit {
		used := m.stats.Bytes
		m.mu.Unlock()
		return nil, errors.Wrapf(ErrOutOfMemory, "%d bytes requested, %d of %d in use", size, used, m.limit)
	}
	m.stats.Buffers++
	m.stats.Bytes += size
	m.mu.Unlock()

	b := &memBuffer{
		id:     uuid.New(),
		stride: stride,
		count:  count,
		usage:  usage,
		data:   make([]byte, size),
	}
	m.log.Debug().
		Str("buffer", b.id.String()).
		Int("stride", stride).
		Int("count", count).
		Stringer("usage", usage).
		Msg("hwbuf: allocate")
	return b, nil
}

// Stats returns a snapshot of the allocation counters.
func (m *MemoryManager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

type memBuffer struct {
	id     uuid.UUID
	stride int
	count  int
	usage  Usage

	mu     sync.Mutex
	locked bool
	data   []byte
}

func (b *memBuffer) ID() uuid.UUID { return b.id }
func (b *memBuffer) Stride() int   { return b.stride }
func (b *memBuffer) Count() int    { return b.count }
func (b *memBuffer) Usage() Usage  { return b.usage }

func (b *memBuffer) WritableSpan() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return nil, errors.WithStack(ErrLocked)
	}
	b.locked = true
	return b.data, nil
}

func (b *memBuffer) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.locked {
		return errors.WithStack(ErrNotLocked)
	}
	b.locked = false
	return nil
}

func (b *memBuffer) Bytes() []byte {
	return b.data
}
