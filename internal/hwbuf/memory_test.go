package hwbuf

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func TestAllocateFillCommit(t *testing.T) {
	m := NewMemoryManager(WithLogger(zerolog.Nop()))
	buf, err := m.Allocate(2, 3, UsageIndex|StaticWriteOnly)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if buf.Stride() != 2 || buf.Count() != 3 || len(buf.Bytes()) != 6 {
		t.Fatalf("buffer shape %d x %d, %d bytes", buf.Stride(), buf.Count(), len(buf.Bytes()))
	}
	if buf.Usage() != UsageIndex|StaticWriteOnly {
		t.Errorf("usage = %s", buf.Usage())
	}
	err = Fill(buf, func(span []byte) error {
		PutUint16s(span, []uint16{1, 0xFFFF, 3})
		return nil
	})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := []uint16{1, 0xFFFF, 3}
	for i, w := range want {
		if got := Uint16At(buf.Bytes(), i); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestLockDiscipline(t *testing.T) {
	buf, err := NewMemoryManager(WithLogger(zerolog.Nop())).Allocate(4, 1, UsageVertex)
	if err != nil {
		t.Fatal(err)
	}
	if err := buf.Commit(); !errors.Is(err, ErrNotLocked) {
		t.Errorf("Commit without lock: got %v", err)
	}
	if _, err := buf.WritableSpan(); err != nil {
		t.Fatal(err)
	}
	if _, err := buf.WritableSpan(); !errors.Is(err, ErrLocked) {
		t.Errorf("second WritableSpan: got %v", err)
	}
	if err := buf.Commit(); err != nil {
		t.Errorf("Commit: %v", err)
	}
}

func TestFillReleasesLockOnError(t *testing.T) {
	buf, err := NewMemoryManager(WithLogger(zerolog.Nop())).Allocate(4, 1, UsageVertex)
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := Fill(buf, func([]byte) error { return boom }); err != boom {
		t.Fatalf("Fill: got %v, want boom", err)
	}
	if _, err := buf.WritableSpan(); err != nil {
		t.Fatalf("buffer still locked: %v", err)
	}
}

func TestAllocateLimitAndSize(t *testing.T) {
	m := NewMemoryManager(WithLimit(16), WithLogger(zerolog.Nop()))
	if _, err := m.Allocate(4, 4, UsageVertex); err != nil {
		t.Fatalf("Allocate within limit: %v", err)
	}
	if _, err := m.Allocate(4, 1, UsageVertex); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Allocate over limit: got %v", err)
	}
	if _, err := m.Allocate(0, 1, UsageVertex); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero stride: got %v", err)
	}
	if s := m.Stats(); s.Buffers != 1 || s.Bytes != 16 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestConcurrentAllocate(t *testing.T) {
	m := NewMemoryManager(WithLogger(zerolog.Nop()))
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Allocate(12, 10, UsageVertex); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if s := m.Stats(); s.Buffers != 32 || s.Bytes != 32*120 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestBlitFloats(t *testing.T) {
	dst := make([]byte, 8)
	PutFloat32s(dst, []float32{1.5, -2})
	if Float32At(dst, 0) != 1.5 || Float32At(dst, 4) != -2 {
		t.Errorf("floats = %v, %v", Float32At(dst, 0), Float32At(dst, 4))
	}
	PutUint32s(dst, []uint32{70000, 1})
	if Uint32At(dst, 0) != 70000 || Uint32At(dst, 1) != 1 {
		t.Errorf("uint32s = %v, %v", Uint32At(dst, 0), Uint32At(dst, 1))
	}
	if got := (UsageVertex | StaticWriteOnly).String(); got != "vertex|static|writeonly" {
		t.Errorf("Usage.String = %q", got)
	}
}
