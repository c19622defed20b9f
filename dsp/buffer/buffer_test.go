package buffer

import (
	"errors"
	"testing"
)

func TestNewZeroFilled(t *testing.T) {
	b := New[float64](8)
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewNegativeLength(t *testing.T) {
	b := New[byte](-1)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for negative input", b.Len())
	}
}

func TestFromSliceSharesMemory(t *testing.T) {
	s := []float64{1, 2, 3}
	b := FromSlice(s)
	b.Samples()[0] = 99
	if s[0] != 99 {
		t.Fatal("FromSlice should share underlying memory")
	}
}

func TestGrowPreservesData(t *testing.T) {
	b := New[int16](4)
	b.Samples()[0] = 42
	if err := b.Grow(16); err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if b.Cap() < 16 {
		t.Fatalf("Cap() = %d, want >= 16", b.Cap())
	}
	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 after Grow", b.Len())
	}
	if b.Samples()[0] != 42 {
		t.Fatal("Grow did not preserve data")
	}
}

func TestGrowNoOpWhenSufficient(t *testing.T) {
	b := New[float64](4)
	origCap := b.Cap()
	if err := b.Grow(origCap); err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if b.Cap() != origCap {
		t.Fatal("Grow should be no-op when capacity is sufficient")
	}
}

func TestResizeNeverShrinksCapacity(t *testing.T) {
	b := New[byte](0)
	sizes := []int{16, 64, 8, 32, 64, 0, 48}
	prevCap := 0
	for _, n := range sizes {
		if err := b.Resize(n); err != nil {
			t.Fatalf("Resize(%d) error = %v", n, err)
		}
		if b.Len() != n {
			t.Fatalf("Len() = %d, want %d", b.Len(), n)
		}
		if b.Cap() < prevCap {
			t.Fatalf("Cap() shrank from %d to %d", prevCap, b.Cap())
		}
		prevCap = b.Cap()
	}
	if prevCap != 64 {
		t.Fatalf("Cap() = %d, want 64", prevCap)
	}
}

func TestResizeReuseClearsStaleData(t *testing.T) {
	b := FromSlice([]float32{1, 2, 3, 4})
	if err := b.Resize(2); err != nil {
		t.Fatal(err)
	}
	if err := b.Resize(4); err != nil {
		t.Fatal(err)
	}
	// Elements 2 and 3 should be zeroed even though capacity was reused.
	if b.Samples()[2] != 0 || b.Samples()[3] != 0 {
		t.Fatalf("stale data visible after Resize: %v", b.Samples())
	}
	if b.Samples()[0] != 1 || b.Samples()[1] != 2 {
		t.Fatalf("Resize did not preserve existing data: %v", b.Samples())
	}
}

func TestResizeNegative(t *testing.T) {
	b := New[float64](4)
	if err := b.Resize(-1); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
}

func TestLimitRejectsGrowth(t *testing.T) {
	b := New[byte](8)
	b.SetLimit(32)

	err := b.Resize(33)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("Resize(33) error = %v, want ErrLimitExceeded", err)
	}
	if b.Len() != 8 || b.Cap() != 8 {
		t.Fatalf("failed Resize changed buffer: len=%d cap=%d", b.Len(), b.Cap())
	}

	if err := b.Resize(32); err != nil {
		t.Fatalf("Resize(32) error = %v", err)
	}

	b.SetLimit(0)
	if err := b.Resize(1024); err != nil {
		t.Fatalf("Resize after removing limit error = %v", err)
	}
}

func TestZero(t *testing.T) {
	b := FromSlice([]float64{1, 2, 3})
	b.Zero()
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v after Zero", i, v)
		}
	}
}

func TestRelease(t *testing.T) {
	b := New[float64](16)
	b.Release()
	if b.Len() != 0 || b.Cap() != 0 {
		t.Fatalf("after Release len=%d cap=%d, want 0 0", b.Len(), b.Cap())
	}
	if err := b.Resize(4); err != nil {
		t.Fatalf("Resize after Release error = %v", err)
	}
}
