package compose

import "testing"

func TestPortAllocator_Sequential(t *testing.T) {
	p, err := NewPortAllocator(8100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := p.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != 8100+i {
			t.Fatalf("port %d = %d", i, got)
		}
	}
	if p.Issued() != 5 {
		t.Fatalf("issued=%d", p.Issued())
	}
}

func TestPortAllocator_Exhausted(t *testing.T) {
	p, err := NewPortAllocator(65534)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := p.Next(); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := p.Next(); err != nil {
		t.Fatalf("second: %v", err)
	}
	if _, err := p.Next(); !IsPortExhausted(err) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
}

func TestNewPortAllocator_RejectsOutOfRange(t *testing.T) {
	for _, base := range []int{-1, 0, 65536} {
		if _, err := NewPortAllocator(base); err == nil {
			t.Fatalf("base %d: expected error", base)
		}
	}
}
