package packed_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/packed"
)

func TestRobustVectorStaysInHead(t *testing.T) {
	r := packed.NewRobust(8)
	for i := uint64(0); i < 8; i++ {
		r.Append(i)
	}
	if r.Len() != 8 {
		t.Fatalf("len: want 8, got %d", r.Len())
	}
	for i := uint64(0); i < 8; i++ {
		if got := r.Get(int(i)); got != i {
			t.Fatalf("get(%d): want %d, got %d", i, i, got)
		}
	}
}

func TestRobustVectorSpillsToPagedTail(t *testing.T) {
	r := packed.NewRobust(4)
	for i := uint64(0); i < 20; i++ {
		r.Append(i * i)
	}
	if r.Len() != 20 {
		t.Fatalf("len: want 20, got %d", r.Len())
	}
	for i := uint64(0); i < 20; i++ {
		if got := r.Get(int(i)); got != i*i {
			t.Fatalf("get(%d): want %d, got %d", i, i*i, got)
		}
	}
}

func TestRobustVectorSetHeadAndTail(t *testing.T) {
	r := packed.NewRobust(4)
	for i := 0; i < 10; i++ {
		r.Append(0)
	}
	r.Set(1, 42)
	r.Set(8, 99)
	if got := r.Get(1); got != 42 {
		t.Fatalf("get(1): want 42, got %d", got)
	}
	if got := r.Get(8); got != 99 {
		t.Fatalf("get(8): want 99, got %d", got)
	}
}

func TestRobustVectorIterOrder(t *testing.T) {
	r := packed.NewRobust(2)
	for i := uint64(0); i < 6; i++ {
		r.Append(i)
	}
	var seen []uint64
	r.Iter(func(i int, val uint64) bool {
		seen = append(seen, val)
		return true
	})
	if len(seen) != 6 {
		t.Fatalf("want 6 elements, got %d", len(seen))
	}
	for i, v := range seen {
		if v != uint64(i) {
			t.Fatalf("seen[%d]: want %d, got %d", i, i, v)
		}
	}
}
