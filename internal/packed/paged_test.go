package packed_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/packed"
)

func TestPagedVectorIdentityRoundTrip(t *testing.T) {
	p := packed.NewPaged(4, packed.EncodingIdentity)
	for i := uint64(0); i < 17; i++ {
		p.Append(i * 10)
	}
	if p.Len() != 17 {
		t.Fatalf("len: want 17, got %d", p.Len())
	}
	for i := uint64(0); i < 17; i++ {
		if got := p.Get(int(i)); got != i*10 {
			t.Fatalf("get(%d): want %d, got %d", i, i*10, got)
		}
	}
}

func TestPagedVectorXOREncoding(t *testing.T) {
	p := packed.NewPaged(4, packed.EncodingXOR)
	values := []uint64{100, 101, 102, 103, 200, 201}
	for _, v := range values {
		p.Append(v)
	}
	for i, want := range values {
		if got := p.Get(i); got != want {
			t.Fatalf("get(%d): want %d, got %d", i, want, got)
		}
	}
}

func TestPagedVectorDifferentialEncoding(t *testing.T) {
	p := packed.NewPaged(4, packed.EncodingDifferential)
	values := []uint64{1000, 998, 1010, 995, 5, 3}
	for _, v := range values {
		p.Append(v)
	}
	for i, want := range values {
		if got := p.Get(i); got != want {
			t.Fatalf("get(%d): want %d, got %d", i, want, got)
		}
	}
}

func TestPagedVectorSetAcrossPages(t *testing.T) {
	p := packed.NewPaged(2, packed.EncodingIdentity)
	for i := 0; i < 6; i++ {
		p.Append(0)
	}
	p.Set(5, 777)
	p.Set(0, 111)
	if got := p.Get(5); got != 777 {
		t.Fatalf("get(5): want 777, got %d", got)
	}
	if got := p.Get(0); got != 111 {
		t.Fatalf("get(0): want 111, got %d", got)
	}
}

func TestPagedVectorIterStopsEarly(t *testing.T) {
	p := packed.NewPaged(3, packed.EncodingIdentity)
	for i := uint64(0); i < 10; i++ {
		p.Append(i)
	}
	count := 0
	p.Iter(func(i int, val uint64) bool {
		count++
		return i < 4
	})
	if count != 5 {
		t.Fatalf("want 5 iterations, got %d", count)
	}
}
