package packed_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/packed"
)

func TestDequePushBackPopFront(t *testing.T) {
	d := packed.NewDeque()
	for i := uint64(0); i < 10; i++ {
		d.PushBack(i)
	}
	if d.Len() != 10 {
		t.Fatalf("len: want 10, got %d", d.Len())
	}
	for i := uint64(0); i < 10; i++ {
		if got := d.PopFront(); got != i {
			t.Fatalf("popfront(%d): want %d, got %d", i, i, got)
		}
	}
	if d.Len() != 0 {
		t.Fatalf("len after drain: want 0, got %d", d.Len())
	}
}

func TestDequePushFrontPopBack(t *testing.T) {
	d := packed.NewDeque()
	for i := uint64(0); i < 10; i++ {
		d.PushFront(i)
	}
	// front pushes reverse order: last pushed is at the front
	for i := uint64(0); i < 10; i++ {
		if got := d.PopBack(); got != i {
			t.Fatalf("popback(%d): want %d, got %d", i, i, got)
		}
	}
}

func TestDequeMixedPushesPreserveOrder(t *testing.T) {
	d := packed.NewDeque()
	d.PushBack(5)
	d.PushBack(6)
	d.PushFront(4)
	d.PushFront(3)
	d.PushBack(7)
	want := []uint64{3, 4, 5, 6, 7}
	if d.Len() != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), d.Len())
	}
	for i, w := range want {
		if got := d.Get(i); got != w {
			t.Fatalf("get(%d): want %d, got %d", i, w, got)
		}
	}
}

func TestDequeGrowsAndShrinks(t *testing.T) {
	d := packed.NewDeque()
	for i := uint64(0); i < 200; i++ {
		d.PushBack(i)
	}
	for i := 0; i < 190; i++ {
		d.PopFront()
	}
	if d.Len() != 10 {
		t.Fatalf("len: want 10, got %d", d.Len())
	}
	for i := uint64(0); i < 10; i++ {
		if got := d.Get(int(i)); got != 190+i {
			t.Fatalf("get(%d): want %d, got %d", i, 190+i, got)
		}
	}
}

func TestDequeSetOverwrites(t *testing.T) {
	d := packed.NewDeque()
	for i := uint64(0); i < 5; i++ {
		d.PushBack(i)
	}
	d.Set(2, 999)
	if got := d.Get(2); got != 999 {
		t.Fatalf("get(2): want 999, got %d", got)
	}
}

func TestDequePopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic popping empty deque")
		}
	}()
	d := packed.NewDeque()
	d.PopBack()
}

func TestDequeIterOrderAfterRotation(t *testing.T) {
	d := packed.NewDeque()
	for i := uint64(0); i < 5; i++ {
		d.PushBack(i)
	}
	d.PopFront()
	d.PopFront()
	d.PushBack(5)
	d.PushBack(6)
	var seen []uint64
	d.Iter(func(i int, val uint64) bool {
		seen = append(seen, val)
		return true
	})
	want := []uint64{2, 3, 4, 5, 6}
	if len(seen) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(seen))
	}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("seen[%d]: want %d, got %d", i, w, seen[i])
		}
	}
}
