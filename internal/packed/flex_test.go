package packed_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/packed"
)

func TestFlexPagedVectorAppendSeqWithinOnePage(t *testing.T) {
	f := packed.NewFlexPaged(8)
	f.AppendSeq(3, []uint64{0, 1, 2, 3})
	if f.Len() != 4 {
		t.Fatalf("len: want 4, got %d", f.Len())
	}
	for i, want := range []uint64{0, 1, 2, 3} {
		if got := f.Get(i); got != want {
			t.Fatalf("get(%d): want %d, got %d", i, want, got)
		}
	}
}

func TestFlexPagedVectorNeverSplitsSequence(t *testing.T) {
	f := packed.NewFlexPaged(4)
	f.AppendSeq(3, []uint64{0, 1, 2})
	f.AppendSeq(3, []uint64{3, 4, 5})
	if f.Len() != 6 {
		t.Fatalf("len: want 6, got %d", f.Len())
	}
	for i := 0; i < 6; i++ {
		if got := f.Get(i); got != uint64(i) {
			t.Fatalf("get(%d): want %d, got %d", i, i, got)
		}
	}
}

func TestFlexPagedVectorIterRange(t *testing.T) {
	f := packed.NewFlexPaged(4)
	f.AppendSeq(3, []uint64{10, 11, 12, 13, 14, 15, 16})
	var got []uint64
	f.Iter(2, 3, func(val uint64) bool {
		got = append(got, val)
		return true
	})
	want := []uint64{12, 13, 14}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestFlexPagedVectorSetAfterAppend(t *testing.T) {
	f := packed.NewFlexPaged(4)
	f.AppendSeq(3, []uint64{1, 2, 3, 4, 5})
	f.Set(4, 999)
	if got := f.Get(4); got != 999 {
		t.Fatalf("get(4): want 999, got %d", got)
	}
}
