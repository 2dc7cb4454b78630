package list_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/list"
)

type record struct {
	value int
	next  ix.Index[ix.EdgeListTag]
	prev  ix.Index[ix.EdgeListTag]
	live  bool
}

// fixture is a minimal in-memory MutLister/DoubleLister used only to
// exercise the list package's traversal and removal algorithms against a
// known record layout.
type fixture struct {
	records []record // 1-based: records[0] is a dummy, real records start at index 1
}

func newFixture(values ...int) (*fixture, ix.Index[ix.EdgeListTag]) {
	f := &fixture{records: make([]record, 1)}
	var head, prev ix.Index[ix.EdgeListTag]
	for i, v := range values {
		f.records = append(f.records, record{value: v, live: true})
		ptr := ix.FromOneBased[ix.EdgeListTag](len(f.records) - 1)
		if i == 0 {
			head = ptr
		} else {
			p, _ := prev.ToZeroBased()
			f.records[p+1].next = ptr
			f.records[ptr2idx(ptr)].prev = prev
		}
		prev = ptr
	}
	return f, head
}

func ptr2idx(ptr ix.Index[ix.EdgeListTag]) int {
	i, _ := ptr.ToZeroBased()
	return i + 1
}

func (f *fixture) NextPointer(rec record) ix.Index[ix.EdgeListTag] { return rec.next }
func (f *fixture) PrevPointer(rec record) ix.Index[ix.EdgeListTag] { return rec.prev }

func (f *fixture) GetRecord(ptr ix.Index[ix.EdgeListTag]) (record, bool) {
	if ptr.IsNull() {
		return record{}, false
	}
	idx := ptr2idx(ptr)
	if idx >= len(f.records) || !f.records[idx].live {
		return record{}, false
	}
	return f.records[idx], true
}

func (f *fixture) RemoveAtPointer(ptr ix.Index[ix.EdgeListTag]) (ix.Index[ix.EdgeListTag], bool) {
	idx := ptr2idx(ptr)
	if idx >= len(f.records) || !f.records[idx].live {
		return ix.Null[ix.EdgeListTag](), false
	}
	next := f.records[idx].next
	f.records[idx].live = false
	return next, true
}

func (f *fixture) RemoveNext(ptr ix.Index[ix.EdgeListTag]) bool {
	idx := ptr2idx(ptr)
	if idx >= len(f.records) || !f.records[idx].live {
		return false
	}
	nextPtr := f.records[idx].next
	if nextPtr.IsNull() {
		return false
	}
	nextIdx := ptr2idx(nextPtr)
	afterNext := f.records[nextIdx].next
	f.records[idx].next = afterNext
	f.records[nextIdx].live = false
	return true
}

func TestWalkVisitsInOrder(t *testing.T) {
	f, head := newFixture(1, 2, 3, 4)
	var got []int
	list.Walk[ix.EdgeListTag, record](f, head, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		got = append(got, rec.value)
		return true
	})
	want := []int{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestCount(t *testing.T) {
	f, head := newFixture(1, 2, 3)
	if n := list.Count[ix.EdgeListTag, record](f, head); n != 3 {
		t.Fatalf("count: want 3, got %d", n)
	}
}

func TestRemoveFirstMatchingHead(t *testing.T) {
	f, head := newFixture(1, 2, 3)
	newHead, removed := list.RemoveFirstMatching[ix.EdgeListTag, record](f, head, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		return rec.value == 1
	})
	if !removed {
		t.Fatalf("expected removal")
	}
	var got []int
	list.Walk[ix.EdgeListTag, record](f, newHead, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		got = append(got, rec.value)
		return true
	})
	want := []int{2, 3}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestRemoveFirstMatchingMiddle(t *testing.T) {
	f, head := newFixture(1, 2, 3, 4)
	newHead, removed := list.RemoveFirstMatching[ix.EdgeListTag, record](f, head, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		return rec.value == 3
	})
	if !removed {
		t.Fatalf("expected removal")
	}
	var got []int
	list.Walk[ix.EdgeListTag, record](f, newHead, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		got = append(got, rec.value)
		return true
	})
	want := []int{1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestRemoveAllMatchingEven(t *testing.T) {
	f, head := newFixture(1, 2, 3, 4, 5, 6)
	newHead := list.RemoveAllMatching[ix.EdgeListTag, record](f, head, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		return rec.value%2 == 0
	})
	var got []int
	list.Walk[ix.EdgeListTag, record](f, newHead, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		got = append(got, rec.value)
		return true
	})
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWalkBackward(t *testing.T) {
	f, head := newFixture(1, 2, 3)
	var tail ix.Index[ix.EdgeListTag]
	list.Walk[ix.EdgeListTag, record](f, head, func(ptr ix.Index[ix.EdgeListTag], _ record) bool {
		tail = ptr
		return true
	})
	var got []int
	list.WalkBackward[ix.EdgeListTag, record](f, tail, func(_ ix.Index[ix.EdgeListTag], rec record) bool {
		got = append(got, rec.value)
		return true
	})
	want := []int{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]: want %d, got %d", i, want[i], got[i])
		}
	}
}
