package edgestore_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/edgestore"
	"github.com/gaissmai/vgraph/internal/ix"
)

func TestAppendAndWalk(t *testing.T) {
	s := edgestore.New()
	e2 := s.AppendRecord(20, ix.Null[ix.EdgeListTag]())
	e1 := s.AppendRecord(10, e2)

	var targets []uint64
	s.Walk(e1, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		targets = append(targets, rec.Target)
		return true
	})
	want := []uint64{10, 20}
	if len(targets) != len(want) {
		t.Fatalf("len: want %d, got %d", len(want), len(targets))
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("targets[%d]: want %d, got %d", i, want[i], targets[i])
		}
	}
}

func TestLenAccountsForRemoval(t *testing.T) {
	s := edgestore.New()
	e2 := s.AppendRecord(20, ix.Null[ix.EdgeListTag]())
	e1 := s.AppendRecord(10, e2)
	s.AppendRecord(30, ix.Null[ix.EdgeListTag]())
	s.AppendRecord(40, ix.Null[ix.EdgeListTag]())

	if got := s.RecordCount(); got != 4 {
		t.Fatalf("record count: want 4, got %d", got)
	}
	if got := s.Len(); got != 2 {
		t.Fatalf("edge count: want 2, got %d", got)
	}

	newHead := s.RemoveMatching(e1, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		return rec.Target == 10
	})
	var remaining []uint64
	s.Walk(newHead, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		remaining = append(remaining, rec.Target)
		return true
	})
	if len(remaining) != 1 || remaining[0] != 20 {
		t.Fatalf("remaining after removal: want [20], got %v", remaining)
	}
}

func TestDefragmentCompacts(t *testing.T) {
	s := edgestore.New()
	e2 := s.AppendRecord(20, ix.Null[ix.EdgeListTag]())
	e1 := s.AppendRecord(10, e2)

	s.RemoveMatching(e1, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		return rec.Target == 10
	})

	updates := s.Defragment()
	newPtr, ok := updates[e2]
	if !ok {
		t.Fatalf("expected surviving record e2 to have an update entry")
	}
	rec, ok := s.GetRecord(newPtr)
	if !ok || rec.Target != 20 {
		t.Fatalf("record after defragment: want target 20, got %+v ok=%v", rec, ok)
	}
	if got := s.RecordCount(); got != 1 {
		t.Fatalf("record count after defragment: want 1, got %d", got)
	}
}

// TestLenCountsReversingSelfEdgeAsWhole checks that a reversing self-loop
// (one physical record) counts as one edge alongside an ordinary edge (two
// physical records), and that removing either one leaves the count
// reflecting only the survivor.
func TestLenCountsReversingSelfEdgeAsWhole(t *testing.T) {
	s := edgestore.New()

	// one ordinary edge: two records, opposite directions.
	e2 := s.AppendRecord(20, ix.Null[ix.EdgeListTag]())
	e1 := s.AppendRecord(10, ix.Null[ix.EdgeListTag]())

	// one reversing self-loop: a single record.
	selfEdge := s.AppendRecord(30, ix.Null[ix.EdgeListTag]())
	s.MarkReversingSelfEdge()

	if got := s.RecordCount(); got != 3 {
		t.Fatalf("record count: want 3, got %d", got)
	}
	if got := s.Len(); got != 2 {
		t.Fatalf("edge count: want 2, got %d", got)
	}

	if _, ok := s.RemoveAtPointer(selfEdge); !ok {
		t.Fatalf("remove self-edge failed")
	}
	s.UnmarkReversingSelfEdge()
	if got := s.Len(); got != 1 {
		t.Fatalf("edge count after removing self-edge: want 1, got %d", got)
	}

	if _, ok := s.RemoveAtPointer(e1); !ok {
		t.Fatalf("remove e1 failed")
	}
	if _, ok := s.RemoveAtPointer(e2); !ok {
		t.Fatalf("remove e2 failed")
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("edge count after removing everything: want 0, got %d", got)
	}
}

func TestUpdateMatching(t *testing.T) {
	s := edgestore.New()
	e1 := s.AppendRecord(10, ix.Null[ix.EdgeListTag]())

	ok := s.UpdateMatching(e1, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		return rec.Target == 10
	}, func(rec edgestore.Record) edgestore.Record {
		rec.Target = 99
		return rec
	})
	if !ok {
		t.Fatalf("expected match")
	}
	rec, _ := s.GetRecord(e1)
	if rec.Target != 99 {
		t.Fatalf("target after update: want 99, got %d", rec.Target)
	}
}
