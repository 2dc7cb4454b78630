package ix_test

import (
	"testing"

	"github.com/gaissmai/vgraph/internal/ix"
)

func TestNullDiscipline(t *testing.T) {
	var z ix.StepPtr
	if !z.IsNull() {
		t.Fatalf("zero value must be null")
	}
	if _, ok := z.ToZeroBased(); ok {
		t.Fatalf("null index must not convert to zero-based")
	}
}

func TestFromZeroBasedRoundTrip(t *testing.T) {
	for i := 0; i < 10; i++ {
		idx := ix.FromZeroBased[ix.StepTag](i)
		if idx.IsNull() {
			t.Fatalf("index from zero-based %d must not be null", i)
		}
		got, ok := idx.ToZeroBased()
		if !ok || got != i {
			t.Fatalf("round trip: want %d, got %d, ok=%v", i, got, ok)
		}
	}
}

func TestRecordIx(t *testing.T) {
	idx := ix.FromOneBased[ix.StepTag](3)
	start, ok := idx.ToRecordStart(2)
	if !ok || start != 4 {
		t.Fatalf("record start: want 4, got %d ok=%v", start, ok)
	}
	field, ok := idx.ToRecordIx(2, 1)
	if !ok || field != 5 {
		t.Fatalf("record field: want 5, got %d ok=%v", field, ok)
	}
}

func TestPackUnpack(t *testing.T) {
	idx := ix.FromOneBased[ix.PathTag](42)
	if got := ix.Unpack[ix.PathTag](idx.Pack()); got != idx {
		t.Fatalf("pack/unpack mismatch: %v != %v", got, idx)
	}
}

func TestFromRecordStart(t *testing.T) {
	// a vector of width-2 records already holding 3 records (6 slots);
	// the next record starts at slot 6, and should map to the 4th
	// 1-based record id.
	idx := ix.FromRecordStart[ix.NodeRecordTag](6, 2)
	if idx != ix.FromOneBased[ix.NodeRecordTag](4) {
		t.Fatalf("from record start: got %v", idx)
	}
}
