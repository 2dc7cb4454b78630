// Package ix implements the family of strongly typed, 1-based indices used
// throughout the packed graph stores.
//
// Every index kind (node record, edge-list pointer, occurrence-list
// pointer, path step pointer, path id, sequence record) shares the same
// zero-means-null, 1-based representation; the only thing that differs
// between them is which collection they're meaningful against. Rather than
// hand-writing one newtype per kind, a single generic Index[Tag] type is
// parameterized over a phantom marker type, so the compiler still rejects
// mixing e.g. a StepPtr into an edge-list API, with none of the boilerplate
// a non-generic implementation would need per kind.
package ix

// Tag is the constraint satisfied by every phantom marker type. The marker
// types themselves carry no data; they only exist to make Index[T] nominal.
type Tag interface {
	NodeRecordTag | EdgeListTag | OccListTag | StepTag | PathTag | SeqRecordTag
}

type (
	NodeRecordTag struct{}
	EdgeListTag   struct{}
	OccListTag    struct{}
	StepTag       struct{}
	PathTag       struct{}
	SeqRecordTag  struct{}
)

// Index is a 1-based index into some packed collection, where 0 denotes
// absence, end-of-list, or an empty record, depending on context.
type Index[T Tag] uint64

// Null returns the null index for T.
func Null[T Tag]() Index[T] { return 0 }

// IsNull reports whether i is the null index.
func (i Index[T]) IsNull() bool { return i == 0 }

// FromZeroBased constructs a 1-based index from a 0-based position, e.g.
// the length of a collection prior to appending a new element to it. The
// result is never null.
func FromZeroBased[T Tag](i int) Index[T] { return Index[T](i + 1) }

// FromRecordStart constructs a 1-based index from the 0-based start offset
// of a width-wide record, e.g. len(vec) for a vector about to receive a new
// record. The result is never null.
func FromRecordStart[T Tag](recordStart, width int) Index[T] {
	return Index[T](recordStart/width + 1)
}

// FromOneBased constructs an index from an already-1-based value; zero maps
// to the null index.
func FromOneBased[T Tag](i int) Index[T] { return Index[T](i) }

// FromU64 constructs an index from a raw value, as stored in a packed
// vector slot.
func FromU64[T Tag](v uint64) Index[T] { return Index[T](v) }

// ToZeroBased returns the 0-based position addressed by i, or false if i is
// null.
func (i Index[T]) ToZeroBased() (int, bool) {
	if i == 0 {
		return 0, false
	}
	return int(i) - 1, true
}

// ToRecordStart returns the 0-based start offset of the width-wide record
// addressed by i, or false if i is null.
func (i Index[T]) ToRecordStart(width int) (int, bool) {
	if i == 0 {
		return 0, false
	}
	return (int(i) - 1) * width, true
}

// ToRecordIx returns the 0-based offset of the field-th slot of the
// width-wide record addressed by i, or false if i is null.
func (i Index[T]) ToRecordIx(width, field int) (int, bool) {
	if i == 0 {
		return 0, false
	}
	return (int(i)-1)*width + field, true
}

// Pack returns the raw u64 representation, suitable for storing in a packed
// vector slot.
func (i Index[T]) Pack() uint64 { return uint64(i) }

// Unpack is the inverse of Pack.
func Unpack[T Tag](v uint64) Index[T] { return Index[T](v) }

type (
	// NodeRecordID addresses the per-node sequence/graph/occurrence
	// records, one triple per live node.
	NodeRecordID = Index[NodeRecordTag]

	// EdgeListPtr addresses a record in the global edge-list vector.
	EdgeListPtr = Index[EdgeListTag]

	// OccListPtr addresses a record in the global occurrence vector.
	OccListPtr = Index[OccListTag]

	// StepPtr addresses a step in some path's step list. Step pointers
	// from different paths are never comparable to each other.
	StepPtr = Index[StepTag]

	// PathID addresses a path's properties record and name.
	PathID = Index[PathTag]

	// SeqRecordID addresses an (offset, length) pair in the sequence
	// store; shares numbering with NodeRecordID by construction but is
	// kept as a distinct type since not every NodeRecordID need have a
	// materialized sequence (e.g. during construction).
	SeqRecordID = Index[SeqRecordTag]
)
