// Package seqstore implements the 3-bit-per-base DNA sequence store: every
// node's sequence is appended once to a single flexible-page byte vector,
// addressed by an (offset, length) pair kept in parallel packed vectors.
// Sequence bytes are never moved once written except during an explicit
// Defragment pass; reading a sequence in its reverse-complement orientation
// costs nothing extra, since it's just an iteration in the other direction
// through the complement table.
package seqstore

import (
	"iter"

	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/packed"
)

// flexPageWidth matches the original implementation's sequence page budget,
// scaled down since this is an in-memory teaching-scale store rather than
// one built for chromosome-scale pangenomes.
const flexPageWidth = 1 << 16

// narrowPageWidth is the page size used for the offsets vector, matching
// the narrow paged variant used throughout the graph's record stores.
const narrowPageWidth = 64

var dnaEncodingTable = buildEncodingTable()

func buildEncodingTable() [256]uint64 {
	var t [256]uint64
	for i := range t {
		t[i] = 4 // N
	}
	pairs := []struct {
		b byte
		v uint64
	}{
		{'a', 0}, {'A', 0},
		{'c', 1}, {'C', 1},
		{'g', 2}, {'G', 2},
		{'t', 3}, {'T', 3},
	}
	for _, p := range pairs {
		t[p.b] = p.v
	}
	return t
}

var encodedComplementTable = [5]uint64{3, 2, 1, 0, 4}
var decodingTable = [5]byte{'A', 'C', 'G', 'T', 'N'}

// EncodeBase maps an ASCII DNA base to its 3-bit code. Anything that isn't
// one of ACGT (case-insensitively) encodes as N (4).
func EncodeBase(b byte) uint64 { return dnaEncodingTable[b] }

// DecodeBase is the inverse of EncodeBase.
func DecodeBase(v uint64) byte {
	if v > 4 {
		v = 4
	}
	return decodingTable[v]
}

// ComplementEncoded returns the 3-bit code of the complementary base (A<->T,
// C<->G, N<->N) without a decode/complement/encode round trip.
func ComplementEncoded(v uint64) uint64 {
	if v > 3 {
		return encodedComplementTable[4]
	}
	return encodedComplementTable[v]
}

// Sequences is the append-only backing store for every node's sequence.
// Record indices (ix.SeqRecordID) share numbering with ix.NodeRecordID by
// construction: sequence record n belongs to the node whose graph record is
// also n.
type Sequences struct {
	data    *packed.FlexPagedVector
	lengths packed.Vector
	offsets *packed.PagedVector
	removed map[uint64]bool
}

// New constructs an empty sequence store using the default page width.
func New() *Sequences {
	return NewWithPageWidth(flexPageWidth)
}

// NewWithPageWidth constructs an empty sequence store whose flexible byte
// pages close once they reach pageWidth encoded bases, letting callers with
// unusually large or small sequences tune the page/record tradeoff.
func NewWithPageWidth(pageWidth int) *Sequences {
	return &Sequences{
		data:    packed.NewFlexPaged(pageWidth),
		offsets: packed.NewPaged(narrowPageWidth, packed.EncodingIdentity),
		removed: make(map[uint64]bool),
	}
}

// AppendEmptyRecord reserves a new (offset, length) slot with length 0, for
// a node that has just been allocated a record but not yet given a
// sequence. Its returned id shares numbering with the corresponding node
// record id.
func (s *Sequences) AppendEmptyRecord() ix.SeqRecordID {
	s.lengths.Append(0)
	s.offsets.Append(0)
	return ix.FromOneBased[ix.SeqRecordTag](s.lengths.Len())
}

func (s *Sequences) idx(seqIx ix.SeqRecordID) int {
	i, ok := seqIx.ToZeroBased()
	if !ok {
		panic("seqstore: null SeqRecordID")
	}
	return i
}

// GetRecord returns the (offset, length) pair for seqIx.
func (s *Sequences) GetRecord(seqIx ix.SeqRecordID) (offset, length int) {
	i := s.idx(seqIx)
	return int(s.offsets.Get(i)), int(s.lengths.Get(i))
}

func (s *Sequences) setRecord(seqIx ix.SeqRecordID, offset, length int) {
	i := s.idx(seqIx)
	s.offsets.Set(i, uint64(offset))
	s.lengths.Set(i, uint64(length))
}

func (s *Sequences) appendRecord(offset, length int) ix.SeqRecordID {
	newIx := ix.FromOneBased[ix.SeqRecordTag](s.lengths.Len() + 1)
	s.lengths.Append(uint64(length))
	s.offsets.Append(uint64(offset))
	return newIx
}

// AddSequence stores seq as the sequence for the already-allocated record
// seqIx. It returns nothing; the caller already holds seqIx.
func (s *Sequences) AddSequence(seqIx ix.SeqRecordID, seq []byte) {
	offset := s.data.Len()
	s.setRecord(seqIx, offset, len(seq))
	encoded := make([]uint64, len(seq))
	for i, b := range seq {
		encoded[i] = EncodeBase(b)
	}
	s.data.AppendSeq(3, encoded)
}

// OverwriteSequence replaces the bytes of an existing sequence in place.
// seq must have the same length as the sequence currently stored at seqIx.
func (s *Sequences) OverwriteSequence(seqIx ix.SeqRecordID, seq []byte) {
	offset, oldLen := s.GetRecord(seqIx)
	if oldLen != len(seq) {
		panic("seqstore.OverwriteSequence: length mismatch")
	}
	for i, b := range seq {
		s.data.Set(offset+i, EncodeBase(b))
	}
}

// ClearRecord marks a sequence record deleted: its length/offset collapse
// to 0 and the underlying bytes are abandoned until the next Defragment.
func (s *Sequences) ClearRecord(seqIx ix.SeqRecordID) {
	i := s.idx(seqIx)
	s.offsets.Set(i, 0)
	s.lengths.Set(i, 0)
	s.removed[uint64(seqIx)] = true
}

// SplitSequence divides the sequence at seqIx into len(lengths) records: the
// first replaces seqIx's own (shortened) sequence in place, the rest are
// newly appended records covering the remaining bases in order. If the sum
// of lengths is less than the original length, a final record absorbs the
// remainder. It panics if the sum exceeds the original length.
func (s *Sequences) SplitSequence(seqIx ix.SeqRecordID, lengths []int) []ix.SeqRecordID {
	offset, total := s.GetRecord(seqIx)
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	if sum > total {
		panic("seqstore.SplitSequence: lengths exceed original sequence")
	}
	extra := total - sum

	s.setRecord(seqIx, offset, lengths[0])

	results := make([]ix.SeqRecordID, 0, len(lengths)-1+boolToInt(extra > 0))
	cur := offset + lengths[0]
	for _, l := range lengths[1:] {
		results = append(results, s.appendRecord(cur, l))
		cur += l
	}
	if extra > 0 {
		results = append(results, s.appendRecord(cur, extra))
	}
	return results
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Length returns the sequence length at seqIx.
func (s *Sequences) Length(seqIx ix.SeqRecordID) int {
	_, l := s.GetRecord(seqIx)
	return l
}

// TotalLength returns the sum of every live sequence's length.
func (s *Sequences) TotalLength() int {
	total := 0
	s.lengths.Iter(func(_ int, v uint64) bool {
		total += int(v)
		return true
	})
	return total
}

// Bases iterates the decoded bases of the sequence at seqIx, in forward
// orientation if reverse is false, or as the reverse complement if true.
func (s *Sequences) Bases(seqIx ix.SeqRecordID, reverse bool) iter.Seq[byte] {
	offset, length := s.GetRecord(seqIx)
	return func(yield func(byte) bool) {
		if !reverse {
			for i := 0; i < length; i++ {
				if !yield(DecodeBase(s.data.Get(offset + i))) {
					return
				}
			}
			return
		}
		for i := length - 1; i >= 0; i-- {
			if !yield(DecodeBase(ComplementEncoded(s.data.Get(offset + i)))) {
				return
			}
		}
	}
}

// Defragment rebuilds the sequence store so that only the records named by
// survivors remain, renumbered 1..len(survivors) in the given order, with
// their bytes compacted to eliminate the gaps left by removed records. It's
// the caller's responsibility (ordinarily the node store, which drives
// defragmentation for the whole graph) to pass survivors in the exact order
// it wants ix.NodeRecordID numbering to match afterward, since the two id
// spaces must stay in lockstep.
func (s *Sequences) Defragment(survivors []ix.SeqRecordID) {
	next := NewWithPageWidth(s.data.MaxPageLen())
	next.lengths.Reserve(len(survivors))

	for _, old := range survivors {
		offset, length := s.GetRecord(old)
		newOffset := next.data.Len()
		next.lengths.Append(uint64(length))
		next.offsets.Append(uint64(newOffset))
		encoded := make([]uint64, length)
		for i := 0; i < length; i++ {
			encoded[i] = s.data.Get(offset + i)
		}
		next.data.AppendSeq(3, encoded)
	}

	s.data = next.data
	s.lengths = next.lengths
	s.offsets = next.offsets
	s.removed = make(map[uint64]bool)
}
