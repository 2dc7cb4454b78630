// Package edgestore implements the single global edge-list vector that
// backs every node's two (left- and right-side) adjacency lists. Each
// record is a (target handle, next pointer) pair; a node's edge list is a
// singly linked chain of these records threaded through the same packed
// vector every other node's edges live in.
package edgestore

import (
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/list"
	"github.com/gaissmai/vgraph/internal/packed"
)

const widePageWidth = 1024

// Record is one edge-list entry: the packed handle of the edge's target,
// and the pointer to the next record in whatever list this record belongs
// to.
type Record struct {
	Target uint64
	Next   ix.EdgeListPtr
}

// Store owns the global edge-record vector.
type Store struct {
	rec                *packed.PagedVector // width-2: target, next
	removed            []ix.EdgeListPtr
	removedCount       int
	reversingSelfEdges int
}

// New constructs an empty edge store.
func New() *Store {
	return &Store{rec: packed.NewPaged(widePageWidth, packed.EncodingIdentity)}
}

func (s *Store) offset(ptr ix.EdgeListPtr) int {
	off, ok := ptr.ToRecordStart(2)
	if !ok {
		panic("edgestore: null EdgeListPtr")
	}
	return off
}

// NextPointer and GetRecord implement list.Lister[ix.EdgeListTag, Record].
func (s *Store) NextPointer(rec Record) ix.EdgeListPtr { return rec.Next }

func (s *Store) GetRecord(ptr ix.EdgeListPtr) (Record, bool) {
	if ptr.IsNull() {
		return Record{}, false
	}
	off := s.offset(ptr)
	target := s.rec.Get(off)
	if target == 0 {
		return Record{}, false
	}
	next := packed.GetUnpack[ix.EdgeListTag](s.rec, off+1)
	return Record{Target: target, Next: next}, true
}

// RemoveAtPointer and RemoveNext implement list.MutLister[ix.EdgeListTag, Record].
func (s *Store) RemoveAtPointer(ptr ix.EdgeListPtr) (ix.EdgeListPtr, bool) {
	off := s.offset(ptr)
	if s.rec.Get(off) == 0 {
		return ix.Null[ix.EdgeListTag](), false
	}
	next := packed.GetUnpack[ix.EdgeListTag](s.rec, off+1)
	s.rec.Set(off, 0)
	s.rec.Set(off+1, 0)
	s.removed = append(s.removed, ptr)
	s.removedCount++
	return next, true
}

func (s *Store) RemoveNext(ptr ix.EdgeListPtr) bool {
	off := s.offset(ptr)
	next := packed.GetUnpack[ix.EdgeListTag](s.rec, off+1)
	if next.IsNull() {
		return false
	}
	newNext, ok := s.RemoveAtPointer(next)
	if !ok {
		return false
	}
	packed.SetPack(s.rec, off+1, newNext)
	return true
}

// AppendRecord creates a new record pointing at target with the given next
// pointer, returning the new record's own pointer.
func (s *Store) AppendRecord(target uint64, next ix.EdgeListPtr) ix.EdgeListPtr {
	ptr := ix.FromRecordStart[ix.EdgeListTag](s.rec.Len(), 2)
	s.rec.Append(target)
	packed.AppendPack(s.rec, next)
	return ptr
}

// SetRecord overwrites an existing record's contents.
func (s *Store) SetRecord(ptr ix.EdgeListPtr, target uint64, next ix.EdgeListPtr) {
	off := s.offset(ptr)
	s.rec.Set(off, target)
	packed.SetPack(s.rec, off+1, next)
}

// RecordCount returns the total number of records, live and removed.
func (s *Store) RecordCount() int { return s.rec.Len() / 2 }

// MarkReversingSelfEdge notes that the record just appended represents a
// reversing self-loop: an edge whose two directed representations select
// the same node's same side, so CreateEdge stores it as a single physical
// record instead of the usual two. Len needs this counted separately, since
// dividing by two would otherwise treat the one record as half an edge.
func (s *Store) MarkReversingSelfEdge() { s.reversingSelfEdges++ }

// UnmarkReversingSelfEdge is the inverse, called when a reversing
// self-edge's one record is removed.
func (s *Store) UnmarkReversingSelfEdge() { s.reversingSelfEdges-- }

// Len returns the number of live edges. An ordinary edge occupies two
// records, one per direction; a reversing self-loop occupies one record but
// still counts as a whole edge, hence the correction term.
func (s *Store) Len() int {
	return (s.RecordCount() - s.removedCount + s.reversingSelfEdges) / 2
}

// Walk iterates the edge list starting at head, in list order.
func (s *Store) Walk(head ix.EdgeListPtr, yield func(ptr ix.EdgeListPtr, rec Record) bool) {
	list.Walk[ix.EdgeListTag, Record](s, head, yield)
}

// RemoveMatching removes every record reachable from head satisfying match,
// returning the (possibly updated) head pointer.
func (s *Store) RemoveMatching(head ix.EdgeListPtr, match func(ptr ix.EdgeListPtr, rec Record) bool) ix.EdgeListPtr {
	return list.RemoveAllMatching[ix.EdgeListTag, Record](s, head, match)
}

// RemoveFirstMatching removes the first record reachable from head
// satisfying match, returning the (possibly updated) head pointer and
// whether a record was removed.
func (s *Store) RemoveFirstMatching(head ix.EdgeListPtr, match func(ptr ix.EdgeListPtr, rec Record) bool) (ix.EdgeListPtr, bool) {
	return list.RemoveFirstMatching[ix.EdgeListTag, Record](s, head, match)
}

// UpdateMatching finds the first record reachable from head satisfying
// match and overwrites it via update. Reports whether a record was found.
func (s *Store) UpdateMatching(head ix.EdgeListPtr, match func(ptr ix.EdgeListPtr, rec Record) bool, update func(rec Record) Record) bool {
	found := false
	s.Walk(head, func(ptr ix.EdgeListPtr, rec Record) bool {
		if match(ptr, rec) {
			updated := update(rec)
			s.SetRecord(ptr, updated.Target, updated.Next)
			found = true
			return false
		}
		return true
	})
	return found
}

// TransformTargets rewrites every live record's target handle via
// transform, leaving next pointers untouched. Used when node ids are
// renumbered (ApplyOrdering) or a node's strand convention flips
// (ApplyOrientation's caller handles that case directly; this helper
// covers the bulk renumbering case).
func (s *Store) TransformTargets(transform func(uint64) uint64) {
	total := s.RecordCount()
	for i := 0; i < total; i++ {
		target := s.rec.Get(i * 2)
		if target == 0 {
			continue
		}
		s.rec.Set(i*2, transform(target))
	}
}

// Defragment compacts removed records out of the backing vector, returning
// a map from every surviving record's old pointer to its new pointer. The
// caller (the node store, for the heads it holds, and any in-flight list
// traversal) must rewrite stored pointers using this map.
func (s *Store) Defragment() map[ix.EdgeListPtr]ix.EdgeListPtr {
	total := s.RecordCount()
	updates := make(map[ix.EdgeListPtr]ix.EdgeListPtr, total-s.removedCount)

	for i := 0; i < total; i++ {
		old := ix.FromZeroBased[ix.EdgeListTag](i)
		if s.rec.Get(i * 2) != 0 {
			updates[old] = ix.FromZeroBased[ix.EdgeListTag](len(updates))
		}
	}

	newRec := packed.NewPaged(widePageWidth, packed.EncodingIdentity)
	newRec.Reserve((total - s.removedCount) * 2)

	for i := 0; i < total; i++ {
		target := s.rec.Get(i * 2)
		if target == 0 {
			continue
		}
		oldNext := packed.GetUnpack[ix.EdgeListTag](s.rec, i*2+1)
		newNext := updates[oldNext] // zero value (null) if oldNext was null or removed
		newRec.Append(target)
		packed.AppendPack(newRec, newNext)
	}

	s.rec = newRec
	s.removed = nil
	s.removedCount = 0
	return updates
}
