// Package occstore implements the per-node occurrence list: for each node,
// a singly linked list recording every (path, step) pair that visits it.
// This is the structure that makes "which paths cross this node" an O(degree
// of occurrence) query instead of a scan over every path.
package occstore

import (
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/list"
	"github.com/gaissmai/vgraph/internal/packed"
)

const (
	narrowPageWidth = 64
	widePageWidth   = 1024
)

// Record is one occurrence entry: which path visits the node, at which
// step, and the next entry in the node's occurrence list.
type Record struct {
	Path ix.PathID
	Step ix.StepPtr
	Next ix.OccListPtr
}

// Store owns the global occurrence-record vectors.
type Store struct {
	pathIDs *packed.PagedVector // wide page
	offsets *packed.PagedVector // narrow page, StepPtr
	nexts   *packed.PagedVector // narrow page, OccListPtr
	removed int
}

// New constructs an empty occurrence store.
func New() *Store {
	return &Store{
		pathIDs: packed.NewPaged(widePageWidth, packed.EncodingIdentity),
		offsets: packed.NewPaged(narrowPageWidth, packed.EncodingIdentity),
		nexts:   packed.NewPaged(narrowPageWidth, packed.EncodingIdentity),
	}
}

// NextPointer and GetRecord implement list.Lister[ix.OccListTag, Record].
func (s *Store) NextPointer(rec Record) ix.OccListPtr { return rec.Next }

func (s *Store) GetRecord(ptr ix.OccListPtr) (Record, bool) {
	if ptr.IsNull() {
		return Record{}, false
	}
	i, _ := ptr.ToZeroBased()
	step := packed.GetUnpack[ix.StepTag](s.offsets, i)
	if step.IsNull() {
		return Record{}, false
	}
	path := packed.GetUnpack[ix.PathTag](s.pathIDs, i)
	next := packed.GetUnpack[ix.OccListTag](s.nexts, i)
	return Record{Path: path, Step: step, Next: next}, true
}

// RemoveAtPointer and RemoveNext implement list.MutLister[ix.OccListTag, Record].
func (s *Store) RemoveAtPointer(ptr ix.OccListPtr) (ix.OccListPtr, bool) {
	i, ok := ptr.ToZeroBased()
	if !ok {
		return ix.Null[ix.OccListTag](), false
	}
	if packed.GetUnpack[ix.StepTag](s.offsets, i).IsNull() {
		return ix.Null[ix.OccListTag](), false
	}
	next := packed.GetUnpack[ix.OccListTag](s.nexts, i)
	s.offsets.Set(i, 0)
	s.nexts.Set(i, 0)
	s.pathIDs.Set(i, 0)
	s.removed++
	return next, true
}

func (s *Store) RemoveNext(ptr ix.OccListPtr) bool {
	i, ok := ptr.ToZeroBased()
	if !ok {
		return false
	}
	next := packed.GetUnpack[ix.OccListTag](s.nexts, i)
	if next.IsNull() {
		return false
	}
	newNext, ok := s.RemoveAtPointer(next)
	if !ok {
		return false
	}
	packed.SetPack(s.nexts, i, newNext)
	return true
}

// Append adds a new occurrence entry and returns its pointer.
func (s *Store) Append(path ix.PathID, step ix.StepPtr, next ix.OccListPtr) ix.OccListPtr {
	ptr := ix.FromZeroBased[ix.OccListTag](s.pathIDs.Len())
	packed.AppendPack(s.pathIDs, path)
	packed.AppendPack(s.offsets, step)
	packed.AppendPack(s.nexts, next)
	return ptr
}

// Walk iterates the occurrence list starting at head.
func (s *Store) Walk(head ix.OccListPtr, yield func(ptr ix.OccListPtr, rec Record) bool) {
	list.Walk[ix.OccListTag, Record](s, head, yield)
}

// UpdateMatching finds the first entry reachable from head satisfying match
// and overwrites it via update. Reports whether an entry was found.
func (s *Store) UpdateMatching(head ix.OccListPtr, match func(ptr ix.OccListPtr, rec Record) bool, update func(rec Record) Record) bool {
	found := false
	s.Walk(head, func(ptr ix.OccListPtr, rec Record) bool {
		if match(ptr, rec) {
			updated := update(rec)
			i, _ := ptr.ToZeroBased()
			packed.SetPack(s.pathIDs, i, updated.Path)
			packed.SetPack(s.offsets, i, updated.Step)
			found = true
			return false
		}
		return true
	})
	return found
}

// RemoveMatching removes every occurrence entry reachable from head that
// satisfies match, returning the (possibly updated) head pointer. Used when
// a path is deleted or a step is removed: every occurrence naming that
// path/step pair must go with it.
func (s *Store) RemoveMatching(head ix.OccListPtr, match func(ptr ix.OccListPtr, rec Record) bool) ix.OccListPtr {
	return list.RemoveAllMatching[ix.OccListTag, Record](s, head, match)
}

// Len returns the number of live occurrence entries.
func (s *Store) Len() int { return s.pathIDs.Len() - s.removed }

// Defragment compacts removed entries out of the backing vectors, returning
// a map from every surviving entry's old pointer to its new pointer.
func (s *Store) Defragment() map[ix.OccListPtr]ix.OccListPtr {
	if s.removed == 0 {
		return nil
	}
	total := s.pathIDs.Len()
	kept := total - s.removed

	newPathIDs := packed.NewPaged(widePageWidth, packed.EncodingIdentity)
	newOffsets := packed.NewPaged(narrowPageWidth, packed.EncodingIdentity)
	newNexts := packed.NewPaged(narrowPageWidth, packed.EncodingIdentity)
	newPathIDs.Reserve(kept)
	newOffsets.Reserve(kept)
	newNexts.Reserve(kept)

	updates := make(map[ix.OccListPtr]ix.OccListPtr, kept)

	for i := 0; i < total; i++ {
		step := packed.GetUnpack[ix.StepTag](s.offsets, i)
		if step.IsNull() {
			continue
		}
		oldPtr := ix.FromZeroBased[ix.OccListTag](i)
		newPtr := ix.FromZeroBased[ix.OccListTag](newPathIDs.Len())
		updates[oldPtr] = newPtr

		path := packed.GetUnpack[ix.PathTag](s.pathIDs, i)
		next := packed.GetUnpack[ix.OccListTag](s.nexts, i)

		packed.AppendPack(newPathIDs, path)
		packed.AppendPack(newOffsets, step)
		packed.AppendPack(newNexts, next)
	}

	for i := 0; i < kept; i++ {
		oldNext := packed.GetUnpack[ix.OccListTag](newNexts, i)
		if oldNext.IsNull() {
			continue
		}
		newNexts.Set(i, updates[oldNext].Pack())
	}

	s.pathIDs = newPathIDs
	s.offsets = newOffsets
	s.nexts = newNexts
	s.removed = 0
	return updates
}
