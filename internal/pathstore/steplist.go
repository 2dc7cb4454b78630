// Package pathstore implements embedded paths as doubly linked step lists:
// one StepList per path, threaded through a pair of robust paged vectors
// (handle, and prev/next links), plus the path-level properties (name,
// head/tail pointers, circularity, deletion) and the name <-> id map every
// path is addressed by.
package pathstore

import (
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/list"
	"github.com/gaissmai/vgraph/internal/packed"
)

const narrowPageWidth = 64

// Step is a reified step record: the handle occupying this step, and its
// neighbors in the path.
type Step struct {
	Handle uint64
	Prev   ix.StepPtr
	Next   ix.StepPtr
}

// StepList is one path's doubly linked sequence of steps.
type StepList struct {
	steps        *packed.RobustVector // one handle per step
	links        *packed.RobustVector // two entries per step: prev, next
	removedSteps int
	deleted      bool
}

// NewStepList constructs an empty step list.
func NewStepList() *StepList {
	return &StepList{
		steps: packed.NewRobust(narrowPageWidth),
		links: packed.NewRobust(narrowPageWidth),
	}
}

// Len returns the number of live steps; 0 if the path has been deleted.
func (s *StepList) Len() int {
	if s.deleted {
		return 0
	}
	return s.steps.Len() - s.removedSteps
}

// StorageLen returns the total number of step slots, live and removed.
func (s *StepList) StorageLen() int { return s.steps.Len() }

// MarkDeleted flags the whole path as removed; Len immediately reports 0.
func (s *StepList) MarkDeleted() { s.deleted = true }

// Deleted reports whether the path has been marked removed.
func (s *StepList) Deleted() bool { return s.deleted }

func (s *StepList) linkOffset(ptr ix.StepPtr) int {
	off, ok := ptr.ToRecordStart(2)
	if !ok {
		panic("pathstore: null StepPtr")
	}
	return off
}

func (s *StepList) stepOffset(ptr ix.StepPtr) int {
	off, ok := ptr.ToZeroBased()
	if !ok {
		panic("pathstore: null StepPtr")
	}
	return off
}

// AppendStepRecord creates a new step at the tail of storage with the given
// neighbor links already known (the caller is responsible for patching the
// previous tail's next pointer).
func (s *StepList) AppendStepRecord(handle uint64, prev, next ix.StepPtr) ix.StepPtr {
	newIx := ix.FromZeroBased[ix.StepTag](s.steps.Len())
	s.steps.Append(handle)
	s.links.Append(prev.Pack())
	s.links.Append(next.Pack())
	return newIx
}

// GetStep resolves a pointer to its full step record.
func (s *StepList) GetStep(ptr ix.StepPtr) (Step, bool) {
	if ptr.IsNull() {
		return Step{}, false
	}
	handle := s.steps.Get(s.stepOffset(ptr))
	off := s.linkOffset(ptr)
	prev := packed.GetUnpack[ix.StepTag](s.links, off)
	next := packed.GetUnpack[ix.StepTag](s.links, off+1)
	return Step{Handle: handle, Prev: prev, Next: next}, true
}

// SetHandle overwrites the handle stored at an existing, live step, used
// when a node's orientation convention changes underneath the path (e.g.
// ApplyOrientation) without otherwise touching the step's position.
func (s *StepList) SetHandle(ptr ix.StepPtr, handle uint64) {
	s.steps.Set(s.stepOffset(ptr), handle)
}

// InsertAfter splits a new step in immediately after ptr, patching the
// surrounding links. It reports false if ptr is null.
func (s *StepList) InsertAfter(ptr ix.StepPtr, handle uint64) (ix.StepPtr, bool) {
	if ptr.IsNull() {
		return ix.Null[ix.StepTag](), false
	}
	newIx := ix.FromZeroBased[ix.StepTag](s.steps.Len())
	off := s.linkOffset(ptr)

	s.steps.Append(handle)

	nextPtr := packed.GetUnpack[ix.StepTag](s.links, off+1)
	if !nextPtr.IsNull() {
		nOff := s.linkOffset(nextPtr)
		packed.SetPack(s.links, nOff, newIx)
	}

	s.links.Append(ptr.Pack())
	s.links.Append(nextPtr.Pack())

	packed.SetPack(s.links, off+1, newIx)

	return newIx, true
}

// InsertBefore is the mirror of InsertAfter, splicing the new step in
// immediately before ptr.
func (s *StepList) InsertBefore(ptr ix.StepPtr, handle uint64) (ix.StepPtr, bool) {
	if ptr.IsNull() {
		return ix.Null[ix.StepTag](), false
	}
	newIx := ix.FromZeroBased[ix.StepTag](s.steps.Len())
	off := s.linkOffset(ptr)

	s.steps.Append(handle)

	prevPtr := packed.GetUnpack[ix.StepTag](s.links, off)
	if !prevPtr.IsNull() {
		pOff := s.linkOffset(prevPtr)
		packed.SetPack(s.links, pOff+1, newIx)
	}

	s.links.Append(prevPtr.Pack())
	s.links.Append(ptr.Pack())

	packed.SetPack(s.links, off, newIx)

	return newIx, true
}

// NextPointer, PrevPointer, and GetRecord implement
// list.DoubleLister[ix.StepTag, Step].
func (s *StepList) NextPointer(rec Step) ix.StepPtr { return rec.Next }
func (s *StepList) PrevPointer(rec Step) ix.StepPtr { return rec.Prev }

func (s *StepList) GetRecord(ptr ix.StepPtr) (Step, bool) {
	if ptr.IsNull() {
		return Step{}, false
	}
	step, ok := s.GetStep(ptr)
	if !ok || step.Handle == 0 {
		return Step{}, false
	}
	return step, true
}

// RemoveAtPointer and RemoveNext implement list.MutLister[ix.StepTag, Step],
// with the four-case prev/next link patch: both neighbors live, only a
// successor, only a predecessor, or neither.
func (s *StepList) RemoveAtPointer(ptr ix.StepPtr) (ix.StepPtr, bool) {
	step, ok := s.GetRecord(ptr)
	if !ok {
		return ix.Null[ix.StepTag](), false
	}
	prev, next := step.Prev, step.Next

	switch {
	case !prev.IsNull() && !next.IsNull():
		pOff := s.linkOffset(prev)
		nOff := s.linkOffset(next)
		packed.SetPack(s.links, pOff+1, next)
		packed.SetPack(s.links, nOff, prev)
	case prev.IsNull() && !next.IsNull():
		nOff := s.linkOffset(next)
		packed.SetPack(s.links, nOff, ix.Null[ix.StepTag]())
	case !prev.IsNull() && next.IsNull():
		pOff := s.linkOffset(prev)
		packed.SetPack(s.links, pOff+1, ix.Null[ix.StepTag]())
	}

	s.steps.Set(s.stepOffset(ptr), 0)
	off := s.linkOffset(ptr)
	s.links.Set(off, 0)
	s.links.Set(off+1, 0)
	s.removedSteps++

	return next, true
}

func (s *StepList) RemoveNext(ptr ix.StepPtr) bool {
	step, ok := s.GetRecord(ptr)
	if !ok {
		return false
	}
	if step.Next.IsNull() {
		return false
	}
	_, ok = s.RemoveAtPointer(step.Next)
	return ok
}

// clearRecord zeroes the handle and link slots at ptr without adjusting
// head/tail bookkeeping; the caller (RewriteSegment) owns that separately
// since it may be clearing a whole run of steps at once.
func (s *StepList) clearRecord(ptr ix.StepPtr) {
	s.steps.Set(s.stepOffset(ptr), 0)
	off := s.linkOffset(ptr)
	s.links.Set(off, 0)
	s.links.Set(off+1, 0)
	s.removedSteps++
}

// setPrev and setNext overwrite one link field of a still-live record, used
// to relink the boundary of a range RewriteSegment just cleared.
func (s *StepList) setPrev(ptr, prev ix.StepPtr) {
	packed.SetPack(s.links, s.linkOffset(ptr), prev)
}

func (s *StepList) setNext(ptr, next ix.StepPtr) {
	packed.SetPack(s.links, s.linkOffset(ptr)+1, next)
}

// linkPair joins left and right directly, skipping whichever side is null
// (a boundary with nothing surviving on it).
func (s *StepList) linkPair(left, right ix.StepPtr) {
	if !left.IsNull() {
		s.setNext(left, right)
	}
	if !right.IsNull() {
		s.setPrev(right, left)
	}
}

// AppendBatch appends handles to the tail in one pass, writing through
// AppendPages (which calls Append once per value), and links them into a
// contiguous chain anchored after prevTail. It returns the first and last
// new step pointers; the caller owns patching prevTail's own next pointer
// into the chain and any path-level head/tail bookkeeping.
func (s *StepList) AppendBatch(handles []uint64, prevTail ix.StepPtr) (ix.StepPtr, ix.StepPtr) {
	if len(handles) == 0 {
		return ix.Null[ix.StepTag](), ix.Null[ix.StepTag]()
	}
	start := s.steps.Len()
	s.steps.Reserve(start + len(handles))
	s.links.Reserve(s.links.Len() + len(handles)*2)

	var stepBuf []uint64
	s.steps.AppendPages(&stepBuf, handles)

	linkVals := make([]uint64, 0, len(handles)*2)
	for i := range handles {
		prev := prevTail
		if i > 0 {
			prev = ix.FromZeroBased[ix.StepTag](start + i - 1)
		}
		next := ix.Null[ix.StepTag]()
		if i+1 < len(handles) {
			next = ix.FromZeroBased[ix.StepTag](start + i + 1)
		}
		linkVals = append(linkVals, prev.Pack(), next.Pack())
	}
	var linkBuf []uint64
	s.links.AppendPages(&linkBuf, linkVals)

	if !prevTail.IsNull() {
		s.setNext(prevTail, ix.FromZeroBased[ix.StepTag](start))
	}
	return ix.FromZeroBased[ix.StepTag](start), ix.FromZeroBased[ix.StepTag](start + len(handles) - 1)
}

// Walk iterates steps forward from head.
func (s *StepList) Walk(head ix.StepPtr, yield func(ptr ix.StepPtr, step Step) bool) {
	list.Walk[ix.StepTag, Step](s, head, yield)
}

// WalkBackward iterates steps backward from tail.
func (s *StepList) WalkBackward(tail ix.StepPtr, yield func(ptr ix.StepPtr, step Step) bool) {
	list.WalkBackward[ix.StepTag, Step](s, tail, yield)
}

// TransformHandles rewrites every step's handle in place via transform,
// used when node ids change under a path (e.g. after DivideHandle).
func (s *StepList) TransformHandles(transform func(handle uint64) uint64) {
	n := s.StorageLen()
	for i := 0; i < n; i++ {
		h := s.steps.Get(i)
		if h != 0 {
			s.steps.Set(i, transform(h))
		}
	}
}

// Defragment compacts removed steps out of the backing vectors, returning a
// map from every surviving step's old pointer to its new pointer. Returns
// nil if there was nothing to compact.
func (s *StepList) Defragment() map[ix.StepPtr]ix.StepPtr {
	if s.removedSteps == 0 || s.deleted {
		return nil
	}
	total := s.StorageLen()
	kept := total - s.removedSteps

	newSteps := packed.NewRobust(narrowPageWidth)
	newLinks := packed.NewRobust(narrowPageWidth)
	newSteps.Reserve(kept)
	newLinks.Reserve(kept * 2)

	updates := make(map[ix.StepPtr]ix.StepPtr, kept)

	for i := 0; i < total; i++ {
		h := s.steps.Get(i)
		if h == 0 {
			continue
		}
		old := ix.FromZeroBased[ix.StepTag](i)
		updates[old] = ix.FromZeroBased[ix.StepTag](newSteps.Len())
		newSteps.Append(h)

		off := i * 2
		newLinks.Append(s.links.Get(off))
		newLinks.Append(s.links.Get(off + 1))
	}

	for i := 0; i < kept; i++ {
		for field := 0; field < 2; field++ {
			raw := newLinks.Get(i*2 + field)
			oldPtr := ix.FromU64[ix.StepTag](raw)
			if oldPtr.IsNull() {
				continue
			}
			newLinks.Set(i*2+field, updates[oldPtr].Pack())
		}
	}

	s.steps = newSteps
	s.links = newLinks
	s.removedSteps = 0
	return updates
}
