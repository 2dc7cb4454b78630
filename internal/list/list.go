// Package list defines the intrusive linked-list protocol shared by every
// record store that threads a list through a packed vector instead of
// through pointers: edge lists hung off a node record, occurrence lists
// hung off a node record, and step lists threaded through a path's steps.
// A "list" here is never its own allocation; it's a traversal pattern over
// records that already live in someone else's packed storage and carry
// their own next (and, for steps, prev) pointers.
package list

import "github.com/gaissmai/vgraph/internal/ix"

// Lister is implemented by a record store that can resolve a pointer to a
// record and extract that record's next pointer. T is the pointer's index
// tag; R is the record type.
type Lister[T ix.Tag, R any] interface {
	NextPointer(rec R) ix.Index[T]
	GetRecord(ptr ix.Index[T]) (R, bool)
}

// DoubleLister additionally exposes the previous pointer, for stores
// threaded as doubly linked lists (path step lists).
type DoubleLister[T ix.Tag, R any] interface {
	Lister[T, R]
	PrevPointer(rec R) ix.Index[T]
}

// MutLister supports removing a record from the list while keeping its
// neighbors' links consistent.
type MutLister[T ix.Tag, R any] interface {
	Lister[T, R]

	// RemoveAtPointer removes the record at ptr, which must be the head of
	// some traversal, returning the pointer that used to follow it.
	RemoveAtPointer(ptr ix.Index[T]) (next ix.Index[T], ok bool)

	// RemoveNext removes the record following ptr, patching ptr's record
	// to point past it.
	RemoveNext(ptr ix.Index[T]) bool
}

// Walk calls yield for every (pointer, record) pair reachable from head, in
// list order, stopping early if yield returns false.
func Walk[T ix.Tag, R any](l Lister[T, R], head ix.Index[T], yield func(ptr ix.Index[T], rec R) bool) {
	ptr := head
	for !ptr.IsNull() {
		rec, ok := l.GetRecord(ptr)
		if !ok {
			return
		}
		next := l.NextPointer(rec)
		if !yield(ptr, rec) {
			return
		}
		ptr = next
	}
}

// WalkBackward calls yield for every (pointer, record) pair from tail back
// to the start of the list, in reverse order.
func WalkBackward[T ix.Tag, R any](l DoubleLister[T, R], tail ix.Index[T], yield func(ptr ix.Index[T], rec R) bool) {
	ptr := tail
	for !ptr.IsNull() {
		rec, ok := l.GetRecord(ptr)
		if !ok {
			return
		}
		prev := l.PrevPointer(rec)
		if !yield(ptr, rec) {
			return
		}
		ptr = prev
	}
}

// RemoveFirstMatching removes the first record reachable from head for
// which match returns true, returning the (possibly updated) head pointer.
// The second return is false if no matching record was found.
func RemoveFirstMatching[T ix.Tag, R any](l MutLister[T, R], head ix.Index[T], match func(ptr ix.Index[T], rec R) bool) (ix.Index[T], bool) {
	var prev ix.Index[T]
	ptr := head
	for !ptr.IsNull() {
		rec, ok := l.GetRecord(ptr)
		if !ok {
			return head, false
		}
		next := l.NextPointer(rec)
		if match(ptr, rec) {
			if prev.IsNull() {
				newNext, ok := l.RemoveAtPointer(ptr)
				if !ok {
					return head, false
				}
				return newNext, true
			}
			if !l.RemoveNext(prev) {
				return head, false
			}
			return head, true
		}
		prev = ptr
		ptr = next
	}
	return head, false
}

// RemoveAllMatching removes every record reachable from head for which
// match returns true, returning the (possibly updated) head pointer.
func RemoveAllMatching[T ix.Tag, R any](l MutLister[T, R], head ix.Index[T], match func(ptr ix.Index[T], rec R) bool) ix.Index[T] {
	for {
		newHead, removed := RemoveFirstMatching(l, head, match)
		head = newHead
		if !removed {
			return head
		}
	}
}

// Count walks the list from head to completion and returns the number of
// records visited. Useful for tests and invariant checks; not a hot path.
func Count[T ix.Tag, R any](l Lister[T, R], head ix.Index[T]) int {
	n := 0
	Walk(l, head, func(ix.Index[T], R) bool {
		n++
		return true
	})
	return n
}
