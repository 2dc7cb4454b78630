package pathstore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gaissmai/vgraph/internal/ix"
)

// Properties holds a path's metadata: its name, whether it's circular, and
// the pointers to its first and last steps.
type Properties struct {
	Name     string
	Circular bool
	Head     ix.StepPtr
	Tail     ix.StepPtr
	Deleted  bool
}

// UpdateKind distinguishes the two kinds of StepUpdate a path mutation can
// produce.
type UpdateKind int

const (
	// StepAdded reports that a new step now occupies a node's occurrence
	// list.
	StepAdded UpdateKind = iota
	// StepRemoved reports that a step has been removed and its
	// occurrence-list entry must go with it.
	StepRemoved
)

// StepUpdate is emitted by a path mutator whenever a step is added or
// removed, so a driver can reconcile the occurrence store afterward without
// every path mutation needing direct access to it.
type StepUpdate struct {
	Path ix.PathID
	Step ix.StepPtr
	Kind UpdateKind
}

// Store owns every path in the graph: its properties, its step list, and
// the name <-> id map paths are addressed by externally.
type Store struct {
	props     []*Properties // index i holds path i+1's properties
	steps     []*StepList
	nameToID  map[string]ix.PathID
	removedPs int
}

// New constructs an empty path store.
func New() *Store {
	return &Store{nameToID: make(map[string]ix.PathID)}
}

// CreatePath allocates a new path with the given name. It reports false if
// the name is already in use.
func (s *Store) CreatePath(name string, circular bool) (ix.PathID, bool) {
	if _, exists := s.nameToID[name]; exists {
		return ix.Null[ix.PathTag](), false
	}
	id := ix.FromZeroBased[ix.PathTag](len(s.props))
	s.props = append(s.props, &Properties{Name: name, Circular: circular})
	s.steps = append(s.steps, NewStepList())
	s.nameToID[name] = id
	return id, true
}

func (s *Store) idx(id ix.PathID) int {
	i, ok := id.ToZeroBased()
	if !ok {
		panic("pathstore: null PathID")
	}
	return i
}

// PathID resolves a path name to its id.
func (s *Store) PathID(name string) (ix.PathID, bool) {
	id, ok := s.nameToID[name]
	return id, ok
}

// Properties returns the properties record for id.
func (s *Store) Properties(id ix.PathID) *Properties { return s.props[s.idx(id)] }

// Steps returns the step list for id.
func (s *Store) Steps(id ix.PathID) *StepList { return s.steps[s.idx(id)] }

// PathCount returns the number of live (non-deleted) paths.
func (s *Store) PathCount() int { return len(s.props) - s.removedPs }

// PathIDs calls yield for every live path id.
func (s *Store) PathIDs(yield func(ix.PathID) bool) {
	for i, p := range s.props {
		if p.Deleted {
			continue
		}
		if !yield(ix.FromZeroBased[ix.PathTag](i)) {
			return
		}
	}
}

// AppendStep appends handle to the end of id's path, returning the update
// the caller must feed to the occurrence store.
func (s *Store) AppendStep(id ix.PathID, handle uint64) StepUpdate {
	props := s.Properties(id)
	steps := s.Steps(id)

	newPtr := steps.AppendStepRecord(handle, props.Tail, ix.Null[ix.StepTag]())
	if !props.Tail.IsNull() {
		off, _ := props.Tail.ToRecordStart(2)
		packedSetNext(steps, off, newPtr)
	}
	if props.Head.IsNull() {
		props.Head = newPtr
	}
	props.Tail = newPtr

	return StepUpdate{Path: id, Step: newPtr, Kind: StepAdded}
}

func packedSetNext(steps *StepList, linkOffset int, next ix.StepPtr) {
	steps.links.Set(linkOffset+1, next.Pack())
}

func packedSetPrev(steps *StepList, linkOffset int, prev ix.StepPtr) {
	steps.links.Set(linkOffset, prev.Pack())
}

// PrependStep prepends handle to the start of id's path.
func (s *Store) PrependStep(id ix.PathID, handle uint64) StepUpdate {
	props := s.Properties(id)
	steps := s.Steps(id)

	newPtr := steps.AppendStepRecord(handle, ix.Null[ix.StepTag](), props.Head)
	if !props.Head.IsNull() {
		off, _ := props.Head.ToRecordStart(2)
		packedSetPrev(steps, off, newPtr)
	}
	if props.Tail.IsNull() {
		props.Tail = newPtr
	}
	props.Head = newPtr

	return StepUpdate{Path: id, Step: newPtr, Kind: StepAdded}
}

// InsertStepAfter splices handle in immediately after ptr in id's path.
func (s *Store) InsertStepAfter(id ix.PathID, ptr ix.StepPtr, handle uint64) (StepUpdate, bool) {
	props := s.Properties(id)
	steps := s.Steps(id)

	newPtr, ok := steps.InsertAfter(ptr, handle)
	if !ok {
		return StepUpdate{}, false
	}
	if props.Tail == ptr {
		props.Tail = newPtr
	}
	return StepUpdate{Path: id, Step: newPtr, Kind: StepAdded}, true
}

// RemoveStep removes the step at ptr from id's path, returning the update
// to feed to the occurrence store.
func (s *Store) RemoveStep(id ix.PathID, ptr ix.StepPtr) (StepUpdate, bool) {
	props := s.Properties(id)
	steps := s.Steps(id)

	if props.Head == ptr || props.Tail == ptr {
		step, ok := steps.GetRecord(ptr)
		if !ok {
			return StepUpdate{}, false
		}
		if props.Head == ptr {
			props.Head = step.Next
		}
		if props.Tail == ptr {
			props.Tail = step.Prev
		}
	}

	_, ok := steps.RemoveAtPointer(ptr)
	if !ok {
		return StepUpdate{}, false
	}
	return StepUpdate{Path: id, Step: ptr, Kind: StepRemoved}, true
}

// RemovePath deletes every step in id's path and marks it deleted, emitting
// a StepRemoved update for every step that was live. The name -> id mapping
// is removed so the name can be reused.
func (s *Store) RemovePath(id ix.PathID) []StepUpdate {
	props := s.Properties(id)
	steps := s.Steps(id)

	var updates []StepUpdate
	steps.Walk(props.Head, func(ptr ix.StepPtr, _ Step) bool {
		updates = append(updates, StepUpdate{Path: id, Step: ptr, Kind: StepRemoved})
		return true
	})

	steps.MarkDeleted()
	props.Deleted = true
	props.Head = ix.Null[ix.StepTag]()
	props.Tail = ix.Null[ix.StepTag]()
	delete(s.nameToID, props.Name)
	s.removedPs++

	return updates
}

// FlipStep flips the handle at ptr to its opposite strand in place,
// reporting Remove(old) then Insert(new) rather than a quiet overwrite so a
// driver reconciling the occurrence store against the update stream sees a
// move instead of having to special-case an in-place rewrite.
func (s *Store) FlipStep(id ix.PathID, ptr ix.StepPtr) ([]StepUpdate, bool) {
	steps := s.Steps(id)
	step, ok := steps.GetRecord(ptr)
	if !ok {
		return nil, false
	}
	steps.SetHandle(ptr, step.Handle^1)
	return []StepUpdate{
		{Path: id, Step: ptr, Kind: StepRemoved},
		{Path: id, Step: ptr, Kind: StepAdded},
	}, true
}

// RewriteSegment clears the run of steps from `from` through `to` (both
// inclusive; if to is null, through the current tail) and splices
// newHandles in as a fresh chain joined to whatever survives on either
// side. It returns the first and last new step pointers (null, null if
// newHandles is empty) and the full list of StepUpdates produced, or
// ok=false if from isn't a live step in id's path, or to (when non-null)
// never turns up walking forward from from.
//
// RewriteSegment(id, head, null, nil) on a nonempty path clears it:
// from==head and to==null together mean every step in the path is in
// range, and an empty newHandles leaves nothing to splice back in.
func (s *Store) RewriteSegment(id ix.PathID, from, to ix.StepPtr, newHandles []uint64) (ix.StepPtr, ix.StepPtr, []StepUpdate, bool) {
	props := s.Properties(id)
	steps := s.Steps(id)

	includesHead := props.Head == from
	includesTail := to.IsNull()

	fromStep, ok := steps.GetRecord(from)
	if !ok {
		return ix.Null[ix.StepTag](), ix.Null[ix.StepTag](), nil, false
	}
	beforeFrom := fromStep.Prev

	toRemove := []ix.StepPtr{from}
	cur := from
	for {
		if !includesTail && cur == to {
			break
		}
		step, ok := steps.GetRecord(cur)
		if !ok {
			return ix.Null[ix.StepTag](), ix.Null[ix.StepTag](), nil, false
		}
		if step.Next.IsNull() {
			if !includesTail {
				return ix.Null[ix.StepTag](), ix.Null[ix.StepTag](), nil, false
			}
			break
		}
		cur = step.Next
		toRemove = append(toRemove, cur)
	}

	lastStep, _ := steps.GetRecord(toRemove[len(toRemove)-1])
	afterTo := lastStep.Next
	if afterTo.IsNull() {
		includesTail = true
	}

	updates := make([]StepUpdate, 0, len(toRemove)+len(newHandles))
	for _, ptr := range toRemove {
		updates = append(updates, StepUpdate{Path: id, Step: ptr, Kind: StepRemoved})
		steps.clearRecord(ptr)
	}

	switch {
	case !includesHead && !includesTail:
		steps.linkPair(beforeFrom, afterTo)
	case !includesHead && includesTail:
		props.Tail = beforeFrom
		steps.setNext(props.Tail, ix.Null[ix.StepTag]())
	case includesHead && !includesTail:
		props.Head = afterTo
		steps.setPrev(props.Head, ix.Null[ix.StepTag]())
	default:
		props.Head = ix.Null[ix.StepTag]()
		props.Tail = ix.Null[ix.StepTag]()
	}

	if len(newHandles) == 0 {
		return ix.Null[ix.StepTag](), ix.Null[ix.StepTag](), updates, true
	}

	var start ix.StepPtr
	if includesHead {
		update := s.PrependStep(id, newHandles[0])
		start = update.Step
		updates = append(updates, update)
	} else {
		update, ok := s.InsertStepAfter(id, beforeFrom, newHandles[0])
		if !ok {
			return ix.Null[ix.StepTag](), ix.Null[ix.StepTag](), updates, false
		}
		start = update.Step
		updates = append(updates, update)
	}

	end := start
	for _, h := range newHandles[1:] {
		update, ok := s.InsertStepAfter(id, end, h)
		if !ok {
			return start, end, updates, false
		}
		end = update.Step
		updates = append(updates, update)
	}

	return start, end, updates, true
}

// AppendStepsIter appends handles to the tail of id's path using the
// tail-append fast path: StepList.AppendBatch writes and links the new
// steps as one chain (its vectors still take one Append per value), while still
// producing the same per-step StepUpdates append_handle would, sent to
// updates as they're produced rather than collected into a slice.
func (s *Store) AppendStepsIter(id ix.PathID, handles []uint64, updates chan<- StepUpdate) {
	if len(handles) == 0 {
		return
	}
	props := s.Properties(id)
	steps := s.Steps(id)

	first, last := steps.AppendBatch(handles, props.Tail)
	if props.Head.IsNull() {
		props.Head = first
	}
	props.Tail = last

	start, _ := first.ToZeroBased()
	for i := range handles {
		updates <- StepUpdate{Path: id, Step: ix.FromZeroBased[ix.StepTag](start + i), Kind: StepAdded}
	}
}

// TransformAllHandles rewrites every live path's step handles via
// transform, used when node ids are renumbered underneath the whole graph
// (ApplyOrdering).
func (s *Store) TransformAllHandles(transform func(uint64) uint64) {
	for i, p := range s.props {
		if p.Deleted {
			continue
		}
		s.steps[i].TransformHandles(transform)
	}
}

// MutatorFunc is applied to one path during a multi-path mutation pass. It
// receives the path's id, its properties, and its step list, and returns
// the StepUpdates that resulted (if any), or an error to abort the whole
// pass.
type MutatorFunc func(id ix.PathID, props *Properties, steps *StepList) ([]StepUpdate, error)

// WithAllPathsMutCtxChan runs mutate concurrently across every live path
// (one errgroup goroutine per path, with no limit on how many run at once;
// the first error cancels the group's context), funneling every StepUpdate
// through a shared channel whose updates are handed to driver, in arrival
// order, once all mutators have finished. This mirrors
// the channel-based multi-path mutation context: each path's mutator owns
// only its own StepList, so no locking is needed across paths, and the
// channel is the single serialization point for the occurrence-store
// reconciliation that must happen afterward.
func (s *Store) WithAllPathsMutCtxChan(ctx context.Context, mutate MutatorFunc, driver func(StepUpdate)) error {
	updates := make(chan StepUpdate, 64)
	g, gctx := errgroup.WithContext(ctx)

	s.PathIDs(func(id ix.PathID) bool {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			props := s.Properties(id)
			steps := s.Steps(id)
			results, err := mutate(id, props, steps)
			if err != nil {
				return fmt.Errorf("path %d: %w", id, err)
			}
			for _, u := range results {
				select {
				case updates <- u:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
		return true
	})

	var collected []StepUpdate
	done := make(chan struct{})
	go func() {
		for u := range updates {
			collected = append(collected, u)
		}
		close(done)
	}()

	err := g.Wait()
	close(updates)
	<-done
	for _, u := range collected {
		driver(u)
	}
	return err
}
