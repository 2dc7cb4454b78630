package vgraph

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gaissmai/vgraph/internal/edgestore"
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/nodestore"
	"github.com/gaissmai/vgraph/internal/occstore"
	"github.com/gaissmai/vgraph/internal/pathstore"
)

// Graph composes the node, edge, occurrence, and path stores behind a
// handle-oriented façade. The zero value is not usable; construct with New.
type Graph struct {
	nodes *nodestore.Store
	edges *edgestore.Store
	occs  *occstore.Store
	paths *pathstore.Store

	logger       *zap.Logger
	id           uuid.UUID
	seqPageWidth int
}

// New constructs an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{logger: defaultLogger, id: uuid.New()}
	for _, opt := range opts {
		opt(g)
	}
	g.nodes = nodestore.NewWithSeqPageWidth(g.seqPageWidth)
	g.edges = edgestore.New()
	g.occs = occstore.New()
	g.paths = pathstore.New()
	return g
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return g.nodes.NodeCount() }

// EdgeCount returns the number of biological edges, derived from the edge
// store's live record count.
func (g *Graph) EdgeCount() int { return g.edges.Len() }

// PathCount returns the number of live paths.
func (g *Graph) PathCount() int { return g.paths.PathCount() }

// OccurrenceCount returns the number of live occurrence records.
func (g *Graph) OccurrenceCount() int { return g.occs.Len() }

// TotalSequenceLength returns the sum of every live node's sequence length.
func (g *Graph) TotalSequenceLength() int { return g.nodes.Sequences().TotalLength() }

// HasNode reports whether id currently names a live node.
func (g *Graph) HasNode(id NodeID) bool { return g.nodes.HasNode(uint64(id)) }

func (g *Graph) recordID(id NodeID) (ix.NodeRecordID, bool) {
	return g.nodes.GetRecordID(uint64(id))
}

func (g *Graph) mustRecordID(id NodeID) ix.NodeRecordID {
	rec, ok := g.recordID(id)
	if !ok {
		panicf("node id is not live")
	}
	return rec
}

// -- additive operations --------------------------------------------------

// AppendHandle allocates a new node with the next available id (max live id
// + 1) and the given sequence, returning its id.
func (g *Graph) AppendHandle(seq []byte) NodeID {
	id := NodeID(g.nodes.MaxID() + 1)
	g.createHandle(seq, id)
	return id
}

// CreateHandle allocates a new node with the given id and sequence. It
// panics if id is 0 or already in use: both are structural contract
// violations, not absence conditions.
func (g *Graph) CreateHandle(seq []byte, id NodeID) NodeID {
	g.createHandle(seq, id)
	return id
}

func (g *Graph) createHandle(seq []byte, id NodeID) {
	if _, ok := g.nodes.AppendNode(uint64(id), seq); !ok {
		panicf("CreateHandle: id is zero or already in use")
	}
}

// AppendHandles bulk-creates one node per sequence, in order, returning
// their allocated ids. Each node is created by its own AppendHandle call;
// one Debug line with the count is logged at the end.
func (g *Graph) AppendHandles(seqs [][]byte) []NodeID {
	ids := make([]NodeID, len(seqs))
	for i, seq := range seqs {
		ids[i] = g.AppendHandle(seq)
	}
	g.log().Debug("appended handles", zap.Int("count", len(seqs)))
	return ids
}

func (g *Graph) edgeHead(recID ix.NodeRecordID, useLeft bool) ix.EdgeListPtr {
	if useLeft {
		return g.nodes.LeftEdgeHead(recID)
	}
	return g.nodes.RightEdgeHead(recID)
}

func (g *Graph) setEdgeHead(recID ix.NodeRecordID, useLeft bool, ptr ix.EdgeListPtr) {
	if useLeft {
		g.nodes.SetLeftEdgeHead(recID, ptr)
	} else {
		g.nodes.SetRightEdgeHead(recID, ptr)
	}
}

// CreateEdge stores both directed representations of e, prepending a record
// to each endpoint's appropriate adjacency list. It reports false without
// effect if either endpoint is absent.
func (g *Graph) CreateEdge(e Edge) bool {
	lRec, ok := g.recordID(e.From.ID())
	if !ok {
		return false
	}
	rRec, ok := g.recordID(e.To.ID())
	if !ok {
		return false
	}

	lUseLeft := e.From.IsReverse()
	rUseLeft := !e.To.IsReverse()

	lHead := g.edgeHead(lRec, lUseLeft)
	newLeft := g.edges.AppendRecord(uint64(e.To), lHead)
	g.setEdgeHead(lRec, lUseLeft, newLeft)

	if e.isReversingSelfLoop() {
		// Reversing self-loop: a single record covers both directed
		// representations, but it's still a whole edge for EdgeCount.
		g.edges.MarkReversingSelfEdge()
		return true
	}

	rHead := g.edgeHead(rRec, rUseLeft)
	newRight := g.edges.AppendRecord(uint64(e.From.Flip()), rHead)
	g.setEdgeHead(rRec, rUseLeft, newRight)
	return true
}

// CreateEdges creates every edge in es, skipping absent-endpoint edges the
// same way CreateEdge does.
func (g *Graph) CreateEdges(es []Edge) {
	for _, e := range es {
		g.CreateEdge(e)
	}
}

// removeEdgeOneDirection mirrors CreateEdge's side selection to remove both
// directed representations of e, whichever physical records they occupy.
func (g *Graph) removeEdgeOneDirection(e Edge) bool {
	lRec, ok := g.recordID(e.From.ID())
	if !ok {
		return false
	}
	rRec, ok := g.recordID(e.To.ID())
	if !ok {
		return false
	}

	lUseLeft := e.From.IsReverse()
	rUseLeft := !e.To.IsReverse()

	lHead := g.edgeHead(lRec, lUseLeft)
	newLHead, removed := g.edges.RemoveFirstMatching(lHead, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		return rec.Target == uint64(e.To)
	})
	if !removed {
		return false
	}
	g.setEdgeHead(lRec, lUseLeft, newLHead)

	if e.isReversingSelfLoop() {
		g.edges.UnmarkReversingSelfEdge()
		return true
	}

	rHead := g.edgeHead(rRec, rUseLeft)
	target := uint64(e.From.Flip())
	newRHead, _ := g.edges.RemoveFirstMatching(rHead, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		return rec.Target == target
	})
	g.setEdgeHead(rRec, rUseLeft, newRHead)
	return true
}

// RemoveEdge removes e if present. A no-op (returns false) if no matching
// record exists.
func (g *Graph) RemoveEdge(e Edge) bool {
	return g.removeEdgeOneDirection(e)
}

// CreatePath allocates a new named path. It reports false if the name is
// already in use.
func (g *Graph) CreatePath(name string, circular bool) (PathID, bool) {
	id, ok := g.paths.CreatePath(name, circular)
	if !ok {
		return 0, false
	}
	return fromIxPath(id), true
}

// PathByName resolves a path name to its id.
func (g *Graph) PathByName(name string) (PathID, bool) {
	id, ok := g.paths.PathID(name)
	if !ok {
		return 0, false
	}
	return fromIxPath(id), true
}

// PathAppendStep appends handle to the end of path p, recording the
// corresponding occurrence, and returns the previous tail step (null if the
// path was empty), letting callers chain appends without re-querying.
func (g *Graph) PathAppendStep(p PathID, h Handle) StepPtr {
	id := toIxPath(p)
	props := g.paths.Properties(id)
	prevTail := props.Tail

	update := g.paths.AppendStep(id, uint64(h))
	g.applyStepUpdate(id, update, h)

	return fromIxStep(prevTail)
}

func (g *Graph) applyStepUpdate(path ix.PathID, update pathstore.StepUpdate, handle Handle) {
	recID, ok := g.recordID(Handle(handle).ID())
	if !ok {
		return
	}
	switch update.Kind {
	case pathstore.StepAdded:
		head := g.nodes.OccHead(recID)
		newHead := g.occs.Append(path, update.Step, head)
		g.nodes.SetOccHead(recID, newHead)
	case pathstore.StepRemoved:
		head := g.nodes.OccHead(recID)
		newHead := g.occs.RemoveMatching(head, func(_ ix.OccListPtr, rec occstore.Record) bool {
			return rec.Path == path && rec.Step == update.Step
		})
		g.nodes.SetOccHead(recID, newHead)
	}
}

// -- subtractive operations ------------------------------------------------

// RemoveHandle removes a node entirely: every incident edge, every
// occurrence (and the path step behind it), then the node's own records.
// It reports false if id wasn't live.
func (g *Graph) RemoveHandle(id NodeID) bool {
	recID, ok := g.recordID(id)
	if !ok {
		return false
	}

	for _, useLeft := range [2]bool{true, false} {
		head := g.edgeHead(recID, useLeft)
		var targets []uint64
		g.edges.Walk(head, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
			targets = append(targets, rec.Target)
			return true
		})
		from := PackHandle(id, useLeft)
		for _, t := range targets {
			g.removeEdgeOneDirection(Edge{From: from, To: Handle(t)})
		}
	}

	var occEntries []occstore.Record
	g.occs.Walk(g.nodes.OccHead(recID), func(_ ix.OccListPtr, rec occstore.Record) bool {
		occEntries = append(occEntries, rec)
		return true
	})
	for _, rec := range occEntries {
		g.paths.RemoveStep(rec.Path, rec.Step)
	}
	g.nodes.SetOccHead(recID, ix.Null[ix.OccListTag]())

	g.nodes.RemoveNode(uint64(id))
	return true
}

// RemovePath removes every step of p (and the occurrences behind them) and
// marks the path deleted.
func (g *Graph) RemovePath(p PathID) bool {
	id := toIxPath(p)
	props := g.paths.Properties(id)
	if props.Deleted {
		return false
	}

	updates := g.paths.RemovePath(id)
	for _, u := range updates {
		g.removeOccurrenceByPathStep(id, u.Step)
	}
	return true
}

// removeOccurrenceByPathStep scans every node's occurrence list for the
// (path, step) pair and removes it. The StepUpdates RemovePath returns name
// only the path and step, not the handle that visited it, so this sweeps
// every node instead of going to the one node the step names.
func (g *Graph) removeOccurrenceByPathStep(path ix.PathID, step ix.StepPtr) {
	g.nodes.NodeIDs(func(id uint64) bool {
		recID, _ := g.nodes.GetRecordID(id)
		head := g.nodes.OccHead(recID)
		newHead := g.occs.RemoveMatching(head, func(_ ix.OccListPtr, rec occstore.Record) bool {
			return rec.Path == path && rec.Step == step
		})
		if newHead != head {
			g.nodes.SetOccHead(recID, newHead)
		}
		return true
	})
}

// Defragment compacts every store, rewriting the edge-list, occurrence-list,
// and step-pointer references each store holds into the others so every
// cross-reference stays consistent after compaction.
func (g *Graph) Defragment() {
	edgeUpdates := g.edges.Defragment()
	g.rewriteEdgeHeads(edgeUpdates)

	occUpdates := g.occs.Defragment()
	g.rewriteOccHeads(occUpdates)

	g.PathIDs()(func(p PathID) bool {
		id := toIxPath(p)
		stepUpdates := g.paths.Steps(id).Defragment()
		if stepUpdates == nil {
			return true
		}
		props := g.paths.Properties(id)
		if nh, ok := stepUpdates[props.Head]; ok {
			props.Head = nh
		}
		if nt, ok := stepUpdates[props.Tail]; ok {
			props.Tail = nt
		}
		g.rewriteOccurrenceSteps(id, stepUpdates)
		return true
	})

	g.nodes.Defragment()
	g.log().Debug("defragmented graph")
}

// rewriteOccHeads applies the occurrence store's old->new pointer map to
// every node's cached occurrence-list head, the one place outside occstore
// itself that caches an occurrence pointer.
func (g *Graph) rewriteOccHeads(updates map[ix.OccListPtr]ix.OccListPtr) {
	if updates == nil {
		return
	}
	g.nodes.NodeIDs(func(id uint64) bool {
		recID, _ := g.nodes.GetRecordID(id)
		head := g.nodes.OccHead(recID)
		if head.IsNull() {
			return true
		}
		if nh, ok := updates[head]; ok {
			g.nodes.SetOccHead(recID, nh)
		} else {
			g.nodes.SetOccHead(recID, ix.Null[ix.OccListTag]())
		}
		return true
	})
}

// rewriteOccurrenceSteps walks every node's occurrence list rewriting the
// step pointers it holds for path id, using the map returned by that path's
// own step-list defragmentation.
func (g *Graph) rewriteOccurrenceSteps(path ix.PathID, updates map[ix.StepPtr]ix.StepPtr) {
	g.nodes.NodeIDs(func(id uint64) bool {
		recID, _ := g.nodes.GetRecordID(id)
		head := g.nodes.OccHead(recID)
		g.occs.Walk(head, func(ptr ix.OccListPtr, rec occstore.Record) bool {
			if rec.Path != path {
				return true
			}
			if ns, ok := updates[rec.Step]; ok && ns != rec.Step {
				g.occs.UpdateMatching(head,
					func(p ix.OccListPtr, r occstore.Record) bool { return p == ptr },
					func(r occstore.Record) occstore.Record { r.Step = ns; return r },
				)
			}
			return true
		})
		return true
	})
}

func (g *Graph) rewriteEdgeHeads(updates map[ix.EdgeListPtr]ix.EdgeListPtr) {
	if updates == nil {
		return
	}
	g.nodes.NodeIDs(func(id uint64) bool {
		recID, _ := g.nodes.GetRecordID(id)
		l := g.nodes.LeftEdgeHead(recID)
		if !l.IsNull() {
			if nl, ok := updates[l]; ok {
				g.nodes.SetLeftEdgeHead(recID, nl)
			} else {
				g.nodes.SetLeftEdgeHead(recID, ix.Null[ix.EdgeListTag]())
			}
		}
		r := g.nodes.RightEdgeHead(recID)
		if !r.IsNull() {
			if nr, ok := updates[r]; ok {
				g.nodes.SetRightEdgeHead(recID, nr)
			} else {
				g.nodes.SetRightEdgeHead(recID, ix.Null[ix.EdgeListTag]())
			}
		}
		return true
	})
}

// Clone deep-copies the graph's observable content into a fresh Graph, so
// the copy can be mutated (e.g. by a "try, validate, keep-or-discard"
// algorithm like unchop) without affecting the original. Node ids,
// sequences, edges, and paths are all preserved; internal record layout is
// not (the clone is freshly built, not a byte-for-byte copy of the packed
// vectors).
func (g *Graph) Clone() *Graph {
	clone := New(WithLogger(g.logger))

	g.Handles()(func(h Handle) bool {
		seq := make([]byte, 0, g.NodeLen(h))
		for b := range g.NodeSequence(h, false) {
			seq = append(seq, b)
		}
		clone.CreateHandle(seq, h.ID())
		return true
	})

	// Both Left and Right neighbors must be walked: an edge whose From side
	// lands on a node's left list (e.g. one endpoint reverse-oriented) never
	// turns up walking Right alone, so a Right-only scan would silently drop
	// it from the clone.
	seen := make(map[Edge]bool)
	g.Handles()(func(h Handle) bool {
		for n := range g.Neighbors(h, Right) {
			e := Edge{From: h, To: n}.canonical()
			if seen[e] {
				continue
			}
			seen[e] = true
			clone.CreateEdge(e)
		}
		for n := range g.Neighbors(h, Left) {
			e := Edge{From: n, To: h}.canonical()
			if seen[e] {
				continue
			}
			seen[e] = true
			clone.CreateEdge(e)
		}
		return true
	})

	g.PathIDs()(func(p PathID) bool {
		name, circular := g.PathName(p), g.PathCircular(p)
		newP, _ := clone.CreatePath(name, circular)
		for h := range g.PathHandles(p) {
			clone.PathAppendStep(newP, h)
		}
		return true
	})

	return clone
}
