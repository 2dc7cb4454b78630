package vgraph

import (
	"iter"

	"github.com/gaissmai/vgraph/internal/edgestore"
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/nodestore"
	"github.com/gaissmai/vgraph/internal/occstore"
	"github.com/gaissmai/vgraph/internal/pathstore"
)

// Handles returns every live node's forward handle, in ascending id order.
func (g *Graph) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		g.nodes.NodeIDs(func(id uint64) bool {
			return yield(PackHandle(NodeID(id), false))
		})
	}
}

// NodeLen returns the sequence length of h's node.
func (g *Graph) NodeLen(h Handle) int {
	recID := g.mustRecordID(h.ID())
	return g.nodes.Sequences().Length(nodestore.SeqRecordID(recID))
}

// NodeSequence iterates h's node's bases, forward if h is on the forward
// strand, reverse-complemented otherwise. An explicit reverse flag, if
// given, overrides the strand implied by h.
func (g *Graph) NodeSequence(h Handle, explicitReverse ...bool) iter.Seq[byte] {
	recID := g.mustRecordID(h.ID())
	reverse := h.IsReverse()
	if len(explicitReverse) > 0 {
		reverse = explicitReverse[0]
	}
	return g.nodes.Sequences().Bases(nodestore.SeqRecordID(recID), reverse)
}

// sideList selects which of a node's two edge-list heads is relevant for a
// traversal from h in direction dir, mirroring the side-selection table
// create_edge and neighbors both follow: walking in a direction that
// matches the handle's own strand uses the same-named list; walking against
// it uses the opposite list.
func sideList(h Handle, dir Direction) bool /* useLeft */ {
	selectRight := (dir == Right) != h.IsReverse()
	return !selectRight
}

// Neighbors yields every handle reachable from h in direction dir.
func (g *Graph) Neighbors(h Handle, dir Direction) iter.Seq[Handle] {
	recID, ok := g.recordID(h.ID())
	if !ok {
		return func(func(Handle) bool) {}
	}
	head := g.edgeHead(recID, sideList(h, dir))
	flip := dir == Left
	return func(yield func(Handle) bool) {
		g.edges.Walk(head, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
			n := Handle(rec.Target)
			if flip {
				n = n.Flip()
			}
			return yield(n)
		})
	}
}

// Degree returns the number of neighbors of h in direction dir.
func (g *Graph) Degree(h Handle, dir Direction) int {
	n := 0
	for range g.Neighbors(h, dir) {
		n++
	}
	return n
}

// HasEdge reports whether e (in either directed representation) currently
// exists.
func (g *Graph) HasEdge(e Edge) bool {
	for n := range g.Neighbors(e.From, Right) {
		if n == e.To {
			return true
		}
	}
	return false
}

// PathIDs yields every live path id.
func (g *Graph) PathIDs() iter.Seq[PathID] {
	return func(yield func(PathID) bool) {
		g.paths.PathIDs(func(id ix.PathID) bool {
			return yield(fromIxPath(id))
		})
	}
}

// PathName returns p's name.
func (g *Graph) PathName(p PathID) string { return g.paths.Properties(toIxPath(p)).Name }

// PathCircular reports whether p is marked circular.
func (g *Graph) PathCircular(p PathID) bool { return g.paths.Properties(toIxPath(p)).Circular }

// PathLen returns the number of live steps on p.
func (g *Graph) PathLen(p PathID) int { return g.paths.Steps(toIxPath(p)).Len() }

// PathHead and PathTail return p's first and last step pointers (null if
// the path is empty).
func (g *Graph) PathHead(p PathID) StepPtr { return fromIxStep(g.paths.Properties(toIxPath(p)).Head) }
func (g *Graph) PathTail(p PathID) StepPtr { return fromIxStep(g.paths.Properties(toIxPath(p)).Tail) }

// PathStepHandle returns the handle occupying step s of path p.
func (g *Graph) PathStepHandle(p PathID, s StepPtr) (Handle, bool) {
	step, ok := g.paths.Steps(toIxPath(p)).GetStep(toIxStep(s))
	if !ok {
		return 0, false
	}
	return Handle(step.Handle), true
}

// PathNextStep and PathPrevStep walk p's step list.
func (g *Graph) PathNextStep(p PathID, s StepPtr) (StepPtr, bool) {
	step, ok := g.paths.Steps(toIxPath(p)).GetStep(toIxStep(s))
	if !ok || step.Next.IsNull() {
		return 0, false
	}
	return fromIxStep(step.Next), true
}

func (g *Graph) PathPrevStep(p PathID, s StepPtr) (StepPtr, bool) {
	step, ok := g.paths.Steps(toIxPath(p)).GetStep(toIxStep(s))
	if !ok || step.Prev.IsNull() {
		return 0, false
	}
	return fromIxStep(step.Prev), true
}

// PathSteps yields every (step pointer, handle) pair on p, head to tail.
func (g *Graph) PathSteps(p PathID) iter.Seq2[StepPtr, Handle] {
	return func(yield func(StepPtr, Handle) bool) {
		steps := g.paths.Steps(toIxPath(p))
		steps.Walk(g.paths.Properties(toIxPath(p)).Head, func(ptr ix.StepPtr, step pathstore.Step) bool {
			return yield(fromIxStep(ptr), Handle(step.Handle))
		})
	}
}

// PathHandles yields every handle on p, head to tail.
func (g *Graph) PathHandles(p PathID) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for _, h := range g.PathSteps(p) {
			if !yield(h) {
				return
			}
		}
	}
}

// NodeOccurrences yields every (path, step) pair visiting h's node.
func (g *Graph) NodeOccurrences(h Handle) iter.Seq2[PathID, StepPtr] {
	recID, ok := g.recordID(h.ID())
	if !ok {
		return func(func(PathID, StepPtr) bool) {}
	}
	return func(yield func(PathID, StepPtr) bool) {
		g.occs.Walk(g.nodes.OccHead(recID), func(_ ix.OccListPtr, rec occstore.Record) bool {
			return yield(fromIxPath(rec.Path), fromIxStep(rec.Step))
		})
	}
}
