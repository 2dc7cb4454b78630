package vgraph

import (
	"github.com/gaissmai/vgraph/internal/edgestore"
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/nodestore"
)

// DivideHandle splits h's node at the given offsets (strictly increasing,
// each strictly between 0 and the node's length), preserving every
// incident edge and path step. Offsets are given in h's own strand; if h is
// reverse they are translated to forward-strand coordinates before the
// split, per the source's "offsets are reversed first" rule. The returned
// handles are in h's local order and strand: for a forward h the first one
// refers to h's own node id, for a reverse h the last one does.
func (g *Graph) DivideHandle(h Handle, offsets []int) ([]Handle, error) {
	recID := g.mustRecordID(h.ID())
	seqID := nodestore.SeqRecordID(recID)
	total := g.nodes.Sequences().Length(seqID)

	if err := validateOffsets(offsets, total); err != nil {
		return nil, err
	}

	hOrderLens := pieceLengths(offsets, total)
	physicalLens := hOrderLens
	if h.IsReverse() {
		physicalLens = reverseInts(hOrderLens)
	}

	if len(physicalLens) == 1 {
		return []Handle{h}, nil
	}

	newSeqIDs := g.nodes.Sequences().SplitSequence(seqID, physicalLens)

	physicalIDs := make([]NodeID, len(physicalLens))
	physicalIDs[0] = h.ID()
	physicalRecs := make([]ix.NodeRecordID, len(physicalLens))
	physicalRecs[0] = recID
	for i := range newSeqIDs {
		newID := NodeID(g.nodes.MaxID() + 1)
		newRec, ok := g.nodes.AppendNodeForExistingSeq(uint64(newID))
		if !ok {
			panicf("DivideHandle: failed to allocate piece node")
		}
		physicalIDs[i+1] = newID
		physicalRecs[i+1] = newRec
	}

	g.migrateRightEdges(h.ID(), recID, physicalIDs[len(physicalIDs)-1], physicalRecs[len(physicalRecs)-1])
	for i := 0; i+1 < len(physicalRecs); i++ {
		left := PackHandle(physicalIDs[i], false)
		right := PackHandle(physicalIDs[i+1], false)
		g.CreateEdge(Edge{From: left, To: right})
	}

	hOrderIDs := physicalIDs
	if h.IsReverse() {
		hOrderIDs = reverseNodeIDs(physicalIDs)
	}
	hOrderHandles := make([]Handle, len(hOrderIDs))
	for i, id := range hOrderIDs {
		hOrderHandles[i] = PackHandle(id, h.IsReverse())
	}

	g.rewritePathSteps(h, hOrderHandles)

	return hOrderHandles, nil
}

func validateOffsets(offsets []int, total int) error {
	if len(offsets) == 0 {
		return nil
	}
	prev := 0
	for _, o := range offsets {
		if o <= prev || o >= total {
			return ErrLengthsExceedSequence
		}
		prev = o
	}
	return nil
}

func pieceLengths(offsets []int, total int) []int {
	bounds := make([]int, 0, len(offsets)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, offsets...)
	bounds = append(bounds, total)
	lens := make([]int, len(bounds)-1)
	for i := range lens {
		lens[i] = bounds[i+1] - bounds[i]
	}
	return lens
}

func reverseInts(xs []int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

func reverseNodeIDs(xs []NodeID) []NodeID {
	out := make([]NodeID, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

// migrateRightEdges moves the original node's right edge list (its external
// downstream neighbors) onto the last piece, then rewrites each neighbor's
// back-reference so it targets the last piece instead of the original node.
func (g *Graph) migrateRightEdges(oldID NodeID, oldRec ix.NodeRecordID, lastID NodeID, lastRec ix.NodeRecordID) {
	if oldRec == lastRec {
		return
	}

	head := g.nodes.RightEdgeHead(oldRec)
	g.nodes.SetRightEdgeHead(oldRec, ix.Null[ix.EdgeListTag]())
	g.nodes.SetRightEdgeHead(lastRec, head)

	oldBackref := uint64(PackHandle(oldID, true))
	newBackref := uint64(PackHandle(lastID, true))

	g.edges.Walk(head, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
		n := Handle(rec.Target)
		nRec, ok := g.recordID(n.ID())
		if !ok {
			return true
		}
		useLeft := !n.IsReverse()
		nHead := g.edgeHead(nRec, useLeft)
		g.edges.UpdateMatching(nHead,
			func(_ ix.EdgeListPtr, r edgestore.Record) bool { return r.Target == oldBackref },
			func(r edgestore.Record) edgestore.Record { r.Target = newBackref; return r },
		)
		return true
	})
}

// rewritePathSteps replaces every path step occupying oldHandle's node,
// in either strand, with the ordered chain of new handles, preserving the
// step's own orientation relative to oldHandle.
func (g *Graph) rewritePathSteps(oldHandle Handle, hOrderHandles []Handle) {
	type occKey struct {
		Path PathID
		Step StepPtr
	}
	var occs []occKey
	for p, s := range g.NodeOccurrences(oldHandle) {
		occs = append(occs, occKey{p, s})
	}

	flipped := make([]Handle, len(hOrderHandles))
	for i, h := range hOrderHandles {
		flipped[len(hOrderHandles)-1-i] = h.Flip()
	}

	for _, oc := range occs {
		stepHandle, ok := g.PathStepHandle(oc.Path, oc.Step)
		if !ok {
			continue
		}
		chain := hOrderHandles
		if stepHandle.IsReverse() != oldHandle.IsReverse() {
			chain = flipped
		}

		id := toIxPath(oc.Path)
		anchor := toIxStep(oc.Step)
		for _, piece := range chain {
			update, ok := g.paths.InsertStepAfter(id, anchor, uint64(piece))
			if !ok {
				panicf("DivideHandle: path step vanished mid-rewrite")
			}
			g.applyStepUpdate(id, update, piece)
			anchor = update.Step
		}

		removeUpdate, ok := g.paths.RemoveStep(id, toIxStep(oc.Step))
		if ok {
			g.applyStepUpdate(id, removeUpdate, stepHandle)
		}
	}
}
