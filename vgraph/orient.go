package vgraph

import (
	"github.com/gaissmai/vgraph/internal/edgestore"
	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/nodestore"
)

// ApplyOrientation flips h's node so its forward strand is the sequence
// currently addressed by h. It is a no-op if h is already forward.
//
// Edge records store the *other* endpoint's own handle, never the
// referencing node's own id, so flipping this node's strand doesn't touch
// the targets in its own lists. What changes is every place elsewhere in
// the graph that names this node: each neighbor's back-reference record,
// and every path step visiting it, has its reverse bit toggled so it keeps
// addressing the same physical strand under the new forward/reverse
// convention. The node's own left/right edge-list heads are swapped, since
// what used to be its left side is now geometrically its right.
func (g *Graph) ApplyOrientation(h Handle) {
	if !h.IsReverse() {
		return
	}
	id := h.ID()
	recID := g.mustRecordID(id)
	seqID := nodestore.SeqRecordID(recID)

	seqs := g.nodes.Sequences()
	length := seqs.Length(seqID)
	rc := make([]byte, 0, length)
	for b := range seqs.Bases(seqID, true) {
		rc = append(rc, b)
	}
	seqs.OverwriteSequence(seqID, rc)

	oldForward := PackHandle(id, false)
	oldReverse := PackHandle(id, true)

	for _, useLeft := range [2]bool{true, false} {
		head := g.edgeHead(recID, useLeft)
		g.edges.Walk(head, func(_ ix.EdgeListPtr, rec edgestore.Record) bool {
			n := Handle(rec.Target)
			nRec, ok := g.recordID(n.ID())
			if !ok {
				return true
			}
			nUseLeft := !n.IsReverse()
			nHead := g.edgeHead(nRec, nUseLeft)
			g.edges.UpdateMatching(nHead,
				func(_ ix.EdgeListPtr, r edgestore.Record) bool {
					return Handle(r.Target) == oldReverse || Handle(r.Target) == oldForward
				},
				func(r edgestore.Record) edgestore.Record { r.Target = uint64(Handle(r.Target).Flip()); return r },
			)
			return true
		})
	}

	for p, s := range g.NodeOccurrences(h) {
		stepHandle, ok := g.PathStepHandle(p, s)
		if !ok || stepHandle.ID() != id {
			continue
		}
		g.paths.Steps(toIxPath(p)).SetHandle(toIxStep(s), uint64(stepHandle.Flip()))
	}

	left := g.nodes.LeftEdgeHead(recID)
	right := g.nodes.RightEdgeHead(recID)
	g.nodes.SetLeftEdgeHead(recID, right)
	g.nodes.SetRightEdgeHead(recID, left)
}
