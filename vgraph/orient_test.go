package vgraph_test

import (
	"testing"

	"github.com/gaissmai/vgraph/vgraph"
)

// TestApplyOrientationInvolution checks that flipping a node's strand twice
// returns the graph to its original observable state: sequence, neighbors
// in both directions, and the path steps that visit it.
func TestApplyOrientationInvolution(t *testing.T) {
	g := vgraph.New()
	g.CreateHandle([]byte("ACGTACGT"), 1)
	g.CreateHandle([]byte("GATTACA"), 2)
	g.CreateHandle([]byte("TTT"), 3)

	h := func(id vgraph.NodeID) vgraph.Handle { return vgraph.PackHandle(id, false) }
	g.CreateEdge(vgraph.Edge{From: h(1), To: h(2)})
	g.CreateEdge(vgraph.Edge{From: h(2), To: h(3)})

	p, _ := g.CreatePath("p", false)
	g.PathAppendStep(p, h(1))
	g.PathAppendStep(p, h(2))
	g.PathAppendStep(p, h(3))

	beforeSeq := nodeSeqString(g, h(2))
	beforeLeft := collectHandles(g.Neighbors(h(2), vgraph.Left))
	beforeRight := collectHandles(g.Neighbors(h(2), vgraph.Right))

	g.ApplyOrientation(h(2).Flip())

	afterFlipSeq := nodeSeqString(g, h(2))
	if afterFlipSeq == beforeSeq {
		t.Error("expected sequence to change after flipping orientation")
	}
	if !g.HasEdge(vgraph.Edge{From: h(1), To: h(2).Flip()}) {
		t.Error("expected neighbor 1 to now see node 2's reverse strand")
	}

	g.ApplyOrientation(h(2).Flip())

	if got := nodeSeqString(g, h(2)); got != beforeSeq {
		t.Errorf("sequence did not round-trip: want %q, got %q", beforeSeq, got)
	}
	sortHandles(beforeLeft)
	sortHandles(beforeRight)
	gotLeft := collectHandles(g.Neighbors(h(2), vgraph.Left))
	gotRight := collectHandles(g.Neighbors(h(2), vgraph.Right))
	sortHandles(gotLeft)
	sortHandles(gotRight)
	if len(gotLeft) != len(beforeLeft) || len(gotRight) != len(beforeRight) {
		t.Fatalf("neighbor counts did not round-trip")
	}
	for i := range beforeLeft {
		if gotLeft[i] != beforeLeft[i] {
			t.Errorf("left neighbor %d did not round-trip: want %v, got %v", i, beforeLeft[i], gotLeft[i])
		}
	}
	for i := range beforeRight {
		if gotRight[i] != beforeRight[i] {
			t.Errorf("right neighbor %d did not round-trip: want %v, got %v", i, beforeRight[i], gotRight[i])
		}
	}

	stepHandle, ok := g.PathStepHandle(p, g.PathHead(p))
	if !ok || stepHandle.ID() != 1 {
		t.Fatalf("path head unexpectedly disturbed")
	}
	next, _ := g.PathNextStep(p, g.PathHead(p))
	midHandle, ok := g.PathStepHandle(p, next)
	if !ok || midHandle != h(2) {
		t.Errorf("middle path step should be back to forward strand of node 2, got %v", midHandle)
	}

	if report := vgraph.Validate(g); !report.OK() {
		t.Fatalf("expected clean validation after round-trip orientation flip, got:\n%s", report)
	}
}

func TestApplyOrientationNoOpOnForwardHandle(t *testing.T) {
	g := vgraph.New()
	g.CreateHandle([]byte("ACGT"), 1)
	h := vgraph.PackHandle(1, false)
	before := nodeSeqString(g, h)
	g.ApplyOrientation(h)
	if got := nodeSeqString(g, h); got != before {
		t.Errorf("ApplyOrientation on a forward handle must be a no-op: want %q, got %q", before, got)
	}
}
