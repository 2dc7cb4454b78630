package vgraph_test

import (
	"testing"

	"github.com/gaissmai/vgraph/vgraph"
)

// TestS5DefragmentAfterMassRemoval checks scenario S5: a 100-node
// sequentially-linked path, with every odd-id node removed, still
// validates cleanly and defragments to a consistent 50-step chain.
func TestS5DefragmentAfterMassRemoval(t *testing.T) {
	g := vgraph.New()
	ids := make([]vgraph.NodeID, 100)
	for i := 0; i < 100; i++ {
		ids[i] = g.AppendHandle([]byte{'A'})
	}
	h := func(id vgraph.NodeID) vgraph.Handle { return vgraph.PackHandle(id, false) }

	for i := 0; i+1 < len(ids); i++ {
		g.CreateEdge(vgraph.Edge{From: h(ids[i]), To: h(ids[i+1])})
	}

	p, _ := g.CreatePath("chain", false)
	for _, id := range ids {
		g.PathAppendStep(p, h(id))
	}

	for _, id := range ids {
		if id%2 == 1 {
			g.RemoveHandle(id)
		}
	}

	if report := vgraph.Validate(g); !report.OK() {
		t.Fatalf("expected clean validation before defragment, got:\n%s", report)
	}

	g.Defragment()

	if report := vgraph.Validate(g); !report.OK() {
		t.Fatalf("expected clean validation after defragment, got:\n%s", report)
	}

	if got := g.PathLen(p); got != 50 {
		t.Fatalf("PathLen after defragment: want 50, got %d", got)
	}

	head, tail := g.PathHead(p), g.PathTail(p)
	headHandle, ok := g.PathStepHandle(p, head)
	if !ok || headHandle.ID() != 2 {
		t.Errorf("head step: want node 2, got %v (ok=%v)", headHandle, ok)
	}
	tailHandle, ok := g.PathStepHandle(p, tail)
	if !ok || tailHandle.ID() != 100 {
		t.Errorf("tail step: want node 100, got %v (ok=%v)", tailHandle, ok)
	}

	count := 0
	cur := head
	var last vgraph.StepPtr
	for {
		if _, ok := g.PathStepHandle(p, cur); !ok {
			t.Fatalf("step %v has no handle", cur)
		}
		count++
		last = cur
		next, ok := g.PathNextStep(p, cur)
		if !ok {
			break
		}
		prev, ok := g.PathPrevStep(p, next)
		if !ok || prev != cur {
			t.Fatalf("step %v's successor does not point back to it", cur)
		}
		cur = next
	}
	if count != 50 {
		t.Errorf("walked %d steps, want 50", count)
	}
	if last != tail {
		t.Errorf("forward walk did not end at tail")
	}
}
