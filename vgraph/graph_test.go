package vgraph_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gaissmai/vgraph/vgraph"
)

// buildS1 constructs the "build and traverse" scenario: six nodes, six
// edges, and two paths sharing endpoints but diverging through the middle.
func buildS1(t *testing.T) *vgraph.Graph {
	t.Helper()
	g := vgraph.New()
	ids := g.AppendHandles([][]byte{
		[]byte("CAAATAAG"), []byte("A"), []byte("G"), []byte("T"), []byte("C"), []byte("TTG"),
	})
	for i, want := range []vgraph.NodeID{1, 2, 3, 4, 5, 6} {
		if ids[i] != want {
			t.Fatalf("AppendHandles[%d]: want id %d, got %d", i, want, ids[i])
		}
	}

	h := func(id vgraph.NodeID) vgraph.Handle { return vgraph.PackHandle(id, false) }
	g.CreateEdges([]vgraph.Edge{
		{From: h(1), To: h(2)},
		{From: h(1), To: h(5)},
		{From: h(2), To: h(3)},
		{From: h(5), To: h(6)},
		{From: h(3), To: h(4)},
		{From: h(6), To: h(4)},
	})

	p1, ok := g.CreatePath("p1", false)
	if !ok {
		t.Fatalf("create p1 failed")
	}
	for _, id := range []vgraph.NodeID{1, 2, 3, 4} {
		g.PathAppendStep(p1, h(id))
	}

	p2, ok := g.CreatePath("p2", false)
	if !ok {
		t.Fatalf("create p2 failed")
	}
	for _, id := range []vgraph.NodeID{1, 5, 6, 4} {
		g.PathAppendStep(p2, h(id))
	}

	return g
}

func sortHandles(hs []vgraph.Handle) {
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
}

func collectHandles(seq func(func(vgraph.Handle) bool)) []vgraph.Handle {
	var out []vgraph.Handle
	for h := range seq {
		out = append(out, h)
	}
	return out
}

func TestS1BuildAndTraverse(t *testing.T) {
	g := buildS1(t)

	if got := g.NodeCount(); got != 6 {
		t.Errorf("NodeCount: want 6, got %d", got)
	}
	if got := g.EdgeCount(); got != 6 {
		t.Errorf("EdgeCount: want 6, got %d", got)
	}
	if got := g.PathCount(); got != 2 {
		t.Errorf("PathCount: want 2, got %d", got)
	}

	h1 := vgraph.PackHandle(1, false)
	want := []vgraph.Handle{vgraph.PackHandle(2, false), vgraph.PackHandle(5, false)}
	got := collectHandles(g.Neighbors(h1, vgraph.Right))
	sortHandles(want)
	sortHandles(got)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Neighbors(handle(1), Right) mismatch (-want +got):\n%s", diff)
	}
}

func TestHasEdgeAndHasNode(t *testing.T) {
	g := buildS1(t)
	h := func(id vgraph.NodeID) vgraph.Handle { return vgraph.PackHandle(id, false) }

	if !g.HasEdge(vgraph.Edge{From: h(1), To: h(2)}) {
		t.Error("expected edge 1->2")
	}
	if g.HasEdge(vgraph.Edge{From: h(2), To: h(1)}) {
		t.Error("did not expect edge 2->1 in that direction")
	}
	if !g.HasNode(3) {
		t.Error("expected node 3 to be live")
	}
	if g.HasNode(42) {
		t.Error("node 42 should not exist")
	}
}

func TestRemoveHandleRemovesIncidentEdgesAndSteps(t *testing.T) {
	g := buildS1(t)
	h := func(id vgraph.NodeID) vgraph.Handle { return vgraph.PackHandle(id, false) }

	if !g.RemoveHandle(3) {
		t.Fatalf("RemoveHandle(3) reported false")
	}
	if g.HasNode(3) {
		t.Error("node 3 should be gone")
	}
	if g.HasEdge(vgraph.Edge{From: h(2), To: h(3)}) {
		t.Error("edge into removed node should be gone")
	}
	if got := g.NodeCount(); got != 5 {
		t.Errorf("NodeCount after remove: want 5, got %d", got)
	}

	p1, _ := g.PathByName("p1")
	if got := g.PathLen(p1); got != 3 {
		t.Errorf("p1 length after removing node 3: want 3, got %d", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := buildS1(t)
	clone := g.Clone()

	clone.RemoveHandle(3)
	if !g.HasNode(3) {
		t.Error("removing from the clone must not affect the original")
	}
	if clone.HasNode(3) {
		t.Error("clone should have lost node 3")
	}

	if got := g.NodeCount(); got != 6 {
		t.Errorf("original NodeCount changed: want 6, got %d", got)
	}
}

func TestValidatePassesOnS1(t *testing.T) {
	g := buildS1(t)
	if report := vgraph.Validate(g); !report.OK() {
		t.Fatalf("expected clean validation, got:\n%s", report)
	}
}

// TestCloneReproducesLeftStoredEdges covers an edge whose From side is
// reverse-oriented, so CreateEdge threads it onto node 1's left list rather
// than its right list. A Clone that only walked Right neighbors would never
// see it.
func TestCloneReproducesLeftStoredEdges(t *testing.T) {
	g := vgraph.New()
	ids := g.AppendHandles([][]byte{[]byte("A"), []byte("C")})
	n1, n2 := ids[0], ids[1]

	rev1 := vgraph.PackHandle(n1, true)
	fwd2 := vgraph.PackHandle(n2, false)
	e := vgraph.Edge{From: rev1, To: fwd2}
	if !g.CreateEdge(e) {
		t.Fatalf("CreateEdge failed")
	}
	if got := g.EdgeCount(); got != 1 {
		t.Fatalf("EdgeCount before clone: want 1, got %d", got)
	}

	clone := g.Clone()
	if got := clone.EdgeCount(); got != 1 {
		t.Fatalf("EdgeCount after clone: want 1, got %d", got)
	}
	if !clone.HasEdge(e) {
		t.Fatalf("clone lost the left-stored edge %v", e)
	}
}

// TestEdgeCountCountsReversingSelfLoopAsWhole covers a node whose forward
// handle connects to its own reverse handle: CreateEdge stores that as a single
// physical record, but it is still one whole edge, alongside an ordinary
// edge between two other nodes.
func TestEdgeCountCountsReversingSelfLoopAsWhole(t *testing.T) {
	g := vgraph.New()
	ids := g.AppendHandles([][]byte{[]byte("A"), []byte("C")})
	n1, n2 := ids[0], ids[1]

	ordinary := vgraph.Edge{From: vgraph.PackHandle(n1, false), To: vgraph.PackHandle(n2, false)}
	if !g.CreateEdge(ordinary) {
		t.Fatalf("CreateEdge(ordinary) failed")
	}

	selfLoop := vgraph.Edge{From: vgraph.PackHandle(n1, false), To: vgraph.PackHandle(n1, true)}
	if !g.CreateEdge(selfLoop) {
		t.Fatalf("CreateEdge(selfLoop) failed")
	}

	if got := g.EdgeCount(); got != 2 {
		t.Fatalf("EdgeCount: want 2, got %d", got)
	}

	if !g.RemoveEdge(selfLoop) {
		t.Fatalf("RemoveEdge(selfLoop) failed")
	}
	if got := g.EdgeCount(); got != 1 {
		t.Fatalf("EdgeCount after removing self-loop: want 1, got %d", got)
	}
}
