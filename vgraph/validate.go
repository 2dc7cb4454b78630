package vgraph

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

// Finding is one detected inconsistency. Context holds whatever records the
// check inspected when it failed, for spew.Sdump in Report.String.
type Finding struct {
	Check   string
	Detail  string
	Context any
}

// Report is the cumulative result of Validate. It never causes Validate to
// mutate the graph; every check is read-only.
type Report struct {
	Findings []Finding
}

// OK reports whether the graph passed every check.
func (r Report) OK() bool { return len(r.Findings) == 0 }

// String renders the report for a log sink, spew-dumping each finding's
// captured context so the surrounding records are visible without having to
// reproduce the failure.
func (r Report) String() string {
	if r.OK() {
		return "vgraph: validate ok"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "vgraph: validate found %d issue(s)\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "- [%s] %s\n%s", f.Check, f.Detail, spew.Sdump(f.Context))
	}
	return b.String()
}

func (r *Report) fail(check, detail string, context any) {
	r.Findings = append(r.Findings, Finding{Check: check, Detail: detail, Context: context})
}

// Validate checks g against every invariant the packed stores are supposed
// to maintain, reporting every violation found rather than stopping at the
// first. It never mutates g.
func Validate(g *Graph) Report {
	var r Report

	seen := make(map[NodeID]bool)
	for h := range g.Handles() {
		id := h.ID()
		if seen[id] {
			r.fail("handle-bijection", "node id yielded more than once by Handles", id)
		}
		seen[id] = true
		if !g.HasNode(id) {
			r.fail("handle-bijection", "Handles yielded an id HasNode rejects", id)
		}
	}

	for h := range g.Handles() {
		for _, dir := range [2]Direction{Right, Left} {
			for n := range g.Neighbors(h, dir) {
				if !g.HasNode(n.ID()) {
					r.fail("edge-target-live", "edge/neighbor references a node that is not live", n)
				}
				mirrorDir := Right
				if dir == Right {
					mirrorDir = Left
				}
				ok := false
				for back := range g.Neighbors(n, mirrorDir) {
					if back == h {
						ok = true
						break
					}
				}
				if !ok {
					r.fail("edge-symmetry", "h not found in neighbors(n, opposite dir)",
						struct {
							H, N Handle
							Dir  Direction
						}{h, n, dir})
				}
			}
		}
	}

	for p := range g.PathIDs() {
		head, tail := g.PathHead(p), g.PathTail(p)
		length := g.PathLen(p)

		n := 0
		cur := head
		var last StepPtr
		for cur != 0 {
			if _, ok := g.PathStepHandle(p, cur); !ok {
				r.fail("path-closure", "step on forward walk has no handle record", struct {
					Path PathID
					Step StepPtr
				}{p, cur})
				break
			}
			last = cur
			n++
			next, ok := g.PathNextStep(p, cur)
			if !ok {
				break
			}
			cur = next
		}
		if n != length {
			r.fail("path-closure", "forward walk step count disagrees with PathLen", struct {
				Path     PathID
				Walked   int
				Reported int
			}{p, n, length})
		}
		if length > 0 && last != tail {
			r.fail("path-closure", "forward walk from head does not end at tail", struct {
				Path PathID
				Last StepPtr
				Tail StepPtr
			}{p, last, tail})
		}

		if length == 0 && (head != 0 || tail != 0) {
			r.fail("path-closure", "empty path has non-null head/tail", p)
		}
	}

	for p := range g.PathIDs() {
		for s, h := range g.PathSteps(p) {
			node := h.ID()
			found := false
			for occP, occS := range g.NodeOccurrences(PackHandle(node, false)) {
				if occP == p && occS == s {
					found = true
					break
				}
			}
			if !found {
				r.fail("occurrence-mirror", "step has no matching occurrence record on its node", struct {
					Path PathID
					Step StepPtr
					Node NodeID
				}{p, s, node})
			}
		}
	}

	for h := range g.Handles() {
		for occP, occS := range g.NodeOccurrences(h) {
			hs, ok := g.PathStepHandle(occP, occS)
			if !ok || hs.ID() != h.ID() {
				r.fail("occurrence-mirror", "occurrence record points at a step that doesn't name this node", struct {
					Node NodeID
					Path PathID
					Step StepPtr
				}{h.ID(), occP, occS})
			}
		}
	}

	wantEdges := g.EdgeCount()
	gotEdges := 0
	edgeSeen := make(map[Edge]bool)
	for h := range g.Handles() {
		for n := range g.Neighbors(h, Right) {
			e := Edge{From: h, To: n}.canonical()
			if !edgeSeen[e] {
				edgeSeen[e] = true
				gotEdges++
			}
		}
	}
	if gotEdges != wantEdges {
		r.fail("edge-count", "distinct canonical edges observed via traversal disagree with EdgeCount", struct {
			Observed, Reported int
		}{gotEdges, wantEdges})
	}

	if r.OK() {
		g.log().Info("validate ok")
	} else {
		for _, f := range r.Findings {
			g.log().Warn("validate finding", zap.String("check", f.Check), zap.String("detail", f.Detail))
		}
	}
	return r
}
