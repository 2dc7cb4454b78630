package gfa

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gaissmai/vgraph/vgraph"
)

// Write emits g as a GFA1 line stream: one segment per live node in
// ascending id order, one link per canonical (biological) edge, and one
// path per live path with steps ordered head to tail. Each biological edge
// is emitted exactly once, under whichever of its two directed
// representations Edge.canonical would pick.
func Write(w io.Writer, g *vgraph.Graph) error {
	bw := bufio.NewWriter(w)

	for h := range g.Handles() {
		seq := make([]byte, 0, g.NodeLen(h))
		for b := range g.NodeSequence(h, false) {
			seq = append(seq, b)
		}
		if _, err := fmt.Fprintf(bw, "S\t%d\t%s\n", h.ID(), seq); err != nil {
			return err
		}
	}

	seen := make(map[vgraph.Edge]bool)
	for h := range g.Handles() {
		for n := range g.Neighbors(h, vgraph.Right) {
			e := canonicalEdge(vgraph.Edge{From: h, To: n})
			if seen[e] {
				continue
			}
			seen[e] = true
			if _, err := fmt.Fprintf(bw, "L\t%d\t%s\t%d\t%s\t*\n",
				e.From.ID(), strandSymbol(e.From), e.To.ID(), strandSymbol(e.To)); err != nil {
				return err
			}
		}
		for n := range g.Neighbors(h, vgraph.Left) {
			e := canonicalEdge(vgraph.Edge{From: n, To: h})
			if seen[e] {
				continue
			}
			seen[e] = true
			if _, err := fmt.Fprintf(bw, "L\t%d\t%s\t%d\t%s\t*\n",
				e.From.ID(), strandSymbol(e.From), e.To.ID(), strandSymbol(e.To)); err != nil {
				return err
			}
		}
	}

	for p := range g.PathIDs() {
		if _, err := fmt.Fprintf(bw, "P\t%s\t", g.PathName(p)); err != nil {
			return err
		}
		first := true
		for h := range g.PathHandles(p) {
			if !first {
				if _, err := bw.WriteString(","); err != nil {
					return err
				}
			}
			first = false
			if _, err := fmt.Fprintf(bw, "%d%s", h.ID(), strandSymbol(h)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\t*\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// canonicalEdge mirrors Edge.canonical (unexported in vgraph) closely
// enough for emission: it picks the representation whose From handle has
// the smaller u64 encoding, breaking ties on To, so both neighbor-walk
// directions converge on the same representative for a single edge.
func canonicalEdge(e vgraph.Edge) vgraph.Edge {
	mirror := vgraph.Edge{From: e.To.Flip(), To: e.From.Flip()}
	if mirror.From < e.From || (mirror.From == e.From && mirror.To < e.To) {
		return mirror
	}
	return e
}

func strandSymbol(h vgraph.Handle) string {
	if h.IsReverse() {
		return "-"
	}
	return "+"
}
