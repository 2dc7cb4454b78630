package vgraph

import (
	"sort"

	"go.uber.org/zap"
)

// ConcatNodes merges a simple chain (as produced by SimpleComponents) into
// a single new node: a new handle whose sequence is the chain's
// concatenation, re-created edges to the chain's external neighbors, and
// every path step that traversed the whole chain collapsed to one step
// through the new handle (flipped for paths that traversed it in reverse).
// The chain's own nodes are then removed.
//
// If either chain boundary's external neighbor is itself a member of the
// chain, folding it would have to decide which side of the new node that
// neighbor's edge belongs on with no principled answer (the source this
// was ported from has exactly this ambiguity on self-loop boundaries);
// ConcatNodes rejects the chain outright instead of guessing, returning
// ErrSelfLoopChain.
func (g *Graph) ConcatNodes(component []Handle) (Handle, error) {
	if len(component) < 2 {
		if len(component) == 1 {
			return component[0], nil
		}
		panicf("ConcatNodes: empty component")
	}

	inChain := make(map[NodeID]bool, len(component))
	for _, h := range component {
		inChain[h.ID()] = true
	}

	var leftExt, rightExt []Handle
	for n := range g.Neighbors(component[0], Left) {
		if inChain[n.ID()] {
			return 0, ErrSelfLoopChain
		}
		leftExt = append(leftExt, n)
	}
	for n := range g.Neighbors(component[len(component)-1], Right) {
		if inChain[n.ID()] {
			return 0, ErrSelfLoopChain
		}
		rightExt = append(rightExt, n)
	}

	var seq []byte
	for _, h := range component {
		for b := range g.NodeSequence(h) {
			seq = append(seq, b)
		}
	}
	newID := g.AppendHandle(seq)
	newFwd := PackHandle(newID, false)

	for _, n := range leftExt {
		g.CreateEdge(Edge{From: n, To: newFwd})
	}
	for _, n := range rightExt {
		g.CreateEdge(Edge{From: newFwd, To: n})
	}

	g.rewriteChainPaths(component, newFwd)

	for _, h := range component {
		g.RemoveHandle(h.ID())
	}

	return newFwd, nil
}

func (g *Graph) rewriteChainPaths(component []Handle, newFwd Handle) {
	n := len(component)
	reversedFlipped := make([]Handle, n)
	for i, h := range component {
		reversedFlipped[n-1-i] = h.Flip()
	}
	g.spliceChainOccurrences(component, newFwd)
	g.spliceChainOccurrences(reversedFlipped, newFwd.Flip())
}

// spliceChainOccurrences finds every path run that steps through chain in
// exactly that order and strand, and replaces the run with a single step
// through replacement.
func (g *Graph) spliceChainOccurrences(chain []Handle, replacement Handle) {
	start := chain[0]
	type occ struct {
		Path PathID
		Step StepPtr
	}
	var starts []occ
	for p, s := range g.NodeOccurrences(start) {
		if sh, ok := g.PathStepHandle(p, s); ok && sh == start {
			starts = append(starts, occ{p, s})
		}
	}

	for _, st := range starts {
		ptrs, ok := g.matchChainRun(st.Path, st.Step, chain)
		if !ok {
			continue
		}
		id := toIxPath(st.Path)
		anchor := toIxStep(ptrs[len(ptrs)-1])
		update, ok := g.paths.InsertStepAfter(id, anchor, uint64(replacement))
		if ok {
			g.applyStepUpdate(id, update, replacement)
		}
		for i, ptr := range ptrs {
			if rm, ok := g.paths.RemoveStep(id, toIxStep(ptr)); ok {
				g.applyStepUpdate(id, rm, chain[i])
			}
		}
	}
}

func (g *Graph) matchChainRun(path PathID, start StepPtr, chain []Handle) ([]StepPtr, bool) {
	ptrs := make([]StepPtr, 0, len(chain))
	cur := start
	for i, want := range chain {
		h, ok := g.PathStepHandle(path, cur)
		if !ok || h != want {
			return nil, false
		}
		ptrs = append(ptrs, cur)
		if i+1 < len(chain) {
			next, ok := g.PathNextStep(path, cur)
			if !ok {
				return nil, false
			}
			cur = next
		}
	}
	return ptrs, true
}

// Unchop returns a new graph in which every maximal simple chain of two or
// more nodes has been folded into a single node via ConcatNodes, with
// merged and untouched nodes interleaved by the mean original id of each
// merged group. The input graph is never mutated.
func Unchop(g *Graph) *Graph {
	clone := g.Clone()
	components := clone.SimpleComponents(2)

	rank := make(map[NodeID]float64)
	for _, comp := range components {
		sum := 0.0
		for _, h := range comp {
			sum += float64(h.ID())
		}
		mean := sum / float64(len(comp))

		newHandle, err := clone.ConcatNodes(comp)
		if err != nil {
			clone.log().Debug("unchop: rejected chain", zap.Error(err))
			continue
		}
		rank[newHandle.ID()] = mean
	}

	var live []Handle
	for h := range clone.Handles() {
		live = append(live, h)
	}
	sort.Slice(live, func(i, j int) bool {
		return rankOf(rank, live[i]) < rankOf(rank, live[j])
	})

	clone.ApplyOrdering(live)
	return clone
}

func rankOf(rank map[NodeID]float64, h Handle) float64 {
	if r, ok := rank[h.ID()]; ok {
		return r
	}
	return float64(h.ID())
}
