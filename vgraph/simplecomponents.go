package vgraph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gaissmai/vgraph/internal/disjoint"
)

// PerfectNeighbors reports whether every path step currently on left
// continues, in that path's own step order and exactly preserving strand,
// to right, and whether the number of such continuations equals the total
// number of path steps on right. This is the precondition simple-component
// detection uses before folding two adjacent nodes into one.
func (g *Graph) PerfectNeighbors(left, right Handle) bool {
	leftCount, matched := 0, 0
	for p, s := range g.NodeOccurrences(left) {
		stepHandle, ok := g.PathStepHandle(p, s)
		if !ok || stepHandle != left {
			continue
		}
		leftCount++
		next, ok := g.PathNextStep(p, s)
		if !ok {
			continue
		}
		if nh, ok := g.PathStepHandle(p, next); ok && nh == right {
			matched++
		}
	}
	if matched != leftCount {
		return false
	}

	rightCount := 0
	for p, s := range g.NodeOccurrences(right) {
		if stepHandle, ok := g.PathStepHandle(p, s); ok && stepHandle == right {
			rightCount++
		}
	}
	return matched == rightCount
}

// handleUniverse assigns a dense [0, 2n) index to every live handle (both
// strands of every node), for the disjoint-set's array-indexed elements.
type handleUniverse struct {
	index   map[Handle]int
	handles []Handle
}

func (g *Graph) buildHandleUniverse() *handleUniverse {
	u := &handleUniverse{index: make(map[Handle]int)}
	for h := range g.Handles() {
		u.index[h] = len(u.handles)
		u.handles = append(u.handles, h)
		flip := h.Flip()
		u.index[flip] = len(u.handles)
		u.handles = append(u.handles, flip)
	}
	return u
}

func (u *handleUniverse) idx(h Handle) int { return u.index[h] }

// SimpleComponents partitions the live handle set into maximal simple
// chains (runs of nodes with exactly one neighbor on each internal side,
// agreeing with every path that crosses them), returning every component
// with at least minSize nodes, each as an ordered, strand-consistent chain
// of handles from its first node to its last.
func (g *Graph) SimpleComponents(minSize int) [][]Handle {
	u := g.buildHandleUniverse()
	ds := disjoint.New(len(u.handles))

	for h := range g.Handles() {
		ds.Unite(uint64(u.idx(h)), uint64(u.idx(h.Flip())))
	}

	g.uniteSimpleNeighbors(u, ds)

	return g.bucketChains(u, ds, minSize)
}

func (g *Graph) uniteSimpleNeighbors(u *handleUniverse, ds *disjoint.Set) {
	grp, _ := errgroup.WithContext(context.Background())
	for _, h := range u.handles {
		h := h
		grp.Go(func() error {
			if left := single(g.Neighbors(h, Left)); left != 0 {
				if single(g.Neighbors(left, Right)) == h && g.PerfectNeighbors(left, h) {
					ds.Unite(uint64(u.idx(left)), uint64(u.idx(h)))
				}
			}
			if right := single(g.Neighbors(h, Right)); right != 0 {
				if single(g.Neighbors(right, Left)) == h && g.PerfectNeighbors(h, right) {
					ds.Unite(uint64(u.idx(h)), uint64(u.idx(right)))
				}
			}
			return nil
		})
	}
	_ = grp.Wait()
}

// single returns the lone element of seq, or the zero Handle if seq has
// zero or more than one element.
func single(seq func(func(Handle) bool)) Handle {
	var h Handle
	n := 0
	seq(func(x Handle) bool {
		h = x
		n++
		return n < 2
	})
	if n != 1 {
		return 0
	}
	return h
}

// bucketChains groups forward handles by disjoint-set root, then for each
// bucket of sufficient size walks from the member with no in-bucket
// predecessor to the member with no in-bucket successor, in path order.
// Buckets that loop back on themselves (no unique starting point) are
// rejected rather than guessed at.
func (g *Graph) bucketChains(u *handleUniverse, ds *disjoint.Set, minSize int) [][]Handle {
	buckets := make(map[uint64][]Handle)
	for h := range g.Handles() {
		root := ds.Find(uint64(u.idx(h)))
		buckets[root] = append(buckets[root], h)
	}

	var components [][]Handle
	for _, members := range buckets {
		if len(members) < minSize {
			continue
		}
		inBucket := make(map[NodeID]bool, len(members))
		for _, h := range members {
			inBucket[h.ID()] = true
		}

		succ := make(map[Handle]Handle, len(members))
		hasPred := make(map[Handle]bool, len(members))
		for _, h := range members {
			if right := single(g.Neighbors(h, Right)); right != 0 && inBucket[right.ID()] && g.PerfectNeighbors(h, right) {
				succ[h] = right
				hasPred[right] = true
			}
		}

		var head Handle
		heads := 0
		for _, h := range members {
			if !hasPred[h] {
				head = h
				heads++
			}
		}
		if heads != 1 {
			continue
		}

		chain := []Handle{head}
		visited := map[Handle]bool{head: true}
		cur := head
		cyclic := false
		for next, ok := succ[cur]; ok; next, ok = succ[cur] {
			if visited[next] {
				cyclic = true
				break
			}
			chain = append(chain, next)
			visited[next] = true
			cur = next
		}
		if cyclic || len(chain) != len(members) {
			continue
		}
		components = append(components, chain)
	}
	return components
}
