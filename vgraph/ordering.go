package vgraph

// ApplyOrdering reassigns node ids to follow the given permutation of the
// live handle set: handles[0]'s node becomes id 1, handles[1]'s node
// becomes id 2, and so on. Topology, sequences, and paths are unaffected;
// only which integer addresses each node changes, by rebuilding the node
// id <-> record id map and rewriting every stored handle through the old
// id -> new id map.
func (g *Graph) ApplyOrdering(handles []Handle) {
	if len(handles) != g.NodeCount() {
		panicf("ApplyOrdering: permutation length does not match live node count")
	}

	remap := make(map[uint64]uint64, len(handles))
	seen := make(map[NodeID]bool, len(handles))
	for i, h := range handles {
		id := h.ID()
		if !g.HasNode(id) {
			panicf("ApplyOrdering: permutation names a node id that is not live")
		}
		if seen[id] {
			panicf("ApplyOrdering: permutation repeats a node id")
		}
		seen[id] = true
		remap[uint64(id)] = uint64(i + 1)
	}

	transform := func(raw uint64) uint64 {
		old := Handle(raw)
		if old == 0 {
			return 0
		}
		newID, ok := remap[uint64(old.ID())]
		if !ok {
			return raw
		}
		return uint64(PackHandle(NodeID(newID), old.IsReverse()))
	}

	g.edges.TransformTargets(transform)
	g.nodes.RenumberIDs(remap)
	g.paths.TransformAllHandles(transform)
}
