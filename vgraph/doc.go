// Package vgraph implements an in-memory, memory-compact storage engine for
// variation graphs: bidirected sequence graphs whose nodes carry DNA
// sequences, whose edges connect strand-oriented endpoints of nodes, and
// which embed an arbitrary number of named paths through the graph.
//
// The package composes the packed record stores in internal/ (sequence,
// node, edge, occurrence, path) behind a handle-oriented façade, following
// the same "arena of packed vectors addressed by typed index, not a pointer
// graph" design throughout. Topology mutation is single-writer; traversal is
// safe for concurrent readers.
package vgraph
