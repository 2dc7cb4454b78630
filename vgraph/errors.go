package vgraph

import "errors"

// Sentinel errors returned by operations with more than one failure reason.
// Checked with errors.Is.
var (
	// ErrNodeAbsent is returned when an operation names a node id that is
	// not currently live.
	ErrNodeAbsent = errors.New("vgraph: node absent")
	// ErrPathAbsent is returned when an operation names a path id or name
	// that is not currently live.
	ErrPathAbsent = errors.New("vgraph: path absent")
	// ErrStepAbsent is returned when an operation names a step pointer
	// that is not currently live on the path.
	ErrStepAbsent = errors.New("vgraph: step absent")
	// ErrLengthsExceedSequence is returned by DivideHandle when the
	// requested offsets don't fit inside the node's sequence.
	ErrLengthsExceedSequence = errors.New("vgraph: split lengths exceed sequence length")
	// ErrSelfLoopChain is returned by ConcatNodes when the chain would
	// fold a self-loop across its own boundary; see the unchop self-loop
	// design note.
	ErrSelfLoopChain = errors.New("vgraph: chain boundary is a self-loop")
)

// panicf is used for structural contract violations: bounds misses,
// null-where-non-null, duplicate node id, mismatched-length overwrite. These
// are programmer errors and are fatal.
func panicf(msg string) { panic(errors.New("vgraph: " + msg)) }
