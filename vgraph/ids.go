package vgraph

import "github.com/gaissmai/vgraph/internal/ix"

// PathID addresses a path's properties and step list. 0 is never a valid
// path id.
type PathID uint64

// StepPtr addresses one step within a single path's step list. Step
// pointers from different paths are never comparable to each other.
type StepPtr uint64

func toIxPath(p PathID) ix.PathID     { return ix.FromU64[ix.PathTag](uint64(p)) }
func fromIxPath(p ix.PathID) PathID   { return PathID(p) }
func toIxStep(s StepPtr) ix.StepPtr   { return ix.FromU64[ix.StepTag](uint64(s)) }
func fromIxStep(s ix.StepPtr) StepPtr { return StepPtr(s) }
