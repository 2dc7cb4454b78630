package packed

import "github.com/gaissmai/vgraph/internal/ix"

// U64Store is satisfied by every fixed-width packed collection in this
// package (Vector, PagedVector, RobustVector) and lets the typed
// pack/unpack helpers below work uniformly across all three instead of
// being duplicated per concrete type.
type U64Store interface {
	Get(i int) uint64
	Set(i int, val uint64)
}

// GetUnpack reads the value at i and unpacks it as an ix.Index[T]. It's a
// small convenience wrapper: every packed vector that stores index values
// (edge-list next pointers, step prev/next links, and so on) wants this
// exact pattern instead of raw Get+Unpack at every call site.
func GetUnpack[T ix.Tag](v U64Store, i int) ix.Index[T] {
	return ix.Unpack[T](v.Get(i))
}

// SetPack packs idx and stores it at i.
func SetPack[T ix.Tag](v U64Store, i int, idx ix.Index[T]) {
	v.Set(i, idx.Pack())
}

// Appender is satisfied by every growable packed collection.
type Appender interface {
	Append(val uint64)
}

// AppendPack packs idx and appends it.
func AppendPack[T ix.Tag](v Appender, idx ix.Index[T]) {
	v.Append(idx.Pack())
}
