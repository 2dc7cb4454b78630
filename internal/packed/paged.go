package packed

// Encoding selects how a PagedVector stores values relative to each page's
// anchor. It's a construction-time parameter, analogous to the teacher's
// compile-time choice of node representation (bartnode/fastnode/slimnode):
// the storage strategy varies, the outward contract doesn't.
type Encoding int

const (
	// EncodingIdentity stores raw values with no transformation.
	EncodingIdentity Encoding = iota
	// EncodingXOR stores values XORed against the page's anchor (its
	// first non-zero value), which compresses pages of near-equal
	// values to a small bit width.
	EncodingXOR
	// EncodingDifferential stores zigzag-encoded deltas from the
	// anchor, mapping both positive and negative offsets into a single
	// non-negative range.
	EncodingDifferential
)

func zigzagEncode(delta int64) uint64 {
	return uint64((delta << 1) ^ (delta >> 63))
}

func zigzagDecode(z uint64) int64 {
	return int64(z>>1) ^ -int64(z&1)
}

// Narrow and wide page widths, matching the two page sizes spec.md §4.1
// names for the paged variant.
const (
	NarrowPageWidth = 64
	WidePageWidth   = 1024
)

type page struct {
	vec      Vector
	anchor   uint64
	hasAnchor bool
}

// PagedVector splits a logical vector into fixed-size pages, each
// optionally anchored to compress near-uniform runs.
type PagedVector struct {
	pageSize int
	encoding Encoding
	pages    []*page
	len      int
}

// NewPaged constructs an empty PagedVector with the given page size and
// encoding.
func NewPaged(pageSize int, encoding Encoding) *PagedVector {
	if pageSize <= 0 {
		panic("packed.NewPaged: pageSize must be positive")
	}
	return &PagedVector{pageSize: pageSize, encoding: encoding}
}

// PageSize returns the configured page size.
func (p *PagedVector) PageSize() int { return p.pageSize }

// Len returns the logical length.
func (p *PagedVector) Len() int { return p.len }

func (p *PagedVector) pageFor(i int) (*page, int) {
	pidx := i / p.pageSize
	off := i % p.pageSize
	return p.pages[pidx], off
}

func (p *PagedVector) encode(pg *page, val uint64) uint64 {
	switch p.encoding {
	case EncodingXOR:
		if !pg.hasAnchor && val != 0 {
			pg.anchor = val
			pg.hasAnchor = true
		}
		return val ^ pg.anchor
	case EncodingDifferential:
		if !pg.hasAnchor && val != 0 {
			pg.anchor = val
			pg.hasAnchor = true
		}
		return zigzagEncode(int64(val) - int64(pg.anchor))
	default:
		return val
	}
}

func (p *PagedVector) decode(pg *page, raw uint64) uint64 {
	switch p.encoding {
	case EncodingXOR:
		return raw ^ pg.anchor
	case EncodingDifferential:
		return uint64(int64(pg.anchor) + zigzagDecode(raw))
	default:
		return raw
	}
}

// Get returns the value at i. It panics if i is out of bounds.
func (p *PagedVector) Get(i int) uint64 {
	if i < 0 || i >= p.len {
		panic("packed.PagedVector.Get: index out of range")
	}
	pg, off := p.pageFor(i)
	return p.decode(pg, pg.vec.Get(off))
}

// Set overwrites the value at i. It panics if i is out of bounds.
func (p *PagedVector) Set(i int, val uint64) {
	if i < 0 || i >= p.len {
		panic("packed.PagedVector.Set: index out of range")
	}
	pg, off := p.pageFor(i)
	pg.vec.Set(off, p.encode(pg, val))
}

// Append adds val to the end, opening a new page when the current one is
// full.
func (p *PagedVector) Append(val uint64) {
	pidx := p.len / p.pageSize
	if pidx == len(p.pages) {
		p.pages = append(p.pages, &page{})
	}
	pg := p.pages[pidx]
	pg.vec.Append(p.encode(pg, val))
	p.len++
}

// AppendPages appends an entire in-order batch of values by calling Append
// once per value; the batch is not written a page at a time. buf is reset
// to length zero and is not otherwise used.
func (p *PagedVector) AppendPages(buf *[]uint64, values []uint64) {
	*buf = (*buf)[:0]
	for _, v := range values {
		p.Append(v)
	}
}

// Reserve pre-sizes the page list for n elements.
func (p *PagedVector) Reserve(n int) {
	needed := (n + p.pageSize - 1) / p.pageSize
	for len(p.pages) < needed {
		p.pages = append(p.pages, &page{})
	}
}

// Iter calls yield for every element in order.
func (p *PagedVector) Iter(yield func(i int, val uint64) bool) {
	for i := 0; i < p.len; i++ {
		if !yield(i, p.Get(i)) {
			return
		}
	}
}
