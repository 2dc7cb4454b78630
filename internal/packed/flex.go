package packed

// FlexPagedVector is a flexible-page byte-sequence store: a list of closed
// pages plus one open page. Sequences are appended atomically to the
// currently open page via AppendSeq; a sequence is never split across two
// pages. When the open page's length reaches maxPageLen, it closes and the
// next AppendSeq opens a new page. This backs the DNA sequence store, whose
// elements are 3-bit-wide bases, but is width-agnostic: width is given per
// call so other byte-oriented data could reuse it.
type FlexPagedVector struct {
	maxPageLen int
	pages      []*Vector // closed pages
	open       *Vector
	len        int
}

// NewFlexPaged constructs an empty store whose open page closes once it
// reaches maxPageLen elements.
func NewFlexPaged(maxPageLen int) *FlexPagedVector {
	if maxPageLen <= 0 {
		panic("packed.NewFlexPaged: maxPageLen must be positive")
	}
	return &FlexPagedVector{maxPageLen: maxPageLen, open: &Vector{}}
}

// Len returns the total number of elements across all pages.
func (f *FlexPagedVector) Len() int { return f.len }

// MaxPageLen returns the element count at which an open page closes.
func (f *FlexPagedVector) MaxPageLen() int { return f.maxPageLen }

// pageFor returns the page holding logical offset i, and the offset's
// position within that page.
func (f *FlexPagedVector) pageFor(i int) (*Vector, int) {
	off := i
	for _, pg := range f.pages {
		if off < pg.Len() {
			return pg, off
		}
		off -= pg.Len()
	}
	return f.open, off
}

// Get returns the element at logical offset i. It panics if i is out of
// bounds.
func (f *FlexPagedVector) Get(i int) uint64 {
	if i < 0 || i >= f.len {
		panic("packed.FlexPagedVector.Get: index out of range")
	}
	pg, off := f.pageFor(i)
	return pg.Get(off)
}

// Set overwrites the element at logical offset i. It panics if i is out of
// bounds.
func (f *FlexPagedVector) Set(i int, val uint64) {
	if i < 0 || i >= f.len {
		panic("packed.FlexPagedVector.Set: index out of range")
	}
	pg, off := f.pageFor(i)
	pg.Set(off, val)
}

// closeOpenIfFull closes the current open page once it's reached its size
// limit, starting a fresh open page for the next append.
func (f *FlexPagedVector) closeOpenIfFull() {
	if f.open.Len() >= f.maxPageLen {
		f.pages = append(f.pages, f.open)
		f.open = &Vector{}
	}
}

// AppendSeq appends an entire sequence of width-wide values to the
// currently open page, without splitting it across pages: if the sequence
// would overflow the open page's remaining room, the open page is closed
// first (even if not yet full) and a fresh page receives the whole
// sequence. width is presently unused for element width (every stored
// value already carries its own width via Vector's on-demand widening) and
// is accepted for interface symmetry with the spec's append_iter(width,
// iter) signature.
func (f *FlexPagedVector) AppendSeq(width uint, values []uint64) {
	_ = width
	if f.open.Len() > 0 && f.open.Len()+len(values) > f.maxPageLen {
		f.pages = append(f.pages, f.open)
		f.open = &Vector{}
	}
	for _, v := range values {
		f.open.Append(v)
		f.len++
	}
	f.closeOpenIfFull()
}

// Iter calls yield for count elements starting at logical offset off, in
// order.
func (f *FlexPagedVector) Iter(off, count int, yield func(val uint64) bool) {
	for i := 0; i < count; i++ {
		if !yield(f.Get(off + i)) {
			return
		}
	}
}
