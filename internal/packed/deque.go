package packed

// Deque is a packed vector with a rotating start index, supporting O(1)
// amortized push/pop at both ends. It backs the node id -> record id map,
// which grows at either end as node ids are prepended or appended.
type Deque struct {
	words Vector
	start int
	len   int
}

// NewDeque constructs an empty deque.
func NewDeque() *Deque { return &Deque{} }

// Len returns the number of live elements.
func (d *Deque) Len() int { return d.len }

func (d *Deque) physicalIndex(i int) int {
	cap := d.words.Len()
	return (d.start + i) % cap
}

// Get returns the value at logical index i (0 is the front). It panics if
// i is out of bounds.
func (d *Deque) Get(i int) uint64 {
	if i < 0 || i >= d.len {
		panic("packed.Deque.Get: index out of range")
	}
	return d.words.Get(d.physicalIndex(i))
}

// Set overwrites the value at logical index i. It panics if i is out of
// bounds.
func (d *Deque) Set(i int, val uint64) {
	if i < 0 || i >= d.len {
		panic("packed.Deque.Set: index out of range")
	}
	d.words.Set(d.physicalIndex(i), val)
}

// growTo reallocates the backing storage to newCap, relaying existing
// elements starting at physical position 0.
func (d *Deque) growTo(newCap int) {
	old := make([]uint64, d.len)
	for i := 0; i < d.len; i++ {
		old[i] = d.Get(i)
	}
	d.words = Vector{}
	d.words.Resize(newCap)
	for i := 0; i < d.len; i++ {
		d.words.Set(i, old[i])
	}
	d.start = 0
}

func (d *Deque) ensureRoom() {
	if d.len < d.words.Len() {
		return
	}
	d.growTo(growCapacity(d.words.Len()))
}

func (d *Deque) maybeShrink() {
	cap := d.words.Len()
	if cap == 0 {
		return
	}
	// contract when occupancy drops below len / 1.25^2
	if float64(d.len) < float64(cap)/(1.25*1.25) && cap > 1 {
		newCap := d.len
		if newCap == 0 {
			newCap = 1
		}
		d.growTo(newCap)
	}
}

// PushBack appends val to the end.
func (d *Deque) PushBack(val uint64) {
	d.ensureRoom()
	d.words.Set(d.physicalIndex(d.len), val)
	d.len++
}

// PushFront prepends val to the front.
func (d *Deque) PushFront(val uint64) {
	d.ensureRoom()
	cap := d.words.Len()
	d.start = (d.start - 1 + cap) % cap
	d.len++
	d.words.Set(d.start, val)
}

// PopBack removes and returns the last element. It panics if the deque is
// empty.
func (d *Deque) PopBack() uint64 {
	if d.len == 0 {
		panic("packed.Deque.PopBack: empty deque")
	}
	val := d.Get(d.len - 1)
	d.len--
	d.maybeShrink()
	return val
}

// PopFront removes and returns the first element. It panics if the deque is
// empty.
func (d *Deque) PopFront() uint64 {
	if d.len == 0 {
		panic("packed.Deque.PopFront: empty deque")
	}
	val := d.Get(0)
	d.start = (d.start + 1) % d.words.Len()
	d.len--
	d.maybeShrink()
	return val
}

// Iter calls yield for every element in order.
func (d *Deque) Iter(yield func(i int, val uint64) bool) {
	for i := 0; i < d.len; i++ {
		if !yield(i, d.Get(i)) {
			return
		}
	}
}
