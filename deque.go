package hclibgo

import "sync/atomic"

// Deque is a bounded, circular Chase-Lev work-stealing deque. The owner
// pushes and pops at the "bottom" (LIFO); any other goroutine may steal
// from the "top" (FIFO). Push/Pop must only ever be called by the
// owning worker; Steal races with Pop at the opposite end and is safe
// to call concurrently from any number of goroutines.
//
// Layout and indexing arithmetic are carried over from
// go-foundations-workerpool's WorkStealingDeque; the synchronization
// discipline is replaced with real CAS on top, so that steal is
// lock-free against pop rather than mutex-serialized against it.
type Deque[T any] struct {
	top    atomic.Int64 // next index a stealer will take
	bottom atomic.Int64 // next free index for the owner to push into
	buf    atomic.Pointer[dequeBuffer[T]]
}

type dequeBuffer[T any] struct {
	mask int64 // len-1, len is always a power of two
	data []T
}

func newDequeBuffer[T any](size int64) *dequeBuffer[T] {
	return &dequeBuffer[T]{mask: size - 1, data: make([]T, size)}
}

func (b *dequeBuffer[T]) get(i int64) T    { return b.data[i&b.mask] }
func (b *dequeBuffer[T]) put(i int64, v T) { b.data[i&b.mask] = v }
func (b *dequeBuffer[T]) size() int64      { return b.mask + 1 }

// NewDeque creates a deque with the given initial capacity, rounded up
// to the next power of two (minimum 1). Capacity is fixed: Push
// returns false once the deque is full rather than growing, and the
// caller executes the task inline in that case.
func NewDeque[T any](capacity int) *Deque[T] {
	size := int64(1)
	for size < int64(capacity) {
		size <<= 1
	}
	d := &Deque[T]{}
	d.buf.Store(newDequeBuffer[T](size))
	return d
}

// Push adds v at the bottom. Owner-only. Returns false if the deque is
// at capacity; the caller is expected to execute the task inline in
// that case.
func (d *Deque[T]) Push(v T) bool {
	b := d.bottom.Load()
	t := d.top.Load()
	buf := d.buf.Load()

	if b-t >= buf.size() {
		// Fixed-capacity deque: signal full rather than grow, so the
		// scheduler's inline-execution fallback kicks in.
		return false
	}

	buf.put(b, v)
	// Publish the new element before bumping bottom so a concurrent
	// Steal observing the new bottom also observes the slot's value.
	d.bottom.Store(b + 1)
	return true
}

// Pop removes and returns the item at the bottom. Owner-only. Resolves
// the last-element race against concurrent stealers with a CAS on top,
// exactly as the Chase-Lev algorithm specifies.
func (d *Deque[T]) Pop() (T, bool) {
	var zero T
	b := d.bottom.Load() - 1
	buf := d.buf.Load()
	d.bottom.Store(b)

	t := d.top.Load()
	if t > b {
		// Deque was already empty; restore bottom.
		d.bottom.Store(t)
		return zero, false
	}

	v := buf.get(b)
	if t == b {
		// Last element: race against stealers for it.
		if !d.top.CompareAndSwap(t, t+1) {
			// A stealer won the race.
			d.bottom.Store(t + 1)
			return zero, false
		}
		d.bottom.Store(t + 1)
	}
	return v, true
}

// Steal removes and returns the item at the top. Safe to call from any
// non-owner goroutine; races with Pop and with other Steal callers via
// CAS on top.
func (d *Deque[T]) Steal() (T, bool) {
	var zero T
	t := d.top.Load()
	b := d.bottom.Load()
	if t >= b {
		return zero, false
	}

	buf := d.buf.Load()
	v := buf.get(t)
	if !d.top.CompareAndSwap(t, t+1) {
		// Lost the race to another stealer (or the owner's last-pop CAS).
		return zero, false
	}
	return v, true
}

// Size returns a best-effort count of resident items. Racy by
// construction (concurrent steals/pops may be in flight); intended for
// statistics and tests, not for scheduling decisions.
func (d *Deque[T]) Size() int {
	n := d.bottom.Load() - d.top.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// IsEmpty reports whether Size() == 0 at the time of the call.
func (d *Deque[T]) IsEmpty() bool {
	return d.Size() == 0
}
