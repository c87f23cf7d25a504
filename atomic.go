package hclibgo

import "sync/atomic"

// atomicCounter is a thin typed wrapper over atomic.Int64, named after
// the original runtime's hc_atomic_inc/hc_atomic_dec so call sites read
// the same way the C source does.
type atomicCounter struct {
	v atomic.Int64
}

// Inc increments the counter and returns the new value.
func (c *atomicCounter) Inc() int64 {
	return c.v.Add(1)
}

// Dec decrements the counter and returns the new value. Callers use the
// return value of zero to detect the last-reference transition (the
// same convention as check_out_finish's hc_atomic_dec).
func (c *atomicCounter) Dec() int64 {
	return c.v.Add(-1)
}

// Add adds delta (may be negative) and returns the new value.
func (c *atomicCounter) Add(delta int64) int64 {
	return c.v.Add(delta)
}

// Load returns the current value.
func (c *atomicCounter) Load() int64 {
	return c.v.Load()
}

// atomicFlag is a memory-ordered boolean, used for per-worker shutdown
// flags: true means running, false means drain and exit, and the
// transition is monotonic.
type atomicFlag struct {
	v atomic.Bool
}

func newAtomicFlag(initial bool) *atomicFlag {
	f := &atomicFlag{}
	f.v.Store(initial)
	return f
}

func (f *atomicFlag) Set(v bool) { f.v.Store(v) }
func (f *atomicFlag) Get() bool  { return f.v.Load() }
func (f *atomicFlag) CAS(old, new bool) bool {
	return f.v.CompareAndSwap(old, new)
}
