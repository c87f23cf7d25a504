package hclibgo

import (
	"context"
	"sync"
	"sync/atomic"
)

type promiseState int32

const (
	promiseEmpty promiseState = iota
	promiseWaiting
	promiseFulfilled
)

// Promise is a single-assignment cell delivering a value from one
// producer to any number of consumers. States are monotone: EMPTY ->
// {WAITING, FULFILLED}; WAITING -> FULFILLED. Once FULFILLED, the value
// is observable by any goroutine without further synchronization
// beyond the Put/Get release-acquire pair.
//
// Wait-list registration could be done as a CAS against the promise's
// state/wait-list head. Here both the state transition and the
// wait-list are guarded by a single mutex instead of a bare CAS loop:
// the real invariant — a trigger either observes FULFILLED directly,
// or registers before Put runs and is guaranteed to be woken by it —
// falls out of any critical section that Put and registerOrFire share,
// and a mutex makes that critical section trivially easy to get right.
// The atomic state field remains for lock-free fast-path reads
// (TryGet, the fulfilled check in Get).
type Promise[T any] struct {
	state   atomic.Int32
	mu      sync.Mutex
	value   T
	waiters []*Trigger
}

// NewPromise returns a new EMPTY promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{}
}

// Put atomically transitions p to FULFILLED with value v, then
// advances every trigger that was waiting on it. Calling Put twice on
// the same promise is a fatal user-contract violation: there is no
// safe continuation because readers may have already observed the
// first value.
//
// ctx identifies the worker doing the fulfilling. A trigger that was
// still waiting on p resumes its frontier walk right here, and if p
// was its last dependency the owning task is enqueued immediately —
// onto ctx's worker, since that is the only goroutine known to be
// running this call. Using anything else (e.g. the worker that
// originally spawned the waiting task) would hand another worker's
// deque to a goroutine that doesn't own it.
func (p *Promise[T]) Put(ctx context.Context, v T) {
	w := WorkerFromContext(ctx)

	p.mu.Lock()
	if promiseState(p.state.Load()) == promiseFulfilled {
		p.mu.Unlock()
		fatalf("hclibgo: double put on promise")
		return
	}
	p.value = v
	waiters := p.waiters
	p.waiters = nil
	p.state.Store(int32(promiseFulfilled))
	p.mu.Unlock()

	for _, t := range waiters {
		t.advance(w)
	}
}

// Get returns the fulfilled value. It is undefined (and, here, a fatal
// assertion) to call Get before fulfillment; callers arrange safety via
// a Trigger rather than calling Get speculatively.
func (p *Promise[T]) Get() T {
	if promiseState(p.state.Load()) != promiseFulfilled {
		fatalf("hclibgo: Get called on an unfulfilled promise")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// TryGet returns the value and true if p is fulfilled, or the zero
// value and false otherwise. Never blocks, never asserts.
func (p *Promise[T]) TryGet() (T, bool) {
	if promiseState(p.state.Load()) != promiseFulfilled {
		var zero T
		return zero, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, true
}

// registerOrFire implements Dependency. It reports true (already
// fired) if p is FULFILLED, otherwise registers trig on p's wait list
// (transitioning EMPTY->WAITING as needed) and reports false.
func (p *Promise[T]) registerOrFire(trig *Trigger) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if promiseState(p.state.Load()) == promiseFulfilled {
		return true
	}
	p.state.CompareAndSwap(int32(promiseEmpty), int32(promiseWaiting))
	p.waiters = append(p.waiters, trig)
	return false
}
