package hclibgo

import "sync/atomic"

// Dependency is anything a Trigger can wait on. *Promise[T] implements
// it for every T; it is exported so user code can build AsyncAwait/
// AsyncEscaping dependency lists directly out of promises without an
// intermediate wrapper.
type Dependency interface {
	registerOrFire(trig *Trigger) bool
}

// Trigger binds a task to an ordered list of dependencies and arranges
// for the task to be enqueued onto the scheduler exactly once, at the
// moment the last dependency's fulfillment causes the index to walk
// off the end.
type Trigger struct {
	rt   *Runtime
	task *Task
	deps []Dependency
	idx  atomic.Int32
	// preferred is a locality hint, not a spawn target: it names the
	// worker that originally spawned task, used only for the
	// synchronous zero-dependency fast path in start(), where that
	// worker is provably the one calling. Once a dependency is still
	// outstanding at start() time, the eventual enqueue happens from
	// whichever goroutine fulfills the last one — see advance's by
	// parameter.
	preferred *Worker
}

func newTrigger(rt *Runtime, task *Task, deps []Dependency) *Trigger {
	return &Trigger{rt: rt, task: task, deps: deps}
}

// newTriggerPreferring is newTrigger plus a worker-locality hint used
// when the caller already knows which worker is spawning the task, so
// the task can land on that worker's own deque once ready.
func newTriggerPreferring(rt *Runtime, task *Task, deps []Dependency, preferred *Worker) *Trigger {
	return &Trigger{rt: rt, task: task, deps: deps, preferred: preferred}
}

// start kicks off the initial frontier walk. Call exactly once, right
// after the trigger and its owning task have been fully constructed,
// from the same goroutine that is spawning task (t.preferred). If
// every dependency turns out to already be fulfilled, the walk
// completes synchronously, right here, so t.preferred is still a valid
// spawn target for that case.
func (t *Trigger) start() {
	if len(t.deps) == 0 {
		t.rt.spawn(t.task, t.preferred)
		return
	}
	t.advance(t.preferred)
}

// advance walks the dependency list from the current index: each
// already-fulfilled dependency is skipped past; the first unfulfilled
// one gets the trigger registered on it and advance returns (it will
// be called again when that dependency fires). When the index walks
// off the end of deps, the owner task is enqueued — exactly once,
// because only the goroutine whose CAS lands on len(deps)-1 -> len(deps)
// performs that enqueue.
//
// by is the worker executing *this* call to advance: the one whose
// goroutine is running, right now, either start() (so by is the
// spawning worker itself) or a Promise.Put that just fulfilled this
// trigger's current dependency (so by is whichever worker happened to
// fulfill it — not necessarily, and in general not, t.preferred). The
// final spawn always targets by, never t.preferred, because by is the
// only worker this goroutine is provably allowed to enqueue onto.
func (t *Trigger) advance(by *Worker) {
	for {
		i := t.idx.Load()
		n := int32(len(t.deps))
		if i >= n {
			return
		}
		if !t.deps[i].registerOrFire(t) {
			// Registered on a still-unfulfilled dependency.
			return
		}
		if !t.idx.CompareAndSwap(i, i+1) {
			// Someone else (a concurrent fulfillment re-entering
			// advance) already moved the index; re-read and continue
			// the walk from there instead of double-processing i.
			continue
		}
		if i+1 == n {
			t.rt.spawn(t.task, by)
			return
		}
	}
}
