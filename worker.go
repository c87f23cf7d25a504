package hclibgo

import (
	"context"
	"time"

	"github.com/go-foundations/hclibgo/topology"
)

// WorkerStats holds the per-worker counters the statistics line sums
// across workers. Kept as plain fields (no shared mutable state between
// workers, so no synchronization is needed here — only the worker
// itself ever writes its own counters).
type WorkerStats struct {
	LocalPushes  int64
	Steals       int64
	WorkTime     time.Duration
	OverheadTime time.Duration
	SearchTime   time.Duration
}

// Worker is a single worker slot: an identity, a place in the
// topology, a deque, and the finish scope presently in force for
// whatever is currently executing on it.
type Worker struct {
	ID    int
	Place *topology.Place
	Deque *Deque[*Task]

	Finish *Finish

	rt       *Runtime
	shutdown *atomicFlag
	stats    WorkerStats

	// inbox receives tasks spawned onto this worker from a goroutine
	// other than w's own — the deferred-dependency-fulfillment case,
	// where the task becomes ready on whichever worker happened to
	// fulfill the last dependency, not on w itself. Backed by the same
	// locked-push/unlocked-pop CommDeque used for the communication
	// worker, since that is exactly the concurrency-safe MPMC enqueue
	// this cross-goroutine handoff needs: w.Deque's Push stays
	// owner-only, and only w ever calls Pop on either queue.
	inbox *CommDeque[*Task]
}

func newWorker(rt *Runtime, id int, place *topology.Place, dequeCapacity int) *Worker {
	return &Worker{
		ID:       id,
		Place:    place,
		Deque:    NewDeque[*Task](dequeCapacity),
		shutdown: newAtomicFlag(true),
		rt:       rt,
		inbox:    NewCommDeque[*Task](dequeCapacity),
	}
}

// run is the top-level work loop for a worker. It exits once the
// worker's shutdown flag transitions to false.
func (w *Worker) run() {
	w.runLoopUntil(func() bool { return !w.shutdown.Get() })
}

// runLoopUntil pops-then-steals and executes tasks until stop reports
// true or the worker's shutdown flag drops. Both the top-level worker
// loop and every helper fiber spawned by helpFinish share this method:
// a helper fiber just runs the normal work loop with a different stop
// condition.
func (w *Worker) runLoopUntil(stop func() bool) {
	for w.shutdown.Get() && !stop() {
		searchStart := time.Now()
		t := w.popOrSteal()
		w.stats.SearchTime += time.Since(searchStart)
		if t != nil {
			w.execute(t)
		}
	}
}

// popOrSteal drains w's inbox first (cross-goroutine handoffs waiting
// to be picked up), then tries the local deque (LIFO), then walks the
// place search order attempting a steal on each (FIFO), in traversal
// order self -> children -> siblings -> ancestors.
func (w *Worker) popOrSteal() *Task {
	// Worker 0 additionally services the communication deque when one
	// is configured: comm tasks are checked ahead of the steal search
	// so cross-place messages don't wait behind a long victim search.
	if w.ID == 0 && w.rt.commDeque != nil {
		if t, ok := w.rt.commDeque.Pop(); ok {
			return t
		}
	}

	if t, ok := w.inbox.Pop(); ok {
		return t
	}

	if t, ok := w.Deque.Pop(); ok {
		return t
	}

	order := w.rt.topology.SearchOrder(w.Place)
	for _, p := range order {
		for _, victim := range w.rt.workersAt(p) {
			if victim == w {
				continue
			}
			if t, ok := victim.Deque.Steal(); ok {
				w.stats.Steals++
				return t
			}
		}
	}
	return nil
}

// execute runs t, inheriting its Finish scope onto the worker before
// calling its body: any task t.F spawns must register against
// t.Finish, not whatever scope was in force before execute ran.
// checkOut fires exactly once, after the body returns. Time spent
// swapping the Finish scope and checking out is charged to
// OverheadTime; time inside the task body itself is charged to
// WorkTime.
func (w *Worker) execute(t *Task) {
	overheadStart := time.Now()
	prevFinish := w.Finish
	w.Finish = t.Finish
	w.stats.OverheadTime += time.Since(overheadStart)

	workStart := time.Now()
	if t.internal != nil {
		t.internal(w)
	} else {
		t.F(contextForWorker(w), t.Arg)
	}
	w.stats.WorkTime += time.Since(workStart)

	overheadStart = time.Now()
	checkOut(w, t.Finish)
	w.Finish = prevFinish
	w.stats.OverheadTime += time.Since(overheadStart)
}

// spawnLocal pushes t onto w's own deque, or — if the deque is full —
// executes it inline on the spot: progress is preserved even though
// parallelism is lost. Owner-only: callers must only invoke this from
// w's own goroutine (Runtime.spawn enforces that by construction, and
// Launch's initial push onto worker 0 happens before any worker
// goroutine starts).
func (w *Worker) spawnLocal(t *Task) {
	if w.Deque.Push(t) {
		w.stats.LocalPushes++
		return
	}
	Logger.Warn().Int("worker", w.ID).Msg("deque full, executing task inline")
	w.execute(t)
}

// enqueueRemote hands t to w from any goroutine, not just w's own: the
// deferred-dependency case, where a task bound for w becomes ready on
// whichever worker happens to be running when the last dependency
// fires. w picks it up the next time popOrSteal runs.
func (w *Worker) enqueueRemote(t *Task) {
	w.inbox.Push(t)
}
