package hclibgo

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-foundations/hclibgo/topology"
)

// Runtime owns the worker pool, the topology it is seated on, and the
// bookkeeping needed to shut both down cleanly.
type Runtime struct {
	cfg      Config
	topology *topology.Tree
	workers  []*Worker

	byPlace map[int][]*Worker

	commDeque  *CommDeque[*Task]
	commPushes atomicCounter

	group  *errgroup.Group
	cancel context.CancelFunc

	startedAt time.Time
}

type workerIdentityKey struct{}

// contextForWorker returns a context carrying w as the implicit current
// worker, the mechanism task bodies use to re-derive identity instead
// of relying on goroutine-local storage: a goroutine-id-based approach
// was rejected because it ships unimplemented upstream, and
// context.Context is the idiomatic carrier for request-scoped identity
// in Go.
func contextForWorker(w *Worker) context.Context {
	return context.WithValue(context.Background(), workerIdentityKey{}, w)
}

// WorkerFromContext returns the Worker currently executing, as threaded
// through by TaskFunc's ctx parameter. It terminates the process via
// fatalf if ctx was not derived from one handed to a running task — a
// programmer error, not a recoverable runtime condition.
func WorkerFromContext(ctx context.Context) *Worker {
	w, ok := ctx.Value(workerIdentityKey{}).(*Worker)
	if !ok {
		fatalf("hclibgo: WorkerFromContext called outside a running task")
	}
	return w
}

// Init builds a Runtime from cfg and topo but does not start any
// workers; Launch does that. Passing a nil topo requires cfg.HPTFile to
// be set.
func Init(cfg Config, topo *topology.Tree) (*Runtime, error) {
	if topo == nil {
		if cfg.HPTFile == "" {
			return nil, ErrMissingTopology
		}
		loaded, err := topology.LoadHPTFile(cfg.HPTFile)
		if err != nil {
			return nil, err
		}
		topo = loaded
	}

	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = topo.NumWorkers
	}
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	rt := &Runtime{cfg: cfg, topology: topo, byPlace: make(map[int][]*Worker, len(topo.Places))}

	capacity := cfg.DequeCapacity
	if capacity <= 0 {
		capacity = 4096
	}

	for i := 0; i < numWorkers; i++ {
		place := topo.WorkerPlace[i]
		if place == nil {
			place = topo.Root
		}
		w := newWorker(rt, i, place, capacity)
		rt.workers = append(rt.workers, w)
		rt.byPlace[place.ID] = append(rt.byPlace[place.ID], w)
	}

	if cfg.CommWorker {
		rt.commDeque = NewCommDeque[*Task](capacity)
	}

	return rt, nil
}

// workersAt returns the workers seated at place p, or nil.
func (rt *Runtime) workersAt(p *topology.Place) []*Worker {
	if p == nil {
		return nil
	}
	return rt.byPlace[p.ID]
}

// spawn places t onto an appropriate deque. by, when non-nil, must be
// the worker whose goroutine is actually calling spawn right now —
// never merely a locality hint — because the only deque this call is
// provably allowed to Push onto directly is by's own (Chase-Lev
// requires Push to come from the owner). If t's target place is the
// one by is seated at, t lands on by's own deque; otherwise, or if by
// is nil, t is handed to the target worker's inbox, which is safe to
// enqueue onto from any goroutine.
func (rt *Runtime) spawn(t *Task, by *Worker) {
	place := t.Place
	if place == nil {
		if by != nil {
			place = by.Place
		} else {
			place = rt.workers[0].Place
		}
	}

	var target *Worker
	if by != nil && by.Place == place {
		target = by
	} else {
		candidates := rt.workersAt(place)
		if len(candidates) == 0 {
			candidates = rt.workers
		}
		target = candidates[0]
	}

	if target == by {
		target.spawnLocal(t)
		return
	}
	target.enqueueRemote(t)
}

// Launch starts every worker's goroutine, spawns entry as an escaping
// initial task on worker 0 wrapped in a root finish scope, and blocks
// until both entry returns AND every task it (transitively) spawned
// under that root scope has completed — the same start-finish/
// end-finish pairing any other task body uses, just opened around
// entry itself rather than by entry. It then shuts every worker down
// and joins them via an errgroup before returning. entry runs as an
// ordinary task taken from worker 0's deque (popped by worker 0 or
// stolen by another worker), not on the calling goroutine, which only
// waits; so Async/AsyncAwait/StartFinish calls made
// directly from entry behave exactly as they would from inside any
// other task body.
func (rt *Runtime) Launch(entry func(ctx context.Context)) error {
	if rt.cfg.Stats {
		logBanner(rt.cfg, len(rt.workers))
	}
	rt.startedAt = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	rt.cancel = cancel
	group, _ := errgroup.WithContext(ctx)
	rt.group = group

	entryDone := make(chan struct{})
	entryTask := &Task{Escaping: true}
	entryTask.internal = func(w *Worker) {
		startFinish(w)
		entry(contextForWorker(w))
		// endFinish enters helper mode (keeps w servicing its deque via
		// a helper fiber) rather than blocking if tasks spawned by entry
		// are still outstanding, so this does not stall worker 0's
		// progress while the root scope drains.
		endFinish(rt, w)
		close(entryDone)
	}
	// Pushed before any worker goroutine starts, so there is no
	// concurrent Push/Pop on worker 0's deque at this point: Chase-Lev
	// requires Push and Pop to come from the same single owner.
	rt.workers[0].spawnLocal(entryTask)

	for _, w := range rt.workers {
		w := w
		group.Go(func() error {
			bindWorkerThread(rt.cfg, w)
			w.run()
			return nil
		})
	}

	<-entryDone

	for _, w := range rt.workers {
		w.shutdown.Set(false)
	}
	err := group.Wait()

	if rt.cfg.Stats {
		logFooter(collectStatistics(rt.workers, rt.commPushes.Load(), rt.startedAt))
	}
	return err
}

// Async spawns f under the finish scope currently open on ctx's worker,
// landing on the current worker's own place.
func Async(ctx context.Context, f TaskFunc, arg any) {
	w := WorkerFromContext(ctx)
	t := newTask(f, arg, w.Finish, false)
	checkIn(w.Finish)
	t.Trigger = newTriggerPreferring(w.rt, t, nil, w)
	t.Trigger.start()
}

// AsyncAwait spawns f under the current finish scope, but only once
// every dependency in deps has fired.
func AsyncAwait(ctx context.Context, f TaskFunc, arg any, deps ...Dependency) {
	w := WorkerFromContext(ctx)
	t := newTask(f, arg, w.Finish, false)
	checkIn(w.Finish)
	t.Trigger = newTriggerPreferring(w.rt, t, deps, w)
	t.Trigger.start()
}

// AsyncEscaping spawns f outside of any finish scope: no enclosing
// finish waits on it. Reserved for runtime-internal bookkeeping tasks
// and for user code that has deliberately opted out of structured
// completion tracking.
func AsyncEscaping(ctx context.Context, f TaskFunc, arg any, deps ...Dependency) {
	w := WorkerFromContext(ctx)
	t := newTask(f, arg, nil, true)
	t.Trigger = newTriggerPreferring(w.rt, t, deps, w)
	t.Trigger.start()
}

// AsyncAt spawns f under the current finish scope, targeting place's
// deque instead of the spawning worker's own.
func AsyncAt(ctx context.Context, place *topology.Place, f TaskFunc, arg any) {
	w := WorkerFromContext(ctx)
	t := newTask(f, arg, w.Finish, false)
	t.Place = place
	checkIn(w.Finish)
	t.Trigger = newTriggerPreferring(w.rt, t, nil, w)
	t.Trigger.start()
}

// AsyncComm spawns f onto the dedicated communication deque rather than
// a worker place deque. It returns ErrCommWorkerDisabled if
// Config.CommWorker was false at Init time.
func AsyncComm(ctx context.Context, f TaskFunc, arg any) error {
	w := WorkerFromContext(ctx)
	if w.rt.commDeque == nil {
		return ErrCommWorkerDisabled
	}
	t := newTask(f, arg, w.Finish, false)
	checkIn(w.Finish)
	w.rt.commDeque.Push(t)
	w.rt.commPushes.Inc()
	return nil
}

// Finalize releases the cancellation context associated with the last
// Launch call. Go's garbage collector reclaims every other resource a
// Runtime holds (deques, workers, topology), so Finalize's only real
// job — unlike the original's hclib_finalize, which frees hand-managed
// C allocations — is to make teardown order explicit and idempotent to
// call after Launch returns (see DESIGN.md Open Question 3).
func (rt *Runtime) Finalize() {
	if rt.cancel != nil {
		rt.cancel()
	}
}

// StartFinish opens a new finish scope nested under ctx's worker's
// current scope.
func StartFinish(ctx context.Context) {
	startFinish(WorkerFromContext(ctx))
}

// EndFinish closes ctx's worker's current finish scope, entering helper
// mode rather than blocking if tasks are still outstanding.
func EndFinish(ctx context.Context) {
	w := WorkerFromContext(ctx)
	endFinish(w.rt, w)
}
