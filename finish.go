package hclibgo

// Finish is a hierarchical completion scope: it completes only once
// every task spawned under it (transitively) has completed. counter
// tracks the in-flight enclosed tasks (it never goes negative), plus,
// while helpFinish is installing the completion promise, one extra
// reference held by the opener; the scope is only retired once the
// opener has observed it reach zero.
//
// That opener reference is the counterpart of the original C
// runtime's extra check_out_finish in help_finish ("balancing the
// opener's +1"). helpFinish takes it before installing the completion
// promise and drops it (through checkOut) afterwards, so the last
// child cannot bring the counter to zero while no completion promise
// is installed yet; whichever decrement reaches zero, the child's or
// the opener's, sees the promise and fulfills it. A resume trigger
// that registers after that fulfillment is still woken, because
// Promise.registerOrFire treats a late registration against an
// already-fulfilled promise as an immediate fire.
type Finish struct {
	counter    atomicCounter
	parent     *Finish
	completion *Promise[struct{}] // installed only while in helper mode
}

// startFinish opens a new scope nested under w's current scope,
// incrementing the parent's counter by one so the parent cannot close
// while this child is alive.
func startFinish(w *Worker) *Finish {
	f := &Finish{parent: w.Finish}
	if f.parent != nil {
		f.parent.counter.Inc()
	}
	w.Finish = f
	return f
}

// checkIn registers one more in-flight task under f. Called at every
// spawn. A nil Finish (escaping tasks) is a no-op.
func checkIn(f *Finish) {
	if f != nil {
		f.counter.Inc()
	}
}

// checkOut retires one in-flight task from f, as observed by w (the
// worker whose goroutine is running this call right now). If the
// counter reaches zero and a completion promise has been installed
// (helper mode is active), the promise is fulfilled, which drives the
// resume task's trigger — onto w, since w is the only worker this
// goroutine is provably allowed to enqueue onto. A nil Finish is a
// no-op.
func checkOut(w *Worker, f *Finish) {
	if f == nil {
		return
	}
	if f.counter.Dec() == 0 && f.completion != nil {
		f.completion.Put(contextForWorker(w), struct{}{})
	}
}

// endFinish closes w's current scope. If the counter is already zero,
// it pops to the parent (decrementing the parent's counter) and
// returns immediately — the common case for scopes with no outstanding
// work. Otherwise the worker enters helper mode rather than blocking.
func endFinish(rt *Runtime, w *Worker) {
	f := w.Finish
	if f == nil {
		fatalf("hclibgo: end_finish called with no open scope")
		return
	}

	if f.counter.Load() > 0 {
		helpFinish(rt, w, f)
	}
	if f.counter.Load() != 0 {
		fatalf("hclibgo: end_finish returned with non-zero counter")
	}

	if f.parent != nil {
		checkOut(w, f.parent)
	}
	w.Finish = f.parent
}

// helpFinish lets w keep making progress while its current scope
// drains, without blocking w's goroutine:
//
//  1. a fresh completion promise is installed on f while the opener
//     holds one extra reference on f.counter, dropped once the resume
//     task's trigger is in place;
//  2. the current call is represented as a parked proxy fiber,
//     finishCtx;
//  3. control swaps into a newly created helper fiber, which keeps
//     servicing w's deque (pop-then-steal) so worker slot w.ID remains
//     productive while finishCtx is parked;
//  4. an escaping resume task is spawned, registered on f's completion
//     promise, whose body — run by whichever worker eventually
//     executes it — stops the helper loop;
//  5. a dedicated watcher goroutine waits for the helper fiber to have
//     actually exited before waking finishCtx, so helpFinish returns
//     with f.counter guaranteed zero and the helper fiber guaranteed to
//     have already stopped touching w's deque and inbox.
//
// The resume task must escape its enclosing scope (f itself): if it
// were counted by f, f could never reach zero, since the very task
// meant to observe that zero would itself be one of the tasks f is
// waiting on.
//
// Unlike the C original, which migrates an OS thread's pthread-local
// "current worker" identity across the swap (the resume task may run
// on a different OS thread than the one that opened the scope, and
// that thread's TLS worker id becomes the one the resumed call sees),
// this implementation never migrates Worker identity: w's struct
// (deque, place, id) keeps being serviced by the helper fiber
// throughout, and the resume task simply signals completion from
// whichever worker happens to run it — a valid simplification because
// nothing here relies on OS-thread-local storage in the first place
// (see DESIGN.md's worker-identity decision).
func helpFinish(rt *Runtime, w *Worker, f *Finish) {
	// Hold the opener's reference while the completion promise is
	// installed, so the counter cannot reach zero unobserved.
	f.counter.Inc()
	f.completion = NewPromise[struct{}]()

	finishCtx := NewProxyFiber()
	stopHelper := make(chan struct{})
	helperDone := make(chan struct{})

	helper := NewFiber(func() {
		w.runLoopUntil(func() bool {
			select {
			case <-stopHelper:
				return true
			default:
				return false
			}
		})
		close(helperDone)
	})

	resumeTask := &Task{Escaping: true}
	resumeTask.internal = func(*Worker) {
		close(stopHelper)
	}
	resumeTask.Trigger = newTrigger(rt, resumeTask, []Dependency{f.completion})
	resumeTask.Trigger.start()

	// Drop the opener's reference; if every child has already retired,
	// this is the decrement that reaches zero and fulfills completion.
	checkOut(w, f)

	// A plain goroutine, not a scheduled task, performs the final
	// handoff: resumeTask itself may run on the helper fiber's own
	// goroutine (it is, after all, whatever is left servicing w's
	// inbox), so waiting for helperDone from inside resumeTask's body
	// would deadlock against the very close it is waiting for. This
	// watcher is ungoverned by any worker's call stack, the same
	// reasoning that makes NewFiber itself spawn a bare goroutine for
	// its backing context.
	go func() {
		<-helperDone
		finishCtx.Resume()
	}()

	finishCtx.Swap(helper)
	// Resumed here once the helper fiber has provably exited; f.counter
	// is zero.
}
