package hclibgo

// Fiber is a stackful cooperative execution context realized on top of
// a goroutine. The original C runtime needs an explicit swap(from, to)
// primitive plus a "proxy" wrapper so the initial OS thread can be
// swapped back to at shutdown; Go exposes no register-save/stack-swap
// primitive to library code, but a goroutine already IS a stackful,
// independently-scheduled context — the only missing piece is
// *explicit* hand-off to a specific target instead of the Go
// scheduler's implicit round robin. A pair of rendezvous channels
// supplies that: Swap wakes the target and parks the caller, and
// parking on a channel receive already frees the underlying OS thread
// (the Go runtime's M:N scheduler detaches the M), which is exactly
// the property a suspension point needs.
//
// Unlike the original's per-worker orig/curr LiteCtx pair, Worker does
// not keep permanent Fiber handles: nothing here ties worker identity
// to a specific OS thread, so Fiber pairs are created on demand by
// helpFinish (the only caller that needs the swap), not carried as
// standing Worker state.
type Fiber struct {
	resume  chan struct{}
	isProxy bool
}

// NewFiber allocates a fiber and starts its backing goroutine, which
// blocks immediately until the first Swap into it, then runs entry to
// completion. entry typically ends by swapping into some other fiber;
// if it returns without doing so the fiber's goroutine simply exits.
func NewFiber(entry func()) *Fiber {
	f := &Fiber{resume: make(chan struct{})}
	go func() {
		<-f.resume
		entry()
	}()
	return f
}

// NewProxyFiber wraps the calling goroutine itself as a fiber, without
// spawning a new one. It is the Go analogue of LiteCtx_proxy_create:
// there is no separate backing goroutine because the proxy IS the
// current goroutine's stack. The caller later Swaps away from this
// fiber (which parks the current goroutine on resume) and later some
// other fiber or goroutine Swaps into it or Resumes it, continuing
// exactly where the caller left off.
func NewProxyFiber() *Fiber {
	return &Fiber{resume: make(chan struct{}), isProxy: true}
}

// Swap signals to (waking its backing goroutine, or — for the first
// swap into a freshly created non-proxy fiber — starting its entry
// function) and then blocks the calling goroutine until some other
// fiber swaps back into the caller's own fiber, which the caller must
// pass as self. This is the only primitive through which fibers ever
// transfer control; there is no implicit scheduling.
func (self *Fiber) Swap(to *Fiber) {
	to.resume <- struct{}{}
	<-self.resume
}

// Resume wakes this fiber without parking the caller. Its one caller
// is helpFinish's watcher goroutine, which wakes the parked opener
// (finishCtx) once the helper fiber has exited; the watcher is not
// itself a fiber that needs to be resumed later.
func (self *Fiber) Resume() {
	self.resume <- struct{}{}
}

// Destroy releases a fiber's resources. Since the backing goroutine
// (if any) exits on its own once its entry function returns, Destroy
// is a no-op retained for symmetry with the original's
// LiteCtx_destroy/LiteCtx_proxy_destroy and to document intent at call
// sites.
func (self *Fiber) Destroy() {}
