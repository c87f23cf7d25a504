//go:build linux

package hclibgo

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func lockOSThreadForAffinity() { runtime.LockOSThread() }

func numCPU() int {
	n := runtime.NumCPU()
	if n <= 0 {
		return 1
	}
	return n
}

// bindWorkerThread pins the calling OS thread to the CPU matching w.ID
// when Config.BindThreads is set, the Go analogue of the original
// runtime's pthread_setaffinity_np call in each worker's startup path.
// It must run on the worker's own goroutine before entering the work
// loop, and locks that goroutine to its OS thread first since affinity
// is a thread, not a process, property.
func bindWorkerThread(cfg Config, w *Worker) {
	if !cfg.BindThreads {
		return
	}
	lockOSThreadForAffinity()

	var set unix.CPUSet
	set.Zero()
	set.Set(w.ID % numCPU())
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		Logger.Warn().Err(err).Int("worker", w.ID).Msg("failed to set thread affinity")
	}
}
