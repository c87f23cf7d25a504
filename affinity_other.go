//go:build !linux

package hclibgo

// bindWorkerThread is a no-op outside Linux: CPU affinity pinning has
// no portable cross-platform equivalent, and Config.BindThreads is
// documented as Linux-only.
func bindWorkerThread(cfg Config, w *Worker) {
	if cfg.BindThreads {
		Logger.Warn().Msg("BIND_THREADS is only supported on Linux; ignoring")
	}
}
