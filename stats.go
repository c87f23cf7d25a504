package hclibgo

import (
	"fmt"
	"time"
)

// Statistics is the aggregate, post-shutdown summary emitted when
// Config.Stats is set: one tab-separated line summarizing pushes,
// steals, and per-worker timing across the whole pool, mirroring the
// original runtime's HCLIB_STATS output shape.
type Statistics struct {
	NumWorkers      int
	Duration        time.Duration
	CommPushes      int64
	LocalPushes     int64
	Steals          int64
	AvgWorkTime     time.Duration
	AvgOverheadTime time.Duration
	AvgSearchTime   time.Duration
}

func collectStatistics(workers []*Worker, commPushes int64, start time.Time) Statistics {
	st := Statistics{NumWorkers: len(workers), Duration: time.Since(start), CommPushes: commPushes}
	var workTotal, overheadTotal, searchTotal time.Duration
	for _, w := range workers {
		st.LocalPushes += w.stats.LocalPushes
		st.Steals += w.stats.Steals
		workTotal += w.stats.WorkTime
		overheadTotal += w.stats.OverheadTime
		searchTotal += w.stats.SearchTime
	}
	if len(workers) > 0 {
		st.AvgWorkTime = workTotal / time.Duration(len(workers))
		st.AvgOverheadTime = overheadTotal / time.Duration(len(workers))
		st.AvgSearchTime = searchTotal / time.Duration(len(workers))
	}
	return st
}

// logBanner and logFooter bracket a Launch call when Config.Stats is
// set, matching the original runtime's practice of printing a startup
// line identifying the worker count and a shutdown line
// summarizing steal activity.
func logBanner(cfg Config, numWorkers int) {
	Logger.Info().
		Int("workers", numWorkers).
		Bool("bind_threads", cfg.BindThreads).
		Str("hpt_file", cfg.HPTFile).
		Msg("hclibgo runtime starting")
}

func logFooter(st Statistics) {
	Logger.Info().
		Int("workers", st.NumWorkers).
		Dur("duration", st.Duration).
		Int64("comm_pushes", st.CommPushes).
		Int64("local_pushes", st.LocalPushes).
		Int64("steals", st.Steals).
		Dur("avg_work_time", st.AvgWorkTime).
		Dur("avg_overhead_time", st.AvgOverheadTime).
		Dur("avg_search_time", st.AvgSearchTime).
		Msg("hclibgo runtime stopped")

	fmt.Fprintf(consoleStatsWriter, "duration_ms\tcomm_pushes\tlocal_pushes\tsteals\tavg_work_ms\tavg_overhead_ms\tavg_search_ms\n")
	fmt.Fprintf(consoleStatsWriter, "%d\t%d\t%d\t%d\t%.3f\t%.3f\t%.3f\n",
		st.Duration.Milliseconds(), st.CommPushes, st.LocalPushes, st.Steals,
		durationMillis(st.AvgWorkTime), durationMillis(st.AvgOverheadTime), durationMillis(st.AvgSearchTime))
}

// durationMillis renders d as fractional milliseconds, for the stats
// line's average-time columns where sub-millisecond precision matters
// (Milliseconds() alone would round tiny averages to zero).
func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
