package hclibgo

import (
	"os"
	"strconv"
)

// Config configures a Runtime at Init/Launch time. Workers, HPTFile,
// BindThreads and Stats have environment-variable analogues, read
// unprefixed rather than the original runtime's
// HCLIB_WORKERS/HCLIB_HPT_FILE naming; DequeCapacity and CommWorker
// are set in code only.
type Config struct {
	// Workers is the number of worker goroutines to launch. Zero means
	// "use the topology file's worker count."
	Workers int

	// HPTFile is the path to a topology descriptor (topology.LoadHPTFile).
	// Required unless Topology is set directly on Init.
	HPTFile string

	// BindThreads pins each worker goroutine's backing OS thread to a
	// single CPU, the worker's ID modulo the CPU count. Linux-only; a
	// no-op elsewhere.
	BindThreads bool

	// Stats enables the startup banner and shutdown statistics line.
	Stats bool

	// DequeCapacity bounds each per-worker deque. Zero selects a
	// built-in default.
	DequeCapacity int

	// CommWorker creates a CommDeque for AsyncComm that worker 0
	// services ahead of its own inbox and Deque; worker 0 keeps its
	// Deque and still runs ordinary tasks.
	CommWorker bool
}

// LoadConfigFromEnv reads WORKERS, HPT_FILE, BIND_THREADS, and STATS,
// applying defaults for anything unset. It never errors; malformed
// numeric/boolean values are treated as unset. Validation of the
// topology file itself is left to LoadHPTFile.
func LoadConfigFromEnv() Config {
	cfg := Config{DequeCapacity: 4096}

	if v, ok := os.LookupEnv("WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	cfg.HPTFile = os.Getenv("HPT_FILE")
	if v, ok := os.LookupEnv("BIND_THREADS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.BindThreads = b
		}
	}
	if v, ok := os.LookupEnv("STATS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Stats = b
		}
	}
	return cfg
}
