package hclibgo

import "fmt"

// ErrMissingTopology is returned by Init when HPT_FILE is unset and no
// topology was supplied directly.
var ErrMissingTopology = fmt.Errorf("hclibgo: HPT_FILE must be provided (see topology.LoadHPTFile or cmd/hpt-gen)")

// ErrCommWorkerDisabled is returned by AsyncComm when Config.CommWorker
// is false.
var ErrCommWorkerDisabled = fmt.Errorf("hclibgo: spawn onto communication deque requires Config.CommWorker")

// fatalf logs a fatal assertion failure and terminates the process, the
// same contract as the original runtime's log_die: these are user
// contract violations that have no safe continuation.
func fatalf(format string, args ...any) {
	Logger.Fatal().Msgf(format, args...)
}
