// Command hpt-gen generates a flat, single-place HPT topology file
// seating N workers — the Go analogue of the external "hwloc_to_hpt"
// tool the original runtime's missing-HPT_FILE error message points
// at. It has no dependency on the scheduler core beyond the topology
// package's on-disk format.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-foundations/hclibgo/topology"
)

func main() {
	var workers int
	var out string
	pflag.IntVar(&workers, "workers", 4, "number of worker seats to generate")
	pflag.StringVar(&out, "out", "hclib.hpt.yaml", "output path")
	pflag.Parse()

	if workers <= 0 {
		fmt.Fprintln(os.Stderr, "hpt-gen: --workers must be positive")
		os.Exit(1)
	}

	if err := topology.WriteFlatHPTFile(out, workers); err != nil {
		fmt.Fprintln(os.Stderr, "hpt-gen:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d workers, 1 place)\n", out, workers)
}
