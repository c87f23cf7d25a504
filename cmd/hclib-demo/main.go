// Command hclib-demo is a thin CLI layering flag overrides over
// hclibgo.LoadConfigFromEnv and launching one of the bundled example
// scenarios. It is a pure external collaborator: it imports the
// runtime core and contributes nothing to it, exactly the "CLI
// parsing" collaborator the runtime itself stays agnostic of.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-foundations/hclibgo"
	"github.com/go-foundations/hclibgo/examples/counters"
	"github.com/go-foundations/hclibgo/examples/fib"
	"github.com/go-foundations/hclibgo/examples/nested"
	"github.com/go-foundations/hclibgo/topology"
)

func main() {
	cfg := hclibgo.LoadConfigFromEnv()
	var hptFile string
	var fibN int
	var counterN int
	var outerWork, innerWork int

	root := &cobra.Command{
		Use:           "hclib-demo",
		Short:         "Run a bundled hclibgo example scenario",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker goroutines (0 = from topology)")
	root.PersistentFlags().StringVar(&hptFile, "hpt-file", cfg.HPTFile, "path to a topology YAML file (empty = flat topology sized to --workers)")
	root.PersistentFlags().BoolVar(&cfg.BindThreads, "bind-threads", cfg.BindThreads, "pin each worker's OS thread to a CPU (Linux only)")
	root.PersistentFlags().BoolVar(&cfg.Stats, "stats", cfg.Stats, "emit a startup/shutdown statistics line")

	fibCmd := &cobra.Command{
		Use:   "fib",
		Short: "Compute a Fibonacci number via nested AsyncAwait",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.HPTFile = hptFile
			return launch(cfg, func(ctx context.Context) {
				hclibgo.StartFinish(ctx)
				result := fib.Run(ctx, fibN)
				hclibgo.EndFinish(ctx)
				fmt.Printf("fib(%d) = %d\n", fibN, result.Get())
			})
		},
	}
	fibCmd.Flags().IntVar(&fibN, "n", 20, "which Fibonacci number to compute")

	countersCmd := &cobra.Command{
		Use:   "counters",
		Short: "Run N independent async increments under one finish scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.HPTFile = hptFile
			return launch(cfg, func(ctx context.Context) {
				total := counters.Run(ctx, counterN)
				fmt.Printf("counters: %d/%d\n", total, counterN)
			})
		},
	}
	countersCmd.Flags().IntVar(&counterN, "n", 10000, "number of async increments")

	nestedCmd := &cobra.Command{
		Use:   "nested",
		Short: "Demonstrate nested finish scope isolation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.HPTFile = hptFile
			return launch(cfg, func(ctx context.Context) {
				result := nested.Run(ctx, outerWork, innerWork)
				fmt.Printf("outer=%d inner=%d\n", result.Outer, result.Inner)
			})
		},
	}
	nestedCmd.Flags().IntVar(&outerWork, "outer", 100, "outer scope async count")
	nestedCmd.Flags().IntVar(&innerWork, "inner", 50, "inner scope async count")

	root.AddCommand(fibCmd, countersCmd, nestedCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hclib-demo:", err)
		os.Exit(1)
	}
}

func launch(cfg hclibgo.Config, entry func(ctx context.Context)) error {
	var topo *topology.Tree
	if cfg.HPTFile == "" {
		workers := cfg.Workers
		if workers <= 0 {
			workers = 4
		}
		topo = topology.Flat(workers)
	}

	rt, err := hclibgo.Init(cfg, topo)
	if err != nil {
		return err
	}
	defer rt.Finalize()
	return rt.Launch(entry)
}
