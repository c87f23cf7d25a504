// Package hclibgo provides a work-stealing scheduler for fine-grained
// asynchronous tasks with nestable synchronization scopes ("finishes")
// and data-driven dependencies ("promises").
//
// The runtime supports:
//   - A fixed pool of worker goroutines, each owning a Chase-Lev deque
//   - Hierarchical finish scopes that track in-flight tasks without
//     blocking the closing worker
//   - Single-assignment promises and dependency triggers for data-driven
//     task scheduling
//   - Topology-aware placement of tasks onto named "places"
//   - Optional statistics collection and a dedicated communication worker
package hclibgo
