package hclibgo

import (
	"context"
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/go-foundations/hclibgo/topology"
)

// TaskFunc is the body of a spawned task. ctx carries the identity of
// whichever Worker is currently executing the task (WorkerFromContext)
// so the body can spawn further tasks without a package-level notion of
// "current worker." Task bodies must not cache the Worker they observe
// past a suspension point; re-derive it from ctx after any call that
// may suspend.
type TaskFunc func(ctx context.Context, arg any)

// Task is an immutable record created at spawn time. It is owned by
// whichever deque currently holds it and is destroyed after F(Arg)
// returns and its Finish's check-out completes; it is never observed
// twice.
type Task struct {
	F        TaskFunc
	Arg      any
	Finish   *Finish // nil for escaping tasks
	Trigger  *Trigger
	Escaping bool
	Place    *topology.Place // nil => current worker's current place
	id       uint64

	// internal, when set, is run instead of F(Arg) by Worker.execute.
	// It exists solely for the runtime's own escaping resume tasks
	// (see helpFinish), which need direct access to whichever Worker
	// actually executes them rather than a user-supplied Arg.
	internal func(w *Worker)
}

func newTaskID() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[:8])
}

func newTask(f TaskFunc, arg any, finish *Finish, escaping bool) *Task {
	return &Task{F: f, Arg: arg, Finish: finish, Escaping: escaping, id: newTaskID()}
}
