package hclibgo

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/hclibgo/topology"
)

type WorkerTestSuite struct {
	suite.Suite
}

func TestWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (ts *WorkerTestSuite) TestExecuteRunsBodyAndChecksOut() {
	rt := newTestRuntime(ts.T(), 1)
	w := rt.workers[0]

	f := startFinish(w)
	var ran bool
	task := newTask(func(ctx context.Context, _ any) { ran = true }, nil, f, false)
	checkIn(f)

	w.execute(task)

	ts.True(ran)
	ts.Equal(int64(0), f.counter.Load())
}

func (ts *WorkerTestSuite) TestSpawnLocalFallsBackToInlineWhenFull() {
	rt, err := Init(Config{Workers: 1, DequeCapacity: 1}, topology.Flat(1))
	ts.Require().NoError(err)
	w := rt.workers[0]

	var executed int
	blocker := newTask(func(ctx context.Context, _ any) {}, nil, nil, true)
	ts.True(w.Deque.Push(blocker))

	overflow := newTask(func(ctx context.Context, _ any) { executed++ }, nil, nil, true)
	w.spawnLocal(overflow)

	ts.Equal(1, executed, "a task that cannot fit in a full deque must still run inline")
}

// TestBookkeepingLaw checks that pushes minus pops minus steals-from-me
// equals the resident element count for a single worker's deque.
func (ts *WorkerTestSuite) TestBookkeepingLaw() {
	rt := newTestRuntime(ts.T(), 1)
	w := rt.workers[0]

	var pushed, popped, stolen atomic.Int64
	for i := 0; i < 100; i++ {
		if w.Deque.Push(newTask(func(ctx context.Context, _ any) {}, nil, nil, true)) {
			pushed.Add(1)
		}
	}
	for i := 0; i < 40; i++ {
		if _, ok := w.Deque.Pop(); ok {
			popped.Add(1)
		}
	}
	for i := 0; i < 30; i++ {
		if _, ok := w.Deque.Steal(); ok {
			stolen.Add(1)
		}
	}

	ts.Equal(int(pushed.Load()-popped.Load()-stolen.Load()), w.Deque.Size())
}
