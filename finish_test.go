package hclibgo

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FinishTestSuite struct {
	suite.Suite
}

func TestFinishTestSuite(t *testing.T) {
	suite.Run(t, new(FinishTestSuite))
}

func (ts *FinishTestSuite) TestEmptyScopeClosesImmediately() {
	rt := newTestRuntime(ts.T(), 2)
	err := rt.Launch(func(ctx context.Context) {
		StartFinish(ctx)
		EndFinish(ctx)
	})
	ts.NoError(err)
}

func (ts *FinishTestSuite) TestScopeWaitsForAllSpawnedTasks() {
	rt := newTestRuntime(ts.T(), 4)
	var count atomic.Int64

	err := rt.Launch(func(ctx context.Context) {
		StartFinish(ctx)
		for i := 0; i < 500; i++ {
			Async(ctx, func(ctx context.Context, _ any) {
				count.Add(1)
			}, nil)
		}
		EndFinish(ctx)

		ts.Equal(int64(500), count.Load())
	})
	ts.NoError(err)
}

func (ts *FinishTestSuite) TestNestedScopeIsolation() {
	rt := newTestRuntime(ts.T(), 4)
	var outer, inner atomic.Int64

	err := rt.Launch(func(ctx context.Context) {
		StartFinish(ctx)
		for i := 0; i < 50; i++ {
			Async(ctx, func(ctx context.Context, _ any) { outer.Add(1) }, nil)
		}

		StartFinish(ctx)
		for i := 0; i < 200; i++ {
			Async(ctx, func(ctx context.Context, _ any) { inner.Add(1) }, nil)
		}
		EndFinish(ctx)
		ts.Equal(int64(200), inner.Load(), "inner scope must see all its own children on close")

		EndFinish(ctx)
		ts.Equal(int64(50), outer.Load())
	})
	ts.NoError(err)
}

// TestDeepNestingReturnsGoroutinesToBaseline exercises 1000-deep nested
// finish scopes (each immediately closed) and asserts goroutine count
// settles back near its starting point — the Go analogue of the
// original's stack-growth concern, expressed as "no goroutine leak."
func (ts *FinishTestSuite) TestDeepNestingReturnsGoroutinesToBaseline() {
	rt := newTestRuntime(ts.T(), 2)
	baseline := runtime.NumGoroutine()

	err := rt.Launch(func(ctx context.Context) {
		for i := 0; i < 1000; i++ {
			StartFinish(ctx)
			Async(ctx, func(ctx context.Context, _ any) {}, nil)
			EndFinish(ctx)
		}
	})
	ts.NoError(err)

	time.Sleep(50 * time.Millisecond)
	ts.InDelta(baseline, runtime.NumGoroutine(), 4)
}
