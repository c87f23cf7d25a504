package hclibgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/hclibgo/topology"
)

type SchedulerTestSuite struct {
	suite.Suite
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (ts *SchedulerTestSuite) TestInitRequiresTopologyOrHPTFile() {
	_, err := Init(Config{}, nil)
	ts.ErrorIs(err, ErrMissingTopology)
}

func (ts *SchedulerTestSuite) TestInitDerivesWorkerCountFromTopology() {
	rt, err := Init(Config{}, topology.Flat(3))
	ts.Require().NoError(err)
	ts.Len(rt.workers, 3)
}

func (ts *SchedulerTestSuite) TestAsyncCommWithoutCommWorkerErrors() {
	rt := newTestRuntime(ts.T(), 1)
	var gotErr error
	err := rt.Launch(func(ctx context.Context) {
		gotErr = AsyncComm(ctx, func(ctx context.Context, _ any) {}, nil)
	})
	ts.Require().NoError(err)
	ts.ErrorIs(gotErr, ErrCommWorkerDisabled)
}

func (ts *SchedulerTestSuite) TestAsyncCommWithCommWorker() {
	rt, err := Init(Config{Workers: 2, CommWorker: true, DequeCapacity: 64}, topology.Flat(2))
	ts.Require().NoError(err)

	var gotErr error
	launchErr := rt.Launch(func(ctx context.Context) {
		gotErr = AsyncComm(ctx, func(ctx context.Context, _ any) {}, nil)
	})
	ts.Require().NoError(launchErr)
	ts.NoError(gotErr)
}

// TestDeterminismAcrossWorkerCounts runs the same fan-out-fan-in
// workload at several worker counts and checks the aggregate result is
// identical regardless of how many workers serviced it (scenario 2's
// reproducibility property).
func (ts *SchedulerTestSuite) TestDeterminismAcrossWorkerCounts() {
	const tasks = 2000
	for _, n := range []int{1, 2, 4, 8} {
		rt := newTestRuntime(ts.T(), n)
		var total atomicCounter
		err := rt.Launch(func(ctx context.Context) {
			StartFinish(ctx)
			for i := 0; i < tasks; i++ {
				Async(ctx, func(ctx context.Context, _ any) {
					total.Inc()
				}, nil)
			}
			EndFinish(ctx)
		})
		ts.Require().NoError(err)
		ts.Equal(int64(tasks), total.Load(), "worker count %d", n)
	}
}
