package hclibgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type PromiseTestSuite struct {
	suite.Suite
}

func TestPromiseTestSuite(t *testing.T) {
	suite.Run(t, new(PromiseTestSuite))
}

// testPutContext stands in for a running task's context in tests that
// call Put directly, outside of any scheduled task body: Put only
// needs to recover the calling worker's identity, and these promises
// have no registered waiters for that worker to spawn anything onto.
func testPutContext() context.Context {
	return contextForWorker(&Worker{})
}

func (ts *PromiseTestSuite) TestPutThenGet() {
	p := NewPromise[int]()
	p.Put(testPutContext(), 7)
	ts.Equal(7, p.Get())
}

func (ts *PromiseTestSuite) TestTryGetBeforePut() {
	p := NewPromise[int]()
	_, ok := p.TryGet()
	ts.False(ok)
}

func (ts *PromiseTestSuite) TestTryGetAfterPut() {
	p := NewPromise[string]()
	p.Put(testPutContext(), "done")
	v, ok := p.TryGet()
	ts.True(ok)
	ts.Equal("done", v)
}

func (ts *PromiseTestSuite) TestDoublePutIsFatal() {
	ts.T().Skip("fatalf terminates the process, so a double Put cannot be exercised in-process")
}

// TestRegisterOrFireOnFulfilled verifies that a trigger registering
// against an already-fulfilled promise is told "already fired"
// immediately rather than being queued and forgotten — the property
// helpFinish relies on when its completion promise is fulfilled before
// the resume task's trigger registers (see DESIGN.md Open Question 5).
func (ts *PromiseTestSuite) TestRegisterOrFireOnFulfilled() {
	p := NewPromise[int]()
	p.Put(testPutContext(), 1)

	trig := &Trigger{}
	fired := p.registerOrFire(trig)
	ts.True(fired)
}

func (ts *PromiseTestSuite) TestRegisterOrFireOnUnfulfilled() {
	p := NewPromise[int]()

	trig := &Trigger{}
	fired := p.registerOrFire(trig)
	ts.False(fired)
	ts.Len(p.waiters, 1)
}
