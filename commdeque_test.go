package hclibgo

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommDequeTestSuite struct {
	suite.Suite
}

func TestCommDequeTestSuite(t *testing.T) {
	suite.Run(t, new(CommDequeTestSuite))
}

func (ts *CommDequeTestSuite) TestPushPop() {
	d := NewCommDeque[int](4)
	d.Push(1)
	d.Push(2)

	v, ok := d.Pop()
	ts.True(ok)
	ts.Equal(1, v)

	v, ok = d.Pop()
	ts.True(ok)
	ts.Equal(2, v)
}

func (ts *CommDequeTestSuite) TestPopEmptyNeverBlocks() {
	d := NewCommDeque[int](4)
	_, ok := d.Pop()
	ts.False(ok)
}

func (ts *CommDequeTestSuite) TestDefaultCapacity() {
	d := NewCommDeque[int](0)
	ts.NotNil(d)
	d.Push(7)
	v, ok := d.Pop()
	ts.True(ok)
	ts.Equal(7, v)
}
