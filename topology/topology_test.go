package topology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type TopologyTestSuite struct {
	suite.Suite
}

func TestTopologyTestSuite(t *testing.T) {
	suite.Run(t, new(TopologyTestSuite))
}

func (ts *TopologyTestSuite) TestFlatSeatsEveryWorker() {
	tree := Flat(4)
	ts.Len(tree.Places, 1)
	ts.Equal(4, tree.NumWorkers)
	for i := 0; i < 4; i++ {
		ts.Equal(tree.Root, tree.WorkerPlace[i])
	}
}

func (ts *TopologyTestSuite) TestLoadHPTFileRoundTrip() {
	dir := ts.T().TempDir()
	path := filepath.Join(dir, "topo.yaml")
	ts.Require().NoError(WriteFlatHPTFile(path, 6))

	tree, err := LoadHPTFile(path)
	ts.Require().NoError(err)
	ts.Equal(6, tree.NumWorkers)
	ts.Equal(1, len(tree.Places))
	ts.NotNil(tree.Root)
}

func (ts *TopologyTestSuite) TestLoadHPTFileRejectsMissingRoot() {
	dir := ts.T().TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := "places:\n  - id: 0\n    parent: 1\n    workers: [0]\n  - id: 1\n    parent: 0\n    workers: []\n"
	ts.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadHPTFile(path)
	ts.Error(err)
}

func (ts *TopologyTestSuite) TestLoadHPTFileRejectsDuplicateWorkerSeat() {
	dir := ts.T().TempDir()
	path := filepath.Join(dir, "dup.yaml")
	content := "places:\n  - id: 0\n    parent: -1\n    workers: [0]\n  - id: 1\n    parent: 0\n    workers: [0]\n"
	ts.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadHPTFile(path)
	ts.Error(err)
}

func (ts *TopologyTestSuite) TestSearchOrderVisitsSelfChildrenSiblingsAncestors() {
	root := &Place{ID: 0}
	a := &Place{ID: 1, Parent: root}
	b := &Place{ID: 2, Parent: root}
	aa := &Place{ID: 3, Parent: a}
	root.Children = []*Place{a, b}
	a.Children = []*Place{aa}

	tree := &Tree{Places: []*Place{root, a, b, aa}, Root: root}

	order := tree.SearchOrder(aa)
	ts.Require().Len(order, 4)
	ts.Equal(aa, order[0])
	ids := make([]int, len(order))
	for i, p := range order {
		ids[i] = p.ID
	}
	ts.Contains(ids, a.ID)
	ts.Contains(ids, b.ID)
	ts.Contains(ids, root.ID)
}
