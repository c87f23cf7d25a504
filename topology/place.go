// Package topology is a "hardware topology discovery" collaborator,
// external to the scheduler core: it produces a tree of Places and the
// worker seats attached to them, and the core consumes only the
// resulting in-memory Tree.
package topology

// Place is a node in the topology tree. Any place may hold worker
// seats; the scheduler uses ID to group the workers seated at each
// place (deques belong to workers, not places). Task placement follows
// this tree: a task spawned "at place P" lands with a worker seated at
// P; a task spawned without a place lands with a worker at the
// current worker's current place.
type Place struct {
	ID       int
	Parent   *Place
	Children []*Place
	Workers  []int // worker ids seated at this place
}

// IsLeaf reports whether p has no child places (the original hptt's
// notion of a leaf place). It does not look at p's worker seats.
func (p *Place) IsLeaf() bool {
	return len(p.Children) == 0
}

// Tree is the fully-resolved topology: every place, indexed by ID, plus
// the per-worker place assignment the scheduler uses to seat each
// Worker.
type Tree struct {
	Places      []*Place
	Root        *Place
	WorkerPlace map[int]*Place
	NumWorkers  int
}

// ByID returns the place with the given id, or nil.
func (t *Tree) ByID(id int) *Place {
	for _, p := range t.Places {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Flat builds a single-place topology seating all of numWorkers workers
// on one place — the degenerate tree used when no HPT file is supplied
// but the caller still wants a valid Tree (e.g. tests); it has the
// same shape as the file WriteFlatHPTFile writes for cmd/hpt-gen.
func Flat(numWorkers int) *Tree {
	root := &Place{ID: 0, Parent: nil}
	wp := make(map[int]*Place, numWorkers)
	for i := 0; i < numWorkers; i++ {
		root.Workers = append(root.Workers, i)
		wp[i] = root
	}
	return &Tree{Places: []*Place{root}, Root: root, WorkerPlace: wp, NumWorkers: numWorkers}
}

// SearchOrder returns the deterministic place-visit order used by a
// worker seated at `from` when stealing: self first, then children
// (depth-first), then siblings, then ancestors walking outward to the
// root. The order is fixed (not randomized) so that test runs are
// reproducible across worker counts.
func (t *Tree) SearchOrder(from *Place) []*Place {
	visited := make(map[int]bool, len(t.Places))
	var order []*Place

	var visit func(p *Place)
	visit = func(p *Place) {
		if p == nil || visited[p.ID] {
			return
		}
		visited[p.ID] = true
		order = append(order, p)
	}

	var visitSubtree func(p *Place)
	visitSubtree = func(p *Place) {
		visit(p)
		for _, c := range p.Children {
			visitSubtree(c)
		}
	}

	visitSubtree(from)

	for cur := from; cur != nil; cur = cur.Parent {
		if cur.Parent != nil {
			for _, sib := range cur.Parent.Children {
				if sib != cur {
					visitSubtree(sib)
				}
			}
		}
		visit(cur.Parent)
	}

	return order
}
