package topology

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// hptFile is the on-disk shape read from HPT_FILE. The exact format is
// left to this collaborator; YAML was chosen here because it is a
// serialization format already well established in the Go ecosystem
// (gopkg.in/yaml.v3), rather than inventing a new ad hoc text format.
type hptFile struct {
	Places []hptPlace `yaml:"places"`
}

type hptPlace struct {
	ID      int   `yaml:"id"`
	Parent  int   `yaml:"parent"` // -1 for the root
	Workers []int `yaml:"workers"`
}

// LoadHPTFile reads and resolves a topology descriptor, producing the
// in-memory Tree the scheduler consumes. It is a pure collaborator: it
// has no dependency on the scheduler core, whose only call into it is
// Init loading Config.HPTFile.
func LoadHPTFile(path string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: reading %s: %w", path, err)
	}

	var f hptFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("topology: parsing %s: %w", path, err)
	}
	if len(f.Places) == 0 {
		return nil, fmt.Errorf("topology: %s declares no places", path)
	}

	byID := make(map[int]*Place, len(f.Places))
	for _, p := range f.Places {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("topology: duplicate place id %d", p.ID)
		}
		byID[p.ID] = &Place{ID: p.ID, Workers: append([]int(nil), p.Workers...)}
	}

	var root *Place
	wp := make(map[int]*Place)
	for _, p := range f.Places {
		place := byID[p.ID]
		if p.Parent < 0 {
			if root != nil {
				return nil, fmt.Errorf("topology: more than one root place")
			}
			root = place
			continue
		}
		parent, ok := byID[p.Parent]
		if !ok {
			return nil, fmt.Errorf("topology: place %d references unknown parent %d", p.ID, p.Parent)
		}
		place.Parent = parent
		parent.Children = append(parent.Children, place)
	}
	if root == nil {
		return nil, fmt.Errorf("topology: %s declares no root place (parent: -1)", path)
	}

	numWorkers := 0
	for _, p := range byID {
		for _, w := range p.Workers {
			if _, dup := wp[w]; dup {
				return nil, fmt.Errorf("topology: worker %d seated at more than one place", w)
			}
			wp[w] = p
			numWorkers++
		}
	}

	places := make([]*Place, 0, len(byID))
	for _, p := range byID {
		places = append(places, p)
	}
	sort.Slice(places, func(i, j int) bool { return places[i].ID < places[j].ID })

	return &Tree{Places: places, Root: root, WorkerPlace: wp, NumWorkers: numWorkers}, nil
}

// WriteFlatHPTFile writes a single-root, single-place HPT file seating
// numWorkers workers, the format cmd/hpt-gen emits — the Go analogue of
// the original's external hwloc_to_hpt auto-generation tool referenced
// by hclib_init's missing-HPT_FILE error message.
func WriteFlatHPTFile(path string, numWorkers int) error {
	workers := make([]int, numWorkers)
	for i := range workers {
		workers[i] = i
	}
	f := hptFile{Places: []hptPlace{{ID: 0, Parent: -1, Workers: workers}}}
	raw, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
