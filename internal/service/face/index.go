package face

import (
	"sync"

	"github.com/coder/hnsw"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

// candidatesPerSearch is how many graph neighbours are re-ranked by exact distance.
const candidatesPerSearch = 3

// rosterIndex holds an HNSW graph for the most recent roster snapshot it has
// seen. The graph is rebuilt the first time a newer snapshot is searched.
type rosterIndex struct {
	mu         sync.Mutex
	neighbours int
	version    uint64
	built      bool
	graph      *hnsw.Graph[string]
	entries    map[string]face.RosterEntry
}

func newRosterIndex(neighbours int) *rosterIndex {
	if neighbours < 2 {
		neighbours = 16
	}
	return &rosterIndex{neighbours: neighbours}
}

func (ix *rosterIndex) snapshot(roster *face.Roster, dimension int) (*hnsw.Graph[string], map[string]face.RosterEntry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.built && ix.version == roster.Version {
		return ix.graph, ix.entries
	}

	g := hnsw.NewGraph[string]()
	g.M = ix.neighbours
	g.Ml = 1.0 / float64(ix.neighbours)
	g.Distance = hnsw.EuclideanDistance

	entries := make(map[string]face.RosterEntry, len(roster.Entries))
	for _, entry := range roster.Entries {
		if len(entry.Embedding) != dimension {
			continue
		}
		// first entry wins if the roster repeats an id
		if _, dup := entries[entry.EmployeeID]; dup {
			continue
		}
		entries[entry.EmployeeID] = entry
		g.Add(hnsw.MakeNode(entry.EmployeeID, []float32(entry.Embedding)))
	}

	ix.graph, ix.entries = g, entries
	ix.version, ix.built = roster.Version, true
	return g, entries
}

// search returns up to candidatesPerSearch roster entries near probe.
func (ix *rosterIndex) search(roster *face.Roster, probe face.Embedding, dimension int) []face.RosterEntry {
	g, entries := ix.snapshot(roster, dimension)
	if len(entries) == 0 {
		return nil
	}

	k := candidatesPerSearch
	if len(entries) < k {
		k = len(entries)
	}

	nodes := g.Search([]float32(probe), k)
	out := make([]face.RosterEntry, 0, len(nodes))
	for _, n := range nodes {
		if entry, ok := entries[n.Key]; ok {
			out = append(out, entry)
		}
	}
	return out
}
