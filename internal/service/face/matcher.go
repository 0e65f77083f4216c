package face

import (
	"math"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

// Matcher decides which roster entry, if any, a probe descriptor belongs to.
type Matcher struct {
	threshold float64
	policy    face.Policy
	dimension int
	index     *rosterIndex
}

func NewMatcher(threshold float64, policy face.Policy, dimension int, neighbours int) *Matcher {
	return &Matcher{
		threshold: threshold,
		policy:    policy,
		dimension: dimension,
		index:     newRosterIndex(neighbours),
	}
}

func (m *Matcher) Threshold() float64  { return m.threshold }
func (m *Matcher) Policy() face.Policy { return m.policy }

// EuclideanDistance returns the L2 distance between a and b.
func EuclideanDistance(a, b face.Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, face.ErrDimensionMismatch
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Match returns the accepted roster entry for probe. A match is accepted only
// when its distance is strictly below the threshold. Entries whose descriptor
// does not have the matcher's dimension are skipped.
func (m *Matcher) Match(probe face.Embedding, roster *face.Roster) (face.Match, bool, error) {
	if len(probe) != m.dimension {
		return face.Match{}, false, face.ErrDimensionMismatch
	}
	if roster.Size() == 0 {
		return face.Match{}, false, nil
	}

	switch m.policy {
	case face.PolicyFirst:
		return m.first(probe, roster)
	case face.PolicyIndexed:
		return m.indexed(probe, roster)
	default:
		return m.nearest(probe, roster)
	}
}

func (m *Matcher) first(probe face.Embedding, roster *face.Roster) (face.Match, bool, error) {
	for _, entry := range roster.Entries {
		if len(entry.Embedding) != m.dimension {
			continue
		}
		d, err := EuclideanDistance(probe, entry.Embedding)
		if err != nil {
			return face.Match{}, false, err
		}
		if d < m.threshold {
			return toMatch(entry, d, roster), true, nil
		}
	}
	return face.Match{}, false, nil
}

func (m *Matcher) nearest(probe face.Embedding, roster *face.Roster) (face.Match, bool, error) {
	bestIdx := -1
	bestDist := math.Inf(1)
	for i, entry := range roster.Entries {
		if len(entry.Embedding) != m.dimension {
			continue
		}
		d, err := EuclideanDistance(probe, entry.Embedding)
		if err != nil {
			return face.Match{}, false, err
		}
		// strict comparison keeps the earliest entry on exact ties
		if d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 || bestDist >= m.threshold {
		return face.Match{}, false, nil
	}
	return toMatch(roster.Entries[bestIdx], bestDist, roster), true, nil
}

func (m *Matcher) indexed(probe face.Embedding, roster *face.Roster) (face.Match, bool, error) {
	candidates := m.index.search(roster, probe, m.dimension)

	var best *face.RosterEntry
	bestDist := math.Inf(1)
	for i := range candidates {
		d, err := EuclideanDistance(probe, candidates[i].Embedding)
		if err != nil {
			return face.Match{}, false, err
		}
		if d < bestDist {
			best, bestDist = &candidates[i], d
		}
	}
	if best == nil || bestDist >= m.threshold {
		return face.Match{}, false, nil
	}
	return toMatch(*best, bestDist, roster), true, nil
}

func toMatch(entry face.RosterEntry, distance float64, roster *face.Roster) face.Match {
	return face.Match{
		EmployeeID:    entry.EmployeeID,
		Name:          entry.Name,
		Distance:      distance,
		RosterVersion: roster.Version,
	}
}
