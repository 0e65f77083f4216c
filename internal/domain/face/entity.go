package face

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// DescriptorDimension is the length of every enrolled face descriptor.
const DescriptorDimension = 128

// Embedding is a face descriptor produced by the client-side model.
//
// On the wire it is accepted either as a JSON array or as an object keyed by
// position ({"0": 0.12, "1": -0.03, ...}); it is always written back as an array.
type Embedding []float32

func (e *Embedding) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var values []float64
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedEmbedding, err)
		}
		return e.set(values)
	case '{':
		var keyed map[string]float64
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedEmbedding, err)
		}
		values, err := fromKeyed(keyed)
		if err != nil {
			return err
		}
		return e.set(values)
	default:
		return ErrMalformedEmbedding
	}
}

func (e *Embedding) set(values []float64) error {
	out := make(Embedding, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value at %d is not finite", ErrMalformedEmbedding, i)
		}
		out[i] = float32(v)
	}
	*e = out
	return nil
}

// fromKeyed orders a positional object by its integer keys. Keys must cover
// 0..n-1 exactly.
func fromKeyed(keyed map[string]float64) ([]float64, error) {
	indices := make([]int, 0, len(keyed))
	byIndex := make(map[int]float64, len(keyed))
	for k, v := range keyed {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: key %q is not a position", ErrMalformedEmbedding, k)
		}
		indices = append(indices, i)
		byIndex[i] = v
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for pos, i := range indices {
		if i != pos {
			return nil, fmt.Errorf("%w: missing position %d", ErrMalformedEmbedding, pos)
		}
		values[pos] = byIndex[i]
	}
	return values, nil
}

// RosterEntry is one enrolled identity available for matching.
type RosterEntry struct {
	EmployeeID string
	Name       string
	Embedding  Embedding
}

// Roster is an immutable snapshot of the enrolled identities. A newer snapshot
// always carries a larger Version.
type Roster struct {
	Version uint64
	TakenAt time.Time
	Entries []RosterEntry
}

// Size returns the number of entries, tolerating a nil roster.
func (r *Roster) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// Match is an accepted identification.
type Match struct {
	EmployeeID    string
	Name          string
	Distance      float64
	RosterVersion uint64
}

type Policy string

const (
	// PolicyFirst accepts the first entry in roster order under the threshold.
	PolicyFirst Policy = "first"
	// PolicyNearest accepts the globally nearest entry if it is under the threshold.
	PolicyNearest Policy = "nearest"
	// PolicyIndexed looks up the nearest entry through an HNSW graph.
	PolicyIndexed Policy = "indexed"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFirst, PolicyNearest, PolicyIndexed:
		return p, nil
	case "":
		return PolicyNearest, nil
	default:
		return "", fmt.Errorf("unknown match policy %q", s)
	}
}
