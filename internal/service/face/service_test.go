package face

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

type stubSource struct {
	entries []face.RosterEntry
	err     error
	calls   int
}

func (s *stubSource) ListActiveEmbeddings(ctx context.Context) ([]face.RosterEntry, error) {
	s.calls++
	return s.entries, s.err
}

func descriptor(hot int, value float32) face.Embedding {
	v := make(face.Embedding, face.DescriptorDimension)
	v[hot] = value
	return v
}

func newService(src *stubSource) face.Service {
	return NewFaceService(
		NewMatcher(0.55, face.PolicyNearest, face.DescriptorDimension, 16),
		NewRosterCache(src),
	)
}

func TestRosterCache_VersionsIncrease(t *testing.T) {
	src := &stubSource{entries: []face.RosterEntry{{EmployeeID: "a", Embedding: descriptor(0, 1)}}}
	cache := NewRosterCache(src)
	assert.Nil(t, cache.Current())

	r1, err := cache.Refresh(context.Background())
	require.NoError(t, err)
	r2, err := cache.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), r1.Version)
	assert.Equal(t, uint64(2), r2.Version)
	assert.Same(t, r2, cache.Current())
	// earlier snapshots are untouched
	assert.Len(t, r1.Entries, 1)
}

func TestRosterCache_RefreshErrorKeepsPrevious(t *testing.T) {
	src := &stubSource{}
	cache := NewRosterCache(src)
	r1, err := cache.Refresh(context.Background())
	require.NoError(t, err)

	src.err = errors.New("db down")
	_, err = cache.Refresh(context.Background())
	assert.Error(t, err)
	assert.Same(t, r1, cache.Current())
}

func TestIdentify(t *testing.T) {
	src := &stubSource{entries: []face.RosterEntry{
		{EmployeeID: "a", Name: "Alice", Embedding: descriptor(0, 1)},
		{EmployeeID: "b", Name: "Bob", Embedding: descriptor(1, 1)},
	}}
	svc := newService(src)

	res, err := svc.Identify(context.Background(), face.IdentifyRequest{FaceDescriptor: descriptor(1, 1)})
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "b", res.EmployeeID)
	assert.Equal(t, "Bob", res.Name)
	assert.Equal(t, uint64(1), res.RosterVersion)

	res, err = svc.Identify(context.Background(), face.IdentifyRequest{FaceDescriptor: descriptor(2, 1)})
	require.NoError(t, err)
	assert.False(t, res.Matched)

	// roster loaded once, lazily
	assert.Equal(t, 1, src.calls)
}

func TestIdentify_ExactMatchKeepsZeroDistance(t *testing.T) {
	svc := newService(&stubSource{entries: []face.RosterEntry{{EmployeeID: "a", Name: "A", Embedding: descriptor(0, 1)}}})

	res, err := svc.Identify(context.Background(), face.IdentifyRequest{FaceDescriptor: descriptor(0, 1)})
	require.NoError(t, err)
	require.NotNil(t, res.Distance)
	assert.Zero(t, *res.Distance)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"distance":0`)

	miss, err := svc.Identify(context.Background(), face.IdentifyRequest{FaceDescriptor: descriptor(3, 1)})
	require.NoError(t, err)
	raw, err = json.Marshal(miss)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "distance")
}

func TestRosterUnavailable(t *testing.T) {
	src := &stubSource{err: errors.New("db down")}
	svc := newService(src)

	_, err := svc.Identify(context.Background(), face.IdentifyRequest{FaceDescriptor: descriptor(0, 1)})
	assert.ErrorIs(t, err, face.ErrRosterUnavailable)

	_, err = svc.Resolve(context.Background(), descriptor(0, 1))
	assert.ErrorIs(t, err, face.ErrRosterUnavailable)

	// recovers once the source is back
	src.err = nil
	src.entries = []face.RosterEntry{{EmployeeID: "a", Embedding: descriptor(0, 1)}}
	match, err := svc.Resolve(context.Background(), descriptor(0, 1))
	require.NoError(t, err)
	assert.Equal(t, "a", match.EmployeeID)
}

func TestIdentify_InvalidDescriptor(t *testing.T) {
	svc := newService(&stubSource{})
	_, err := svc.Identify(context.Background(), face.IdentifyRequest{FaceDescriptor: face.Embedding{1, 2}})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "faceDescriptor")
}

func TestResolve_NoMatch(t *testing.T) {
	svc := newService(&stubSource{entries: []face.RosterEntry{{EmployeeID: "a", Embedding: descriptor(0, 1)}}})
	_, err := svc.Resolve(context.Background(), descriptor(5, 1))
	assert.ErrorIs(t, err, face.ErrNoMatch)
}

func TestRefreshRoster(t *testing.T) {
	src := &stubSource{entries: []face.RosterEntry{{EmployeeID: "a", Embedding: descriptor(0, 1)}}}
	svc := newService(src)

	res, err := svc.RefreshRoster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Version)
	assert.Equal(t, 1, res.Entries)
	assert.NotEmpty(t, res.TakenAt)
}
