package face

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

// RosterCache holds the current roster snapshot. Readers never block on a
// refresh; they keep using the previous snapshot until the new one is stored.
type RosterCache struct {
	source  face.RosterSource
	current atomic.Pointer[face.Roster]
	mu      sync.Mutex
	now     func() time.Time
}

func NewRosterCache(source face.RosterSource) *RosterCache {
	return &RosterCache{source: source, now: time.Now}
}

// Refresh loads a new snapshot from the source and makes it current.
func (c *RosterCache) Refresh(ctx context.Context) (*face.Roster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.source.ListActiveEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	var version uint64 = 1
	if prev := c.current.Load(); prev != nil {
		version = prev.Version + 1
	}

	roster := &face.Roster{
		Version: version,
		TakenAt: c.now().UTC(),
		Entries: entries,
	}
	c.current.Store(roster)

	slog.Info("Face roster refreshed", "version", version, "entries", len(entries))
	return roster, nil
}

// Current returns the latest snapshot, or nil before the first Refresh.
func (c *RosterCache) Current() *face.Roster {
	return c.current.Load()
}
