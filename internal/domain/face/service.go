package face

import "context"

type Service interface {
	// Identify matches a probe descriptor against the current roster snapshot.
	Identify(ctx context.Context, req IdentifyRequest) (IdentifyResponse, error)

	// Resolve returns the accepted match for probe or ErrNoMatch.
	Resolve(ctx context.Context, probe Embedding) (Match, error)

	// RefreshRoster reloads the snapshot from storage.
	RefreshRoster(ctx context.Context) (RosterResponse, error)

	// CurrentRoster returns the snapshot in use, loading it on first call.
	CurrentRoster(ctx context.Context) (*Roster, error)
}

// RosterRefresher produces a new roster snapshot on demand.
type RosterRefresher interface {
	Refresh(ctx context.Context) (*Roster, error)
}
