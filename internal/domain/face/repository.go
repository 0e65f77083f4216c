package face

import "context"

// RosterSource lists the embeddings of every active employee.
type RosterSource interface {
	ListActiveEmbeddings(ctx context.Context) ([]RosterEntry, error)
}
