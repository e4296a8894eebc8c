package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

type snapshotService interface {
	Snapshot() storefront.Snapshot
}

// SnapshotQuery executes read-only snapshot resolution.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[struct{}, storefront.Snapshot] = (*SnapshotQuery)(nil)

// Query returns the current snapshot.
func (q *SnapshotQuery) Query(ctx context.Context, _ struct{}) (storefront.Snapshot, error) {
	return q.service.Snapshot(), nil
}
