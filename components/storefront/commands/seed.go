package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// SeedSnapshotInput controls bootstrap behavior.
type SeedSnapshotInput struct {
	FetchRemote bool
}

// SeedSnapshotCommand runs the bootstrap pipeline: persisted collections,
// hard-coded defaults, then an optional remote catalog fetch.
type SeedSnapshotCommand struct {
	state     *storefront.State
	fetcher   storefront.PageFetcher
	telemetry Telemetry
}

// NewSeedSnapshotCommand wires dependencies.
func NewSeedSnapshotCommand(state *storefront.State, fetcher storefront.PageFetcher, telemetry Telemetry) *SeedSnapshotCommand {
	return &SeedSnapshotCommand{state: state, fetcher: fetcher, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedSnapshotInput] = (*SeedSnapshotCommand)(nil)

// Execute seeds the snapshot. A remote fetch failure leaves the persisted or
// default products in place and is reported to telemetry, not returned.
func (c *SeedSnapshotCommand) Execute(ctx context.Context, msg SeedSnapshotInput) error {
	if c.state == nil {
		return errors.New("seed command requires state")
	}
	fetcher := c.fetcher
	if !msg.FetchRemote {
		fetcher = nil
	}
	if err := storefront.Bootstrap(ctx, c.state, fetcher); err != nil {
		c.telemetry.Record(ctx, "storefront.seed.remote_error", map[string]any{"error": err.Error()})
		return nil
	}
	c.telemetry.Record(ctx, "storefront.seed", map[string]any{"fetch_remote": msg.FetchRemote})
	return nil
}
