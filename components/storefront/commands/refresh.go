package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// RefreshSnapshotInput emits a change notification without mutating state,
// forcing subscribed views to re-render.
type RefreshSnapshotInput struct {
	Event storefront.ChangeEvent
}

type refreshNotifier interface {
	NotifySnapshotUpdated(ctx context.Context, event storefront.ChangeEvent) error
}

// RefreshSnapshotCommand triggers refresh hooks without forcing transports.
type RefreshSnapshotCommand struct {
	state     refreshNotifier
	telemetry Telemetry
}

// NewRefreshSnapshotCommand creates the command.
func NewRefreshSnapshotCommand(state refreshNotifier, telemetry Telemetry) *RefreshSnapshotCommand {
	return &RefreshSnapshotCommand{state: state, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshSnapshotInput] = (*RefreshSnapshotCommand)(nil)

// Execute forwards the event to the refresh hook.
func (c *RefreshSnapshotCommand) Execute(ctx context.Context, msg RefreshSnapshotInput) error {
	if c.state == nil {
		return errors.New("refresh command requires state")
	}
	if err := c.state.NotifySnapshotUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.refresh", map[string]any{
		"entity": msg.Event.Entity,
		"reason": msg.Event.Reason,
	})
	return nil
}
