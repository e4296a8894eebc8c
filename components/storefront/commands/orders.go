package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// AddOrderInput captures a new order payload. Total and date are derived at
// creation time, never supplied by the caller.
type AddOrderInput struct {
	Draft storefront.OrderDraft `json:"draft"`
}

type orderAdder interface {
	Add(ctx context.Context, draft storefront.OrderDraft) (storefront.Order, error)
}

// AddOrderCommand wraps OrderController.Add.
type AddOrderCommand struct {
	orders    orderAdder
	telemetry Telemetry
}

// NewAddOrderCommand creates the command.
func NewAddOrderCommand(orders orderAdder, telemetry Telemetry) *AddOrderCommand {
	return &AddOrderCommand{orders: orders, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddOrderInput] = (*AddOrderCommand)(nil)

// Execute creates the order and records the captured total.
func (c *AddOrderCommand) Execute(ctx context.Context, msg AddOrderInput) error {
	if c.orders == nil {
		return errors.New("add order command requires controller")
	}
	created, err := c.orders.Add(ctx, msg.Draft)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.order.add", map[string]any{
		"id":    created.ID,
		"total": created.Total,
	})
	return nil
}

// UpdateOrderInput identifies an order and its replacement references.
type UpdateOrderInput struct {
	ID    int                   `json:"id"`
	Draft storefront.OrderDraft `json:"draft"`
}

type orderUpdater interface {
	Update(ctx context.Context, id int, draft storefront.OrderDraft) (storefront.Order, error)
}

// UpdateOrderCommand wraps OrderController.Update.
type UpdateOrderCommand struct {
	orders    orderUpdater
	telemetry Telemetry
}

// NewUpdateOrderCommand creates the command.
func NewUpdateOrderCommand(orders orderUpdater, telemetry Telemetry) *UpdateOrderCommand {
	return &UpdateOrderCommand{orders: orders, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateOrderInput] = (*UpdateOrderCommand)(nil)

// Execute replaces the order's references; total and date are preserved.
func (c *UpdateOrderCommand) Execute(ctx context.Context, msg UpdateOrderInput) error {
	if c.orders == nil {
		return errors.New("update order command requires controller")
	}
	if msg.ID <= 0 {
		return errors.New("update order command requires id")
	}
	if _, err := c.orders.Update(ctx, msg.ID, msg.Draft); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.order.update", map[string]any{"id": msg.ID})
	return nil
}

// RemoveOrderInput identifies the order to remove.
type RemoveOrderInput struct {
	ID int `json:"id"`
}

type orderRemover interface {
	Remove(ctx context.Context, id int) error
}

// RemoveOrderCommand wraps OrderController.Remove.
type RemoveOrderCommand struct {
	orders    orderRemover
	telemetry Telemetry
}

// NewRemoveOrderCommand builds a command instance.
func NewRemoveOrderCommand(orders orderRemover, telemetry Telemetry) *RemoveOrderCommand {
	return &RemoveOrderCommand{orders: orders, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveOrderInput] = (*RemoveOrderCommand)(nil)

// Execute removes the order.
func (c *RemoveOrderCommand) Execute(ctx context.Context, msg RemoveOrderInput) error {
	if c.orders == nil {
		return errors.New("remove order command requires controller")
	}
	if err := c.orders.Remove(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.order.remove", map[string]any{"id": msg.ID})
	return nil
}
