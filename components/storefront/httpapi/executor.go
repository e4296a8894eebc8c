package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-storefront/components/storefront/commands"
)

// Executor is the command surface transports program against. It decouples
// route registration from the concrete command wiring.
type Executor interface {
	AddProduct(ctx context.Context, input commands.AddProductInput) error
	UpdateProduct(ctx context.Context, input commands.UpdateProductInput) error
	RemoveProduct(ctx context.Context, input commands.RemoveProductInput) error
	AddCustomer(ctx context.Context, input commands.AddCustomerInput) error
	UpdateCustomer(ctx context.Context, input commands.UpdateCustomerInput) error
	RemoveCustomer(ctx context.Context, input commands.RemoveCustomerInput) error
	AddOrder(ctx context.Context, input commands.AddOrderInput) error
	UpdateOrder(ctx context.Context, input commands.UpdateOrderInput) error
	RemoveOrder(ctx context.Context, input commands.RemoveOrderInput) error
	Refresh(ctx context.Context, input commands.RefreshSnapshotInput) error
}

// CommandExecutor adapts a bundle of commanders to the Executor interface.
type CommandExecutor struct {
	AddProductCommander     gocommand.Commander[commands.AddProductInput]
	UpdateProductCommander  gocommand.Commander[commands.UpdateProductInput]
	RemoveProductCommander  gocommand.Commander[commands.RemoveProductInput]
	AddCustomerCommander    gocommand.Commander[commands.AddCustomerInput]
	UpdateCustomerCommander gocommand.Commander[commands.UpdateCustomerInput]
	RemoveCustomerCommander gocommand.Commander[commands.RemoveCustomerInput]
	AddOrderCommander       gocommand.Commander[commands.AddOrderInput]
	UpdateOrderCommander    gocommand.Commander[commands.UpdateOrderInput]
	RemoveOrderCommander    gocommand.Commander[commands.RemoveOrderInput]
	RefreshCommander        gocommand.Commander[commands.RefreshSnapshotInput]
}

var _ Executor = (*CommandExecutor)(nil)

var errCommandMissing = errors.New("httpapi: command not configured")

func (e *CommandExecutor) AddProduct(ctx context.Context, input commands.AddProductInput) error {
	return execute(ctx, e.AddProductCommander, input)
}

func (e *CommandExecutor) UpdateProduct(ctx context.Context, input commands.UpdateProductInput) error {
	return execute(ctx, e.UpdateProductCommander, input)
}

func (e *CommandExecutor) RemoveProduct(ctx context.Context, input commands.RemoveProductInput) error {
	return execute(ctx, e.RemoveProductCommander, input)
}

func (e *CommandExecutor) AddCustomer(ctx context.Context, input commands.AddCustomerInput) error {
	return execute(ctx, e.AddCustomerCommander, input)
}

func (e *CommandExecutor) UpdateCustomer(ctx context.Context, input commands.UpdateCustomerInput) error {
	return execute(ctx, e.UpdateCustomerCommander, input)
}

func (e *CommandExecutor) RemoveCustomer(ctx context.Context, input commands.RemoveCustomerInput) error {
	return execute(ctx, e.RemoveCustomerCommander, input)
}

func (e *CommandExecutor) AddOrder(ctx context.Context, input commands.AddOrderInput) error {
	return execute(ctx, e.AddOrderCommander, input)
}

func (e *CommandExecutor) UpdateOrder(ctx context.Context, input commands.UpdateOrderInput) error {
	return execute(ctx, e.UpdateOrderCommander, input)
}

func (e *CommandExecutor) RemoveOrder(ctx context.Context, input commands.RemoveOrderInput) error {
	return execute(ctx, e.RemoveOrderCommander, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshSnapshotInput) error {
	return execute(ctx, e.RefreshCommander, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], input T) error {
	if cmd == nil {
		return errCommandMissing
	}
	return cmd.Execute(ctx, input)
}
