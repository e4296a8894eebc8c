package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// AddCustomerInput captures a new customer payload.
type AddCustomerInput struct {
	Draft storefront.CustomerDraft `json:"draft"`
}

type customerAdder interface {
	Add(ctx context.Context, draft storefront.CustomerDraft) (storefront.Customer, error)
}

// AddCustomerCommand wraps CustomerController.Add.
type AddCustomerCommand struct {
	customers customerAdder
	telemetry Telemetry
}

// NewAddCustomerCommand creates the command.
func NewAddCustomerCommand(customers customerAdder, telemetry Telemetry) *AddCustomerCommand {
	return &AddCustomerCommand{customers: customers, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddCustomerInput] = (*AddCustomerCommand)(nil)

// Execute creates the customer record.
func (c *AddCustomerCommand) Execute(ctx context.Context, msg AddCustomerInput) error {
	if c.customers == nil {
		return errors.New("add customer command requires controller")
	}
	created, err := c.customers.Add(ctx, msg.Draft)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.customer.add", map[string]any{"id": created.ID})
	return nil
}

// UpdateCustomerInput identifies a customer and its replacement draft.
type UpdateCustomerInput struct {
	ID    int                      `json:"id"`
	Draft storefront.CustomerDraft `json:"draft"`
}

type customerUpdater interface {
	Update(ctx context.Context, id int, draft storefront.CustomerDraft) (storefront.Customer, error)
}

// UpdateCustomerCommand wraps CustomerController.Update.
type UpdateCustomerCommand struct {
	customers customerUpdater
	telemetry Telemetry
}

// NewUpdateCustomerCommand creates the command.
func NewUpdateCustomerCommand(customers customerUpdater, telemetry Telemetry) *UpdateCustomerCommand {
	return &UpdateCustomerCommand{customers: customers, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateCustomerInput] = (*UpdateCustomerCommand)(nil)

// Execute replaces the editable fields of the customer.
func (c *UpdateCustomerCommand) Execute(ctx context.Context, msg UpdateCustomerInput) error {
	if c.customers == nil {
		return errors.New("update customer command requires controller")
	}
	if msg.ID <= 0 {
		return errors.New("update customer command requires id")
	}
	if _, err := c.customers.Update(ctx, msg.ID, msg.Draft); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.customer.update", map[string]any{"id": msg.ID})
	return nil
}

// RemoveCustomerInput identifies the customer to remove. Orders referencing
// the customer are left untouched.
type RemoveCustomerInput struct {
	ID int `json:"id"`
}

type customerRemover interface {
	Remove(ctx context.Context, id int) error
}

// RemoveCustomerCommand wraps CustomerController.Remove.
type RemoveCustomerCommand struct {
	customers customerRemover
	telemetry Telemetry
}

// NewRemoveCustomerCommand builds a command instance.
func NewRemoveCustomerCommand(customers customerRemover, telemetry Telemetry) *RemoveCustomerCommand {
	return &RemoveCustomerCommand{customers: customers, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveCustomerInput] = (*RemoveCustomerCommand)(nil)

// Execute removes the customer.
func (c *RemoveCustomerCommand) Execute(ctx context.Context, msg RemoveCustomerInput) error {
	if c.customers == nil {
		return errors.New("remove customer command requires controller")
	}
	if err := c.customers.Remove(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.customer.remove", map[string]any{"id": msg.ID})
	return nil
}
