package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// AddProductInput captures a new product payload.
type AddProductInput struct {
	Draft storefront.ProductDraft `json:"draft"`
}

type productAdder interface {
	Add(ctx context.Context, draft storefront.ProductDraft) (storefront.Product, error)
}

// AddProductCommand wraps ProductController.Add so transports can create
// products without linking directly against the state container.
type AddProductCommand struct {
	products  productAdder
	telemetry Telemetry
}

// NewAddProductCommand creates a command instance.
func NewAddProductCommand(products productAdder, telemetry Telemetry) *AddProductCommand {
	return &AddProductCommand{products: products, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddProductInput] = (*AddProductCommand)(nil)

// Execute creates the product and emits telemetry on success.
func (c *AddProductCommand) Execute(ctx context.Context, msg AddProductInput) error {
	if c.products == nil {
		return errors.New("add product command requires controller")
	}
	created, err := c.products.Add(ctx, msg.Draft)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.product.add", map[string]any{
		"id":       created.ID,
		"category": created.Category,
	})
	return nil
}

// UpdateProductInput identifies a product and carries its replacement draft.
type UpdateProductInput struct {
	ID    int                     `json:"id"`
	Draft storefront.ProductDraft `json:"draft"`
}

type productUpdater interface {
	Update(ctx context.Context, id int, draft storefront.ProductDraft) (storefront.Product, error)
}

// UpdateProductCommand wraps ProductController.Update.
type UpdateProductCommand struct {
	products  productUpdater
	telemetry Telemetry
}

// NewUpdateProductCommand creates the command.
func NewUpdateProductCommand(products productUpdater, telemetry Telemetry) *UpdateProductCommand {
	return &UpdateProductCommand{products: products, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateProductInput] = (*UpdateProductCommand)(nil)

// Execute replaces the editable fields of the product.
func (c *UpdateProductCommand) Execute(ctx context.Context, msg UpdateProductInput) error {
	if c.products == nil {
		return errors.New("update product command requires controller")
	}
	if msg.ID <= 0 {
		return errors.New("update product command requires id")
	}
	if _, err := c.products.Update(ctx, msg.ID, msg.Draft); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.product.update", map[string]any{"id": msg.ID})
	return nil
}

// RemoveProductInput identifies the product to remove.
type RemoveProductInput struct {
	ID int `json:"id"`
}

type productRemover interface {
	Remove(ctx context.Context, id int) error
}

// RemoveProductCommand wraps ProductController.Remove.
type RemoveProductCommand struct {
	products  productRemover
	telemetry Telemetry
}

// NewRemoveProductCommand builds a command instance.
func NewRemoveProductCommand(products productRemover, telemetry Telemetry) *RemoveProductCommand {
	return &RemoveProductCommand{products: products, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveProductInput] = (*RemoveProductCommand)(nil)

// Execute removes the product.
func (c *RemoveProductCommand) Execute(ctx context.Context, msg RemoveProductInput) error {
	if c.products == nil {
		return errors.New("remove product command requires controller")
	}
	if err := c.products.Remove(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.product.remove", map[string]any{"id": msg.ID})
	return nil
}
