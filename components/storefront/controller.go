package storefront

import (
	"context"
	"fmt"
	"io"
)

// Controller composes the dashboard page: current metrics plus rendered
// charts flowed through the template renderer.
type Controller struct {
	state    *State
	charts   *ChartRenderer
	renderer Renderer
}

// ControllerOptions configures the dashboard controller.
type ControllerOptions struct {
	State    *State
	Charts   *ChartRenderer
	Renderer Renderer
}

// NewController wires the state container into a controller. When no
// renderer is provided the embedded templates are used.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.State == nil {
		return nil, fmt.Errorf("storefront: controller requires state")
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer()
	}
	if opts.Renderer == nil {
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("storefront: template renderer: %w", err)
		}
		opts.Renderer = renderer
	}
	return &Controller{
		state:    opts.State,
		charts:   opts.Charts,
		renderer: opts.Renderer,
	}, nil
}

// RenderDashboard writes the dashboard HTML for the current snapshot.
func (c *Controller) RenderDashboard(_ context.Context, out io.Writer) error {
	metrics := c.state.Metrics()
	rendered, err := c.charts.RenderAll(metrics)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render("dashboard", map[string]any{
		"metrics": metrics,
		"charts":  rendered,
	}, out)
	return err
}

// Metrics exposes the current aggregates to transports.
func (c *Controller) Metrics() Metrics { return c.state.Metrics() }

// Snapshot exposes the current collections to transports.
func (c *Controller) Snapshot() Snapshot { return c.state.Snapshot() }
