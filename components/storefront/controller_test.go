package storefront

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

type stubRenderer struct {
	calls    int
	lastName string
	lastData any
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	s.lastName = name
	s.lastData = data
	if len(out) > 0 && out[0] != nil {
		_, _ = out[0].Write([]byte("ok"))
	}
	return "ok", nil
}

func TestControllerRequiresState(t *testing.T) {
	if _, err := NewController(ControllerOptions{}); err == nil {
		t.Fatalf("expected error when state missing")
	}
}

func TestRenderDashboardFlowsMetricsAndCharts(t *testing.T) {
	ctx := context.Background()
	state := NewState(Options{Store: NewCollectionStore(NewMemoryKV(), "storefront")})
	state.LoadPersisted(ctx, DefaultSnapshot())

	renderer := &stubRenderer{}
	controller, err := NewController(ControllerOptions{
		State:    state,
		Charts:   NewChartRenderer(WithChartCache(NewChartCache(time.Minute))),
		Renderer: renderer,
	})
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := controller.RenderDashboard(ctx, &buf); err != nil {
		t.Fatalf("RenderDashboard returned error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected response body")
	}
	if renderer.calls != 1 || renderer.lastName != "dashboard" {
		t.Fatalf("expected dashboard template render, got %q", renderer.lastName)
	}
	data, ok := renderer.lastData.(map[string]any)
	if !ok {
		t.Fatalf("unexpected template data %#v", renderer.lastData)
	}
	metrics, ok := data["metrics"].(Metrics)
	if !ok || metrics.TotalOrders != 2 {
		t.Fatalf("expected metrics in template data, got %#v", data["metrics"])
	}
	if _, ok := data["charts"].(DashboardCharts); !ok {
		t.Fatalf("expected rendered charts in template data")
	}
}

func TestBootstrapPrefersRemoteProducts(t *testing.T) {
	ctx := context.Background()
	state := NewState(Options{Store: NewCollectionStore(NewMemoryKV(), "storefront")})

	remote := pageFetcherFunc(func(_ context.Context, query string, pageNumber, pageSize int) (Page, error) {
		return Page{Items: []Product{{ID: 10, Name: "Remote", Category: "remote", Price: 1, Stock: 30}}, Total: 1}, nil
	})
	if err := Bootstrap(ctx, state, remote); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	products := state.Products().List()
	if len(products) != 1 || products[0].Name != "Remote" {
		t.Fatalf("expected remote products, got %#v", products)
	}
	if len(state.Customers().List()) != 4 {
		t.Fatalf("expected default customers retained")
	}
}

func TestBootstrapRemoteFailureKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	state := NewState(Options{Store: NewCollectionStore(NewMemoryKV(), "storefront")})

	remote := pageFetcherFunc(func(context.Context, string, int, int) (Page, error) {
		return Page{}, io.ErrUnexpectedEOF
	})
	if err := Bootstrap(ctx, state, remote); err == nil {
		t.Fatalf("expected remote error surfaced")
	}
	if len(state.Products().List()) != len(DefaultProducts()) {
		t.Fatalf("expected default products to survive remote failure")
	}
}

type pageFetcherFunc func(ctx context.Context, query string, pageNumber, pageSize int) (Page, error)

func (f pageFetcherFunc) FetchPage(ctx context.Context, query string, pageNumber, pageSize int) (Page, error) {
	return f(ctx, query, pageNumber, pageSize)
}
