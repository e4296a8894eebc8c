package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 10, 22, 15, 4, 5, 0, time.UTC)
}

func newTestState(t *testing.T, kv KV) *State {
	t.Helper()
	return NewState(Options{
		Store: NewCollectionStore(kv, "storefront"),
		Clock: fixedClock,
	})
}

func TestProductAddAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, Snapshot{Products: []Product{{ID: 7, Name: "Old", Category: "misc", Price: 1, Stock: 1}}})

	created, err := state.Products().Add(ctx, ProductDraft{Name: "New", Category: "misc", Price: 2, Stock: 3})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if created.ID != 8 {
		t.Fatalf("expected id 8, got %d", created.ID)
	}
}

func TestProductRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, Snapshot{Products: DefaultProducts()})

	if err := state.Products().Remove(ctx, 1); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := state.Products().Remove(ctx, 1); err != nil {
		t.Fatalf("second Remove returned error: %v", err)
	}
	for _, p := range state.Products().List() {
		if p.ID == 1 {
			t.Fatalf("product 1 still present")
		}
	}
}

func TestProductUpdateMissingRecord(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	_, err := state.Products().Update(ctx, 42, ProductDraft{Name: "X", Category: "misc", Price: 1, Stock: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderAddCapturesTotalAndDate(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, Snapshot{
		Products:  []Product{{ID: 1, Name: "Widget", Category: "misc", Price: 10.00, Stock: 0}},
		Customers: []Customer{{ID: 1, Name: "Alice", Email: "alice@example.com"}},
	})

	created, err := state.Orders().Add(ctx, OrderDraft{ProductID: 1, CustomerID: 1, Quantity: 3})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}
	if created.Total != 30.00 {
		t.Fatalf("expected total 30.00, got %v", created.Total)
	}
	if created.Date != "2025-10-22" {
		t.Fatalf("expected clock date, got %s", created.Date)
	}
	// Out-of-stock products can still be ordered; status is display-only.
	if state.Products().List()[0].Status() != StatusOutOfStock {
		t.Fatalf("expected product to stay out of stock")
	}
}

func TestOrderTotalSurvivesPriceChange(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, Snapshot{
		Products:  []Product{{ID: 1, Name: "Widget", Category: "misc", Price: 99.99, Stock: 5}},
		Customers: []Customer{{ID: 1, Name: "Alice", Email: "alice@example.com"}},
	})

	created, err := state.Orders().Add(ctx, OrderDraft{ProductID: 1, CustomerID: 1, Quantity: 2})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if created.Total != 199.98 {
		t.Fatalf("expected total 199.98, got %v", created.Total)
	}

	if _, err := state.Products().Update(ctx, 1, ProductDraft{Name: "Widget", Category: "misc", Price: 1.00, Stock: 5}); err != nil {
		t.Fatalf("product update returned error: %v", err)
	}
	orders := state.Orders().List()
	if orders[0].Total != 199.98 {
		t.Fatalf("expected order total preserved, got %v", orders[0].Total)
	}
	if state.Metrics().TotalRevenue != 199.98 {
		t.Fatalf("expected revenue from captured totals, got %v", state.Metrics().TotalRevenue)
	}
}

func TestOrderUpdatePreservesTotalAndDate(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, Snapshot{
		Products:  []Product{{ID: 1, Name: "A", Category: "misc", Price: 10, Stock: 5}, {ID: 2, Name: "B", Category: "misc", Price: 20, Stock: 5}},
		Customers: DefaultCustomers(),
	})
	created, err := state.Orders().Add(ctx, OrderDraft{ProductID: 1, CustomerID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	updated, err := state.Orders().Update(ctx, created.ID, OrderDraft{ProductID: 2, CustomerID: 2, Quantity: 4})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ProductID != 2 || updated.CustomerID != 2 || updated.Quantity != 4 {
		t.Fatalf("expected references replaced, got %#v", updated)
	}
	if updated.Total != created.Total || updated.Date != created.Date {
		t.Fatalf("expected total/date preserved, got %#v", updated)
	}
}

func TestOrderAddRejectsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, DefaultSnapshot())

	_, err := state.Orders().Add(ctx, OrderDraft{ProductID: 999, CustomerID: 1, Quantity: 1})
	verr, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "product_id" {
		t.Fatalf("expected product_id failure, got %#v", verr.Fields)
	}

	_, err = state.Orders().Add(ctx, OrderDraft{ProductID: 1, CustomerID: 999, Quantity: 1})
	if verr, ok := IsValidation(err); !ok || verr.Fields[0] != "customer_id" {
		t.Fatalf("expected customer_id failure, got %v", err)
	}
}

func TestCustomerRemoveDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, DefaultSnapshot())

	if err := state.Customers().Remove(ctx, 1); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	orders := state.Orders().List()
	if len(orders) != 2 {
		t.Fatalf("expected orders untouched, got %d", len(orders))
	}
	if got := CustomerName(state.Customers().List(), orders[0].CustomerID); got != "Unknown Customer" {
		t.Fatalf("expected Unknown Customer fallback, got %q", got)
	}
	if state.Metrics().TotalRevenue != 289.97 {
		t.Fatalf("expected revenue unchanged, got %v", state.Metrics().TotalRevenue)
	}
}

func TestMutationsWriteThrough(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	state := newTestState(t, kv)
	state.LoadPersisted(ctx, DefaultSnapshot())

	if _, err := state.Customers().Add(ctx, CustomerDraft{Name: "Eve", Email: "eve@example.com"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	raw, ok, err := kv.Get(ctx, "storefront.customers")
	if err != nil || !ok {
		t.Fatalf("expected persisted customers, got ok=%v err=%v", ok, err)
	}
	var stored []Customer
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("persisted payload unparseable: %v", err)
	}
	if len(stored) != 5 || stored[4].Name != "Eve" {
		t.Fatalf("expected 5 persisted customers ending with Eve, got %#v", stored)
	}

	// A fresh state over the same KV must see the write.
	restored := newTestState(t, kv)
	restored.LoadPersisted(ctx, Snapshot{})
	if len(restored.Customers().List()) != 5 {
		t.Fatalf("expected restored customers, got %d", len(restored.Customers().List()))
	}
}

func TestMutationNotifiesRefreshHook(t *testing.T) {
	ctx := context.Background()
	hook := &recordingHook{}
	state := NewState(Options{
		Store:       NewCollectionStore(NewMemoryKV(), "storefront"),
		RefreshHook: hook,
		Clock:       fixedClock,
	})
	state.LoadPersisted(ctx, DefaultSnapshot())

	if _, err := state.Products().Add(ctx, ProductDraft{Name: "New", Category: "misc", Price: 1, Stock: 1}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(hook.events) < 2 {
		t.Fatalf("expected load + add events, got %#v", hook.events)
	}
	last := hook.events[len(hook.events)-1]
	if last.Entity != CollectionProducts || last.Reason != "add" {
		t.Fatalf("unexpected event %#v", last)
	}
}

func TestReplaceProductsSwapsCollection(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t, NewMemoryKV())
	state.LoadPersisted(ctx, DefaultSnapshot())

	if err := state.ReplaceProducts(ctx, []Product{{ID: 100, Name: "Remote", Category: "remote", Price: 5, Stock: 50}}); err != nil {
		t.Fatalf("ReplaceProducts returned error: %v", err)
	}
	products := state.Products().List()
	if len(products) != 1 || products[0].ID != 100 {
		t.Fatalf("expected remote collection, got %#v", products)
	}
	if got := state.Metrics().CategoryDistribution; len(got) != 1 || got[0].Category != "remote" {
		t.Fatalf("expected metrics recomputed, got %#v", got)
	}
}

type recordingHook struct {
	events []ChangeEvent
}

func (h *recordingHook) SnapshotUpdated(_ context.Context, event ChangeEvent) error {
	h.events = append(h.events, event)
	return nil
}
