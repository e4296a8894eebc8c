package commands

import (
	"context"
	"errors"
	"testing"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

func TestAddProductCommand(t *testing.T) {
	ctrl := &stubProducts{}
	telemetry := &stubTelemetry{}
	cmd := NewAddProductCommand(ctrl, telemetry)
	draft := storefront.ProductDraft{Name: "Lamp", Category: "home", Price: 9.99, Stock: 4}
	if err := cmd.Execute(context.Background(), AddProductInput{Draft: draft}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if ctrl.addCalls != 1 {
		t.Fatalf("expected add call")
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry event")
	}
}

func TestAddProductCommandPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	cmd := NewAddProductCommand(&stubProducts{err: wantErr}, nil)
	err := cmd.Execute(context.Background(), AddProductInput{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected controller error, got %v", err)
	}
}

func TestUpdateProductCommandRequiresID(t *testing.T) {
	cmd := NewUpdateProductCommand(&stubProducts{}, nil)
	if err := cmd.Execute(context.Background(), UpdateProductInput{ID: 0}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestRemoveProductCommand(t *testing.T) {
	ctrl := &stubProducts{}
	cmd := NewRemoveProductCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), RemoveProductInput{ID: 2}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if ctrl.removeCalls != 1 || ctrl.lastID != 2 {
		t.Fatalf("expected remove of id 2, got %d calls id %d", ctrl.removeCalls, ctrl.lastID)
	}
}

func TestCustomerCommands(t *testing.T) {
	ctrl := &stubCustomers{}
	add := NewAddCustomerCommand(ctrl, nil)
	if err := add.Execute(context.Background(), AddCustomerInput{Draft: storefront.CustomerDraft{Name: "Eve", Email: "eve@example.com"}}); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	update := NewUpdateCustomerCommand(ctrl, nil)
	if err := update.Execute(context.Background(), UpdateCustomerInput{ID: 1, Draft: storefront.CustomerDraft{Name: "Eve", Email: "eve@example.com"}}); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	remove := NewRemoveCustomerCommand(ctrl, nil)
	if err := remove.Execute(context.Background(), RemoveCustomerInput{ID: 1}); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if ctrl.addCalls != 1 || ctrl.updateCalls != 1 || ctrl.removeCalls != 1 {
		t.Fatalf("expected all controller calls, got %#v", ctrl)
	}
}

func TestOrderCommands(t *testing.T) {
	ctrl := &stubOrders{}
	add := NewAddOrderCommand(ctrl, nil)
	if err := add.Execute(context.Background(), AddOrderInput{Draft: storefront.OrderDraft{ProductID: 1, CustomerID: 1, Quantity: 2}}); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	update := NewUpdateOrderCommand(ctrl, nil)
	if err := update.Execute(context.Background(), UpdateOrderInput{ID: 1, Draft: storefront.OrderDraft{ProductID: 2, CustomerID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	remove := NewRemoveOrderCommand(ctrl, nil)
	if err := remove.Execute(context.Background(), RemoveOrderInput{ID: 1}); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if ctrl.addCalls != 1 || ctrl.updateCalls != 1 || ctrl.removeCalls != 1 {
		t.Fatalf("expected all controller calls, got %#v", ctrl)
	}
}

func TestRefreshSnapshotCommand(t *testing.T) {
	notifier := &stubNotifier{}
	cmd := NewRefreshSnapshotCommand(notifier, nil)
	event := storefront.ChangeEvent{Entity: "snapshot", Reason: "manual"}
	if err := cmd.Execute(context.Background(), RefreshSnapshotInput{Event: event}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if notifier.calls != 1 || notifier.last.Reason != "manual" {
		t.Fatalf("expected notification, got %#v", notifier)
	}
}

func TestSeedSnapshotCommandSeedsDefaults(t *testing.T) {
	state := storefront.NewState(storefront.Options{
		Store: storefront.NewCollectionStore(storefront.NewMemoryKV(), "storefront"),
	})
	telemetry := &stubTelemetry{}
	cmd := NewSeedSnapshotCommand(state, nil, telemetry)
	if err := cmd.Execute(context.Background(), SeedSnapshotInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	snap := state.Snapshot()
	if len(snap.Customers) != 4 || len(snap.Orders) != 2 {
		t.Fatalf("expected default collections, got %d customers / %d orders", len(snap.Customers), len(snap.Orders))
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestSeedSnapshotCommandToleratesRemoteFailure(t *testing.T) {
	state := storefront.NewState(storefront.Options{
		Store: storefront.NewCollectionStore(storefront.NewMemoryKV(), "storefront"),
	})
	cmd := NewSeedSnapshotCommand(state, failingFetcher{}, nil)
	if err := cmd.Execute(context.Background(), SeedSnapshotInput{FetchRemote: true}); err != nil {
		t.Fatalf("expected remote failure swallowed, got %v", err)
	}
	if len(state.Snapshot().Products) == 0 {
		t.Fatalf("expected default products to remain")
	}
}

type stubProducts struct {
	addCalls    int
	updateCalls int
	removeCalls int
	lastID      int
	err         error
}

func (s *stubProducts) Add(_ context.Context, draft storefront.ProductDraft) (storefront.Product, error) {
	s.addCalls++
	return storefront.Product{ID: 1, Name: draft.Name, Category: draft.Category}, s.err
}

func (s *stubProducts) Update(_ context.Context, id int, draft storefront.ProductDraft) (storefront.Product, error) {
	s.updateCalls++
	s.lastID = id
	return storefront.Product{ID: id}, s.err
}

func (s *stubProducts) Remove(_ context.Context, id int) error {
	s.removeCalls++
	s.lastID = id
	return s.err
}

type stubCustomers struct {
	addCalls    int
	updateCalls int
	removeCalls int
}

func (s *stubCustomers) Add(context.Context, storefront.CustomerDraft) (storefront.Customer, error) {
	s.addCalls++
	return storefront.Customer{ID: 1}, nil
}

func (s *stubCustomers) Update(_ context.Context, id int, _ storefront.CustomerDraft) (storefront.Customer, error) {
	s.updateCalls++
	return storefront.Customer{ID: id}, nil
}

func (s *stubCustomers) Remove(context.Context, int) error {
	s.removeCalls++
	return nil
}

type stubOrders struct {
	addCalls    int
	updateCalls int
	removeCalls int
}

func (s *stubOrders) Add(context.Context, storefront.OrderDraft) (storefront.Order, error) {
	s.addCalls++
	return storefront.Order{ID: 1, Total: 19.98}, nil
}

func (s *stubOrders) Update(_ context.Context, id int, _ storefront.OrderDraft) (storefront.Order, error) {
	s.updateCalls++
	return storefront.Order{ID: id}, nil
}

func (s *stubOrders) Remove(context.Context, int) error {
	s.removeCalls++
	return nil
}

type stubNotifier struct {
	calls int
	last  storefront.ChangeEvent
}

func (s *stubNotifier) NotifySnapshotUpdated(_ context.Context, event storefront.ChangeEvent) error {
	s.calls++
	s.last = event
	return nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}

type failingFetcher struct{}

func (failingFetcher) FetchPage(context.Context, string, int, int) (storefront.Page, error) {
	return storefront.Page{}, errors.New("remote unavailable")
}
