package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Collection names used for persistence keys and change events.
const (
	CollectionProducts  = "products"
	CollectionOrders    = "orders"
	CollectionCustomers = "customers"
)

// Options configures the state container. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Store       *CollectionStore
	Validator   DraftValidator
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Clock       func() time.Time
}

// State owns the in-memory snapshot. All mutations flow through it under a
// single-writer lock; every successful mutation writes through to the
// collection store and recomputes the derived metrics before notifying
// subscribers.
type State struct {
	mu       sync.Mutex
	snapshot Snapshot
	metrics  Metrics
	opts     Options
}

// NewState builds a state container with safe defaults.
func NewState(opts Options) *State {
	if opts.Validator == nil {
		opts.Validator = NewSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	s := &State{opts: opts}
	s.metrics = ComputeMetrics(s.snapshot)
	return s
}

// Snapshot returns a copy of the current collections.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Metrics returns the aggregates derived from the last snapshot change.
func (s *State) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// LoadPersisted seeds the snapshot from the collection store, falling back to
// the provided defaults when a collection is missing or corrupt.
func (s *State) LoadPersisted(ctx context.Context, defaults Snapshot) {
	s.mu.Lock()
	s.snapshot = Snapshot{
		Products:  LoadCollection(ctx, s.opts.Store, CollectionProducts, defaults.Products),
		Orders:    LoadCollection(ctx, s.opts.Store, CollectionOrders, defaults.Orders),
		Customers: LoadCollection(ctx, s.opts.Store, CollectionCustomers, defaults.Customers),
	}
	s.metrics = ComputeMetrics(s.snapshot)
	s.mu.Unlock()
	s.notify(ctx, ChangeEvent{Entity: "snapshot", Reason: "load"})
}

// ReplaceProducts swaps the product collection wholesale, as happens when a
// remote catalog fetch completes.
func (s *State) ReplaceProducts(ctx context.Context, products []Product) error {
	_, err := s.mutate(ctx, CollectionProducts, "replace", func(snap *Snapshot) (int, error) {
		snap.Products = append([]Product(nil), products...)
		return 0, nil
	})
	return err
}

// Products returns the controller for the product collection.
func (s *State) Products() *ProductController { return &ProductController{state: s} }

// Orders returns the controller for the order collection.
func (s *State) Orders() *OrderController { return &OrderController{state: s} }

// Customers returns the controller for the customer collection.
func (s *State) Customers() *CustomerController { return &CustomerController{state: s} }

// mutate applies fn to the snapshot under the writer lock. On success it
// writes the touched collection through to the store, recomputes metrics, and
// notifies the refresh hook. fn returns the id of the affected record.
func (s *State) mutate(ctx context.Context, collection, reason string, fn func(*Snapshot) (int, error)) (int, error) {
	s.mu.Lock()
	id, err := fn(&s.snapshot)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if err := s.persistLocked(ctx, collection); err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("storefront: write-through %s: %w", collection, err)
	}
	s.metrics = ComputeMetrics(s.snapshot)
	s.mu.Unlock()

	s.notify(ctx, ChangeEvent{Entity: collection, Reason: reason, ID: id})
	return id, nil
}

func (s *State) persistLocked(ctx context.Context, collection string) error {
	if s.opts.Store == nil {
		return nil
	}
	switch collection {
	case CollectionProducts:
		return SaveCollection(ctx, s.opts.Store, collection, s.snapshot.Products)
	case CollectionOrders:
		return SaveCollection(ctx, s.opts.Store, collection, s.snapshot.Orders)
	case CollectionCustomers:
		return SaveCollection(ctx, s.opts.Store, collection, s.snapshot.Customers)
	default:
		return fmt.Errorf("storefront: unknown collection %q", collection)
	}
}

func (s *State) notify(ctx context.Context, event ChangeEvent) {
	_ = s.opts.RefreshHook.SnapshotUpdated(ctx, event)
	s.opts.Telemetry.Record(ctx, "storefront."+event.Entity+"."+event.Reason, map[string]any{
		"id": event.ID,
	})
}

// NotifySnapshotUpdated exposes refresh hook invocation for commands and
// transports that need to force a re-render.
func (s *State) NotifySnapshotUpdated(ctx context.Context, event ChangeEvent) error {
	if err := s.opts.RefreshHook.SnapshotUpdated(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "storefront.snapshot.event", map[string]any{
		"entity": event.Entity,
		"reason": event.Reason,
		"id":     event.ID,
	})
	return nil
}

func (s *State) validate(entity string, draft any) error {
	return s.opts.Validator.Validate(entity, draft)
}

func (s *State) today() string {
	return s.opts.Clock().Format(time.DateOnly)
}

type noopRefreshHook struct{}

func (noopRefreshHook) SnapshotUpdated(context.Context, ChangeEvent) error { return nil }

// nextID assigns max(existing ids)+1, or 1 for an empty collection.
func nextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
