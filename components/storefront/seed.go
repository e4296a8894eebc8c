package storefront

import "context"

// DefaultCustomers returns the starter customer records used when neither
// the remote catalog nor persisted storage can seed the snapshot.
func DefaultCustomers() []Customer {
	return []Customer{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com"},
		{ID: 2, Name: "Bob Smith", Email: "bob@example.com"},
		{ID: 3, Name: "Charlie Brown", Email: "charlie@example.com"},
		{ID: 4, Name: "Diana Prince", Email: "diana@example.com"},
	}
}

// DefaultOrders returns the starter order records.
func DefaultOrders() []Order {
	return []Order{
		{ID: 1, ProductID: 1, CustomerID: 1, Quantity: 2, Total: 199.98, Date: "2025-10-20"},
		{ID: 2, ProductID: 3, CustomerID: 2, Quantity: 1, Total: 89.99, Date: "2025-10-21"},
	}
}

// DefaultProducts returns a small starter catalog for offline operation.
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Wireless Headphones", Category: "electronics", Price: 99.99, Stock: 24},
		{ID: 2, Name: "Mechanical Keyboard", Category: "electronics", Price: 129.00, Stock: 3},
		{ID: 3, Name: "Espresso Beans", Category: "groceries", Price: 89.99, Stock: 0},
		{ID: 4, Name: "Desk Lamp", Category: "home", Price: 34.50, Stock: 41},
	}
}

// DefaultSnapshot bundles all three default collections.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Products:  DefaultProducts(),
		Orders:    DefaultOrders(),
		Customers: DefaultCustomers(),
	}
}

// Bootstrap seeds the state container: persisted collections win over the
// hard-coded defaults, then a remote catalog fetch (when a fetcher is
// provided) replaces the product collection. A remote failure is not fatal;
// the persisted or default products stay visible.
func Bootstrap(ctx context.Context, state *State, fetcher PageFetcher) error {
	state.LoadPersisted(ctx, DefaultSnapshot())
	if fetcher == nil {
		return nil
	}
	page, err := fetcher.FetchPage(ctx, "", 1, 100)
	if err != nil {
		return err
	}
	return state.ReplaceProducts(ctx, page.Items)
}
