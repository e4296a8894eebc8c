package storefront

import "context"

// OrderDraft captures the fields a caller supplies when placing an order.
// Total and Date are computed at creation time, never by the caller.
type OrderDraft struct {
	ProductID  int `json:"product_id"`
	CustomerID int `json:"customer_id"`
	Quantity   int `json:"quantity"`
}

// OrderController mutates the order collection through the state container.
type OrderController struct {
	state *State
}

// List returns the current order collection.
func (c *OrderController) List() []Order {
	return c.state.Snapshot().Orders
}

// Add validates the draft, resolves the product price, and captures
// total = round(price * quantity, 2) and today's date once. Later price
// changes never touch existing orders.
func (c *OrderController) Add(ctx context.Context, draft OrderDraft) (Order, error) {
	if err := c.state.validate("order", draft); err != nil {
		return Order{}, err
	}
	var created Order
	_, err := c.state.mutate(ctx, CollectionOrders, "add", func(snap *Snapshot) (int, error) {
		product, ok := findProduct(snap.Products, draft.ProductID)
		if !ok {
			return 0, &ValidationError{Entity: "order", Fields: []string{"product_id"}}
		}
		if _, ok := findCustomer(snap.Customers, draft.CustomerID); !ok {
			return 0, &ValidationError{Entity: "order", Fields: []string{"customer_id"}}
		}
		created = Order{
			ID:         nextID(snap.Orders, func(o Order) int { return o.ID }),
			ProductID:  draft.ProductID,
			CustomerID: draft.CustomerID,
			Quantity:   draft.Quantity,
			Total:      round2(product.Price * float64(draft.Quantity)),
			Date:       c.state.today(),
		}
		snap.Orders = append(snap.Orders, created)
		return created.ID, nil
	})
	if err != nil {
		return Order{}, err
	}
	return created, nil
}

// Update replaces the references and quantity of the record matching id
// while preserving the captured Total and Date: orders are financial
// snapshots and their amounts are never recomputed.
func (c *OrderController) Update(ctx context.Context, id int, draft OrderDraft) (Order, error) {
	if err := c.state.validate("order", draft); err != nil {
		return Order{}, err
	}
	var updated Order
	_, err := c.state.mutate(ctx, CollectionOrders, "update", func(snap *Snapshot) (int, error) {
		for i, existing := range snap.Orders {
			if existing.ID == id {
				updated = Order{
					ID:         id,
					ProductID:  draft.ProductID,
					CustomerID: draft.CustomerID,
					Quantity:   draft.Quantity,
					Total:      existing.Total,
					Date:       existing.Date,
				}
				snap.Orders[i] = updated
				return id, nil
			}
		}
		return 0, ErrNotFound
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// Remove deletes the record matching id. Removing an absent id is not an
// error.
func (c *OrderController) Remove(ctx context.Context, id int) error {
	_, err := c.state.mutate(ctx, CollectionOrders, "remove", func(snap *Snapshot) (int, error) {
		kept := make([]Order, 0, len(snap.Orders))
		for _, existing := range snap.Orders {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		snap.Orders = kept
		return id, nil
	})
	return err
}

func findProduct(products []Product, id int) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func findCustomer(customers []Customer, id int) (Customer, bool) {
	for _, c := range customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// ProductName resolves an order's product reference for display, falling back
// to "Unknown Product" for dangling ids.
func ProductName(products []Product, id int) string {
	if p, ok := findProduct(products, id); ok {
		return p.Name
	}
	return "Unknown Product"
}

// CustomerName resolves an order's customer reference for display, falling
// back to "Unknown Customer" for dangling ids.
func CustomerName(customers []Customer, id int) string {
	if c, ok := findCustomer(customers, id); ok {
		return c.Name
	}
	return "Unknown Customer"
}
