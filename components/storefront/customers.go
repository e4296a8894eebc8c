package storefront

import "context"

// CustomerDraft captures the fields a caller supplies when creating or
// replacing a customer. Duplicate emails are allowed.
type CustomerDraft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerController mutates the customer collection through the state
// container.
type CustomerController struct {
	state *State
}

// List returns the current customer collection.
func (c *CustomerController) List() []Customer {
	return c.state.Snapshot().Customers
}

// Add validates the draft, assigns the next id, and appends the customer.
func (c *CustomerController) Add(ctx context.Context, draft CustomerDraft) (Customer, error) {
	if err := c.state.validate("customer", draft); err != nil {
		return Customer{}, err
	}
	var created Customer
	_, err := c.state.mutate(ctx, CollectionCustomers, "add", func(snap *Snapshot) (int, error) {
		created = Customer{
			ID:    nextID(snap.Customers, func(c Customer) int { return c.ID }),
			Name:  draft.Name,
			Email: draft.Email,
		}
		snap.Customers = append(snap.Customers, created)
		return created.ID, nil
	})
	if err != nil {
		return Customer{}, err
	}
	return created, nil
}

// Update replaces the full record matching id, signaling ErrNotFound for
// absent ids.
func (c *CustomerController) Update(ctx context.Context, id int, draft CustomerDraft) (Customer, error) {
	if err := c.state.validate("customer", draft); err != nil {
		return Customer{}, err
	}
	var updated Customer
	_, err := c.state.mutate(ctx, CollectionCustomers, "update", func(snap *Snapshot) (int, error) {
		for i, existing := range snap.Customers {
			if existing.ID == id {
				updated = Customer{ID: id, Name: draft.Name, Email: draft.Email}
				snap.Customers[i] = updated
				return id, nil
			}
		}
		return 0, ErrNotFound
	})
	if err != nil {
		return Customer{}, err
	}
	return updated, nil
}

// Remove deletes the record matching id. Deletion does not cascade: orders
// referencing the customer stay in the collection with an unresolved
// reference that readers render as "Unknown Customer".
func (c *CustomerController) Remove(ctx context.Context, id int) error {
	_, err := c.state.mutate(ctx, CollectionCustomers, "remove", func(snap *Snapshot) (int, error) {
		kept := make([]Customer, 0, len(snap.Customers))
		for _, existing := range snap.Customers {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		snap.Customers = kept
		return id, nil
	})
	return err
}
