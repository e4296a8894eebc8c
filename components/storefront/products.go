package storefront

import "context"

// ProductDraft captures the fields a caller supplies when creating or
// replacing a product.
type ProductDraft struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// ProductController mutates the product collection through the state
// container.
type ProductController struct {
	state *State
}

// List returns the current product collection.
func (c *ProductController) List() []Product {
	return c.state.Snapshot().Products
}

// Add validates the draft, assigns the next id, and appends the product.
func (c *ProductController) Add(ctx context.Context, draft ProductDraft) (Product, error) {
	if err := c.state.validate("product", draft); err != nil {
		return Product{}, err
	}
	var created Product
	_, err := c.state.mutate(ctx, CollectionProducts, "add", func(snap *Snapshot) (int, error) {
		created = Product{
			ID:       nextID(snap.Products, func(p Product) int { return p.ID }),
			Name:     draft.Name,
			Category: draft.Category,
			Price:    draft.Price,
			Stock:    draft.Stock,
		}
		snap.Products = append(snap.Products, created)
		return created.ID, nil
	})
	if err != nil {
		return Product{}, err
	}
	return created, nil
}

// Update replaces the full record matching id. Absent ids signal ErrNotFound
// without mutating anything.
func (c *ProductController) Update(ctx context.Context, id int, draft ProductDraft) (Product, error) {
	if err := c.state.validate("product", draft); err != nil {
		return Product{}, err
	}
	var updated Product
	_, err := c.state.mutate(ctx, CollectionProducts, "update", func(snap *Snapshot) (int, error) {
		for i, p := range snap.Products {
			if p.ID == id {
				updated = Product{
					ID:       id,
					Name:     draft.Name,
					Category: draft.Category,
					Price:    draft.Price,
					Stock:    draft.Stock,
				}
				snap.Products[i] = updated
				return id, nil
			}
		}
		return 0, ErrNotFound
	})
	if err != nil {
		return Product{}, err
	}
	return updated, nil
}

// Remove deletes the record matching id. Removing an absent id is not an
// error.
func (c *ProductController) Remove(ctx context.Context, id int) error {
	_, err := c.state.mutate(ctx, CollectionProducts, "remove", func(snap *Snapshot) (int, error) {
		kept := make([]Product, 0, len(snap.Products))
		for _, p := range snap.Products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		snap.Products = kept
		return id, nil
	})
	return err
}
