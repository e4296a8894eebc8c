package storefront

import (
	"context"
	"math"
)

// ProductStatus is derived from stock on every read and never stored.
type ProductStatus string

const (
	StatusActive     ProductStatus = "Active"
	StatusLowStock   ProductStatus = "Low Stock"
	StatusOutOfStock ProductStatus = "Out of Stock"
)

// Stock thresholds differ by source: locally managed products flag low stock
// under 5 units, the remote catalog view under 20.
const (
	LocalLowStockThreshold   = 5
	CatalogLowStockThreshold = 20
)

// StatusForStock derives the status bucket for a stock level.
func StatusForStock(stock, threshold int) ProductStatus {
	switch {
	case stock == 0:
		return StatusOutOfStock
	case stock < threshold:
		return StatusLowStock
	default:
		return StatusActive
	}
}

// Product is a catalog entry. Status is computed, not a field.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// Status derives the stock bucket using the local threshold.
func (p Product) Status() ProductStatus {
	return StatusForStock(p.Stock, LocalLowStockThreshold)
}

// Customer is an address-book entry. Email uniqueness is not enforced.
type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is an immutable financial record: Total and Date are captured at
// creation and never recomputed, even if the referenced product changes.
type Order struct {
	ID         int     `json:"id"`
	ProductID  int     `json:"product_id"`
	CustomerID int     `json:"customer_id"`
	Quantity   int     `json:"quantity"`
	Total      float64 `json:"total"`
	Date       string  `json:"date"`
}

// Snapshot holds the current in-memory collections. It is the single source
// of truth for the aggregation engine and every transport.
type Snapshot struct {
	Products  []Product  `json:"products"`
	Orders    []Order    `json:"orders"`
	Customers []Customer `json:"customers"`
}

// Clone returns a deep copy so callers can read without holding locks.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Products:  append([]Product(nil), s.Products...),
		Orders:    append([]Order(nil), s.Orders...),
		Customers: append([]Customer(nil), s.Customers...),
	}
}

// Page is one window of remote catalog results.
type Page struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

// PageFetcher lists or searches remote catalog records one page at a time.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, pageNumber, pageSize int) (Page, error)
}

// ChangeEvent describes a snapshot mutation that transports might care about.
type ChangeEvent struct {
	Entity string `json:"entity"`
	Reason string `json:"reason"`
	ID     int    `json:"id"`
}

// RefreshHook notifies transports (REST/WebSocket/SSE) about snapshot changes.
type RefreshHook interface {
	SnapshotUpdated(ctx context.Context, event ChangeEvent) error
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
