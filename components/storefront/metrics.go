package storefront

import "sort"

// StatusCount is one bucket of the stock breakdown.
type StatusCount struct {
	Status ProductStatus `json:"status"`
	Count  int           `json:"count"`
}

// RevenuePoint is the order revenue attributed to one product.
type RevenuePoint struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
}

// TimePoint is the order total summed for one date.
type TimePoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Metrics holds the dashboard aggregates derived from a snapshot. Every
// field is total on empty input: zero values, never errors.
type Metrics struct {
	TotalRevenue         float64         `json:"total_revenue"`
	TotalOrders          int             `json:"total_orders"`
	UniqueCustomers      int             `json:"unique_customers"`
	StockBreakdown       []StatusCount   `json:"stock_breakdown"`
	RevenuePerProduct    []RevenuePoint  `json:"revenue_per_product"`
	OrdersOverTime       []TimePoint     `json:"orders_over_time"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
}

// ComputeMetrics derives all dashboard aggregates from the snapshot. It is
// pure and deterministic: same snapshot in, same metrics out, no side
// effects. Callers recompute after every successful mutation or fetch.
func ComputeMetrics(snap Snapshot) Metrics {
	return Metrics{
		TotalRevenue:         TotalRevenue(snap.Orders),
		TotalOrders:          len(snap.Orders),
		UniqueCustomers:      UniqueCustomers(snap.Orders),
		StockBreakdown:       StockBreakdown(snap.Products),
		RevenuePerProduct:    RevenuePerProduct(snap.Products, snap.Orders),
		OrdersOverTime:       OrdersOverTime(snap.Orders),
		CategoryDistribution: CategoryDistribution(snap.Products),
	}
}

// TotalRevenue sums order totals, rounded to 2 decimals for display.
func TotalRevenue(orders []Order) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.Total
	}
	return round2(sum)
}

// UniqueCustomers counts distinct customer references across orders.
func UniqueCustomers(orders []Order) int {
	seen := map[int]struct{}{}
	for _, o := range orders {
		seen[o.CustomerID] = struct{}{}
	}
	return len(seen)
}

// StockBreakdown counts products per status bucket, always emitting all
// three buckets in a fixed order.
func StockBreakdown(products []Product) []StatusCount {
	counts := map[ProductStatus]int{}
	for _, p := range products {
		counts[p.Status()]++
	}
	return []StatusCount{
		{Status: StatusActive, Count: counts[StatusActive]},
		{Status: StatusLowStock, Count: counts[StatusLowStock]},
		{Status: StatusOutOfStock, Count: counts[StatusOutOfStock]},
	}
}

// RevenuePerProduct sums order totals per referenced product, emitting one
// point per product in collection order (0 when no orders reference it).
func RevenuePerProduct(products []Product, orders []Order) []RevenuePoint {
	byProduct := map[int]float64{}
	for _, o := range orders {
		byProduct[o.ProductID] += o.Total
	}
	points := make([]RevenuePoint, len(products))
	for i, p := range products {
		points[i] = RevenuePoint{
			ProductID: p.ID,
			Name:      p.Name,
			Revenue:   round2(byProduct[p.ID]),
		}
	}
	return points
}

// OrdersOverTime groups orders by date summing totals, one point per
// distinct date, ordered ascending for display.
func OrdersOverTime(orders []Order) []TimePoint {
	byDate := map[string]float64{}
	for _, o := range orders {
		byDate[o.Date] += o.Total
	}
	points := make([]TimePoint, 0, len(byDate))
	for date, total := range byDate {
		points = append(points, TimePoint{Date: date, Total: round2(total)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// CategoryDistribution counts products per category, sorted by category name
// so the output is deterministic.
func CategoryDistribution(products []Product) []CategoryCount {
	byCategory := map[string]int{}
	for _, p := range products {
		byCategory[p.Category]++
	}
	counts := make([]CategoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		counts = append(counts, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Category < counts[j].Category })
	return counts
}
