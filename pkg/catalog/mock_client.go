package catalog

import (
	"context"
	"strings"
	"sync"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// MockClient implements the page fetcher over an in-memory fixture catalog,
// for tests and offline demos. Search is a case-insensitive substring match
// on the product name, mirroring the remote source's behavior.
type MockClient struct {
	mu       sync.RWMutex
	products []storefront.Product
}

// NewMockClient builds a mock catalog client from the provided fixtures.
func NewMockClient(products []storefront.Product) *MockClient {
	return &MockClient{products: append([]storefront.Product(nil), products...)}
}

var _ storefront.PageFetcher = (*MockClient)(nil)

// FetchPage pages through the fixture catalog.
func (c *MockClient) FetchPage(_ context.Context, query string, pageNumber, pageSize int) (storefront.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	matched := c.products
	if query != "" {
		matched = nil
		needle := strings.ToLower(query)
		for _, p := range c.products {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				matched = append(matched, p)
			}
		}
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	start := (pageNumber - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return storefront.Page{
		Items: append([]storefront.Product(nil), matched[start:end]...),
		Total: len(matched),
	}, nil
}
