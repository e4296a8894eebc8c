package catalog

import (
	"context"
	"testing"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

func fixtureProducts() []storefront.Product {
	return []storefront.Product{
		{ID: 1, Name: "Wireless Headphones", Category: "electronics", Price: 99.99, Stock: 24},
		{ID: 2, Name: "Wired Headphones", Category: "electronics", Price: 39.99, Stock: 3},
		{ID: 3, Name: "Espresso Beans", Category: "groceries", Price: 89.99, Stock: 0},
	}
}

func TestMockClientListsAllWithoutQuery(t *testing.T) {
	client := NewMockClient(fixtureProducts())
	page, err := client.FetchPage(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("expected full fixture page, got %#v", page)
	}
}

func TestMockClientSearchIsCaseInsensitiveSubstring(t *testing.T) {
	client := NewMockClient(fixtureProducts())
	page, err := client.FetchPage(context.Background(), "HEADPHONES", 1, 10)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", page.Total)
	}
}

func TestMockClientPagesResults(t *testing.T) {
	client := NewMockClient(fixtureProducts())
	page, err := client.FetchPage(context.Background(), "", 2, 2)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected total across pages, got %d", page.Total)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 3 {
		t.Fatalf("expected second page window, got %#v", page.Items)
	}
}

func TestMockClientOutOfRangePageIsEmpty(t *testing.T) {
	client := NewMockClient(fixtureProducts())
	page, err := client.FetchPage(context.Background(), "", 5, 10)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 3 {
		t.Fatalf("expected empty window with stable total, got %#v", page)
	}
}
