package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// HTTPConfig configures the HTTP catalog client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to a dummyjson-style product API: paginated listing,
// substring search, and record mutations.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client capable of hitting the live catalog API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var _ storefront.PageFetcher = (*HTTPClient)(nil)

// FetchPage lists products ordered by remote id when query is empty, or
// searches the remote source, constrained to the same page window either
// way. Remote records are normalized into the canonical Product shape.
func (c *HTTPClient) FetchPage(ctx context.Context, query string, pageNumber, pageSize int) (storefront.Page, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	skip := (pageNumber - 1) * pageSize
	path := fmt.Sprintf("/products?limit=%d&skip=%d", pageSize, skip)
	if query != "" {
		path = fmt.Sprintf("/products/search?q=%s&limit=%d&skip=%d", url.QueryEscape(query), pageSize, skip)
	}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return storefront.Page{}, err
	}
	items := make([]storefront.Product, len(resp.Products))
	for i, record := range resp.Products {
		items[i] = record.toProduct()
	}
	total := resp.Total
	if total == 0 {
		total = len(items)
	}
	return storefront.Page{Items: items, Total: total}, nil
}

// Create adds a product record on the remote source and returns the
// normalized result.
func (c *HTTPClient) Create(ctx context.Context, draft storefront.ProductDraft) (storefront.Product, error) {
	var resp productRecord
	if err := c.do(ctx, http.MethodPost, "/products/add", draftPayload(draft), &resp); err != nil {
		return storefront.Product{}, err
	}
	return resp.toProduct(), nil
}

// Update replaces the remote record matching id.
func (c *HTTPClient) Update(ctx context.Context, id int, draft storefront.ProductDraft) (storefront.Product, error) {
	var resp productRecord
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), draftPayload(draft), &resp); err != nil {
		return storefront.Product{}, err
	}
	return resp.toProduct(), nil
}

// Delete removes the remote record matching id.
func (c *HTTPClient) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("catalog: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("catalog: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("catalog: decode response: %w", err)
	}
	return nil
}

func draftPayload(draft storefront.ProductDraft) map[string]any {
	return map[string]any{
		"title":    draft.Name,
		"category": draft.Category,
		"price":    draft.Price,
		"stock":    draft.Stock,
	}
}

// Status derives a stock bucket using the remote catalog threshold.
func Status(p storefront.Product) storefront.ProductStatus {
	return storefront.StatusForStock(p.Stock, storefront.CatalogLowStockThreshold)
}

type listResponse struct {
	Products []productRecord `json:"products"`
	Total    int             `json:"total"`
}

// productRecord tolerates the remote source's heterogeneous field names: a
// title-like field, an optional name, and an optional stock.
type productRecord struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    *int    `json:"stock"`
}

func (r productRecord) toProduct() storefront.Product {
	name := r.Title
	if name == "" {
		name = r.Name
	}
	if name == "" {
		name = "Untitled"
	}
	category := r.Category
	if category == "" {
		category = "general"
	}
	stock := synthesizeStock(r.ID)
	if r.Stock != nil {
		stock = *r.Stock
	}
	return storefront.Product{
		ID:       r.ID,
		Name:     name,
		Category: category,
		Price:    r.Price,
		Stock:    stock,
	}
}

// synthesizeStock fills in a deterministic stock level when the remote
// omits one, keeping derived statuses stable across fetches.
func synthesizeStock(id int) int {
	if id < 0 {
		id = -id
	}
	return id*13%49 + 1
}
