package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	storefront "github.com/goliatone/go-storefront/components/storefront"
	"github.com/goliatone/go-storefront/components/storefront/commands"
	"github.com/goliatone/go-storefront/components/storefront/httpapi"
)

// Config wires go-router with the storefront controller, command API, session
// gate, and broadcast hook.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *storefront.Controller
	API        httpapi.Executor
	Gate       *storefront.Gate
	Broadcast  *storefront.BroadcastHook
	Searcher   *storefront.Searcher
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for storefront endpoints.
type RouteConfig struct {
	HTML       string
	Snapshot   string
	Metrics    string
	Catalog    string
	Login      string
	Logout     string
	Products   string
	ProductID  string
	Customers  string
	CustomerID string
	Orders     string
	OrderID    string
	Refresh    string
	WebSocket  string
}

// Register mounts storefront routes (HTML, JSON, catalog search, REST,
// WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}

	group := cfg.Router.Group(base)

	if cfg.Gate != nil {
		registerAuth(group, cfg.Gate, routes)
	}

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		if !authorized(ctx, cfg.Gate) {
			return respondError(ctx, http.StatusUnauthorized, errors.New("login required"))
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderDashboard(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
		if !authorized(ctx, cfg.Gate) {
			return respondError(ctx, http.StatusUnauthorized, errors.New("login required"))
		}
		return ctx.JSON(http.StatusOK, cfg.Controller.Snapshot())
	}))

	group.Get(routes.Metrics, router.WrapHandler(func(ctx router.Context) error {
		if !authorized(ctx, cfg.Gate) {
			return respondError(ctx, http.StatusUnauthorized, errors.New("login required"))
		}
		return ctx.JSON(http.StatusOK, cfg.Controller.Metrics())
	}))

	if cfg.Searcher != nil {
		registerCatalog(group, cfg.Searcher, cfg.Gate, routes.Catalog)
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, cfg.Gate, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAuth[T any](r router.Router[T], gate *storefront.Gate, routes RouteConfig) {
	r.Post(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		token, ok := gate.Login(ctx.Context(), payload.Username, payload.Password)
		if !ok {
			return respondError(ctx, http.StatusUnauthorized, errors.New("invalid credentials"))
		}
		return ctx.JSON(http.StatusOK, map[string]string{"token": token})
	}))

	r.Post(routes.Logout, router.WrapHandler(func(ctx router.Context) error {
		if err := gate.Logout(ctx.Context()); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
	}))
}

// registerCatalog exposes the debounced remote search: ?q= drives the query
// (debounced, page resets to 1), ?page= pages the current query immediately.
// The response reports the fetch state so clients poll until ready.
func registerCatalog[T any](r router.Router[T], searcher *storefront.Searcher, gate *storefront.Gate, path string) {
	r.Get(path, router.WrapHandler(func(ctx router.Context) error {
		if !authorized(ctx, gate) {
			return respondError(ctx, http.StatusUnauthorized, errors.New("login required"))
		}
		// The fetch outlives the request, so it is not tied to the
		// request context.
		applyCatalogParams(context.Background(), searcher, ctx.Query("q"), ctx.Query("page"))
		return ctx.JSON(http.StatusOK, catalogView(searcher))
	}))
}

// applyCatalogParams maps request parameters onto the searcher. A changed
// query re-arms the debounce; a changed page fetches immediately; identical
// parameters leave any in-flight fetch alone.
func applyCatalogParams(ctx context.Context, s *storefront.Searcher, query, rawPage string) {
	pageNumber := 0
	if rawPage != "" {
		if n, err := strconv.Atoi(rawPage); err == nil && n > 0 {
			pageNumber = n
		}
	}
	switch {
	case query != s.Query():
		s.SetQuery(ctx, query)
	case pageNumber > 0 && pageNumber != s.PageNumber():
		s.SetPage(ctx, pageNumber)
	}
}

type catalogPayload struct {
	Query string                `json:"query"`
	Page  int                   `json:"page"`
	State storefront.FetchState `json:"state"`
	Error string                `json:"error,omitempty"`
	Items []storefront.Product  `json:"items"`
	Total int                   `json:"total"`
}

func catalogView(s *storefront.Searcher) catalogPayload {
	state, err := s.State()
	view := catalogPayload{
		Query: s.Query(),
		Page:  s.PageNumber(),
		State: state,
	}
	if err != nil {
		view.Error = err.Error()
	}
	result := s.Result()
	view.Items = result.Items
	view.Total = result.Total
	return view
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, gate *storefront.Gate, routes RouteConfig) {
	guard := func(handler func(router.Context) error) router.HandlerFunc {
		return router.WrapHandler(func(ctx router.Context) error {
			if !authorized(ctx, gate) {
				return respondError(ctx, http.StatusUnauthorized, errors.New("login required"))
			}
			return handler(ctx)
		})
	}

	r.Post(routes.Products, guard(func(ctx router.Context) error {
		var draft storefront.ProductDraft
		if err := json.Unmarshal(ctx.Body(), &draft); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.AddProduct(ctx.Context(), commands.AddProductInput{Draft: draft}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Put(routes.ProductID, guard(func(ctx router.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var draft storefront.ProductDraft
		if err := json.Unmarshal(ctx.Body(), &draft); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.UpdateProduct(ctx.Context(), commands.UpdateProductInput{ID: id, Draft: draft}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete(routes.ProductID, guard(func(ctx router.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.RemoveProduct(ctx.Context(), commands.RemoveProductInput{ID: id}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Customers, guard(func(ctx router.Context) error {
		var draft storefront.CustomerDraft
		if err := json.Unmarshal(ctx.Body(), &draft); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.AddCustomer(ctx.Context(), commands.AddCustomerInput{Draft: draft}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Put(routes.CustomerID, guard(func(ctx router.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var draft storefront.CustomerDraft
		if err := json.Unmarshal(ctx.Body(), &draft); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.UpdateCustomer(ctx.Context(), commands.UpdateCustomerInput{ID: id, Draft: draft}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete(routes.CustomerID, guard(func(ctx router.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.RemoveCustomer(ctx.Context(), commands.RemoveCustomerInput{ID: id}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Orders, guard(func(ctx router.Context) error {
		var draft storefront.OrderDraft
		if err := json.Unmarshal(ctx.Body(), &draft); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.AddOrder(ctx.Context(), commands.AddOrderInput{Draft: draft}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Put(routes.OrderID, guard(func(ctx router.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var draft storefront.OrderDraft
		if err := json.Unmarshal(ctx.Body(), &draft); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.UpdateOrder(ctx.Context(), commands.UpdateOrderInput{ID: id, Draft: draft}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete(routes.OrderID, guard(func(ctx router.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.RemoveOrder(ctx.Context(), commands.RemoveOrderInput{ID: id}); err != nil {
			return respondMutationError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Refresh, guard(func(ctx router.Context) error {
		var payload commands.RefreshSnapshotInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *storefront.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// authorized checks the session gate. A nil gate means the deployment opted
// out of authentication entirely.
func authorized(ctx router.Context, gate *storefront.Gate) bool {
	if gate == nil {
		return true
	}
	if token := bearerToken(ctx.Header("Authorization")); token != "" {
		return gate.ValidToken(token)
	}
	return gate.Authenticated()
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func paramID(ctx router.Context) (int, error) {
	raw := ctx.Param("id")
	if raw == "" {
		return 0, errors.New("record id is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("record id must be a positive integer")
	}
	return id, nil
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func respondMutationError(ctx router.Context, err error) error {
	if _, ok := storefront.IsValidation(err); ok {
		return respondError(ctx, http.StatusUnprocessableEntity, err)
	}
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		return respondError(ctx, http.StatusNotFound, err)
	default:
		return respondError(ctx, http.StatusInternalServerError, err)
	}
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/dashboard/_snapshot"
	}
	if routes.Metrics == "" {
		routes.Metrics = "/dashboard/_metrics"
	}
	if routes.Catalog == "" {
		routes.Catalog = "/catalog"
	}
	if routes.Login == "" {
		routes.Login = "/login"
	}
	if routes.Logout == "" {
		routes.Logout = "/logout"
	}
	if routes.Products == "" {
		routes.Products = "/products"
	}
	if routes.ProductID == "" {
		routes.ProductID = "/products/:id"
	}
	if routes.Customers == "" {
		routes.Customers = "/customers"
	}
	if routes.CustomerID == "" {
		routes.CustomerID = "/customers/:id"
	}
	if routes.Orders == "" {
		routes.Orders = "/orders"
	}
	if routes.OrderID == "" {
		routes.OrderID = "/orders/:id"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
