package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
	"github.com/goliatone/go-storefront/components/storefront/commands"
)

// Handlers exposes HTTP endpoints backed by shared commands. Read endpoints
// go straight to the state container; mutations flow through commands.
type Handlers struct {
	State *storefront.State
	Gate  *storefront.Gate

	AddProduct     gocommand.Commander[commands.AddProductInput]
	UpdateProduct  gocommand.Commander[commands.UpdateProductInput]
	RemoveProduct  gocommand.Commander[commands.RemoveProductInput]
	AddCustomer    gocommand.Commander[commands.AddCustomerInput]
	UpdateCustomer gocommand.Commander[commands.UpdateCustomerInput]
	RemoveCustomer gocommand.Commander[commands.RemoveCustomerInput]
	AddOrder       gocommand.Commander[commands.AddOrderInput]
	UpdateOrder    gocommand.Commander[commands.UpdateOrderInput]
	RemoveOrder    gocommand.Commander[commands.RemoveOrderInput]
	Refresh        gocommand.Commander[commands.RefreshSnapshotInput]
}

func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.State.Snapshot())
}

func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.State.Metrics())
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, ok := h.Gate.Login(r.Context(), payload.Username, payload.Password)
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Gate.Logout(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	var draft storefront.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.AddProduct.Execute(r.Context(), commands.AddProductInput{Draft: draft}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleUpdateProduct(w http.ResponseWriter, r *http.Request, id int) {
	var draft storefront.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.UpdateProduct.Execute(r.Context(), commands.UpdateProductInput{ID: id, Draft: draft}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemoveProduct(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.RemoveProduct.Execute(r.Context(), commands.RemoveProductInput{ID: id}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var draft storefront.CustomerDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.AddCustomer.Execute(r.Context(), commands.AddCustomerInput{Draft: draft}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleUpdateCustomer(w http.ResponseWriter, r *http.Request, id int) {
	var draft storefront.CustomerDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.UpdateCustomer.Execute(r.Context(), commands.UpdateCustomerInput{ID: id, Draft: draft}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemoveCustomer(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.RemoveCustomer.Execute(r.Context(), commands.RemoveCustomerInput{ID: id}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleAddOrder(w http.ResponseWriter, r *http.Request) {
	var draft storefront.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.AddOrder.Execute(r.Context(), commands.AddOrderInput{Draft: draft}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleUpdateOrder(w http.ResponseWriter, r *http.Request, id int) {
	var draft storefront.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.UpdateOrder.Execute(r.Context(), commands.UpdateOrderInput{ID: id, Draft: draft}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemoveOrder(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.RemoveOrder.Execute(r.Context(), commands.RemoveOrderInput{ID: id}); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshSnapshotInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeMutationError maps domain failures onto HTTP statuses: validation
// errors are the caller's fault, missing records are 404s.
func writeMutationError(w http.ResponseWriter, err error) {
	if _, ok := storefront.IsValidation(err); ok {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
