package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcsHandy/AfriFresh/internal/adapter/storage"
	"github.com/MarcsHandy/AfriFresh/internal/core/service"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

const userHeader = "X-User-ID"

type HTTPHandler struct {
	carts    *service.CartManager
	catalog  *service.CatalogService
	history  port.OrderHistory
	payments *service.PaymentService
}

func NewHTTPHandler(carts *service.CartManager, catalog *service.CatalogService, history port.OrderHistory, payments *service.PaymentService) *HTTPHandler {
	return &HTTPHandler{
		carts:    carts,
		catalog:  catalog,
		history:  history,
		payments: payments,
	}
}

// Register wires every route onto the router.
func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{productId}/decrement", h.DecrementItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{productId}", h.RemoveProduct).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/lines/{lineId}", h.SetQuantity).Methods(http.MethodPatch)
	r.HandleFunc("/api/cart/lines/{lineId}", h.RemoveLine).Methods(http.MethodDelete)
	r.HandleFunc("/api/checkout", h.Checkout).Methods(http.MethodPost)
	r.HandleFunc("/api/checkout/status", h.CheckoutStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/payments", h.Pay).Methods(http.MethodPost)
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type payRequest struct {
	Provider    string  `json:"provider"`
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lines":       cart.Lines(),
		"total_price": cart.TotalPrice(),
		"checkout":    cart.Status(),
	})
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "invalid request body"})
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: "internal error"})
		return
	}

	// Stock is enforced here, not in the cart: the core treats the flag as
	// advisory.
	if !product.InStock {
		writeJSON(w, http.StatusConflict, statusResponse{Success: false, Message: product.Name + " is currently unavailable."})
		return
	}

	cart.Add(product)
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "item added"})
}

func (h *HTTPHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}
	cart.Decrement(mux.Vars(r)["productId"])
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "item decremented"})
}

func (h *HTTPHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "invalid request body"})
		return
	}

	if err := cart.SetQuantity(mux.Vars(r)["lineId"], req.Quantity); err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "invalid quantity"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "quantity updated"})
}

func (h *HTTPHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}
	cart.RemoveLine(mux.Vars(r)["lineId"])
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "line removed"})
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}
	cart.RemoveAllOfProduct(mux.Vars(r)["productId"])
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "product removed"})
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}
	cart.Clear()
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "cart cleared"})
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "missing " + userHeader + " header"})
		return
	}
	cart := h.carts.Cart(userID)

	// Settlement outlives the request, so it must not run on the request
	// context.
	_, err := cart.Checkout(context.Background(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		switch {
		case errors.Is(err, service.ErrEmptyCart):
			status = http.StatusBadRequest
			message = "Your cart is empty."
		case errors.Is(err, service.ErrZeroQuantityLine):
			status = http.StatusConflict
			message = "Some items are pending removal. Revive them or wait before checking out."
		case errors.Is(err, service.ErrCheckoutInProgress):
			status = http.StatusConflict
			message = "A checkout is already in progress."
		}

		writeJSON(w, status, statusResponse{Success: false, Message: message})
		return
	}

	writeJSON(w, http.StatusAccepted, statusResponse{Success: true, Message: "checkout processing"})
}

func (h *HTTPHandler) CheckoutStatus(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.userCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cart.Status())
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "missing " + userHeader + " header"})
		return
	}

	orders, err := h.history.OrdersByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.payments.Pay(r.Context(), service.PaymentProvider(req.Provider), req.PhoneNumber, req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: err.Error()})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPaymentRequired
	}
	writeJSON(w, status, result)
}

func (h *HTTPHandler) userCart(w http.ResponseWriter, r *http.Request) (*service.Cart, bool) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "missing " + userHeader + " header"})
		return nil, false
	}
	return h.carts.Cart(userID), true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
