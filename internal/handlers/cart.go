package handlers

import (
	"net/http"

	"ecommerce-platform/internal/middleware"
	"ecommerce-platform/internal/services"

	"github.com/sirupsen/logrus"
)

// CartHandler handles shopping cart and checkout requests. Every route
// requires an authenticated user; the cart addressed is always the caller's
// own.
type CartHandler struct {
	cartService     services.CartServiceInterface
	checkoutService services.CheckoutServiceInterface
	logger          *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	cartService services.CartServiceInterface,
	checkoutService services.CheckoutServiceInterface,
	logger *logrus.Logger,
) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// cartItemRequest carries the product and quantity for add and update
type cartItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	cart, err := h.cartService.GetCart(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	cart, err := h.cartService.AddItem(user.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/{productID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	productID, err := pathID(r, "productID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	cart, err := h.cartService.UpdateItem(user.ID, productID, req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	productID, err := pathID(r, "productID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	cart, err := h.cartService.RemoveItem(user.ID, productID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	cart, err := h.cartService.ClearCart(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Checkout handles POST /api/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	result, err := h.checkoutService.Checkout(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// Partial fulfillment is still a success; both outcomes are 200.
	writeJSON(w, http.StatusOK, result)
}
