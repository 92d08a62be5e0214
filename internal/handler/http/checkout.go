package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/StorefrontGo/pkg/httputil"
	"github.com/utafrali/StorefrontGo/pkg/middleware"
	"github.com/utafrali/StorefrontGo/pkg/validator"

	"github.com/utafrali/StorefrontGo/internal/service"
)

// CheckoutHandler handles HTTP requests for payment intents and order
// confirmation.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateIntentRequest is the JSON request body for creating a payment intent.
// Amount is in major currency units; conversion to the provider's minor unit
// happens server-side.
type CreateIntentRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// CartItemRequest is one line item of the cart being checked out.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Price     int64  `json:"price" validate:"required,gt=0"`
}

// ConfirmOrderRequest is the JSON request body for confirming an order after
// client-side payment completion.
type ConfirmOrderRequest struct {
	PaymentIntentID string            `json:"payment_intent_id" validate:"required"`
	CartItems       []CartItemRequest `json:"cart_items" validate:"required,min=1,dive"`
	TotalAmount     int64             `json:"total_amount" validate:"required,gt=0"`
	DeliveryAddress string            `json:"delivery_address" validate:"required"`
}

// --- Handlers ---

// CreateIntent handles POST /api/v1/payments/intent
func (h *CheckoutHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Message: "invalid request body",
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	clientSecret, err := h.service.CreatePaymentIntent(r.Context(), req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, "payment intent created", map[string]string{
		"client_secret": clientSecret,
	})
}

// ConfirmOrder handles POST /api/v1/payments/confirm
func (h *CheckoutHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Success: false,
			Message: "user not authenticated",
			Error:   &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	var req ConfirmOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Message: "invalid request body",
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.ConfirmOrderInput{
		UserID:          userID,
		PaymentIntentID: req.PaymentIntentID,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		CartItems:       make([]service.CartItem, 0, len(req.CartItems)),
	}
	for _, it := range req.CartItems {
		input.CartItems = append(input.CartItems, service.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := h.service.ConfirmOrder(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteCreated(w, "order placed successfully", order)
}

// ListOrders handles GET /api/v1/orders
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Success: false,
			Message: "user not authenticated",
			Error:   &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	orders, err := h.service.ListOrders(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, "orders retrieved", orders)
}
