package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
	"github.com/utafrali/StorefrontGo/pkg/middleware"

	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/provider"
	providermock "github.com/utafrali/StorefrontGo/internal/provider/mock"
	"github.com/utafrali/StorefrontGo/internal/repository"
	"github.com/utafrali/StorefrontGo/internal/service"
)

// ============================================================================
// Mock Order Repository
// ============================================================================

type mockOrderRepo struct {
	mock.Mock
}

var _ repository.OrderRepository = (*mockOrderRepo)(nil)

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

// ============================================================================
// Test Helpers
// ============================================================================

func handlerCheckoutService(orders *mockOrderRepo, prov provider.Provider, pub *mockPublisher) *service.CheckoutService {
	return service.NewCheckoutService(orders, prov, pub, handlerTestLogger(), "inr")
}

func setupCheckoutRouter(handler *CheckoutHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(fakeTokenValidator(handlerTestUserID)))
		r.Post("/intent", handler.CreateIntent)
		r.Post("/confirm", handler.ConfirmOrder)
	})
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(fakeTokenValidator(handlerTestUserID)))
		r.Get("/", handler.ListOrders)
	})
	return r
}

func confirmRequest(intentID string) ConfirmOrderRequest {
	return ConfirmOrderRequest{
		PaymentIntentID: intentID,
		CartItems: []CartItemRequest{
			{ProductID: "prod-1", Name: "Masala Chai", Quantity: 2, Price: 250},
			{ProductID: "prod-2", Name: "Filter Coffee", Quantity: 1, Price: 799},
		},
		TotalAmount:     1299,
		DeliveryAddress: "42 MG Road, Bengaluru",
	}
}

// succeededIntent creates an intent on the mock provider and moves it to the
// succeeded state, returning its ID.
func succeededIntent(t *testing.T, prov *providermock.Provider, amount int64) string {
	t.Helper()
	intent, err := prov.CreateIntent(context.Background(), &provider.CreateIntentInput{Amount: amount, Currency: "inr"})
	require.NoError(t, err)
	require.True(t, prov.SetStatus(intent.ID, provider.IntentStatusSucceeded))
	return intent.ID
}

// ============================================================================
// CreateIntent Tests
// ============================================================================

func TestCreateIntent_Success(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	rec := postJSON(t, router, "/api/v1/payments/intent", CreateIntentRequest{Amount: 1299})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	secret, _ := data["client_secret"].(string)
	assert.Contains(t, secret, "_secret_")
}

func TestCreateIntent_NonPositiveAmount(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	for _, amount := range []int64{0, -5} {
		rec := postJSON(t, router, "/api/v1/payments/intent", CreateIntentRequest{Amount: amount})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %d", amount)
	}
}

func TestCreateIntent_RequiresAuth(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(func(token string) (*middleware.Claims, error) {
			return nil, apperrors.Unauthorized("invalid token")
		}))
		r.Post("/intent", handler.CreateIntent)
	})

	rec := postJSON(t, r, "/api/v1/payments/intent", CreateIntentRequest{Amount: 100})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================================================
// ConfirmOrder Tests
// ============================================================================

func TestConfirmOrder_Success(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	intentID := succeededIntent(t, prov, 129900)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishOrderCreated", mock.Anything, mock.Anything).Return(nil)

	rec := postJSON(t, router, "/api/v1/payments/confirm", confirmRequest(intentID))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusProcessing, data["status"])
	assert.Equal(t, domain.PaymentMethodOnline, data["payment_method"])
	assert.Equal(t, intentID, data["payment_id"])
	assert.Equal(t, handlerTestUserID, data["user_id"])
	orders.AssertExpectations(t)
}

func TestConfirmOrder_PaymentNotSucceeded(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	intent, err := prov.CreateIntent(context.Background(), &provider.CreateIntentInput{Amount: 129900, Currency: "inr"})
	require.NoError(t, err)

	rec := postJSON(t, router, "/api/v1/payments/confirm", confirmRequest(intent.ID))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PAYMENT_NOT_SUCCEEDED", resp.Error.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmOrder_MissingDeliveryAddress(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	req := confirmRequest(succeededIntent(t, prov, 129900))
	req.DeliveryAddress = ""

	rec := postJSON(t, router, "/api/v1/payments/confirm", req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmOrder_UnknownIntent(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	rec := postJSON(t, router, "/api/v1/payments/confirm", confirmRequest("pi_mock_missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmOrder_DuplicatePayment(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	intentID := succeededIntent(t, prov, 129900)
	orders.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("order", "payment_id", intentID))

	rec := postJSON(t, router, "/api/v1/payments/confirm", confirmRequest(intentID))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	pub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything, mock.Anything)
}

func TestConfirmOrder_EmptyCart(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	req := confirmRequest(succeededIntent(t, prov, 129900))
	req.CartItems = nil

	rec := postJSON(t, router, "/api/v1/payments/confirm", req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// ListOrders Tests
// ============================================================================

func TestListOrders_Success(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	orders.On("ListByUserID", mock.Anything, handlerTestUserID).Return([]domain.Order{
		{ID: "ord-1", UserID: handlerTestUserID, Status: domain.OrderStatusProcessing},
		{ID: "ord-2", UserID: handlerTestUserID, Status: domain.OrderStatusDelivered},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestListOrders_Empty(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	orders.On("ListByUserID", mock.Anything, handlerTestUserID).Return([]domain.Order{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfirmOrder_ZeroPriceItem_Rejected(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	req := confirmRequest(succeededIntent(t, prov, 129900))
	req.CartItems[0].Price = 0

	rec := postJSON(t, router, "/api/v1/payments/confirm", req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListOrders_NoClaimsInContext(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())

	// Routed without the auth middleware, so no user ID reaches the handler.
	r := chi.NewRouter()
	r.Get("/api/v1/orders/", handler.ListOrders)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	orders.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything)
}

// Sanity check that the malformed-body guard also covers checkout endpoints.
func TestConfirmOrder_MalformedBody(t *testing.T) {
	orders := new(mockOrderRepo)
	pub := new(mockPublisher)
	prov := providermock.NewProvider()
	handler := NewCheckoutHandler(handlerCheckoutService(orders, prov, pub), handlerTestLogger())
	router := setupCheckoutRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
