package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"

	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/event"
	"github.com/utafrali/StorefrontGo/internal/provider"
	"github.com/utafrali/StorefrontGo/internal/repository"
)

// minorUnitFactor converts a major-unit amount (rupees) to the provider's
// minor unit (paise).
const minorUnitFactor = 100

// CheckoutService implements payment-verified order confirmation: register a
// payment intent, then turn a succeeded intent into exactly one order.
type CheckoutService struct {
	orders   repository.OrderRepository
	provider provider.Provider
	producer event.Publisher
	logger   *slog.Logger
	currency string

	nowFunc func() time.Time // injectable clock for testing
}

// NewCheckoutService creates a new checkout service. currency is the
// three-letter code sent to the provider for every intent.
func NewCheckoutService(
	orders repository.OrderRepository,
	prov provider.Provider,
	producer event.Publisher,
	logger *slog.Logger,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		provider: prov,
		producer: producer,
		logger:   logger,
		currency: currency,
		nowFunc:  time.Now,
	}
}

// CartItem is a caller-supplied line item, already validated at the HTTP
// boundary. Prices are taken as given; the cart is the source of truth for
// pricing.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// ConfirmOrderInput holds the parameters for confirming an order.
type ConfirmOrderInput struct {
	UserID          string
	PaymentIntentID string
	CartItems       []CartItem
	TotalAmount     int64
	DeliveryAddress string
}

// CreatePaymentIntent registers an intent for the given major-unit amount and
// returns only the client secret the frontend needs to drive the payment.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", apperrors.InvalidInput("amount must be greater than zero")
	}

	intent, err := s.provider.CreateIntent(ctx, &provider.CreateIntentInput{
		Amount:   amount * minorUnitFactor,
		Currency: s.currency,
	})
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}

	s.logger.InfoContext(ctx, "payment intent created",
		slog.String("intent_id", intent.ID),
		slog.Int64("amount", intent.Amount),
		slog.String("provider", s.provider.Name()),
	)

	return intent.ClientSecret, nil
}

// ConfirmOrder re-verifies the payment with the provider and creates the
// order. The provider check runs strictly before any write: an order exists
// only if the intent's status was succeeded at confirmation time. The unique
// payment_id constraint turns a duplicate confirmation into a conflict
// instead of a second order.
func (s *CheckoutService) ConfirmOrder(ctx context.Context, input *ConfirmOrderInput) (*domain.Order, error) {
	if input.DeliveryAddress == "" {
		return nil, apperrors.InvalidInput("delivery address is missing, order cannot be placed")
	}
	if input.PaymentIntentID == "" {
		return nil, apperrors.InvalidInput("payment intent id is required")
	}
	if len(input.CartItems) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	intent, err := s.provider.RetrieveIntent(ctx, input.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}

	if intent.Status != provider.IntentStatusSucceeded {
		s.logger.WarnContext(ctx, "order confirmation rejected",
			slog.String("intent_id", input.PaymentIntentID),
			slog.String("intent_status", intent.Status),
		)
		return nil, apperrors.PaymentNotSucceeded(intent.Status)
	}

	items := make([]domain.OrderItem, len(input.CartItems))
	for i, item := range input.CartItems {
		items[i] = domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	now := s.nowFunc().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		Items:           items,
		TotalAmount:     input.TotalAmount,
		Status:          domain.OrderStatusProcessing,
		PaymentMethod:   domain.PaymentMethodOnline,
		PaymentID:       input.PaymentIntentID,
		DeliveryAddress: input.DeliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order confirmed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.String("payment_id", order.PaymentID),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
