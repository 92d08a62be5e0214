package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/utafrali/StorefrontGo/pkg/kafka"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// Kafka topic constants for storefront domain events.
const (
	TopicPhoneVerified = "storefront.user.phone_verified"
	TopicOrderCreated  = "storefront.order.created"
)

// Aggregate type constants.
const (
	AggregateTypeUser  = "user"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this service.
const Source = "storefront"

// PhoneVerifiedData is the payload for a user.phone_verified event.
type PhoneVerifiedData struct {
	UserID      string `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// OrderCreatedData is the payload for an order.created event (full order
// snapshot).
type OrderCreatedData struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItemData `json:"items"`
	TotalAmount     int64           `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentID       string          `json:"payment_id"`
	DeliveryAddress string          `json:"delivery_address"`
}

// OrderItemData is the event payload for an order line item.
type OrderItemData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// Publisher is the subset used by the services; satisfied by Producer and by
// test doubles.
type Publisher interface {
	PublishPhoneVerified(ctx context.Context, user *domain.User) error
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishPhoneVerified publishes a user.phone_verified event.
func (p *Producer) PublishPhoneVerified(ctx context.Context, user *domain.User) error {
	data := PhoneVerifiedData{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicPhoneVerified, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.phone_verified event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPhoneVerified, event); err != nil {
		return fmt.Errorf("publish user.phone_verified event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.phone_verified event",
		slog.String("user_id", user.ID),
	)
	return nil
}

// PublishOrderCreated publishes an order.created event with the full order
// snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	data := OrderCreatedData{
		ID:              order.ID,
		UserID:          order.UserID,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		PaymentID:       order.PaymentID,
		DeliveryAddress: order.DeliveryAddress,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, Source, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)
	return nil
}
