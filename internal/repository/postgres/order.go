package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/StorefrontGo/pkg/database"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderWithItemsQuery = `
	SELECT
		o.id, o.user_id, o.total_amount, o.status, o.payment_method,
		o.payment_id, o.delivery_address, o.created_at, o.updated_at,
		COALESCE(
			JSONB_AGG(
				JSONB_BUILD_OBJECT(
					'product_id', oi.product_id,
					'product_name', oi.product_name,
					'quantity', oi.quantity,
					'price', oi.price
				) ORDER BY oi.position
			) FILTER (WHERE oi.order_id IS NOT NULL),
			'[]'::jsonb
		) AS items
	FROM orders o
	LEFT JOIN order_items oi ON o.id = oi.order_id`

// Create inserts a new order and its items atomically within a transaction.
// The unique index on payment_id guarantees at most one order per payment;
// a duplicate surfaces as AlreadyExists.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, user_id, total_amount, status, payment_method, payment_id, delivery_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.UserID,
		o.TotalAmount,
		o.Status,
		o.PaymentMethod,
		o.PaymentID,
		o.DeliveryAddress,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("order", "payment_id", o.PaymentID)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			i,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByPaymentID retrieves the order referencing the given payment ID,
// eagerly loading its items.
func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	query := orderWithItemsQuery + `
	WHERE o.payment_id = $1
	GROUP BY o.id`

	var (
		o         domain.Order
		itemsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, paymentID).Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentMethod,
		&o.PaymentID,
		&o.DeliveryAddress,
		&o.CreatedAt,
		&o.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", paymentID)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}

	return &o, nil
}

// ListByUserID returns the user's orders, newest first, with items loaded.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	query := orderWithItemsQuery + `
	WHERE o.user_id = $1
	GROUP BY o.id
	ORDER BY o.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o         domain.Order
			itemsJSON []byte
		)
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.TotalAmount,
			&o.Status,
			&o.PaymentMethod,
			&o.PaymentID,
			&o.DeliveryAddress,
			&o.CreatedAt,
			&o.UpdatedAt,
			&itemsJSON,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}
