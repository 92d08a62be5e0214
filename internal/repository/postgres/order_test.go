package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/StorefrontGo/pkg/database"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

var orderColumns = []string{
	"id", "user_id", "total_amount", "status", "payment_method",
	"payment_id", "delivery_address", "created_at", "updated_at", "items",
}

func sampleOrder() *domain.Order {
	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID:     "ord-001",
		UserID: "user-1",
		Items: []domain.OrderItem{
			{ProductID: "prod-1", ProductName: "Masala Chai", Quantity: 2, Price: 250},
			{ProductID: "prod-2", ProductName: "Filter Coffee", Quantity: 1, Price: 799},
		},
		TotalAmount:     1299,
		Status:          domain.OrderStatusProcessing,
		PaymentMethod:   domain.PaymentMethodOnline,
		PaymentID:       "pi_123",
		DeliveryAddress: "42 MG Road, Bengaluru",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestOrderRepository_Create(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentMethod,
			o.PaymentID, o.DeliveryAddress, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, 0, "prod-1", "Masala Chai", 2, int64(250)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, 1, "prod-2", "Filter Coffee", 1, int64(799)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.Create(context.Background(), o)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_DuplicatePaymentID(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentMethod,
			o.PaymentID, o.DeliveryAddress, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "orders_payment_id_key" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertError_RollsBack(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentMethod,
			o.PaymentID, o.DeliveryAddress, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, 0, "prod-1", "Masala Chai", 2, int64(250)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByPaymentID(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	o := sampleOrder()

	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("pi_123").
		WillReturnRows(pgxmock.NewRows(orderColumns).AddRow(
			o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentMethod,
			o.PaymentID, o.DeliveryAddress, o.CreatedAt, o.UpdatedAt, itemsJSON,
		))

	got, err := repo.GetByPaymentID(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	require.Len(t, got.Items, 2)
	// Item order survives the JSONB round trip.
	assert.Equal(t, "Masala Chai", got.Items[0].ProductName)
	assert.Equal(t, "Filter Coffee", got.Items[1].ProductName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByPaymentID_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("pi_missing").
		WillReturnRows(pgxmock.NewRows(orderColumns))

	_, err = repo.GetByPaymentID(context.Background(), "pi_missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByUserID(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	o := sampleOrder()

	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow(
				"ord-002", o.UserID, int64(500), o.Status, o.PaymentMethod,
				"pi_456", o.DeliveryAddress, o.CreatedAt.Add(time.Hour), o.UpdatedAt.Add(time.Hour), []byte("[]"),
			).
			AddRow(
				o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentMethod,
				o.PaymentID, o.DeliveryAddress, o.CreatedAt, o.UpdatedAt, itemsJSON,
			))

	orders, err := repo.ListByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-002", orders[0].ID)
	assert.Empty(t, orders[0].Items)
	assert.Len(t, orders[1].Items, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByUserID_Empty(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("user-unknown").
		WillReturnRows(pgxmock.NewRows(orderColumns))

	orders, err := repo.ListByUserID(context.Background(), "user-unknown")
	require.NoError(t, err)
	assert.Empty(t, orders)

	assert.NoError(t, mock.ExpectationsWereMet())
}
