package repository

import (
	"context"
	"time"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
//
// Reads come in two projections: the default projection never loads the
// pending OTP columns; GetByPhoneWithOTP is the single read path that does,
// and is only called from inside verification.
type UserRepository interface {
	// UpsertOTP atomically creates the user for the given phone number if it
	// does not exist and stamps the pending OTP code and expiry in either
	// case. id is used only when a new row is created. The returned user is
	// the default projection of the affected row.
	UpsertOTP(ctx context.Context, id, phoneNumber, code string, expireAt time.Time) (*domain.User, error)

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)

	// GetByPhoneWithOTP retrieves a user by phone number including the
	// pending OTP code and expiry.
	GetByPhoneWithOTP(ctx context.Context, phoneNumber string) (*domain.User, error)

	// MarkPhoneVerified clears the pending OTP fields and marks the user's
	// phone as verified in one statement.
	MarkPhoneVerified(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its items atomically. A duplicate
	// payment ID fails the insert; exactly one order can reference a payment.
	Create(ctx context.Context, order *domain.Order) error

	// GetByPaymentID retrieves the order referencing the given payment ID.
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error)

	// ListByUserID returns the user's orders, newest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.Order, error)
}
