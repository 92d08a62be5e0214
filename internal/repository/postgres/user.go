package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/StorefrontGo/pkg/database"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// UpsertOTP creates the user row on first contact and stamps the pending OTP
// in the same statement. Concurrent issues for one phone leave exactly one
// row with the last writer's code.
func (r *UserRepository) UpsertOTP(ctx context.Context, id, phoneNumber, code string, expireAt time.Time) (*domain.User, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO users (id, phone_number, role, is_phone_verified, verify_otp, verify_otp_expire_at, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6, $6)
		ON CONFLICT (phone_number) DO UPDATE
		SET verify_otp = EXCLUDED.verify_otp,
		    verify_otp_expire_at = EXCLUDED.verify_otp_expire_at,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, phone_number, COALESCE(name, ''), role, is_phone_verified, created_at, updated_at`

	var u domain.User
	err := r.pool.QueryRow(ctx, query,
		id,
		phoneNumber,
		domain.RoleUser,
		code,
		expireAt,
		now,
	).Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.Name,
		&u.Role,
		&u.IsPhoneVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert otp: %w", err)
	}

	return &u, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, phone_number, COALESCE(name, ''), role, is_phone_verified, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	query := `
		SELECT id, phone_number, COALESCE(name, ''), role, is_phone_verified, created_at, updated_at
		FROM users
		WHERE phone_number = $1`

	return r.scanUser(ctx, query, phoneNumber)
}

// GetByPhoneWithOTP retrieves a user including the pending OTP columns.
func (r *UserRepository) GetByPhoneWithOTP(ctx context.Context, phoneNumber string) (*domain.User, error) {
	query := `
		SELECT id, phone_number, COALESCE(name, ''), role, is_phone_verified,
		       COALESCE(verify_otp, ''), verify_otp_expire_at, created_at, updated_at
		FROM users
		WHERE phone_number = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, phoneNumber).Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.Name,
		&u.Role,
		&u.IsPhoneVerified,
		&u.VerifyOtp,
		&u.VerifyOtpExpireAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user with otp: %w", err)
	}

	return &u, nil
}

// MarkPhoneVerified consumes the pending OTP and flags the phone verified.
func (r *UserRepository) MarkPhoneVerified(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET is_phone_verified = TRUE,
		    verify_otp = NULL,
		    verify_otp_expire_at = NULL,
		    updated_at = $1
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark phone verified: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// scanUser executes a query expected to return a single default-projection
// user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.Name,
		&u.Role,
		&u.IsPhoneVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
