package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"

	"github.com/utafrali/StorefrontGo/internal/auth"
	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/event"
	"github.com/utafrali/StorefrontGo/internal/otp"
	"github.com/utafrali/StorefrontGo/internal/repository"
	"github.com/utafrali/StorefrontGo/internal/sms"
)

// AuthService implements phone-OTP sign-in: issue a short-lived code, verify
// it, and mint a session token.
type AuthService struct {
	repo     repository.UserRepository
	sender   sms.Sender
	jwt      *auth.JWTManager
	cooldown CooldownStore
	producer event.Publisher
	logger   *slog.Logger
	devMode  bool

	nowFunc func() time.Time // injectable clock for testing
}

// NewAuthService creates a new auth service. devMode controls whether issued
// codes are logged for local development.
func NewAuthService(
	repo repository.UserRepository,
	sender sms.Sender,
	jwtManager *auth.JWTManager,
	cooldown CooldownStore,
	producer event.Publisher,
	logger *slog.Logger,
	devMode bool,
) *AuthService {
	return &AuthService{
		repo:     repo,
		sender:   sender,
		jwt:      jwtManager,
		cooldown: cooldown,
		producer: producer,
		logger:   logger,
		devMode:  devMode,
		nowFunc:  time.Now,
	}
}

// VerifyResult is returned on successful OTP verification.
type VerifyResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// IssueOTP generates a fresh code for the phone number, creating the account
// on first contact, and hands the code to the SMS sender. The code itself is
// never part of the return value.
func (s *AuthService) IssueOTP(ctx context.Context, phoneNumber string) error {
	if err := validatePhoneNumber(phoneNumber); err != nil {
		return err
	}

	allowed, err := s.cooldown.Allow(ctx, phoneNumber)
	if err != nil {
		return fmt.Errorf("otp cooldown: %w", err)
	}
	if !allowed {
		return apperrors.RateLimited("please wait before requesting a new code")
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return apperrors.Internal(err)
	}

	expireAt := s.nowFunc().UTC().Add(otp.TTL)
	user, err := s.repo.UpsertOTP(ctx, uuid.New().String(), phoneNumber, code, expireAt)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	if s.devMode {
		s.logger.InfoContext(ctx, "otp issued (development)",
			slog.String("phone_number", phoneNumber),
			slog.String("otp", code),
		)
	}

	if err := s.sender.Send(ctx, phoneNumber, sms.OTPMessage(code)); err != nil {
		s.logger.ErrorContext(ctx, "sms dispatch failed",
			slog.String("phone_number", phoneNumber),
			slog.String("sender", s.sender.Name()),
			slog.String("error", err.Error()),
		)
		return apperrors.Internal(fmt.Errorf("send otp: %w", err))
	}

	s.logger.InfoContext(ctx, "otp issued",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", expireAt),
	)
	return nil
}

// VerifyOTP checks the submitted code against the pending one. The equality
// check runs before the expiry check, so a wrong code is always reported as
// invalid even when the window has lapsed. A failed attempt leaves the
// pending code untouched.
func (s *AuthService) VerifyOTP(ctx context.Context, phoneNumber, submittedOtp string) (*VerifyResult, error) {
	if err := validatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	if submittedOtp == "" {
		return nil, apperrors.InvalidInput("otp is required")
	}

	user, err := s.repo.GetByPhoneWithOTP(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", phoneNumber)
		}
		return nil, fmt.Errorf("verify otp: %w", err)
	}

	// A consumed or never-issued code has no stored value and can never
	// match a non-empty submission.
	if user.VerifyOtp == "" || user.VerifyOtp != submittedOtp {
		return nil, apperrors.InvalidOtp()
	}

	if user.OtpExpired(s.nowFunc().UTC()) {
		return nil, apperrors.OtpExpired()
	}

	if err := s.repo.MarkPhoneVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("mark phone verified: %w", err)
	}
	user.IsPhoneVerified = true
	user.VerifyOtp = ""
	user.VerifyOtpExpireAt = nil

	token, err := s.jwt.GenerateSessionToken(user.ID, user.PhoneNumber, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.producer.PublishPhoneVerified(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.phone_verified event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "phone verified",
		slog.String("user_id", user.ID),
	)

	return &VerifyResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// GetUser returns the public projection of a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func validatePhoneNumber(phoneNumber string) error {
	if len(phoneNumber) != domain.PhoneNumberLength {
		return apperrors.InvalidInput(
			fmt.Sprintf("phone number must be exactly %d digits", domain.PhoneNumberLength))
	}
	return nil
}
