package sms

import (
	"context"
	"fmt"
	"log/slog"
)

// Sender delivers one-time codes to a phone number.
type Sender interface {
	// Name returns the sender name (e.g., "mock", "twilio").
	Name() string

	// Send delivers the message to the given phone number. Delivery retries
	// are the gateway's concern, not ours.
	Send(ctx context.Context, phoneNumber, message string) error
}

// OTPMessage formats the standard OTP delivery message.
func OTPMessage(code string) string {
	return fmt.Sprintf("Your verification code is %s. It expires in 60 seconds.", code)
}

// MockSender logs the message instead of delivering it. Intended for
// development and testing; the logged line is how developers read the code
// when no SMS gateway is configured.
type MockSender struct {
	logger *slog.Logger
}

func NewMockSender(logger *slog.Logger) *MockSender {
	return &MockSender{logger: logger}
}

// Name returns the sender name.
func (s *MockSender) Name() string {
	return "mock"
}

// Send logs the outgoing message.
func (s *MockSender) Send(ctx context.Context, phoneNumber, message string) error {
	s.logger.InfoContext(ctx, "sms delivery (mock)",
		slog.String("phone_number", phoneNumber),
		slog.String("message", message),
	)
	return nil
}
