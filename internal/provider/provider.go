package provider

import (
	"context"
)

// Intent status values reported by the payment provider. Only a subset is
// meaningful to us; anything other than succeeded blocks order confirmation.
const (
	IntentStatusRequiresPaymentMethod = "requires_payment_method"
	IntentStatusProcessing            = "processing"
	IntentStatusSucceeded             = "succeeded"
	IntentStatusCanceled              = "canceled"
)

// CreateIntentInput holds the parameters for creating a payment intent.
// Amount is in the provider's minor unit (paise for INR).
type CreateIntentInput struct {
	Amount   int64
	Currency string
}

// Intent is a payment intent as reported by the provider.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// Provider defines the interface for payment provider integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "stripe").
	Name() string

	// CreateIntent registers a new payment intent with the provider.
	CreateIntent(ctx context.Context, input *CreateIntentInput) (*Intent, error)

	// RetrieveIntent fetches the current state of an intent by its ID.
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}
