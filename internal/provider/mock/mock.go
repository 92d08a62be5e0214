package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"

	"github.com/utafrali/StorefrontGo/internal/provider"
)

// Provider is an in-memory payment provider for development and testing.
// Created intents start in the requires_payment_method state; tests move them
// with SetStatus to simulate the client-side confirmation step.
type Provider struct {
	mu      sync.Mutex
	intents map[string]*provider.Intent

	// DefaultStatus is assigned to newly created intents. Development setups
	// typically set it to succeeded so checkout can complete without a real
	// payment page.
	DefaultStatus string
}

// NewProvider creates a mock provider whose new intents start in
// requires_payment_method.
func NewProvider() *Provider {
	return &Provider{
		intents:       make(map[string]*provider.Intent),
		DefaultStatus: provider.IntentStatusRequiresPaymentMethod,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mock"
}

// CreateIntent registers an in-memory intent.
func (p *Provider) CreateIntent(_ context.Context, input *provider.CreateIntentInput) (*provider.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := "pi_mock_" + uuid.New().String()
	intent := &provider.Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.New().String(),
		Status:       p.DefaultStatus,
		Amount:       input.Amount,
		Currency:     input.Currency,
	}
	p.intents[id] = intent

	cpy := *intent
	return &cpy, nil
}

// RetrieveIntent returns the stored intent state.
func (p *Provider) RetrieveIntent(_ context.Context, intentID string) (*provider.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[intentID]
	if !ok {
		return nil, apperrors.NotFound("payment intent", intentID)
	}

	cpy := *intent
	return &cpy, nil
}

// SetStatus updates a stored intent's status. Test helper standing in for the
// provider-side payment confirmation.
func (p *Provider) SetStatus(intentID, status string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[intentID]
	if !ok {
		return false
	}
	intent.Status = status
	return true
}
