package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
	"github.com/utafrali/StorefrontGo/pkg/httpclient"

	"github.com/utafrali/StorefrontGo/internal/provider"
)

const defaultBaseURL = "https://api.stripe.com"

// Provider talks to the Stripe payment-intents API over its form-encoded
// HTTP interface. All calls go through the retrying circuit-breaker client.
type Provider struct {
	client    *httpclient.CircuitBreakerClient
	secretKey string
	baseURL   string
	logger    *slog.Logger
}

// Config holds Stripe provider configuration.
type Config struct {
	SecretKey string
	// BaseURL overrides the API host. Used in tests; empty means production.
	BaseURL string
}

// NewProvider creates a Stripe-backed payment provider.
func NewProvider(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) (*Provider, error) {
	if cfg.SecretKey == "" {
		return nil, apperrors.Configuration("stripe secret key is not set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		client:    client,
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		logger:    logger,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stripe"
}

// intentResponse mirrors the fields of a Stripe PaymentIntent object we care
// about.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// apiError mirrors the Stripe error body.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent registers a payment intent with automatic payment methods
// enabled. The amount must already be in the minor unit.
func (p *Provider) CreateIntent(ctx context.Context, input *provider.CreateIntentInput) (*provider.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(input.Amount, 10))
	form.Set("currency", input.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p.authorize(req)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	intent, err := p.decodeIntent(resp)
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "payment intent created",
		slog.String("intent_id", intent.ID),
		slog.Int64("amount", intent.Amount),
		slog.String("currency", intent.Currency),
	)
	return intent, nil
}

// RetrieveIntent fetches the current intent state from Stripe.
func (p *Provider) RetrieveIntent(ctx context.Context, intentID string) (*provider.Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/v1/payment_intents/"+url.PathEscape(intentID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("retrieve intent request: %w", err)
	}
	p.authorize(req)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve intent: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return p.decodeIntent(resp)
}

func (p *Provider) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
}

// decodeIntent parses an intent from a Stripe response, translating error
// bodies into AppErrors. The caller closes the body.
func (p *Provider) decodeIntent(resp *http.Response) (*provider.Intent, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read stripe response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			if resp.StatusCode == http.StatusNotFound {
				return nil, apperrors.NotFound("payment intent", apiErr.Error.Code)
			}
			return nil, apperrors.Internal(fmt.Errorf("stripe %s: %s", apiErr.Error.Type, apiErr.Error.Message))
		}
		return nil, apperrors.Internal(fmt.Errorf("stripe returned status %d", resp.StatusCode))
	}

	var ir intentResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, fmt.Errorf("decode stripe intent: %w", err)
	}

	return &provider.Intent{
		ID:           ir.ID,
		ClientSecret: ir.ClientSecret,
		Status:       ir.Status,
		Amount:       ir.Amount,
		Currency:     ir.Currency,
	}, nil
}
