package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/StorefrontGo/pkg/health"
	"github.com/utafrali/StorefrontGo/pkg/middleware"

	"github.com/utafrali/StorefrontGo/internal/auth"
	"github.com/utafrali/StorefrontGo/internal/service"
)

// RouterConfig carries the HTTP-surface knobs that do not belong to any
// single handler.
type RouterConfig struct {
	CORS         CORSConfig
	OtpRateRPS   int
	OtpRateBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	authService *service.AuthService,
	checkoutService *service.CheckoutService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// OTP endpoints (public, rate limited per client IP)
	authHandler := NewAuthHandler(authService, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RateLimit(cfg.OtpRateRPS, cfg.OtpRateBurst, logger))

		r.Post("/otp/send", authHandler.SendOtp)
		r.Post("/otp/verify", authHandler.VerifyOtp)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateSessionToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Phone:  claims.Phone,
			Role:   claims.Role,
		}, nil
	}

	// Checkout endpoints (auth required)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/intent", checkoutHandler.CreateIntent)
		r.Post("/confirm", checkoutHandler.ConfirmOrder)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", checkoutHandler.ListOrders)
	})

	// Profile endpoint (auth required)
	userHandler := NewUserHandler(authService, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/me", userHandler.GetProfile)
	})

	return r
}
