package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/StorefrontGo/pkg/httputil"
	"github.com/utafrali/StorefrontGo/pkg/validator"

	"github.com/utafrali/StorefrontGo/internal/service"
)

// AuthHandler handles HTTP requests for the phone-OTP sign-in endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// SendOtpRequest is the JSON request body for requesting an OTP.
type SendOtpRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
}

// VerifyOtpRequest is the JSON request body for verifying an OTP.
type VerifyOtpRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
	Otp         string `json:"otp" validate:"required,len=4,numeric"`
}

// --- Handlers ---

// SendOtp handles POST /api/v1/auth/otp/send
func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req SendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Message: "invalid request body",
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.IssueOTP(r.Context(), req.PhoneNumber); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// Acknowledgment only: the code travels over SMS, never over this response.
	httputil.WriteOK(w, "OTP sent successfully", nil)
}

// VerifyOtp handles POST /api/v1/auth/otp/verify
func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Message: "invalid request body",
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.PhoneNumber, req.Otp)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, "phone number verified", result)
}
