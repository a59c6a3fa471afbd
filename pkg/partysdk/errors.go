package partysdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInvalidCredential = "invalid_credentials"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeNotFound          = "not_found"
	ErrorCodePartyFull         = "party_full"
	ErrorCodeHostCannotLeave   = "host_cannot_leave"
	ErrorCodePartyOver         = "party_over"
	ErrorCodePaymentRequired   = "payment_required"
	ErrorCodePermissionDenied  = "permission_denied"
	ErrorCodeConflict          = "conflict"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// ============================================================================
// Typed Errors
// ============================================================================

// APIError is a non-2xx response from the party service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// Payment is set when Code is payment_required and tells the caller who
	// to pay and how much.
	Payment *PaymentInstructions
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Description, e.StatusCode)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. It returns
// nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Payment:     errResp.Payment,
		}
	}

	// Rate limiter and mux errors are not always JSON.
	code := ErrorCodeServerError
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		code = ErrorCodeRateLimited
	case http.StatusNotFound:
		code = ErrorCodeNotFound
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
