package partysdk

import (
	"context"
	"net/http"
	"sync"
)

// Session is an authenticated caller. Tokens are not refreshed; when one
// expires every call fails with invalid_token and the caller logs in again.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
}

// AccessToken returns the bearer token the session sends.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetAccessToken swaps in a new token, e.g. after logging in again.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// Me returns the caller's profile.
func (s *Session) Me(ctx context.Context) (*Profile, error) {
	return authJSON[Profile](ctx, s, http.MethodGet, "/v1/accounts/me", nil, http.StatusOK)
}

// SetPaymentHandle sets the handle attendees pay the caller through.
func (s *Session) SetPaymentHandle(ctx context.Context, handle string) error {
	return authNoContent(ctx, s, http.MethodPut, "/v1/accounts/me/payment-handle",
		PaymentHandleRequest{PaymentHandle: handle})
}
