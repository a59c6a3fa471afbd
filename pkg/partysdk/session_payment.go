package partysdk

import (
	"context"
	"net/http"
	"net/url"
)

// PaymentStatus returns the caller's standing against a party's payment gate.
func (s *Session) PaymentStatus(ctx context.Context, partyID string) (*PaymentStatus, error) {
	return authJSON[PaymentStatus](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/payment", nil, http.StatusOK)
}

// SubmitPayment records the caller's payment reference for a paid party.
func (s *Session) SubmitPayment(ctx context.Context, partyID, reference string) (*PaymentRecord, error) {
	return authJSON[PaymentRecord](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/payment",
		SubmitPaymentRequest{Reference: reference}, http.StatusOK)
}

// ListPayments lists every submitted payment for a party. Host only.
func (s *Session) ListPayments(ctx context.Context, partyID string) (*PaymentList, error) {
	return authJSON[PaymentList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/payments", nil, http.StatusOK)
}

// ConfirmPayment marks an attendee's payment as received. Host only.
func (s *Session) ConfirmPayment(ctx context.Context, partyID, userID string) error {
	return authNoContent(ctx, s, http.MethodPost,
		"/v1/parties/"+url.PathEscape(partyID)+"/payments/"+url.PathEscape(userID)+"/confirm", nil)
}
