package partysdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateParty hosts a new party. The caller is its first attendee.
func (s *Session) CreateParty(ctx context.Context, req CreatePartyRequest) (*PartyView, error) {
	return authJSON[PartyView](ctx, s, http.MethodPost, "/v1/parties", req, http.StatusCreated)
}

// GetParty returns one party as seen by the caller.
func (s *Session) GetParty(ctx context.Context, partyID string) (*PartyView, error) {
	return authJSON[PartyView](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID), nil, http.StatusOK)
}

// UpdateParty applies a host's partial edit.
func (s *Session) UpdateParty(ctx context.Context, partyID string, req UpdatePartyRequest) (*PartyView, error) {
	return authJSON[PartyView](ctx, s, http.MethodPatch, "/v1/parties/"+url.PathEscape(partyID), req, http.StatusOK)
}

// ListParties lists parties at a university, soonest first. An empty
// university means the caller's own.
func (s *Session) ListParties(ctx context.Context, university string) (*PartyList, error) {
	path := "/v1/parties"
	if university != "" {
		path += "?" + url.Values{"university": {university}}.Encode()
	}
	return authJSON[PartyList](ctx, s, http.MethodGet, path, nil, http.StatusOK)
}

// ListHostedParties lists parties the caller hosts.
func (s *Session) ListHostedParties(ctx context.Context) (*PartyList, error) {
	return authJSON[PartyList](ctx, s, http.MethodGet, "/v1/parties/hosted", nil, http.StatusOK)
}

// ListJoinedParties lists parties the caller attends, including hosted ones.
func (s *Session) ListJoinedParties(ctx context.Context) (*PartyList, error) {
	return authJSON[PartyList](ctx, s, http.MethodGet, "/v1/parties/joined", nil, http.StatusOK)
}

// JoinParty adds the caller to a party. Joining twice is not an error. A
// paid party the caller has not paid for fails with payment_required; the
// returned *APIError carries the payment instructions.
func (s *Session) JoinParty(ctx context.Context, partyID string) (*PartyView, error) {
	return authJSON[PartyView](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/join", nil, http.StatusOK)
}

// LeaveParty removes the caller from a party.
func (s *Session) LeaveParty(ctx context.Context, partyID string) (*PartyView, error) {
	return authJSON[PartyView](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/leave", nil, http.StatusOK)
}
