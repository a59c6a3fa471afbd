package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

// Errors shared by more than one service.
var (
	ErrPartyNotFound    = errors.New("party not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotAttendee      = errors.New("not an attendee of this party")
)

// PaymentRequiredError is returned by Join when the party is paid and the
// caller has no qualifying payment. It carries what the caller must pay.
type PaymentRequiredError struct {
	Payment domain.PaymentRequirement
}

func (e *PaymentRequiredError) Error() string { return ErrPaymentRequired.Error() }

func (e *PaymentRequiredError) Unwrap() error { return ErrPaymentRequired }

// loadParty fetches a party through q, translating a miss.
func loadParty(ctx context.Context, q store.Store, partyID string) (domain.Party, error) {
	p, err := q.Parties().GetParty(ctx, partyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Party{}, ErrPartyNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch party",
			slog.String("party_id", partyID),
			slog.Any("error", err),
		)
		return domain.Party{}, err
	}
	return p, nil
}

// requireAttendee fails with ErrPartyNotFound or ErrNotAttendee.
func requireAttendee(ctx context.Context, q store.Store, partyID, userID string) (domain.Party, error) {
	p, err := loadParty(ctx, q, partyID)
	if err != nil {
		return domain.Party{}, err
	}
	if !p.HasAttendee(userID) {
		return domain.Party{}, ErrNotAttendee
	}
	return p, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
