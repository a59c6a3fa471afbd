package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

var (
	ErrInvalidPaymentReference = errors.New("payment reference is required")
	ErrPaymentNotRequired      = errors.New("party does not require payment")
	ErrPaymentNotFound         = errors.New("payment not found")
)

// PaymentCheck is a caller's standing against a party's payment gate.
type PaymentCheck struct {
	domain.PaymentRecord

	// Required mirrors the party's requirement and Payment carries its
	// instructions.
	Required bool
	Payment  domain.PaymentRequirement

	// Satisfied reports whether Join would let the caller through.
	Satisfied bool
}

// PaymentService records self-reported payments. It never talks to a payment
// rail: a reference is the payer's word, and the host may confirm it.
type PaymentService struct {
	Store  store.Store
	Policy domain.PaymentPolicy
}

// CheckPaymentStatus returns the caller's record, or an unpaid one if they
// have never submitted.
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, partyID, userID string) (PaymentCheck, error) {
	p, err := loadParty(ctx, s.Store, partyID)
	if err != nil {
		return PaymentCheck{}, err
	}

	rec, err := s.Store.Payments().GetPayment(ctx, partyID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		rec = domain.PaymentRecord{PartyID: partyID, UserID: userID}
	case err != nil:
		slogx.FromContext(ctx).Error("failed to fetch payment", slog.String("party_id", partyID), slog.Any("error", err))
		return PaymentCheck{}, err
	}

	return PaymentCheck{
		PaymentRecord: rec,
		Required:      p.Payment.Required,
		Payment:       p.Payment,
		Satisfied:     !p.Payment.Required || s.Policy.Satisfied(rec),
	}, nil
}

// SubmitPaymentReference marks the caller as paid on their own word.
// Resubmitting replaces the reference and clears any host confirmation.
func (s *PaymentService) SubmitPaymentReference(ctx context.Context, partyID string, viewer domain.Identity, reference string) (domain.PaymentRecord, error) {
	log := slogx.FromContext(ctx)

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.PaymentRecord{}, ErrInvalidPaymentReference
	}

	var out domain.PaymentRecord
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := loadParty(ctx, tx, partyID)
		if err != nil {
			return err
		}
		if !p.Payment.Required {
			return ErrPaymentNotRequired
		}

		rec := domain.PaymentRecord{
			PartyID:     partyID,
			UserID:      viewer.UserID,
			Reference:   reference,
			IsPaid:      true,
			Status:      domain.PaymentSelfReported,
			SubmittedAt: time.Now().UTC(),
		}
		if err := tx.Payments().UpsertPayment(ctx, rec); err != nil {
			return err
		}

		out, err = tx.Payments().GetPayment(ctx, partyID, viewer.UserID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrPartyNotFound) && !errors.Is(err, ErrPaymentNotRequired) {
			log.Error("failed to record payment", slog.String("party_id", partyID), slog.Any("error", err))
		}
		return domain.PaymentRecord{}, err
	}

	log.Info("payment reference submitted",
		slog.String("party_id", partyID),
		slog.String("user_id", viewer.UserID),
	)
	return out, nil
}

// ConfirmPayment lets the host vouch for a payer's record.
func (s *PaymentService) ConfirmPayment(ctx context.Context, partyID string, host domain.Identity, userID string) error {
	log := slogx.FromContext(ctx)

	p, err := loadParty(ctx, s.Store, partyID)
	if err != nil {
		return err
	}
	if p.HostID != host.UserID {
		log.Warn("non-host attempted payment confirmation",
			slog.String("party_id", partyID),
			slog.String("user_id", host.UserID),
		)
		return ErrPermissionDenied
	}

	if err := s.Store.Payments().ConfirmPayment(ctx, partyID, userID, host.UserID, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPaymentNotFound
		}
		log.Error("failed to confirm payment", slog.String("party_id", partyID), slog.Any("error", err))
		return err
	}

	log.Info("payment confirmed", slog.String("party_id", partyID), slog.String("payer_id", userID))
	return nil
}

// ListPayments returns every payment record for the host's party.
func (s *PaymentService) ListPayments(ctx context.Context, partyID string, host domain.Identity) ([]domain.PaymentRecord, error) {
	p, err := loadParty(ctx, s.Store, partyID)
	if err != nil {
		return nil, err
	}
	if p.HostID != host.UserID {
		return nil, ErrPermissionDenied
	}
	return s.Store.Payments().ListPayments(ctx, partyID)
}

// paymentSatisfied evaluates the gate through q so Join can call it inside
// its transaction.
func paymentSatisfied(ctx context.Context, q store.Store, policy domain.PaymentPolicy, partyID, userID string) (bool, error) {
	rec, err := q.Payments().GetPayment(ctx, partyID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return policy.Satisfied(rec), nil
}
