package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

var (
	ErrPartyFull       = errors.New("party is full")
	ErrHostCannotLeave = errors.New("host cannot leave their own party")
	ErrPaymentRequired = errors.New("payment required to join")
	ErrPartyOver       = errors.New("party has already ended")
)

// JoinResult is the party after a join attempt that did not fail.
type JoinResult struct {
	Party         domain.Party
	AlreadyJoined bool
}

// MembershipService owns the attendee set. Both join and leave go through a
// single membership table, so a party's attendees and a user's joined
// parties can never disagree.
type MembershipService struct {
	Store   store.Store
	Policy  domain.PaymentPolicy
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *MembershipService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Join adds viewer to the party. The existence check, date check, payment
// gate and capacity-guarded insert all run in one transaction.
func (s *MembershipService) Join(ctx context.Context, partyID string, viewer domain.Identity) (JoinResult, error) {
	log := slogx.FromContext(ctx)

	now := s.now()

	var res JoinResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Party must exist and not have started
		p, err := loadParty(ctx, tx, partyID)
		if err != nil {
			return err
		}
		if p.DateTime.Before(now) {
			return ErrPartyOver
		}

		// 2. Already a member: nothing to write
		if p.HasAttendee(viewer.UserID) {
			res = JoinResult{Party: p, AlreadyJoined: true}
			return nil
		}

		// 3. Payment gate
		if p.Payment.Required {
			ok, err := paymentSatisfied(ctx, tx, s.Policy, partyID, viewer.UserID)
			if err != nil {
				return err
			}
			if !ok {
				return &PaymentRequiredError{Payment: p.Payment}
			}
		}

		// 4. Conditional insert; false means there was no room
		added, err := tx.Parties().AddAttendee(ctx, partyID, viewer.UserID, now)
		if err != nil {
			return err
		}
		if !added {
			return ErrPartyFull
		}

		p, err = loadParty(ctx, tx, partyID)
		if err != nil {
			return err
		}
		res = JoinResult{Party: p}
		return nil
	})

	result := joinResultLabel(res, err)
	s.Metrics.MembershipOp("join", result)

	if err != nil {
		if result == "error" {
			log.Error("join failed",
				slog.String("party_id", partyID),
				slog.String("user_id", viewer.UserID),
				slog.Any("error", err),
			)
		} else {
			log.Info("join rejected",
				slog.String("party_id", partyID),
				slog.String("user_id", viewer.UserID),
				slog.String("reason", result),
			)
		}
		return JoinResult{}, err
	}

	if !res.AlreadyJoined {
		log.Info("joined party",
			slog.String("party_id", partyID),
			slog.String("user_id", viewer.UserID),
			slog.Int("attendees", len(res.Party.Attendees)),
		)
	}
	return res, nil
}

// Leave removes viewer from the party. The host can never leave, and nobody
// leaves a party that already happened. Leaving a party you are not in
// succeeds without a write.
func (s *MembershipService) Leave(ctx context.Context, partyID string, viewer domain.Identity) error {
	log := slogx.FromContext(ctx)
	now := s.now()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := loadParty(ctx, tx, partyID)
		if err != nil {
			return err
		}
		if p.DateTime.Before(now) {
			return ErrPartyOver
		}
		if p.HostID == viewer.UserID {
			return ErrHostCannotLeave
		}
		return tx.Parties().RemoveAttendee(ctx, partyID, viewer.UserID)
	})

	switch {
	case err == nil:
		s.Metrics.MembershipOp("leave", "ok")
		log.Info("left party", slog.String("party_id", partyID), slog.String("user_id", viewer.UserID))
	case errors.Is(err, ErrPartyNotFound):
		s.Metrics.MembershipOp("leave", "not_found")
	case errors.Is(err, ErrPartyOver):
		s.Metrics.MembershipOp("leave", "party_over")
	case errors.Is(err, ErrHostCannotLeave):
		s.Metrics.MembershipOp("leave", "host_cannot_leave")
		log.Warn("host attempted to leave", slog.String("party_id", partyID), slog.String("user_id", viewer.UserID))
	default:
		s.Metrics.MembershipOp("leave", "error")
		log.Error("leave failed", slog.String("party_id", partyID), slog.Any("error", err))
	}
	return err
}

func joinResultLabel(res JoinResult, err error) string {
	switch {
	case err == nil && res.AlreadyJoined:
		return "already_joined"
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPartyNotFound):
		return "not_found"
	case errors.Is(err, ErrPartyFull):
		return "full"
	case errors.Is(err, ErrPartyOver):
		return "party_over"
	case errors.Is(err, ErrPaymentRequired):
		return "payment_required"
	default:
		return "error"
	}
}
