package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

// DefaultScanLimit bounds the unindexed fallback scan.
const DefaultScanLimit = 5000

var ErrInvalidParty = errors.New("invalid party")

// PartyInput is what a host supplies when creating a party.
type PartyInput struct {
	Title        string
	Description  string
	Location     string
	DateTime     time.Time
	MaxAttendees int
	Payment      domain.PaymentRequirement
}

type PartyService struct {
	Store   store.Store
	Metrics *metrics.Metrics

	// ScanLimit caps the fallback scan when a listing index is missing.
	// Zero means DefaultScanLimit.
	ScanLimit int
}

// Create writes a new party hosted by viewer. The host row and the party row
// are written in one transaction.
func (s *PartyService) Create(ctx context.Context, viewer domain.Identity, in PartyInput) (domain.Party, error) {
	log := slogx.FromContext(ctx)

	now := time.Now().UTC()
	p := domain.Party{
		ID:           idx.New().String(),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Location:     strings.TrimSpace(in.Location),
		DateTime:     in.DateTime.UTC(),
		MaxAttendees: in.MaxAttendees,
		University:   viewer.University,
		HostID:       viewer.UserID,
		HostName:     viewer.Username,
		Attendees:    []string{viewer.UserID},
		Payment:      in.Payment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.Payment.Recipient = strings.TrimSpace(p.Payment.Recipient)
	if !p.Payment.Required {
		p.Payment = domain.PaymentRequirement{}
	}

	// 1. Validate the record before touching the store
	if err := validateParty(p); err != nil {
		log.Warn("rejected party", slog.Any("error", err))
		return domain.Party{}, err
	}

	// 2. Party row and host membership in one transaction
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Parties().CreateParty(ctx, p); err != nil {
			return err
		}
		added, err := tx.Parties().AddAttendee(ctx, p.ID, p.HostID, now)
		if err != nil {
			return err
		}
		if !added {
			return fmt.Errorf("host could not join new party %s", p.ID)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create party", slog.String("party_id", p.ID), slog.Any("error", err))
		return domain.Party{}, err
	}

	log.Info("party created",
		slog.String("party_id", p.ID),
		slog.String("university", p.University),
		slog.Int("max_attendees", p.MaxAttendees),
		slog.Bool("requires_payment", p.Payment.Required),
	)

	return s.Get(ctx, p.ID)
}

// Get returns the party with its host name and attendee set.
func (s *PartyService) Get(ctx context.Context, id string) (domain.Party, error) {
	return loadParty(ctx, s.Store, id)
}

// Update applies a host-only patch. Capacity cannot drop below the current
// attendee count.
func (s *PartyService) Update(ctx context.Context, viewer domain.Identity, id string, patch domain.PartyPatch) (domain.Party, error) {
	log := slogx.FromContext(ctx)

	var out domain.Party
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := loadParty(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.HostID != viewer.UserID {
			log.Warn("non-host attempted party update",
				slog.String("party_id", id),
				slog.String("user_id", viewer.UserID),
			)
			return ErrPermissionDenied
		}

		if patch.Title != nil {
			p.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Location != nil {
			p.Location = strings.TrimSpace(*patch.Location)
		}
		if patch.DateTime != nil {
			p.DateTime = patch.DateTime.UTC()
		}
		if patch.MaxAttendees != nil {
			p.MaxAttendees = *patch.MaxAttendees
		}
		if err := validateParty(p); err != nil {
			return err
		}

		count, err := tx.Parties().CountAttendees(ctx, id)
		if err != nil {
			return err
		}
		if p.MaxAttendees > 0 && p.MaxAttendees < count {
			return fmt.Errorf("%w: max_attendees %d is below the %d people already attending",
				ErrInvalidParty, p.MaxAttendees, count)
		}

		p.UpdatedAt = time.Now().UTC()
		if err := tx.Parties().UpdateParty(ctx, p); err != nil {
			return err
		}

		out, err = loadParty(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.Party{}, err
	}

	log.Info("party updated", slog.String("party_id", id))
	return out, nil
}

// ListByUniversity returns the university's parties, soonest first.
func (s *PartyService) ListByUniversity(ctx context.Context, university string) ([]domain.Party, error) {
	return s.listWithFallback(ctx, "list_by_university",
		func() ([]domain.Party, error) { return s.Store.Parties().ListByUniversity(ctx, university) },
		func(p domain.Party) bool { return p.University == university },
	)
}

// ListHostedBy returns the parties userID hosts.
func (s *PartyService) ListHostedBy(ctx context.Context, userID string) ([]domain.Party, error) {
	return s.listWithFallback(ctx, "list_hosted_by",
		func() ([]domain.Party, error) { return s.Store.Parties().ListHostedBy(ctx, userID) },
		func(p domain.Party) bool { return p.HostID == userID },
	)
}

// ListJoinedBy returns the parties userID attends, including hosted ones.
func (s *PartyService) ListJoinedBy(ctx context.Context, userID string) ([]domain.Party, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.listWithFallback(ctx, "list_joined_by",
		func() ([]domain.Party, error) { return s.Store.Parties().ListJoinedBy(ctx, userID) },
		func(p domain.Party) bool { return p.HasAttendee(userID) },
	)
}

// listWithFallback runs an index-pinned listing and, if the index is gone,
// degrades to a bounded scan filtered and sorted in memory.
func (s *PartyService) listWithFallback(
	ctx context.Context,
	query string,
	indexed func() ([]domain.Party, error),
	keep func(domain.Party) bool,
) ([]domain.Party, error) {
	log := slogx.FromContext(ctx)

	parties, err := indexed()
	if err == nil {
		return parties, nil
	}
	if !errors.Is(err, store.ErrIndexUnavailable) {
		log.Error("party listing failed", slog.String("query", query), slog.Any("error", err))
		return nil, err
	}

	limit := s.ScanLimit
	if limit <= 0 {
		limit = DefaultScanLimit
	}

	s.Metrics.IndexFallback(query)

	all, err := s.Store.Parties().Scan(ctx, limit)
	if err != nil {
		log.Error("fallback scan failed", slog.String("query", query), slog.Any("error", err))
		return nil, err
	}

	out := make([]domain.Party, 0)
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.Before(out[j].DateTime)
		}
		return out[i].ID < out[j].ID
	})

	attrs := []any{
		slog.String("query", query),
		slog.Int("scanned", len(all)),
		slog.Int("matched", len(out)),
	}
	if len(all) >= limit {
		attrs = append(attrs, slog.Bool("truncated", true), slog.Int("scan_limit", limit))
		log.Warn("listing index unavailable, scan hit its limit and results may be truncated", attrs...)
	} else {
		log.Warn("listing index unavailable, served from scan", attrs...)
	}

	return out, nil
}

func validateParty(p domain.Party) error {
	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidParty)
	case p.DateTime.IsZero():
		return fmt.Errorf("%w: date_time is required", ErrInvalidParty)
	case p.MaxAttendees < 0:
		return fmt.Errorf("%w: max_attendees must be at least 1 when set", ErrInvalidParty)
	case p.HostID == "":
		return fmt.Errorf("%w: host is required", ErrInvalidParty)
	}
	if p.Payment.Required {
		if p.Payment.Amount <= 0 {
			return fmt.Errorf("%w: payment amount must be positive", ErrInvalidParty)
		}
		if p.Payment.Recipient == "" {
			return fmt.Errorf("%w: payment recipient is required", ErrInvalidParty)
		}
	}
	return nil
}
