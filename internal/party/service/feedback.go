package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrPartyNotOver   = errors.New("party has not ended yet")
	ErrFeedbackExists = errors.New("feedback already submitted")
	ErrHostCannotRate = errors.New("host cannot rate their own party")
)

type FeedbackService struct {
	Store store.Store
}

// Submit records an attendee's rating once the party is over. The host is an
// attendee but cannot rate. Feedback is anonymous unless anonymous is
// explicitly false.
func (s *FeedbackService) Submit(ctx context.Context, partyID string, viewer domain.Identity, rating int, comment string, anonymous *bool) (domain.Feedback, error) {
	log := slogx.FromContext(ctx)

	if rating < 1 || rating > 5 {
		return domain.Feedback{}, ErrInvalidRating
	}

	p, err := requireAttendee(ctx, s.Store, partyID, viewer.UserID)
	if err != nil {
		return domain.Feedback{}, err
	}
	if p.HostID == viewer.UserID {
		return domain.Feedback{}, ErrHostCannotRate
	}

	now := time.Now().UTC()
	if !p.DateTime.Before(now) {
		return domain.Feedback{}, ErrPartyNotOver
	}

	f := domain.Feedback{
		ID:          idx.New().String(),
		PartyID:     partyID,
		UserID:      viewer.UserID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		IsAnonymous: anonymous == nil || *anonymous,
		CreatedAt:   now,
	}
	if err := s.Store.Feedback().CreateFeedback(ctx, f); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Feedback{}, ErrFeedbackExists
		}
		log.Error("failed to store feedback", slog.String("party_id", partyID), slog.Any("error", err))
		return domain.Feedback{}, err
	}

	log.Info("feedback submitted", slog.String("party_id", partyID), slog.Int("rating", rating))
	return f, nil
}

// List returns the party's feedback, newest first, with anonymous authors
// removed.
func (s *FeedbackService) List(ctx context.Context, partyID string) ([]domain.Feedback, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return nil, err
	}
	out, err := s.Store.Feedback().ListFeedback(ctx, partyID)
	if err != nil {
		return nil, err
	}
	return redact(out), nil
}

// Stats summarises the party's ratings.
func (s *FeedbackService) Stats(ctx context.Context, partyID string) (domain.FeedbackStats, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return domain.FeedbackStats{}, err
	}
	all, err := s.Store.Feedback().ListFeedback(ctx, partyID)
	if err != nil {
		return domain.FeedbackStats{}, err
	}
	return feedbackStats(all), nil
}

// HasSubmitted reports whether userID already left feedback on the party.
func (s *FeedbackService) HasSubmitted(ctx context.Context, partyID, userID string) (bool, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return false, err
	}
	return s.Store.Feedback().HasFeedback(ctx, partyID, userID)
}

// HostFeedback returns feedback across every party hostID hosted.
func (s *FeedbackService) HostFeedback(ctx context.Context, hostID string) ([]domain.Feedback, error) {
	out, err := s.Store.Feedback().ListFeedbackForHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	return redact(out), nil
}

func feedbackStats(all []domain.Feedback) domain.FeedbackStats {
	stats := domain.FeedbackStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	if len(all) == 0 {
		return stats
	}

	sum := 0
	for _, f := range all {
		sum += f.Rating
		stats.Distribution[f.Rating]++
	}
	stats.Total = len(all)
	stats.AverageRating = math.Round(float64(sum)/float64(len(all))*100) / 100
	return stats
}

func redact(in []domain.Feedback) []domain.Feedback {
	for i := range in {
		if in[i].IsAnonymous {
			in[i].UserID = ""
		}
	}
	return in
}
