package partysdk

import (
	"context"
	"net/http"
	"net/url"
)

// SubmitFeedback rates a party that has ended.
func (s *Session) SubmitFeedback(ctx context.Context, partyID string, req FeedbackRequest) (*Feedback, error) {
	return authJSON[Feedback](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/feedback", req, http.StatusCreated)
}

// ListFeedback lists a party's feedback with anonymous authors removed.
func (s *Session) ListFeedback(ctx context.Context, partyID string) (*FeedbackList, error) {
	return authJSON[FeedbackList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/feedback", nil, http.StatusOK)
}

// FeedbackStats returns a party's rating summary.
func (s *Session) FeedbackStats(ctx context.Context, partyID string) (*FeedbackStats, error) {
	return authJSON[FeedbackStats](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/feedback/stats", nil, http.StatusOK)
}

// HasSubmittedFeedback reports whether the caller already rated the party.
func (s *Session) HasSubmittedFeedback(ctx context.Context, partyID string) (bool, error) {
	out, err := authJSON[FeedbackSubmitted](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/feedback/mine", nil, http.StatusOK)
	if err != nil {
		return false, err
	}
	return out.Submitted, nil
}

// HostFeedback lists feedback across every party a user hosted.
func (s *Session) HostFeedback(ctx context.Context, hostID string) (*FeedbackList, error) {
	return authJSON[FeedbackList](ctx, s, http.MethodGet, "/v1/hosts/"+url.PathEscape(hostID)+"/feedback", nil, http.StatusOK)
}
