package http

import (
	"net/http"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// FeedbackHandler handles post-party ratings.
type FeedbackHandler struct {
	FeedbackService *service.FeedbackService
}

// HandleSubmit handles POST /v1/parties/{id}/feedback
//
//	@Summary		Submit feedback
//	@Description	Attendees only, once the party is over, once per user. Anonymous unless anonymous=false.
//	@Tags			Feedback
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Party ID"
//	@Param			request	body		partysdk.FeedbackRequest	true	"rating 1..5, comment, anonymous"
//	@Success		201		{object}	partysdk.Feedback			"The stored feedback"
//	@Failure		400		{object}	partysdk.ErrorResponse		"bad rating"
//	@Failure		403		{object}	partysdk.ErrorResponse		"not an attendee"
//	@Failure		409		{object}	partysdk.ErrorResponse		"party not over or already submitted"
//	@Router			/v1/parties/{id}/feedback [post].
func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req partysdk.FeedbackRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	f, err := h.FeedbackService.Submit(r.Context(), r.PathValue("id"), viewer(r), req.Rating, req.Comment, req.Anonymous)
	if err != nil {
		writeServiceError(w, r, err, "submit feedback")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toFeedback(f))
}

// HandleList handles GET /v1/parties/{id}/feedback
//
//	@Summary		List feedback
//	@Tags			Feedback
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.FeedbackList	"feedback, newest first"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/feedback [get].
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.FeedbackService.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list feedback")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toFeedbackList(all))
}

// HandleStats handles GET /v1/parties/{id}/feedback/stats
//
//	@Summary		Feedback stats
//	@Tags			Feedback
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.FeedbackStats	"average_rating, total, distribution"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/feedback/stats [get].
func (h *FeedbackHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.FeedbackService.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "compute feedback stats")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, partysdk.FeedbackStats{
		AverageRating: stats.AverageRating,
		Total:         stats.Total,
		Distribution:  stats.Distribution,
	})
}

// HandleMine handles GET /v1/parties/{id}/feedback/mine
//
//	@Summary		Have I rated this party
//	@Tags			Feedback
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string						true	"Party ID"
//	@Success		200	{object}	partysdk.FeedbackSubmitted	"submitted"
//	@Router			/v1/parties/{id}/feedback/mine [get].
func (h *FeedbackHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	ok, err := h.FeedbackService.HasSubmitted(r.Context(), r.PathValue("id"), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "check feedback")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, partysdk.FeedbackSubmitted{Submitted: ok})
}

// HandleHost handles GET /v1/hosts/{id}/feedback
//
//	@Summary		Host feedback
//	@Description	Feedback across every party the user hosted, anonymous authors removed.
//	@Tags			Feedback
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Host user ID"
//	@Success		200	{object}	partysdk.FeedbackList	"feedback"
//	@Router			/v1/hosts/{id}/feedback [get].
func (h *FeedbackHandler) HandleHost(w http.ResponseWriter, r *http.Request) {
	all, err := h.FeedbackService.HostFeedback(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list host feedback")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toFeedbackList(all))
}
