package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// PartyHandler handles party records and membership. Every party it returns
// is composed for the caller.
type PartyHandler struct {
	PartyService      *service.PartyService
	MembershipService *service.MembershipService
	Now               func() time.Time
}

func (h *PartyHandler) view(p domain.Party, r *http.Request) partysdk.PartyView {
	return toPartyView(service.ComposeView(p, viewer(r).UserID, h.Now()))
}

func (h *PartyHandler) writeList(w http.ResponseWriter, r *http.Request, parties []domain.Party) {
	httpx.WriteJSON(w, http.StatusOK, toPartyList(service.ComposeViews(parties, viewer(r).UserID, h.Now())))
}

// HandleCreate handles POST /v1/parties
//
//	@Summary		Create party
//	@Description	Hosts a new party at the caller's university. The host is its first attendee.
//	@Tags			Parties
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		partysdk.CreatePartyRequest	true	"Party details"
//	@Success		201		{object}	partysdk.PartyView			"The party as seen by its host"
//	@Failure		400		{object}	partysdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	partysdk.ErrorResponse		"missing or invalid token"
//	@Router			/v1/parties [post].
func (h *PartyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req partysdk.CreatePartyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	in := service.PartyInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		DateTime:     req.DateTime,
		MaxAttendees: req.MaxAttendees,
	}
	if req.Payment != nil {
		in.Payment = domain.PaymentRequirement{
			Required:    req.Payment.Required,
			Amount:      req.Payment.Amount,
			Recipient:   req.Payment.Recipient,
			Description: req.Payment.Description,
		}
	}

	p, err := h.PartyService.Create(r.Context(), viewer(r), in)
	if err != nil {
		writeServiceError(w, r, err, "create party")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, h.view(p, r))
}

// HandleList handles GET /v1/parties
//
//	@Summary		List parties at a university
//	@Description	Lists parties soonest first. Defaults to the caller's own university.
//	@Tags			Parties
//	@Produce		json
//	@Security		BearerAuth
//	@Param			university	query		string					false	"University name"
//	@Success		200			{object}	partysdk.PartyList		"parties"
//	@Failure		401			{object}	partysdk.ErrorResponse	"missing or invalid token"
//	@Router			/v1/parties [get].
func (h *PartyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	university := r.URL.Query().Get("university")
	if university == "" {
		university = viewer(r).University
	}

	parties, err := h.PartyService.ListByUniversity(r.Context(), university)
	if err != nil {
		writeServiceError(w, r, err, "list parties")
		return
	}

	h.writeList(w, r, parties)
}

// HandleHosted handles GET /v1/parties/hosted
//
//	@Summary		List hosted parties
//	@Tags			Parties
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.PartyList		"parties"
//	@Failure		401	{object}	partysdk.ErrorResponse	"missing or invalid token"
//	@Router			/v1/parties/hosted [get].
func (h *PartyHandler) HandleHosted(w http.ResponseWriter, r *http.Request) {
	parties, err := h.PartyService.ListHostedBy(r.Context(), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "list hosted parties")
		return
	}

	h.writeList(w, r, parties)
}

// HandleJoined handles GET /v1/parties/joined
//
//	@Summary		List joined parties
//	@Description	Lists every party the caller attends, hosted ones included.
//	@Tags			Parties
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.PartyList		"parties"
//	@Failure		401	{object}	partysdk.ErrorResponse	"missing or invalid token"
//	@Failure		404	{object}	partysdk.ErrorResponse	"account no longer exists"
//	@Router			/v1/parties/joined [get].
func (h *PartyHandler) HandleJoined(w http.ResponseWriter, r *http.Request) {
	parties, err := h.PartyService.ListJoinedBy(r.Context(), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "list joined parties")
		return
	}

	h.writeList(w, r, parties)
}

// HandleGet handles GET /v1/parties/{id}
//
//	@Summary		Get party
//	@Tags			Parties
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PartyView		"The party"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id} [get].
func (h *PartyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.PartyService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get party")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.view(p, r))
}

// HandleUpdate handles PATCH /v1/parties/{id}
//
//	@Summary		Update party
//	@Description	Host only. Omitted fields are left alone; capacity cannot drop below the current attendee count.
//	@Tags			Parties
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Party ID"
//	@Param			request	body		partysdk.UpdatePartyRequest	true	"Fields to change"
//	@Success		200		{object}	partysdk.PartyView			"The updated party"
//	@Failure		400		{object}	partysdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	partysdk.ErrorResponse		"not the host"
//	@Failure		404		{object}	partysdk.ErrorResponse		"not found"
//	@Router			/v1/parties/{id} [patch].
func (h *PartyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req partysdk.UpdatePartyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.PartyService.Update(r.Context(), viewer(r), r.PathValue("id"), domain.PartyPatch{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		DateTime:     req.DateTime,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		writeServiceError(w, r, err, "update party")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.view(p, r))
}

// HandleJoin handles POST /v1/parties/{id}/join
//
//	@Summary		Join party
//	@Description	Adds the caller to the party. Joining twice is not an error.
//	@Description	Paid parties require a payment first; the 402 body carries the payment instructions.
//	@Tags			Membership
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PartyView		"The party after joining"
//	@Failure		402	{object}	partysdk.ErrorResponse	"payment_required, with payment"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Failure		409	{object}	partysdk.ErrorResponse	"party_full"
//	@Router			/v1/parties/{id}/join [post].
func (h *PartyHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	res, err := h.MembershipService.Join(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "join party")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.view(res.Party, r))
}

// HandleLeave handles POST /v1/parties/{id}/leave
//
//	@Summary		Leave party
//	@Description	Removes the caller from the party. The host cannot leave; leaving a party you are not in is a no-op.
//	@Tags			Membership
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PartyView		"The party after leaving"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Failure		409	{object}	partysdk.ErrorResponse	"host_cannot_leave"
//	@Router			/v1/parties/{id}/leave [post].
func (h *PartyHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.MembershipService.Leave(ctx, id, viewer(r)); err != nil {
		writeServiceError(w, r, err, "leave party")
		return
	}

	p, err := h.PartyService.Get(ctx, id)
	if err != nil {
		writeServiceError(w, r, err, "get party")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.view(p, r))
}
