package http

import (
	"net/http"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// PaymentHandler handles the payment gate.
type PaymentHandler struct {
	PaymentService *service.PaymentService
}

// HandleStatus handles GET /v1/parties/{id}/payment
//
//	@Summary		Payment status
//	@Description	Returns the caller's payment record for the party and whether it satisfies the join gate.
//	@Tags			Payments
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PaymentStatus	"required, payment, is_paid, satisfied"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/payment [get].
func (h *PaymentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	check, err := h.PaymentService.CheckPaymentStatus(r.Context(), r.PathValue("id"), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "check payment status")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPaymentStatus(check))
}

// HandleSubmit handles POST /v1/parties/{id}/payment
//
//	@Summary		Submit payment reference
//	@Description	Records that the caller paid the host out of band. Submitting again replaces the reference.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Party ID"
//	@Param			request	body		partysdk.SubmitPaymentRequest	true	"reference"
//	@Success		200		{object}	partysdk.PaymentRecord			"The stored record"
//	@Failure		400		{object}	partysdk.ErrorResponse			"missing reference"
//	@Failure		404		{object}	partysdk.ErrorResponse			"not found"
//	@Failure		409		{object}	partysdk.ErrorResponse			"party does not require payment"
//	@Router			/v1/parties/{id}/payment [post].
func (h *PaymentHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req partysdk.SubmitPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rec, err := h.PaymentService.SubmitPaymentReference(r.Context(), r.PathValue("id"), viewer(r), req.Reference)
	if err != nil {
		writeServiceError(w, r, err, "submit payment")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPaymentRecord(rec))
}

// HandleList handles GET /v1/parties/{id}/payments
//
//	@Summary		List payments
//	@Description	Host only.
//	@Tags			Payments
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PaymentList	"payments"
//	@Failure		403	{object}	partysdk.ErrorResponse	"not the host"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/payments [get].
func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.PaymentService.ListPayments(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "list payments")
		return
	}

	out := partysdk.PaymentList{Payments: make([]partysdk.PaymentRecord, len(records))}
	for i, rec := range records {
		out.Payments[i] = toPaymentRecord(rec)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleConfirm handles POST /v1/parties/{id}/payments/{userID}/confirm
//
//	@Summary		Confirm payment
//	@Description	Host only. Marks an attendee's submitted payment as received.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Party ID"
//	@Param			userID	path	string	true	"Payer's user ID"
//	@Success		204
//	@Failure		403	{object}	partysdk.ErrorResponse	"not the host"
//	@Failure		404	{object}	partysdk.ErrorResponse	"party or payment not found"
//	@Router			/v1/parties/{id}/payments/{userID}/confirm [post].
func (h *PaymentHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	err := h.PaymentService.ConfirmPayment(r.Context(), r.PathValue("id"), viewer(r), r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, r, err, "confirm payment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
