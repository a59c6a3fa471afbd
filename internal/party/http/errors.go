package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors maps service sentinels to responses. Validation errors are
// wrapped with a reason, so their message is passed through as the
// description.
var serviceErrors = []errorMapping{
	{service.ErrPartyNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrUserNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrPaymentNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrDriverNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrRideNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrPoolNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrExpenseNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrPlaylistNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrSongNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrNoCurrentSong, http.StatusNotFound, partysdk.ErrorCodeNotFound},
	{service.ErrGameNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},

	{service.ErrPartyFull, http.StatusConflict, partysdk.ErrorCodePartyFull},
	{service.ErrHostCannotLeave, http.StatusConflict, partysdk.ErrorCodeHostCannotLeave},
	{service.ErrPartyOver, http.StatusConflict, partysdk.ErrorCodePartyOver},

	{service.ErrPermissionDenied, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},
	{service.ErrNotAttendee, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},
	{service.ErrNotParticipant, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},
	{service.ErrNotInSplit, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},
	{service.ErrHostCannotRate, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},

	{service.ErrUsernameTaken, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrEmailTaken, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrFeedbackExists, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrRideAlreadyRequested, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrRideNotPending, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrRideNotAccepted, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrDriverUnavailable, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrPoolSettled, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrCreatorCannotLeave, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrPartyNotOver, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrNotEnoughVotes, http.StatusConflict, partysdk.ErrorCodeConflict},
	{service.ErrPaymentNotRequired, http.StatusConflict, partysdk.ErrorCodeConflict},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, partysdk.ErrorCodeInvalidCredential},

	{service.ErrInvalidParty, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidUsername, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrNonEduEmail, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrWeakPassword, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidPaymentReference, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidDriver, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidRide, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidDrink, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidPool, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidExpense, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidRating, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidPlaylist, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidSong, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidGame, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
}

// writeServiceError translates err into a JSON error response. Anything
// unrecognised is logged and reported as a server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var payErr *service.PaymentRequiredError
	if errors.As(err, &payErr) {
		httpx.WriteJSON(w, http.StatusPaymentRequired, partysdk.ErrorResponse{
			Error:            partysdk.ErrorCodePaymentRequired,
			ErrorDescription: payErr.Error(),
			Payment:          toPaymentInstructions(payErr.Payment),
		})
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			httpx.WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error("failed to "+action, "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, partysdk.ErrorCodeServerError, "Failed to "+action)
}

// writeBadRequest reports a malformed request.
func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest, desc)
}
