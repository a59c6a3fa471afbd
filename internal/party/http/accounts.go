package http

import (
	"net/http"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// AccountHandler handles registration, login and the caller's profile.
type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleRegister handles POST /v1/accounts/register
//
//	@Summary		Register
//	@Description	Creates a student account. The email must be a .edu address; the university is derived from its domain.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		partysdk.RegisterRequest	true	"username, email, password"
//	@Success		201		{object}	partysdk.Profile			"The new account"
//	@Failure		400		{object}	partysdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	partysdk.ErrorResponse		"username or email already taken"
//	@Failure		429		{object}	partysdk.ErrorResponse		"rate limited"
//	@Router			/v1/accounts/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req partysdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, err := h.AccountService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "register account")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProfile(user))
}

// HandleLogin handles POST /v1/accounts/login
//
//	@Summary		Login
//	@Description	Exchanges a username (or email) and password for an access token. There is no refresh token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		partysdk.LoginRequest	true	"username or email, password"
//	@Success		200		{object}	partysdk.TokenResponse	"access_token, expires_in, user"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	partysdk.ErrorResponse	"invalid credentials"
//	@Failure		429		{object}	partysdk.ErrorResponse	"rate limited"
//	@Router			/v1/accounts/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req partysdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	pair, err := h.AccountService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, partysdk.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
		ExpiresAt:   pair.ExpiresAt,
		User:        toProfile(pair.User),
	})
}

// HandleMe handles GET /v1/accounts/me
//
//	@Summary		Get profile
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.Profile		"The caller's profile"
//	@Failure		401	{object}	partysdk.ErrorResponse	"missing or invalid token"
//	@Failure		404	{object}	partysdk.ErrorResponse	"account no longer exists"
//	@Router			/v1/accounts/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.AccountService.Profile(r.Context(), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfile(user))
}

// HandlePaymentHandle handles PUT /v1/accounts/me/payment-handle
//
//	@Summary		Set payment handle
//	@Description	Sets the handle attendees pay the caller through when they host a paid party.
//	@Tags			Accounts
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	partysdk.PaymentHandleRequest	true	"payment_handle"
//	@Success		204
//	@Failure		400	{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		401	{object}	partysdk.ErrorResponse	"missing or invalid token"
//	@Router			/v1/accounts/me/payment-handle [put].
func (h *AccountHandler) HandlePaymentHandle(w http.ResponseWriter, r *http.Request) {
	var req partysdk.PaymentHandleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.AccountService.UpdatePaymentHandle(r.Context(), viewer(r).UserID, req.PaymentHandle); err != nil {
		writeServiceError(w, r, err, "update payment handle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
