package http

import (
	"net/http"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// ExpenseHandler handles expense pools and their expenses.
type ExpenseHandler struct {
	ExpenseService *service.ExpenseService
}

// HandleListPools handles GET /v1/parties/{id}/pools
//
//	@Summary		List expense pools
//	@Tags			Expenses
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PoolList		"pools"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/pools [get].
func (h *ExpenseHandler) HandleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.ExpenseService.ListPools(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list pools")
		return
	}

	out := partysdk.PoolList{Pools: make([]partysdk.Pool, len(pools))}
	for i, p := range pools {
		out.Pools[i] = toPool(p)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreatePool handles POST /v1/parties/{id}/pools
//
//	@Summary		Create expense pool
//	@Description	Attendees only. The creator is always a participant.
//	@Tags			Expenses
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Party ID"
//	@Param			request	body		partysdk.PoolRequest	true	"Pool details"
//	@Success		201		{object}	partysdk.Pool			"The new pool"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	partysdk.ErrorResponse	"not an attendee"
//	@Router			/v1/parties/{id}/pools [post].
func (h *ExpenseHandler) HandleCreatePool(w http.ResponseWriter, r *http.Request) {
	var req partysdk.PoolRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	pool, err := h.ExpenseService.CreatePool(r.Context(), r.PathValue("id"), viewer(r), service.PoolInput{
		Name:          req.Name,
		Description:   req.Description,
		TotalAmount:   req.TotalAmount,
		PaymentHandle: req.PaymentHandle,
		Participants:  req.Participants,
	})
	if err != nil {
		writeServiceError(w, r, err, "create pool")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPool(pool))
}

// HandleJoinPool handles POST /v1/pools/{id}/join
//
//	@Summary		Join expense pool
//	@Tags			Expenses
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Pool ID"
//	@Success		204
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Failure		409	{object}	partysdk.ErrorResponse	"pool settled"
//	@Router			/v1/pools/{id}/join [post].
func (h *ExpenseHandler) HandleJoinPool(w http.ResponseWriter, r *http.Request) {
	if err := h.ExpenseService.JoinPool(r.Context(), r.PathValue("id"), viewer(r)); err != nil {
		writeServiceError(w, r, err, "join pool")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLeavePool handles POST /v1/pools/{id}/leave
//
//	@Summary		Leave expense pool
//	@Tags			Expenses
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Pool ID"
//	@Success		204
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Failure		409	{object}	partysdk.ErrorResponse	"creator cannot leave or pool settled"
//	@Router			/v1/pools/{id}/leave [post].
func (h *ExpenseHandler) HandleLeavePool(w http.ResponseWriter, r *http.Request) {
	if err := h.ExpenseService.LeavePool(r.Context(), r.PathValue("id"), viewer(r)); err != nil {
		writeServiceError(w, r, err, "leave pool")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSettlePool handles POST /v1/pools/{id}/settle
//
//	@Summary		Settle expense pool
//	@Description	Creator only. A settled pool accepts no further changes.
//	@Tags			Expenses
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Pool ID"
//	@Success		204
//	@Failure		403	{object}	partysdk.ErrorResponse	"not the creator"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/pools/{id}/settle [post].
func (h *ExpenseHandler) HandleSettlePool(w http.ResponseWriter, r *http.Request) {
	if err := h.ExpenseService.SettlePool(r.Context(), r.PathValue("id"), viewer(r)); err != nil {
		writeServiceError(w, r, err, "settle pool")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListExpenses handles GET /v1/pools/{id}/expenses
//
//	@Summary		List expenses
//	@Tags			Expenses
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Pool ID"
//	@Success		200	{object}	partysdk.ExpenseList	"expenses, newest first"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/pools/{id}/expenses [get].
func (h *ExpenseHandler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ExpenseService.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list expenses")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseList(expenses))
}

// HandleAddExpense handles POST /v1/pools/{id}/expenses
//
//	@Summary		Add expense
//	@Description	Participants only. paid_by defaults to the caller and split_with to every participant.
//	@Tags			Expenses
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Pool ID"
//	@Param			request	body		partysdk.ExpenseRequest	true	"Expense details"
//	@Success		201		{object}	partysdk.Expense		"The new expense"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	partysdk.ErrorResponse	"not a participant"
//	@Router			/v1/pools/{id}/expenses [post].
func (h *ExpenseHandler) HandleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req partysdk.ExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	e, err := h.ExpenseService.AddExpense(r.Context(), r.PathValue("id"), viewer(r), service.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		SplitWith:   req.SplitWith,
	})
	if err != nil {
		writeServiceError(w, r, err, "add expense")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toExpense(e))
}

// HandleBalances handles GET /v1/pools/{id}/balances
//
//	@Summary		Pool balances
//	@Description	Fair share per participant and the transfers that settle the pool.
//	@Tags			Expenses
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Pool ID"
//	@Success		200	{object}	partysdk.PoolBalances	"balances and transfers"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/pools/{id}/balances [get].
func (h *ExpenseHandler) HandleBalances(w http.ResponseWriter, r *http.Request) {
	b, err := h.ExpenseService.Balances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "compute balances")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPoolBalances(b))
}

// HandleSettleExpense handles POST /v1/expenses/{id}/settle
//
//	@Summary		Settle my share
//	@Description	Marks the caller's share of an expense as paid. Idempotent.
//	@Tags			Expenses
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Expense ID"
//	@Success		204
//	@Failure		403	{object}	partysdk.ErrorResponse	"not in the split"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/expenses/{id}/settle [post].
func (h *ExpenseHandler) HandleSettleExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.ExpenseService.SettleExpense(r.Context(), r.PathValue("id"), viewer(r)); err != nil {
		writeServiceError(w, r, err, "settle expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToSettle handles GET /v1/expenses/to-settle
//
//	@Summary		Expenses I owe
//	@Tags			Expenses
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.ExpenseList	"expenses"
//	@Router			/v1/expenses/to-settle [get].
func (h *ExpenseHandler) HandleToSettle(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ExpenseService.ExpensesToSettle(r.Context(), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "list expenses to settle")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseList(expenses))
}

// HandlePaid handles GET /v1/expenses/paid
//
//	@Summary		Expenses I paid
//	@Tags			Expenses
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.ExpenseList	"expenses"
//	@Router			/v1/expenses/paid [get].
func (h *ExpenseHandler) HandlePaid(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ExpenseService.PaidExpenses(r.Context(), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "list paid expenses")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseList(expenses))
}
