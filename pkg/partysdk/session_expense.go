package partysdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreatePool opens an expense pool on a party.
func (s *Session) CreatePool(ctx context.Context, partyID string, req PoolRequest) (*Pool, error) {
	return authJSON[Pool](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/pools", req, http.StatusCreated)
}

// ListPools lists a party's active pools.
func (s *Session) ListPools(ctx context.Context, partyID string) (*PoolList, error) {
	return authJSON[PoolList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/pools", nil, http.StatusOK)
}

// JoinPool adds the caller to a pool.
func (s *Session) JoinPool(ctx context.Context, poolID string) error {
	return authNoContent(ctx, s, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/join", nil)
}

// LeavePool removes the caller from a pool.
func (s *Session) LeavePool(ctx context.Context, poolID string) error {
	return authNoContent(ctx, s, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/leave", nil)
}

// SettlePool closes a pool. Creator only.
func (s *Session) SettlePool(ctx context.Context, poolID string) error {
	return authNoContent(ctx, s, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/settle", nil)
}

// AddExpense records a shared cost in a pool.
func (s *Session) AddExpense(ctx context.Context, poolID string, req ExpenseRequest) (*Expense, error) {
	return authJSON[Expense](ctx, s, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/expenses", req, http.StatusCreated)
}

// ListExpenses lists a pool's expenses.
func (s *Session) ListExpenses(ctx context.Context, poolID string) (*ExpenseList, error) {
	return authJSON[ExpenseList](ctx, s, http.MethodGet, "/v1/pools/"+url.PathEscape(poolID)+"/expenses", nil, http.StatusOK)
}

// PoolBalances returns who owes whom in a pool.
func (s *Session) PoolBalances(ctx context.Context, poolID string) (*PoolBalances, error) {
	return authJSON[PoolBalances](ctx, s, http.MethodGet, "/v1/pools/"+url.PathEscape(poolID)+"/balances", nil, http.StatusOK)
}

// SettleExpense marks the caller's share of an expense as paid.
func (s *Session) SettleExpense(ctx context.Context, expenseID string) error {
	return authNoContent(ctx, s, http.MethodPost, "/v1/expenses/"+url.PathEscape(expenseID)+"/settle", nil)
}

// ExpensesToSettle lists expenses the caller still owes a share of.
func (s *Session) ExpensesToSettle(ctx context.Context) (*ExpenseList, error) {
	return authJSON[ExpenseList](ctx, s, http.MethodGet, "/v1/expenses/to-settle", nil, http.StatusOK)
}

// PaidExpenses lists expenses the caller paid for.
func (s *Session) PaidExpenses(ctx context.Context) (*ExpenseList, error) {
	return authJSON[ExpenseList](ctx, s, http.MethodGet, "/v1/expenses/paid", nil, http.StatusOK)
}
