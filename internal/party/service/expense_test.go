package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpensePools(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &ExpenseService{Store: s}
	members := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	a := seedUser(t, s, "alice")
	b := seedUser(t, s, "bob")
	p := seedParty(t, s, host, PartyInput{})
	_, err := members.Join(ctx, p.ID, a)
	require.NoError(t, err)

	_, err = svc.CreatePool(ctx, p.ID, b, PoolInput{Name: "snacks"})
	require.ErrorIs(t, err, ErrNotAttendee)

	_, err = svc.CreatePool(ctx, p.ID, host, PoolInput{})
	require.ErrorIs(t, err, ErrInvalidPool)

	pool, err := svc.CreatePool(ctx, p.ID, host, PoolInput{Name: "snacks", Participants: []string{a.UserID, host.UserID}})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{host.UserID, a.UserID}, pool.Participants)
	require.True(t, pool.IsActive)

	require.NoError(t, svc.JoinPool(ctx, pool.ID, b))
	require.NoError(t, svc.JoinPool(ctx, pool.ID, b), "joining twice is a no-op")
	require.ErrorIs(t, svc.LeavePool(ctx, pool.ID, host), ErrCreatorCannotLeave)

	_, err = svc.AddExpense(ctx, pool.ID, host, ExpenseInput{Description: "chips", Amount: 0})
	require.ErrorIs(t, err, ErrInvalidExpense)

	chips, err := svc.AddExpense(ctx, pool.ID, host, ExpenseInput{Description: "chips", Amount: 30})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{host.UserID, a.UserID, b.UserID}, chips.SplitWith)
	require.Empty(t, chips.SettledBy)

	soda, err := svc.AddExpense(ctx, pool.ID, a, ExpenseInput{Description: "soda", Amount: 12, SplitWith: []string{a.UserID, b.UserID}})
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, pool.ID, a, ExpenseInput{Description: "x", Amount: 1, SplitWith: []string{"stranger"}})
	require.ErrorIs(t, err, ErrInvalidExpense)

	list, err := svc.ListExpenses(ctx, pool.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	toSettle, err := svc.ExpensesToSettle(ctx, b.UserID)
	require.NoError(t, err)
	require.Len(t, toSettle, 2)

	require.NoError(t, svc.SettleExpense(ctx, chips.ID, b))
	require.NoError(t, svc.SettleExpense(ctx, chips.ID, b), "settling twice is harmless")
	require.ErrorIs(t, svc.SettleExpense(ctx, soda.ID, host), ErrNotInSplit)
	require.ErrorIs(t, svc.SettleExpense(ctx, "missing", host), ErrExpenseNotFound)

	toSettle, err = svc.ExpensesToSettle(ctx, b.UserID)
	require.NoError(t, err)
	require.Len(t, toSettle, 1)
	require.Equal(t, soda.ID, toSettle[0].ID)

	paid, err := svc.PaidExpenses(ctx, a.UserID)
	require.NoError(t, err)
	require.Len(t, paid, 1)

	bal, err := svc.Balances(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, pool.ID, bal.PoolID)
	require.InDelta(t, 42, bal.Total, 0.001)
	require.InDelta(t, 14, bal.FairShare, 0.001)

	require.ErrorIs(t, svc.SettlePool(ctx, pool.ID, a), ErrPermissionDenied)
	require.NoError(t, svc.SettlePool(ctx, pool.ID, host))
	require.ErrorIs(t, svc.JoinPool(ctx, pool.ID, a), ErrPoolSettled)
	_, err = svc.AddExpense(ctx, pool.ID, host, ExpenseInput{Description: "late", Amount: 5})
	require.ErrorIs(t, err, ErrPoolSettled)

	pools, err := svc.ListPools(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.True(t, pools[0].IsSettled)
}
