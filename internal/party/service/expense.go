package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

var (
	ErrPoolNotFound       = errors.New("expense pool not found")
	ErrPoolSettled        = errors.New("expense pool is settled")
	ErrCreatorCannotLeave = errors.New("pool creator cannot leave")
	ErrNotParticipant     = errors.New("not a participant of this pool")
	ErrInvalidPool        = errors.New("invalid expense pool")
	ErrInvalidExpense     = errors.New("invalid expense")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrNotInSplit         = errors.New("expense is not split with you")
)

type PoolInput struct {
	Name          string
	Description   string
	TotalAmount   float64
	PaymentHandle string
	Participants  []string
}

type ExpenseInput struct {
	Description string
	Amount      float64
	PaidBy      string   // defaults to the caller
	SplitWith   []string // defaults to every participant
}

// ExpenseService splits party costs between pool participants.
type ExpenseService struct {
	Store store.Store
}

// CreatePool opens a pool on a party. The creator is always a participant.
func (s *ExpenseService) CreatePool(ctx context.Context, partyID string, viewer domain.Identity, in PoolInput) (domain.ExpensePool, error) {
	log := slogx.FromContext(ctx)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ExpensePool{}, fmt.Errorf("%w: name is required", ErrInvalidPool)
	}
	if in.TotalAmount < 0 {
		return domain.ExpensePool{}, fmt.Errorf("%w: total_amount cannot be negative", ErrInvalidPool)
	}

	if _, err := requireAttendee(ctx, s.Store, partyID, viewer.UserID); err != nil {
		return domain.ExpensePool{}, err
	}

	now := time.Now().UTC()
	pool := domain.ExpensePool{
		ID:            idx.New().String(),
		PartyID:       partyID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		TotalAmount:   in.TotalAmount,
		CreatorID:     viewer.UserID,
		Participants:  dedupe(append([]string{viewer.UserID}, in.Participants...)),
		PaymentHandle: strings.TrimSpace(in.PaymentHandle),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Pools().CreatePool(ctx, pool)
	}); err != nil {
		log.Error("failed to create pool", slog.String("party_id", partyID), slog.Any("error", err))
		return domain.ExpensePool{}, err
	}

	log.Info("expense pool created",
		slog.String("pool_id", pool.ID),
		slog.String("party_id", partyID),
		slog.Int("participants", len(pool.Participants)),
	)
	return s.getPool(ctx, s.Store, pool.ID)
}

// ListPools returns the party's pools.
func (s *ExpenseService) ListPools(ctx context.Context, partyID string) ([]domain.ExpensePool, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return nil, err
	}
	return s.Store.Pools().ListPools(ctx, partyID)
}

// JoinPool adds viewer to an unsettled pool. Joining twice is a no-op.
func (s *ExpenseService) JoinPool(ctx context.Context, poolID string, viewer domain.Identity) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		pool, err := s.getPool(ctx, tx, poolID)
		if err != nil {
			return err
		}
		if pool.IsSettled {
			return ErrPoolSettled
		}
		return tx.Pools().AddParticipant(ctx, poolID, viewer.UserID, time.Now().UTC())
	})
}

// LeavePool removes viewer from an unsettled pool. The creator stays.
func (s *ExpenseService) LeavePool(ctx context.Context, poolID string, viewer domain.Identity) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		pool, err := s.getPool(ctx, tx, poolID)
		if err != nil {
			return err
		}
		if pool.IsSettled {
			return ErrPoolSettled
		}
		if pool.CreatorID == viewer.UserID {
			return ErrCreatorCannotLeave
		}
		return tx.Pools().RemoveParticipant(ctx, poolID, viewer.UserID)
	})
}

// SettlePool closes the pool. Creator only.
func (s *ExpenseService) SettlePool(ctx context.Context, poolID string, viewer domain.Identity) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		pool, err := s.getPool(ctx, tx, poolID)
		if err != nil {
			return err
		}
		if pool.CreatorID != viewer.UserID {
			return ErrPermissionDenied
		}
		if pool.IsSettled {
			return ErrPoolSettled
		}
		return tx.Pools().SettlePool(ctx, poolID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	log.Info("expense pool settled", slog.String("pool_id", poolID))
	return nil
}

// AddExpense records a payment into the pool.
func (s *ExpenseService) AddExpense(ctx context.Context, poolID string, viewer domain.Identity, in ExpenseInput) (domain.Expense, error) {
	log := slogx.FromContext(ctx)

	if in.Amount <= 0 {
		return domain.Expense{}, fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.Expense{}, fmt.Errorf("%w: description is required", ErrInvalidExpense)
	}

	var out domain.Expense
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		pool, err := s.getPool(ctx, tx, poolID)
		if err != nil {
			return err
		}
		if pool.IsSettled {
			return ErrPoolSettled
		}
		if !pool.HasParticipant(viewer.UserID) {
			return ErrNotParticipant
		}

		payer := in.PaidBy
		if payer == "" {
			payer = viewer.UserID
		}
		if !pool.HasParticipant(payer) {
			return fmt.Errorf("%w: payer is not a participant", ErrInvalidExpense)
		}

		split := dedupe(in.SplitWith)
		if len(split) == 0 {
			split = pool.Participants
		}
		for _, u := range split {
			if !pool.HasParticipant(u) {
				return fmt.Errorf("%w: %s is not a participant", ErrInvalidExpense, u)
			}
		}

		e := domain.Expense{
			ID:          idx.New().String(),
			PoolID:      poolID,
			PartyID:     pool.PartyID,
			Description: strings.TrimSpace(in.Description),
			Amount:      in.Amount,
			PaidBy:      payer,
			SplitWith:   split,
			SettledBy:   []string{},
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Expenses().CreateExpense(ctx, e); err != nil {
			return err
		}
		out, err = tx.Expenses().GetExpense(ctx, e.ID)
		return err
	})
	if err != nil {
		return domain.Expense{}, err
	}

	log.Info("expense added",
		slog.String("expense_id", out.ID),
		slog.String("pool_id", poolID),
		slog.Float64("amount", out.Amount),
	)
	return out, nil
}

// ListExpenses returns the pool's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, poolID string) ([]domain.Expense, error) {
	if _, err := s.getPool(ctx, s.Store, poolID); err != nil {
		return nil, err
	}
	return s.Store.Expenses().ListExpenses(ctx, poolID)
}

// ExpensesToSettle returns the expenses userID still owes a share of.
func (s *ExpenseService) ExpensesToSettle(ctx context.Context, userID string) ([]domain.Expense, error) {
	return s.Store.Expenses().ListUnsettledFor(ctx, userID)
}

// PaidExpenses returns the expenses userID paid for.
func (s *ExpenseService) PaidExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	return s.Store.Expenses().ListPaidBy(ctx, userID)
}

// SettleExpense marks viewer's share as settled. Repeating it is harmless.
func (s *ExpenseService) SettleExpense(ctx context.Context, expenseID string, viewer domain.Identity) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Expenses().GetExpense(ctx, expenseID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}
		err := tx.Expenses().MarkSplitSettled(ctx, expenseID, viewer.UserID, time.Now().UTC())
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotInSplit
		}
		return err
	})
}

// Balances returns who paid what in the pool and how to even it out.
func (s *ExpenseService) Balances(ctx context.Context, poolID string) (domain.PoolBalances, error) {
	pool, err := s.getPool(ctx, s.Store, poolID)
	if err != nil {
		return domain.PoolBalances{}, err
	}
	expenses, err := s.Store.Expenses().ListExpenses(ctx, poolID)
	if err != nil {
		return domain.PoolBalances{}, err
	}

	b := CalculateBalances(pool.Participants, expenses)
	b.PoolID = poolID
	return b, nil
}

func (s *ExpenseService) getPool(ctx context.Context, q store.Store, poolID string) (domain.ExpensePool, error) {
	pool, err := q.Pools().GetPool(ctx, poolID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ExpensePool{}, ErrPoolNotFound
	}
	return pool, err
}
