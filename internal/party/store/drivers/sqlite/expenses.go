package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type poolsRepo struct {
	q DBTX
}

const poolSelect = `
SELECT ep.id, ep.party_id, ep.name, ep.description, ep.total_amount, ep.creator_id,
       COALESCE((SELECT group_concat(pp.user_id, ' ') FROM pool_participants pp WHERE pp.pool_id = ep.id), ''),
       ep.payment_handle, ep.is_active, ep.is_settled, ep.created_at, ep.updated_at
FROM expense_pools ep`

func scanPool(row rowScanner) (domain.ExpensePool, error) {
	var (
		p                    domain.ExpensePool
		participants         string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.PartyID, &p.Name, &p.Description, &p.TotalAmount, &p.CreatorID,
		&participants, &p.PaymentHandle, &p.IsActive, &p.IsSettled, &createdAt, &updatedAt); err != nil {
		return domain.ExpensePool{}, mapNotFound(err)
	}
	p.Participants = splitIDs(participants)
	p.CreatedAt = fromMS(createdAt)
	p.UpdatedAt = fromMS(updatedAt)
	return p, nil
}

func (r *poolsRepo) CreatePool(ctx context.Context, p domain.ExpensePool) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO expense_pools (id, party_id, name, description, total_amount, creator_id, payment_handle,
                           is_active, is_settled, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.PartyID, p.Name, p.Description, p.TotalAmount, p.CreatorID, p.PaymentHandle,
		boolInt(p.IsActive), boolInt(p.IsSettled), ms(p.CreatedAt), ms(p.UpdatedAt),
	)
	if err != nil {
		return mapWriteErr(err)
	}
	for _, uid := range p.Participants {
		if err := r.AddParticipant(ctx, p.ID, uid, p.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *poolsRepo) GetPool(ctx context.Context, id string) (domain.ExpensePool, error) {
	return scanPool(r.q.QueryRowContext(ctx, poolSelect+` WHERE ep.id = ?`, id))
}

func (r *poolsRepo) ListPools(ctx context.Context, partyID string) ([]domain.ExpensePool, error) {
	rows, err := r.q.QueryContext(ctx,
		poolSelect+` WHERE ep.party_id = ? ORDER BY ep.created_at DESC, ep.id DESC`, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ExpensePool{}
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddParticipant is idempotent.
func (r *poolsRepo) AddParticipant(ctx context.Context, poolID, userID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO pool_participants (pool_id, user_id, joined_at) VALUES (?, ?, ?)`,
		poolID, userID, ms(at))
	return err
}

func (r *poolsRepo) RemoveParticipant(ctx context.Context, poolID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM pool_participants WHERE pool_id = ? AND user_id = ?`, poolID, userID)
	return err
}

func (r *poolsRepo) SettlePool(ctx context.Context, poolID string, at time.Time) error {
	return requireRow(r.q.ExecContext(ctx,
		`UPDATE expense_pools SET is_settled = 1, is_active = 0, updated_at = ? WHERE id = ?`,
		ms(at), poolID))
}

type expensesRepo struct {
	q DBTX
}

const expenseSelect = `
SELECT e.id, e.pool_id, e.party_id, e.description, e.amount, e.paid_by,
       COALESCE((SELECT group_concat(s.user_id, ' ') FROM expense_splits s WHERE s.expense_id = e.id), ''),
       COALESCE((SELECT group_concat(s.user_id, ' ') FROM expense_splits s
                 WHERE s.expense_id = e.id AND s.settled_at IS NOT NULL), ''),
       e.created_at
FROM expenses e`

func scanExpense(row rowScanner) (domain.Expense, error) {
	var (
		e                  domain.Expense
		splitWith, settled string
		createdAt          int64
	)
	if err := row.Scan(&e.ID, &e.PoolID, &e.PartyID, &e.Description, &e.Amount, &e.PaidBy,
		&splitWith, &settled, &createdAt); err != nil {
		return domain.Expense{}, mapNotFound(err)
	}
	e.SplitWith = splitIDs(splitWith)
	e.SettledBy = splitIDs(settled)
	e.CreatedAt = fromMS(createdAt)
	return e, nil
}

func (r *expensesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *expensesRepo) CreateExpense(ctx context.Context, e domain.Expense) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO expenses (id, pool_id, party_id, description, amount, paid_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PoolID, e.PartyID, e.Description, e.Amount, e.PaidBy, ms(e.CreatedAt),
	)
	if err != nil {
		return mapWriteErr(err)
	}
	for _, uid := range e.SplitWith {
		if _, err := r.q.ExecContext(ctx,
			`INSERT OR IGNORE INTO expense_splits (expense_id, user_id, settled_at) VALUES (?, ?, NULL)`,
			e.ID, uid); err != nil {
			return err
		}
	}
	return nil
}

func (r *expensesRepo) GetExpense(ctx context.Context, id string) (domain.Expense, error) {
	return scanExpense(r.q.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, id))
}

func (r *expensesRepo) ListExpenses(ctx context.Context, poolID string) ([]domain.Expense, error) {
	return r.list(ctx, expenseSelect+` WHERE e.pool_id = ? ORDER BY e.created_at DESC, e.id DESC`, poolID)
}

func (r *expensesRepo) ListUnsettledFor(ctx context.Context, userID string) ([]domain.Expense, error) {
	return r.list(ctx, expenseSelect+`
JOIN expense_splits me ON me.expense_id = e.id AND me.user_id = ?
WHERE e.paid_by <> ? AND me.settled_at IS NULL
ORDER BY e.created_at DESC, e.id DESC`, userID, userID)
}

func (r *expensesRepo) ListPaidBy(ctx context.Context, userID string) ([]domain.Expense, error) {
	return r.list(ctx, expenseSelect+` WHERE e.paid_by = ? ORDER BY e.created_at DESC, e.id DESC`, userID)
}

// MarkSplitSettled keeps the first settlement time on repeat calls.
func (r *expensesRepo) MarkSplitSettled(ctx context.Context, expenseID, userID string, at time.Time) error {
	return requireRow(r.q.ExecContext(ctx, `
UPDATE expense_splits SET settled_at = COALESCE(settled_at, ?)
WHERE expense_id = ? AND user_id = ?`,
		ms(at), expenseID, userID))
}
