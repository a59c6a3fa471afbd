package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type paymentsRepo struct {
	q DBTX
}

const paymentSelect = `
SELECT pm.party_id, pm.user_id, COALESCE(u.username, ''), pm.reference, pm.is_paid, pm.status,
       pm.submitted_at, pm.confirmed_at, pm.confirmed_by
FROM payments pm
LEFT JOIN users u ON u.id = pm.user_id`

func scanPayment(row rowScanner) (domain.PaymentRecord, error) {
	var (
		rec         domain.PaymentRecord
		status      string
		submittedAt int64
		confirmedAt sql.NullInt64
		confirmedBy sql.NullString
	)
	if err := row.Scan(&rec.PartyID, &rec.UserID, &rec.Username, &rec.Reference, &rec.IsPaid, &status,
		&submittedAt, &confirmedAt, &confirmedBy); err != nil {
		return domain.PaymentRecord{}, mapNotFound(err)
	}
	rec.Status = domain.PaymentStatus(status)
	rec.SubmittedAt = fromMS(submittedAt)
	rec.ConfirmedAt = fromNullMS(confirmedAt)
	rec.ConfirmedBy = mapNullString(confirmedBy)
	return rec, nil
}

func (r *paymentsRepo) GetPayment(ctx context.Context, partyID, userID string) (domain.PaymentRecord, error) {
	return scanPayment(r.q.QueryRowContext(ctx,
		paymentSelect+` WHERE pm.party_id = ? AND pm.user_id = ?`, partyID, userID))
}

func (r *paymentsRepo) UpsertPayment(ctx context.Context, rec domain.PaymentRecord) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO payments (party_id, user_id, reference, is_paid, status, submitted_at, confirmed_at, confirmed_by)
VALUES (?, ?, ?, ?, ?, ?, NULL, NULL)
ON CONFLICT (party_id, user_id) DO UPDATE SET
    reference    = excluded.reference,
    is_paid      = excluded.is_paid,
    status       = excluded.status,
    submitted_at = excluded.submitted_at,
    confirmed_at = NULL,
    confirmed_by = NULL`,
		rec.PartyID, rec.UserID, rec.Reference, boolInt(rec.IsPaid), string(rec.Status), ms(rec.SubmittedAt),
	)
	return err
}

func (r *paymentsRepo) ConfirmPayment(ctx context.Context, partyID, userID, confirmedBy string, at time.Time) error {
	return requireRow(r.q.ExecContext(ctx, `
UPDATE payments SET status = ?, confirmed_at = ?, confirmed_by = ?
WHERE party_id = ? AND user_id = ?`,
		string(domain.PaymentConfirmed), ms(at), confirmedBy, partyID, userID,
	))
}

func (r *paymentsRepo) ListPayments(ctx context.Context, partyID string) ([]domain.PaymentRecord, error) {
	rows, err := r.q.QueryContext(ctx,
		paymentSelect+` WHERE pm.party_id = ? ORDER BY pm.submitted_at ASC`, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PaymentRecord{}
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
