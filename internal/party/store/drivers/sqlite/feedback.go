package sqlite

import (
	"context"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type feedbackRepo struct {
	q DBTX
}

const feedbackSelect = `SELECT f.id, f.party_id, f.user_id, f.rating, f.comment, f.is_anonymous, f.created_at FROM feedback f`

func (r *feedbackRepo) list(ctx context.Context, query string, args ...any) ([]domain.Feedback, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Feedback{}
	for rows.Next() {
		var (
			f         domain.Feedback
			createdAt int64
		)
		if err := rows.Scan(&f.ID, &f.PartyID, &f.UserID, &f.Rating, &f.Comment, &f.IsAnonymous, &createdAt); err != nil {
			return nil, err
		}
		f.CreatedAt = fromMS(createdAt)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *feedbackRepo) CreateFeedback(ctx context.Context, f domain.Feedback) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO feedback (id, party_id, user_id, rating, comment, is_anonymous, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.PartyID, f.UserID, f.Rating, f.Comment, boolInt(f.IsAnonymous), ms(f.CreatedAt),
	)
	return mapWriteErr(err)
}

func (r *feedbackRepo) ListFeedback(ctx context.Context, partyID string) ([]domain.Feedback, error) {
	return r.list(ctx, feedbackSelect+` WHERE f.party_id = ? ORDER BY f.created_at DESC, f.id DESC`, partyID)
}

func (r *feedbackRepo) HasFeedback(ctx context.Context, partyID, userID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feedback WHERE party_id = ? AND user_id = ?`, partyID, userID,
	).Scan(&n)
	return n > 0, err
}

func (r *feedbackRepo) ListFeedbackForHost(ctx context.Context, hostID string) ([]domain.Feedback, error) {
	return r.list(ctx, feedbackSelect+`
JOIN parties p ON p.id = f.party_id
WHERE p.host_id = ?
ORDER BY f.created_at DESC, f.id DESC`, hostID)
}
