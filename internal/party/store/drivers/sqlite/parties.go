package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
)

type partiesRepo struct {
	q DBTX
}

// partySelect reads a party with its host name and attendee set in a single
// query. %s is where an optional INDEXED BY or extra join goes.
const partySelect = `
SELECT p.id, p.title, p.description, p.location, p.date_time, p.max_attendees,
       p.university, p.host_id, u.username,
       COALESCE((SELECT group_concat(a.user_id, ' ') FROM party_attendees a WHERE a.party_id = p.id), ''),
       p.payment_required, p.payment_amount, p.payment_recipient, p.payment_description,
       p.created_at, p.updated_at
FROM %s
LEFT JOIN users u ON u.id = p.host_id`

func scanParty(row rowScanner) (domain.Party, error) {
	var (
		p                    domain.Party
		dateTime             int64
		hostName             sql.NullString
		attendees            string
		createdAt, updatedAt int64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Location, &dateTime, &p.MaxAttendees,
		&p.University, &p.HostID, &hostName, &attendees,
		&p.Payment.Required, &p.Payment.Amount, &p.Payment.Recipient, &p.Payment.Description,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Party{}, mapNotFound(err)
	}

	p.DateTime = fromMS(dateTime)
	p.HostName = mapNullString(hostName)
	if p.HostName == "" {
		p.HostName = domain.UnknownHost
	}
	p.Attendees = splitIDs(attendees)
	p.CreatedAt = fromMS(createdAt)
	p.UpdatedAt = fromMS(updatedAt)
	return p, nil
}

func (r *partiesRepo) queryParties(ctx context.Context, query string, args ...any) ([]domain.Party, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapIndexErr(err)
	}
	defer rows.Close()

	out := []domain.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapIndexErr(rows.Err())
}

func (r *partiesRepo) CreateParty(ctx context.Context, p domain.Party) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO parties (id, title, description, location, date_time, max_attendees, university, host_id,
                     payment_required, payment_amount, payment_recipient, payment_description,
                     created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Location, ms(p.DateTime), p.MaxAttendees, p.University, p.HostID,
		boolInt(p.Payment.Required), p.Payment.Amount, p.Payment.Recipient, p.Payment.Description,
		ms(p.CreatedAt), ms(p.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *partiesRepo) GetParty(ctx context.Context, id string) (domain.Party, error) {
	return scanParty(r.q.QueryRowContext(ctx,
		fmt.Sprintf(partySelect, "parties p")+` WHERE p.id = ?`, id))
}

func (r *partiesRepo) UpdateParty(ctx context.Context, p domain.Party) error {
	return requireRow(r.q.ExecContext(ctx, `
UPDATE parties
SET title = ?, description = ?, location = ?, date_time = ?, max_attendees = ?,
    payment_required = ?, payment_amount = ?, payment_recipient = ?, payment_description = ?,
    updated_at = ?
WHERE id = ?`,
		p.Title, p.Description, p.Location, ms(p.DateTime), p.MaxAttendees,
		boolInt(p.Payment.Required), p.Payment.Amount, p.Payment.Recipient, p.Payment.Description,
		ms(p.UpdatedAt), p.ID,
	))
}

// AddAttendee checks capacity and inserts in one statement. With a single
// connection pool no other writer can interleave between the count and the
// insert.
func (r *partiesRepo) AddAttendee(ctx context.Context, partyID, userID string, joinedAt time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
INSERT INTO party_attendees (party_id, user_id, joined_at)
SELECT p.id, ?, ?
FROM parties p
WHERE p.id = ?
  AND (p.max_attendees = 0
       OR (SELECT COUNT(*) FROM party_attendees a WHERE a.party_id = p.id) < p.max_attendees)`,
		userID, ms(joinedAt), partyID,
	)
	if err != nil {
		return false, mapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *partiesRepo) RemoveAttendee(ctx context.Context, partyID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM party_attendees WHERE party_id = ? AND user_id = ?`, partyID, userID)
	return err
}

func (r *partiesRepo) IsAttendee(ctx context.Context, partyID, userID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM party_attendees WHERE party_id = ? AND user_id = ?`,
		partyID, userID,
	).Scan(&n)
	return n > 0, err
}

func (r *partiesRepo) CountAttendees(ctx context.Context, partyID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM party_attendees WHERE party_id = ?`, partyID,
	).Scan(&n)
	return n, err
}

func (r *partiesRepo) ListByUniversity(ctx context.Context, university string) ([]domain.Party, error) {
	return r.queryParties(ctx,
		fmt.Sprintf(partySelect, "parties p INDEXED BY idx_parties_university_date")+`
WHERE p.university = ?
ORDER BY p.date_time ASC, p.id ASC`, university)
}

func (r *partiesRepo) ListHostedBy(ctx context.Context, userID string) ([]domain.Party, error) {
	return r.queryParties(ctx,
		fmt.Sprintf(partySelect, "parties p INDEXED BY idx_parties_host")+`
WHERE p.host_id = ?
ORDER BY p.date_time ASC, p.id ASC`, userID)
}

func (r *partiesRepo) ListJoinedBy(ctx context.Context, userID string) ([]domain.Party, error) {
	return r.queryParties(ctx,
		fmt.Sprintf(partySelect, "party_attendees m INDEXED BY idx_party_attendees_user JOIN parties p ON p.id = m.party_id")+`
WHERE m.user_id = ?
ORDER BY p.date_time ASC, p.id ASC`, userID)
}

func (r *partiesRepo) Scan(ctx context.Context, limit int) ([]domain.Party, error) {
	if limit <= 0 {
		return []domain.Party{}, nil
	}
	return r.queryParties(ctx,
		fmt.Sprintf(partySelect, "parties p")+` ORDER BY p.rowid LIMIT ?`, limit)
}

var _ store.Parties = (*partiesRepo)(nil)
