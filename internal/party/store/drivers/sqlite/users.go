package sqlite

import (
	"context"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type usersRepo struct {
	q DBTX
}

const userColumns = `id, username, email, university, password_hash, payment_handle, created_at, updated_at`

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.University, &u.PasswordHash,
		&u.PaymentHandle, &createdAt, &updatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = fromMS(createdAt)
	u.UpdatedAt = fromMS(updatedAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.University, u.PasswordHash, u.PaymentHandle,
		ms(u.CreatedAt), ms(u.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *usersRepo) UpdatePaymentHandle(ctx context.Context, userID, handle string) error {
	return requireRow(r.q.ExecContext(ctx,
		`UPDATE users SET payment_handle = ?, updated_at = ? WHERE id = ?`,
		handle, ms(nowUTC()), userID,
	))
}
