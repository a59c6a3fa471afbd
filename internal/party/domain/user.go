package domain

import "time"

type User struct {
	ID            string
	Username      string
	Email         string
	University    string
	PasswordHash  string // argon2 encoded
	PaymentHandle string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity is the authenticated caller. It is passed explicitly into every
// operation that depends on who is asking.
type Identity struct {
	UserID     string
	Username   string
	University string
}
