package domain

import "time"

type PaymentStatus string

const (
	PaymentSelfReported PaymentStatus = "self_reported"
	PaymentConfirmed    PaymentStatus = "confirmed"
)

// PaymentRecord is a payer's claim that they paid the host out of band.
// Nothing verifies it against a real payment rail.
type PaymentRecord struct {
	PartyID     string
	UserID      string
	Username    string
	Reference   string
	IsPaid      bool
	Status      PaymentStatus
	SubmittedAt time.Time
	ConfirmedAt *time.Time
	ConfirmedBy string
}

// PaymentPolicy decides which records satisfy the join gate.
type PaymentPolicy string

const (
	// PolicyTrust accepts any self reported payment.
	PolicyTrust     PaymentPolicy = "trust"
	// PolicyConfirmed only accepts payments the host confirmed.
	PolicyConfirmed PaymentPolicy = "confirmed"
)

// Satisfied reports whether rec lets its payer join under policy p.
func (p PaymentPolicy) Satisfied(rec PaymentRecord) bool {
	if !rec.IsPaid {
		return false
	}
	if p == PolicyConfirmed {
		return rec.Status == PaymentConfirmed
	}
	return true
}
