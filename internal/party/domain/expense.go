package domain

import "time"

type ExpensePool struct {
	ID            string
	PartyID       string
	Name          string
	Description   string
	TotalAmount   float64 // budget, informational
	CreatorID     string
	Participants  []string
	PaymentHandle string
	IsActive      bool
	IsSettled     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasParticipant reports whether userID is in the pool.
func (p ExpensePool) HasParticipant(userID string) bool {
	for _, u := range p.Participants {
		if u == userID {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          string
	PoolID      string
	PartyID     string
	Description string
	Amount      float64
	PaidBy      string
	SplitWith   []string
	SettledBy   []string
	CreatedAt   time.Time
}

// IsSettledBy reports whether userID has marked their share as paid.
func (e Expense) IsSettledBy(userID string) bool {
	for _, u := range e.SettledBy {
		if u == userID {
			return true
		}
	}
	return false
}

// Balance is one participant's position in a pool.
type Balance struct {
	UserID string
	Paid   float64
	Net    float64
	Owes   float64
	Owed   float64
}

// Transfer is a suggested payment that moves a pool towards settled.
type Transfer struct {
	From   string
	To     string
	Amount float64
}

type PoolBalances struct {
	PoolID    string
	Total     float64
	FairShare float64
	Balances  []Balance
	Transfers []Transfer
}
