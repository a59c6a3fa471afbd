package domain

import "time"

// UnknownHost is shown in place of a host whose user row is gone.
const UnknownHost = "Unknown Host"

type PaymentRequirement struct {
	Required    bool
	Amount      float64
	Recipient   string // payment handle the money goes to
	Description string
}

type Party struct {
	ID           string
	Title        string
	Description  string
	Location     string
	DateTime     time.Time
	MaxAttendees int // 0 means unlimited
	University   string
	HostID       string
	HostName     string // denormalized on read
	Attendees    []string
	Payment      PaymentRequirement
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAttendee reports whether userID is in the attendee set.
func (p Party) HasAttendee(userID string) bool {
	for _, a := range p.Attendees {
		if a == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether a capacity is set and reached.
func (p Party) IsFull() bool {
	return p.MaxAttendees > 0 && len(p.Attendees) >= p.MaxAttendees
}

// PartyView is a party as seen by one viewer at one instant.
type PartyView struct {
	Party
	IsHost      bool
	IsJoined    bool
	IsPartyOver bool
	IsFull      bool
}

// PartyPatch carries host edits. Nil fields are left alone.
type PartyPatch struct {
	Title        *string
	Description  *string
	Location     *string
	DateTime     *time.Time
	MaxAttendees *int
}
