package domain

import "time"

type Feedback struct {
	ID          string
	PartyID     string
	UserID      string // empty when read back anonymised
	Rating      int
	Comment     string
	IsAnonymous bool
	CreatedAt   time.Time
}

type FeedbackStats struct {
	AverageRating float64
	Total         int
	Distribution  map[int]int // rating 1..5 to count
}
