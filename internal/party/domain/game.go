package domain

import "time"

const DefaultGameCategory = "drinking"

// Game is a catalog entry. Public games are visible to every university,
// private ones only to the creator's.
type Game struct {
	ID          string
	Name        string
	Description string
	Rules       string
	Category    string
	University  string
	IsPublic    bool
	CreatorID   string
	Popularity  int
	CreatedAt   time.Time
}

// VisibleTo reports whether a student of university may see the game.
func (g Game) VisibleTo(university string) bool {
	return g.IsPublic || g.University == university
}

// PartyGame is a game put on at a party. Its text is copied from the
// catalog when it is added, so later catalog edits do not change it.
type PartyGame struct {
	ID          string
	PartyID     string
	GameID      string
	Name        string
	Description string
	Rules       string
	Category    string
	AddedBy     string
	Active      bool
	Players     []string
	AddedAt     time.Time
}

// HasPlayer reports whether userID has joined the game.
func (g PartyGame) HasPlayer(userID string) bool {
	for _, p := range g.Players {
		if p == userID {
			return true
		}
	}
	return false
}
