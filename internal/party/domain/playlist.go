package domain

import "time"

const DefaultMinVotes = 1

type Playlist struct {
	ID            string
	PartyID       string
	Name          string
	Description   string
	CreatorID     string
	VoteRequired  bool
	MinVotes      int
	CurrentSongID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Song struct {
	ID          string
	PlaylistID  string
	Title       string
	Artist      string
	Album       string
	DurationSec int
	AddedBy     string
	Votes       int
	Voters      []string
	Played      bool
	AddedAt     time.Time
}

// HasVoter reports whether userID has voted for the song.
func (s Song) HasVoter(userID string) bool {
	for _, v := range s.Voters {
		if v == userID {
			return true
		}
	}
	return false
}
