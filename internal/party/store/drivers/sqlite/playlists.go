package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type playlistsRepo struct {
	q DBTX
}

const playlistSelect = `
SELECT id, party_id, name, description, creator_id, vote_required, min_votes, current_song_id,
       created_at, updated_at
FROM playlists`

func scanPlaylist(row rowScanner) (domain.Playlist, error) {
	var (
		p                    domain.Playlist
		current              sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.PartyID, &p.Name, &p.Description, &p.CreatorID, &p.VoteRequired,
		&p.MinVotes, &current, &createdAt, &updatedAt); err != nil {
		return domain.Playlist{}, mapNotFound(err)
	}
	p.CurrentSongID = mapNullString(current)
	p.CreatedAt = fromMS(createdAt)
	p.UpdatedAt = fromMS(updatedAt)
	return p, nil
}

func (r *playlistsRepo) CreatePlaylist(ctx context.Context, p domain.Playlist) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO playlists (id, party_id, name, description, creator_id, vote_required, min_votes,
                       current_song_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.PartyID, p.Name, p.Description, p.CreatorID, boolInt(p.VoteRequired), p.MinVotes,
		mapStringNull(p.CurrentSongID), ms(p.CreatedAt), ms(p.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *playlistsRepo) GetPlaylist(ctx context.Context, id string) (domain.Playlist, error) {
	return scanPlaylist(r.q.QueryRowContext(ctx, playlistSelect+` WHERE id = ?`, id))
}

func (r *playlistsRepo) ListPlaylists(ctx context.Context, partyID string) ([]domain.Playlist, error) {
	rows, err := r.q.QueryContext(ctx,
		playlistSelect+` WHERE party_id = ? ORDER BY created_at DESC, id DESC`, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *playlistsRepo) SetCurrentSong(ctx context.Context, playlistID, songID string, at time.Time) error {
	return requireRow(r.q.ExecContext(ctx,
		`UPDATE playlists SET current_song_id = ?, updated_at = ? WHERE id = ?`,
		songID, ms(at), playlistID))
}

type songsRepo struct {
	q DBTX
}

// Votes are derived from song_votes so the count can never drift from the
// voter set.
const songSelect = `
SELECT s.id, s.playlist_id, s.title, s.artist, s.album, s.duration_sec, s.added_by,
       (SELECT COUNT(*) FROM song_votes v WHERE v.song_id = s.id) AS votes,
       COALESCE((SELECT group_concat(v.user_id, ' ') FROM song_votes v WHERE v.song_id = s.id), ''),
       s.played, s.added_at
FROM songs s`

func scanSong(row rowScanner) (domain.Song, error) {
	var (
		s       domain.Song
		voters  string
		addedAt int64
	)
	if err := row.Scan(&s.ID, &s.PlaylistID, &s.Title, &s.Artist, &s.Album, &s.DurationSec, &s.AddedBy,
		&s.Votes, &voters, &s.Played, &addedAt); err != nil {
		return domain.Song{}, mapNotFound(err)
	}
	s.Voters = splitIDs(voters)
	s.AddedAt = fromMS(addedAt)
	return s, nil
}

func (r *songsRepo) CreateSong(ctx context.Context, s domain.Song) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO songs (id, playlist_id, title, artist, album, duration_sec, added_by, played, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.PlaylistID, s.Title, s.Artist, s.Album, s.DurationSec, s.AddedBy, boolInt(s.Played), ms(s.AddedAt),
	)
	if err != nil {
		return mapWriteErr(err)
	}
	return r.AddVote(ctx, s.ID, s.AddedBy, s.AddedAt)
}

func (r *songsRepo) GetSong(ctx context.Context, id string) (domain.Song, error) {
	return scanSong(r.q.QueryRowContext(ctx, songSelect+` WHERE s.id = ?`, id))
}

func (r *songsRepo) ListSongs(ctx context.Context, playlistID string, includePlayed bool) ([]domain.Song, error) {
	query := songSelect + ` WHERE s.playlist_id = ?`
	if !includePlayed {
		query += ` AND s.played = 0`
	}
	query += ` ORDER BY votes DESC, s.added_at ASC, s.id ASC`

	rows, err := r.q.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Song{}
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AddVote returns store.ErrAlreadyExists when the user already voted.
func (r *songsRepo) AddVote(ctx context.Context, songID, userID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO song_votes (song_id, user_id, voted_at) VALUES (?, ?, ?)`,
		songID, userID, ms(at))
	return mapWriteErr(err)
}

func (r *songsRepo) RemoveVote(ctx context.Context, songID, userID string) error {
	return requireRow(r.q.ExecContext(ctx,
		`DELETE FROM song_votes WHERE song_id = ? AND user_id = ?`, songID, userID))
}

func (r *songsRepo) MarkSongPlayed(ctx context.Context, songID string) error {
	return requireRow(r.q.ExecContext(ctx, `UPDATE songs SET played = 1 WHERE id = ?`, songID))
}
