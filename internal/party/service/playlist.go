package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrNotEnoughVotes   = errors.New("song does not have enough votes")
	ErrNoCurrentSong    = errors.New("no song is playing")
	ErrInvalidPlaylist  = errors.New("invalid playlist")
	ErrInvalidSong      = errors.New("invalid song")
)

type PlaylistInput struct {
	Name         string
	Description  string
	VoteRequired bool
	MinVotes     int
}

type SongInput struct {
	Title       string
	Artist      string
	Album       string
	DurationSec int
}

// VoteResult is a song after ToggleVote, and whether the caller now votes
// for it.
type VoteResult struct {
	Song  domain.Song
	Voted bool
}

// PlaylistService runs collaborative, vote-ordered party playlists.
type PlaylistService struct {
	Store store.Store
}

// Create opens a playlist on a party. Attendees only.
func (s *PlaylistService) Create(ctx context.Context, partyID string, viewer domain.Identity, in PlaylistInput) (domain.Playlist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Playlist{}, fmt.Errorf("%w: name is required", ErrInvalidPlaylist)
	}
	if in.MinVotes < 0 {
		return domain.Playlist{}, fmt.Errorf("%w: min_votes cannot be negative", ErrInvalidPlaylist)
	}
	if in.MinVotes == 0 {
		in.MinVotes = domain.DefaultMinVotes
	}

	if _, err := requireAttendee(ctx, s.Store, partyID, viewer.UserID); err != nil {
		return domain.Playlist{}, err
	}

	now := time.Now().UTC()
	pl := domain.Playlist{
		ID:           idx.New().String(),
		PartyID:      partyID,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		CreatorID:    viewer.UserID,
		VoteRequired: in.VoteRequired,
		MinVotes:     in.MinVotes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Playlists().CreatePlaylist(ctx, pl); err != nil {
		slogx.FromContext(ctx).Error("failed to create playlist", slog.String("party_id", partyID), slog.Any("error", err))
		return domain.Playlist{}, err
	}

	slogx.FromContext(ctx).Info("playlist created", slog.String("playlist_id", pl.ID), slog.String("party_id", partyID))
	return pl, nil
}

// List returns the party's playlists.
func (s *PlaylistService) List(ctx context.Context, partyID string) ([]domain.Playlist, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return nil, err
	}
	return s.Store.Playlists().ListPlaylists(ctx, partyID)
}

// AddSong queues a song. Whoever adds it casts the first vote.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID string, viewer domain.Identity, in SongInput) (domain.Song, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Song{}, fmt.Errorf("%w: title is required", ErrInvalidSong)
	}
	if in.DurationSec < 0 {
		return domain.Song{}, fmt.Errorf("%w: duration cannot be negative", ErrInvalidSong)
	}

	var out domain.Song
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		pl, err := getPlaylist(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if _, err := requireAttendee(ctx, tx, pl.PartyID, viewer.UserID); err != nil {
			return err
		}

		song := domain.Song{
			ID:          idx.New().String(),
			PlaylistID:  playlistID,
			Title:       title,
			Artist:      strings.TrimSpace(in.Artist),
			Album:       strings.TrimSpace(in.Album),
			DurationSec: in.DurationSec,
			AddedBy:     viewer.UserID,
			AddedAt:     time.Now().UTC(),
		}
		if err := tx.Songs().CreateSong(ctx, song); err != nil {
			return err
		}
		out, err = tx.Songs().GetSong(ctx, song.ID)
		return err
	})
	if err != nil {
		return domain.Song{}, err
	}
	return out, nil
}

// Songs returns the queue, most voted first.
func (s *PlaylistService) Songs(ctx context.Context, playlistID string, includePlayed bool) ([]domain.Song, error) {
	if _, err := getPlaylist(ctx, s.Store, playlistID); err != nil {
		return nil, err
	}
	return s.Store.Songs().ListSongs(ctx, playlistID, includePlayed)
}

// ToggleVote adds viewer's vote, or takes it back if already cast.
func (s *PlaylistService) ToggleVote(ctx context.Context, songID string, viewer domain.Identity) (VoteResult, error) {
	var res VoteResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		song, err := getSong(ctx, tx, songID)
		if err != nil {
			return err
		}

		if song.HasVoter(viewer.UserID) {
			if err := tx.Songs().RemoveVote(ctx, songID, viewer.UserID); err != nil {
				return err
			}
		} else {
			if err := tx.Songs().AddVote(ctx, songID, viewer.UserID, time.Now().UTC()); err != nil {
				return err
			}
			res.Voted = true
		}

		res.Song, err = tx.Songs().GetSong(ctx, songID)
		return err
	})
	if err != nil {
		return VoteResult{}, err
	}
	return res, nil
}

// MarkPlayed marks a song played and makes it the playlist's current song.
// Only the party host or the playlist creator may do this.
func (s *PlaylistService) MarkPlayed(ctx context.Context, songID string, viewer domain.Identity) (domain.Song, error) {
	log := slogx.FromContext(ctx)

	var out domain.Song
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		song, err := getSong(ctx, tx, songID)
		if err != nil {
			return err
		}
		pl, err := getPlaylist(ctx, tx, song.PlaylistID)
		if err != nil {
			return err
		}
		p, err := loadParty(ctx, tx, pl.PartyID)
		if err != nil {
			return err
		}

		if viewer.UserID != p.HostID && viewer.UserID != pl.CreatorID {
			return ErrPermissionDenied
		}
		if pl.VoteRequired && song.Votes < pl.MinVotes {
			return ErrNotEnoughVotes
		}

		if err := tx.Songs().MarkSongPlayed(ctx, songID); err != nil {
			return err
		}
		if err := tx.Playlists().SetCurrentSong(ctx, pl.ID, songID, time.Now().UTC()); err != nil {
			return err
		}
		out, err = tx.Songs().GetSong(ctx, songID)
		return err
	})
	if err != nil {
		return domain.Song{}, err
	}

	log.Info("song played", slog.String("song_id", songID), slog.String("playlist_id", out.PlaylistID))
	return out, nil
}

// CurrentSong returns the song the playlist last marked played.
func (s *PlaylistService) CurrentSong(ctx context.Context, playlistID string) (domain.Song, error) {
	pl, err := getPlaylist(ctx, s.Store, playlistID)
	if err != nil {
		return domain.Song{}, err
	}
	if pl.CurrentSongID == "" {
		return domain.Song{}, ErrNoCurrentSong
	}
	return getSong(ctx, s.Store, pl.CurrentSongID)
}

func getPlaylist(ctx context.Context, q store.Store, id string) (domain.Playlist, error) {
	pl, err := q.Playlists().GetPlaylist(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Playlist{}, ErrPlaylistNotFound
	}
	return pl, err
}

func getSong(ctx context.Context, q store.Store, id string) (domain.Song, error) {
	song, err := q.Songs().GetSong(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Song{}, ErrSongNotFound
	}
	return song, err
}
