package partysdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreatePlaylist starts a collaborative playlist on a party.
func (s *Session) CreatePlaylist(ctx context.Context, partyID string, req PlaylistRequest) (*Playlist, error) {
	return authJSON[Playlist](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/playlists", req, http.StatusCreated)
}

// ListPlaylists lists a party's playlists.
func (s *Session) ListPlaylists(ctx context.Context, partyID string) (*PlaylistList, error) {
	return authJSON[PlaylistList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/playlists", nil, http.StatusOK)
}

// AddSong queues a song.
func (s *Session) AddSong(ctx context.Context, playlistID string, req SongRequest) (*Song, error) {
	return authJSON[Song](ctx, s, http.MethodPost, "/v1/playlists/"+url.PathEscape(playlistID)+"/songs", req, http.StatusCreated)
}

// ListSongs returns the queue, most voted first. Played songs are included
// when includePlayed is set.
func (s *Session) ListSongs(ctx context.Context, playlistID string, includePlayed bool) (*SongList, error) {
	path := "/v1/playlists/" + url.PathEscape(playlistID) + "/songs"
	if includePlayed {
		path += "?include_played=true"
	}
	return authJSON[SongList](ctx, s, http.MethodGet, path, nil, http.StatusOK)
}

// CurrentSong returns the song playing now.
func (s *Session) CurrentSong(ctx context.Context, playlistID string) (*Song, error) {
	return authJSON[Song](ctx, s, http.MethodGet, "/v1/playlists/"+url.PathEscape(playlistID)+"/current", nil, http.StatusOK)
}

// ToggleVote votes for a song, or takes the vote back.
func (s *Session) ToggleVote(ctx context.Context, songID string) (*VoteResponse, error) {
	return authJSON[VoteResponse](ctx, s, http.MethodPost, "/v1/songs/"+url.PathEscape(songID)+"/vote", nil, http.StatusOK)
}

// MarkPlayed marks a song played and makes it current.
func (s *Session) MarkPlayed(ctx context.Context, songID string) (*Song, error) {
	return authJSON[Song](ctx, s, http.MethodPost, "/v1/songs/"+url.PathEscape(songID)+"/played", nil, http.StatusOK)
}
