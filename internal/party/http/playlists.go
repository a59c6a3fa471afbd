package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// PlaylistHandler handles collaborative playlists.
type PlaylistHandler struct {
	PlaylistService *service.PlaylistService
}

// HandleList handles GET /v1/parties/{id}/playlists
//
//	@Summary		List playlists
//	@Tags			Playlists
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PlaylistList	"playlists"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/playlists [get].
func (h *PlaylistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lists, err := h.PlaylistService.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list playlists")
		return
	}

	out := partysdk.PlaylistList{Playlists: make([]partysdk.Playlist, len(lists))}
	for i, p := range lists {
		out.Playlists[i] = toPlaylist(p)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /v1/parties/{id}/playlists
//
//	@Summary		Create playlist
//	@Description	Attendees only.
//	@Tags			Playlists
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Party ID"
//	@Param			request	body		partysdk.PlaylistRequest	true	"Playlist details"
//	@Success		201		{object}	partysdk.Playlist			"The new playlist"
//	@Failure		400		{object}	partysdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	partysdk.ErrorResponse		"not an attendee"
//	@Router			/v1/parties/{id}/playlists [post].
func (h *PlaylistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req partysdk.PlaylistRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.PlaylistService.Create(r.Context(), r.PathValue("id"), viewer(r), service.PlaylistInput{
		Name:         req.Name,
		Description:  req.Description,
		VoteRequired: req.VoteRequired,
		MinVotes:     req.MinVotes,
	})
	if err != nil {
		writeServiceError(w, r, err, "create playlist")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPlaylist(p))
}

// HandleSongs handles GET /v1/playlists/{id}/songs
//
//	@Summary		List songs
//	@Description	Most voted first. Played songs are hidden unless include_played=true.
//	@Tags			Playlists
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id				path		string					true	"Playlist ID"
//	@Param			include_played	query		bool					false	"Include played songs"
//	@Success		200				{object}	partysdk.SongList		"songs"
//	@Failure		404				{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/playlists/{id}/songs [get].
func (h *PlaylistHandler) HandleSongs(w http.ResponseWriter, r *http.Request) {
	includePlayed, _ := strconv.ParseBool(r.URL.Query().Get("include_played"))

	songs, err := h.PlaylistService.Songs(r.Context(), r.PathValue("id"), includePlayed)
	if err != nil {
		writeServiceError(w, r, err, "list songs")
		return
	}

	out := partysdk.SongList{Songs: make([]partysdk.Song, len(songs))}
	for i, s := range songs {
		out.Songs[i] = toSong(s)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAddSong handles POST /v1/playlists/{id}/songs
//
//	@Summary		Add song
//	@Description	Attendees only. The song starts with the adder's vote.
//	@Tags			Playlists
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Playlist ID"
//	@Param			request	body		partysdk.SongRequest	true	"Song details"
//	@Success		201		{object}	partysdk.Song			"The queued song"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	partysdk.ErrorResponse	"not an attendee"
//	@Router			/v1/playlists/{id}/songs [post].
func (h *PlaylistHandler) HandleAddSong(w http.ResponseWriter, r *http.Request) {
	var req partysdk.SongRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	s, err := h.PlaylistService.AddSong(r.Context(), r.PathValue("id"), viewer(r), service.SongInput{
		Title:       req.Title,
		Artist:      req.Artist,
		Album:       req.Album,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		writeServiceError(w, r, err, "add song")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSong(s))
}

// HandleCurrent handles GET /v1/playlists/{id}/current
//
//	@Summary		Current song
//	@Tags			Playlists
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Playlist ID"
//	@Success		200	{object}	partysdk.Song			"The song playing now"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found or nothing playing"
//	@Router			/v1/playlists/{id}/current [get].
func (h *PlaylistHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	s, err := h.PlaylistService.CurrentSong(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get current song")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSong(s))
}

// HandleVote handles POST /v1/songs/{id}/vote
//
//	@Summary		Toggle vote
//	@Description	Votes for the song, or takes the caller's vote back.
//	@Tags			Playlists
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Song ID"
//	@Success		200	{object}	partysdk.VoteResponse	"song, voted"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/songs/{id}/vote [post].
func (h *PlaylistHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	res, err := h.PlaylistService.ToggleVote(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "vote")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, partysdk.VoteResponse{Song: toSong(res.Song), Voted: res.Voted})
}

// HandlePlayed handles POST /v1/songs/{id}/played
//
//	@Summary		Mark played
//	@Description	Party host or playlist creator only. Makes the song current.
//	@Tags			Playlists
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Song ID"
//	@Success		200	{object}	partysdk.Song			"The played song"
//	@Failure		403	{object}	partysdk.ErrorResponse	"not host or creator"
//	@Failure		409	{object}	partysdk.ErrorResponse	"not enough votes"
//	@Router			/v1/songs/{id}/played [post].
func (h *PlaylistHandler) HandlePlayed(w http.ResponseWriter, r *http.Request) {
	s, err := h.PlaylistService.MarkPlayed(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "mark song played")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSong(s))
}
