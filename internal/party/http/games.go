package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// GameHandler handles the games catalog and party games.
type GameHandler struct {
	GameService *service.GameService
}

// HandleCatalog handles GET /v1/games
//
//	@Summary		Game catalog
//	@Description	Public games and the caller's university's games, most popular first.
//	@Tags			Games
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.GameList	"games"
//	@Router			/v1/games [get].
func (h *GameHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	games, err := h.GameService.Catalog(r.Context(), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "list games")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGameList(games))
}

// HandleCreate handles POST /v1/games
//
//	@Summary		Create a custom game
//	@Description	The game belongs to the caller's university and is private to it unless is_public is set.
//	@Tags			Games
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		partysdk.GameRequest	true	"name, description and rules are required"
//	@Success		201		{object}	partysdk.Game			"The new game"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/games [post].
func (h *GameHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req partysdk.GameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	g, err := h.GameService.Create(r.Context(), viewer(r), service.GameInput{
		Name:        req.Name,
		Description: req.Description,
		Rules:       req.Rules,
		Category:    req.Category,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeServiceError(w, r, err, "create game")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toGame(g))
}

// HandlePopular handles GET /v1/games/popular
//
//	@Summary		Popular games
//	@Description	Public games only, most played first.
//	@Tags			Games
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int						false	"At most 100, default 20"
//	@Success		200		{object}	partysdk.GameList		"games"
//	@Failure		400		{object}	partysdk.ErrorResponse	"bad limit"
//	@Router			/v1/games/popular [get].
func (h *GameHandler) HandlePopular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	games, err := h.GameService.Popular(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, "list popular games")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGameList(games))
}

// HandleMine handles GET /v1/games/mine
//
//	@Summary		My games
//	@Tags			Games
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	partysdk.GameList	"games"
//	@Router			/v1/games/mine [get].
func (h *GameHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	games, err := h.GameService.Mine(r.Context(), viewer(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "list my games")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGameList(games))
}

// HandleListPartyGames handles GET /v1/parties/{id}/games
//
//	@Summary		List party games
//	@Tags			Games
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.PartyGameList	"games"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/games [get].
func (h *GameHandler) HandleListPartyGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.GameService.PartyGames(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list party games")
		return
	}

	out := partysdk.PartyGameList{Games: make([]partysdk.PartyGame, len(games))}
	for i, g := range games {
		out.Games[i] = toPartyGame(g)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAddPartyGame handles POST /v1/parties/{id}/games
//
//	@Summary		Add a game to a party
//	@Description	Host only. Counts towards the game's popularity.
//	@Tags			Games
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Party ID"
//	@Param			request	body		partysdk.AddPartyGameRequest	true	"game_id"
//	@Success		201		{object}	partysdk.PartyGame				"The party game"
//	@Failure		403		{object}	partysdk.ErrorResponse			"not the host"
//	@Failure		404		{object}	partysdk.ErrorResponse			"not found"
//	@Router			/v1/parties/{id}/games [post].
func (h *GameHandler) HandleAddPartyGame(w http.ResponseWriter, r *http.Request) {
	var req partysdk.AddPartyGameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.GameID == "" {
		writeBadRequest(w, "game_id is required")
		return
	}

	pg, err := h.GameService.AddToParty(r.Context(), r.PathValue("id"), viewer(r), req.GameID)
	if err != nil {
		writeServiceError(w, r, err, "add party game")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPartyGame(pg))
}

// HandleJoinPartyGame handles POST /v1/parties/{id}/games/{gameID}/join
//
//	@Summary		Join a party game
//	@Description	Attendees only. Joining twice is a no-op.
//	@Tags			Games
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Party ID"
//	@Param			gameID	path		string					true	"Party game ID"
//	@Success		200		{object}	partysdk.PartyGame		"The party game"
//	@Failure		403		{object}	partysdk.ErrorResponse	"not an attendee"
//	@Failure		404		{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/games/{gameID}/join [post].
func (h *GameHandler) HandleJoinPartyGame(w http.ResponseWriter, r *http.Request) {
	pg, err := h.GameService.JoinGame(r.Context(), r.PathValue("id"), r.PathValue("gameID"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "join party game")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPartyGame(pg))
}

// HandleRemovePartyGame handles DELETE /v1/parties/{id}/games/{gameID}
//
//	@Summary		Remove a party game
//	@Description	Host only.
//	@Tags			Games
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Party ID"
//	@Param			gameID	path	string	true	"Party game ID"
//	@Success		204
//	@Failure		403	{object}	partysdk.ErrorResponse	"not the host"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/games/{gameID} [delete].
func (h *GameHandler) HandleRemovePartyGame(w http.ResponseWriter, r *http.Request) {
	if err := h.GameService.RemoveFromParty(r.Context(), r.PathValue("id"), r.PathValue("gameID"), viewer(r)); err != nil {
		writeServiceError(w, r, err, "remove party game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
