package partysdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CreateGame adds a custom game to the catalog.
func (s *Session) CreateGame(ctx context.Context, req GameRequest) (*Game, error) {
	return authJSON[Game](ctx, s, http.MethodPost, "/v1/games", req, http.StatusCreated)
}

// GameCatalog lists the games the caller can put on, most popular first.
func (s *Session) GameCatalog(ctx context.Context) (*GameList, error) {
	return authJSON[GameList](ctx, s, http.MethodGet, "/v1/games", nil, http.StatusOK)
}

// PopularGames lists the most played public games. A zero limit takes the
// server default.
func (s *Session) PopularGames(ctx context.Context, limit int) (*GameList, error) {
	path := "/v1/games/popular"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return authJSON[GameList](ctx, s, http.MethodGet, path, nil, http.StatusOK)
}

// MyGames lists the games the caller created.
func (s *Session) MyGames(ctx context.Context) (*GameList, error) {
	return authJSON[GameList](ctx, s, http.MethodGet, "/v1/games/mine", nil, http.StatusOK)
}

// AddPartyGame puts a catalog game on at a party. Host only.
func (s *Session) AddPartyGame(ctx context.Context, partyID, gameID string) (*PartyGame, error) {
	return authJSON[PartyGame](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/games",
		AddPartyGameRequest{GameID: gameID}, http.StatusCreated)
}

// ListPartyGames lists a party's active games, newest first.
func (s *Session) ListPartyGames(ctx context.Context, partyID string) (*PartyGameList, error) {
	return authJSON[PartyGameList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/games", nil, http.StatusOK)
}

// JoinPartyGame joins one of a party's games. Attendees only.
func (s *Session) JoinPartyGame(ctx context.Context, partyID, partyGameID string) (*PartyGame, error) {
	return authJSON[PartyGame](ctx, s, http.MethodPost,
		"/v1/parties/"+url.PathEscape(partyID)+"/games/"+url.PathEscape(partyGameID)+"/join", nil, http.StatusOK)
}

// RemovePartyGame takes a game off a party. Host only.
func (s *Session) RemovePartyGame(ctx context.Context, partyID, partyGameID string) error {
	return authNoContent(ctx, s, http.MethodDelete,
		"/v1/parties/"+url.PathEscape(partyID)+"/games/"+url.PathEscape(partyGameID), nil)
}
