package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type gamesRepo struct {
	q DBTX
}

const gameSelect = `
SELECT id, name, description, rules, category, university, is_public, creator_id, popularity, created_at
FROM games`

func scanGame(row rowScanner) (domain.Game, error) {
	var (
		g         domain.Game
		createdAt int64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Rules, &g.Category, &g.University,
		&g.IsPublic, &g.CreatorID, &g.Popularity, &createdAt); err != nil {
		return domain.Game{}, mapNotFound(err)
	}
	g.CreatedAt = fromMS(createdAt)
	return g, nil
}

func (r *gamesRepo) listGames(ctx context.Context, query string, args ...any) ([]domain.Game, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *gamesRepo) CreateGame(ctx context.Context, g domain.Game) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO games (id, name, description, rules, category, university, is_public, creator_id,
                   popularity, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, g.Rules, g.Category, g.University, boolInt(g.IsPublic), g.CreatorID,
		g.Popularity, ms(g.CreatedAt),
	)
	return mapWriteErr(err)
}

func (r *gamesRepo) GetGame(ctx context.Context, id string) (domain.Game, error) {
	return scanGame(r.q.QueryRowContext(ctx, gameSelect+` WHERE id = ?`, id))
}

func (r *gamesRepo) ListCatalog(ctx context.Context, university string) ([]domain.Game, error) {
	return r.listGames(ctx,
		gameSelect+` WHERE is_public = 1 OR university = ? ORDER BY popularity DESC, created_at ASC, id ASC`,
		university)
}

func (r *gamesRepo) ListPopular(ctx context.Context, limit int) ([]domain.Game, error) {
	return r.listGames(ctx,
		gameSelect+` WHERE is_public = 1 ORDER BY popularity DESC, created_at ASC, id ASC LIMIT ?`,
		limit)
}

func (r *gamesRepo) ListCreatedBy(ctx context.Context, userID string) ([]domain.Game, error) {
	return r.listGames(ctx,
		gameSelect+` WHERE creator_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (r *gamesRepo) IncrementPopularity(ctx context.Context, id string) error {
	return requireRow(r.q.ExecContext(ctx, `UPDATE games SET popularity = popularity + 1 WHERE id = ?`, id))
}

// Players are derived from party_game_players, like song voters.
const partyGameSelect = `
SELECT g.id, g.party_id, g.game_id, g.name, g.description, g.rules, g.category, g.added_by, g.active,
       COALESCE((SELECT group_concat(p.user_id, ' ') FROM party_game_players p WHERE p.party_game_id = g.id), ''),
       g.added_at
FROM party_games g`

func scanPartyGame(row rowScanner) (domain.PartyGame, error) {
	var (
		g       domain.PartyGame
		players string
		addedAt int64
	)
	if err := row.Scan(&g.ID, &g.PartyID, &g.GameID, &g.Name, &g.Description, &g.Rules, &g.Category,
		&g.AddedBy, &g.Active, &players, &addedAt); err != nil {
		return domain.PartyGame{}, mapNotFound(err)
	}
	g.Players = splitIDs(players)
	g.AddedAt = fromMS(addedAt)
	return g, nil
}

func (r *gamesRepo) AddPartyGame(ctx context.Context, g domain.PartyGame) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO party_games (id, party_id, game_id, name, description, rules, category, added_by, active, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.PartyID, g.GameID, g.Name, g.Description, g.Rules, g.Category, g.AddedBy, boolInt(g.Active),
		ms(g.AddedAt),
	)
	return mapWriteErr(err)
}

func (r *gamesRepo) GetPartyGame(ctx context.Context, id string) (domain.PartyGame, error) {
	return scanPartyGame(r.q.QueryRowContext(ctx, partyGameSelect+` WHERE g.id = ?`, id))
}

func (r *gamesRepo) ListPartyGames(ctx context.Context, partyID string) ([]domain.PartyGame, error) {
	rows, err := r.q.QueryContext(ctx,
		partyGameSelect+` WHERE g.party_id = ? AND g.active = 1 ORDER BY g.added_at DESC, g.id DESC`, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PartyGame{}
	for rows.Next() {
		g, err := scanPartyGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *gamesRepo) DeactivatePartyGame(ctx context.Context, id string) error {
	return requireRow(r.q.ExecContext(ctx, `UPDATE party_games SET active = 0 WHERE id = ?`, id))
}

func (r *gamesRepo) AddPlayer(ctx context.Context, partyGameID, userID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO party_game_players (party_game_id, user_id, joined_at) VALUES (?, ?, ?)`,
		partyGameID, userID, ms(at))
	return mapWriteErr(err)
}
