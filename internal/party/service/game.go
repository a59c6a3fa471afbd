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

const (
	DefaultPopularGames = 20
	MaxPopularGames     = 100
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidGame  = errors.New("invalid game")
)

type GameInput struct {
	Name        string
	Description string
	Rules       string
	Category    string
	IsPublic    bool
}

// GameService runs the party games catalog and the games hosts put on.
type GameService struct {
	Store store.Store
}

// Create adds a custom game to the catalog under the creator's university.
// Games are private to that university unless IsPublic is set.
func (s *GameService) Create(ctx context.Context, viewer domain.Identity, in GameInput) (domain.Game, error) {
	g := domain.Game{
		ID:          idx.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Rules:       strings.TrimSpace(in.Rules),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		University:  viewer.University,
		IsPublic:    in.IsPublic,
		CreatorID:   viewer.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	switch {
	case g.Name == "":
		return domain.Game{}, fmt.Errorf("%w: name is required", ErrInvalidGame)
	case g.Description == "":
		return domain.Game{}, fmt.Errorf("%w: description is required", ErrInvalidGame)
	case g.Rules == "":
		return domain.Game{}, fmt.Errorf("%w: rules are required", ErrInvalidGame)
	}
	if g.Category == "" {
		g.Category = domain.DefaultGameCategory
	}

	if err := s.Store.Games().CreateGame(ctx, g); err != nil {
		slogx.FromContext(ctx).Error("failed to create game", slog.Any("error", err))
		return domain.Game{}, err
	}

	slogx.FromContext(ctx).Info("game created",
		slog.String("game_id", g.ID),
		slog.Bool("public", g.IsPublic),
	)
	return g, nil
}

// Catalog returns the games viewer can put on: public ones and their
// university's, most popular first.
func (s *GameService) Catalog(ctx context.Context, viewer domain.Identity) ([]domain.Game, error) {
	return s.Store.Games().ListCatalog(ctx, viewer.University)
}

// Popular returns the most played public games. limit is clamped to
// [1, MaxPopularGames] and zero means DefaultPopularGames.
func (s *GameService) Popular(ctx context.Context, limit int) ([]domain.Game, error) {
	switch {
	case limit <= 0:
		limit = DefaultPopularGames
	case limit > MaxPopularGames:
		limit = MaxPopularGames
	}
	return s.Store.Games().ListPopular(ctx, limit)
}

// Mine returns the games userID created, newest first.
func (s *GameService) Mine(ctx context.Context, userID string) ([]domain.Game, error) {
	return s.Store.Games().ListCreatedBy(ctx, userID)
}

// AddToParty puts a catalog game on at a party and counts it towards the
// game's popularity. Host only. The game must be visible to the party's
// university, or created by the host.
func (s *GameService) AddToParty(ctx context.Context, partyID string, viewer domain.Identity, gameID string) (domain.PartyGame, error) {
	var out domain.PartyGame
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := loadParty(ctx, tx, partyID)
		if err != nil {
			return err
		}
		if p.HostID != viewer.UserID {
			return ErrPermissionDenied
		}

		g, err := tx.Games().GetGame(ctx, gameID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}
		if !g.VisibleTo(p.University) && g.CreatorID != viewer.UserID {
			return ErrGameNotFound
		}

		pg := domain.PartyGame{
			ID:          idx.New().String(),
			PartyID:     partyID,
			GameID:      g.ID,
			Name:        g.Name,
			Description: g.Description,
			Rules:       g.Rules,
			Category:    g.Category,
			AddedBy:     viewer.UserID,
			Active:      true,
			AddedAt:     time.Now().UTC(),
		}
		if err := tx.Games().AddPartyGame(ctx, pg); err != nil {
			return err
		}
		if err := tx.Games().IncrementPopularity(ctx, g.ID); err != nil {
			return err
		}
		out, err = tx.Games().GetPartyGame(ctx, pg.ID)
		return err
	})
	if err != nil {
		return domain.PartyGame{}, err
	}

	slogx.FromContext(ctx).Info("game added to party",
		slog.String("party_id", partyID),
		slog.String("game_id", gameID),
	)
	return out, nil
}

// PartyGames returns the party's active games, newest first.
func (s *GameService) PartyGames(ctx context.Context, partyID string) ([]domain.PartyGame, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return nil, err
	}
	return s.Store.Games().ListPartyGames(ctx, partyID)
}

// JoinGame adds viewer to an active party game. Attendees only. Joining
// twice is a no-op.
func (s *GameService) JoinGame(ctx context.Context, partyID, partyGameID string, viewer domain.Identity) (domain.PartyGame, error) {
	var out domain.PartyGame
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		pg, err := getPartyGame(ctx, tx, partyID, partyGameID)
		if err != nil {
			return err
		}
		if _, err := requireAttendee(ctx, tx, partyID, viewer.UserID); err != nil {
			return err
		}

		err = tx.Games().AddPlayer(ctx, pg.ID, viewer.UserID, time.Now().UTC())
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
		out, err = tx.Games().GetPartyGame(ctx, pg.ID)
		return err
	})
	if err != nil {
		return domain.PartyGame{}, err
	}
	return out, nil
}

// RemoveFromParty takes a game off the party. Host only. The row and its
// players are kept but the game no longer lists.
func (s *GameService) RemoveFromParty(ctx context.Context, partyID, partyGameID string, viewer domain.Identity) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := loadParty(ctx, tx, partyID)
		if err != nil {
			return err
		}
		if p.HostID != viewer.UserID {
			return ErrPermissionDenied
		}
		if _, err := getPartyGame(ctx, tx, partyID, partyGameID); err != nil {
			return err
		}
		return tx.Games().DeactivatePartyGame(ctx, partyGameID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("game removed from party",
		slog.String("party_id", partyID),
		slog.String("party_game_id", partyGameID),
	)
	return nil
}

// getPartyGame fetches an active game of partyID. Games of other parties and
// removed games are reported as missing.
func getPartyGame(ctx context.Context, q store.Store, partyID, id string) (domain.PartyGame, error) {
	pg, err := q.Games().GetPartyGame(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.PartyGame{}, ErrGameNotFound
	}
	if err != nil {
		return domain.PartyGame{}, err
	}
	if pg.PartyID != partyID || !pg.Active {
		return domain.PartyGame{}, ErrGameNotFound
	}
	return pg, nil
}
