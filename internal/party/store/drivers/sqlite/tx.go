package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/campusparty/internal/party/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users         { return &usersRepo{q: t.tx} }
func (t *txStore) Parties() store.Parties     { return &partiesRepo{q: t.tx} }
func (t *txStore) Payments() store.Payments   { return &paymentsRepo{q: t.tx} }
func (t *txStore) Drivers() store.Drivers     { return &driversRepo{q: t.tx} }
func (t *txStore) Rides() store.Rides         { return &ridesRepo{q: t.tx} }
func (t *txStore) Drinks() store.Drinks       { return &drinksRepo{q: t.tx} }
func (t *txStore) Pools() store.Pools         { return &poolsRepo{q: t.tx} }
func (t *txStore) Expenses() store.Expenses   { return &expensesRepo{q: t.tx} }
func (t *txStore) Feedback() store.Feedback   { return &feedbackRepo{q: t.tx} }
func (t *txStore) Playlists() store.Playlists { return &playlistsRepo{q: t.tx} }
func (t *txStore) Songs() store.Songs         { return &songsRepo{q: t.tx} }
func (t *txStore) Games() store.Games         { return &gamesRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
