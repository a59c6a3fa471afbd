package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aussiebroadwan/campusparty/internal/party/store"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repos run the same
// queries in and out of transactions.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens the SQLite database at dsn. The pool is capped at one
// connection: SQLite allows a single writer, and serialising on the pool
// keeps conditional writes like AddAttendee race free.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

// NewStoreFromDB wraps an already opened handle. Tests use it with sqlmock.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users         { return &usersRepo{q: s.db} }
func (s *Store) Parties() store.Parties     { return &partiesRepo{q: s.db} }
func (s *Store) Payments() store.Payments   { return &paymentsRepo{q: s.db} }
func (s *Store) Drivers() store.Drivers     { return &driversRepo{q: s.db} }
func (s *Store) Rides() store.Rides         { return &ridesRepo{q: s.db} }
func (s *Store) Drinks() store.Drinks       { return &drinksRepo{q: s.db} }
func (s *Store) Pools() store.Pools         { return &poolsRepo{q: s.db} }
func (s *Store) Expenses() store.Expenses   { return &expensesRepo{q: s.db} }
func (s *Store) Feedback() store.Feedback   { return &feedbackRepo{q: s.db} }
func (s *Store) Playlists() store.Playlists { return &playlistsRepo{q: s.db} }
func (s *Store) Songs() store.Songs         { return &songsRepo{q: s.db} }
func (s *Store) Games() store.Games         { return &gamesRepo{q: s.db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapWriteErr turns uniqueness violations into store.ErrAlreadyExists.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// mapIndexErr turns "no such index" from an INDEXED BY clause into
// store.ErrIndexUnavailable.
func mapIndexErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "no such index") {
		return store.ErrIndexUnavailable
	}
	return err
}

// requireRow reports store.ErrNotFound when an UPDATE or DELETE matched nothing.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func ms(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMS(v int64) time.Time { return time.UnixMilli(v).UTC() }

func nullMS(t *time.Time) sql.NullInt64 {
	if t == nil || t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: ms(*t), Valid: true}
}

func fromNullMS(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMS(v.Int64)
	return &t
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// splitIDs parses a space separated group_concat of ULIDs.
func splitIDs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Fields(s)
}
