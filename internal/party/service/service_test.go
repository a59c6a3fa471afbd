package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store/drivers/sqlite"
	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "partyd-service")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newTestStore opens a migrated SQLite file and also returns the raw handle
// so tests can drop indexes underneath the store.
func newTestStore(t *testing.T) (*sqlite.Store, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "party.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	s := sqlite.NewStoreFromDB(db)
	require.NoError(t, s.ApplyMigrations())
	return s, db
}

func seedUser(t *testing.T, s *sqlite.Store, username string) domain.Identity {
	t.Helper()
	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@carleton.edu",
		University:   "Carleton College",
		PasswordHash: "unused",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return domain.Identity{UserID: u.ID, Username: u.Username, University: u.University}
}

func seedParty(t *testing.T, s *sqlite.Store, host domain.Identity, in PartyInput) domain.Party {
	t.Helper()
	if in.Title == "" {
		in.Title = "Formal"
	}
	if in.DateTime.IsZero() {
		in.DateTime = time.Now().Add(24 * time.Hour)
	}
	svc := &PartyService{Store: s}
	p, err := svc.Create(context.Background(), host, in)
	require.NoError(t, err)
	return p
}

// counterValue reads one labelled counter out of a registry.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
