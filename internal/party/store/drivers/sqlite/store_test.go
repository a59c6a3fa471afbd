package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore("file:" + filepath.Join(t.TempDir(), "party.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@carleton.edu",
		University:   "Carleton College",
		PasswordHash: "argon2id$x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedParty(t *testing.T, s store.Store, host domain.User, capacity int, at time.Time) domain.Party {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	p := domain.Party{
		ID:           idx.New().String(),
		Title:        "Kegger",
		DateTime:     at,
		MaxAttendees: capacity,
		University:   host.University,
		HostID:       host.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Parties().CreateParty(ctx, p))
	added, err := s.Parties().AddAttendee(ctx, p.ID, host.ID, now)
	require.NoError(t, err)
	require.True(t, added)
	return p
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "sam")

	got, err := s.Users().GetUserByUsername(ctx, "sam")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "Carleton College", got.University)

	_, err = s.Users().GetUserByEmail(ctx, "SAM@carleton.edu")
	require.NoError(t, err, "email lookup is case insensitive")

	dup := u
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	require.NoError(t, s.Users().UpdatePaymentHandle(ctx, u.ID, "@sam-venmo"))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "@sam-venmo", got.PaymentHandle)

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPartiesAttendees(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	host := seedUser(t, s, "host")
	a := seedUser(t, s, "alice")
	b := seedUser(t, s, "bob")
	when := time.Date(2026, 11, 1, 22, 0, 0, 0, time.UTC)
	p := seedParty(t, s, host, 2, when)

	added, err := s.Parties().AddAttendee(ctx, p.ID, a.ID, time.Now())
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.Parties().AddAttendee(ctx, p.ID, b.ID, time.Now())
	require.NoError(t, err)
	require.False(t, added, "party at capacity")

	got, err := s.Parties().GetParty(ctx, p.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{host.ID, a.ID}, got.Attendees)
	require.Equal(t, "host", got.HostName)
	require.True(t, got.DateTime.Equal(when))

	_, err = s.Parties().AddAttendee(ctx, p.ID, a.ID, time.Now())
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Parties().RemoveAttendee(ctx, p.ID, a.ID))
	n, err := s.Parties().CountAttendees(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	ok, err := s.Parties().IsAttendee(ctx, p.ID, host.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.Parties().GetParty(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPartyListings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	host := seedUser(t, s, "host")
	guest := seedUser(t, s, "guest")
	base := time.Date(2026, 11, 1, 20, 0, 0, 0, time.UTC)

	later := seedParty(t, s, host, 0, base.Add(48*time.Hour))
	sooner := seedParty(t, s, host, 0, base)

	_, err := s.Parties().AddAttendee(ctx, later.ID, guest.ID, time.Now())
	require.NoError(t, err)

	list, err := s.Parties().ListByUniversity(ctx, "Carleton College")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, sooner.ID, list[0].ID, "ordered by date")

	hosted, err := s.Parties().ListHostedBy(ctx, host.ID)
	require.NoError(t, err)
	require.Len(t, hosted, 2)

	joined, err := s.Parties().ListJoinedBy(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	require.Equal(t, later.ID, joined[0].ID)

	scanned, err := s.Parties().Scan(ctx, 1)
	require.NoError(t, err)
	require.Len(t, scanned, 1)

	t.Run("dropped index", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `DROP INDEX idx_parties_university_date`)
		require.NoError(t, err)

		_, err = s.Parties().ListByUniversity(ctx, "Carleton College")
		require.ErrorIs(t, err, store.ErrIndexUnavailable)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	host := seedUser(t, s, "host")

	boom := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		p := domain.Party{ID: idx.New().String(), Title: "x", University: "U", HostID: host.ID,
			DateTime: time.Now(), CreatedAt: time.Now(), UpdatedAt: time.Now()}
		require.NoError(t, tx.Parties().CreateParty(ctx, p))
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), errTxDone)
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.Parties().ListHostedBy(ctx, host.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPaymentsUpsertAndConfirm(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	host := seedUser(t, s, "host")
	payer := seedUser(t, s, "payer")
	p := seedParty(t, s, host, 0, time.Now().Add(time.Hour))

	_, err := s.Payments().GetPayment(ctx, p.ID, payer.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	rec := domain.PaymentRecord{PartyID: p.ID, UserID: payer.ID, Reference: "venmo 123",
		IsPaid: true, Status: domain.PaymentSelfReported, SubmittedAt: time.Now()}
	require.NoError(t, s.Payments().UpsertPayment(ctx, rec))
	require.NoError(t, s.Payments().ConfirmPayment(ctx, p.ID, payer.ID, host.ID, time.Now()))

	got, err := s.Payments().GetPayment(ctx, p.ID, payer.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentConfirmed, got.Status)
	require.Equal(t, host.ID, got.ConfirmedBy)
	require.NotNil(t, got.ConfirmedAt)
	require.Equal(t, "payer", got.Username)

	rec.Reference = "venmo 456"
	require.NoError(t, s.Payments().UpsertPayment(ctx, rec))
	got, err = s.Payments().GetPayment(ctx, p.ID, payer.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentSelfReported, got.Status, "resubmission resets confirmation")
	require.Nil(t, got.ConfirmedAt)

	require.ErrorIs(t, s.Payments().ConfirmPayment(ctx, p.ID, host.ID, host.ID, time.Now()), store.ErrNotFound)
}

func TestHousekeepingQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	host := seedUser(t, s, "host")
	rider := seedUser(t, s, "rider")
	now := time.Now().UTC()

	old := seedParty(t, s, host, 0, now.Add(-48*time.Hour))
	upcoming := seedParty(t, s, host, 0, now.Add(time.Hour))

	for _, p := range []domain.Party{old, upcoming} {
		require.NoError(t, s.Drivers().UpsertDriver(ctx, domain.DesignatedDriver{
			PartyID: p.ID, UserID: host.ID, Name: "H", Seats: 4, Active: true, CreatedAt: now, UpdatedAt: now,
		}))
		require.NoError(t, s.Rides().CreateRide(ctx, domain.RideRequest{
			ID: idx.New().String(), PartyID: p.ID, DriverID: host.ID, RiderID: rider.ID,
			Passengers: 1, Status: domain.RidePending, CreatedAt: now, UpdatedAt: now,
		}))
	}

	cutoff := now.Add(-12 * time.Hour)
	n, err := s.Rides().ExpirePendingRidesEndedBefore(ctx, cutoff, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = s.Drivers().DeactivateDriversEndedBefore(ctx, cutoff, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	active, err := s.Drivers().ListActiveDrivers(ctx, upcoming.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "host", active[0].Username)

	open, err := s.Rides().HasOpenRide(ctx, old.ID, host.ID, rider.ID)
	require.NoError(t, err)
	require.False(t, open)
}

func TestSongVotesOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	host := seedUser(t, s, "host")
	fan := seedUser(t, s, "fan")
	p := seedParty(t, s, host, 0, time.Now().Add(time.Hour))
	now := time.Now().UTC()

	pl := domain.Playlist{ID: idx.New().String(), PartyID: p.ID, Name: "Bangers", CreatorID: host.ID,
		MinVotes: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Playlists().CreatePlaylist(ctx, pl))

	first := domain.Song{ID: idx.New().String(), PlaylistID: pl.ID, Title: "One", AddedBy: host.ID, AddedAt: now}
	second := domain.Song{ID: idx.New().String(), PlaylistID: pl.ID, Title: "Two", AddedBy: host.ID, AddedAt: now.Add(time.Second)}
	require.NoError(t, s.Songs().CreateSong(ctx, first))
	require.NoError(t, s.Songs().CreateSong(ctx, second))

	songs, err := s.Songs().ListSongs(ctx, pl.ID, false)
	require.NoError(t, err)
	require.Equal(t, []string{first.ID, second.ID}, []string{songs[0].ID, songs[1].ID}, "ties break on added_at")

	require.NoError(t, s.Songs().AddVote(ctx, second.ID, fan.ID, now))
	require.ErrorIs(t, s.Songs().AddVote(ctx, second.ID, fan.ID, now), store.ErrAlreadyExists)

	songs, err = s.Songs().ListSongs(ctx, pl.ID, false)
	require.NoError(t, err)
	require.Equal(t, second.ID, songs[0].ID)
	require.Equal(t, 2, songs[0].Votes)
	require.ElementsMatch(t, []string{host.ID, fan.ID}, songs[0].Voters)

	require.NoError(t, s.Songs().MarkSongPlayed(ctx, second.ID))
	songs, err = s.Songs().ListSongs(ctx, pl.ID, false)
	require.NoError(t, err)
	require.Len(t, songs, 1)

	songs, err = s.Songs().ListSongs(ctx, pl.ID, true)
	require.NoError(t, err)
	require.Len(t, songs, 2)
}

func TestExpenseSplits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	host := seedUser(t, s, "host")
	friend := seedUser(t, s, "friend")
	p := seedParty(t, s, host, 0, time.Now().Add(time.Hour))
	now := time.Now().UTC()

	pool := domain.ExpensePool{ID: idx.New().String(), PartyID: p.ID, Name: "Snacks", CreatorID: host.ID,
		Participants: []string{host.ID, friend.ID}, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Pools().CreatePool(ctx, pool))

	e := domain.Expense{ID: idx.New().String(), PoolID: pool.ID, PartyID: p.ID, Description: "Chips",
		Amount: 12.5, PaidBy: host.ID, SplitWith: []string{host.ID, friend.ID}, CreatedAt: now}
	require.NoError(t, s.Expenses().CreateExpense(ctx, e))

	owed, err := s.Expenses().ListUnsettledFor(ctx, friend.ID)
	require.NoError(t, err)
	require.Len(t, owed, 1)

	owed, err = s.Expenses().ListUnsettledFor(ctx, host.ID)
	require.NoError(t, err)
	require.Empty(t, owed, "payer owes nothing on their own expense")

	require.NoError(t, s.Expenses().MarkSplitSettled(ctx, e.ID, friend.ID, now))
	require.NoError(t, s.Expenses().MarkSplitSettled(ctx, e.ID, friend.ID, now.Add(time.Hour)))
	got, err := s.Expenses().GetExpense(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, []string{friend.ID}, got.SettledBy)

	require.ErrorIs(t, s.Expenses().MarkSplitSettled(ctx, e.ID, "stranger", now), store.ErrNotFound)

	pools, err := s.Pools().ListPools(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.ElementsMatch(t, pool.Participants, pools[0].Participants)
}

func TestGamesCatalogAndPartyGames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	host := seedUser(t, s, "host")
	guest := seedUser(t, s, "guest")
	p := seedParty(t, s, host, 0, time.Now().Add(time.Hour))

	base := time.Now().UTC().Truncate(time.Millisecond)
	mk := func(name, university string, public bool, popularity int, offset time.Duration) domain.Game {
		g := domain.Game{
			ID:          idx.New().String(),
			Name:        name,
			Description: name + " description",
			Rules:       "drink",
			Category:    domain.DefaultGameCategory,
			University:  university,
			IsPublic:    public,
			CreatorID:   host.ID,
			Popularity:  popularity,
			CreatedAt:   base.Add(offset),
		}
		require.NoError(t, s.Games().CreateGame(ctx, g))
		return g
	}
	flip := mk("Flip Cup", "Carleton College", true, 5, 0)
	local := mk("Knightball", "Carleton College", false, 9, time.Second)
	elsewhere := mk("Quarters", "Oxbow University", false, 20, 2*time.Second)
	beer := mk("Beer Pong", "Oxbow University", true, 1, 3*time.Second)

	catalog, err := s.Games().ListCatalog(ctx, "Carleton College")
	require.NoError(t, err)
	require.Equal(t, []string{local.ID, flip.ID, beer.ID}, gameIDs(catalog), "most popular first, other schools' private games hidden")

	popular, err := s.Games().ListPopular(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{flip.ID, beer.ID}, gameIDs(popular))

	popular, err = s.Games().ListPopular(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popular, 1)

	mine, err := s.Games().ListCreatedBy(ctx, host.ID)
	require.NoError(t, err)
	require.Equal(t, []string{beer.ID, elsewhere.ID, local.ID, flip.ID}, gameIDs(mine), "newest first")

	require.NoError(t, s.Games().IncrementPopularity(ctx, flip.ID))
	got, err := s.Games().GetGame(ctx, flip.ID)
	require.NoError(t, err)
	require.Equal(t, 6, got.Popularity)
	require.True(t, got.IsPublic)
	require.Equal(t, flip.CreatedAt, got.CreatedAt)
	require.ErrorIs(t, s.Games().IncrementPopularity(ctx, "missing"), store.ErrNotFound)

	_, err = s.Games().GetGame(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	older := domain.PartyGame{
		ID: idx.New().String(), PartyID: p.ID, GameID: flip.ID, Name: flip.Name, Description: flip.Description,
		Rules: flip.Rules, Category: flip.Category, AddedBy: host.ID, Active: true, AddedAt: base,
	}
	newer := older
	newer.ID = idx.New().String()
	newer.GameID = beer.ID
	newer.Name = beer.Name
	newer.AddedAt = base.Add(time.Minute)
	require.NoError(t, s.Games().AddPartyGame(ctx, older))
	require.NoError(t, s.Games().AddPartyGame(ctx, newer))

	require.NoError(t, s.Games().AddPlayer(ctx, older.ID, guest.ID, base))
	require.ErrorIs(t, s.Games().AddPlayer(ctx, older.ID, guest.ID, base), store.ErrAlreadyExists)

	list, err := s.Games().ListPartyGames(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID, "newest first")
	require.Equal(t, []string{guest.ID}, list[1].Players)
	require.Empty(t, list[0].Players)

	require.NoError(t, s.Games().DeactivatePartyGame(ctx, newer.ID))
	list, err = s.Games().ListPartyGames(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	pg, err := s.Games().GetPartyGame(ctx, newer.ID)
	require.NoError(t, err)
	require.False(t, pg.Active, "inactive games can still be fetched")
}

func gameIDs(games []domain.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}
