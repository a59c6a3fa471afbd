package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrIndexUnavailable is returned by listing queries when the index they
	// are pinned to does not exist. Callers fall back to Parties().Scan.
	ErrIndexUnavailable = errors.New("store: index unavailable")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories per aggregate. Sub-repositories obtained from a Tx
// run inside that transaction.
type Store interface {
	Users() Users
	Parties() Parties
	Payments() Payments
	Drivers() Drivers
	Rides() Rides
	Drinks() Drinks
	Pools() Pools
	Expenses() Expenses
	Feedback() Feedback
	Playlists() Playlists
	Songs() Songs
	Games() Games

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Nested calls on a Tx fail.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdatePaymentHandle(ctx context.Context, userID, handle string) error
}

type Parties interface {
	// CreateParty writes the party row only. The host joins through AddAttendee.
	CreateParty(ctx context.Context, p domain.Party) error

	// GetParty returns the party with its attendee set and host name.
	GetParty(ctx context.Context, id string) (domain.Party, error)

	UpdateParty(ctx context.Context, p domain.Party) error

	// AddAttendee inserts the membership row only while the party has room.
	// It reports false, without error, when the party is full.
	AddAttendee(ctx context.Context, partyID, userID string, joinedAt time.Time) (bool, error)

	RemoveAttendee(ctx context.Context, partyID, userID string) error
	IsAttendee(ctx context.Context, partyID, userID string) (bool, error)
	CountAttendees(ctx context.Context, partyID string) (int, error)

	// Listing queries are pinned to an index and return ErrIndexUnavailable
	// when it is missing.
	ListByUniversity(ctx context.Context, university string) ([]domain.Party, error)
	ListHostedBy(ctx context.Context, userID string) ([]domain.Party, error)
	ListJoinedBy(ctx context.Context, userID string) ([]domain.Party, error)

	// Scan returns at most limit parties in primary key order without using
	// any secondary index.
	Scan(ctx context.Context, limit int) ([]domain.Party, error)
}

type Payments interface {
	GetPayment(ctx context.Context, partyID, userID string) (domain.PaymentRecord, error)

	// UpsertPayment replaces the payer's record, resetting any confirmation.
	UpsertPayment(ctx context.Context, rec domain.PaymentRecord) error

	ConfirmPayment(ctx context.Context, partyID, userID, confirmedBy string, at time.Time) error
	ListPayments(ctx context.Context, partyID string) ([]domain.PaymentRecord, error)
}

type Drivers interface {
	UpsertDriver(ctx context.Context, d domain.DesignatedDriver) error
	GetDriver(ctx context.Context, partyID, userID string) (domain.DesignatedDriver, error)
	SetDriverActive(ctx context.Context, partyID, userID string, active bool, at time.Time) error
	ListActiveDrivers(ctx context.Context, partyID string) ([]domain.DesignatedDriver, error)

	// DeactivateDriversEndedBefore deactivates drivers of parties dated
	// before cutoff and returns how many rows changed.
	DeactivateDriversEndedBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type Rides interface {
	CreateRide(ctx context.Context, r domain.RideRequest) error
	GetRide(ctx context.Context, id string) (domain.RideRequest, error)

	// HasOpenRide reports whether rider has a pending or accepted request
	// with driver for the party.
	HasOpenRide(ctx context.Context, partyID, driverID, riderID string) (bool, error)

	ListRidesForDriver(ctx context.Context, partyID, driverID string) ([]domain.RideRequest, error)
	UpdateRideStatus(ctx context.Context, id string, status domain.RideStatus, at time.Time) error

	// ExpirePendingRidesEndedBefore expires pending requests of parties dated
	// before cutoff and returns how many rows changed.
	ExpirePendingRidesEndedBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type Drinks interface {
	CreateDrink(ctx context.Context, d domain.Drink) error

	// ListDrinks returns the user's drinks in [from, to), oldest first. Zero
	// bounds are open.
	ListDrinks(ctx context.Context, userID string, from, to time.Time) ([]domain.Drink, error)
}

type Pools interface {
	// CreatePool writes the pool and its initial participants.
	CreatePool(ctx context.Context, p domain.ExpensePool) error
	GetPool(ctx context.Context, id string) (domain.ExpensePool, error)
	ListPools(ctx context.Context, partyID string) ([]domain.ExpensePool, error)
	AddParticipant(ctx context.Context, poolID, userID string, at time.Time) error
	RemoveParticipant(ctx context.Context, poolID, userID string) error
	SettlePool(ctx context.Context, poolID string, at time.Time) error
}

type Expenses interface {
	// CreateExpense writes the expense and one split row per SplitWith entry.
	CreateExpense(ctx context.Context, e domain.Expense) error
	GetExpense(ctx context.Context, id string) (domain.Expense, error)

	// ListExpenses returns the pool's expenses newest first.
	ListExpenses(ctx context.Context, poolID string) ([]domain.Expense, error)

	// ListUnsettledFor returns expenses the user shares but did not pay and
	// has not settled.
	ListUnsettledFor(ctx context.Context, userID string) ([]domain.Expense, error)
	ListPaidBy(ctx context.Context, userID string) ([]domain.Expense, error)

	// MarkSplitSettled returns ErrNotFound when the user is not in the split.
	MarkSplitSettled(ctx context.Context, expenseID, userID string, at time.Time) error
}

type Feedback interface {
	// CreateFeedback returns ErrAlreadyExists on a second submission.
	CreateFeedback(ctx context.Context, f domain.Feedback) error
	ListFeedback(ctx context.Context, partyID string) ([]domain.Feedback, error)
	HasFeedback(ctx context.Context, partyID, userID string) (bool, error)
	ListFeedbackForHost(ctx context.Context, hostID string) ([]domain.Feedback, error)
}

type Playlists interface {
	CreatePlaylist(ctx context.Context, p domain.Playlist) error
	GetPlaylist(ctx context.Context, id string) (domain.Playlist, error)
	ListPlaylists(ctx context.Context, partyID string) ([]domain.Playlist, error)
	SetCurrentSong(ctx context.Context, playlistID, songID string, at time.Time) error
}

type Songs interface {
	// CreateSong writes the song and a vote from whoever added it.
	CreateSong(ctx context.Context, s domain.Song) error
	GetSong(ctx context.Context, id string) (domain.Song, error)

	// ListSongs orders by votes descending then added_at ascending.
	ListSongs(ctx context.Context, playlistID string, includePlayed bool) ([]domain.Song, error)

	AddVote(ctx context.Context, songID, userID string, at time.Time) error
	RemoveVote(ctx context.Context, songID, userID string) error
	MarkSongPlayed(ctx context.Context, songID string) error
}

type Games interface {
	CreateGame(ctx context.Context, g domain.Game) error
	GetGame(ctx context.Context, id string) (domain.Game, error)

	// ListCatalog returns public games and those of university, most
	// popular first.
	ListCatalog(ctx context.Context, university string) ([]domain.Game, error)

	// ListPopular returns public games only, most popular first.
	ListPopular(ctx context.Context, limit int) ([]domain.Game, error)

	// ListCreatedBy returns the user's games, newest first.
	ListCreatedBy(ctx context.Context, userID string) ([]domain.Game, error)

	IncrementPopularity(ctx context.Context, id string) error

	// AddPartyGame writes the party copy. Players are not written.
	AddPartyGame(ctx context.Context, g domain.PartyGame) error
	GetPartyGame(ctx context.Context, id string) (domain.PartyGame, error)

	// ListPartyGames returns the party's active games, newest first.
	ListPartyGames(ctx context.Context, partyID string) ([]domain.PartyGame, error)

	DeactivatePartyGame(ctx context.Context, id string) error

	// AddPlayer returns store.ErrAlreadyExists when the user already joined.
	AddPlayer(ctx context.Context, partyGameID, userID string, at time.Time) error
}
