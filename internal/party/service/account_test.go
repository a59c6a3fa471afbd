package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
)

func TestUniversityFromEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  string
	}{
		{"student@carleton.edu", "Carleton College"},
		{"student@UMN.EDU", "University of Minnesota"},
		{"student@berkeley.edu", "University of California, Berkeley"},
		{"student@unmapped-school.edu", "Unmapped-school University"},
		{"student@oxbow.edu", "Oxbow University"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			require.Equal(t, tt.want, UniversityFromEmail(tt.email))
		})
	}
}

func TestIsEduEmail(t *testing.T) {
	t.Parallel()

	require.True(t, IsEduEmail("a@mit.edu"))
	require.True(t, IsEduEmail(" A@MIT.EDU "))
	require.False(t, IsEduEmail("a@gmail.com"))
	require.False(t, IsEduEmail("@mit.edu"))
	require.False(t, IsEduEmail("a@.edu"))
	require.False(t, IsEduEmail("a@mit.edu.au"))
}

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	s, _ := newTestStore(t)
	km, err := jwtx.NewEphemeralKeyManager("campusparty-test")
	require.NoError(t, err)
	return &AccountService{Store: s, KeyManager: km}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)

	u, err := svc.Register(ctx, "maya", "Maya@Carleton.edu", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "maya@carleton.edu", u.Email)
	require.Equal(t, "Carleton College", u.University)
	require.NotEqual(t, "hunter22", u.PasswordHash)

	tests := []struct {
		name                      string
		username, email, password string
		want                      error
	}{
		{"non edu", "kai", "kai@gmail.com", "hunter22", ErrNonEduEmail},
		{"short password", "kai", "kai@mit.edu", "12345", ErrWeakPassword},
		{"blank username", "  ", "kai@mit.edu", "hunter22", ErrInvalidUsername},
		{"username taken", "maya", "other@mit.edu", "hunter22", ErrUsernameTaken},
		{"email taken", "kai", "maya@carleton.edu", "hunter22", ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// racingStore hides existing accounts from the first lookups, as if another
// registration committed between the uniqueness checks and the insert.
type racingStore struct {
	store.Store
	users *racingUsers
}

func (s racingStore) Users() store.Users { return s.users }

type racingUsers struct {
	store.Users
	hidden int
}

func (u *racingUsers) hide() bool {
	if u.hidden > 0 {
		u.hidden--
		return true
	}
	return false
}

func (u *racingUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if u.hide() {
		return domain.User{}, store.ErrNotFound
	}
	return u.Users.GetUserByUsername(ctx, username)
}

func (u *racingUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if u.hide() {
		return domain.User{}, store.ErrNotFound
	}
	return u.Users.GetUserByEmail(ctx, email)
}

func TestRegisterRaceReportsTheCollidingField(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)

	_, err := svc.Register(ctx, "maya", "maya@carleton.edu", "hunter22")
	require.NoError(t, err)

	tests := []struct {
		name            string
		username, email string
		want            error
	}{
		{"email", "kai", "maya@carleton.edu", ErrEmailTaken},
		{"username", "maya", "kai@mit.edu", ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			racing := *svc
			racing.Store = racingStore{Store: svc.Store, users: &racingUsers{Users: svc.Store.Users(), hidden: 2}}

			_, err := racing.Register(ctx, tt.username, tt.email, "hunter22")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)

	u, err := svc.Register(ctx, "maya", "maya@unmapped-school.edu", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "maya", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	for _, id := range []string{"maya", "MAYA@unmapped-school.edu"} {
		pair, err := svc.Login(ctx, id, "hunter22")
		require.NoError(t, err)
		require.Equal(t, "Bearer", pair.TokenType)
		require.Positive(t, pair.ExpiresIn)

		claims, err := svc.KeyManager.Verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, "maya", claims.Username)
		require.Equal(t, "Unmapped-school University", claims.University)
		require.ElementsMatch(t, []string{jwtx.ScopePartyRead, jwtx.ScopePartyWrite}, claims.Scopes)
	}
}

func TestProfileAndPaymentHandle(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)

	u, err := svc.Register(ctx, "maya", "maya@mit.edu", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePaymentHandle(ctx, u.ID, " @maya-v "))
	got, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "@maya-v", got.PaymentHandle)

	_, err = svc.Profile(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, svc.UpdatePaymentHandle(ctx, "missing", "x"), ErrUserNotFound)
}
