package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/internal/party/store/drivers/sqlite"
	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "partyd-http")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// Every test registers and logs in several users from one address.
	httpx.AccountLimit = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	srv     *httptest.Server
	client  *partysdk.SDKClient
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, policy domain.PaymentPolicy) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "party.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager("campusparty-test")
	require.NoError(t, err)

	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(km.KeySet, km.Verifier, "test", st, m, logger)
	router.AccountService = &service.AccountService{Store: st, KeyManager: km}
	router.PartyService = &service.PartyService{Store: st, Metrics: m}
	router.MembershipService = &service.MembershipService{Store: st, Policy: policy, Metrics: m}
	router.PaymentService = &service.PaymentService{Store: st, Policy: policy}
	router.SafetyService = &service.SafetyService{Store: st}
	router.ExpenseService = &service.ExpenseService{Store: st}
	router.FeedbackService = &service.FeedbackService{Store: st}
	router.PlaylistService = &service.PlaylistService{Store: st}
	router.GameService = &service.GameService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, client: partysdk.NewSDKClient(srv.URL), metrics: m}
}

func (e *testEnv) signUp(t *testing.T, username string) *partysdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := e.client.Register(ctx, partysdk.RegisterRequest{
		Username: username,
		Email:    username + "@stanford.edu",
		Password: "hunter22",
	})
	require.NoError(t, err)

	session, err := e.client.Authenticate(ctx, username, "hunter22")
	require.NoError(t, err)
	return session
}

func requireCode(t *testing.T, err error, status int, code string) *partysdk.APIError {
	t.Helper()
	var apiErr *partysdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestSystemEndpoints(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	live, err := env.client.GetLiveness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)
	assert.Equal(t, "test", live.Version)

	ready, err := env.client.GetReadiness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	assert.Equal(t, "ok", ready.Checks.Database)

	jwks, err := env.client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	assert.Equal(t, "OKP", jwks.Keys[0].Kty)

	resp, err := http.Get(env.srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `partyd_http_requests_total{method="GET",path="/livez",status="200"} 1`)

	resp, err = http.Get(env.srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticationRequired(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)

	_, err := env.client.NewSession("not-a-jwt").ListParties(context.Background(), "")
	requireCode(t, err, http.StatusUnauthorized, partysdk.ErrorCodeInvalidToken)

	resp, err := http.Get(env.srv.URL + "/v1/parties/hosted")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "invalid_token")
}

func TestAccounts(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	_, err := env.client.Register(ctx, partysdk.RegisterRequest{
		Username: "gmail", Email: "someone@gmail.com", Password: "hunter22",
	})
	requireCode(t, err, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest)

	sam := env.signUp(t, "sam")

	_, err = env.client.Register(ctx, partysdk.RegisterRequest{
		Username: "sam", Email: "other@stanford.edu", Password: "hunter22",
	})
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeConflict)

	_, err = env.client.Login(ctx, "sam", "wrong-password")
	requireCode(t, err, http.StatusUnauthorized, partysdk.ErrorCodeInvalidCredential)

	me, err := sam.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sam", me.Username)
	assert.Equal(t, "Stanford University", me.University)

	require.NoError(t, sam.SetPaymentHandle(ctx, "@sam-pays"))
	me, err = sam.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "@sam-pays", me.PaymentHandle)
}

func TestPartyLifecycle(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	host := env.signUp(t, "host")
	guest := env.signUp(t, "guest")
	late := env.signUp(t, "late")

	party, err := host.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:        "Finals are over",
		Location:     "Wilbur Hall",
		DateTime:     time.Now().Add(48 * time.Hour).UTC(),
		MaxAttendees: 2,
		Payment:      &partysdk.PaymentInstructions{Required: true, Amount: 5, Recipient: "@host"},
	})
	require.NoError(t, err)
	assert.True(t, party.IsHost)
	assert.True(t, party.IsJoined)
	assert.False(t, party.IsPartyOver)
	assert.Equal(t, "Stanford University", party.University)
	assert.Equal(t, "host", party.HostName)

	t.Run("listing by university", func(t *testing.T) {
		list, err := guest.ListParties(ctx, "")
		require.NoError(t, err)
		require.Len(t, list.Parties, 1)
		assert.False(t, list.Parties[0].IsHost)
		assert.False(t, list.Parties[0].IsJoined)

		list, err = guest.ListParties(ctx, "Carleton College")
		require.NoError(t, err)
		assert.Empty(t, list.Parties)
	})

	t.Run("join needs payment", func(t *testing.T) {
		_, err := guest.JoinParty(ctx, party.ID)
		apiErr := requireCode(t, err, http.StatusPaymentRequired, partysdk.ErrorCodePaymentRequired)
		require.NotNil(t, apiErr.Payment)
		assert.Equal(t, 5.0, apiErr.Payment.Amount)
		assert.Equal(t, "@host", apiErr.Payment.Recipient)

		_, err = guest.SubmitPayment(ctx, party.ID, "venmo-123")
		require.NoError(t, err)

		status, err := guest.PaymentStatus(ctx, party.ID)
		require.NoError(t, err)
		assert.True(t, status.IsPaid)
		assert.True(t, status.Satisfied)

		view, err := guest.JoinParty(ctx, party.ID)
		require.NoError(t, err)
		assert.True(t, view.IsJoined)
		assert.ElementsMatch(t, []string{party.HostID, me(t, guest).ID}, view.Attendees)
	})

	t.Run("full party", func(t *testing.T) {
		_, err := late.SubmitPayment(ctx, party.ID, "venmo-456")
		require.NoError(t, err)

		_, err = late.JoinParty(ctx, party.ID)
		requireCode(t, err, http.StatusConflict, partysdk.ErrorCodePartyFull)
	})

	t.Run("host cannot leave", func(t *testing.T) {
		_, err := host.LeaveParty(ctx, party.ID)
		requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeHostCannotLeave)
	})

	t.Run("guest leaves", func(t *testing.T) {
		view, err := guest.LeaveParty(ctx, party.ID)
		require.NoError(t, err)
		assert.False(t, view.IsJoined)
		assert.Equal(t, []string{party.HostID}, view.Attendees)
	})

	t.Run("only the host updates", func(t *testing.T) {
		title := "Finals are really over"
		_, err := guest.UpdateParty(ctx, party.ID, partysdk.UpdatePartyRequest{Title: &title})
		requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)

		view, err := host.UpdateParty(ctx, party.ID, partysdk.UpdatePartyRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, view.Title)
	})

	t.Run("payments list is host only", func(t *testing.T) {
		_, err := guest.ListPayments(ctx, party.ID)
		requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)

		list, err := host.ListPayments(ctx, party.ID)
		require.NoError(t, err)
		assert.Len(t, list.Payments, 2)
	})

	t.Run("unknown party", func(t *testing.T) {
		_, err := guest.GetParty(ctx, "01J0000000000000000000000")
		requireCode(t, err, http.StatusNotFound, partysdk.ErrorCodeNotFound)
	})

	t.Run("feedback before the party ends", func(t *testing.T) {
		_, err := host.SubmitFeedback(ctx, party.ID, partysdk.FeedbackRequest{Rating: 5})
		requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeConflict)
	})

	assert.Equal(t, 1.0, counter(t, env, "partyd_membership_operations_total",
		map[string]string{"op": "join", "result": "full"}))
}

func TestPartyAfterItHappened(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	host := env.signUp(t, "host")
	guest := env.signUp(t, "guest")

	party, err := host.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:    "Last night",
		Location: "Branner",
		DateTime: time.Now().Add(-2 * time.Hour).UTC(),
	})
	require.NoError(t, err)
	assert.True(t, party.IsPartyOver)

	_, err = guest.JoinParty(ctx, party.ID)
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodePartyOver)

	_, err = guest.LeaveParty(ctx, party.ID)
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodePartyOver)

	_, err = host.SubmitFeedback(ctx, party.ID, partysdk.FeedbackRequest{Rating: 5})
	requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)

	view, err := guest.GetParty(ctx, party.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{party.HostID}, view.Attendees)

	assert.Equal(t, 1.0, counter(t, env, "partyd_membership_operations_total",
		map[string]string{"op": "join", "result": "party_over"}))
}

func TestPartyValidation(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	host := env.signUp(t, "host")

	_, err := host.CreateParty(context.Background(), partysdk.CreatePartyRequest{
		Location: "Nowhere",
		DateTime: time.Now().Add(time.Hour),
	})
	apiErr := requireCode(t, err, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest)
	assert.Contains(t, apiErr.Description, "title")

	resp, err := http.Post(env.srv.URL+"/v1/parties", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSafetyEndpoints(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	host := env.signUp(t, "host")
	rider := env.signUp(t, "rider")

	party, err := host.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:    "Study break",
		Location: "Green Library",
		DateTime: time.Now().Add(24 * time.Hour).UTC(),
	})
	require.NoError(t, err)
	_, err = rider.JoinParty(ctx, party.ID)
	require.NoError(t, err)

	driver, err := host.RegisterDriver(ctx, party.ID, partysdk.DriverRequest{Vehicle: "Civic", Seats: 3})
	require.NoError(t, err)
	assert.True(t, driver.Active)

	drivers, err := rider.ListDrivers(ctx, party.ID)
	require.NoError(t, err)
	require.Len(t, drivers.Drivers, 1)

	ride, err := rider.RequestRide(ctx, party.ID, partysdk.RideRequest{
		DriverID:       driver.UserID,
		PickupLocation: "Green Library",
		Destination:    "Roble",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", ride.Status)

	_, err = rider.RequestRide(ctx, party.ID, partysdk.RideRequest{
		DriverID: driver.UserID, PickupLocation: "Green Library", Destination: "Roble",
	})
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeConflict)

	_, err = rider.RespondToRide(ctx, ride.ID, true)
	requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)

	answered, err := host.RespondToRide(ctx, ride.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "accepted", answered.Status)

	_, err = rider.CompleteRide(ctx, ride.ID)
	requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)
	done, err := host.CompleteRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	_, err = host.CompleteRide(ctx, ride.ID)
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeConflict)

	drink, err := rider.TrackDrink(ctx, partysdk.DrinkRequest{PartyID: party.ID})
	require.NoError(t, err)
	assert.Equal(t, "other", drink.Type)
	assert.InDelta(t, 1.0, drink.StandardDrinks, 0.001)

	history, err := rider.DrinkHistory(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, history.Drinks, 1)

	bac, err := rider.CalculateBAC(ctx, partysdk.BACRequest{Gender: "male", WeightLbs: 160, Drinks: 3, Hours: 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.632, bac.BAC, 0.0005)

	est, err := rider.EstimateBAC(ctx, "female", 140)
	require.NoError(t, err)
	assert.Equal(t, 1, est.Drinks)
	assert.Greater(t, est.BAC, 0.0)

	for _, weight := range []string{"abc", "NaN", "Inf", "-Inf", "0"} {
		resp, err := doAuth(t, env, rider, http.MethodGet, "/v1/bac/estimate?weight_lbs="+weight)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, weight)
	}

	resp, err := doAuth(t, env, rider, http.MethodPost, "/v1/bac/calculate")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "empty body")

	resp, err = doAuth(t, env, rider, http.MethodGet, "/v1/drinks?date=yesterday")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpensesAndPlaylistsEndpoints(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	host := env.signUp(t, "host")
	guest := env.signUp(t, "guest")
	guestID := me(t, guest).ID

	party, err := host.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:    "Potluck",
		Location: "Lagunita",
		DateTime: time.Now().Add(24 * time.Hour).UTC(),
	})
	require.NoError(t, err)
	_, err = guest.JoinParty(ctx, party.ID)
	require.NoError(t, err)

	pool, err := host.CreatePool(ctx, party.ID, partysdk.PoolRequest{Name: "Snacks"})
	require.NoError(t, err)
	require.NoError(t, guest.JoinPool(ctx, pool.ID))

	expense, err := host.AddExpense(ctx, pool.ID, partysdk.ExpenseRequest{Description: "Chips", Amount: 20})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{party.HostID, guestID}, expense.SplitWith)

	owed, err := guest.ExpensesToSettle(ctx)
	require.NoError(t, err)
	require.Len(t, owed.Expenses, 1)

	balances, err := guest.PoolBalances(ctx, pool.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, balances.FairShare, 0.001)
	require.Len(t, balances.Transfers, 1)
	assert.Equal(t, guestID, balances.Transfers[0].From)
	assert.Equal(t, party.HostID, balances.Transfers[0].To)

	require.NoError(t, guest.SettleExpense(ctx, expense.ID))
	owed, err = guest.ExpensesToSettle(ctx)
	require.NoError(t, err)
	assert.Empty(t, owed.Expenses)

	err = host.LeavePool(ctx, pool.ID)
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeConflict)

	playlist, err := guest.CreatePlaylist(ctx, party.ID, partysdk.PlaylistRequest{Name: "Bangers", VoteRequired: true, MinVotes: 2})
	require.NoError(t, err)

	song, err := guest.AddSong(ctx, playlist.ID, partysdk.SongRequest{Title: "Mr. Brightside", Artist: "The Killers"})
	require.NoError(t, err)
	assert.Equal(t, 1, song.Votes, "adding a song votes for it")

	_, err = host.MarkPlayed(ctx, song.ID)
	requireCode(t, err, http.StatusConflict, partysdk.ErrorCodeConflict)

	vote, err := host.ToggleVote(ctx, song.ID)
	require.NoError(t, err)
	assert.True(t, vote.Voted)
	assert.Equal(t, 2, vote.Song.Votes)

	played, err := host.MarkPlayed(ctx, song.ID)
	require.NoError(t, err)
	assert.True(t, played.Played)

	current, err := guest.CurrentSong(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, song.ID, current.ID)

	queue, err := guest.ListSongs(ctx, playlist.ID, false)
	require.NoError(t, err)
	assert.Empty(t, queue.Songs)
}

func TestGamesEndpoints(t *testing.T) {
	env := newTestEnv(t, domain.PolicyTrust)
	ctx := context.Background()

	host := env.signUp(t, "host")
	guest := env.signUp(t, "guest")
	outsider := env.signUp(t, "outsider")
	guestID := me(t, guest).ID

	party, err := host.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:    "Game night",
		Location: "Toyon",
		DateTime: time.Now().Add(24 * time.Hour).UTC(),
	})
	require.NoError(t, err)
	_, err = guest.JoinParty(ctx, party.ID)
	require.NoError(t, err)

	_, err = guest.CreateGame(ctx, partysdk.GameRequest{Name: "Kings"})
	apiErr := requireCode(t, err, http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest)
	assert.Contains(t, apiErr.Description, "description")

	game, err := guest.CreateGame(ctx, partysdk.GameRequest{Name: "Kings", Description: "Cards in a circle", Rules: "Draw a card", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "drinking", game.Category)
	assert.Equal(t, "Stanford University", game.University)

	catalog, err := host.GameCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog.Games, 1)

	mine, err := guest.MyGames(ctx)
	require.NoError(t, err)
	require.Len(t, mine.Games, 1)

	_, err = guest.AddPartyGame(ctx, party.ID, game.ID)
	requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)
	_, err = host.AddPartyGame(ctx, party.ID, "01J0000000000000000000000")
	requireCode(t, err, http.StatusNotFound, partysdk.ErrorCodeNotFound)

	pg, err := host.AddPartyGame(ctx, party.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kings", pg.Name)
	assert.Empty(t, pg.Players)

	_, err = outsider.JoinPartyGame(ctx, party.ID, pg.ID)
	requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)
	joined, err := guest.JoinPartyGame(ctx, party.ID, pg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{guestID}, joined.Players)

	popular, err := outsider.PopularGames(ctx, 5)
	require.NoError(t, err)
	require.Len(t, popular.Games, 1)
	assert.Equal(t, 1, popular.Games[0].Popularity)

	resp, err := doAuth(t, env, guest, http.MethodGet, "/v1/games/popular?limit=lots")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	list, err := guest.ListPartyGames(ctx, party.ID)
	require.NoError(t, err)
	require.Len(t, list.Games, 1)

	err = guest.RemovePartyGame(ctx, party.ID, pg.ID)
	requireCode(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)
	require.NoError(t, host.RemovePartyGame(ctx, party.ID, pg.ID))

	list, err = guest.ListPartyGames(ctx, party.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Games)

	assert.Equal(t, 1.0, counter(t, env, "partyd_http_requests_total",
		map[string]string{"method": "POST", "path": "/v1/parties/{id}/games/{gameID}/join", "status": "200"}))
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"wrapped validation", fmt.Errorf("%w: title is required", service.ErrInvalidParty), http.StatusBadRequest, partysdk.ErrorCodeInvalidRequest},
		{"not found", service.ErrSongNotFound, http.StatusNotFound, partysdk.ErrorCodeNotFound},
		{"not attendee", service.ErrNotAttendee, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},
		{"duplicate feedback", service.ErrFeedbackExists, http.StatusConflict, partysdk.ErrorCodeConflict},
		{"party over", service.ErrPartyOver, http.StatusConflict, partysdk.ErrorCodePartyOver},
		{"host rating", service.ErrHostCannotRate, http.StatusForbidden, partysdk.ErrorCodePermissionDenied},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError, partysdk.ErrorCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			writeServiceError(rec, req, tt.err, "do the thing")

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tt.code+`"`)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "disk on fire")
			}
		})
	}
}

func me(t *testing.T, s *partysdk.Session) *partysdk.Profile {
	t.Helper()
	p, err := s.Me(context.Background())
	require.NoError(t, err)
	return p
}

func doAuth(t *testing.T, env *testEnv, s *partysdk.Session, method, path string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(method, env.srv.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken())
	return http.DefaultClient.Do(req)
}

func counter(t *testing.T, env *testEnv, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := env.metrics.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
