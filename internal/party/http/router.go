package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"

	_ "github.com/aussiebroadwan/campusparty/api/party" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	// Now is the clock views are composed against.
	Now func() time.Time

	// One limiter set per profile, shared by every route that uses it.
	accountLimit httpx.Middleware
	readLimit    httpx.Middleware
	writeLimit   httpx.Middleware
	publicLimit  httpx.Middleware

	store             store.Store
	AccountService    *service.AccountService
	PartyService      *service.PartyService
	MembershipService *service.MembershipService
	PaymentService    *service.PaymentService
	SafetyService     *service.SafetyService
	ExpenseService    *service.ExpenseService
	FeedbackService   *service.FeedbackService
	PlaylistService   *service.PlaylistService
	GameService       *service.GameService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
		Now:          time.Now,
		accountLimit: httpx.RateLimitByIP(httpx.AccountLimit),
		readLimit:    httpx.RateLimitByUser(httpx.ReadLimit),
		writeLimit:   httpx.RateLimitByUser(httpx.WriteLimit),
		publicLimit:  httpx.RateLimitByIP(httpx.PublicLimit),
	}

	// Metrics see every request, including ones the logger or recover
	// middleware answers. They are labelled by the pattern the mux resolves.
	r.middlewares = []httpx.Middleware{
		m.InstrumentHandler(metrics.MuxRoute(r.Mux)),
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerParties()
	r.registerPayments()
	r.registerSafety()
	r.registerExpenses()
	r.registerFeedback()
	r.registerPlaylists()
	r.registerGames()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpx.Chain(httpSwagger.Handler(), r.publicLimit))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Campus Party API
//	@version		0.1.0
//	@description	Party discovery and coordination for university students: parties, membership, the payment gate, designated drivers, shared expenses, feedback, playlists and party games.
//	@description
//	@description				Access tokens are EdDSA signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/campusparty
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// read guards an authenticated read-only endpoint.
func (r *Router) read(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(jwtx.ScopePartyRead, jwtx.ScopePartyWrite),
		r.readLimit,
	)
}

// write guards an authenticated mutation.
func (r *Router) write(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(jwtx.ScopePartyWrite),
		r.writeLimit,
	)
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{AccountService: r.AccountService}

	// Register and login are public and limited by IP to slow down
	// credential stuffing.
	r.Mux.Handle("POST /v1/accounts/register", httpx.Chain(http.HandlerFunc(h.HandleRegister), r.accountLimit))
	r.Mux.Handle("POST /v1/accounts/login", httpx.Chain(http.HandlerFunc(h.HandleLogin), r.accountLimit))

	r.Mux.Handle("GET /v1/accounts/me", r.read(h.HandleMe))
	r.Mux.Handle("PUT /v1/accounts/me/payment-handle", r.write(h.HandlePaymentHandle))
}

func (r *Router) registerParties() {
	h := &PartyHandler{
		PartyService:      r.PartyService,
		MembershipService: r.MembershipService,
		Now:               r.Now,
	}

	r.Mux.Handle("POST /v1/parties", r.write(h.HandleCreate))
	r.Mux.Handle("GET /v1/parties", r.read(h.HandleList))
	r.Mux.Handle("GET /v1/parties/hosted", r.read(h.HandleHosted))
	r.Mux.Handle("GET /v1/parties/joined", r.read(h.HandleJoined))
	r.Mux.Handle("GET /v1/parties/{id}", r.read(h.HandleGet))
	r.Mux.Handle("PATCH /v1/parties/{id}", r.write(h.HandleUpdate))
	r.Mux.Handle("POST /v1/parties/{id}/join", r.write(h.HandleJoin))
	r.Mux.Handle("POST /v1/parties/{id}/leave", r.write(h.HandleLeave))
}

func (r *Router) registerPayments() {
	h := &PaymentHandler{PaymentService: r.PaymentService}

	r.Mux.Handle("GET /v1/parties/{id}/payment", r.read(h.HandleStatus))
	r.Mux.Handle("POST /v1/parties/{id}/payment", r.write(h.HandleSubmit))
	r.Mux.Handle("GET /v1/parties/{id}/payments", r.read(h.HandleList))
	r.Mux.Handle("POST /v1/parties/{id}/payments/{userID}/confirm", r.write(h.HandleConfirm))
}

func (r *Router) registerSafety() {
	h := &SafetyHandler{SafetyService: r.SafetyService, Now: r.Now}

	r.Mux.Handle("GET /v1/parties/{id}/drivers", r.read(h.HandleListDrivers))
	r.Mux.Handle("POST /v1/parties/{id}/drivers", r.write(h.HandleRegisterDriver))
	r.Mux.Handle("DELETE /v1/parties/{id}/drivers", r.write(h.HandleUnregisterDriver))
	r.Mux.Handle("POST /v1/parties/{id}/rides", r.write(h.HandleRequestRide))
	r.Mux.Handle("GET /v1/parties/{id}/rides", r.read(h.HandleListRides))
	r.Mux.Handle("POST /v1/rides/{id}/respond", r.write(h.HandleRespondRide))
	r.Mux.Handle("POST /v1/rides/{id}/complete", r.write(h.HandleCompleteRide))
	r.Mux.Handle("POST /v1/drinks", r.write(h.HandleTrackDrink))
	r.Mux.Handle("GET /v1/drinks", r.read(h.HandleDrinkHistory))
	r.Mux.Handle("POST /v1/bac/calculate", r.read(h.HandleCalculateBAC))
	r.Mux.Handle("GET /v1/bac/estimate", r.read(h.HandleEstimateBAC))
}

func (r *Router) registerExpenses() {
	h := &ExpenseHandler{ExpenseService: r.ExpenseService}

	r.Mux.Handle("GET /v1/parties/{id}/pools", r.read(h.HandleListPools))
	r.Mux.Handle("POST /v1/parties/{id}/pools", r.write(h.HandleCreatePool))
	r.Mux.Handle("POST /v1/pools/{id}/join", r.write(h.HandleJoinPool))
	r.Mux.Handle("POST /v1/pools/{id}/leave", r.write(h.HandleLeavePool))
	r.Mux.Handle("POST /v1/pools/{id}/settle", r.write(h.HandleSettlePool))
	r.Mux.Handle("GET /v1/pools/{id}/expenses", r.read(h.HandleListExpenses))
	r.Mux.Handle("POST /v1/pools/{id}/expenses", r.write(h.HandleAddExpense))
	r.Mux.Handle("GET /v1/pools/{id}/balances", r.read(h.HandleBalances))
	r.Mux.Handle("POST /v1/expenses/{id}/settle", r.write(h.HandleSettleExpense))
	r.Mux.Handle("GET /v1/expenses/to-settle", r.read(h.HandleToSettle))
	r.Mux.Handle("GET /v1/expenses/paid", r.read(h.HandlePaid))
}

func (r *Router) registerFeedback() {
	h := &FeedbackHandler{FeedbackService: r.FeedbackService}

	r.Mux.Handle("GET /v1/parties/{id}/feedback", r.read(h.HandleList))
	r.Mux.Handle("POST /v1/parties/{id}/feedback", r.write(h.HandleSubmit))
	r.Mux.Handle("GET /v1/parties/{id}/feedback/stats", r.read(h.HandleStats))
	r.Mux.Handle("GET /v1/parties/{id}/feedback/mine", r.read(h.HandleMine))
	r.Mux.Handle("GET /v1/hosts/{id}/feedback", r.read(h.HandleHost))
}

func (r *Router) registerPlaylists() {
	h := &PlaylistHandler{PlaylistService: r.PlaylistService}

	r.Mux.Handle("GET /v1/parties/{id}/playlists", r.read(h.HandleList))
	r.Mux.Handle("POST /v1/parties/{id}/playlists", r.write(h.HandleCreate))
	r.Mux.Handle("GET /v1/playlists/{id}/songs", r.read(h.HandleSongs))
	r.Mux.Handle("POST /v1/playlists/{id}/songs", r.write(h.HandleAddSong))
	r.Mux.Handle("GET /v1/playlists/{id}/current", r.read(h.HandleCurrent))
	r.Mux.Handle("POST /v1/songs/{id}/vote", r.write(h.HandleVote))
	r.Mux.Handle("POST /v1/songs/{id}/played", r.write(h.HandlePlayed))
}

func (r *Router) registerGames() {
	h := &GameHandler{GameService: r.GameService}

	r.Mux.Handle("GET /v1/games", r.read(h.HandleCatalog))
	r.Mux.Handle("POST /v1/games", r.write(h.HandleCreate))
	r.Mux.Handle("GET /v1/games/popular", r.read(h.HandlePopular))
	r.Mux.Handle("GET /v1/games/mine", r.read(h.HandleMine))
	r.Mux.Handle("GET /v1/parties/{id}/games", r.read(h.HandleListPartyGames))
	r.Mux.Handle("POST /v1/parties/{id}/games", r.write(h.HandleAddPartyGame))
	r.Mux.Handle("POST /v1/parties/{id}/games/{gameID}/join", r.write(h.HandleJoinPartyGame))
	r.Mux.Handle("DELETE /v1/parties/{id}/games/{gameID}", r.write(h.HandleRemovePartyGame))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), r.publicLimit),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys), r.publicLimit),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys), r.publicLimit),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}

// viewer builds the caller's identity from the verified token claims.
func viewer(r *http.Request) domain.Identity {
	c, _ := httpx.ClaimsFromContext(r.Context())
	return domain.Identity{
		UserID:     c.Subject,
		Username:   c.Username,
		University: c.University,
	}
}
