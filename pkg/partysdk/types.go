package partysdk

import (
	"time"

	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the machine readable code (e.g. "party_full").
	Error string `json:"error"`

	// ErrorDescription is a human readable description of the error.
	ErrorDescription string `json:"error_description"`

	// Payment is only set on 402 payment_required responses.
	Payment *PaymentInstructions `json:"payment,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the public key set tokens are signed with.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Account Types
// ============================================================================

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest accepts either a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by login. There is no refresh token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Profile   `json:"user"`
}

type Profile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	University    string    `json:"university"`
	PaymentHandle string    `json:"payment_handle,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentHandleRequest struct {
	PaymentHandle string `json:"payment_handle"`
}

// ============================================================================
// Party Types
// ============================================================================

// PaymentInstructions describe what an attendee must pay the host.
type PaymentInstructions struct {
	Required    bool    `json:"required"`
	Amount      float64 `json:"amount"`
	Recipient   string  `json:"recipient,omitempty"`
	Description string  `json:"description,omitempty"`
}

type CreatePartyRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description,omitempty"`
	Location     string               `json:"location"`
	DateTime     time.Time            `json:"date_time"`
	MaxAttendees int                  `json:"max_attendees,omitempty"`
	Payment      *PaymentInstructions `json:"payment,omitempty"`
}

// UpdatePartyRequest is a partial update. Omitted fields are left alone.
type UpdatePartyRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Location     *string    `json:"location,omitempty"`
	DateTime     *time.Time `json:"date_time,omitempty"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
}

// PartyView is a party as seen by the caller.
type PartyView struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Location     string              `json:"location"`
	DateTime     time.Time           `json:"date_time"`
	MaxAttendees int                 `json:"max_attendees"`
	University   string              `json:"university"`
	HostID       string              `json:"host_id"`
	HostName     string              `json:"host_name"`
	Attendees    []string            `json:"attendees"`
	Payment      PaymentInstructions `json:"payment"`
	IsHost       bool                `json:"is_host"`
	IsJoined     bool                `json:"is_joined"`
	IsPartyOver  bool                `json:"is_party_over"`
	IsFull       bool                `json:"is_full"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type PartyList struct {
	Parties []PartyView `json:"parties"`
}

// ============================================================================
// Payment Types
// ============================================================================

type SubmitPaymentRequest struct {
	Reference string `json:"reference"`
}

// PaymentRecord is a self-reported payment.
type PaymentRecord struct {
	PartyID     string     `json:"party_id"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username,omitempty"`
	Reference   string     `json:"reference,omitempty"`
	IsPaid      bool       `json:"is_paid"`
	Status      string     `json:"status,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy string     `json:"confirmed_by,omitempty"`
}

// PaymentStatus is the caller's standing against a party's payment gate.
type PaymentStatus struct {
	PaymentRecord
	Required  bool                `json:"required"`
	Payment   PaymentInstructions `json:"payment"`
	Satisfied bool                `json:"satisfied"`
}

type PaymentList struct {
	Payments []PaymentRecord `json:"payments"`
}

// ============================================================================
// Safety Types
// ============================================================================

type DriverRequest struct {
	Name          string     `json:"name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Vehicle       string     `json:"vehicle,omitempty"`
	Seats         int        `json:"seats,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	Destination   string     `json:"destination,omitempty"`
}

type Driver struct {
	PartyID       string     `json:"party_id"`
	UserID        string     `json:"user_id"`
	Username      string     `json:"username"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	Vehicle       string     `json:"vehicle,omitempty"`
	Seats         int        `json:"seats"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	Destination   string     `json:"destination,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
}

type DriverList struct {
	Drivers []Driver `json:"drivers"`
}

type RideRequest struct {
	DriverID       string     `json:"driver_id"`
	PickupLocation string     `json:"pickup_location"`
	PickupTime     *time.Time `json:"pickup_time,omitempty"`
	Destination    string     `json:"destination"`
	Passengers     int        `json:"passengers,omitempty"`
}

type Ride struct {
	ID             string     `json:"id"`
	PartyID        string     `json:"party_id"`
	DriverID       string     `json:"driver_id"`
	RiderID        string     `json:"rider_id"`
	RiderName      string     `json:"rider_name"`
	PickupLocation string     `json:"pickup_location"`
	PickupTime     *time.Time `json:"pickup_time,omitempty"`
	Destination    string     `json:"destination"`
	Passengers     int        `json:"passengers"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type RideList struct {
	Rides []Ride `json:"rides"`
}

type RespondRideRequest struct {
	Accept bool `json:"accept"`
}

type DrinkRequest struct {
	PartyID    string     `json:"party_id,omitempty"`
	Type       string     `json:"type,omitempty"`
	AlcoholPct float64    `json:"alcohol_pct,omitempty"`
	Ounces     float64    `json:"ounces,omitempty"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

type Drink struct {
	ID             string    `json:"id"`
	PartyID        string    `json:"party_id,omitempty"`
	Type           string    `json:"type"`
	AlcoholPct     float64   `json:"alcohol_pct"`
	Ounces         float64   `json:"ounces"`
	StandardDrinks float64   `json:"standard_drinks"`
	ConsumedAt     time.Time `json:"consumed_at"`
}

type DrinkList struct {
	Drinks []Drink `json:"drinks"`
}

type BACRequest struct {
	Gender    string  `json:"gender"`
	WeightLbs float64 `json:"weight_lbs"`
	Drinks    float64 `json:"drinks"`
	Hours     float64 `json:"hours"`
}

// BACResponse is an estimate only and must not be relied on to decide
// whether someone can drive.
type BACResponse struct {
	BAC            float64 `json:"bac"`
	StandardDrinks float64 `json:"standard_drinks"`
	Hours          float64 `json:"hours"`
	Drinks         int     `json:"drinks,omitempty"`
}

// ============================================================================
// Expense Types
// ============================================================================

type PoolRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	TotalAmount   float64  `json:"total_amount,omitempty"`
	PaymentHandle string   `json:"payment_handle,omitempty"`
	Participants  []string `json:"participants,omitempty"`
}

type Pool struct {
	ID            string    `json:"id"`
	PartyID       string    `json:"party_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	TotalAmount   float64   `json:"total_amount"`
	CreatorID     string    `json:"creator_id"`
	Participants  []string  `json:"participants"`
	PaymentHandle string    `json:"payment_handle,omitempty"`
	IsActive      bool      `json:"is_active"`
	IsSettled     bool      `json:"is_settled"`
	CreatedAt     time.Time `json:"created_at"`
}

type PoolList struct {
	Pools []Pool `json:"pools"`
}

type ExpenseRequest struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	PaidBy      string   `json:"paid_by,omitempty"`
	SplitWith   []string `json:"split_with,omitempty"`
}

type Expense struct {
	ID          string    `json:"id"`
	PoolID      string    `json:"pool_id"`
	PartyID     string    `json:"party_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	PaidBy      string    `json:"paid_by"`
	SplitWith   []string  `json:"split_with"`
	SettledBy   []string  `json:"settled_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExpenseList struct {
	Expenses []Expense `json:"expenses"`
}

type Balance struct {
	UserID string  `json:"user_id"`
	Paid   float64 `json:"paid"`
	Net    float64 `json:"net"`
	Owes   float64 `json:"owes"`
	Owed   float64 `json:"owed"`
}

type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type PoolBalances struct {
	PoolID    string     `json:"pool_id"`
	Total     float64    `json:"total"`
	FairShare float64    `json:"fair_share"`
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
}

// ============================================================================
// Feedback Types
// ============================================================================

// FeedbackRequest submits a rating. Anonymous defaults to true.
type FeedbackRequest struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Anonymous *bool  `json:"anonymous,omitempty"`
}

type Feedback struct {
	ID          string    `json:"id"`
	PartyID     string    `json:"party_id"`
	UserID      string    `json:"user_id,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

type FeedbackList struct {
	Feedback []Feedback `json:"feedback"`
}

type FeedbackStats struct {
	AverageRating float64     `json:"average_rating"`
	Total         int         `json:"total"`
	Distribution  map[int]int `json:"distribution"`
}

type FeedbackSubmitted struct {
	Submitted bool `json:"submitted"`
}

// ============================================================================
// Playlist Types
// ============================================================================

type PlaylistRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	VoteRequired bool   `json:"vote_required,omitempty"`
	MinVotes     int    `json:"min_votes,omitempty"`
}

type Playlist struct {
	ID            string    `json:"id"`
	PartyID       string    `json:"party_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatorID     string    `json:"creator_id"`
	VoteRequired  bool      `json:"vote_required"`
	MinVotes      int       `json:"min_votes"`
	CurrentSongID string    `json:"current_song_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PlaylistList struct {
	Playlists []Playlist `json:"playlists"`
}

type SongRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
}

type Song struct {
	ID          string    `json:"id"`
	PlaylistID  string    `json:"playlist_id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Album       string    `json:"album,omitempty"`
	DurationSec int       `json:"duration_sec,omitempty"`
	AddedBy     string    `json:"added_by"`
	Votes       int       `json:"votes"`
	Voters      []string  `json:"voters"`
	Played      bool      `json:"played"`
	AddedAt     time.Time `json:"added_at"`
}

type SongList struct {
	Songs []Song `json:"songs"`
}

type VoteResponse struct {
	Song  Song `json:"song"`
	Voted bool `json:"voted"`
}

// ============================================================================
// Game Types
// ============================================================================

type GameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rules       string `json:"rules"`
	Category    string `json:"category,omitempty"`
	IsPublic    bool   `json:"is_public,omitempty"`
}

type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rules       string    `json:"rules"`
	Category    string    `json:"category"`
	University  string    `json:"university"`
	IsPublic    bool      `json:"is_public"`
	CreatorID   string    `json:"creator_id"`
	Popularity  int       `json:"popularity"`
	CreatedAt   time.Time `json:"created_at"`
}

type GameList struct {
	Games []Game `json:"games"`
}

type AddPartyGameRequest struct {
	GameID string `json:"game_id"`
}

type PartyGame struct {
	ID          string    `json:"id"`
	PartyID     string    `json:"party_id"`
	GameID      string    `json:"game_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rules       string    `json:"rules"`
	Category    string    `json:"category"`
	AddedBy     string    `json:"added_by"`
	Players     []string  `json:"players"`
	AddedAt     time.Time `json:"added_at"`
}

type PartyGameList struct {
	Games []PartyGame `json:"games"`
}
