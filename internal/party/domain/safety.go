package domain

import "time"

const (
	DefaultDriverName  = "Anonymous"
	DefaultDriverSeats = 4

	DefaultDrinkType      = "other"
	DefaultAlcoholPct     = 5.0
	DefaultDrinkOunces    = 12.0
	DefaultRidePassengers = 1
)

type DesignatedDriver struct {
	PartyID       string
	UserID        string
	Username      string
	Name          string
	Phone         string
	Vehicle       string
	Seats         int
	DepartureTime *time.Time
	Destination   string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RideStatus string

const (
	RidePending   RideStatus = "pending"
	RideAccepted  RideStatus = "accepted"
	RideDeclined  RideStatus = "declined"
	RideCompleted RideStatus = "completed"
	RideExpired   RideStatus = "expired"
)

type RideRequest struct {
	ID             string
	PartyID        string
	DriverID       string
	RiderID        string
	RiderName      string
	PickupLocation string
	PickupTime     *time.Time
	Destination    string
	Passengers     int
	Status         RideStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Drink struct {
	ID         string
	UserID     string
	PartyID    string // optional
	Type       string
	AlcoholPct float64
	Ounces     float64
	ConsumedAt time.Time
}

// StandardDrinks converts a drink to US standard drinks (0.6 oz ethanol).
func (d Drink) StandardDrinks() float64 {
	return d.Ounces * d.AlcoholPct / 100 / 0.6
}
