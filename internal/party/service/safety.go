package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

var (
	ErrDriverNotFound       = errors.New("designated driver not found")
	ErrDriverUnavailable    = errors.New("driver is not available")
	ErrRideAlreadyRequested = errors.New("ride already requested from this driver")
	ErrRideNotFound         = errors.New("ride request not found")
	ErrRideNotPending       = errors.New("ride request is no longer pending")
	ErrRideNotAccepted      = errors.New("ride request has not been accepted")
	ErrInvalidRide          = errors.New("invalid ride request")
	ErrInvalidDriver        = errors.New("invalid driver registration")
	ErrInvalidDrink         = errors.New("invalid drink")
)

type DriverInput struct {
	Name          string
	Phone         string
	Vehicle       string
	Seats         int
	DepartureTime *time.Time
	Destination   string
}

type RideInput struct {
	DriverID       string
	PickupLocation string
	PickupTime     *time.Time
	Destination    string
	Passengers     int
}

type DrinkInput struct {
	PartyID    string
	Type       string
	AlcoholPct float64
	Ounces     float64
	ConsumedAt *time.Time
}

// SafetyService covers designated drivers, ride requests and drink tracking.
type SafetyService struct {
	Store store.Store
}

// RegisterDriver signs viewer up as a designated driver for the party.
// Registering again updates the details and re-activates the driver.
func (s *SafetyService) RegisterDriver(ctx context.Context, partyID string, viewer domain.Identity, in DriverInput) (domain.DesignatedDriver, error) {
	log := slogx.FromContext(ctx)

	if in.Seats < 0 {
		return domain.DesignatedDriver{}, fmt.Errorf("%w: seats cannot be negative", ErrInvalidDriver)
	}

	var out domain.DesignatedDriver
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := requireAttendee(ctx, tx, partyID, viewer.UserID); err != nil {
			return err
		}

		now := time.Now().UTC()
		d := domain.DesignatedDriver{
			PartyID:       partyID,
			UserID:        viewer.UserID,
			Name:          strings.TrimSpace(in.Name),
			Phone:         strings.TrimSpace(in.Phone),
			Vehicle:       strings.TrimSpace(in.Vehicle),
			Seats:         in.Seats,
			DepartureTime: in.DepartureTime,
			Destination:   strings.TrimSpace(in.Destination),
			Active:        true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if d.Name == "" {
			d.Name = domain.DefaultDriverName
		}
		if d.Seats == 0 {
			d.Seats = domain.DefaultDriverSeats
		}

		if err := tx.Drivers().UpsertDriver(ctx, d); err != nil {
			return err
		}
		var err error
		out, err = tx.Drivers().GetDriver(ctx, partyID, viewer.UserID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrPartyNotFound) && !errors.Is(err, ErrNotAttendee) {
			log.Error("failed to register driver", slog.String("party_id", partyID), slog.Any("error", err))
		}
		return domain.DesignatedDriver{}, err
	}

	log.Info("designated driver registered",
		slog.String("party_id", partyID),
		slog.String("user_id", viewer.UserID),
		slog.Int("seats", out.Seats),
	)
	return out, nil
}

// UnregisterDriver deactivates viewer's registration.
func (s *SafetyService) UnregisterDriver(ctx context.Context, partyID string, viewer domain.Identity) error {
	err := s.Store.Drivers().SetDriverActive(ctx, partyID, viewer.UserID, false, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return ErrDriverNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to unregister driver", slog.String("party_id", partyID), slog.Any("error", err))
		return err
	}
	slogx.FromContext(ctx).Info("designated driver unregistered",
		slog.String("party_id", partyID),
		slog.String("user_id", viewer.UserID),
	)
	return nil
}

// ListDrivers returns the party's active drivers.
func (s *SafetyService) ListDrivers(ctx context.Context, partyID string) ([]domain.DesignatedDriver, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return nil, err
	}
	return s.Store.Drivers().ListActiveDrivers(ctx, partyID)
}

// RequestRide asks an active driver for a ride. A rider can have only one
// open request per driver per party.
func (s *SafetyService) RequestRide(ctx context.Context, partyID string, viewer domain.Identity, in RideInput) (domain.RideRequest, error) {
	log := slogx.FromContext(ctx)

	if in.DriverID == "" {
		return domain.RideRequest{}, fmt.Errorf("%w: driver_id is required", ErrInvalidRide)
	}
	if in.DriverID == viewer.UserID {
		return domain.RideRequest{}, fmt.Errorf("%w: cannot request a ride from yourself", ErrInvalidRide)
	}
	if in.Passengers < 0 {
		return domain.RideRequest{}, fmt.Errorf("%w: passengers cannot be negative", ErrInvalidRide)
	}
	if in.Passengers == 0 {
		in.Passengers = domain.DefaultRidePassengers
	}

	var out domain.RideRequest
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := loadParty(ctx, tx, partyID); err != nil {
			return err
		}

		// 1. Driver must exist and be active
		d, err := tx.Drivers().GetDriver(ctx, partyID, in.DriverID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !d.Active) {
			return ErrDriverUnavailable
		}
		if err != nil {
			return err
		}
		if in.Passengers > d.Seats {
			return fmt.Errorf("%w: %d passengers exceeds the driver's %d seats", ErrInvalidRide, in.Passengers, d.Seats)
		}

		// 2. One open request per rider and driver
		open, err := tx.Rides().HasOpenRide(ctx, partyID, in.DriverID, viewer.UserID)
		if err != nil {
			return err
		}
		if open {
			return ErrRideAlreadyRequested
		}

		now := time.Now().UTC()
		rr := domain.RideRequest{
			ID:             idx.New().String(),
			PartyID:        partyID,
			DriverID:       in.DriverID,
			RiderID:        viewer.UserID,
			PickupLocation: strings.TrimSpace(in.PickupLocation),
			PickupTime:     in.PickupTime,
			Destination:    strings.TrimSpace(in.Destination),
			Passengers:     in.Passengers,
			Status:         domain.RidePending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Rides().CreateRide(ctx, rr); err != nil {
			return err
		}
		out, err = tx.Rides().GetRide(ctx, rr.ID)
		return err
	})
	if err != nil {
		return domain.RideRequest{}, err
	}

	log.Info("ride requested",
		slog.String("ride_id", out.ID),
		slog.String("party_id", partyID),
		slog.String("driver_id", in.DriverID),
	)
	return out, nil
}

// ListRideRequests returns the requests addressed to driver at the party.
func (s *SafetyService) ListRideRequests(ctx context.Context, partyID string, driver domain.Identity) ([]domain.RideRequest, error) {
	if _, err := loadParty(ctx, s.Store, partyID); err != nil {
		return nil, err
	}
	return s.Store.Rides().ListRidesForDriver(ctx, partyID, driver.UserID)
}

// RespondToRide accepts or declines a pending request. Only the driver it
// was addressed to may answer.
func (s *SafetyService) RespondToRide(ctx context.Context, requestID string, driver domain.Identity, accept bool) (domain.RideRequest, error) {
	log := slogx.FromContext(ctx)

	var out domain.RideRequest
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rr, err := tx.Rides().GetRide(ctx, requestID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrRideNotFound
		}
		if err != nil {
			return err
		}
		if rr.DriverID != driver.UserID {
			return ErrPermissionDenied
		}
		if rr.Status != domain.RidePending {
			return ErrRideNotPending
		}

		status := domain.RideDeclined
		if accept {
			status = domain.RideAccepted
		}
		if err := tx.Rides().UpdateRideStatus(ctx, requestID, status, time.Now().UTC()); err != nil {
			return err
		}
		out, err = tx.Rides().GetRide(ctx, requestID)
		return err
	})
	if err != nil {
		return domain.RideRequest{}, err
	}

	log.Info("ride request answered", slog.String("ride_id", requestID), slog.String("status", string(out.Status)))
	return out, nil
}

// CompleteRide marks an accepted ride done. Only its driver may, and once
// done the rider may request that driver again.
func (s *SafetyService) CompleteRide(ctx context.Context, requestID string, driver domain.Identity) (domain.RideRequest, error) {
	var out domain.RideRequest
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rr, err := tx.Rides().GetRide(ctx, requestID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrRideNotFound
		}
		if err != nil {
			return err
		}
		if rr.DriverID != driver.UserID {
			return ErrPermissionDenied
		}
		if rr.Status != domain.RideAccepted {
			return ErrRideNotAccepted
		}

		if err := tx.Rides().UpdateRideStatus(ctx, requestID, domain.RideCompleted, time.Now().UTC()); err != nil {
			return err
		}
		out, err = tx.Rides().GetRide(ctx, requestID)
		return err
	})
	if err != nil {
		return domain.RideRequest{}, err
	}

	slogx.FromContext(ctx).Info("ride completed", slog.String("ride_id", requestID))
	return out, nil
}

// TrackDrink logs a drink for viewer, filling in the defaults.
func (s *SafetyService) TrackDrink(ctx context.Context, viewer domain.Identity, in DrinkInput) (domain.Drink, error) {
	if in.AlcoholPct < 0 || in.AlcoholPct > 100 {
		return domain.Drink{}, fmt.Errorf("%w: alcohol_pct must be between 0 and 100", ErrInvalidDrink)
	}
	if in.Ounces < 0 {
		return domain.Drink{}, fmt.Errorf("%w: ounces cannot be negative", ErrInvalidDrink)
	}

	d := domain.Drink{
		ID:         idx.New().String(),
		UserID:     viewer.UserID,
		PartyID:    in.PartyID,
		Type:       strings.TrimSpace(in.Type),
		AlcoholPct: in.AlcoholPct,
		Ounces:     in.Ounces,
		ConsumedAt: time.Now().UTC(),
	}
	if d.Type == "" {
		d.Type = domain.DefaultDrinkType
	}
	if d.AlcoholPct == 0 {
		d.AlcoholPct = domain.DefaultAlcoholPct
	}
	if d.Ounces == 0 {
		d.Ounces = domain.DefaultDrinkOunces
	}
	if in.ConsumedAt != nil {
		d.ConsumedAt = in.ConsumedAt.UTC()
	}

	if d.PartyID != "" {
		if _, err := loadParty(ctx, s.Store, d.PartyID); err != nil {
			return domain.Drink{}, err
		}
	}

	if err := s.Store.Drinks().CreateDrink(ctx, d); err != nil {
		slogx.FromContext(ctx).Error("failed to track drink", slog.Any("error", err))
		return domain.Drink{}, err
	}
	return d, nil
}

// DrinkHistory lists userID's drinks on the UTC day containing day, or all of
// them when day is nil.
func (s *SafetyService) DrinkHistory(ctx context.Context, userID string, day *time.Time) ([]domain.Drink, error) {
	var from, to time.Time
	if day != nil {
		from, to = utcDay(*day)
	}
	return s.Store.Drinks().ListDrinks(ctx, userID, from, to)
}

func utcDay(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
