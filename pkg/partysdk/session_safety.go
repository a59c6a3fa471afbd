package partysdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RegisterDriver volunteers the caller as a designated driver.
func (s *Session) RegisterDriver(ctx context.Context, partyID string, req DriverRequest) (*Driver, error) {
	return authJSON[Driver](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/drivers", req, http.StatusOK)
}

// UnregisterDriver withdraws the caller as a driver.
func (s *Session) UnregisterDriver(ctx context.Context, partyID string) error {
	return authNoContent(ctx, s, http.MethodDelete, "/v1/parties/"+url.PathEscape(partyID)+"/drivers", nil)
}

// ListDrivers lists a party's active designated drivers.
func (s *Session) ListDrivers(ctx context.Context, partyID string) (*DriverList, error) {
	return authJSON[DriverList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/drivers", nil, http.StatusOK)
}

// RequestRide asks a driver for a ride home.
func (s *Session) RequestRide(ctx context.Context, partyID string, req RideRequest) (*Ride, error) {
	return authJSON[Ride](ctx, s, http.MethodPost, "/v1/parties/"+url.PathEscape(partyID)+"/rides", req, http.StatusCreated)
}

// ListRideRequests lists rides requested from the caller as a driver.
func (s *Session) ListRideRequests(ctx context.Context, partyID string) (*RideList, error) {
	return authJSON[RideList](ctx, s, http.MethodGet, "/v1/parties/"+url.PathEscape(partyID)+"/rides", nil, http.StatusOK)
}

// RespondToRide accepts or declines a pending ride request.
func (s *Session) RespondToRide(ctx context.Context, rideID string, accept bool) (*Ride, error) {
	return authJSON[Ride](ctx, s, http.MethodPost, "/v1/rides/"+url.PathEscape(rideID)+"/respond",
		RespondRideRequest{Accept: accept}, http.StatusOK)
}

// CompleteRide marks an accepted ride done. Driver only.
func (s *Session) CompleteRide(ctx context.Context, rideID string) (*Ride, error) {
	return authJSON[Ride](ctx, s, http.MethodPost, "/v1/rides/"+url.PathEscape(rideID)+"/complete", nil, http.StatusOK)
}

// TrackDrink logs a drink for the caller.
func (s *Session) TrackDrink(ctx context.Context, req DrinkRequest) (*Drink, error) {
	return authJSON[Drink](ctx, s, http.MethodPost, "/v1/drinks", req, http.StatusCreated)
}

// DrinkHistory lists the caller's drinks for one UTC day, or all of them
// when day is zero.
func (s *Session) DrinkHistory(ctx context.Context, day time.Time) (*DrinkList, error) {
	path := "/v1/drinks"
	if !day.IsZero() {
		path += "?" + url.Values{"date": {day.UTC().Format(time.DateOnly)}}.Encode()
	}
	return authJSON[DrinkList](ctx, s, http.MethodGet, path, nil, http.StatusOK)
}

// CalculateBAC runs the estimate on explicit inputs.
func (s *Session) CalculateBAC(ctx context.Context, req BACRequest) (*BACResponse, error) {
	return authJSON[BACResponse](ctx, s, http.MethodPost, "/v1/bac/calculate", req, http.StatusOK)
}

// EstimateBAC runs the estimate on the caller's drinks logged today.
func (s *Session) EstimateBAC(ctx context.Context, gender string, weightLbs float64) (*BACResponse, error) {
	q := url.Values{
		"gender":     {gender},
		"weight_lbs": {strconv.FormatFloat(weightLbs, 'f', -1, 64)},
	}
	return authJSON[BACResponse](ctx, s, http.MethodGet, "/v1/bac/estimate?"+q.Encode(), nil, http.StatusOK)
}
