package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/httpx"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// SafetyHandler handles designated drivers, rides, drink tracking and BAC
// estimates.
type SafetyHandler struct {
	SafetyService *service.SafetyService
	Now           func() time.Time
}

// HandleListDrivers handles GET /v1/parties/{id}/drivers
//
//	@Summary		List designated drivers
//	@Tags			Safety
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.DriverList		"Active drivers"
//	@Failure		404	{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/drivers [get].
func (h *SafetyHandler) HandleListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.SafetyService.ListDrivers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list drivers")
		return
	}

	out := partysdk.DriverList{Drivers: make([]partysdk.Driver, len(drivers))}
	for i, d := range drivers {
		out.Drivers[i] = toDriver(d)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRegisterDriver handles POST /v1/parties/{id}/drivers
//
//	@Summary		Volunteer as designated driver
//	@Description	Attendees only. Registering again updates the details.
//	@Tags			Safety
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Party ID"
//	@Param			request	body		partysdk.DriverRequest	true	"Driver details"
//	@Success		200		{object}	partysdk.Driver			"The driver record"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	partysdk.ErrorResponse	"not an attendee"
//	@Failure		404		{object}	partysdk.ErrorResponse	"not found"
//	@Router			/v1/parties/{id}/drivers [post].
func (h *SafetyHandler) HandleRegisterDriver(w http.ResponseWriter, r *http.Request) {
	var req partysdk.DriverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	d, err := h.SafetyService.RegisterDriver(r.Context(), r.PathValue("id"), viewer(r), service.DriverInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Vehicle:       req.Vehicle,
		Seats:         req.Seats,
		DepartureTime: req.DepartureTime,
		Destination:   req.Destination,
	})
	if err != nil {
		writeServiceError(w, r, err, "register driver")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDriver(d))
}

// HandleUnregisterDriver handles DELETE /v1/parties/{id}/drivers
//
//	@Summary		Stop driving
//	@Tags			Safety
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Party ID"
//	@Success		204
//	@Failure		404	{object}	partysdk.ErrorResponse	"not a driver"
//	@Router			/v1/parties/{id}/drivers [delete].
func (h *SafetyHandler) HandleUnregisterDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.SafetyService.UnregisterDriver(r.Context(), r.PathValue("id"), viewer(r)); err != nil {
		writeServiceError(w, r, err, "unregister driver")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRequestRide handles POST /v1/parties/{id}/rides
//
//	@Summary		Request a ride
//	@Tags			Safety
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Party ID"
//	@Param			request	body		partysdk.RideRequest	true	"Ride details"
//	@Success		201		{object}	partysdk.Ride			"The pending request"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	partysdk.ErrorResponse	"driver unavailable or already requested"
//	@Router			/v1/parties/{id}/rides [post].
func (h *SafetyHandler) HandleRequestRide(w http.ResponseWriter, r *http.Request) {
	var req partysdk.RideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rr, err := h.SafetyService.RequestRide(r.Context(), r.PathValue("id"), viewer(r), service.RideInput{
		DriverID:       req.DriverID,
		PickupLocation: req.PickupLocation,
		PickupTime:     req.PickupTime,
		Destination:    req.Destination,
		Passengers:     req.Passengers,
	})
	if err != nil {
		writeServiceError(w, r, err, "request ride")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRide(rr))
}

// HandleListRides handles GET /v1/parties/{id}/rides
//
//	@Summary		List ride requests
//	@Description	Lists requests addressed to the caller as a driver.
//	@Tags			Safety
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Party ID"
//	@Success		200	{object}	partysdk.RideList		"rides"
//	@Router			/v1/parties/{id}/rides [get].
func (h *SafetyHandler) HandleListRides(w http.ResponseWriter, r *http.Request) {
	rides, err := h.SafetyService.ListRideRequests(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "list ride requests")
		return
	}

	out := partysdk.RideList{Rides: make([]partysdk.Ride, len(rides))}
	for i, rr := range rides {
		out.Rides[i] = toRide(rr)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRespondRide handles POST /v1/rides/{id}/respond
//
//	@Summary		Accept or decline a ride
//	@Description	Only the addressed driver may respond, and only to a pending request.
//	@Tags			Safety
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Ride ID"
//	@Param			request	body		partysdk.RespondRideRequest	true	"accept"
//	@Success		200		{object}	partysdk.Ride				"The answered request"
//	@Failure		403		{object}	partysdk.ErrorResponse		"not the driver"
//	@Failure		409		{object}	partysdk.ErrorResponse		"not pending"
//	@Router			/v1/rides/{id}/respond [post].
func (h *SafetyHandler) HandleRespondRide(w http.ResponseWriter, r *http.Request) {
	var req partysdk.RespondRideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rr, err := h.SafetyService.RespondToRide(r.Context(), r.PathValue("id"), viewer(r), req.Accept)
	if err != nil {
		writeServiceError(w, r, err, "respond to ride")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRide(rr))
}

// HandleCompleteRide handles POST /v1/rides/{id}/complete
//
//	@Summary		Complete a ride
//	@Description	The driver marks an accepted ride done.
//	@Tags			Safety
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Ride ID"
//	@Success		200	{object}	partysdk.Ride			"The completed ride"
//	@Failure		403	{object}	partysdk.ErrorResponse	"not the driver"
//	@Failure		409	{object}	partysdk.ErrorResponse	"not accepted"
//	@Router			/v1/rides/{id}/complete [post].
func (h *SafetyHandler) HandleCompleteRide(w http.ResponseWriter, r *http.Request) {
	rr, err := h.SafetyService.CompleteRide(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		writeServiceError(w, r, err, "complete ride")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRide(rr))
}

// HandleTrackDrink handles POST /v1/drinks
//
//	@Summary		Log a drink
//	@Tags			Safety
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		partysdk.DrinkRequest	true	"Drink details; omitted fields take defaults"
//	@Success		201		{object}	partysdk.Drink			"The logged drink"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/drinks [post].
func (h *SafetyHandler) HandleTrackDrink(w http.ResponseWriter, r *http.Request) {
	var req partysdk.DrinkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	d, err := h.SafetyService.TrackDrink(r.Context(), viewer(r), service.DrinkInput{
		PartyID:    req.PartyID,
		Type:       req.Type,
		AlcoholPct: req.AlcoholPct,
		Ounces:     req.Ounces,
		ConsumedAt: req.ConsumedAt,
	})
	if err != nil {
		writeServiceError(w, r, err, "track drink")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDrink(d))
}

// HandleDrinkHistory handles GET /v1/drinks
//
//	@Summary		Drink history
//	@Tags			Safety
//	@Produce		json
//	@Security		BearerAuth
//	@Param			date	query		string					false	"UTC day, YYYY-MM-DD"
//	@Success		200		{object}	partysdk.DrinkList		"drinks"
//	@Failure		400		{object}	partysdk.ErrorResponse	"bad date"
//	@Router			/v1/drinks [get].
func (h *SafetyHandler) HandleDrinkHistory(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.URL.Query().Get("date"))
	if err != nil {
		writeBadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	drinks, err := h.SafetyService.DrinkHistory(r.Context(), viewer(r).UserID, day)
	if err != nil {
		writeServiceError(w, r, err, "load drink history")
		return
	}

	out := partysdk.DrinkList{Drinks: make([]partysdk.Drink, len(drinks))}
	for i, d := range drinks {
		out.Drinks[i] = toDrink(d)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCalculateBAC handles POST /v1/bac/calculate
//
//	@Summary		Calculate BAC
//	@Description	Widmark estimate from explicit inputs. Informational only.
//	@Tags			Safety
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		partysdk.BACRequest		true	"gender, weight_lbs, drinks, hours"
//	@Success		200		{object}	partysdk.BACResponse	"bac"
//	@Failure		400		{object}	partysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/bac/calculate [post].
func (h *SafetyHandler) HandleCalculateBAC(w http.ResponseWriter, r *http.Request) {
	var req partysdk.BACRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if !service.Finite(req.WeightLbs, req.Drinks, req.Hours) {
		writeBadRequest(w, "weight_lbs, drinks and hours must be finite numbers")
		return
	}
	if req.Drinks < 0 || req.Hours < 0 {
		writeBadRequest(w, "drinks and hours must not be negative")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, partysdk.BACResponse{
		BAC:            service.CalculateBAC(req.Gender, req.WeightLbs, req.Drinks, req.Hours),
		StandardDrinks: req.Drinks,
		Hours:          req.Hours,
	})
}

// HandleEstimateBAC handles GET /v1/bac/estimate
//
//	@Summary		Estimate BAC from today's drinks
//	@Description	Feeds the caller's drinks logged today (UTC) into the Widmark estimate. Informational only.
//	@Tags			Safety
//	@Produce		json
//	@Security		BearerAuth
//	@Param			gender		query		string					false	"female or male"
//	@Param			weight_lbs	query		number					true	"Body weight in pounds"
//	@Success		200			{object}	partysdk.BACResponse	"bac, standard_drinks, hours, drinks"
//	@Failure		400			{object}	partysdk.ErrorResponse	"bad weight"
//	@Router			/v1/bac/estimate [get].
func (h *SafetyHandler) HandleEstimateBAC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := strconv.ParseFloat(q.Get("weight_lbs"), 64)
	if err != nil || !service.Finite(weight) || weight <= 0 {
		writeBadRequest(w, "weight_lbs must be a positive number")
		return
	}

	est, err := h.SafetyService.EstimateBAC(r.Context(), viewer(r), q.Get("gender"), weight, h.Now())
	if err != nil {
		writeServiceError(w, r, err, "estimate BAC")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, partysdk.BACResponse{
		BAC:            est.BAC,
		StandardDrinks: est.StandardDrinks,
		Hours:          est.Hours,
		Drinks:         est.Drinks,
	})
}
