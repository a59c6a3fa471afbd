package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

type driversRepo struct {
	q DBTX
}

const driverSelect = `
SELECT d.party_id, d.user_id, COALESCE(u.username, ''), d.name, d.phone, d.vehicle, d.seats,
       d.departure_time, d.destination, d.active, d.created_at, d.updated_at
FROM designated_drivers d
LEFT JOIN users u ON u.id = d.user_id`

func scanDriver(row rowScanner) (domain.DesignatedDriver, error) {
	var (
		d                    domain.DesignatedDriver
		departure            sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := row.Scan(&d.PartyID, &d.UserID, &d.Username, &d.Name, &d.Phone, &d.Vehicle, &d.Seats,
		&departure, &d.Destination, &d.Active, &createdAt, &updatedAt); err != nil {
		return domain.DesignatedDriver{}, mapNotFound(err)
	}
	d.DepartureTime = fromNullMS(departure)
	d.CreatedAt = fromMS(createdAt)
	d.UpdatedAt = fromMS(updatedAt)
	return d, nil
}

func (r *driversRepo) UpsertDriver(ctx context.Context, d domain.DesignatedDriver) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO designated_drivers (party_id, user_id, name, phone, vehicle, seats, departure_time,
                                destination, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (party_id, user_id) DO UPDATE SET
    name           = excluded.name,
    phone          = excluded.phone,
    vehicle        = excluded.vehicle,
    seats          = excluded.seats,
    departure_time = excluded.departure_time,
    destination    = excluded.destination,
    active         = excluded.active,
    updated_at     = excluded.updated_at`,
		d.PartyID, d.UserID, d.Name, d.Phone, d.Vehicle, d.Seats, nullMS(d.DepartureTime),
		d.Destination, boolInt(d.Active), ms(d.CreatedAt), ms(d.UpdatedAt),
	)
	return err
}

func (r *driversRepo) GetDriver(ctx context.Context, partyID, userID string) (domain.DesignatedDriver, error) {
	return scanDriver(r.q.QueryRowContext(ctx,
		driverSelect+` WHERE d.party_id = ? AND d.user_id = ?`, partyID, userID))
}

func (r *driversRepo) SetDriverActive(ctx context.Context, partyID, userID string, active bool, at time.Time) error {
	return requireRow(r.q.ExecContext(ctx,
		`UPDATE designated_drivers SET active = ?, updated_at = ? WHERE party_id = ? AND user_id = ?`,
		boolInt(active), ms(at), partyID, userID,
	))
}

func (r *driversRepo) ListActiveDrivers(ctx context.Context, partyID string) ([]domain.DesignatedDriver, error) {
	rows, err := r.q.QueryContext(ctx,
		driverSelect+` WHERE d.party_id = ? AND d.active = 1 ORDER BY d.created_at ASC`, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.DesignatedDriver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *driversRepo) DeactivateDriversEndedBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
UPDATE designated_drivers SET active = 0, updated_at = ?
WHERE active = 1
  AND party_id IN (SELECT id FROM parties WHERE date_time < ?)`,
		ms(now), ms(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ridesRepo struct {
	q DBTX
}

const rideSelect = `
SELECT r.id, r.party_id, r.driver_id, r.rider_id, COALESCE(u.username, ''), r.pickup_location,
       r.pickup_time, r.destination, r.passengers, r.status, r.created_at, r.updated_at
FROM ride_requests r
LEFT JOIN users u ON u.id = r.rider_id`

func scanRide(row rowScanner) (domain.RideRequest, error) {
	var (
		rr                   domain.RideRequest
		pickup               sql.NullInt64
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&rr.ID, &rr.PartyID, &rr.DriverID, &rr.RiderID, &rr.RiderName, &rr.PickupLocation,
		&pickup, &rr.Destination, &rr.Passengers, &status, &createdAt, &updatedAt); err != nil {
		return domain.RideRequest{}, mapNotFound(err)
	}
	rr.PickupTime = fromNullMS(pickup)
	rr.Status = domain.RideStatus(status)
	rr.CreatedAt = fromMS(createdAt)
	rr.UpdatedAt = fromMS(updatedAt)
	return rr, nil
}

func (r *ridesRepo) CreateRide(ctx context.Context, rr domain.RideRequest) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO ride_requests (id, party_id, driver_id, rider_id, pickup_location, pickup_time,
                           destination, passengers, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rr.ID, rr.PartyID, rr.DriverID, rr.RiderID, rr.PickupLocation, nullMS(rr.PickupTime),
		rr.Destination, rr.Passengers, string(rr.Status), ms(rr.CreatedAt), ms(rr.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *ridesRepo) GetRide(ctx context.Context, id string) (domain.RideRequest, error) {
	return scanRide(r.q.QueryRowContext(ctx, rideSelect+` WHERE r.id = ?`, id))
}

func (r *ridesRepo) HasOpenRide(ctx context.Context, partyID, driverID, riderID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
SELECT COUNT(*) FROM ride_requests
WHERE party_id = ? AND driver_id = ? AND rider_id = ? AND status IN (?, ?)`,
		partyID, driverID, riderID, string(domain.RidePending), string(domain.RideAccepted),
	).Scan(&n)
	return n > 0, err
}

func (r *ridesRepo) ListRidesForDriver(ctx context.Context, partyID, driverID string) ([]domain.RideRequest, error) {
	rows, err := r.q.QueryContext(ctx,
		rideSelect+` WHERE r.party_id = ? AND r.driver_id = ? ORDER BY r.created_at DESC, r.id DESC`,
		partyID, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RideRequest{}
	for rows.Next() {
		rr, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *ridesRepo) UpdateRideStatus(ctx context.Context, id string, status domain.RideStatus, at time.Time) error {
	return requireRow(r.q.ExecContext(ctx,
		`UPDATE ride_requests SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), ms(at), id,
	))
}

func (r *ridesRepo) ExpirePendingRidesEndedBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
UPDATE ride_requests SET status = ?, updated_at = ?
WHERE status = ?
  AND party_id IN (SELECT id FROM parties WHERE date_time < ?)`,
		string(domain.RideExpired), ms(now), string(domain.RidePending), ms(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type drinksRepo struct {
	q DBTX
}

func (r *drinksRepo) CreateDrink(ctx context.Context, d domain.Drink) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO drinks (id, user_id, party_id, type, alcohol_pct, ounces, consumed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, mapStringNull(d.PartyID), d.Type, d.AlcoholPct, d.Ounces, ms(d.ConsumedAt),
	)
	return mapWriteErr(err)
}

func (r *drinksRepo) ListDrinks(ctx context.Context, userID string, from, to time.Time) ([]domain.Drink, error) {
	query := `SELECT id, user_id, party_id, type, alcohol_pct, ounces, consumed_at FROM drinks WHERE user_id = ?`
	args := []any{userID}
	if !from.IsZero() {
		query += ` AND consumed_at >= ?`
		args = append(args, ms(from))
	}
	if !to.IsZero() {
		query += ` AND consumed_at < ?`
		args = append(args, ms(to))
	}
	query += ` ORDER BY consumed_at ASC, id ASC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Drink{}
	for rows.Next() {
		var (
			d          domain.Drink
			partyID    sql.NullString
			consumedAt int64
		)
		if err := rows.Scan(&d.ID, &d.UserID, &partyID, &d.Type, &d.AlcoholPct, &d.Ounces, &consumedAt); err != nil {
			return nil, err
		}
		d.PartyID = mapNullString(partyID)
		d.ConsumedAt = fromMS(consumedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}
