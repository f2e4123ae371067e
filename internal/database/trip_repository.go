package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tunride/ride-backend/internal/models"
)

// tripViewSelect expands a trip with its cities and participants
const tripViewSelect = `
	SELECT
		t.id, t.passenger_id, t.driver_id, t.from_city_id, t.to_city_id,
		t.departure_date, t.departure_time, t.fare_offered, t.passenger_count,
		t.notes, t.status, t.payment_status, t.created_at, t.updated_at,
		fc.name_en AS "from_city.name_en", fc.name_ar AS "from_city.name_ar",
		fc.name_fr AS "from_city.name_fr", fc.governorate_id AS "from_city.governorate_id",
		tc.name_en AS "to_city.name_en", tc.name_ar AS "to_city.name_ar",
		tc.name_fr AS "to_city.name_fr", tc.governorate_id AS "to_city.governorate_id",
		p.full_name AS "passenger.full_name", p.phone AS "passenger.phone",
		p.email AS "passenger.email",
		d.full_name AS "driver.full_name", d.phone AS "driver.phone",
		d.email AS "driver.email"
	FROM trips t
	JOIN cities fc ON fc.id = t.from_city_id
	JOIN cities tc ON tc.id = t.to_city_id
	JOIN profiles p ON p.id = t.passenger_id
	LEFT JOIN profiles d ON d.id = t.driver_id
`

// TripRepository handles trip database operations
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip and fills in its timestamps
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, passenger_id, from_city_id, to_city_id, departure_date,
			departure_time, fare_offered, passenger_count, notes,
			status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		trip.ID,
		trip.PassengerID,
		trip.FromCityID,
		trip.ToCityID,
		trip.DepartureDate,
		trip.DepartureTime,
		trip.FareOffered,
		trip.PassengerCount,
		trip.Notes,
		trip.Status,
		trip.PaymentStatus,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// GetByID returns the expanded trip with the given id
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TripView, error) {
	var trip models.TripView
	if err := r.db.GetContext(ctx, &trip, tripViewSelect+" WHERE t.id = $1", id); err != nil {
		return nil, notFound(err, "get trip")
	}
	return &trip, nil
}

// List returns the trips visible under q, newest first
func (r *TripRepository) List(ctx context.Context, q models.TripQuery) ([]models.TripView, error) {
	where, args := buildTripWhere(q)

	var sb strings.Builder
	sb.WriteString(tripViewSelect)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY t.created_at DESC")

	if q.Filter.Limit > 0 {
		args = append(args, q.Filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Filter.Offset > 0 {
		args = append(args, q.Filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	trips := []models.TripView{}
	if err := r.db.SelectContext(ctx, &trips, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}

// buildTripWhere turns visibility and filters into numbered predicates
func buildTripWhere(q models.TripQuery) ([]string, []interface{}) {
	var where []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch q.Visibility.Scope {
	case models.TripScopeAll:
	case models.TripScopePassenger:
		where = append(where, "t.passenger_id = "+next(q.Visibility.ProfileID))
	case models.TripScopeDriver:
		where = append(where, fmt.Sprintf("(t.status = 'pending' OR t.driver_id = %s)", next(q.Visibility.ProfileID)))
	case models.TripScopeDriven:
		where = append(where, "t.driver_id = "+next(q.Visibility.ProfileID))
	default:
		where = append(where, "t.status = 'pending'")
	}

	f := q.Filter
	if f.FromCityID != nil {
		where = append(where, "t.from_city_id = "+next(*f.FromCityID))
	}
	if f.ToCityID != nil {
		where = append(where, "t.to_city_id = "+next(*f.ToCityID))
	}
	if f.MinFare != nil {
		where = append(where, "t.fare_offered >= "+next(*f.MinFare))
	}
	if f.MaxFare != nil {
		where = append(where, "t.fare_offered <= "+next(*f.MaxFare))
	}
	if f.DepartureDate != nil {
		where = append(where, "t.departure_date = "+next(*f.DepartureDate))
	}

	return where, args
}

// AcceptPending assigns driverID to the trip only while its status may
// still move to accepted. It reports whether this call performed the transition.
func (r *TripRepository) AcceptPending(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
	args := []interface{}{id, driverID, string(models.TripStatusAccepted), at}
	from := models.StatusesInto(models.TripStatusAccepted)
	placeholders := make([]string, 0, len(from))
	for _, status := range from {
		args = append(args, string(status))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE trips
		SET driver_id = $2, status = $3, updated_at = $4
		WHERE id = $1 AND status IN (%s)
	`, strings.Join(placeholders, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to accept trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to accept trip: %w", err)
	}

	return rows == 1, nil
}

// Delete removes a trip regardless of its status
func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteExpiredPending removes pending trips departing before today
func (r *TripRepository) DeleteExpiredPending(ctx context.Context, today models.Date) (int64, error) {
	query := `DELETE FROM trips WHERE status = 'pending' AND departure_date < $1`

	result, err := r.db.ExecContext(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("failed to expire trips: %w", err)
	}

	return result.RowsAffected()
}
