package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunride/ride-backend/internal/models"
)

var tripViewColumns = []string{
	"id", "passenger_id", "driver_id", "from_city_id", "to_city_id",
	"departure_date", "departure_time", "fare_offered", "passenger_count",
	"notes", "status", "payment_status", "created_at", "updated_at",
	"from_city.name_en", "from_city.name_ar", "from_city.name_fr", "from_city.governorate_id",
	"to_city.name_en", "to_city.name_ar", "to_city.name_fr", "to_city.governorate_id",
	"passenger.full_name", "passenger.phone", "passenger.email",
	"driver.full_name", "driver.phone", "driver.email",
}

func tripViewRow(rows *sqlmock.Rows, id, passengerID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id.String(), passengerID.String(), nil, 1, 3,
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "08:30", 40.0, 2,
		nil, status, "unpaid", now, now,
		"Tunis", "تونس", "Tunis", 1,
		"Sousse", "سوسة", "Sousse", 2,
		"Amel Ben Salah", "22123456", "amel@example.tn",
		nil, nil, nil,
	)
}

func TestTripRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	trip := &models.Trip{
		ID:             uuid.New(),
		PassengerID:    uuid.New(),
		FromCityID:     1,
		ToCityID:       3,
		DepartureDate:  models.NewDate(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)),
		FareOffered:    40,
		PassengerCount: 2,
		Status:         models.TripStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
	}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO trips`).
			WithArgs(
				trip.ID, trip.PassengerID, int64(1), int64(3), "2025-06-10",
				nil, 40.0, int64(2), nil, "pending", "unpaid",
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.Create(context.Background(), trip))
		assert.Equal(t, now, trip.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO trips`).WillReturnError(fmt.Errorf("boom"))

		err := repo.Create(context.Background(), trip)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create trip")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Success", func(t *testing.T) {
		id, passengerID := uuid.New(), uuid.New()
		mock.ExpectQuery(`FROM trips t (.+) WHERE t.id = \$1`).
			WithArgs(id).
			WillReturnRows(tripViewRow(sqlmock.NewRows(tripViewColumns), id, passengerID, "pending"))

		trip, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, trip.ID)
		assert.Equal(t, passengerID, trip.PassengerID)
		assert.False(t, trip.DriverID.Valid)
		assert.Equal(t, "2025-06-10", trip.DepartureDate.String())
		assert.Equal(t, "08:30", trip.DepartureTime.String)
		assert.Equal(t, models.TripStatusPending, trip.Status)
		assert.Equal(t, "Tunis", trip.FromCity.NameEN)
		assert.Equal(t, "Sousse", trip.ToCity.NameEN)
		assert.Equal(t, "22123456", trip.Passenger.Phone.String)
		assert.False(t, trip.Driver.FullName.Valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`FROM trips t`).WillReturnError(sql.ErrNoRows)

		trip, err := repo.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, trip)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuildTripWhere(t *testing.T) {
	me := uuid.New()
	from := int64(1)
	maxFare := 50.0

	t.Run("Anonymous", func(t *testing.T) {
		where, args := buildTripWhere(models.TripQuery{})
		assert.Equal(t, []string{"t.status = 'pending'"}, where)
		assert.Empty(t, args)
	})

	t.Run("Passenger", func(t *testing.T) {
		where, args := buildTripWhere(models.TripQuery{
			Visibility: models.TripVisibility{Scope: models.TripScopePassenger, ProfileID: me},
		})
		assert.Equal(t, []string{"t.passenger_id = $1"}, where)
		assert.Equal(t, []interface{}{me}, args)
	})

	t.Run("Driver With Filters", func(t *testing.T) {
		where, args := buildTripWhere(models.TripQuery{
			Visibility: models.TripVisibility{Scope: models.TripScopeDriver, ProfileID: me},
			Filter:     models.TripFilter{FromCityID: &from, MaxFare: &maxFare},
		})
		assert.Equal(t, []string{
			"(t.status = 'pending' OR t.driver_id = $1)",
			"t.from_city_id = $2",
			"t.fare_offered <= $3",
		}, where)
		assert.Equal(t, []interface{}{me, int64(1), 50.0}, args)
	})

	t.Run("Driven", func(t *testing.T) {
		where, args := buildTripWhere(models.TripQuery{
			Visibility: models.TripVisibility{Scope: models.TripScopeDriven, ProfileID: me},
		})
		assert.Equal(t, []string{"t.driver_id = $1"}, where)
		assert.Equal(t, []interface{}{me}, args)
	})

	t.Run("Admin", func(t *testing.T) {
		where, _ := buildTripWhere(models.TripQuery{
			Visibility: models.TripVisibility{Scope: models.TripScopeAll},
		})
		assert.Empty(t, where)
	})
}

func TestTripRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	me := uuid.New()
	minFare := 10.0

	mock.ExpectQuery(`WHERE t.passenger_id = \$1 AND t.fare_offered >= \$2 ORDER BY t.created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(me, 10.0, 20, 40).
		WillReturnRows(tripViewRow(sqlmock.NewRows(tripViewColumns), uuid.New(), me, "completed"))

	trips, err := repo.List(context.Background(), models.TripQuery{
		Visibility: models.TripVisibility{Scope: models.TripScopePassenger, ProfileID: me},
		Filter:     models.TripFilter{MinFare: &minFare, Limit: 20, Offset: 40},
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, models.TripStatusCompleted, trips[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_ListDriven(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	me := uuid.New()

	mock.ExpectQuery(`WHERE t.driver_id = \$1 ORDER BY t.created_at DESC LIMIT \$2`).
		WithArgs(me, 50).
		WillReturnRows(tripViewRow(sqlmock.NewRows(tripViewColumns), uuid.New(), uuid.New(), "accepted"))

	trips, err := repo.List(context.Background(), models.TripQuery{
		Visibility: models.TripVisibility{Scope: models.TripScopeDriven, ProfileID: me},
		Filter:     models.TripFilter{Limit: 50},
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, models.TripStatusAccepted, trips[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_AcceptPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	id, driverID := uuid.New(), uuid.New()

	t.Run("Transitioned", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips SET driver_id = \$2, status = \$3, updated_at = \$4 WHERE id = \$1 AND status IN \(\$5\)`).
			WithArgs(id, driverID, "accepted", sqlmock.AnyArg(), "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AcceptPending(context.Background(), id, driverID, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Lost Race", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips`).
			WithArgs(id, driverID, "accepted", sqlmock.AnyArg(), "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AcceptPending(context.Background(), id, driverID, time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM trips WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec(`DELETE FROM trips WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_DeleteExpiredPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	today := models.NewDate(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))

	mock.ExpectExec(`DELETE FROM trips WHERE status = 'pending' AND departure_date < \$1`).
		WithArgs("2025-06-10").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpiredPending(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
