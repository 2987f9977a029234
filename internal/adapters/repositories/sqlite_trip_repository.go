package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/obs"
	"time"
)

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

func (s *SqliteTripRepository) InsertTrip(ctx context.Context, t domain.TripRecord) (err error) {
	defer obs.Time(ctx, "trips.sqlite.InsertTrip")(&err)

	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	INSERT INTO trips (
		user_id,
		origin,
		destination,
		time_saved_minutes,
		fuel_saved_liters,
		ai_route_time,
		standard_route_time,
		route_name,
		predicted_congestion,
		logged_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		t.UserID, t.Origin, t.Destination,
		t.TimeSavedMinutes, t.FuelSavedLiters,
		t.AIRouteTime, t.StandardRouteTime,
		t.RouteName, t.PredictedCongestion,
		t.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert trip: user_id=%q: %w", t.UserID, err)
	}
	return nil
}

func (s *SqliteTripRepository) ListTrips(ctx context.Context) (_ []domain.TripRecord, err error) {
	defer obs.Time(ctx, "trips.sqlite.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, listTripsQuery)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.TripRecord, 0, 64)
	for rows.Next() {
		var t domain.TripRecord
		var loggedAt string
		if err := rows.Scan(
			&t.UserID, &t.Origin, &t.Destination,
			&t.TimeSavedMinutes, &t.FuelSavedLiters,
			&t.AIRouteTime, &t.StandardRouteTime,
			&t.RouteName, &t.PredictedCongestion,
			&loggedAt,
		); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		if t.Timestamp, err = time.Parse(time.RFC3339Nano, loggedAt); err != nil {
			return nil, fmt.Errorf("list trips: parse logged_at %q: %w", loggedAt, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

const listTripsQuery = `
	SELECT
		user_id,
		origin,
		destination,
		time_saved_minutes,
		fuel_saved_liters,
		ai_route_time,
		standard_route_time,
		route_name,
		predicted_congestion,
		logged_at
	FROM trips
	ORDER BY trip_id;
	`
