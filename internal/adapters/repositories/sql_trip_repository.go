package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/obs"
)

// SQLTripRepository is the PostgreSQL-backed TripRepository.
type SQLTripRepository struct {
	DB *sql.DB
}

func NewSQLTripRepository(db *sql.DB) *SQLTripRepository {
	return &SQLTripRepository{DB: db}
}

func (s *SQLTripRepository) InsertTrip(ctx context.Context, t domain.TripRecord) (err error) {
	defer obs.Time(ctx, "trips.sql.InsertTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO trips (
		user_id, origin, destination,
		time_saved_minutes, fuel_saved_liters,
		ai_route_time, standard_route_time,
		route_name, predicted_congestion, logged_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		t.UserID, t.Origin, t.Destination,
		t.TimeSavedMinutes, t.FuelSavedLiters,
		t.AIRouteTime, t.StandardRouteTime,
		t.RouteName, t.PredictedCongestion, t.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert trip: user_id=%q: %w", t.UserID, err)
	}
	return nil
}

func (s *SQLTripRepository) ListTrips(ctx context.Context) (_ []domain.TripRecord, err error) {
	defer obs.Time(ctx, "trips.sql.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, listTripsQuery)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.TripRecord, 0, 64)
	for rows.Next() {
		var t domain.TripRecord
		if err := rows.Scan(
			&t.UserID, &t.Origin, &t.Destination,
			&t.TimeSavedMinutes, &t.FuelSavedLiters,
			&t.AIRouteTime, &t.StandardRouteTime,
			&t.RouteName, &t.PredictedCongestion,
			&t.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}
