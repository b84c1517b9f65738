package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-assignment-service/internal/domain"
)

// Postgres-backed implementation of the RouteRecordRepository port.
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

func (r *PostgresRouteRepository) ListByDates(ctx context.Context, dates []time.Time) ([]*domain.RouteRecord, error) {
	if r.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := `
	SELECT
		vehicle_id,
		scheduled_date,
		route_geometry,
		distance,
		duration
	FROM vehicle_routes
	WHERE scheduled_date = ANY($1::date[])
	ORDER BY vehicle_id, scheduled_date;
	`
	rows, err := r.DB.QueryContext(ctx, query, dateStrings(dates))
	if err != nil {
		return nil, fmt.Errorf("list route records: query vehicle_routes table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.RouteRecord, 0, 16)
	for rows.Next() {
		var (
			rec      domain.RouteRecord
			geometry sql.NullString
		)
		if err := rows.Scan(&rec.VehicleID, &rec.ScheduledDate, &geometry, &rec.DistanceKm, &rec.DurationHours); err != nil {
			return nil, fmt.Errorf("list route records: scan row: %w", err)
		}
		rec.Geometry = geometry.String
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list route records: row iteration: %w", err)
	}
	return records, nil
}

// Upsert replaces any stale record for the same vehicle and date.
func (r *PostgresRouteRepository) Upsert(ctx context.Context, rec *domain.RouteRecord) error {
	if r.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	query := `
	INSERT INTO vehicle_routes (vehicle_id, scheduled_date, route_geometry, distance, duration)
	VALUES ($1, $2::date, $3, $4, $5)
	ON CONFLICT (vehicle_id, scheduled_date) DO UPDATE
	SET route_geometry = EXCLUDED.route_geometry,
		distance = EXCLUDED.distance,
		duration = EXCLUDED.duration;
	`
	_, err := r.DB.ExecContext(ctx, query,
		rec.VehicleID,
		rec.ScheduledDate.Format(time.DateOnly),
		nullString(rec.Geometry),
		rec.DistanceKm,
		rec.DurationHours,
	)
	if err != nil {
		return fmt.Errorf("upsert route record vehicle=%q date=%s: %w",
			rec.VehicleID, rec.ScheduledDate.Format(time.DateOnly), err)
	}
	return nil
}
