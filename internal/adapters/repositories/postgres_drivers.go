package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-assignment-service/internal/domain"
)

// Postgres-backed implementation of the DriverRepository port.
type PostgresDriverRepository struct{ DB *sql.DB }

func NewPostgresDriverRepository(db *sql.DB) *PostgresDriverRepository {
	return &PostgresDriverRepository{DB: db}
}

func (r *PostgresDriverRepository) ListAvailable(ctx context.Context) ([]*domain.Driver, error) {
	if r.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	query := `
	SELECT
		id,
		first_name,
		surname,
		available,
		license_code,
		last_lat,
		last_lon
	FROM drivers
	WHERE available
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drivers: query drivers table: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		var (
			d        domain.Driver
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&d.ID, &d.FirstName, &d.Surname, &d.Available, &d.LicenseCode, &lat, &lon); err != nil {
			return nil, fmt.Errorf("list drivers: scan row: %w", err)
		}
		if lat.Valid && lon.Valid {
			d.LastPosition = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		drivers = append(drivers, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: row iteration: %w", err)
	}
	return drivers, nil
}
