package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-assignment-service/internal/domain"
)

// Postgres-backed implementation of the VehicleRepository port.
//
// Free-text restriction rules are parsed into structured restrictions here,
// at load time, so assignment logic never touches restriction text.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

func (r *PostgresVehicleRepository) ListActive(ctx context.Context) ([]*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	query := `
	SELECT
		id,
		registration_number,
		load_capacity,
		restrictions,
		vehicle_type,
		pair_group_id
	FROM vehicles
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		var (
			v            domain.Vehicle
			restrictions sql.NullString
			pairGroup    sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Registration, &v.CapacityKg, &restrictions, &v.VehicleType, &pairGroup); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.Restrictions = domain.ParseRestrictions(restrictions.String)
		v.PairGroupID = pairGroup.String
		vehicles = append(vehicles, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}
	return vehicles, nil
}

// Vehicle IDs with an order out for delivery on the given date.
func (r *PostgresVehicleRepository) ListInTrip(ctx context.Context, date time.Time) (map[string]bool, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	query := `
	SELECT DISTINCT assigned_vehicle_id
	FROM orders
	WHERE status = 'in_trip'
	  AND scheduled_date = $1::date
	  AND assigned_vehicle_id IS NOT NULL;
	`
	rows, err := r.DB.QueryContext(ctx, query, date.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("list in-trip vehicles: query orders table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list in-trip vehicles: scan row: %w", err)
		}
		out[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list in-trip vehicles: row iteration: %w", err)
	}
	return out, nil
}
