package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-assignment-service/internal/domain"
)

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

const orderColumns = `
	id,
	customer_name,
	address,
	total_weight,
	drums,
	lat,
	lon,
	location_group,
	status,
	assigned_vehicle_id,
	assigned_driver_id,
	scheduled_date,
	delivery_sequence,
	priority,
	destination_group
`

// Orders eligible for planning, highest priority first.
func (r *PostgresOrderRepository) ListUnassigned(ctx context.Context) ([]*domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE status IN ('unassigned', 'scheduled')
	ORDER BY priority DESC, total_weight DESC, id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unassigned orders: query orders table: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Orders already committed for the given dates.
func (r *PostgresOrderRepository) ListCommitted(ctx context.Context, dates []time.Time) ([]*domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE status IN ('assigned', 'in_trip')
	  AND scheduled_date = ANY($1::date[])
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query, dateStrings(dates))
	if err != nil {
		return nil, fmt.Errorf("list committed orders: query orders table: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Write back a single order's assignment fields.
func (r *PostgresOrderRepository) UpdateAssignment(ctx context.Context, o *domain.Order) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	query := `
	UPDATE orders
	SET status = $2,
		assigned_vehicle_id = $3,
		assigned_driver_id = $4,
		scheduled_date = $5,
		delivery_sequence = $6,
		priority = $7,
		destination_group = $8
	WHERE id = $1;
	`
	_, err := r.DB.ExecContext(ctx, query,
		o.ID,
		string(o.Status),
		nullString(o.AssignedVehicle),
		nullString(o.AssignedDriver),
		nullDate(o.ScheduledDate),
		nullInt(o.DeliverySequence),
		o.Priority,
		nullString(o.DestinationGroup),
	)
	if err != nil {
		return fmt.Errorf("update assignment for order %q: %w", o.ID, err)
	}
	return nil
}

// Mark an order as needing manual location setup.
func (r *PostgresOrderRepository) FlagNeedsLocation(ctx context.Context, orderID string) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET needs_location = TRUE WHERE id = $1;`, orderID)
	if err != nil {
		return fmt.Errorf("flag needs location for order %q: %w", orderID, err)
	}
	return nil
}

func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, 64)
	for rows.Next() {
		var (
			o             domain.Order
			lat, lon      sql.NullFloat64
			vehicle       sql.NullString
			driver        sql.NullString
			scheduledDate sql.NullTime
			sequence      sql.NullInt64
			destination   sql.NullString
		)
		err := rows.Scan(
			&o.ID, &o.CustomerName, &o.Address, &o.WeightKg, &o.Drums,
			&lat, &lon, &o.Zone, &o.Status,
			&vehicle, &driver, &scheduledDate, &sequence, &o.Priority, &destination,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if lat.Valid && lon.Valid {
			o.Location = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		o.AssignedVehicle = vehicle.String
		o.AssignedDriver = driver.String
		if scheduledDate.Valid {
			d := scheduledDate.Time
			o.ScheduledDate = &d
		}
		o.DeliverySequence = int(sequence.Int64)
		o.DestinationGroup = destination.String

		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order row iteration: %w", err)
	}
	return orders, nil
}

func dateStrings(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
