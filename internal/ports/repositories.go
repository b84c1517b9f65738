package ports

import (
	"context"
	"time"

	"fleet-assignment-service/internal/domain"
)

// Port: a boundary for reading and updating Order records.
type OrderRepository interface {
	// Orders eligible for planning: status unassigned or scheduled, highest
	// priority first.
	ListUnassigned(ctx context.Context) ([]*domain.Order, error)
	// Orders already committed (assigned or in_trip) for the given dates.
	ListCommitted(ctx context.Context, dates []time.Time) ([]*domain.Order, error)
	// Write back a single order's assignment fields (vehicle, driver, date,
	// sequence, destination group, status, priority).
	UpdateAssignment(ctx context.Context, o *domain.Order) error
	// Mark an order as needing manual location setup.
	FlagNeedsLocation(ctx context.Context, orderID string) error
}

// Port: a boundary for retrieving Vehicle records.
type VehicleRepository interface {
	ListActive(ctx context.Context) ([]*domain.Vehicle, error)
	// Vehicle IDs that are out on a trip for the given date and must not
	// receive new work that date.
	ListInTrip(ctx context.Context, date time.Time) (map[string]bool, error)
}

// Port: a boundary for retrieving Driver records.
type DriverRepository interface {
	ListAvailable(ctx context.Context) ([]*domain.Driver, error)
}

// Port: a boundary for the per-vehicle-per-day route records.
type RouteRecordRepository interface {
	ListByDates(ctx context.Context, dates []time.Time) ([]*domain.RouteRecord, error)
	// Upsert keyed by (vehicle_id, scheduled_date), replacing any stale record.
	Upsert(ctx context.Context, rec *domain.RouteRecord) error
}
