package domain

import "time"

// Lifecycle status of a delivery order.
type OrderStatus string

const (
	StatusUnassigned OrderStatus = "unassigned"
	StatusScheduled  OrderStatus = "scheduled"
	StatusAssigned   OrderStatus = "assigned"
	StatusInTrip     OrderStatus = "in_trip"
	StatusDelivered  OrderStatus = "delivered"
)

// Represents a single delivery order handled by the engine.
//
// Location is nil until geocoding has resolved the delivery address; such
// orders are excluded from spatial clustering and flagged for manual location
// setup. Priority is incremented each day the order is not served, biasing
// future runs toward serving it first.
type Order struct {
	ID               string
	CustomerName     string
	Address          string
	WeightKg         float64
	Drums            int
	Location         *Coordinates
	Zone             string
	Status           OrderStatus
	AssignedVehicle  string
	AssignedDriver   string
	ScheduledDate    *time.Time
	DeliverySequence int
	Priority         int
	DestinationGroup string
}

// An order already out for delivery is immutable to reassignment.
func (o *Order) Reassignable() bool {
	return o.Status != StatusInTrip && o.Status != StatusDelivered
}
