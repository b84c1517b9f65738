package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fleet-assignment-service/internal/domain"
	"fleet-assignment-service/internal/platform/lock"
	"fleet-assignment-service/internal/platform/metrics"
	"fleet-assignment-service/internal/ports"
)

// Tunables for a scheduling run.
type SchedulerConfig struct {
	Depot        domain.Coordinates
	PlanningDays int
	Cluster      ClusterConfig
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.PlanningDays <= 0 {
		c.PlanningDays = 3
	}
	return c
}

// Scheduler is the top-level orchestrator: it builds the plan for today,
// greedily fits the remainder, cascades overflow across the rolling planning
// window and persists the results. One Run is a single sequential batch over
// an in-memory snapshot; concurrent runs for the same date are serialized
// through the run lock.
type Scheduler struct {
	Orders    ports.OrderRepository
	Vehicles  ports.VehicleRepository
	Drivers   ports.DriverRepository
	Routes    ports.RouteRecordRepository
	Sequencer *Sequencer
	// Optional: resolves missing order coordinates before clustering.
	Geocoder ports.Geocoder
	Lock     lock.RunLock
	Config   SchedulerConfig
	Log      zerolog.Logger
}

// Outcome of one planning day.
type DayReport struct {
	Date              time.Time
	RoutesPlanned     int
	OrdersAssigned    int
	OrdersCascaded    int
	UnstaffedVehicles []string
	// True when no leftover order fits any vehicle by weight; the
	// precondition for cascading the leftovers to the next day.
	AllVehiclesFull bool
}

// Outcome of a full scheduling run.
type ScheduleReport struct {
	RunID              string
	Days               []DayReport
	UnassignedOrderIDs []string
	NeedsLocationIDs   []string
}

// Run executes one scheduling batch starting at the given date. It either
// completes or returns an error; partial persistence failures are logged and
// skipped rather than aborting the batch.
func (s *Scheduler) Run(ctx context.Context, today time.Time) (*ScheduleReport, error) {
	cfg := s.Config.withDefaults()
	start := time.Now()

	today = truncateToDay(today)
	dates := make([]time.Time, cfg.PlanningDays)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, i)
	}

	if s.Lock != nil {
		key := today.Format(time.DateOnly)
		if err := s.Lock.Acquire(ctx, key); err != nil {
			return nil, fmt.Errorf("scheduler run: %w", err)
		}
		defer func() {
			if err := s.Lock.Release(context.WithoutCancel(ctx), key); err != nil {
				s.Log.Error().Err(err).Msg("release run lock")
			}
		}()
	}

	report := &ScheduleReport{RunID: uuid.NewString()}
	log := s.Log.With().Str("run_id", report.RunID).Logger()
	log.Info().Time("today", today).Int("days", cfg.PlanningDays).Msg("scheduling run started")

	snapshot, err := s.loadSnapshot(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("scheduler run: %w", err)
	}

	pool := s.resolveLocations(ctx, snapshot.pool, report, log)
	sortByPriority(pool)

	var all []*domain.VehicleAssignment
	for dayIdx, date := range dates {
		if len(pool) == 0 {
			break
		}

		assignments, leftovers, day := s.planDay(ctx, cfg, snapshot, pool, date, dayIdx, log)
		all = append(all, assignments...)

		// Overflow cascades to the next day only when every vehicle is at
		// capacity; otherwise the orders stay pending for another pass.
		if dayIdx < len(dates)-1 && len(leftovers) > 0 && day.AllVehiclesFull {
			next := dates[dayIdx+1]
			for _, o := range leftovers {
				o.Status = domain.StatusScheduled
				o.ScheduledDate = &next
				o.Priority++
			}
			day.OrdersCascaded = len(leftovers)
			metrics.OrdersCascaded.Add(float64(len(leftovers)))
		}

		report.Days = append(report.Days, day)
		pool = leftovers
	}

	// Orders no vehicle could take within the window stay unassigned with a
	// bumped priority so future runs serve them first.
	for _, o := range pool {
		o.Status = domain.StatusUnassigned
		o.ScheduledDate = nil
		o.AssignedVehicle = ""
		o.AssignedDriver = ""
		o.Priority++
		report.UnassignedOrderIDs = append(report.UnassignedOrderIDs, o.ID)
	}
	metrics.OrdersUnassigned.Add(float64(len(pool)))

	s.persist(ctx, all, pool, log)

	metrics.RunDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Int("assignments", len(all)).
		Int("unassigned", len(report.UnassignedOrderIDs)).
		Dur("dur", time.Since(start)).
		Msg("scheduling run finished")

	return report, nil
}

type snapshot struct {
	pool     []*domain.Order
	vehicles []*domain.Vehicle
	drivers  []*domain.Driver
	inTrip   map[string]map[string]bool // date key -> vehicle id
	// Weight committed by earlier runs per date key and vehicle. Committed
	// work is never overwritten.
	baseWeight map[string]map[string]float64
}

func (s *Scheduler) loadSnapshot(ctx context.Context, dates []time.Time) (*snapshot, error) {
	pool, err := s.Orders.ListUnassigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unassigned orders: %w", err)
	}

	vehicles, err := s.Vehicles.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	drivers, err := s.Drivers.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}

	committed, err := s.Orders.ListCommitted(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("list committed orders: %w", err)
	}

	snap := &snapshot{
		pool:       pool,
		vehicles:   vehicles,
		drivers:    drivers,
		inTrip:     make(map[string]map[string]bool, len(dates)),
		baseWeight: make(map[string]map[string]float64, len(dates)),
	}

	for _, d := range dates {
		key := d.Format(time.DateOnly)
		snap.baseWeight[key] = make(map[string]float64)
		inTrip, err := s.Vehicles.ListInTrip(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("list in-trip vehicles for %s: %w", key, err)
		}
		snap.inTrip[key] = inTrip
	}

	for _, o := range committed {
		if o.ScheduledDate == nil || o.AssignedVehicle == "" {
			continue
		}
		key := o.ScheduledDate.Format(time.DateOnly)
		if byVehicle, ok := snap.baseWeight[key]; ok {
			byVehicle[o.AssignedVehicle] += o.WeightKg
		}
	}

	return snap, nil
}

// resolveLocations tries to geocode orders that arrived without coordinates.
// Orders that still cannot be placed spatially (no coordinates and no zone
// label) are removed from the pool and flagged for manual location setup.
// They are not dropped from the order store.
func (s *Scheduler) resolveLocations(ctx context.Context, pool []*domain.Order, report *ScheduleReport, log zerolog.Logger) []*domain.Order {
	kept := pool[:0]
	for _, o := range pool {
		if o.Location == nil && o.Address != "" && s.Geocoder != nil {
			res, err := s.Geocoder.Geocode(ctx, o.Address)
			if err != nil {
				log.Warn().Err(err).Str("order_id", o.ID).Msg("geocoding failed")
			} else {
				loc := res.Location
				o.Location = &loc
				if o.Zone == "" {
					o.Zone = res.Region
				}
			}
		}
		if o.Location == nil && o.Zone == "" {
			report.NeedsLocationIDs = append(report.NeedsLocationIDs, o.ID)
			if err := s.Orders.FlagNeedsLocation(ctx, o.ID); err != nil {
				log.Error().Err(err).Str("order_id", o.ID).Msg("flag needs location")
			}
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

// planDay runs clustering, sequencing, vehicle and driver assignment plus the
// greedy top-up for a single date. It returns the day's assignments and the
// orders that did not fit.
func (s *Scheduler) planDay(
	ctx context.Context,
	cfg SchedulerConfig,
	snap *snapshot,
	pool []*domain.Order,
	date time.Time,
	dayIdx int,
	log zerolog.Logger,
) ([]*domain.VehicleAssignment, []*domain.Order, DayReport) {
	dateKey := date.Format(time.DateOnly)
	day := DayReport{Date: date}

	// Vehicles out on a trip receive no new work for this date.
	available := make([]*domain.Vehicle, 0, len(snap.vehicles))
	for _, v := range snap.vehicles {
		if !snap.inTrip[dateKey][v.ID] {
			available = append(available, v)
		}
	}
	if len(available) == 0 {
		// The whole fleet is out; everything pending rolls forward.
		day.AllVehiclesFull = len(pool) > 0
		return nil, pool, day
	}

	routes := ClusterOrders(pool, cfg.Cluster)
	assigned, unassignedRoutes := AssignRoutes(routes, available, date, snap.baseWeight[dateKey])

	var leftovers []*domain.Order
	for _, r := range unassignedRoutes {
		leftovers = append(leftovers, r.Orders...)
	}

	// Empty shells for vehicles without a route, so the greedy top-up can use
	// their residual capacity too.
	assignments := assigned
	taken := make(map[string]bool, len(assigned))
	for _, a := range assigned {
		taken[a.Vehicle.ID] = true
	}
	for _, v := range available {
		if !taken[v.ID] {
			assignments = append(assignments, &domain.VehicleAssignment{
				Vehicle:      v,
				Date:         date,
				BaseWeightKg: snap.baseWeight[dateKey][v.ID],
			})
		}
	}

	// Route assignment checked weight only; re-admit each order through the
	// full constraint set and push rejects back into the leftover pool.
	for _, a := range assigned {
		candidates := a.Orders
		a.Orders = nil
		for _, o := range candidates {
			if CanAssign(o, a, assignments) {
				a.Orders = append(a.Orders, o)
			} else {
				leftovers = append(leftovers, o)
			}
		}
	}

	sortByPriority(leftovers)
	leftovers = greedyTopUp(leftovers, assignments)
	day.AllVehiclesFull = len(leftovers) > 0 && allAtCapacity(assignments, leftovers)

	// Sequence every vehicle that carries orders and stamp the plan onto its
	// orders.
	final := assignments[:0]
	for _, a := range assignments {
		if len(a.Orders) == 0 {
			continue
		}
		seq := s.Sequencer.Sequence(ctx, cfg.Depot, &domain.PlannedRoute{Label: a.Label, Orders: a.Orders})
		a.Orders = seq.Orders
		a.DistanceKm = seq.DistanceKm
		a.DurationHours = seq.DurationHours
		a.Geometry = seq.Geometry
		final = append(final, a)
		day.RoutesPlanned++
		day.OrdersAssigned += len(a.Orders)
		metrics.VehicleUtilization.WithLabelValues(a.Vehicle.ID).Set(a.Utilization())
	}

	day.UnstaffedVehicles = AssignDrivers(final, snap.drivers)
	for _, id := range day.UnstaffedVehicles {
		log.Warn().Str("vehicle_id", id).Str("date", dateKey).Msg("vehicle has no qualified driver")
	}

	metrics.OrdersAssigned.WithLabelValues(strconv.Itoa(dayIdx)).Add(float64(day.OrdersAssigned))

	return final, leftovers, day
}

// greedyTopUp fits still-unassigned orders onto any vehicle with residual
// capacity so partial capacity is not left idle while cascading. Candidate
// vehicles are tried best-fit first (see VehiclePriority).
func greedyTopUp(orders []*domain.Order, assignments []*domain.VehicleAssignment) (leftover []*domain.Order) {
	for _, o := range orders {
		candidates := make([]*domain.VehicleAssignment, 0, len(assignments))
		for _, a := range assignments {
			if CanAssign(o, a, assignments) {
				candidates = append(candidates, a)
			}
		}
		if len(candidates) == 0 {
			leftover = append(leftover, o)
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			pi, pj := VehiclePriority(o, candidates[i]), VehiclePriority(o, candidates[j])
			if pi != pj {
				return pi < pj
			}
			return candidates[i].Vehicle.ID < candidates[j].Vehicle.ID
		})
		best := candidates[0]
		best.Orders = append(best.Orders, o)
		if best.Label == "" {
			best.Label = orderRegion(o)
		}
	}
	return leftover
}

// allAtCapacity reports whether no leftover order fits any vehicle by weight.
// Restriction-blocked orders with capacity still open do not trigger a
// cascade; they stay pending.
func allAtCapacity(assignments []*domain.VehicleAssignment, leftovers []*domain.Order) bool {
	minWeight := leftovers[0].WeightKg
	for _, o := range leftovers[1:] {
		if o.WeightKg < minWeight {
			minWeight = o.WeightKg
		}
	}
	for _, a := range assignments {
		if a.RemainingKg() >= minWeight {
			return false
		}
	}
	return true
}

// persist writes assignment fields per order and upserts the per-vehicle-day
// route records. Individual failures are logged and skipped; the batch is
// partial-failure tolerant.
func (s *Scheduler) persist(ctx context.Context, assignments []*domain.VehicleAssignment, unassigned []*domain.Order, log zerolog.Logger) {
	for _, a := range assignments {
		driverID := ""
		if len(a.Drivers) > 0 {
			driverID = a.Drivers[0].ID
		}

		for i, o := range a.Orders {
			o.Status = domain.StatusAssigned
			o.AssignedVehicle = a.Vehicle.ID
			o.AssignedDriver = driverID
			date := a.Date
			o.ScheduledDate = &date
			o.DeliverySequence = i + 1
			if a.Label != "" {
				o.DestinationGroup = a.Label
			}

			if err := s.Orders.UpdateAssignment(ctx, o); err != nil {
				log.Error().Err(err).Str("order_id", o.ID).Msg("persist order assignment")
			}
		}

		rec := &domain.RouteRecord{
			VehicleID:     a.Vehicle.ID,
			ScheduledDate: a.Date,
			Geometry:      a.Geometry,
			DistanceKm:    a.DistanceKm,
			DurationHours: a.DurationHours,
		}
		if err := s.Routes.Upsert(ctx, rec); err != nil {
			log.Error().Err(err).Str("vehicle_id", a.Vehicle.ID).Msg("persist route record")
		}
	}

	for _, o := range unassigned {
		if err := s.Orders.UpdateAssignment(ctx, o); err != nil {
			log.Error().Err(err).Str("order_id", o.ID).Msg("persist unassigned order")
		}
	}
}

func sortByPriority(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Priority != orders[j].Priority {
			return orders[i].Priority > orders[j].Priority
		}
		if orders[i].WeightKg != orders[j].WeightKg {
			return orders[i].WeightKg > orders[j].WeightKg
		}
		return orders[i].ID < orders[j].ID
	})
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
