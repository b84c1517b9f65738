package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the engine.
	Registry = prometheus.NewRegistry()

	// OrdersAssigned counts orders given a vehicle, by scheduling day offset.
	OrdersAssigned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_orders_assigned_total", Help: "Orders assigned to a vehicle."},
		[]string{"day_offset"},
	)
	// OrdersCascaded counts orders deferred to the next planning day.
	OrdersCascaded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fleet_orders_cascaded_total", Help: "Orders cascaded to a later day."},
	)
	// OrdersUnassigned counts orders left unassigned after the full window.
	OrdersUnassigned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fleet_orders_unassigned_total", Help: "Orders unassigned after the planning window."},
	)
	// RunDuration records scheduler batch durations in seconds.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "fleet_scheduler_run_seconds", Help: "Scheduler run duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// VehicleUtilization tracks assigned weight over capacity per vehicle.
	VehicleUtilization = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "fleet_vehicle_utilization_ratio", Help: "Assigned weight over rated capacity."},
		[]string{"vehicle_id"},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors to the engine registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OrdersAssigned)
		Registry.MustRegister(OrdersCascaded)
		Registry.MustRegister(OrdersUnassigned)
		Registry.MustRegister(RunDuration)
		Registry.MustRegister(VehicleUtilization)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
