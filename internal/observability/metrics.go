package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// storeWrites counts snapshot writes by slot key and result (ok|error).
	storeWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_store_writes_total",
			Help: "Snapshot writes to the blob store by key and result.",
		},
		[]string{"key", "result"},
	)

	// storeWriteLat records write latency in seconds by slot key.
	storeWriteLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendar_store_write_duration_seconds",
			Help:    "Duration of snapshot writes in seconds.",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"key"},
	)

	// storeLoads counts initial loads by slot key and result (ok|empty|error).
	storeLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_store_loads_total",
			Help: "Initial blob loads by key and result.",
		},
		[]string{"key", "result"},
	)

	// appointments gauges the size of the live collection.
	appointments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "calendar_appointments",
			Help: "Number of appointments currently held by the store.",
		},
	)

	// backups counts ICS backup job runs by result.
	backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_backups_total",
			Help: "ICS backup runs by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(storeWrites, storeWriteLat, storeLoads, appointments, backups)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStoreWrite records one snapshot write.
func ObserveStoreWrite(key string, d time.Duration, err error) {
	storeWrites.WithLabelValues(key, result(err)).Inc()
	storeWriteLat.WithLabelValues(key).Observe(d.Seconds())
}

// ObserveStoreLoad records the outcome of an initial load; empty marks a
// slot that had never been written.
func ObserveStoreLoad(key string, empty bool, err error) {
	r := result(err)
	if err == nil && empty {
		r = "empty"
	}
	storeLoads.WithLabelValues(key, r).Inc()
}

// SetAppointments updates the collection size gauge.
func SetAppointments(n int) { appointments.Set(float64(n)) }

// ObserveBackup records one backup run.
func ObserveBackup(err error) { backups.WithLabelValues(result(err)).Inc() }
