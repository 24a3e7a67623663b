package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PoolMetrics exposes connection pool state to Prometheus.
type PoolMetrics struct {
	activeConnections prometheus.Gauge
	idleConnections   prometheus.Gauge
	waitCount         prometheus.Counter
	waitDuration      prometheus.Counter
	maxIdleClosed     prometheus.Counter
	maxLifetimeClosed prometheus.Counter

	lastWaitCount         int64
	lastWaitDuration      time.Duration
	lastMaxIdleClosed     int64
	lastMaxLifetimeClosed int64
}

// NewPoolMetrics registers the pool gauges/counters with the default registry.
func NewPoolMetrics() *PoolMetrics {
	return &PoolMetrics{
		activeConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_active_connections",
			Help: "Number of connections currently in use",
		}),
		idleConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Number of idle database connections",
		}),
		waitCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "db_pool_wait_count_total",
			Help: "Total number of waits for a connection",
		}),
		waitDuration: promauto.NewCounter(prometheus.CounterOpts{
			Name: "db_pool_wait_duration_seconds_total",
			Help: "Total time spent waiting for a connection",
		}),
		maxIdleClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "db_pool_max_idle_closed_total",
			Help: "Total connections closed due to max idle",
		}),
		maxLifetimeClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "db_pool_max_lifetime_closed_total",
			Help: "Total connections closed due to max lifetime",
		}),
	}
}

// Watch samples sql.DBStats on an interval until ctx is cancelled.
func (m *PoolMetrics) Watch(ctx context.Context, db *sql.DB, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.observe(db.Stats())
		}
	}
}

func (m *PoolMetrics) observe(s sql.DBStats) {
	m.activeConnections.Set(float64(s.InUse))
	m.idleConnections.Set(float64(s.Idle))

	// DBStats counters are cumulative; prometheus counters only go up,
	// so feed them the delta since the previous sample.
	if d := s.WaitCount - m.lastWaitCount; d > 0 {
		m.waitCount.Add(float64(d))
	}
	if d := s.WaitDuration - m.lastWaitDuration; d > 0 {
		m.waitDuration.Add(d.Seconds())
	}
	if d := s.MaxIdleClosed - m.lastMaxIdleClosed; d > 0 {
		m.maxIdleClosed.Add(float64(d))
	}
	if d := s.MaxLifetimeClosed - m.lastMaxLifetimeClosed; d > 0 {
		m.maxLifetimeClosed.Add(float64(d))
	}

	m.lastWaitCount = s.WaitCount
	m.lastWaitDuration = s.WaitDuration
	m.lastMaxIdleClosed = s.MaxIdleClosed
	m.lastMaxLifetimeClosed = s.MaxLifetimeClosed
}
