package metrics

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var _ bun.QueryHook = (*DatabaseMetrics)(nil)

// DatabaseMetrics times every bun query and observes the connection pool.
// Attach it with (*bun.DB).AddQueryHook.
type DatabaseMetrics struct {
	connections    metric.Int64ObservableGauge
	maxConnections metric.Int64ObservableGauge
	waitCount      metric.Int64ObservableCounter
	queryDuration  metric.Float64Histogram
	queryErrors    metric.Int64Counter
}

func NewDatabaseMetrics(meter metric.Meter) (*DatabaseMetrics, error) {
	dm := &DatabaseMetrics{}

	var err error
	dm.connections, err = meter.Int64ObservableGauge(
		"db.client.connections.usage",
		metric.WithDescription("Pool connections by state (idle, used)"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	dm.maxConnections, err = meter.Int64ObservableGauge(
		"db.client.connections.max",
		metric.WithDescription("Maximum number of open connections allowed"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	dm.waitCount, err = meter.Int64ObservableCounter(
		"db.client.connections.waits",
		metric.WithDescription("Times a query waited for a free connection"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	dm.queryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, err
	}

	dm.queryErrors, err = meter.Int64Counter(
		"db.query.errors",
		metric.WithDescription("Database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return dm, nil
}

// RegisterDB exports the pool stats of db on every collection.
func (dm *DatabaseMetrics) RegisterDB(db *sql.DB, meter metric.Meter) error {
	if dm == nil || dm.connections == nil {
		return nil
	}

	idle := metric.WithAttributes(attribute.String("state", "idle"))
	used := metric.WithAttributes(attribute.String("state", "used"))

	_, err := meter.RegisterCallback(
		func(ctx context.Context, observer metric.Observer) error {
			stats := db.Stats()
			observer.ObserveInt64(dm.connections, int64(stats.Idle), idle)
			observer.ObserveInt64(dm.connections, int64(stats.InUse), used)
			observer.ObserveInt64(dm.maxConnections, int64(stats.MaxOpenConnections))
			observer.ObserveInt64(dm.waitCount, stats.WaitCount)
			return nil
		},
		dm.connections,
		dm.maxConnections,
		dm.waitCount,
	)
	return err
}

func (dm *DatabaseMetrics) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery records the query under its operation and the table of its
// model. sql.ErrNoRows is an answer, not a failure.
func (dm *DatabaseMetrics) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	err := event.Err
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	dm.RecordQuery(ctx, strings.ToLower(event.Operation()), modelTable(event.Model), time.Since(event.StartTime), err)
}

func (dm *DatabaseMetrics) RecordQuery(ctx context.Context, operation string, table string, duration time.Duration, err error) {
	if dm == nil || dm.queryDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("operation", operation)}
	if table != "" {
		attrs = append(attrs, attribute.String("table", table))
	}
	opt := metric.WithAttributes(attrs...)

	dm.queryDuration.Record(ctx, duration.Seconds(), opt)
	if err != nil {
		dm.queryErrors.Add(ctx, 1, opt)
	}
}

// modelTable is empty for raw queries and transaction statements.
func modelTable(model bun.Model) string {
	tm, ok := model.(interface{ Table() *schema.Table })
	if !ok || tm.Table() == nil {
		return ""
	}
	return tm.Table().Name
}
