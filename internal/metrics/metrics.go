package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Buckets: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s, 10s
var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics
	Health    *HealthMetrics

	entitiesCreated metric.Int64Counter
	entitiesUpdated metric.Int64Counter
	entitiesDeleted metric.Int64Counter
	listsViewed     metric.Int64Counter
}

func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	// Runtime gauges only need their callback registered.
	if _, err := NewRuntimeMetrics(meter); err != nil {
		return nil, err
	}

	m := &Metrics{
		Database:  database,
		Messaging: messaging,
		Health:    health,
	}

	m.entitiesCreated, err = meter.Int64Counter(
		"school.entities.created",
		metric.WithDescription("Total number of records created"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.entitiesUpdated, err = meter.Int64Counter(
		"school.entities.updated",
		metric.WithDescription("Total number of records updated"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.entitiesDeleted, err = meter.Int64Counter(
		"school.entities.deleted",
		metric.WithDescription("Total number of records deleted"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.listsViewed, err = meter.Int64Counter(
		"school.lists.viewed",
		metric.WithDescription("Total number of times a collection was listed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing.
// Every Record* call on it is safely ignored.
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
		Health:    &HealthMetrics{dependencies: make(map[string]bool)},
	}
}

func (m *Metrics) RecordCreated(ctx context.Context, entity string) {
	if m != nil && m.entitiesCreated != nil {
		m.entitiesCreated.Add(ctx, 1, entityAttr(entity))
	}
}

func (m *Metrics) RecordUpdated(ctx context.Context, entity string) {
	if m != nil && m.entitiesUpdated != nil {
		m.entitiesUpdated.Add(ctx, 1, entityAttr(entity))
	}
}

func (m *Metrics) RecordDeleted(ctx context.Context, entity string) {
	if m != nil && m.entitiesDeleted != nil {
		m.entitiesDeleted.Add(ctx, 1, entityAttr(entity))
	}
}

func (m *Metrics) RecordListViewed(ctx context.Context, entity string) {
	if m != nil && m.listsViewed != nil {
		m.listsViewed.Add(ctx, 1, entityAttr(entity))
	}
}

func entityAttr(entity string) metric.AddOption {
	return metric.WithAttributes(attribute.String("entity", entity))
}
