package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the calculator's OTel instruments. Create it once at
// startup, after observability.InitMetrics has installed the provider.
type Metrics struct {
	ops            metric.Int64Counter
	duration       metric.Float64Histogram
	errors         metric.Int64Counter
	lastResult     metric.Float64Gauge
	activeSessions metric.Int64UpDownCounter
}

// NewMetrics registers the calculator instruments on the global meter
// provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("calculator")

	var (
		m   Metrics
		err error
	)

	m.ops, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of calculator operations performed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ops counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ops histogram: %w", err)
	}

	m.errors, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of failed evaluations and rejected requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}

	m.lastResult, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last successful evaluation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating result gauge: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter("calculator.sessions.active",
		metric.WithDescription("Number of calculator sessions held in memory"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	return &m, nil
}

// Errors is the counter handed to observability.RecordError.
func (m *Metrics) Errors() metric.Int64Counter {
	return m.errors
}
