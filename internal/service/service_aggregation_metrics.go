package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// aggregationMetrics bundles the OpenTelemetry instruments the engine
// reports through. Every instrument carries an "operation" attribute
// (accounts or transactions) so the two query kinds can be told apart on
// one dashboard.
type aggregationMetrics struct {
	// fanOutDuration measures one whole fan-out, from the first provider
	// call to the merged result.
	fanOutDuration metric.Float64Histogram

	// credentialFailures counts provider calls that failed terminally and
	// dropped their credential from a merge.
	credentialFailures metric.Int64Counter

	// mergedRecords counts records returned to callers after merging.
	mergedRecords metric.Int64Counter
}

func newAggregationMetrics(meter metric.Meter) (*aggregationMetrics, error) {
	fanOutDuration, err := meter.Float64Histogram(
		"aggregation.fanout.duration",
		metric.WithDescription("Duration of one fan-out across a user's linked credentials."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("fan-out duration histogram creation failed: %w", err)
	}

	credentialFailures, err := meter.Int64Counter(
		"aggregation.credential.failures",
		metric.WithDescription("Provider calls that failed and dropped their credential from a merge."),
	)
	if err != nil {
		return nil, fmt.Errorf("credential failures counter creation failed: %w", err)
	}

	mergedRecords, err := meter.Int64Counter(
		"aggregation.merged.records",
		metric.WithDescription("Records returned to callers after merging."),
	)
	if err != nil {
		return nil, fmt.Errorf("merged records counter creation failed: %w", err)
	}

	return &aggregationMetrics{
		fanOutDuration:     fanOutDuration,
		credentialFailures: credentialFailures,
		mergedRecords:      mergedRecords,
	}, nil
}

func (m *aggregationMetrics) observeFanOut(ctx context.Context, operation string, elapsed time.Duration, records int) {
	set := metric.WithAttributes(attribute.String("operation", operation))

	m.fanOutDuration.Record(ctx, elapsed.Seconds(), set)
	m.mergedRecords.Add(ctx, int64(records), set)
}

func (m *aggregationMetrics) observeCredentialFailure(ctx context.Context, operation string) {
	m.credentialFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
