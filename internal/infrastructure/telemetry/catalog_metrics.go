package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// CatalogMetrics records item code allocation and rename activity.
type CatalogMetrics struct {
	codesAllocated     *Counter
	allocationDuration *Histogram
	renames            *Counter
}

// NewCatalogMetrics creates the catalog instruments on meter
func NewCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	codesAllocated, err := NewCounter(meter,
		"erp_item_code_allocated_total",
		"Item codes handed out by the allocator",
		"{codes}",
	)
	if err != nil {
		return nil, err
	}

	allocationDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "erp_item_code_allocation_duration_seconds",
		Description: "Time spent scanning existing codes for a free number",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	renames, err := NewCounter(meter,
		"erp_item_rename_total",
		"Deferred item renames by outcome",
		"{renames}",
	)
	if err != nil {
		return nil, err
	}

	return &CatalogMetrics{
		codesAllocated:     codesAllocated,
		allocationDuration: allocationDuration,
		renames:            renames,
	}, nil
}

// RecordAllocation counts one allocated code under prefix
func (m *CatalogMetrics) RecordAllocation(ctx context.Context, prefix string, elapsed time.Duration) {
	m.codesAllocated.Inc(ctx, AttrCodePrefix.String(prefix))
	m.allocationDuration.RecordDuration(ctx, elapsed, AttrCodePrefix.String(prefix))
}

// RecordRename counts one finished rename attempt
func (m *CatalogMetrics) RecordRename(ctx context.Context, outcome string) {
	m.renames.Inc(ctx, AttrRenameOutcome.String(outcome))
}
