package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"github.com/dsi-erp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxPrefixDepth bounds the parent walk of BuildPrefix
const maxPrefixDepth = 32

// ItemCodeAllocator derives code prefixes from the item group tree and
// hands out the lowest free sequence number under a prefix.
//
// Allocation is a read-then-pick scan without locking. Two saves racing for
// the same prefix can both observe the same gap; the unique storage key makes
// the loser fail with a conflict.
type ItemCodeAllocator struct {
	groups  catalog.ItemGroupRepository
	items   catalog.ItemRepository
	policy  catalog.CodePolicy
	logger  *zap.Logger
	metrics *telemetry.CatalogMetrics
}

// NewItemCodeAllocator creates an allocator over the given repositories
func NewItemCodeAllocator(
	groups catalog.ItemGroupRepository,
	items catalog.ItemRepository,
	policy catalog.CodePolicy,
	log *zap.Logger,
) *ItemCodeAllocator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemCodeAllocator{
		groups: groups,
		items:  items,
		policy: policy.Normalize(),
		logger: log,
	}
}

// WithMetrics sets the metrics recorder
func (a *ItemCodeAllocator) WithMetrics(m *telemetry.CatalogMetrics) *ItemCodeAllocator {
	a.metrics = m
	return a
}

// Policy returns the code policy in effect
func (a *ItemCodeAllocator) Policy() catalog.CodePolicy {
	return a.policy
}

// BuildPrefix returns the code prefix of an item group: the segment codes of
// the group and its ancestors, root-most first, stopping below the root sentinel.
// Lookup failures never propagate. A missing group yields "", a missing
// ancestor contributes nothing.
func (a *ItemCodeAllocator) BuildPrefix(ctx context.Context, group string) string {
	if group == "" {
		return ""
	}

	segments := make([]string, 0, 4)
	visited := make(map[string]bool)
	name := group

	for {
		if visited[name] || len(visited) >= maxPrefixDepth {
			logger.For(ctx, a.logger).Error("Error building prefix: item group hierarchy is cyclic or too deep",
				zap.String("item_group", group),
				zap.String("at", name),
			)
			return ""
		}
		visited[name] = true

		g, err := a.groups.FindByName(ctx, name)
		if err != nil {
			logger.For(ctx, a.logger).Error("Error building prefix",
				zap.String("item_group", name),
				zap.Error(err),
			)
			if name == group {
				return ""
			}
			break
		}

		segments = append(segments, a.policy.SegmentCode(g.Name))
		if g.ParentItemGroup == "" || a.policy.IsRoot(g.ParentItemGroup) {
			break
		}
		name = g.ParentItemGroup
	}

	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString(segments[i])
	}
	return b.String()
}

// NextAvailableCode returns the code with the smallest unused number under
// prefix. The item stored under exclude does not count as a user of its number.
// An empty prefix is replaced by the fallback prefix.
func (a *ItemCodeAllocator) NextAvailableCode(ctx context.Context, prefix, exclude string) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item_code", "allocate",
		telemetry.WithAttribute(telemetry.SpanAttrCodePrefix, prefix),
	)
	defer span.End()
	start := time.Now()

	prefix = a.policy.PrefixOrFallback(prefix)

	entries, err := a.items.FindCodesWithPrefix(ctx, prefix)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", fmt.Errorf("list item codes for prefix %s: %w", prefix, err)
	}

	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		if exclude != "" && e.Name == exclude {
			continue
		}
		codes = append(codes, e.ItemCode)
	}

	code := a.policy.NextCode(prefix, codes)
	telemetry.SetAttribute(span, telemetry.SpanAttrItemCode, code)
	if a.metrics != nil {
		a.metrics.RecordAllocation(ctx, prefix, time.Since(start))
	}
	return code, nil
}

// Preview returns the code the next item of group would receive, or "" when
// the group yields no prefix. Nothing is excluded from the scan.
func (a *ItemCodeAllocator) Preview(ctx context.Context, group string) (string, error) {
	if group == "" {
		return "", nil
	}
	prefix := a.BuildPrefix(ctx, group)
	if prefix == "" {
		return "", nil
	}
	return a.NextAvailableCode(ctx, prefix, "")
}
