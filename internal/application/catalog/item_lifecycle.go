package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"github.com/dsi-erp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Rename outcomes reported to metrics
const (
	RenameOutcomeRenamed   = "renamed"
	RenameOutcomeUnchanged = "unchanged"
	RenameOutcomeBlocked   = "blocked"
	RenameOutcomeFailed    = "failed"
)

// RenameOutcome is the result of the post-save step
type RenameOutcome struct {
	Renamed bool
	OldCode string
	NewCode string
	Message string
}

// ItemLifecycle runs the item code hooks around an item save:
// Validate before the record is stored and AfterSave once it is.
type ItemLifecycle struct {
	allocator *ItemCodeAllocator
	items     catalog.ItemRepository
	logger    *zap.Logger
	metrics   *telemetry.CatalogMetrics
}

// NewItemLifecycle creates the hooks over an allocator and the item repository
// it should rename through. Both must share the same transaction.
func NewItemLifecycle(allocator *ItemCodeAllocator, items catalog.ItemRepository, log *zap.Logger) *ItemLifecycle {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemLifecycle{
		allocator: allocator,
		items:     items,
		logger:    log,
	}
}

// WithMetrics sets the metrics recorder
func (l *ItemLifecycle) WithMetrics(m *telemetry.CatalogMetrics) *ItemLifecycle {
	l.metrics = m
	return l
}

// Validate assigns or re-derives the item code.
//
// A new or codeless item gets a code and no command. A stored item whose code
// no longer carries its group's prefix gets a fresh code staged on ItemCode and
// a RenameCommand the caller must hand to AfterSave after storing the item.
func (l *ItemLifecycle) Validate(ctx context.Context, item *catalog.Item) (*catalog.RenameCommand, error) {
	if item.ItemGroup == "" {
		return nil, nil
	}
	prefix := l.allocator.BuildPrefix(ctx, item.ItemGroup)
	if prefix == "" {
		return nil, nil
	}

	if item.IsNew() || item.ItemCode == "" {
		code, err := l.allocator.NextAvailableCode(ctx, prefix, "")
		if err != nil {
			return nil, err
		}
		item.AssignCode(code)
		return nil, nil
	}

	if catalog.HasCodePrefix(item.ItemCode, prefix) {
		return nil, nil
	}

	newCode, err := l.allocator.NextAvailableCode(ctx, prefix, item.Name)
	if err != nil {
		return nil, err
	}
	cmd := &catalog.RenameCommand{
		Key:     item.Name,
		OldCode: item.ItemCode,
		NewCode: newCode,
		Prefix:  prefix,
	}
	item.StageCode(newCode)

	logger.For(ctx, l.logger).Debug("item code staged for rename",
		zap.String("old_code", cmd.OldCode),
		zap.String("new_code", cmd.NewCode),
		zap.String("item_group", item.ItemGroup),
	)
	return cmd, nil
}

// AfterSave performs the rename staged by Validate. A nil command is a no-op.
//
// If the staged code was taken in the meantime a new one is allocated. The
// storage key is then moved from the old code to the new one unless the old
// record is gone or the codes are equal, in which case only the current code
// is reported.
func (l *ItemLifecycle) AfterSave(ctx context.Context, item *catalog.Item, cmd *catalog.RenameCommand) (*RenameOutcome, error) {
	if cmd == nil {
		return nil, nil
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "rename",
		telemetry.WithAttribute(telemetry.SpanAttrOldCode, cmd.OldCode),
		telemetry.WithAttribute(telemetry.SpanAttrItemCode, cmd.NewCode),
	)
	defer span.End()

	newCode := cmd.NewCode

	taken, err := l.items.ExistsByName(ctx, newCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, l.failed(ctx, cmd, err)
	}
	if taken && newCode != cmd.OldCode {
		newCode, err = l.allocator.NextAvailableCode(ctx, cmd.Prefix, item.Name)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, l.failed(ctx, cmd, err)
		}
		item.StageCode(newCode)
		telemetry.AddEvent(span, "item_code_reallocated", "staged_code", cmd.NewCode, "new_code", newCode)
		logger.For(ctx, l.logger).Warn("staged item code was taken, reallocated",
			zap.String("staged_code", cmd.NewCode),
			zap.String("new_code", newCode),
		)
	}

	oldExists, err := l.items.ExistsByName(ctx, cmd.OldCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, l.failed(ctx, cmd, err)
	}

	if !oldExists || cmd.OldCode == newCode {
		l.record(ctx, RenameOutcomeUnchanged)
		return &RenameOutcome{
			OldCode: cmd.OldCode,
			NewCode: newCode,
			Message: fmt.Sprintf("Item code is now: %s", newCode),
		}, nil
	}

	if err := l.items.Rename(ctx, cmd.OldCode, newCode); err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, catalog.ErrLinkExists) {
			l.record(ctx, RenameOutcomeBlocked)
			return nil, catalog.NewLinkExistsError(cmd.OldCode)
		}
		return nil, l.failed(ctx, cmd, err)
	}

	item.ApplyRename(cmd.OldCode, newCode)
	l.record(ctx, RenameOutcomeRenamed)

	return &RenameOutcome{
		Renamed: true,
		OldCode: cmd.OldCode,
		NewCode: newCode,
		Message: fmt.Sprintf("Item successfully renamed from %s to %s", cmd.OldCode, newCode),
	}, nil
}

func (l *ItemLifecycle) failed(ctx context.Context, cmd *catalog.RenameCommand, err error) error {
	logger.For(ctx, l.logger).Error("Error renaming item",
		zap.String("old_code", cmd.OldCode),
		zap.String("new_code", cmd.NewCode),
		zap.Error(err),
	)
	l.record(ctx, RenameOutcomeFailed)
	return catalog.NewRenameFailedError(err)
}

func (l *ItemLifecycle) record(ctx context.Context, outcome string) {
	if l.metrics != nil {
		l.metrics.RecordRename(ctx, outcome)
	}
}
