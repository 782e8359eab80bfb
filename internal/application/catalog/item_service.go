package catalog

import (
	"context"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"github.com/dsi-erp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ItemService handles item operations and runs the item code hooks on every save
type ItemService struct {
	itemRepo       catalog.ItemRepository
	groupRepo      catalog.ItemGroupRepository
	linkRepo       catalog.ItemLinkRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	policy         catalog.CodePolicy
	logger         *zap.Logger
	metrics        *telemetry.CatalogMetrics
}

// ItemServiceConfig holds the dependencies of ItemService
type ItemServiceConfig struct {
	ItemRepo       catalog.ItemRepository
	ItemGroupRepo  catalog.ItemGroupRepository
	ItemLinkRepo   catalog.ItemLinkRepository
	TxScope        TransactionScope
	EventPublisher shared.EventPublisher
	Policy         catalog.CodePolicy
	Logger         *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(cfg ItemServiceConfig) *ItemService {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	txScope := cfg.TxScope
	if txScope == nil {
		txScope = NewNoOpTransactionScope(cfg.ItemRepo, cfg.ItemGroupRepo, cfg.ItemLinkRepo)
	}
	return &ItemService{
		itemRepo:       cfg.ItemRepo,
		groupRepo:      cfg.ItemGroupRepo,
		linkRepo:       cfg.ItemLinkRepo,
		txScope:        txScope,
		eventPublisher: cfg.EventPublisher,
		policy:         cfg.Policy.Normalize(),
		logger:         log,
	}
}

// SetCatalogMetrics sets the metrics recorder for code allocation and renames
func (s *ItemService) SetCatalogMetrics(m *telemetry.CatalogMetrics) {
	s.metrics = m
}

// allocator returns an allocator bound to the given repositories
func (s *ItemService) allocator(groups catalog.ItemGroupRepository, items catalog.ItemRepository) *ItemCodeAllocator {
	return NewItemCodeAllocator(groups, items, s.policy, s.logger).WithMetrics(s.metrics)
}

// lifecycle returns the save hooks bound to the given transaction
func (s *ItemService) lifecycle(repos TransactionalRepositories) *ItemLifecycle {
	return NewItemLifecycle(s.allocator(repos.ItemGroupRepo(), repos.ItemRepo()), repos.ItemRepo(), s.logger).
		WithMetrics(s.metrics)
}

// Create creates a new item with a code generated from its item group
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*SaveItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "create",
		telemetry.WithAttribute(telemetry.SpanAttrItemGroup, req.ItemGroup),
	)
	defer span.End()

	item, err := catalog.NewItem(req.ItemName, req.ItemGroup, req.Description, req.StockUOM)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.requireGroup(ctx, repos.ItemGroupRepo(), item.ItemGroup); err != nil {
			return err
		}
		if _, err := s.lifecycle(repos).Validate(ctx, item); err != nil {
			return err
		}
		if item.IsNew() {
			return catalog.ErrItemCodeRequired
		}
		item.MarkCreated()
		return repos.ItemRepo().Create(ctx, item)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrItemCode, item.ItemCode)
	logger.For(ctx, s.logger).Info("item created",
		zap.String("item_code", item.ItemCode),
		zap.String("item_group", item.ItemGroup),
	)
	s.publish(ctx, item)

	return &SaveItemResponse{
		Item: ToItemResponse(item),
	}, nil
}

// Update saves changes to an item. When the item group changes the item gets a
// new code and is renamed within the same transaction; a refused rename rolls
// the whole save back.
func (s *ItemService) Update(ctx context.Context, code string, req UpdateItemRequest) (*SaveItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "update",
		telemetry.WithAttribute(telemetry.SpanAttrItemCode, code),
	)
	defer span.End()

	var (
		item    *catalog.Item
		outcome *RenameOutcome
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByName(ctx, code)
		if err != nil {
			return err
		}

		itemName, itemGroup, description, stockUOM, disabled := item.ItemName, item.ItemGroup, item.Description, item.StockUOM, item.Disabled
		if req.ItemName != nil {
			itemName = *req.ItemName
		}
		if req.ItemGroup != nil {
			itemGroup = *req.ItemGroup
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.StockUOM != nil {
			stockUOM = *req.StockUOM
		}
		if req.Disabled != nil {
			disabled = *req.Disabled
		}

		if itemGroup != item.ItemGroup {
			if err := s.requireGroup(ctx, repos.ItemGroupRepo(), itemGroup); err != nil {
				return err
			}
		}
		if err := item.Update(itemName, itemGroup, description, stockUOM, disabled); err != nil {
			return err
		}

		hooks := s.lifecycle(repos)
		cmd, err := hooks.Validate(ctx, item)
		if err != nil {
			return err
		}

		item.MarkUpdated()
		if err := repos.ItemRepo().Update(ctx, item); err != nil {
			return err
		}

		outcome, err = hooks.AfterSave(ctx, item, cmd)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if item != nil {
			item.ClearDomainEvents()
		}
		return nil, err
	}

	resp := &SaveItemResponse{
		Item: ToItemResponse(item),
	}
	if outcome != nil {
		resp.Message = outcome.Message
		resp.Renamed = outcome.Renamed
		if outcome.Renamed {
			resp.OldCode = outcome.OldCode
		}
		logger.For(ctx, s.logger).Info(outcome.Message,
			zap.String("old_code", outcome.OldCode),
			zap.String("new_code", outcome.NewCode),
		)
	}
	s.publish(ctx, item)

	return resp, nil
}

// GetByCode retrieves an item by its code
func (s *ItemService) GetByCode(ctx context.Context, code string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByName(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List retrieves items
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := catalog.ItemFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "item_code",
			OrderDir: "asc",
		},
		ItemGroup: filter.ItemGroup,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
		if filter.SortDesc {
			domainFilter.OrderDir = "desc"
		}
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToItemResponses(items), total, nil
}

// Delete deletes an item, releasing its code. Items referenced by any
// document cannot be deleted.
func (s *ItemService) Delete(ctx context.Context, code string) error {
	var item *catalog.Item
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByName(ctx, code)
		if err != nil {
			return err
		}
		links, err := repos.ItemLinkRepo().CountByItem(ctx, code)
		if err != nil {
			return err
		}
		if links > 0 {
			return shared.ErrConflict.WithMessage("Cannot delete item " + code + " because it has existing transactions or links.")
		}
		item.MarkDeleted()
		return repos.ItemRepo().Delete(ctx, code)
	})
	if err != nil {
		return err
	}

	logger.For(ctx, s.logger).Info("item deleted", zap.String("item_code", code))
	s.publish(ctx, item)
	return nil
}

// PreviewCode returns the code the next item of the group would receive
func (s *ItemService) PreviewCode(ctx context.Context, itemGroup string) (*ItemCodePreviewResponse, error) {
	code, err := s.allocator(s.groupRepo, s.itemRepo).Preview(ctx, itemGroup)
	if err != nil {
		return nil, err
	}
	return &ItemCodePreviewResponse{
		ItemGroup: itemGroup,
		ItemCode:  code,
	}, nil
}

// AddLink records a document referencing an item
func (s *ItemService) AddLink(ctx context.Context, code string, req AddItemLinkRequest) (*ItemLinkResponse, error) {
	exists, err := s.itemRepo.ExistsByName(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	link, err := catalog.NewItemLink(code, req.ReferenceType, req.ReferenceName, catalog.DocStatus(req.DocStatus))
	if err != nil {
		return nil, err
	}
	if err := s.linkRepo.Save(ctx, link); err != nil {
		return nil, err
	}

	resp := ToItemLinkResponse(link)
	return &resp, nil
}

// Links lists the documents referencing an item
func (s *ItemService) Links(ctx context.Context, code string) ([]ItemLinkResponse, error) {
	exists, err := s.itemRepo.ExistsByName(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	links, err := s.linkRepo.FindByItem(ctx, code)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemLinkResponse, len(links))
	for i := range links {
		responses[i] = ToItemLinkResponse(&links[i])
	}
	return responses, nil
}

func (s *ItemService) requireGroup(ctx context.Context, groups catalog.ItemGroupRepository, name string) error {
	if name == "" {
		return catalog.ErrItemCodeRequired
	}
	exists, err := groups.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return catalog.ErrItemGroupNotFound
	}
	return nil
}

// publish publishes and clears the item's pending events; failures are logged only
func (s *ItemService) publish(ctx context.Context, item *catalog.Item) {
	events := item.GetDomainEvents()
	item.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.For(ctx, s.logger).Warn("Failed to publish item events",
			zap.String("item_code", item.ItemCode),
			zap.Error(err),
		)
	}
}
