package catalog

import (
	"context"
	"errors"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ItemGroupService handles item group operations
type ItemGroupService struct {
	groupRepo      catalog.ItemGroupRepository
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
	policy         catalog.CodePolicy
	logger         *zap.Logger
}

// NewItemGroupService creates a new ItemGroupService
func NewItemGroupService(
	groupRepo catalog.ItemGroupRepository,
	itemRepo catalog.ItemRepository,
	eventPublisher shared.EventPublisher,
	policy catalog.CodePolicy,
	log *zap.Logger,
) *ItemGroupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemGroupService{
		groupRepo:      groupRepo,
		itemRepo:       itemRepo,
		eventPublisher: eventPublisher,
		policy:         policy.Normalize(),
		logger:         log,
	}
}

// EnsureRoot creates the root item group if it does not exist
func (s *ItemGroupService) EnsureRoot(ctx context.Context) error {
	exists, err := s.groupRepo.ExistsByName(ctx, s.policy.RootItemGroup)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	root, err := catalog.NewRootItemGroup(s.policy.RootItemGroup)
	if err != nil {
		return err
	}
	if err := s.groupRepo.Create(ctx, root); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	s.logger.Info("root item group created", zap.String("name", root.Name))
	s.publish(ctx, &root.BaseAggregateRoot)
	return nil
}

// Create creates a new item group. Without a parent the group is placed under the root.
func (s *ItemGroupService) Create(ctx context.Context, req CreateItemGroupRequest) (*ItemGroupResponse, error) {
	parent := req.ParentItemGroup
	if parent == "" {
		parent = s.policy.RootItemGroup
	}

	group, err := catalog.NewItemGroup(req.Name, parent)
	if err != nil {
		return nil, err
	}

	exists, err := s.groupRepo.ExistsByName(ctx, group.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item group with this name already exists")
	}

	parentExists, err := s.groupRepo.ExistsByName(ctx, parent)
	if err != nil {
		return nil, err
	}
	if !parentExists {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent item group not found")
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("item group created",
		zap.String("name", group.Name),
		zap.String("parent_item_group", group.ParentItemGroup),
	)
	s.publish(ctx, &group.BaseAggregateRoot)

	resp := ToItemGroupResponse(group)
	return &resp, nil
}

// GetByName retrieves an item group by name
func (s *ItemGroupService) GetByName(ctx context.Context, name string) (*ItemGroupResponse, error) {
	group, err := s.groupRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	resp := ToItemGroupResponse(group)
	return &resp, nil
}

// List retrieves item groups
func (s *ItemGroupService) List(ctx context.Context, filter ItemGroupListFilter) ([]ItemGroupResponse, int64, error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}

	groups, err := s.groupRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.groupRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemGroupResponses(groups), total, nil
}

// Children retrieves the direct children of an item group
func (s *ItemGroupService) Children(ctx context.Context, name string) ([]ItemGroupResponse, error) {
	exists, err := s.groupRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	children, err := s.groupRepo.FindChildren(ctx, name)
	if err != nil {
		return nil, err
	}
	return ToItemGroupResponses(children), nil
}

// Prefix returns the item code prefix derived from the group's hierarchy.
// Unknown groups yield an empty prefix.
func (s *ItemGroupService) Prefix(ctx context.Context, name string) *ItemGroupPrefixResponse {
	allocator := NewItemCodeAllocator(s.groupRepo, s.itemRepo, s.policy, s.logger)
	return &ItemGroupPrefixResponse{
		ItemGroup: name,
		Prefix:    allocator.BuildPrefix(ctx, name),
	}
}

// Delete deletes an item group that has neither child groups nor items
func (s *ItemGroupService) Delete(ctx context.Context, name string) error {
	group, err := s.groupRepo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if s.policy.IsRoot(group.Name) {
		return shared.ErrInvalidState.WithMessage("The root item group cannot be deleted")
	}

	hasChildren, err := s.groupRepo.HasChildren(ctx, name)
	if err != nil {
		return err
	}
	if hasChildren {
		return catalog.ErrItemGroupNotEmpty
	}
	hasItems, err := s.itemRepo.ExistsInGroup(ctx, name)
	if err != nil {
		return err
	}
	if hasItems {
		return catalog.ErrItemGroupNotEmpty
	}

	if err := s.groupRepo.Delete(ctx, name); err != nil {
		return err
	}

	logger.For(ctx, s.logger).Info("item group deleted", zap.String("name", name))
	group.MarkDeleted()
	s.publish(ctx, &group.BaseAggregateRoot)
	return nil
}

func (s *ItemGroupService) publish(ctx context.Context, agg *shared.BaseAggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish item group events", zap.Error(err))
	}
}
