package persistence

import (
	"context"
	"errors"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemGroupRepository implements ItemGroupRepository using GORM
type GormItemGroupRepository struct {
	db *gorm.DB
}

// NewGormItemGroupRepository creates a new GormItemGroupRepository
func NewGormItemGroupRepository(db *gorm.DB) *GormItemGroupRepository {
	return &GormItemGroupRepository{db: db}
}

// FindByName finds an item group by its name
func (r *GormItemGroupRepository) FindByName(ctx context.Context, name string) (*catalog.ItemGroup, error) {
	var model models.ItemGroupModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all item groups matching the filter
func (r *GormItemGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ItemGroup, error) {
	var groupModels []models.ItemGroupModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemGroupModel{}), filter)

	if err := query.Find(&groupModels).Error; err != nil {
		return nil, err
	}
	return toItemGroups(groupModels), nil
}

// Count counts item groups matching the filter
func (r *GormItemGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ItemGroupModel{})
	query = r.applySearch(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindChildren finds all direct children of a group
func (r *GormItemGroupRepository) FindChildren(ctx context.Context, parent string) ([]catalog.ItemGroup, error) {
	var groupModels []models.ItemGroupModel
	if err := r.db.WithContext(ctx).
		Where("parent_item_group = ?", parent).
		Order("name ASC").
		Find(&groupModels).Error; err != nil {
		return nil, err
	}
	return toItemGroups(groupModels), nil
}

// ExistsByName checks if a group with the given name exists
func (r *GormItemGroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemGroupModel{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasChildren checks if a group has any child groups
func (r *GormItemGroupRepository) HasChildren(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemGroupModel{}).
		Where("parent_item_group = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new item group
func (r *GormItemGroupRepository) Create(ctx context.Context, group *catalog.ItemGroup) error {
	model := models.ItemGroupModelFromDomain(group)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes an item group
func (r *GormItemGroupRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemGroupModel{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormItemGroupRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Search))
	}
	if parent, ok := filter.Filters["parent_item_group"]; ok {
		query = query.Where("parent_item_group = ?", parent)
	}
	return query
}

// applyFilter applies search, ordering and pagination
func (r *GormItemGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	query = query.Order(itemGroupSortColumns.orderBy(filter.OrderBy, filter.OrderDir, "name"))
	return paginate(query, filter.Page, filter.PageSize)
}

func toItemGroups(groupModels []models.ItemGroupModel) []catalog.ItemGroup {
	groups := make([]catalog.ItemGroup, len(groupModels))
	for i := range groupModels {
		groups[i] = *groupModels[i].ToDomain()
	}
	return groups
}

// Ensure GormItemGroupRepository implements ItemGroupRepository
var _ catalog.ItemGroupRepository = (*GormItemGroupRepository)(nil)
