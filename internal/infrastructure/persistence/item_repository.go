package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByName finds an item by its storage key
func (r *GormItemRepository) FindByName(ctx context.Context, name string) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// Count counts items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter catalog.ItemFilter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if an item with the given storage key exists
func (r *GormItemRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsInGroup checks if any item belongs to the group
func (r *GormItemRepository) ExistsInGroup(ctx context.Context, group string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("item_group = ?", group).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindCodesWithPrefix returns the codes under prefix.
// LIKE is case-insensitive on some drivers, so rows are re-checked exactly.
func (r *GormItemRepository) FindCodesWithPrefix(ctx context.Context, prefix string) ([]catalog.ItemCodeEntry, error) {
	var rows []catalog.ItemCodeEntry
	pattern := escapeLike(prefix+catalog.CodeSeparator) + "%"
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Select("name", "item_code").
		Where(`item_code LIKE ? ESCAPE '\'`, pattern).
		Order("item_code ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := rows[:0]
	for _, row := range rows {
		if catalog.HasCodePrefix(row.ItemCode, prefix) {
			entries = append(entries, row)
		}
	}
	return entries, nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update saves the item under its current storage key with optimistic locking.
// The staged item code is written as is.
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("name = ? AND version = ?", item.Name, item.Version).
		Updates(map[string]interface{}{
			"item_code":   item.ItemCode,
			"item_name":   item.ItemName,
			"item_group":  item.ItemGroup,
			"description": item.Description,
			"stock_uom":   item.StockUOM,
			"disabled":    item.Disabled,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := r.ExistsByName(ctx, item.Name)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	item.IncrementVersion()
	return nil
}

// Rename moves an item to a new storage key and re-points its draft links.
func (r *GormItemRepository) Rename(ctx context.Context, oldName, newName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blocking int64
		if err := tx.Model(&models.ItemLinkModel{}).
			Where("item_name = ? AND docstatus IN ?", oldName, []catalog.DocStatus{catalog.DocStatusSubmitted, catalog.DocStatusCancelled}).
			Count(&blocking).Error; err != nil {
			return err
		}
		if blocking > 0 {
			return catalog.ErrLinkExists
		}

		var taken int64
		if err := tx.Model(&models.ItemModel{}).Where("name = ?", newName).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return shared.ErrAlreadyExists
		}

		result := tx.Model(&models.ItemModel{}).
			Where("name = ?", oldName).
			Updates(map[string]interface{}{
				"name":       newName,
				"item_code":  newName,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return tx.Model(&models.ItemLinkModel{}).
			Where("item_name = ? AND docstatus = ?", oldName, catalog.DocStatusDraft).
			Update("item_name", newName).Error
	})
}

// Delete deletes an item
func (r *GormItemRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemModel{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormItemRepository) applySearch(query *gorm.DB, filter catalog.ItemFilter) *gorm.DB {
	if filter.Search != "" {
		search := containsPattern(filter.Search)
		query = query.Where(`(LOWER(item_code) LIKE LOWER(?) ESCAPE '\' OR LOWER(item_name) LIKE LOWER(?) ESCAPE '\')`, search, search)
	}
	if filter.ItemGroup != "" {
		query = query.Where("item_group = ?", filter.ItemGroup)
	}
	if disabled, ok := filter.Filters["disabled"]; ok {
		query = query.Where("disabled = ?", disabled)
	}
	return query
}

// applyFilter applies search, ordering and pagination
func (r *GormItemRepository) applyFilter(query *gorm.DB, filter catalog.ItemFilter) *gorm.DB {
	query = r.applySearch(query, filter)

	query = query.Order(itemSortColumns.orderBy(filter.OrderBy, filter.OrderDir, "item_code"))
	return paginate(query, filter.Page, filter.PageSize)
}

// Ensure GormItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)
