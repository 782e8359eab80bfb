package persistence

import (
	"context"
	"errors"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemLinkRepository implements ItemLinkRepository using GORM
type GormItemLinkRepository struct {
	db *gorm.DB
}

// NewGormItemLinkRepository creates a new GormItemLinkRepository
func NewGormItemLinkRepository(db *gorm.DB) *GormItemLinkRepository {
	return &GormItemLinkRepository{db: db}
}

// FindByItem lists the links of an item, oldest first
func (r *GormItemLinkRepository) FindByItem(ctx context.Context, item string) ([]catalog.ItemLink, error) {
	var linkModels []models.ItemLinkModel
	if err := r.db.WithContext(ctx).
		Where("item_name = ?", item).
		Order("created_at ASC").
		Find(&linkModels).Error; err != nil {
		return nil, err
	}
	links := make([]catalog.ItemLink, len(linkModels))
	for i := range linkModels {
		links[i] = *linkModels[i].ToDomain()
	}
	return links, nil
}

// CountByItem counts the links of an item regardless of status
func (r *GormItemLinkRepository) CountByItem(ctx context.Context, item string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemLinkModel{}).
		Where("item_name = ?", item).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a link
func (r *GormItemLinkRepository) Save(ctx context.Context, link *catalog.ItemLink) error {
	if err := r.db.WithContext(ctx).Create(models.ItemLinkModelFromDomain(link)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure GormItemLinkRepository implements ItemLinkRepository
var _ catalog.ItemLinkRepository = (*GormItemLinkRepository)(nil)
