package persistence

import (
	"context"

	appcatalog "github.com/dsi-erp/backend/internal/application/catalog"
	"github.com/dsi-erp/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCatalogTransactionScope implements the catalog TransactionScope using GORM transactions.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope.
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

// gormCatalogRepositories hands out repositories bound to one transaction.
type gormCatalogRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the item repository scoped to the current transaction.
func (r *gormCatalogRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// ItemGroupRepo returns the item group repository scoped to the current transaction.
func (r *gormCatalogRepositories) ItemGroupRepo() catalog.ItemGroupRepository {
	return NewGormItemGroupRepository(r.tx)
}

// ItemLinkRepo returns the item link repository scoped to the current transaction.
func (r *gormCatalogRepositories) ItemLinkRepo() catalog.ItemLinkRepository {
	return NewGormItemLinkRepository(r.tx)
}

var _ appcatalog.TransactionScope = (*GormCatalogTransactionScope)(nil)
var _ appcatalog.TransactionalRepositories = (*gormCatalogRepositories)(nil)
