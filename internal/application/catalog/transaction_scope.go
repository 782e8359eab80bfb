package catalog

import (
	"context"

	"github.com/dsi-erp/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// An item save (validation, store, deferred rename) runs inside one scope so a
// refused rename rolls the whole save back.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to catalog repositories within a transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() catalog.ItemRepository
	// ItemGroupRepo returns the item group repository scoped to the current transaction
	ItemGroupRepo() catalog.ItemGroupRepository
	// ItemLinkRepo returns the item link repository scoped to the current transaction
	ItemLinkRepo() catalog.ItemLinkRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing.
type NoOpTransactionScope struct {
	itemRepo  catalog.ItemRepository
	groupRepo catalog.ItemGroupRepository
	linkRepo  catalog.ItemLinkRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo catalog.ItemRepository,
	groupRepo catalog.ItemGroupRepository,
	linkRepo catalog.ItemLinkRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:  itemRepo,
		groupRepo: groupRepo,
		linkRepo:  linkRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository.
func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository {
	return s.itemRepo
}

// ItemGroupRepo returns the item group repository.
func (s *NoOpTransactionScope) ItemGroupRepo() catalog.ItemGroupRepository {
	return s.groupRepo
}

// ItemLinkRepo returns the item link repository.
func (s *NoOpTransactionScope) ItemLinkRepo() catalog.ItemLinkRepository {
	return s.linkRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
