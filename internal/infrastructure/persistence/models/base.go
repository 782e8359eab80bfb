package models

import (
	"time"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// AggregateModel holds the columns every aggregate table carries: audit
// timestamps and the optimistic locking version.
type AggregateModel struct {
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

func (m *AggregateModel) setAggregate(a shared.BaseAggregateRoot) {
	m.CreatedAt, m.UpdatedAt, m.Version = a.CreatedAt, a.UpdatedAt, a.Version
}

// aggregate rebuilds the domain base. Pending events are never stored.
func (m AggregateModel) aggregate() shared.BaseAggregateRoot {
	var a shared.BaseAggregateRoot
	a.CreatedAt, a.UpdatedAt, a.Version = m.CreatedAt, m.UpdatedAt, m.Version
	return a
}
