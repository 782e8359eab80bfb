package catalog

import (
	"strings"
	"time"

	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocStatus is the lifecycle state of a document referencing an item
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// IsValid returns true for the known statuses
func (s DocStatus) IsValid() bool {
	return s >= DocStatusDraft && s <= DocStatusCancelled
}

// String returns the status label
func (s DocStatus) String() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// ItemLink records that a transaction document references an item.
// Drafts follow the item through a rename; submitted and cancelled documents pin it.
type ItemLink struct {
	ID            uuid.UUID
	Item          string
	ReferenceType string
	ReferenceName string
	DocStatus     DocStatus
	CreatedAt     time.Time
}

// NewItemLink creates a link from a document to an item
func NewItemLink(item, referenceType, referenceName string, status DocStatus) (*ItemLink, error) {
	referenceType = strings.TrimSpace(referenceType)
	referenceName = strings.TrimSpace(referenceName)
	if item == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item is required")
	}
	if referenceType == "" || referenceName == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference type and name are required")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError(CodeInvalidDocStatus, "Document status must be 0, 1 or 2")
	}
	return &ItemLink{
		ID:            uuid.New(),
		Item:          item,
		ReferenceType: referenceType,
		ReferenceName: referenceName,
		DocStatus:     status,
		CreatedAt:     time.Now(),
	}, nil
}

// BlocksRename returns true if the linked document cannot be re-pointed
func (l *ItemLink) BlocksRename() bool {
	return l.DocStatus != DocStatusDraft
}
