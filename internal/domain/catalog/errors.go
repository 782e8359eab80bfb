package catalog

import "github.com/dsi-erp/backend/internal/domain/shared"

// Catalog error codes
const (
	CodeLinkExists        = "LINK_EXISTS"
	CodeInvalidItemGroup  = "INVALID_ITEM_GROUP"
	CodeItemCodeRequired  = "ITEM_CODE_REQUIRED"
	CodeRenameFailed      = "RENAME_FAILED"
	CodeItemGroupNotEmpty = "ITEM_GROUP_NOT_EMPTY"
	CodeInvalidDocStatus  = "INVALID_DOCSTATUS"
)

var (
	// ErrLinkExists is returned when submitted or cancelled documents still reference an item
	ErrLinkExists = shared.NewDomainError(CodeLinkExists, "Item is referenced by submitted or cancelled documents")
	// ErrItemGroupNotFound is returned when a referenced item group does not exist
	ErrItemGroupNotFound = shared.NewDomainError(CodeInvalidItemGroup, "Item group does not exist")
	// ErrItemCodeRequired is returned when no item code can be derived for a new item
	ErrItemCodeRequired = shared.NewDomainError(CodeItemCodeRequired, "Item code could not be derived from the item group")
	// ErrItemGroupNotEmpty is returned when deleting a group that still has children or items
	ErrItemGroupNotEmpty = shared.NewDomainError(CodeItemGroupNotEmpty, "Item group has child groups or items")
)

// NewLinkExistsError builds the user-facing error for a rename blocked by links
func NewLinkExistsError(oldCode string) *shared.DomainError {
	return shared.NewDomainError(CodeLinkExists,
		"Cannot rename item "+oldCode+" because it has existing transactions or links.")
}

// NewRenameFailedError builds the user-facing error for any other rename failure
func NewRenameFailedError(cause error) *shared.DomainError {
	return shared.NewDomainError(CodeRenameFailed, "Failed to rename item: "+cause.Error())
}
