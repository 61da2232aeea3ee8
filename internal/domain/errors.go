package domain

import "errors"

// Domain errors returned by services and stores.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrItemNotFound indicates the item is not part of the list.
	ErrItemNotFound = errors.New("item not found")

	// ErrSavedListNotFound indicates the saved list does not exist.
	ErrSavedListNotFound = errors.New("saved list not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrDuplicateItemID indicates an item with the same ID already exists in the list.
	ErrDuplicateItemID = errors.New("duplicate item ID")

	// ErrEmptyList indicates an operation that needs at least one item got none.
	ErrEmptyList = errors.New("list is empty")
)

// Validation errors.
var (
	ErrTextRequired       = errors.New("item text is required")
	ErrTextTooLong        = errors.New("item text must be 200 characters or less")
	ErrNameRequired       = errors.New("list name is required")
	ErrNameTooLong        = errors.New("list name must be 100 characters or less")
	ErrInvalidUnit        = errors.New("invalid unit")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidLanguage    = errors.New("invalid language")
	ErrInvalidCounts      = errors.New("completed items exceed total items")
	ErrEmptyUpdateMask    = errors.New("update mask is empty")
	ErrUnknownField       = errors.New("unknown field in update mask")
	ErrFieldValueRequired = errors.New("field in update mask has no value")
)
