package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	maxItemTextLength = 200
	maxListNameLength = 100

	// MinQuantity is the smallest quantity an item may carry.
	MinQuantity = 1.0
)

// ItemText is a validated item text value object (1-200 characters).
type ItemText struct {
	value string
}

// NewItemText creates a new ItemText, trimming and validating the input.
func NewItemText(s string) (ItemText, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return ItemText{}, ErrTextRequired
	}

	if utf8.RuneCountInString(s) > maxItemTextLength {
		return ItemText{}, ErrTextTooLong
	}

	return ItemText{value: s}, nil
}

// String returns the text value.
func (t ItemText) String() string {
	return t.value
}

// ListName is a validated saved-list name (1-100 characters).
type ListName struct {
	value string
}

// NewListName creates a new ListName, trimming and validating the input.
func NewListName(s string) (ListName, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return ListName{}, ErrNameRequired
	}

	if utf8.RuneCountInString(s) > maxListNameLength {
		return ListName{}, ErrNameTooLong
	}

	return ListName{value: s}, nil
}

// String returns the name value.
func (n ListName) String() string {
	return n.value
}

// NewQuantity clamps q to a usable quantity.
// Zero, negative, NaN and infinite values all become MinQuantity.
func NewQuantity(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < MinQuantity {
		return MinQuantity
	}
	return q
}

// NewUnit validates and creates a Unit.
// Empty input defaults to UnitUnits.
func NewUnit(s string) (Unit, error) {
	if strings.TrimSpace(s) == "" {
		return UnitUnits, nil
	}

	unit := Unit(strings.ToLower(strings.TrimSpace(s)))

	switch unit {
	case UnitUnits, UnitKg, UnitGram:
		return unit, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidUnit, s)
	}
}

// NewCategoryKey validates and creates a CategoryKey.
func NewCategoryKey(s string) (CategoryKey, error) {
	key := CategoryKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryTable[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, s)
	}
	return key, nil
}

// NewLanguage validates and creates a Language.
// Empty input defaults to LanguageHebrew, the app's primary locale.
func NewLanguage(s string) (Language, error) {
	if strings.TrimSpace(s) == "" {
		return LanguageHebrew, nil
	}

	lang := Language(strings.ToLower(strings.TrimSpace(s)))

	switch lang {
	case LanguageEnglish, LanguageHebrew:
		return lang, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidLanguage, s)
	}
}
