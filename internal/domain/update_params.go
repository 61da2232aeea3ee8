package domain

import "fmt"

// Field names for item update masks.
const (
	FieldText     = "text"
	FieldChecked  = "checked"
	FieldQuantity = "quantity"
	FieldUnit     = "unit"
)

// UpdateItemParams contains parameters for updating an item with field mask support.
type UpdateItemParams struct {
	ItemID string

	// UpdateMask specifies which fields to update.
	// Only fields in this list will be modified.
	UpdateMask []string

	// Field values (only applied if field is in UpdateMask)
	Text     *string
	Checked  *bool
	Quantity *float64
	Unit     *string
}

// Valid fields for UpdateItemParams.
var updateItemValidFields = map[string]struct{}{
	FieldText:     {},
	FieldChecked:  {},
	FieldQuantity: {},
	FieldUnit:     {},
}

// Validate checks that UpdateMask contains only known fields and that
// every masked field carries a value.
func (p UpdateItemParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	for _, field := range p.UpdateMask {
		if _, ok := updateItemValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}

		missing := false
		switch field {
		case FieldText:
			missing = p.Text == nil
		case FieldChecked:
			missing = p.Checked == nil
		case FieldQuantity:
			missing = p.Quantity == nil
		case FieldUnit:
			missing = p.Unit == nil
		}
		if missing {
			return fmt.Errorf("%w: %s", ErrFieldValueRequired, field)
		}
	}

	return nil
}

// Apply returns a copy of item with the masked fields updated.
// The ID never changes.
func (p UpdateItemParams) Apply(item ShoppingItem) (ShoppingItem, error) {
	if err := p.Validate(); err != nil {
		return item, err
	}

	for _, field := range p.UpdateMask {
		switch field {
		case FieldText:
			text, err := NewItemText(*p.Text)
			if err != nil {
				return item, err
			}
			item.Text = text.String()
		case FieldChecked:
			item.Checked = *p.Checked
		case FieldQuantity:
			item.Quantity = NewQuantity(*p.Quantity)
		case FieldUnit:
			unit, err := NewUnit(*p.Unit)
			if err != nil {
				return item, err
			}
			item.Unit = unit
		}
	}

	return item, nil
}
