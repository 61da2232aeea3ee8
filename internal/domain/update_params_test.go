package domain

import (
	"testing"

	"github.com/rezkam/shoplist/internal/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateItemParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  UpdateItemParams
		wantErr error
	}{
		{
			name:    "empty mask",
			params:  UpdateItemParams{ItemID: "a"},
			wantErr: ErrEmptyUpdateMask,
		},
		{
			name:    "unknown field",
			params:  UpdateItemParams{ItemID: "a", UpdateMask: []string{"price"}},
			wantErr: ErrUnknownField,
		},
		{
			name:    "masked field without value",
			params:  UpdateItemParams{ItemID: "a", UpdateMask: []string{FieldChecked}},
			wantErr: ErrFieldValueRequired,
		},
		{
			name: "all fields",
			params: UpdateItemParams{
				ItemID:     "a",
				UpdateMask: []string{FieldText, FieldChecked, FieldQuantity, FieldUnit},
				Text:       ptr.To("cheese"),
				Checked:    ptr.To(true),
				Quantity:   ptr.To(2.0),
				Unit:       ptr.To("kg"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdateItemParams_ApplyOnlyMaskedFields(t *testing.T) {
	item := ShoppingItem{ID: "a", Text: "milk", Quantity: 2, Unit: UnitUnits}

	updated, err := UpdateItemParams{
		ItemID:     "a",
		UpdateMask: []string{FieldChecked},
		Checked:    ptr.To(true),
		Text:       ptr.To("ignored"),
	}.Apply(item)

	require.NoError(t, err)
	assert.True(t, updated.Checked)
	assert.Equal(t, "milk", updated.Text)
	assert.Equal(t, "a", updated.ID)
}

func TestUpdateItemParams_ApplyClampsQuantity(t *testing.T) {
	item := ShoppingItem{ID: "a", Text: "milk", Quantity: 2, Unit: UnitUnits}

	updated, err := UpdateItemParams{
		ItemID:     "a",
		UpdateMask: []string{FieldQuantity},
		Quantity:   ptr.To(-4.0),
	}.Apply(item)

	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Quantity)
}

func TestUpdateItemParams_ApplyRejectsInvalidUnit(t *testing.T) {
	item := ShoppingItem{ID: "a", Text: "milk", Quantity: 2, Unit: UnitUnits}

	_, err := UpdateItemParams{
		ItemID:     "a",
		UpdateMask: []string{FieldUnit},
		Unit:       ptr.To("liters"),
	}.Apply(item)

	assert.ErrorIs(t, err, ErrInvalidUnit)
}
