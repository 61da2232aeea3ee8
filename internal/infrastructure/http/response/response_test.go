package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/infrastructure/http/response"
)

// unencodableType fails during JSON encoding.
type unencodableType struct{}

func (unencodableType) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func TestSuccess_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	for name, send := range map[string]func(http.ResponseWriter, any){
		"OK":      response.OK,
		"Created": response.Created,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			send(w, unencodableType{})

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decodeError(t, w)
			assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
			assert.Equal(t, "failed to encode response", resp.Error.Message)
		})
	}
}

func TestOK_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	response.OK(w, map[string]string{"message": "success"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "success", decoded["message"])
}

func TestCreated_Success(t *testing.T) {
	w := httptest.NewRecorder()
	response.Created(w, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	response.NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestValidationError_IncludesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	response.ValidationError(w, "text", "required field missing")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "validation failed", resp.Error.Message)
	assert.Equal(t, []response.ErrorField{{Field: "text", Issue: "required field missing"}}, resp.Error.Details)
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		field  string
	}{
		{domain.ErrTextRequired, http.StatusBadRequest, "VALIDATION_ERROR", "text"},
		{domain.ErrNameTooLong, http.StatusBadRequest, "VALIDATION_ERROR", "name"},
		{fmt.Errorf("%w: lbs", domain.ErrInvalidUnit), http.StatusBadRequest, "VALIDATION_ERROR", "unit"},
		{domain.ErrInvalidLanguage, http.StatusBadRequest, "VALIDATION_ERROR", "language"},
		{fmt.Errorf("%w: price", domain.ErrUnknownField), http.StatusBadRequest, "VALIDATION_ERROR", "update_mask"},
		{fmt.Errorf("toggle: %w", domain.ErrItemNotFound), http.StatusNotFound, "NOT_FOUND", ""},
		{domain.ErrSavedListNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{domain.ErrEmptyList, http.StatusConflict, "CONFLICT", ""},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			response.FromDomainError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.field != "" {
				require.Len(t, resp.Error.Details, 1)
				assert.Equal(t, tt.field, resp.Error.Details[0].Field)
			}
		})
	}
}

func TestInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	response.InternalError(w, r, errors.New("secret connection string"))

	assert.NotContains(t, w.Body.String(), "secret")
	assert.Equal(t, "an internal error occurred", decodeError(t, w).Error.Message)
}
