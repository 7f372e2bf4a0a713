package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/sop-assistant/internal/domain"
)

func TestFail_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"email conflict", domain.ErrEmailTaken, http.StatusConflict, "email already registered"},
		{"category conflict", domain.ErrCategoryExists, http.StatusConflict, "category name already exists"},
		{"category in use", domain.ErrCategoryInUse, http.StatusBadRequest, "cannot delete category with existing SOPs"},
		{"wrapped unknown category", fmt.Errorf("failed to create sop: %w", domain.ErrUnknownCategory), http.StatusBadRequest, "category does not exist"},
		{"empty patch", domain.ErrNoFieldsToUpdate, http.StatusBadRequest, "no fields provided to update"},
		{"wrapped bad image", fmt.Errorf("failed to read image: %w", domain.ErrInvalidImage), http.StatusBadRequest, "file must be an image"},
		{"session deleted mid-turn", fmt.Errorf("failed to save chat turn: %w", pgx.ErrNoRows), http.StatusInternalServerError, "internal server error"},
		{"internal", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestDecode_ValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email","name":"","password":"short","role":"ROOT"}`))
	rec := httptest.NewRecorder()

	var input domain.UserCreate
	ok := decode(rec, req, &input)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid email format", body.Error["Email"])
	assert.Equal(t, "field is required", body.Error["Name"])
	assert.Equal(t, "must be at least 8", body.Error["Password"])
	assert.Equal(t, "must be one of: ADMIN AGENT", body.Error["Role"])
}

func TestDecode_MalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	var input domain.CategoryInput
	ok := decode(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)), &input)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
