package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeLinkExists, http.StatusConflict},
		{ErrCodeItemGroupNotEmpty, http.StatusConflict},
		{ErrCodeRenameFailed, http.StatusUnprocessableEntity},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"LINK_EXISTS", ErrCodeLinkExists},
		{"RENAME_FAILED", ErrCodeRenameFailed},
		{"ITEM_CODE_REQUIRED", ErrCodeValidation},
		{"INVALID_ITEM_GROUP", ErrCodeValidation},
		{"INVALID_DOCSTATUS", ErrCodeValidation},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorCodesHaveStatus(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
}

func TestResponses(t *testing.T) {
	t.Run("meta rounds pages up", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 41, 1, 20)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("zero page size", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 5, 1, 0)
		assert.Equal(t, 0, resp.Meta.TotalPages)
	})

	t.Run("validation error carries details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
			{Field: "item_group", Message: "This field is required"},
		})
		data, err := json.Marshal(resp)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"success": false,
			"error": {
				"code": "ERR_VALIDATION",
				"message": "Request validation failed",
				"request_id": "req-1",
				"details": [{"field": "item_group", "message": "This field is required"}]
			}
		}`, string(data))
	})
}
