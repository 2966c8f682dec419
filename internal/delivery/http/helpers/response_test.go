package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONError(rr, http.StatusBadRequest, ErrCodeBadRequest, "bad")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "bad", resp.Error.Message)
}

type notifyBody struct {
	DryRun bool `json:"dry_run"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"empty body", "", true},
		{"valid", `{"dry_run":true}`, true},
		{"unknown field", `{"foo":1}`, false},
		{"broken json", `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest notifyBody
			assert.Equal(t, tt.ok, DecodeAndValidate(rr, r, &dest))
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}
