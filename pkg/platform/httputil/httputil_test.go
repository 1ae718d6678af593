package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lexscreen/pkg/domain-errors"
)

type fieldErr struct{}

func (fieldErr) Error() string           { return "step x: required fields unanswered" }
func (fieldErr) Unwrap() error           { return dErrors.New(dErrors.CodeValidation, "required fields unanswered") }
func (fieldErr) InvalidFields() []string { return []string{"history.overstayed"} }

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "internal_error", body.Error)
		assert.Empty(t, body.Description)
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fmt.Errorf("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "bad_request", body.Error)
		assert.Equal(t, "invalid input", body.Description)
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fieldErr{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "validation_error", body.Error)
		assert.Equal(t, []string{"history.overstayed"}, body.Fields)
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana"}`))
		v, err := DecodeJSON[payload](r)
		require.NoError(t, err)
		assert.Equal(t, "ana", v.Name)
	})

	t.Run("empty body is zero value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		v, err := DecodeJSON[payload](r)
		require.NoError(t, err)
		assert.Empty(t, v.Name)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nme":"ana"}`))
		_, err := DecodeJSON[payload](r)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		_, err := DecodeJSON[payload](r)
		assert.ErrorContains(t, err, "trailing data")
	})
}
