package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemUsesProblemJSONMediaType(t *testing.T) {
	rr := httptest.NewRecorder()
	Problem(rr, http.StatusForbidden, "Forbidden", "missing permission")

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"type":"about:blank","title":"Forbidden","status":403,"detail":"missing permission"}`, rr.Body.String())
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","extra":true}`))

	var target struct {
		Email string `json:"email"`
	}
	err := DecodeJSON(req, &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeJSONWrapsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

	var target struct {
		Email string `json:"email"`
	}
	err := DecodeJSON(req, &target)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJSONSetsContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rr.Body.String())
}

func TestRespondErrorKeepsConfigurationOpaque(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("driver exploded"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "driver exploded")
}
