package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/platform/logger"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestFail_DomainErrorIs400WithMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/requests", nil)

	Fail(rec, req, logger.Nop(), apperr.PermissionDenied("access denied"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "access denied", env.Error)
}

func TestFail_InternalErrorIsMasked(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/requests", nil)

	Fail(rec, req, logger.Nop(), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "internal error", decodeEnvelope(t, rec).Error)
}

func TestList_IncludesCountAndEmptyData(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{}, 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"count":0}`, rec.Body.String())
}

type payload struct {
	RequestID string `json:"request_id" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"request_id":"r1","rating":7}`))
	var p payload
	require.NoError(t, DecodeJSON(req, &p))

	err := Validate(p, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "rating (max)")

	assert.EqualError(t, Validate(payload{}, "missing required fields"), "missing required fields")
}

func TestDecodeJSON_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	var p payload
	err := DecodeJSON(req, &p)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
