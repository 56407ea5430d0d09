package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var env errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestWriteErrorAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, &AppError{Code: "COUPON_NOT_FOUND", Message: "coupon not found", HTTPStatus: http.StatusNotFound})

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	env := decodeEnvelope(t, rr)
	require.Equal(t, "COUPON_NOT_FOUND", env.Error.Code)
	require.Equal(t, "coupon not found", env.Error.Message)
	require.Nil(t, env.Error.Details)
}

func TestWriteErrorHidesPlainErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "10.0.0.1")
	require.Equal(t, "INTERNAL", decodeEnvelope(t, rr).Error.Code)
}

func TestWriteErrorSyntaxOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items": x}`))
	var dst struct {
		Items []string `json:"items"`
	}
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)

	rr := httptest.NewRecorder()
	WriteError(rr, err)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	require.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	require.Contains(t, env.Error.Details, "offset")
}

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := NewAppError("INTERNAL", "internal error", http.StatusInternalServerError, base)
	require.ErrorIs(t, err, base)
	require.True(t, IsAppError(err))
	require.False(t, IsAppError(base))
	require.Equal(t, "boom", err.Error())
}
