package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusCreated, map[string]any{"id": "1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var data map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Equal(t, "1", data["id"])
}

func TestJSON_Slice(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusOK, []int{1, 2})

	require.JSONEq(t, `[1,2]`, rec.Body.String())
}

func TestJSON_EncodeError(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusTeapot, map[string]any{"fn": func() {}})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal server error")
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")

	OK(rec, req, http.StatusOK, Response{Message: "done", ID: 7})

	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	require.Empty(t, resp.Code)
	require.Equal(t, "done", resp.Message)
	require.Equal(t, int64(7), resp.ID)
	require.Equal(t, "req-123", resp.RequestID)
}

func TestOK_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	OK(rec, req, http.StatusOK, Response{})

	require.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-456")

	Fail(rec, req, http.StatusBadRequest, "invalid_input", "invalid input")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.False(t, resp.Success)
	require.Equal(t, "invalid_input", resp.Code)
	require.Equal(t, "invalid input", resp.Message)
	require.Equal(t, "req-456", resp.RequestID)
	require.Nil(t, resp.Item)
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) Response {
	t.Helper()

	var response Response
	decoder := json.NewDecoder(bytes.NewReader(recorder.Body.Bytes()))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))
	return response
}
