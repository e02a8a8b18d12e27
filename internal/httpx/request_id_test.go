package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestRequestIDFrom(t *testing.T) {
	require.Empty(t, RequestIDFrom(nil))

	tests := []struct {
		name      string
		header    string
		contextID string
		want      string
	}{
		{name: "context wins over header", header: "header-id", contextID: "ctx-id", want: "ctx-id"},
		{name: "header fallback", header: "header-id", want: "header-id"},
		{name: "missing", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
			if tc.header != "" {
				req.Header.Set(middleware.RequestIDHeader, tc.header)
			}
			if tc.contextID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, tc.contextID))
			}

			require.Equal(t, tc.want, RequestIDFrom(req))
		})
	}
}

func TestRequestIDFrom_ThroughMiddleware(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-supplied")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "client-supplied", seen)
}
