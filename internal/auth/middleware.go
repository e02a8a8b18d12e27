package auth

import (
	"net/http"

	"github.com/Lelo88/lostfound-api-golang/internal/httpx"
)

// RequireSession corta con 401 antes de llegar al handler si no hay sesión activa.
func (gate *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !gate.Active(r) {
			httpx.Fail(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
