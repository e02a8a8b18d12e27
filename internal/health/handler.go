package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/lostfound-api-golang/internal/httpx"
)

// Pinger es lo único que /ready necesita del store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health.
type Handler struct {
	database Pinger
}

// New crea un handler de health. database puede ser nil (Ready responde 503).
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

type statusBody struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health indica si el proceso está vivo. NO chequea base de datos.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, statusBody{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si el store responde. Timeout corto para que el chequeo no cuelgue.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	httpx.JSON(w, http.StatusOK, statusBody{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
