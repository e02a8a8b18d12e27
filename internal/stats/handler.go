package stats

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/lostfound-api-golang/internal/httpx"
)

// Computer permite stubear el agregador en tests del handler.
type Computer interface {
	Compute(ctx context.Context) (Summary, error)
}

// Handler expone GET /api/stats.
type Handler struct {
	stats Computer
	log   *zap.Logger
}

// NewHandler crea el handler de stats. log puede ser nil.
func NewHandler(stats Computer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{stats: stats, log: log}
}

// Get maneja GET /api/stats.
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := handler.stats.Compute(r.Context())
	if err != nil {
		handler.log.Error("computing stats failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.Fail(w, r, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// RegisterRoutes monta /api/stats.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Get("/api/stats", handler.Get)
}
