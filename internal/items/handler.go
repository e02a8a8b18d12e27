package items

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/lostfound-api-golang/internal/httpx"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, in CreateItemInput) (Item, error)
	List(ctx context.Context, query ListQuery) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Update(ctx context.Context, id int64, in UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id int64) error
}

// Handler HTTP para items.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
	log     *zap.Logger
}

// NewHandler crea un handler de items. log puede ser nil.
func NewHandler(service ServiceAPI, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

// List maneja GET /api/items. Devuelve el array de items sin sobre.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	found, err := handler.service.List(request.Context(), ListQuery{
		Status:   query.Get("status"),
		Category: query.Get("category"),
		Resolved: query.Get("resolved"),
	})
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	if found == nil {
		found = []Item{}
	}

	httpx.JSON(writer, http.StatusOK, found)
}

// Create maneja POST /api/items.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var itemInput CreateItemInput
	if err := json.NewDecoder(request.Body).Decode(&itemInput); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	item, err := handler.service.Create(request.Context(), itemInput)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.log.Info("item created",
		zap.Int64("item_id", item.ID),
		zap.String("status", string(item.Status)),
		zap.String("category", item.Category),
	)
	httpx.OK(writer, request, http.StatusOK, httpx.Response{
		Message: "Item created successfully",
		ID:      item.ID,
	})
}

// GetByID maneja GET /api/items/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.JSON(writer, http.StatusOK, item)
}

// Update maneja PUT /api/items/{id}. Requiere sesión (ver RegisterRoutes).
// Campos ausentes o en null no se tocan.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	var itemInputUpdated UpdateItemInput
	if err := json.NewDecoder(request.Body).Decode(&itemInputUpdated); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	item, err := handler.service.Update(request.Context(), id, itemInputUpdated)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.log.Info("item updated", zap.Int64("item_id", id), zap.Bool("is_resolved", item.IsResolved))
	httpx.OK(writer, request, http.StatusOK, httpx.Response{
		Message: "Item updated successfully",
		Item:    item,
	})
}

// Delete maneja DELETE /api/items/{id}. Requiere sesión.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.log.Info("item deleted", zap.Int64("item_id", id))
	httpx.OK(writer, request, http.StatusOK, httpx.Response{Message: "Item deleted successfully"})
}

// parseID valida que {id} sea un entero positivo; si no, ya respondió 400.
func parseID(writer http.ResponseWriter, request *http.Request) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(request, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// fail traduce errores de dominio a status codes.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", validationErr.Message)
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "item not found")
	default:
		// No filtramos detalles internos; quedan en el log.
		handler.log.Error("items request failed",
			zap.Error(err),
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.String("request_id", httpx.RequestIDFrom(request)),
		)
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
