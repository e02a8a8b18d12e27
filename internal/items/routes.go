package items

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra rutas de items en el router.
// Lectura y alta son públicas; PUT y DELETE pasan antes por requireSession.
func RegisterRoutes(route chi.Router, handler *Handler, requireSession func(http.Handler) http.Handler) {
	route.Route("/api/items", func(route chi.Router) {
		route.Get("/", handler.List)
		route.Post("/", handler.Create)
		route.Get("/{id}", handler.GetByID)

		route.Group(func(route chi.Router) {
			route.Use(requireSession)
			route.Put("/{id}", handler.Update)
			route.Delete("/{id}", handler.Delete)
		})
	})
}
