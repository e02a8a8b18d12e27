package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/lostfound-api-golang/internal/httpx"
)

// Handler expone login/logout/estado de sesión.
type Handler struct {
	gate         *Gate
	secureCookie bool
	log          *zap.Logger
}

// NewHandler crea el handler de auth. log puede ser nil.
func NewHandler(gate *Gate, secureCookie bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{gate: gate, secureCookie: secureCookie, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResponse struct {
	LoggedIn bool `json:"logged_in"`
}

// Login maneja POST /login.
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	// Un body ilegible cuenta como credenciales inválidas: login solo falla con 401.
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.log.Warn("login failed", zap.String("reason", "invalid body"), zap.String("remote", r.RemoteAddr))
		httpx.Fail(w, r, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}

	token, err := handler.gate.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrorUnauthorized) {
			handler.log.Warn("login failed", zap.String("username", req.Username), zap.String("remote", r.RemoteAddr))
			httpx.Fail(w, r, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
			return
		}
		handler.log.Error("issuing session failed", zap.Error(err))
		httpx.Fail(w, r, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(handler.gate.TTL().Seconds()),
	})

	handler.log.Info("admin logged in", zap.String("username", req.Username))
	httpx.OK(w, r, http.StatusOK, httpx.Response{})
}

// Logout maneja GET /logout. Siempre responde OK, haya o no sesión.
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	httpx.OK(w, r, http.StatusOK, httpx.Response{Message: "Logged out"})
}

// Status maneja GET /api/auth_status.
func (handler *Handler) Status(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, statusResponse{LoggedIn: handler.gate.Active(r)})
}

// RegisterRoutes monta las rutas de sesión.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Post("/login", handler.Login)
	route.Get("/logout", handler.Logout)
	route.Get("/api/auth_status", handler.Status)
}
