package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "sqlite:lost_found.db"
	defaultAdminUser   = "admin"
	defaultSessionTTL  = 8 * time.Hour
	defaultLogLevel    = "info"
	defaultCORSOrigins = "*"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port        string
	DatabaseURL string

	AdminUsername string
	AdminPassword string

	// SessionSecret firma los tokens de sesión. Vacío significa que el
	// proceso genera uno propio al arrancar (las sesiones no sobreviven reinicios).
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// CORSAllowedOrigins son los orígenes aceptados para requests cross-origin.
	// ["*"] acepta cualquiera (sin credenciales).
	CORSAllowedOrigins []string

	LogLevel string
}

// Load lee variables de entorno y valida lo mínimo indispensable.
func Load() (Config, error) {
	port := envOr("PORT", defaultPort)
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	adminPassword := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))
	if adminPassword == "" {
		return Config{}, fmt.Errorf("missing required env var: ADMIN_PASSWORD")
	}

	sessionTTL := defaultSessionTTL
	if value := strings.TrimSpace(os.Getenv("SESSION_TTL")); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL %q: must be a positive duration", value)
		}
		sessionTTL = parsed
	}

	cookieSecure := false
	if value := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COOKIE_SECURE %q: %w", value, err)
		}
		cookieSecure = parsed
	}

	logLevel := strings.ToLower(envOr("LOG_LEVEL", defaultLogLevel))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q", logLevel)
	}

	corsOrigins := splitList(envOr("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{defaultCORSOrigins}
	}

	return Config{
		Port:          port,
		DatabaseURL:   envOr("DATABASE_URL", defaultDatabaseURL),
		AdminUsername: envOr("ADMIN_USERNAME", defaultAdminUser),
		AdminPassword: adminPassword,
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:    sessionTTL,
		CookieSecure:  cookieSecure,
		LogLevel:      logLevel,

		CORSAllowedOrigins: corsOrigins,
	}, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// splitList separa una lista por comas descartando entradas vacías.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
