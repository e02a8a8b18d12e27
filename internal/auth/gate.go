package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrorUnauthorized cubre credenciales inválidas y sesiones ausentes/vencidas.
var ErrorUnauthorized = errors.New("unauthorized")

// SessionCookie es la cookie que transporta el token de sesión.
const SessionCookie = "lostfound_session"

// Verifier decide si un par usuario/contraseña identifica al administrador.
type Verifier interface {
	Verify(username, password string) bool
}

// StaticCredentials es el único par de credenciales reconocido.
type StaticCredentials struct {
	Username string
	Password string
}

// Verify compara en tiempo constante ambos campos.
func (credentials StaticCredentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(credentials.Password)) == 1
	return userOK && passOK && credentials.Username != ""
}

// Claims del token de sesión.
type Claims struct {
	jwt.RegisteredClaims
}

// Gate emite y valida tokens de sesión firmados (HS256).
// No guarda estado: el token vive en la cookie de cada cliente.
type Gate struct {
	verifier Verifier
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewGate crea el gate. secret no puede ser vacío (ver RandomSecret).
func NewGate(verifier Verifier, secret string, ttl time.Duration) (*Gate, error) {
	if verifier == nil {
		return nil, fmt.Errorf("auth: verifier is required")
	}
	if secret == "" {
		return nil, fmt.Errorf("auth: session secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: session ttl must be positive")
	}
	return &Gate{
		verifier: verifier,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// RandomSecret genera un secreto de 32 bytes en hex.
func RandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// TTL es la vida de cada sesión.
func (gate *Gate) TTL() time.Duration {
	return gate.ttl
}

// Login verifica las credenciales y devuelve un token nuevo.
func (gate *Gate) Login(username, password string) (string, error) {
	if !gate.verifier.Verify(username, password) {
		return "", ErrorUnauthorized
	}

	now := gate.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(gate.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(gate.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parsea el token y verifica firma y vencimiento.
func (gate *Gate) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrorUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return gate.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(gate.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrorUnauthorized, err)
	}
	return claims, nil
}

// Active informa si el request trae una sesión válida.
func (gate *Gate) Active(request *http.Request) bool {
	cookie, err := request.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	_, err = gate.Validate(cookie.Value)
	return err == nil
}
