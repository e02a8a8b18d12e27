package httpx

import (
	"encoding/json"
	"net/http"
)

// Response es el sobre estándar para las operaciones que no devuelven
// un recurso "crudo" (listados y stats se serializan tal cual).
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`    // ej: "invalid_input", "not_found"
	Message string `json:"message,omitempty"` // mensaje para humanos
	ID      int64  `json:"id,omitempty"`
	Item    any    `json:"item,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// JSON escribe cualquier payload como JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		// Último recurso: no se pudo serializar JSON.
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"code":"internal_error","message":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// OK devuelve {success:true,...}. Los campos de resp que vengan vacíos se omiten.
func OK(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	resp.Success = true
	resp.Code = ""
	resp.RequestID = RequestIDFrom(r)
	JSON(w, status, resp)
}

// Fail devuelve {success:false, code, message}.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, status, Response{
		Success:   false,
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r),
	})
}
