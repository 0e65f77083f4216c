package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Body holds the payload keys written next to "success".
type Body map[string]interface{}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func withSuccess(body Body) Body {
	out := make(Body, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	out["success"] = true
	return out
}

// Success responses
func Success(w http.ResponseWriter, body Body) {
	writeJSON(w, http.StatusOK, withSuccess(body))
}

func SuccessWithMessage(w http.ResponseWriter, message string, body Body) {
	body = withSuccess(body)
	body["message"] = message
	writeJSON(w, http.StatusOK, body)
}

func Created(w http.ResponseWriter, message string, body Body) {
	body = withSuccess(body)
	body["message"] = message
	writeJSON(w, http.StatusCreated, body)
}

// Error responses
func Error(w http.ResponseWriter, statusCode int, message string, details map[string]string) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, http.StatusBadRequest, message, details)
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	Error(w, http.StatusBadRequest, "Validation failed", details)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message, nil)
}
