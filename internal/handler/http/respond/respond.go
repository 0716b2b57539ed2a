// Package respond writes JSON responses and user-safe error bodies.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// MsgInternal is the body returned for any error whose details must stay in the logs.
const MsgInternal = "Erreur interne du serveur"

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing left to do but log.
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"error": msg})
}

// AppError carries a message that is safe to show to API clients alongside the
// internal cause, which is only logged.
type AppError struct {
	Code    int
	UserMsg string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.UserMsg + ": " + e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeError writes an error response without leaking internals.
//
// An *AppError anywhere in err's chain supplies the status and user message.
// Anything else becomes a generic message with the given code; 5xx causes are
// logged after sanitisation.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil && appErr.Code >= http.StatusInternalServerError {
			logError(appErr.Code, appErr.Err)
		}
		Error(w, appErr.Code, appErr.UserMsg)
		return
	}

	logError(code, err)
	if code >= http.StatusInternalServerError {
		Error(w, code, MsgInternal)
		return
	}
	Error(w, code, http.StatusText(code))
}

func logError(code int, err error) {
	slog.Default().Error("request failed",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
}
