package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/rs/zerolog/hlog"
)

const (
	// InternalErrorMessage is the only detail a client sees for a 500.
	InternalErrorMessage = "Internal server error"

	// MaxJSONBytes caps JSON request bodies
	MaxJSONBytes = 64 << 10
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes v with the given status code
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode response")
	}
}

// DecodeJSON reads at most MaxJSONBytes of the request body into v. Any
// failure is an apperror.ErrValidation.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", apperror.ErrValidation, MaxJSONBytes)
		}
		return fmt.Errorf("%w: invalid JSON body", apperror.ErrValidation)
	}
	return nil
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error classifies err and writes the matching status. Client errors are
// reported with their message; internal errors are logged and replaced by
// InternalError.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		InternalError(w, r)
		return
	}
	JSON(w, r, status, ErrorResponse{Error: err.Error()})
}

// InternalError writes a generic 500. The message is also exposed in the
// Application-Error header with permissive CORS headers so browser clients
// can read it.
func InternalError(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Application-Error", InternalErrorMessage)
	h.Set("Access-Control-Expose-Headers", "Application-Error")
	h.Set("Access-Control-Allow-Origin", "*")
	JSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: InternalErrorMessage})
}
