package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"jbovertime/auth"
	"jbovertime/metrics"
	"jbovertime/overtime"
	"jbovertime/store"
)

// errorResponse is the JSON envelope of every API error.
type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// requestError is a malformed request body or query: always a 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and rendered as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr     *requestError
		validErr   *overtime.ValidationError
		limitedErr *auth.RateLimitedError
	)

	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.msg})
	case errors.As(err, &validErr):
		reason := overtime.Reason(validErr)
		metrics.ValidationFailuresTotal.WithLabelValues(reason).Inc()
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  validErr.Message,
			Field:  validErr.Field,
			Reason: reason,
		})
	case errors.As(err, &limitedErr):
		seconds := int(math.Ceil(limitedErr.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "muitas tentativas, tente novamente mais tarde"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "registro não encontrado"})
	case errors.Is(err, store.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "acesso negado"})
	case errors.Is(err, store.ErrUserExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "e-mail já cadastrado"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "credenciais inválidas"})
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a senha deve ter no máximo 72 bytes"})
	case errors.Is(err, auth.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a senha deve ter pelo menos 6 caracteres"})
	case errors.Is(err, store.ErrInvalidRate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "o valor da hora deve ser maior que zero"})
	default:
		hlog.FromRequest(r).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "erro interno do servidor"})
	}
}
