package api

import (
	"encoding/json"
	"log/slog"
	"mediator/errors"
	"net/http"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// statusOf maps domain sentinels onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errors.ErrValidation), errors.Is(err, errors.ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrUnauthenticated), errors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrNotMember),
		errors.Is(err, errors.ErrInputDisabled),
		errors.Is(err, errors.ErrForbiddenSender):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrRoomNotFound), errors.Is(err, errors.ErrBreakoutResolution):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrPersistenceConflict),
		errors.Is(err, errors.ErrAccountExists),
		errors.Is(err, errors.ErrChatEnded):
		return http.StatusConflict
	case errors.Is(err, errors.ErrCompletion), errors.Is(err, errors.ErrRouterUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	status := statusOf(err)
	body := errorResponse{Error: err.Error()}
	var validationErr *errors.ValidationError
	if errors.As(err, &validationErr) {
		body.Fields = validationErr.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		// Storage details stay in the logs
		if status == http.StatusInternalServerError {
			body.Error = http.StatusText(status)
		}
	} else {
		log.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// decode reads a JSON body, a malformed one is a validation error on "body".
func decode(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.NewValidationError("body")
	}
	return nil
}
