package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

const maxJSONBodyBytes = 1 << 20

var errEmptyBody = fmt.Errorf("%w: request body is empty", domain.ErrInvalidInput)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err to the client. Internal errors are logged and replaced by
// a generic message.
func fail(w http.ResponseWriter, log *logger.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(op+" failed", zap.Error(err))
		writeError(w, status, "internal server error")
		return
	}
	log.Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	writeError(w, status, err.Error())
}

// decodeJSON reads a single JSON document into dst. Values of the wrong
// type are rejected rather than coerced.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		switch {
		case errors.As(err, &typeErr):
			return fmt.Errorf("%w: field %q must be of type %s", domain.ErrInvalidInput, typeErr.Field, typeErr.Type)
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("%w: malformed JSON at offset %d", domain.ErrInvalidInput, syntaxErr.Offset)
		case errors.Is(err, io.EOF):
			return errEmptyBody
		default:
			return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidInput, err)
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrInvalidInput)
	}
	return nil
}

// query helpers return ErrInvalidInput for values that do not parse.

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

func queryIntPtr(r *http.Request, key string) (*int, error) {
	if r.URL.Query().Get(key) == "" {
		return nil, nil
	}
	n, err := queryInt(r, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryFloatPtr(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
	}
	return &f, nil
}
