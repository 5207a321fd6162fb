package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("req_id=%s json encode error: %v", reqID(r.Context()), err)
	}
}

// ErrorResponse is the uniform error payload for every endpoint. Fields
// carries per-field validation messages when the failure is form-shaped.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	log.Printf("req_id=%s http_error status=%d msg=%q", reqID(r.Context()), status, msg)
	writeJSON(w, r, status, ErrorResponse{Error: msg})
}

// badRequest writes a 400. Validation failures keep the field map so a
// form can show every message at once.
func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var verrs apperr.ValidationErrors
	if errors.As(err, &verrs) {
		log.Printf("req_id=%s http_error status=%d msg=%q", reqID(r.Context()), http.StatusBadRequest, err.Error())
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verrs})
		return
	}
	writeError(w, r, http.StatusBadRequest, err.Error())
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", errors.New("invalid id")
	}
	return id, nil
}

// Actor identity headers. Authentication happens upstream (gateway); the
// service trusts these headers and enforces role rules in the use cases.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

func actorFromRequest(r *http.Request) domain.Actor {
	return domain.Actor{
		ID:   strings.TrimSpace(r.Header.Get(headerActorID)),
		Role: domain.Role(strings.TrimSpace(r.Header.Get(headerActorRole))),
	}
}
