package handlers

import (
	"errors"
	"net/http"

	"medtrack/internal/apperr"
)

// RiderHandler serves HTTP endpoints for rider resources.
type RiderHandler struct{ uc riderUsecase }

// NewRiderHandler wires a riderUsecase into HTTP handlers.
func NewRiderHandler(uc riderUsecase) *RiderHandler { return &RiderHandler{uc: uc} }

// Create handles POST /riders.
func (h *RiderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRiderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	m := req.toModel()
	id, err := h.uc.Create(r.Context(), m)
	switch {
	case err == nil:
		w.Header().Set("Location", "/riders/"+id)
		writeJSON(w, r, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /riders/{id}.
func (h *RiderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	rd, err := h.uc.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, riderToResponse(*rd))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /riders.
func (h *RiderHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, ridersToResponse(list))
}

// Update handles PUT /riders with partial updates from the request body.
func (h *RiderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRiderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	err := h.uc.UpdatePartial(r.Context(), req.toModel())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Rate handles POST /riders/{id}/rating.
func (h *RiderHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req rateRiderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	rd, err := h.uc.Rate(r.Context(), id, req.Value)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, riderToResponse(*rd))
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Occupancy handles GET /riders/{id}/occupancy.
func (h *RiderHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	o, err := h.uc.Occupancy(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, occupancyToResponse(o))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Delete handles DELETE /riders/{id}.
func (h *RiderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.uc.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
