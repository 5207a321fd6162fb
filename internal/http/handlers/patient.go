package handlers

import (
	"errors"
	"net/http"

	"medtrack/internal/apperr"
)

// PatientHandler serves HTTP endpoints for patient resources.
type PatientHandler struct{ uc patientUsecase }

// NewPatientHandler wires a patientUsecase into HTTP handlers.
func NewPatientHandler(uc patientUsecase) *PatientHandler { return &PatientHandler{uc: uc} }

// Create handles POST /patients.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPatientRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	id, err := h.uc.Create(r.Context(), req.toModel())
	switch {
	case err == nil:
		w.Header().Set("Location", "/patients/"+id)
		writeJSON(w, r, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, "hospital id already exists")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /patients/{id}.
func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.uc.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, patientToResponse(*p))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "patient not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /patients.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, patientsToResponse(list))
}

// Update handles PUT /patients with partial updates from the request body.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePatientRequest
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
		writeError(w, r, http.StatusNotFound, "patient not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// AddPrescription handles POST /patients/{id}/prescriptions.
func (h *PatientHandler) AddPrescription(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req prescriptionDTO
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	p, err := h.uc.AddPrescription(r.Context(), id, req.toModel())
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, patientToResponse(*p))
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "patient not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// RecordEvent handles POST /patients/{id}/history.
func (h *PatientHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req recordEventRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	err = h.uc.RecordEvent(r.Context(), id, req.Description)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "patient not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Delete handles DELETE /patients/{id}.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		writeError(w, r, http.StatusNotFound, "patient not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
