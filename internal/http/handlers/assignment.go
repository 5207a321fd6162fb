package handlers

import (
	"errors"
	"net/http"

	"medtrack/internal/apperr"
	"medtrack/internal/service/assignment"
)

// AssignmentHandler serves the package assignment workflow endpoints.
type AssignmentHandler struct{ uc assignmentUsecase }

// NewAssignmentHandler wires an assignmentUsecase into HTTP handlers.
func NewAssignmentHandler(uc assignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// Begin handles GET /assignment/patients/{id} and returns the patient the
// workflow is being started for.
func (h *AssignmentHandler) Begin(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.uc.Begin(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, patientToResponse(*p))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid id")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "patient not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// RiderPool handles GET /assignment/riders?tab={all|unassigned|assigned}.
func (h *AssignmentHandler) RiderPool(w http.ResponseWriter, r *http.Request) {
	tab := assignment.Tab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = assignment.TabAll
	}

	list, err := h.uc.RiderPool(r.Context(), tab)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, riderLoadsToResponse(list))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid tab")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, "no available riders")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// SelectRider handles POST /assignment/rider.
func (h *AssignmentHandler) SelectRider(w http.ResponseWriter, r *http.Request) {
	var req selectRiderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	rd, err := h.uc.SelectRider(r.Context(), req.RiderID)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, riderToResponse(*rd))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "no rider selected")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, "rider not available")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// ValidatePackage handles POST /assignment/validate. It checks a scanned
// code without mutating anything.
func (h *AssignmentHandler) ValidatePackage(w http.ResponseWriter, r *http.Request) {
	var req validatePackageRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	d, err := h.uc.ValidatePackage(r.Context(), req.PackageCode)
	if err == nil {
		writeJSON(w, r, http.StatusOK, deliveryToResponse(*d))
		return
	}
	h.scanError(w, r, err)
}

// Confirm handles POST /assignment/confirm and binds the package to the
// patient.
func (h *AssignmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmAssignmentRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	d, err := h.uc.Confirm(r.Context(), req.toInput())
	if err == nil {
		writeJSON(w, r, http.StatusOK, deliveryToResponse(*d))
		return
	}
	h.scanError(w, r, err)
}

// scanError maps the scan validation failures to distinct statuses so the
// client can tell a wrong code, an unpaid package and a re-used package
// apart.
func (h *AssignmentHandler) scanError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *apperr.PackageNotFoundError
		unpaid   *apperr.PaymentRequiredError
		assigned *apperr.AlreadyAssignedError
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusNotFound, notFound.Error())
	case errors.As(err, &unpaid):
		writeError(w, r, http.StatusPaymentRequired, unpaid.Error())
	case errors.As(err, &assigned):
		writeError(w, r, http.StatusConflict, assigned.Error())
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
