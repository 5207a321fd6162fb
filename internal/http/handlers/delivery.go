package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
)

// DeliveryHandler serves HTTP endpoints for packages and deliveries.
type DeliveryHandler struct{ uc deliveryUsecase }

// NewDeliveryHandler wires a deliveryUsecase into HTTP handlers.
func NewDeliveryHandler(uc deliveryUsecase) *DeliveryHandler { return &DeliveryHandler{uc: uc} }

// CreatePackage handles POST /packages.
func (h *DeliveryHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req createPackageRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	d, err := h.uc.CreatePackage(r.Context(), req.toInput())
	switch {
	case err == nil:
		w.Header().Set("Location", "/deliveries/"+d.ID)
		writeJSON(w, r, http.StatusCreated, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "rider not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, "package code collision")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Create handles POST /deliveries.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	d, err := h.uc.CreateDelivery(r.Context(), req.toInput())
	switch {
	case err == nil:
		w.Header().Set("Location", "/deliveries/"+d.ID)
		writeJSON(w, r, http.StatusCreated, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrInvalid):
		badRequest(w, r, err)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "patient or rider not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, "package code collision")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /deliveries/{id}.
func (h *DeliveryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.uc.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByCode handles GET /deliveries/code/{code}.
func (h *DeliveryHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code, err := idFromURL(r, "code")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid code")
		return
	}

	d, err := h.uc.GetByCode(r.Context(), code)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid code")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "package not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// QRCode handles GET /deliveries/{id}/qr and serves the stored PNG.
func (h *DeliveryHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.uc.Get(r.Context(), id)
	switch {
	case err == nil:
		if len(d.EncodedCode) == 0 {
			writeError(w, r, http.StatusNotFound, "no encoded code for delivery")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(d.EncodedCode)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /deliveries.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var limitPtr, offsetPtr *int
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limitPtr = &v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid offset")
			return
		}
		offsetPtr = &v
	}

	list, err := h.uc.List(r.Context(), limitPtr, offsetPtr)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, deliveriesToResponse(list))
}

// ByPatient handles GET /patients/{id}/deliveries.
func (h *DeliveryHandler) ByPatient(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.uc.ByPatient(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, deliveriesToResponse(list))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid id")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// ByRider handles GET /riders/{id}/deliveries.
func (h *DeliveryHandler) ByRider(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.uc.ByRider(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, deliveriesToResponse(list))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid id")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Start handles POST /deliveries/{id}/start.
func (h *DeliveryHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Start)
}

// Delivered handles POST /deliveries/{id}/delivered.
func (h *DeliveryHandler) Delivered(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Delivered)
}

// Fail handles POST /deliveries/{id}/fail.
func (h *DeliveryHandler) Fail(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Fail)
}

type transitionFunc func(ctx context.Context, actor domain.Actor, id string) error

func (h *DeliveryHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = fn(r.Context(), actorFromRequest(r), id)
	switch {
	case err == nil:
		d, getErr := h.uc.Get(r.Context(), id)
		if getErr != nil || d == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Payment handles PUT /deliveries/{id}/payment.
func (h *DeliveryHandler) Payment(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req paymentRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	err = h.uc.SetPayment(r.Context(), actorFromRequest(r), id, req.PaymentStatus)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid payment status")
	case errors.Is(err, apperr.ErrUnauthorized):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Update handles PUT /deliveries with partial updates from the request body.
func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateDeliveryRequest
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
		writeError(w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Delete handles DELETE /deliveries/{id}.
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.uc.Delete(r.Context(), actorFromRequest(r), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrUnauthorized):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Overview handles GET /stats/overview.
func (h *DeliveryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.Overview(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, overviewToResponse(o))
}
