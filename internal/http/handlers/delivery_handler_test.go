package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/service/delivery"
	"medtrack/internal/stats"
)

type stubDeliveryUsecase struct {
	createPackageFn  func(ctx context.Context, in delivery.CreatePackageInput) (*domain.Delivery, error)
	createDeliveryFn func(ctx context.Context, in delivery.CreateDeliveryInput) (*domain.Delivery, error)
	getFn            func(ctx context.Context, id string) (*domain.Delivery, error)
	getByCodeFn      func(ctx context.Context, code string) (*domain.Delivery, error)
	listFn           func(ctx context.Context, limit, offset *int) ([]domain.Delivery, error)
	byPatientFn      func(ctx context.Context, patientID string) ([]domain.Delivery, error)
	byRiderFn        func(ctx context.Context, riderID string) ([]domain.Delivery, error)
	startFn          func(ctx context.Context, actor domain.Actor, id string) error
	deliveredFn      func(ctx context.Context, actor domain.Actor, id string) error
	failFn           func(ctx context.Context, actor domain.Actor, id string) error
	setPaymentFn     func(ctx context.Context, actor domain.Actor, id string, to domain.PaymentStatus) error
	updatePartialFn  func(ctx context.Context, u domain.PartialDeliveryUpdate) error
	deleteFn         func(ctx context.Context, actor domain.Actor, id string) error
	overviewFn       func(ctx context.Context) (delivery.Overview, error)
}

func (s *stubDeliveryUsecase) CreatePackage(ctx context.Context, in delivery.CreatePackageInput) (*domain.Delivery, error) {
	if s.createPackageFn == nil {
		panic("CreatePackage not expected in this test")
	}
	return s.createPackageFn(ctx, in)
}

func (s *stubDeliveryUsecase) CreateDelivery(ctx context.Context, in delivery.CreateDeliveryInput) (*domain.Delivery, error) {
	if s.createDeliveryFn == nil {
		panic("CreateDelivery not expected in this test")
	}
	return s.createDeliveryFn(ctx, in)
}

func (s *stubDeliveryUsecase) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	if s.getFn == nil {
		panic("Get not expected in this test")
	}
	return s.getFn(ctx, id)
}

func (s *stubDeliveryUsecase) GetByCode(ctx context.Context, code string) (*domain.Delivery, error) {
	if s.getByCodeFn == nil {
		panic("GetByCode not expected in this test")
	}
	return s.getByCodeFn(ctx, code)
}

func (s *stubDeliveryUsecase) List(ctx context.Context, limit, offset *int) ([]domain.Delivery, error) {
	if s.listFn == nil {
		panic("List not expected in this test")
	}
	return s.listFn(ctx, limit, offset)
}

func (s *stubDeliveryUsecase) ByPatient(ctx context.Context, patientID string) ([]domain.Delivery, error) {
	if s.byPatientFn == nil {
		panic("ByPatient not expected in this test")
	}
	return s.byPatientFn(ctx, patientID)
}

func (s *stubDeliveryUsecase) ByRider(ctx context.Context, riderID string) ([]domain.Delivery, error) {
	if s.byRiderFn == nil {
		panic("ByRider not expected in this test")
	}
	return s.byRiderFn(ctx, riderID)
}

func (s *stubDeliveryUsecase) Start(ctx context.Context, actor domain.Actor, id string) error {
	if s.startFn == nil {
		panic("Start not expected in this test")
	}
	return s.startFn(ctx, actor, id)
}

func (s *stubDeliveryUsecase) Delivered(ctx context.Context, actor domain.Actor, id string) error {
	if s.deliveredFn == nil {
		panic("Delivered not expected in this test")
	}
	return s.deliveredFn(ctx, actor, id)
}

func (s *stubDeliveryUsecase) Fail(ctx context.Context, actor domain.Actor, id string) error {
	if s.failFn == nil {
		panic("Fail not expected in this test")
	}
	return s.failFn(ctx, actor, id)
}

func (s *stubDeliveryUsecase) SetPayment(ctx context.Context, actor domain.Actor, id string, to domain.PaymentStatus) error {
	if s.setPaymentFn == nil {
		panic("SetPayment not expected in this test")
	}
	return s.setPaymentFn(ctx, actor, id, to)
}

func (s *stubDeliveryUsecase) UpdatePartial(ctx context.Context, u domain.PartialDeliveryUpdate) error {
	if s.updatePartialFn == nil {
		panic("UpdatePartial not expected in this test")
	}
	return s.updatePartialFn(ctx, u)
}

func (s *stubDeliveryUsecase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if s.deleteFn == nil {
		panic("Delete not expected in this test")
	}
	return s.deleteFn(ctx, actor, id)
}

func (s *stubDeliveryUsecase) Overview(ctx context.Context) (delivery.Overview, error) {
	if s.overviewFn == nil {
		panic("Overview not expected in this test")
	}
	return s.overviewFn(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestDeliveryHandler_CreatePackage_OK(t *testing.T) {
	t.Parallel()

	body := `{"rider_id":"","items":["insulin"],"notes":"keep cool"}`
	req := httptest.NewRequest(http.MethodPost, "/packages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := &stubDeliveryUsecase{
		createPackageFn: func(ctx context.Context, in delivery.CreatePackageInput) (*domain.Delivery, error) {
			require.Equal(t, []string{"insulin"}, in.Items)
			return &domain.Delivery{
				ID:            "d-1",
				PackageCode:   "PKG-A1B2C3D4",
				Items:         in.Items,
				Status:        domain.StatusUnassigned,
				PaymentStatus: domain.PaymentUnpaid,
				Notes:         "keep cool",
				CreatedAt:     created,
				UpdatedAt:     created,
			}, nil
		},
	}

	h := NewDeliveryHandler(uc)
	h.CreatePackage(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/deliveries/d-1", rr.Header().Get("Location"))

	expectedJSON := `{
        "id": "d-1",
        "package_code": "PKG-A1B2C3D4",
        "items": ["insulin"],
        "status": "unassigned",
        "payment_status": "unpaid",
        "notes": "keep cool",
        "tracking": {},
        "created_at": "2025-06-01T10:00:00Z",
        "updated_at": "2025-06-01T10:00:00Z"
    }`
	assert.JSONEq(t, expectedJSON, rr.Body.String())
}

func TestDeliveryHandler_CreatePackage_NoItems(t *testing.T) {
	t.Parallel()

	body := `{"rider_id":"","items":[],"notes":""}`
	req := httptest.NewRequest(http.MethodPost, "/packages", strings.NewReader(body))
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		createPackageFn: func(ctx context.Context, in delivery.CreatePackageInput) (*domain.Delivery, error) {
			return nil, apperr.ValidationErrors{"items": "at least one item is required"}
		},
	}

	h := NewDeliveryHandler(uc)
	h.CreatePackage(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "items")
}

func TestDeliveryHandler_Create_InvalidJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/deliveries", strings.NewReader(`{"patient_id":`))
	rr := httptest.NewRecorder()

	h := NewDeliveryHandler(&stubDeliveryUsecase{})
	h.Create(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/deliveries/missing", nil)
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		getFn: func(ctx context.Context, id string) (*domain.Delivery, error) {
			return nil, apperr.ErrNotFound
		},
	}

	h := NewDeliveryHandler(uc)
	h.GetByID(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeliveryHandler_GetByCode_PackageNotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/deliveries/code/PKG-NOPE", nil)
	req = withURLParam(req, "code", "PKG-NOPE")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		getByCodeFn: func(ctx context.Context, code string) (*domain.Delivery, error) {
			return nil, &apperr.PackageNotFoundError{Code: code}
		},
	}

	h := NewDeliveryHandler(uc)
	h.GetByCode(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeliveryHandler_QRCode_ServesPNG(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/deliveries/d-1/qr", nil)
	req = withURLParam(req, "id", "d-1")
	rr := httptest.NewRecorder()

	png := []byte{0x89, 'P', 'N', 'G'}
	uc := &stubDeliveryUsecase{
		getFn: func(ctx context.Context, id string) (*domain.Delivery, error) {
			return &domain.Delivery{ID: id, EncodedCode: png}, nil
		},
	}

	h := NewDeliveryHandler(uc)
	h.QRCode(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, png, rr.Body.Bytes())
}

func TestDeliveryHandler_List_InvalidLimit(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/deliveries?limit=-1", nil)
	rr := httptest.NewRecorder()

	h := NewDeliveryHandler(&stubDeliveryUsecase{})
	h.List(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_Start_PassesActorFromHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/deliveries/d-1/start", nil)
	req = withURLParam(req, "id", "d-1")
	req.Header.Set(headerActorID, "r-9")
	req.Header.Set(headerActorRole, "rider")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		startFn: func(ctx context.Context, actor domain.Actor, id string) error {
			require.Equal(t, "d-1", id)
			require.Equal(t, domain.Actor{ID: "r-9", Role: domain.RoleRider}, actor)
			return nil
		},
		getFn: func(ctx context.Context, id string) (*domain.Delivery, error) {
			return &domain.Delivery{ID: id, Status: domain.StatusInProgress}, nil
		},
	}

	h := NewDeliveryHandler(uc)
	h.Start(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"in_progress"`)
}

func TestDeliveryHandler_Start_ForeignRiderForbidden(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/deliveries/d-1/start", nil)
	req = withURLParam(req, "id", "d-1")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		startFn: func(ctx context.Context, actor domain.Actor, id string) error {
			return apperr.ErrUnauthorized
		},
	}

	h := NewDeliveryHandler(uc)
	h.Start(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDeliveryHandler_Delivered_InvalidTransitionConflict(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/deliveries/d-1/delivered", nil)
	req = withURLParam(req, "id", "d-1")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		deliveredFn: func(ctx context.Context, actor domain.Actor, id string) error {
			return &apperr.InvalidTransitionError{From: "pending", To: "delivered"}
		},
	}

	h := NewDeliveryHandler(uc)
	h.Delivered(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid status transition")
}

func TestDeliveryHandler_Payment_InvalidStatus(t *testing.T) {
	t.Parallel()

	body := `{"payment_status":"maybe"}`
	req := httptest.NewRequest(http.MethodPut, "/deliveries/d-1/payment", strings.NewReader(body))
	req = withURLParam(req, "id", "d-1")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		setPaymentFn: func(ctx context.Context, actor domain.Actor, id string, to domain.PaymentStatus) error {
			return apperr.ErrInvalid
		},
	}

	h := NewDeliveryHandler(uc)
	h.Payment(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_Delete_NoContent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/deliveries/d-1", nil)
	req = withURLParam(req, "id", "d-1")
	req.Header.Set(headerActorRole, "admin")
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		deleteFn: func(ctx context.Context, actor domain.Actor, id string) error {
			require.True(t, actor.IsAdmin())
			return nil
		},
	}

	h := NewDeliveryHandler(uc)
	h.Delete(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDeliveryHandler_Overview_OK(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/stats/overview", nil)
	rr := httptest.NewRecorder()

	uc := &stubDeliveryUsecase{
		overviewFn: func(ctx context.Context) (delivery.Overview, error) {
			o := delivery.Overview{SuccessRate: 50}
			o.Counts.Assigned.Delivered = 1
			o.Counts.Assigned.Failed = 1
			o.TopRiders = []stats.RiderStanding{{RiderID: "r-1", Total: 2, Delivered: 1, SuccessRate: 50}}
			o.MonthlyGrowth[11] = 2
			return o, nil
		},
	}

	h := NewDeliveryHandler(uc)
	h.Overview(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success_rate":50`)
	assert.Contains(t, rr.Body.String(), `"delivered":1`)
	assert.Contains(t, rr.Body.String(), `"rider_id":"r-1"`)
}
