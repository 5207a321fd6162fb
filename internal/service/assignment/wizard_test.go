package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/logx"
	"medtrack/internal/ports/deliverytx"
)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

type stubTx struct {
	getByCodeForUpdateFn func(ctx context.Context, code string) (*domain.Delivery, error)
	assignFn             func(ctx context.Context, a domain.PackageAssignment) error
}

func (s *stubTx) GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	panic("not used in assignment tests")
}
func (s *stubTx) GetByCodeForUpdate(ctx context.Context, code string) (*domain.Delivery, error) {
	return s.getByCodeForUpdateFn(ctx, code)
}
func (s *stubTx) AssignPackage(ctx context.Context, a domain.PackageAssignment) error {
	if s.assignFn == nil {
		return nil
	}
	return s.assignFn(ctx, a)
}
func (s *stubTx) UpdateStatus(context.Context, string, domain.DeliveryStatus, domain.DeliveryStatus, time.Time, time.Time) error {
	panic("not used in assignment tests")
}
func (s *stubTx) UpdatePayment(context.Context, string, domain.PaymentStatus, time.Time, time.Time) error {
	panic("not used in assignment tests")
}
func (s *stubTx) RiderDeliveries(context.Context, string) ([]domain.Delivery, error) {
	panic("not used in assignment tests")
}
func (s *stubTx) UpdateRiderStats(context.Context, string, int, float64, time.Time) error {
	panic("not used in assignment tests")
}
func (s *stubTx) SetRiderStatus(context.Context, string, domain.RiderStatus, time.Time) error {
	panic("not used in assignment tests")
}

func newWizardService(deliveries deliveryRepository, patients patientReader, riders riderDirectory) *Service {
	return NewService(deliveries, patients, riders, 3*time.Second, logx.Nop(), nil)
}

func singleTx(tx *stubTx) func(ctx context.Context, fn func(deliverytx.Repository) error) error {
	return func(ctx context.Context, fn func(deliverytx.Repository) error) error {
		return fn(tx)
	}
}

func validCycle() domain.DrugCycle {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.DrugCycle{Length: 28, StartDate: start, EndDate: start.AddDate(0, 1, 0)}
}

func TestValidateCycle(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateCycle(validCycle()))

	err := ValidateCycle(domain.DrugCycle{})
	require.Error(t, err)
	var verrs apperr.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "cycle_length")
	require.Contains(t, verrs["cycle_length"], "weeks")
	require.Contains(t, verrs, "start_date")

	c := validCycle()
	c.EndDate = c.StartDate.AddDate(0, 0, -1)
	err = ValidateCycle(c)
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "end_date")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_Begin(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	patients := NewMockpatientReader(ctrl)
	patients.EXPECT().Get(gomock.Any(), "patient-1").Return(&domain.Patient{ID: "patient-1"}, nil)

	s := newWizardService(NewMockdeliveryRepository(ctrl), patients, NewMockriderDirectory(ctrl))

	p, err := s.Begin(context.Background(), "patient-1")
	require.NoError(t, err)
	require.Equal(t, "patient-1", p.ID)

	_, err = s.Begin(context.Background(), "  ")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_RiderPool_Tabs(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	riders := NewMockriderDirectory(ctrl)
	deliveries := NewMockdeliveryRepository(ctrl)

	pool := []domain.Rider{
		{ID: "free", Status: domain.RiderAvailable},
		{ID: "busy", Status: domain.RiderAvailable},
		{ID: "offline", Status: domain.RiderOffline},
	}
	riders.EXPECT().List(gomock.Any()).Return(pool, nil).AnyTimes()
	deliveries.EXPECT().List(gomock.Any(), nil, nil).Return([]domain.Delivery{
		{RiderID: "busy", Status: domain.StatusPending},
		{RiderID: "busy", Status: domain.StatusDelivered},
	}, nil).AnyTimes()

	s := newWizardService(deliveries, NewMockpatientReader(ctrl), riders)

	all, err := s.RiderPool(context.Background(), TabAll)
	require.NoError(t, err)
	require.Len(t, all, 2)

	unassigned, err := s.RiderPool(context.Background(), TabUnassigned)
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	require.Equal(t, "free", unassigned[0].Rider.ID)

	assigned, err := s.RiderPool(context.Background(), TabAssigned)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.Equal(t, "busy", assigned[0].Rider.ID)
	require.Equal(t, 2, assigned[0].Occupancy.Total)
	require.Equal(t, 1, assigned[0].Occupancy.Completed)

	_, err = s.RiderPool(context.Background(), Tab("bogus"))
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_RiderPool_NoneAvailable(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	riders := NewMockriderDirectory(ctrl)
	riders.EXPECT().List(gomock.Any()).Return([]domain.Rider{
		{ID: "r1", Status: domain.RiderOffline},
		{ID: "r2", Status: domain.RiderOnDelivery},
	}, nil)

	s := newWizardService(NewMockdeliveryRepository(ctrl), NewMockpatientReader(ctrl), riders)

	_, err := s.RiderPool(context.Background(), TabAll)
	require.ErrorIs(t, err, ErrNoAvailableRiders)
}

func TestService_SelectRider(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	riders := NewMockriderDirectory(ctrl)
	riders.EXPECT().Get(gomock.Any(), "r1").Return(&domain.Rider{ID: "r1", Status: domain.RiderAvailable}, nil)
	riders.EXPECT().Get(gomock.Any(), "r2").Return(&domain.Rider{ID: "r2", Status: domain.RiderOnDelivery}, nil)
	riders.EXPECT().Get(gomock.Any(), "ghost").Return(nil, nil)

	s := newWizardService(NewMockdeliveryRepository(ctrl), NewMockpatientReader(ctrl), riders)

	r, err := s.SelectRider(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "r1", r.ID)

	_, err = s.SelectRider(context.Background(), "r2")
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = s.SelectRider(context.Background(), "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.SelectRider(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingSelection)
}

func TestService_ValidatePackage_Ordering(t *testing.T) {
	t.Parallel()

	patientID := "someone-else"
	cases := []struct {
		name    string
		stored  *domain.Delivery
		errType func(err error) bool
	}{
		{
			name:   "unknown code",
			stored: nil,
			errType: func(err error) bool {
				var e *apperr.PackageNotFoundError
				return errors.As(err, &e)
			},
		},
		{
			name:   "unpaid before assignment check",
			stored: &domain.Delivery{PaymentStatus: domain.PaymentUnpaid},
			errType: func(err error) bool {
				var e *apperr.PaymentRequiredError
				return errors.As(err, &e)
			},
		},
		{
			name: "already assigned",
			stored: &domain.Delivery{
				PatientID:     &patientID,
				PaymentStatus: domain.PaymentPaid,
				Status:        domain.StatusPending,
			},
			errType: func(err error) bool {
				var e *apperr.AlreadyAssignedError
				return errors.As(err, &e)
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := newCtrl(t)
			deliveries := NewMockdeliveryRepository(ctrl)
			deliveries.EXPECT().GetByCode(gomock.Any(), "PKG-SCANNED00001").Return(tc.stored, nil)

			s := newWizardService(deliveries, NewMockpatientReader(ctrl), NewMockriderDirectory(ctrl))

			_, err := s.ValidatePackage(context.Background(), "PKG-SCANNED00001")
			require.Error(t, err)
			require.True(t, tc.errType(err))
		})
	}
}

func TestService_ValidatePackage_OK(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	deliveries := NewMockdeliveryRepository(ctrl)
	deliveries.EXPECT().GetByCode(gomock.Any(), "PKG-SCANNED00002").Return(&domain.Delivery{
		ID:            "d1",
		PackageCode:   "PKG-SCANNED00002",
		Status:        domain.StatusUnassigned,
		PaymentStatus: domain.PaymentPaid,
	}, nil)

	s := newWizardService(deliveries, NewMockpatientReader(ctrl), NewMockriderDirectory(ctrl))

	d, err := s.ValidatePackage(context.Background(), "PKG-SCANNED00002")
	require.NoError(t, err)
	require.Equal(t, "d1", d.ID)
}

func TestService_Confirm_Success(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	patients := NewMockpatientReader(ctrl)
	riders := NewMockriderDirectory(ctrl)
	deliveries := NewMockdeliveryRepository(ctrl)

	patient := &domain.Patient{ID: "patient-1", FirstName: "Ada", LastName: "Eze", Location: "Yaba, Lagos"}
	rider := &domain.Rider{ID: "rider-1", Status: domain.RiderAvailable}
	patients.EXPECT().Get(gomock.Any(), "patient-1").Return(patient, nil)
	riders.EXPECT().Get(gomock.Any(), "rider-1").Return(rider, nil)

	stored := &domain.Delivery{
		ID:            "d1",
		PackageCode:   "PKG-CONFIRM00001",
		Status:        domain.StatusUnassigned,
		PaymentStatus: domain.PaymentPaid,
		UpdatedAt:     time.Now().UTC().Add(-time.Minute),
	}
	var gotAssignment domain.PackageAssignment
	tx := &stubTx{
		getByCodeForUpdateFn: func(_ context.Context, code string) (*domain.Delivery, error) {
			require.Equal(t, "PKG-CONFIRM00001", code)
			return stored, nil
		},
		assignFn: func(_ context.Context, a domain.PackageAssignment) error {
			gotAssignment = a
			return nil
		},
	}
	deliveries.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(singleTx(tx))

	s := newWizardService(deliveries, patients, riders)

	d, err := s.Confirm(context.Background(), ConfirmInput{
		PackageCode: "PKG-CONFIRM00001",
		PatientID:   "patient-1",
		RiderID:     "rider-1",
		Cycle:       validCycle(),
	})
	require.NoError(t, err)

	require.Equal(t, "d1", gotAssignment.DeliveryID)
	require.Equal(t, "patient-1", gotAssignment.PatientID)
	require.Equal(t, "Ada Eze", gotAssignment.PatientName)
	require.Equal(t, "rider-1", gotAssignment.RiderID)
	require.True(t, gotAssignment.ExpectedUpdatedAt.Equal(stored.UpdatedAt))

	require.Equal(t, domain.StatusPending, d.Status)
	require.Equal(t, "patient-1", *d.PatientID)
	require.Equal(t, "Yaba, Lagos", d.Location)
	require.Equal(t, 28, d.Cycle.Length)
}

func TestService_Confirm_IdempotentRescan(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	patients := NewMockpatientReader(ctrl)
	riders := NewMockriderDirectory(ctrl)
	deliveries := NewMockdeliveryRepository(ctrl)

	patientID := "patient-1"
	patients.EXPECT().Get(gomock.Any(), "patient-1").Return(&domain.Patient{ID: patientID}, nil)
	riders.EXPECT().Get(gomock.Any(), "rider-1").Return(&domain.Rider{ID: "rider-1"}, nil)

	stored := &domain.Delivery{
		ID:            "d1",
		PatientID:     &patientID,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPaid,
	}
	tx := &stubTx{
		getByCodeForUpdateFn: func(context.Context, string) (*domain.Delivery, error) { return stored, nil },
		assignFn: func(context.Context, domain.PackageAssignment) error {
			t.Fatal("assignment must not run for a re-scan of the same patient")
			return nil
		},
	}
	deliveries.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(singleTx(tx))

	s := newWizardService(deliveries, patients, riders)

	d, err := s.Confirm(context.Background(), ConfirmInput{
		PackageCode: "PKG-CONFIRM00002",
		PatientID:   "patient-1",
		RiderID:     "rider-1",
		Cycle:       validCycle(),
	})
	require.NoError(t, err)
	require.Equal(t, "d1", d.ID)
}

func TestService_Confirm_UnpaidRejected(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	patients := NewMockpatientReader(ctrl)
	riders := NewMockriderDirectory(ctrl)
	deliveries := NewMockdeliveryRepository(ctrl)

	patients.EXPECT().Get(gomock.Any(), "patient-1").Return(&domain.Patient{ID: "patient-1"}, nil)
	riders.EXPECT().Get(gomock.Any(), "rider-1").Return(&domain.Rider{ID: "rider-1"}, nil)

	stored := &domain.Delivery{
		ID:            "d1",
		Status:        domain.StatusUnassigned,
		PaymentStatus: domain.PaymentUnpaid,
	}
	tx := &stubTx{
		getByCodeForUpdateFn: func(context.Context, string) (*domain.Delivery, error) { return stored, nil },
	}
	deliveries.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(singleTx(tx))

	s := newWizardService(deliveries, patients, riders)

	_, err := s.Confirm(context.Background(), ConfirmInput{
		PackageCode: "PKG-CONFIRM00003",
		PatientID:   "patient-1",
		RiderID:     "rider-1",
		Cycle:       validCycle(),
	})

	var unpaid *apperr.PaymentRequiredError
	require.ErrorAs(t, err, &unpaid)
}

func TestService_Confirm_MissingRider(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	s := newWizardService(NewMockdeliveryRepository(ctrl), NewMockpatientReader(ctrl), NewMockriderDirectory(ctrl))

	_, err := s.Confirm(context.Background(), ConfirmInput{
		PackageCode: "PKG-CONFIRM00004",
		PatientID:   "patient-1",
		Cycle:       validCycle(),
	})
	require.ErrorIs(t, err, ErrMissingSelection)
}
