//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/ports/deliverytx"
	"medtrack/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

type DeliveryRepositorySuite struct {
	suite.Suite
	pool         *pgxpool.Pool
	deliveryRepo *repository.DeliveryRepo
	riderRepo    *repository.RiderRepo
	patientRepo  *repository.PatientRepo
}

func (s *DeliveryRepositorySuite) SetupSuite() {
	s.pool = tcPool
	s.deliveryRepo = repository.NewDeliveryRepo(tcPool)
	s.riderRepo = repository.NewRiderRepo(tcPool)
	s.patientRepo = repository.NewPatientRepo(tcPool)
}

func (s *DeliveryRepositorySuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE deliveries, patients, riders CASCADE`)
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) createRider(firstName string) string {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	r := &domain.Rider{
		ID:          uuid.NewString(),
		FirstName:   firstName,
		LastName:    "Okafor",
		Phone:       "+2348000000001",
		Status:      domain.RiderAvailable,
		VehicleType: domain.VehicleMotorcycle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.Require().NoError(s.riderRepo.Create(ctx, r))
	return r.ID
}

func (s *DeliveryRepositorySuite) createPatient(hospitalID string) string {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &domain.Patient{
		ID:            uuid.NewString(),
		HospitalID:    hospitalID,
		FirstName:     "Ada",
		LastName:      "Eze",
		Phone:         "+2348000000002",
		Location:      "Yaba, Lagos",
		PaymentStatus: domain.PaymentPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Require().NoError(s.patientRepo.Create(ctx, p))
	return p.ID
}

func (s *DeliveryRepositorySuite) createPackage(code string) *domain.Delivery {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := &domain.Delivery{
		ID:            uuid.NewString(),
		PackageCode:   code,
		Items:         []string{"Amoxicillin 500mg"},
		Status:        domain.StatusUnassigned,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Require().NoError(s.deliveryRepo.Create(ctx, d))
	return d
}

func (s *DeliveryRepositorySuite) TestCreateAndGetByCode() {
	ctx := context.Background()

	d := s.createPackage("PKG-TESTCODE0001")

	got, err := s.deliveryRepo.GetByCode(ctx, "PKG-TESTCODE0001")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(d.ID, got.ID)
	s.Equal(domain.StatusUnassigned, got.Status)
	s.Nil(got.PatientID)

	byID, err := s.deliveryRepo.GetByCode(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal(d.ID, byID.ID)
}

func (s *DeliveryRepositorySuite) TestCreate_DuplicateCode() {
	s.createPackage("PKG-TESTCODE0002")

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	err := s.deliveryRepo.Create(ctx, &domain.Delivery{
		ID:            uuid.NewString(),
		PackageCode:   "PKG-TESTCODE0002",
		Status:        domain.StatusUnassigned,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	var dup *apperr.DuplicatePackageCodeError
	s.Require().Error(err)
	s.Require().ErrorAs(err, &dup)
	s.Equal("PKG-TESTCODE0002", dup.Code)
}

func (s *DeliveryRepositorySuite) TestCodeExists() {
	ctx := context.Background()

	s.createPackage("PKG-TESTCODE0003")

	exists, err := s.deliveryRepo.CodeExists(ctx, "PKG-TESTCODE0003")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.deliveryRepo.CodeExists(ctx, "PKG-NOSUCHCODE00")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *DeliveryRepositorySuite) TestGet_NotFound() {
	ctx := context.Background()

	got, err := s.deliveryRepo.Get(ctx, uuid.NewString())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *DeliveryRepositorySuite) TestList_LimitOffset() {
	ctx := context.Background()

	s.createPackage("PKG-LIST00000001")
	s.createPackage("PKG-LIST00000002")
	s.createPackage("PKG-LIST00000003")

	all, err := s.deliveryRepo.List(ctx, nil, nil)
	s.Require().NoError(err)
	s.Len(all, 3)

	limit, offset := 2, 1
	page, err := s.deliveryRepo.List(ctx, &limit, &offset)
	s.Require().NoError(err)
	s.Len(page, 2)
}

func (s *DeliveryRepositorySuite) TestFindByRider() {
	ctx := context.Background()

	riderID := s.createRider("Chidi")

	d := s.createPackage("PKG-RIDER0000001")
	rid := riderID
	ok, err := s.deliveryRepo.UpdatePartial(ctx, domain.PartialDeliveryUpdate{ID: d.ID, RiderID: &rid})
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.deliveryRepo.FindByRider(ctx, riderID)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(riderID, got[0].RiderID)
}

func (s *DeliveryRepositorySuite) TestDelete() {
	ctx := context.Background()

	d := s.createPackage("PKG-DELETE000001")

	ok, err := s.deliveryRepo.Delete(ctx, d.ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.deliveryRepo.Delete(ctx, d.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *DeliveryRepositorySuite) TestAssignPackage_Success() {
	ctx := context.Background()

	riderID := s.createRider("Emeka")
	patientID := s.createPatient("HOSP-001")
	d := s.createPackage("PKG-ASSIGN000001")

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
		locked, err := tx.GetByCodeForUpdate(ctx, d.PackageCode)
		if err != nil {
			return err
		}
		return tx.AssignPackage(ctx, domain.PackageAssignment{
			DeliveryID:        locked.ID,
			PatientID:         patientID,
			PatientName:       "Ada Eze",
			RiderID:           riderID,
			Tracking:          domain.Tracking{Location: "Yaba, Lagos", EstimatedArrival: now.Add(2 * time.Hour)},
			ExpectedUpdatedAt: locked.UpdatedAt,
			Now:               now,
		})
	})
	s.Require().NoError(err)

	got, err := s.deliveryRepo.Get(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(domain.StatusPending, got.Status)
	s.Require().NotNil(got.PatientID)
	s.Equal(patientID, *got.PatientID)
	s.Equal(riderID, got.RiderID)
	s.Equal(string(domain.StatusPending), got.Tracking.Status)
}

func (s *DeliveryRepositorySuite) TestAssignPackage_StaleUpdatedAt() {
	ctx := context.Background()

	patientID := s.createPatient("HOSP-002")
	d := s.createPackage("PKG-ASSIGN000002")

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
		return tx.AssignPackage(ctx, domain.PackageAssignment{
			DeliveryID:        d.ID,
			PatientID:         patientID,
			PatientName:       "Ada Eze",
			Tracking:          domain.Tracking{},
			ExpectedUpdatedAt: d.UpdatedAt.Add(-time.Minute),
			Now:               now,
		})
	})
	s.Require().Error(err)
	s.True(errors.Is(err, apperr.ErrConflict))
}

func (s *DeliveryRepositorySuite) TestUpdateStatus_CAS() {
	ctx := context.Background()

	patientID := s.createPatient("HOSP-003")
	d := s.createPackage("PKG-STATUS000001")

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
		locked, err := tx.GetForUpdate(ctx, d.ID)
		if err != nil {
			return err
		}
		if err := tx.AssignPackage(ctx, domain.PackageAssignment{
			DeliveryID:        locked.ID,
			PatientID:         patientID,
			PatientName:       "Ada Eze",
			Tracking:          domain.Tracking{},
			ExpectedUpdatedAt: locked.UpdatedAt,
			Now:               now,
		}); err != nil {
			return err
		}
		return nil
	})
	s.Require().NoError(err)

	later := now.Add(time.Minute)
	err = s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
		locked, err := tx.GetForUpdate(ctx, d.ID)
		if err != nil {
			return err
		}
		return tx.UpdateStatus(ctx, locked.ID, domain.StatusPending, domain.StatusInProgress, locked.UpdatedAt, later)
	})
	s.Require().NoError(err)

	got, err := s.deliveryRepo.Get(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusInProgress, got.Status)

	// retrying the same transition with the old timestamp must not apply
	err = s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
		return tx.UpdateStatus(ctx, d.ID, domain.StatusPending, domain.StatusInProgress, now, later.Add(time.Minute))
	})
	s.Require().Error(err)
	s.True(errors.Is(err, apperr.ErrConflict))
}

func (s *DeliveryRepositorySuite) TestExpirePending() {
	ctx := context.Background()

	patientID := s.createPatient("HOSP-004")
	stale := s.createPackage("PKG-EXPIRE000001")
	fresh := s.createPackage("PKG-EXPIRE000002")

	now := time.Now().UTC().Truncate(time.Microsecond)
	assign := func(d *domain.Delivery, timeout time.Time) {
		to := timeout
		err := s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
			locked, err := tx.GetForUpdate(ctx, d.ID)
			if err != nil {
				return err
			}
			return tx.AssignPackage(ctx, domain.PackageAssignment{
				DeliveryID:        locked.ID,
				PatientID:         patientID,
				PatientName:       "Ada Eze",
				Tracking:          domain.Tracking{ResponseTimeout: &to},
				ExpectedUpdatedAt: locked.UpdatedAt,
				Now:               now,
			})
		})
		s.Require().NoError(err)
	}
	assign(stale, now.Add(-time.Hour))
	assign(fresh, now.Add(time.Hour))

	affected, err := s.deliveryRepo.ExpirePending(ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), affected)

	gotStale, err := s.deliveryRepo.Get(ctx, stale.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, gotStale.Status)

	gotFresh, err := s.deliveryRepo.Get(ctx, fresh.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, gotFresh.Status)
}

func (s *DeliveryRepositorySuite) TestRiderStatsAndStatusInTx() {
	ctx := context.Background()

	riderID := s.createRider("Tunde")

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := s.deliveryRepo.WithTx(ctx, func(tx deliverytx.Repository) error {
		if err := tx.UpdateRiderStats(ctx, riderID, 7, 85.5, now); err != nil {
			return err
		}
		return tx.SetRiderStatus(ctx, riderID, domain.RiderOnDelivery, now)
	})
	s.Require().NoError(err)

	got, err := s.riderRepo.Get(ctx, riderID)
	s.Require().NoError(err)
	s.Equal(7, got.TotalDeliveries)
	s.InDelta(85.5, got.SuccessRate, 0.001)
	s.Equal(domain.RiderOnDelivery, got.Status)
}

func TestDeliveryRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositorySuite))
}
