// Package assignment implements the package assignment workflow: capture
// the drug cycle, pick a dispatch rider from the pool, then confirm the
// scanned package code. Confirmation is transactional and guarded so two
// concurrent confirmations of the same package cannot both apply.
package assignment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/logx"
	"medtrack/internal/ports/deliverytx"
	"medtrack/internal/stats"
)

// ErrNoAvailableRiders is returned by the pool selector when not a single
// rider is available for assignment.
var ErrNoAvailableRiders = fmt.Errorf("no available riders: %w", apperr.ErrConflict)

// ErrMissingSelection is returned when confirmation is attempted without a
// rider selected.
var ErrMissingSelection = fmt.Errorf("no rider selected: %w", apperr.ErrInvalid)

// Tab filters the rider pool by current occupancy.
type Tab string

// List of rider pool tabs
const (
	TabAll        Tab = "all"
	TabUnassigned Tab = "unassigned"
	TabAssigned   Tab = "assigned"
)

// Valid checks if the Tab is valid
func (t Tab) Valid() bool {
	return t == TabAll || t == TabUnassigned || t == TabAssigned
}

// RiderLoad pairs a rider with their current delivery load.
type RiderLoad struct {
	Rider     domain.Rider
	Occupancy domain.RiderOccupancy
}

// Service coordinates the assignment workflow steps.
type Service struct {
	deliveries       deliveryRepository
	patients         patientReader
	riders           riderDirectory
	operationTimeout time.Duration
	logger           logx.Logger
	assignments      prometheus.Counter
	now              func() time.Time
}

// NewService creates and configures an assignment Service.
func NewService(
	deliveries deliveryRepository,
	patients patientReader,
	riders riderDirectory,
	timeout time.Duration,
	logger logx.Logger,
	assignments prometheus.Counter,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		deliveries:       deliveries,
		patients:         patients,
		riders:           riders,
		operationTimeout: timeout,
		logger:           logger,
		assignments:      assignments,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Begin opens the workflow for a patient and returns the patient record.
func (s *Service) Begin(ctx context.Context, patientID string) (*domain.Patient, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

// ValidateCycle checks the drug cycle captured in the first step. All field
// failures are reported together.
func ValidateCycle(c domain.DrugCycle) error {
	verrs := apperr.ValidationErrors{}
	if c.Length <= 0 {
		verrs["cycle_length"] = "cycle length must be a positive number of weeks"
	}
	if c.StartDate.IsZero() {
		verrs["start_date"] = "start date is required"
	}
	if !c.EndDate.IsZero() && !c.StartDate.IsZero() && !c.EndDate.After(c.StartDate) {
		verrs["end_date"] = "end date must be after the start date"
	}
	return verrs.OrNil()
}

// RiderPool returns the available riders with their occupancy, filtered by
// the selector tab. It fails when no rider is available at all.
func (s *Service) RiderPool(ctx context.Context, tab Tab) ([]RiderLoad, error) {
	if !tab.Valid() {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	riders, err := s.riders.List(ctx)
	if err != nil {
		return nil, err
	}
	available := domain.AvailableRiders(riders)
	if len(available) == 0 {
		return nil, ErrNoAvailableRiders
	}

	deliveries, err := s.deliveries.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	out := make([]RiderLoad, 0, len(available))
	for _, r := range available {
		load := RiderLoad{Rider: r, Occupancy: stats.RiderOccupancy(deliveries, r.ID)}
		switch tab {
		case TabUnassigned:
			if load.Occupancy.Assigned() {
				continue
			}
		case TabAssigned:
			if !load.Occupancy.Assigned() {
				continue
			}
		}
		out = append(out, load)
	}
	return out, nil
}

// SelectRider resolves the rider picked in the second step. The rider must
// exist and be available.
func (s *Service) SelectRider(ctx context.Context, riderID string) (*domain.Rider, error) {
	if strings.TrimSpace(riderID) == "" {
		return nil, ErrMissingSelection
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	r, err := s.riders.Get(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.ErrNotFound
	}
	if r.Status != domain.RiderAvailable {
		return nil, fmt.Errorf("rider %s is not available: %w", riderID, apperr.ErrConflict)
	}
	return r, nil
}

// checkScanned applies the scan validation order: unknown code first, then
// unpaid, then already assigned.
func checkScanned(d *domain.Delivery, code string) error {
	if d == nil {
		return &apperr.PackageNotFoundError{Code: code}
	}
	if d.PaymentStatus != domain.PaymentPaid {
		return &apperr.PaymentRequiredError{Code: code}
	}
	if d.Assigned() {
		return &apperr.AlreadyAssignedError{Code: code}
	}
	return nil
}

// ValidatePackage checks a scanned or entered package code without
// mutating anything, so the form can reject a bad code before confirmation.
func (s *Service) ValidatePackage(ctx context.Context, code string) (*domain.Delivery, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkScanned(d, code); err != nil {
		return nil, err
	}
	return d, nil
}

// ConfirmInput carries the accumulated workflow state into confirmation.
type ConfirmInput struct {
	PackageCode      string
	PatientID        string
	RiderID          string
	Cycle            domain.DrugCycle
	EstimatedArrival time.Time
	ResponseTimeout  *time.Time
	Notes            string
}

// Confirm re-validates the scanned package inside a transaction and binds
// it to the patient. Confirming a package already bound to the same patient
// is a no-op and returns the existing record.
func (s *Service) Confirm(ctx context.Context, in ConfirmInput) (*domain.Delivery, error) {
	code := strings.TrimSpace(in.PackageCode)
	if code == "" {
		return nil, apperr.ErrInvalid
	}
	if strings.TrimSpace(in.RiderID) == "" {
		return nil, ErrMissingSelection
	}
	if err := ValidateCycle(in.Cycle); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.patients.Get(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	r, err := s.riders.Get(ctx, in.RiderID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.ErrNotFound
	}

	var out *domain.Delivery
	assigned := false
	err = s.deliveries.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := tx.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if d != nil && d.Assigned() && *d.PatientID == p.ID {
			out = d
			return nil
		}
		if err := checkScanned(d, code); err != nil {
			return err
		}

		now := s.now()
		a := domain.PackageAssignment{
			DeliveryID:  d.ID,
			PatientID:   p.ID,
			PatientName: p.Name(),
			RiderID:     r.ID,
			Cycle:       in.Cycle,
			Tracking: domain.Tracking{
				EstimatedArrival: in.EstimatedArrival,
				Location:         p.Location,
				ResponseTimeout:  in.ResponseTimeout,
			},
			Notes:             in.Notes,
			ExpectedUpdatedAt: d.UpdatedAt,
			Now:               now,
		}
		if err := tx.AssignPackage(ctx, a); err != nil {
			return err
		}

		patientID := p.ID
		d.PatientID = &patientID
		d.PatientName = p.Name()
		d.RiderID = r.ID
		d.Location = p.Location
		d.Status = domain.StatusPending
		d.Cycle = in.Cycle
		d.Tracking = domain.Tracking{
			EstimatedArrival: in.EstimatedArrival,
			Status:           string(domain.StatusPending),
			Location:         p.Location,
			LastUpdated:      now,
			ResponseTimeout:  in.ResponseTimeout,
		}
		if in.Notes != "" {
			d.Notes = in.Notes
		}
		d.UpdatedAt = now
		out = d
		assigned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if assigned {
		if s.assignments != nil {
			s.assignments.Inc()
		}
		s.logger.Info("package assigned",
			logx.String("event", "package_assigned"),
			logx.String("package_code", code),
			logx.String("patient_id", p.ID),
			logx.String("rider_id", r.ID),
		)
	}
	return out, nil
}
