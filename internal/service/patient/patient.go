package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
)

// patientRepository defines storage operations required by the business layer.
type patientRepository interface {
	Create(ctx context.Context, p *domain.Patient) error
	Get(ctx context.Context, id string) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
	UpdatePartial(ctx context.Context, u domain.PartialPatientUpdate) (bool, error)
	ReplaceDocuments(ctx context.Context, p *domain.Patient) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Service coordinates patient business logic and orchestrates repository calls.
type Service struct {
	repo             patientRepository
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a patient Service.
func NewService(r patientRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             r,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateCreate(p *domain.Patient) error {
	if p == nil {
		return apperr.ErrInvalid
	}
	verrs := apperr.ValidationErrors{}
	if strings.TrimSpace(p.HospitalID) == "" {
		verrs["hospital_id"] = "hospital id is required"
	}
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" {
		verrs["name"] = "a first or last name is required"
	}
	if p.Phone != "" && !domain.ValidatePhone(p.Phone) {
		verrs["phone"] = "phone must be in international format"
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = domain.PaymentUnpaid
	}
	if !p.PaymentStatus.Valid() {
		verrs["payment_status"] = "unknown payment status"
	}
	return verrs.OrNil()
}

func validatePrescription(p domain.Prescription) error {
	verrs := apperr.ValidationErrors{}
	if strings.TrimSpace(p.MedicationName) == "" {
		verrs["medication_name"] = "medication name is required"
	}
	if strings.TrimSpace(p.Dosage) == "" {
		verrs["dosage"] = "dosage is required"
	}
	if p.RefillsRemaining < 0 {
		verrs["refills_remaining"] = "refills remaining cannot be negative"
	}
	if p.Status != "" && !p.Status.Valid() {
		verrs["status"] = "unknown prescription status"
	}
	if !p.EndDate.IsZero() && !p.StartDate.IsZero() && !p.EndDate.After(p.StartDate) {
		verrs["end_date"] = "end date must be after the start date"
	}
	return verrs.OrNil()
}

// Create persists a new patient and returns its generated ID.
func (s *Service) Create(ctx context.Context, p *domain.Patient) (string, error) {
	if err := validateCreate(p); err != nil {
		return "", err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.Create(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// Get retrieves a patient by their ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Patient, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

// List returns all patients.
func (s *Service) List(ctx context.Context) ([]domain.Patient, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx)
}

// UpdatePartial applies a partial update to a patient.
func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialPatientUpdate) error {
	if strings.TrimSpace(u.ID) == "" {
		return apperr.ErrInvalid
	}
	if u.FirstName == nil && u.LastName == nil && u.Phone == nil && u.Location == nil && u.PaymentStatus == nil {
		return apperr.ErrInvalid
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return apperr.ErrInvalid
	}
	if u.PaymentStatus != nil && !u.PaymentStatus.Valid() {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// AddPrescription appends a prescription to the patient's record. New
// prescriptions default to active.
func (s *Service) AddPrescription(ctx context.Context, patientID string, p domain.Prescription) (*domain.Patient, error) {
	if p.Status == "" {
		p.Status = domain.PrescriptionActive
	}
	if err := validatePrescription(p); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperr.ErrNotFound
	}

	patient.Prescriptions = append(patient.Prescriptions, p)
	patient.MedicationHistory = append(patient.MedicationHistory, domain.MedicationEvent{
		Date:        s.now(),
		Description: "Prescription added: " + p.MedicationName,
	})
	ok, err := s.repo.ReplaceDocuments(ctx, patient)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return patient, nil
}

// RecordEvent appends an entry to the patient's medication history.
func (s *Service) RecordEvent(ctx context.Context, patientID, description string) error {
	if strings.TrimSpace(description) == "" {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return apperr.ErrNotFound
	}

	patient.MedicationHistory = append(patient.MedicationHistory, domain.MedicationEvent{
		Date:        s.now(),
		Description: strings.TrimSpace(description),
	})
	ok, err := s.repo.ReplaceDocuments(ctx, patient)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a patient.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}
