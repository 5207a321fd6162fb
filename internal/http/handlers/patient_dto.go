package handlers

import (
	"time"

	"medtrack/internal/domain"
)

type prescriptionDTO struct {
	MedicationName   string                    `json:"medication_name"`
	Dosage           string                    `json:"dosage"`
	Frequency        string                    `json:"frequency"`
	StartDate        time.Time                 `json:"start_date"`
	EndDate          time.Time                 `json:"end_date"`
	RefillsRemaining int                       `json:"refills_remaining"`
	Status           domain.PrescriptionStatus `json:"status"`
}

type medicationEventDTO struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type patientDTO struct {
	ID                string               `json:"id"`
	HospitalID        string               `json:"hospital_id"`
	FirstName         string               `json:"first_name"`
	LastName          string               `json:"last_name"`
	Phone             string               `json:"phone"`
	Location          string               `json:"location"`
	PaymentStatus     domain.PaymentStatus `json:"payment_status"`
	Prescriptions     []prescriptionDTO    `json:"prescriptions"`
	MedicationHistory []medicationEventDTO `json:"medication_history"`
}

type createPatientRequest struct {
	HospitalID    string               `json:"hospital_id"`
	FirstName     string               `json:"first_name"`
	LastName      string               `json:"last_name"`
	Phone         string               `json:"phone"`
	Location      string               `json:"location"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

type updatePatientRequest struct {
	ID            string                `json:"id"`
	FirstName     *string               `json:"first_name,omitempty"`
	LastName      *string               `json:"last_name,omitempty"`
	Phone         *string               `json:"phone,omitempty"`
	Location      *string               `json:"location,omitempty"`
	PaymentStatus *domain.PaymentStatus `json:"payment_status,omitempty"`
}

type recordEventRequest struct {
	Description string `json:"description"`
}

func (r createPatientRequest) toModel() *domain.Patient {
	return &domain.Patient{
		HospitalID:    r.HospitalID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Phone:         r.Phone,
		Location:      r.Location,
		PaymentStatus: r.PaymentStatus,
	}
}

func (r updatePatientRequest) toModel() domain.PartialPatientUpdate {
	return domain.PartialPatientUpdate{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Phone:         r.Phone,
		Location:      r.Location,
		PaymentStatus: r.PaymentStatus,
	}
}

func (p prescriptionDTO) toModel() domain.Prescription {
	return domain.Prescription{
		MedicationName:   p.MedicationName,
		Dosage:           p.Dosage,
		Frequency:        p.Frequency,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		RefillsRemaining: p.RefillsRemaining,
		Status:           p.Status,
	}
}

func prescriptionToResponse(p domain.Prescription) prescriptionDTO {
	return prescriptionDTO{
		MedicationName:   p.MedicationName,
		Dosage:           p.Dosage,
		Frequency:        p.Frequency,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		RefillsRemaining: p.RefillsRemaining,
		Status:           p.Status,
	}
}

func patientToResponse(p domain.Patient) patientDTO {
	dto := patientDTO{
		ID:            p.ID,
		HospitalID:    p.HospitalID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Location:      p.Location,
		PaymentStatus: p.PaymentStatus,
	}
	dto.Prescriptions = make([]prescriptionDTO, 0, len(p.Prescriptions))
	for _, pr := range p.Prescriptions {
		dto.Prescriptions = append(dto.Prescriptions, prescriptionToResponse(pr))
	}
	dto.MedicationHistory = make([]medicationEventDTO, 0, len(p.MedicationHistory))
	for _, ev := range p.MedicationHistory {
		dto.MedicationHistory = append(dto.MedicationHistory, medicationEventDTO{
			Date:        ev.Date,
			Description: ev.Description,
		})
	}
	return dto
}

func patientsToResponse(list []domain.Patient) []patientDTO {
	out := make([]patientDTO, 0, len(list))
	for _, p := range list {
		out = append(out, patientToResponse(p))
	}
	return out
}
