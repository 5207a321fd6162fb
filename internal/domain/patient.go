package domain

import "time"

// PrescriptionStatus represents the status of a prescription.
type PrescriptionStatus string

// List of possible prescription statuses
const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionExpired   PrescriptionStatus = "expired"
)

// Valid checks if the PrescriptionStatus is valid
func (s PrescriptionStatus) Valid() bool {
	return s == PrescriptionActive || s == PrescriptionCompleted || s == PrescriptionExpired
}

// Prescription is a single medication order attached to a patient.
type Prescription struct {
	MedicationName   string
	Dosage           string
	Frequency        string
	StartDate        time.Time
	EndDate          time.Time
	RefillsRemaining int
	Status           PrescriptionStatus
}

// MedicationEvent is one entry of a patient's medication history.
type MedicationEvent struct {
	Date        time.Time
	Description string
}

// Patient represents a patient receiving medication deliveries.
type Patient struct {
	ID                string
	HospitalID        string
	FirstName         string
	LastName          string
	Phone             string
	Location          string
	PaymentStatus     PaymentStatus
	Prescriptions     []Prescription
	MedicationHistory []MedicationEvent
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Name returns the patient's display name.
func (p Patient) Name() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PartialPatientUpdate carries optional fields to update a patient.
// A nil field means “do not change” that attribute.
type PartialPatientUpdate struct {
	ID            string
	FirstName     *string
	LastName      *string
	Phone         *string
	Location      *string
	PaymentStatus *PaymentStatus
}
