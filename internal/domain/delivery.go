package domain

import (
	"strings"
	"time"
)

// Tracking is the per-delivery tracking sub-record. Status mirrors the
// delivery status as a plain string and is refreshed on every transition.
type Tracking struct {
	EstimatedArrival time.Time
	Status           string
	Location         string
	LastUpdated      time.Time
	ResponseTimeout  *time.Time
}

// DrugCycle captures the medication cycle agreed during package
// assignment: how many weeks one cycle lasts and the date range it covers.
type DrugCycle struct {
	Length    int
	StartDate time.Time
	EndDate   time.Time
}

// Delivery represents a medication package on its way to a patient. A
// delivery starts either as an unassigned package (generated code, no
// patient) or fully formed with patient and rider set.
type Delivery struct {
	ID            string
	PackageCode   string
	EncodedCode   []byte
	PatientID     *string
	PatientName   string
	RiderID       string
	Items         []string
	Location      string
	Date          time.Time
	Status        DeliveryStatus
	PaymentStatus PaymentStatus
	Notes         string
	Cycle         DrugCycle
	Tracking      Tracking
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assigned reports whether the package is bound to a patient. Patient
// presence is the authoritative signal; a pre-selected rider alone does not
// make a package assigned.
func (d *Delivery) Assigned() bool {
	return d.PatientID != nil && *d.PatientID != ""
}

// ValidItems reports whether items contains at least one non-blank entry.
func ValidItems(items []string) bool {
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			return true
		}
	}
	return false
}

// TrimItems drops blank entries, preserving order.
func TrimItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PartialDeliveryUpdate carries optional fields to update a delivery.
// A nil field means “do not change” that attribute.
type PartialDeliveryUpdate struct {
	ID       string
	RiderID  *string
	Items    []string
	Location *string
	Date     *time.Time
	Notes    *string
}

// PackageAssignment is the bound update applied when an unassigned package
// is confirmed for a patient in the assignment workflow.
type PackageAssignment struct {
	DeliveryID        string
	PatientID         string
	PatientName       string
	RiderID           string
	Cycle             DrugCycle
	Tracking          Tracking
	Notes             string
	ExpectedUpdatedAt time.Time
	Now               time.Time
}
