package domain

import (
	"regexp"
	"time"
)

type (
	// RiderStatus represents the availability status of a dispatch rider.
	RiderStatus string
	// VehicleType represents the vehicle a rider delivers with.
	VehicleType string
)

// List of possible rider statuses
const (
	RiderAvailable  RiderStatus = "available"
	RiderOnDelivery RiderStatus = "on_delivery"
	RiderOffline    RiderStatus = "offline"
)

// List of possible vehicle types
const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleBicycle    VehicleType = "bicycle"
	VehicleCar        VehicleType = "car"
)

var allowedRiderStatuses = [...]RiderStatus{
	RiderAvailable, RiderOnDelivery, RiderOffline,
}

var allowedVehicleTypes = [...]VehicleType{
	VehicleMotorcycle, VehicleBicycle, VehicleCar,
}

// Valid checks if the RiderStatus is valid
func (s RiderStatus) Valid() bool {
	for _, v := range allowedRiderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the VehicleType is valid
func (t VehicleType) Valid() bool {
	for _, v := range allowedVehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Rider represents a dispatch rider. Rating and SuccessRate are derived
// from rating events and delivery outcomes; stored values are refreshed by
// an explicit recompute step, never treated as an independent source of
// truth.
type Rider struct {
	ID              string
	FirstName       string
	LastName        string
	Phone           string
	Status          RiderStatus
	VehicleType     VehicleType
	Rating          float64
	TotalRatings    int
	TotalDeliveries int
	SuccessRate     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Name returns the rider's display name.
func (r Rider) Name() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// RateOnce folds one rating event into the running average and returns the
// updated pair (average, total count).
func RateOnce(rating float64, totalRatings int, value float64) (float64, int) {
	next := (rating*float64(totalRatings) + value) / float64(totalRatings+1)
	return next, totalRatings + 1
}

// PartialRiderUpdate carries optional fields to update a rider.
// A nil field means “do not change” that attribute.
type PartialRiderUpdate struct {
	ID          string
	FirstName   *string
	LastName    *string
	Phone       *string
	Status      *RiderStatus
	VehicleType *VehicleType
}

// RiderOccupancy summarizes a rider's current delivery load. Pending counts
// every non-delivered delivery; a rider with Pending > 0 classifies as
// assigned.
type RiderOccupancy struct {
	Total     int
	Pending   int
	Completed int
}

// Assigned reports whether the rider currently carries pending deliveries.
func (o RiderOccupancy) Assigned() bool { return o.Pending > 0 }

// AvailableRiders filters riders to those eligible for assignment.
func AvailableRiders(riders []Rider) []Rider {
	out := make([]Rider, 0, len(riders))
	for _, r := range riders {
		if r.Status == RiderAvailable {
			out = append(out, r)
		}
	}
	return out
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+[0-9]{7,14}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
