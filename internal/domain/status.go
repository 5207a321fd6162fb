package domain

import "time"

type (
	// DeliveryStatus represents the lifecycle status of a delivery.
	DeliveryStatus string
	// PaymentStatus represents the payment sub-state of a delivery,
	// independent of the lifecycle status.
	PaymentStatus string
)

// List of possible delivery statuses
const (
	StatusUnassigned DeliveryStatus = "unassigned"
	StatusPending    DeliveryStatus = "pending"
	StatusInProgress DeliveryStatus = "in_progress"
	StatusDelivered  DeliveryStatus = "delivered"
	StatusFailed     DeliveryStatus = "failed"
)

// List of possible payment statuses
const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

var allowedStatuses = [...]DeliveryStatus{
	StatusUnassigned, StatusPending, StatusInProgress, StatusDelivered, StatusFailed,
}

// allowedTransitions is the full status transition table. Pairs absent here
// are rejected; delivered and failed are terminal.
var allowedTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusUnassigned: {StatusPending},
	StatusPending:    {StatusInProgress, StatusFailed},
	StatusInProgress: {StatusDelivered, StatusFailed},
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status transitions are permitted.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// CanTransitionTo reports whether s -> to is in the allowed table.
func (s DeliveryStatus) CanTransitionTo(to DeliveryStatus) bool {
	for _, v := range allowedTransitions[s] {
		if v == to {
			return true
		}
	}
	return false
}

// Valid checks if the PaymentStatus is valid
func (p PaymentStatus) Valid() bool {
	return p == PaymentUnpaid || p == PaymentPaid
}

// CheckDeliveryStatus derives the effective status of a delivery at read
// time: a pending delivery whose tracking response timeout has elapsed
// reads as failed. The derivation is pure; persisting it is left to the
// expiry sweep.
func CheckDeliveryStatus(d *Delivery, now time.Time) DeliveryStatus {
	if d == nil {
		return ""
	}
	if d.Status == StatusPending && d.Tracking.ResponseTimeout != nil && now.After(*d.Tracking.ResponseTimeout) {
		return StatusFailed
	}
	return d.Status
}
