// Package deliverytx defines the transactional repository surface used by
// the delivery lifecycle and package assignment workflows. Every method
// runs inside one transaction opened by WithTx on the delivery repository.
package deliverytx

import (
	"context"
	"time"

	"medtrack/internal/domain"
)

// Repository is the per-transaction view of the delivery store. Row updates
// are compare-and-swap guarded on the record's updated_at so two concurrent
// assignments or transitions cannot both apply.
type Repository interface {
	// GetForUpdate loads a delivery by id and locks its row.
	GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error)
	// GetByCodeForUpdate loads a delivery by package code or id and locks
	// its row.
	GetByCodeForUpdate(ctx context.Context, code string) (*domain.Delivery, error)
	// AssignPackage binds an unassigned package to a patient. It fails with
	// no rows affected when the record moved since it was read.
	AssignPackage(ctx context.Context, a domain.PackageAssignment) error
	// UpdateStatus applies one status transition, refreshing updated_at and
	// the tracking mirror.
	UpdateStatus(ctx context.Context, id string, from, to domain.DeliveryStatus, expectedUpdatedAt, now time.Time) error
	// UpdatePayment flips the payment sub-state.
	UpdatePayment(ctx context.Context, id string, to domain.PaymentStatus, expectedUpdatedAt, now time.Time) error
	// RiderDeliveries lists the rider's deliveries for stat recomputation.
	RiderDeliveries(ctx context.Context, riderID string) ([]domain.Delivery, error)
	// UpdateRiderStats persists recomputed delivery totals and success rate.
	UpdateRiderStats(ctx context.Context, riderID string, totalDeliveries int, successRate float64, now time.Time) error
	// SetRiderStatus moves a rider between available and on_delivery.
	SetRiderStatus(ctx context.Context, riderID string, status domain.RiderStatus, now time.Time) error
}
