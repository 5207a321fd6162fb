//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=assignment

package assignment

import (
	"context"

	"medtrack/internal/domain"
	"medtrack/internal/ports/deliverytx"
)

// deliveryRepository defines the delivery storage operations used by the
// assignment workflow.
type deliveryRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Delivery, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Delivery, error)
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
}

// patientReader answers patient lookups.
type patientReader interface {
	Get(ctx context.Context, id string) (*domain.Patient, error)
}

// riderDirectory answers rider lookups for the pool selector.
type riderDirectory interface {
	Get(ctx context.Context, id string) (*domain.Rider, error)
	List(ctx context.Context) ([]domain.Rider, error)
}
