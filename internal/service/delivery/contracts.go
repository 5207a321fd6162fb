package delivery

import (
	"context"
	"time"

	"medtrack/internal/domain"
	"medtrack/internal/ports/deliverytx"
)

// deliveryRepository defines storage operations required by the lifecycle layer.
type deliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	GetByCode(ctx context.Context, code string) (*domain.Delivery, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Delivery, error)
	FindByPatient(ctx context.Context, patientID string) ([]domain.Delivery, error)
	FindByRider(ctx context.Context, riderID string) ([]domain.Delivery, error)
	UpdatePartial(ctx context.Context, u domain.PartialDeliveryUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
}

// codeGenerator produces a unique package code and its scannable encoding.
type codeGenerator interface {
	Generate(ctx context.Context) (code string, encoded []byte, err error)
}

// patientReader answers patient lookups for direct delivery creation.
type patientReader interface {
	Get(ctx context.Context, id string) (*domain.Patient, error)
}

// riderReader answers rider lookups for rider pre-selection.
type riderReader interface {
	Get(ctx context.Context, id string) (*domain.Rider, error)
}
