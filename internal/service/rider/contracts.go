package rider

import (
	"context"
	"time"

	"medtrack/internal/domain"
)

// riderRepository defines storage operations required by the business layer.
type riderRepository interface {
	Create(ctx context.Context, r *domain.Rider) error
	Get(ctx context.Context, id string) (*domain.Rider, error)
	List(ctx context.Context) ([]domain.Rider, error)
	UpdatePartial(ctx context.Context, u domain.PartialRiderUpdate) (bool, error)
	UpdateRating(ctx context.Context, id string, rating float64, totalRatings int, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// deliveryLister answers delivery lookups for occupancy views.
type deliveryLister interface {
	FindByRider(ctx context.Context, riderID string) ([]domain.Delivery, error)
}
