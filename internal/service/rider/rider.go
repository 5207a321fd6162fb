package rider

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/stats"
)

// Service coordinates rider business logic and orchestrates repository calls.
type Service struct {
	repo             riderRepository
	deliveries       deliveryLister
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a rider Service.
func NewService(r riderRepository, deliveries deliveryLister, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             r,
		deliveries:       deliveries,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// validateCreate validates a rider for creation.
func validateCreate(r *domain.Rider) error {
	if r == nil {
		return apperr.ErrInvalid
	}
	verrs := apperr.ValidationErrors{}
	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" {
		verrs["name"] = "a first or last name is required"
	}
	if !domain.ValidatePhone(r.Phone) {
		verrs["phone"] = "phone must be in international format"
	}
	if r.Status == "" {
		r.Status = domain.RiderAvailable
	}
	if !r.Status.Valid() {
		verrs["status"] = "unknown rider status"
	}
	if r.VehicleType == "" {
		r.VehicleType = domain.VehicleMotorcycle
	}
	if !r.VehicleType.Valid() {
		verrs["vehicle_type"] = "unknown vehicle type"
	}
	return verrs.OrNil()
}

func validateUpdate(u *domain.PartialRiderUpdate) error {
	if strings.TrimSpace(u.ID) == "" {
		return apperr.ErrInvalid
	}
	if u.FirstName == nil && u.LastName == nil && u.Phone == nil && u.Status == nil && u.VehicleType == nil {
		return apperr.ErrInvalid
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return apperr.ErrInvalid
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.ErrInvalid
	}
	if u.VehicleType != nil && !u.VehicleType.Valid() {
		return apperr.ErrInvalid
	}
	return nil
}

// Create persists a new rider and returns its generated ID. New riders
// start available with zeroed rating and delivery stats.
func (s *Service) Create(ctx context.Context, r *domain.Rider) (string, error) {
	if err := validateCreate(r); err != nil {
		return "", err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	r.ID = uuid.NewString()
	r.Rating = 0
	r.TotalRatings = 0
	r.TotalDeliveries = 0
	r.SuccessRate = 0
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := s.repo.Create(ctx, r); err != nil {
		return "", err
	}
	return r.ID, nil
}

// Get retrieves a rider by their ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Rider, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.ErrNotFound
	}
	return r, nil
}

// List returns all riders.
func (s *Service) List(ctx context.Context) ([]domain.Rider, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx)
}

// UpdatePartial applies a partial update to a rider.
func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialRiderUpdate) error {
	if err := validateUpdate(&u); err != nil {
		return err
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

// Rate folds one rating event between 1 and 5 into the rider's running
// average.
func (s *Service) Rate(ctx context.Context, id string, value float64) (*domain.Rider, error) {
	if value < 1 || value > 5 {
		return nil, apperr.ValidationErrors{"rating": "rating must be between 1 and 5"}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.ErrNotFound
	}

	rating, total := domain.RateOnce(r.Rating, r.TotalRatings, value)
	ok, err := s.repo.UpdateRating(ctx, id, rating, total, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	r.Rating = rating
	r.TotalRatings = total
	return r, nil
}

// Occupancy summarizes the rider's current delivery load.
func (s *Service) Occupancy(ctx context.Context, id string) (domain.RiderOccupancy, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.RiderOccupancy{}, err
	}
	if r == nil {
		return domain.RiderOccupancy{}, apperr.ErrNotFound
	}

	ds, err := s.deliveries.FindByRider(ctx, id)
	if err != nil {
		return domain.RiderOccupancy{}, err
	}
	return stats.RiderOccupancy(ds, id), nil
}

// Delete removes a rider.
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
