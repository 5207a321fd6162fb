package delivery

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/logx"
	"medtrack/internal/ports/deliverytx"
	"medtrack/internal/stats"
)

// Service drives the delivery lifecycle: package and delivery creation,
// status transitions, payment, and the timeout sweep.
type Service struct {
	repo             deliveryRepository
	patients         patientReader
	riders           riderReader
	codes            codeGenerator
	operationTimeout time.Duration
	logger           logx.Logger
	transitions      *prometheus.CounterVec
	now              func() time.Time
}

// NewService creates and configures a delivery lifecycle Service.
func NewService(
	repo deliveryRepository,
	patients patientReader,
	riders riderReader,
	codes codeGenerator,
	timeout time.Duration,
	logger logx.Logger,
	transitions *prometheus.CounterVec,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		patients:         patients,
		riders:           riders,
		codes:            codes,
		operationTimeout: timeout,
		logger:           logger,
		transitions:      transitions,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// CreatePackageInput describes a new unassigned package. The rider is
// optional; setting one pre-selects a rider without assigning the package.
type CreatePackageInput struct {
	RiderID string
	Items   []string
	Notes   string
}

// CreatePackage generates a package code and stores a new unassigned,
// unpaid delivery carrying it.
func (s *Service) CreatePackage(ctx context.Context, in CreatePackageInput) (*domain.Delivery, error) {
	verrs := apperr.ValidationErrors{}
	if !domain.ValidItems(in.Items) {
		verrs["items"] = "at least one item is required"
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if in.RiderID != "" {
		r, err := s.riders.Get(ctx, in.RiderID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, apperr.ErrNotFound
		}
	}

	code, encoded, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &domain.Delivery{
		ID:            uuid.NewString(),
		PackageCode:   code,
		EncodedCode:   encoded,
		RiderID:       in.RiderID,
		Items:         domain.TrimItems(in.Items),
		Status:        domain.StatusUnassigned,
		PaymentStatus: domain.PaymentUnpaid,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("package created",
		logx.String("event", "package_created"),
		logx.String("delivery_id", d.ID),
		logx.String("package_code", d.PackageCode),
	)
	return d, nil
}

// CreateDeliveryInput describes a delivery created directly for a patient,
// bypassing the package assignment workflow.
type CreateDeliveryInput struct {
	PatientID        string
	RiderID          string
	Items            []string
	Location         string
	Date             time.Time
	Notes            string
	EstimatedArrival time.Time
	ResponseTimeout  *time.Time
}

// CreateDelivery stores a fully formed pending delivery for a patient.
func (s *Service) CreateDelivery(ctx context.Context, in CreateDeliveryInput) (*domain.Delivery, error) {
	verrs := apperr.ValidationErrors{}
	if strings.TrimSpace(in.PatientID) == "" {
		verrs["patient_id"] = "patient is required"
	}
	if strings.TrimSpace(in.RiderID) == "" {
		verrs["rider_id"] = "rider is required"
	}
	if !domain.ValidItems(in.Items) {
		verrs["items"] = "at least one item is required"
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.patients.Get(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	r, err := s.riders.Get(ctx, in.RiderID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.ErrNotFound
	}

	code, encoded, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = p.Location
	}
	patientID := p.ID
	d := &domain.Delivery{
		ID:            uuid.NewString(),
		PackageCode:   code,
		EncodedCode:   encoded,
		PatientID:     &patientID,
		PatientName:   p.Name(),
		RiderID:       r.ID,
		Items:         domain.TrimItems(in.Items),
		Location:      location,
		Date:          in.Date,
		Status:        domain.StatusPending,
		PaymentStatus: p.PaymentStatus,
		Notes:         strings.TrimSpace(in.Notes),
		Tracking: domain.Tracking{
			EstimatedArrival: in.EstimatedArrival,
			Status:           string(domain.StatusPending),
			Location:         location,
			LastUpdated:      now,
			ResponseTimeout:  in.ResponseTimeout,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("delivery created",
		logx.String("event", "delivery_created"),
		logx.String("delivery_id", d.ID),
		logx.String("patient_id", p.ID),
		logx.String("rider_id", r.ID),
	)
	return d, nil
}

// Get retrieves a delivery by its ID with the effective status derived at
// read time.
func (s *Service) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	s.derive(d)
	return d, nil
}

// GetByCode retrieves a delivery by package code or record id.
func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Delivery, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &apperr.PackageNotFoundError{Code: code}
	}
	s.derive(d)
	return d, nil
}

// List returns deliveries with optional pagination.
func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ds, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.deriveAll(ds)
	return ds, nil
}

// ByPatient returns the patient's deliveries.
func (s *Service) ByPatient(ctx context.Context, patientID string) ([]domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ds, err := s.repo.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	s.deriveAll(ds)
	return ds, nil
}

// ByRider returns the rider's deliveries.
func (s *Service) ByRider(ctx context.Context, riderID string) ([]domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ds, err := s.repo.FindByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}
	s.deriveAll(ds)
	return ds, nil
}

// Start moves a pending delivery to in_progress and puts its rider on
// delivery. Only the assigned rider or an admin may start.
func (s *Service) Start(ctx context.Context, actor domain.Actor, id string) error {
	return s.transition(ctx, actor, id, domain.StatusInProgress)
}

// Delivered completes an in_progress delivery, recomputes the rider's
// stats, and releases the rider.
func (s *Service) Delivered(ctx context.Context, actor domain.Actor, id string) error {
	return s.transition(ctx, actor, id, domain.StatusDelivered)
}

// Fail marks a pending or in_progress delivery as failed and releases the
// rider. Admin only.
func (s *Service) Fail(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return apperr.ErrUnauthorized
	}
	return s.transition(ctx, actor, id, domain.StatusFailed)
}

func (s *Service) transition(ctx context.Context, actor domain.Actor, id string, to domain.DeliveryStatus) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var from domain.DeliveryStatus
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}
		if to != domain.StatusFailed && !actor.MayDrive(d) {
			return apperr.ErrUnauthorized
		}

		now := s.now()
		// an elapsed response timeout reads as failed even before the
		// sweep persisted it
		from = domain.CheckDeliveryStatus(d, now)
		if !from.CanTransitionTo(to) {
			return &apperr.InvalidTransitionError{From: string(from), To: string(to)}
		}
		if err := tx.UpdateStatus(ctx, d.ID, d.Status, to, d.UpdatedAt, now); err != nil {
			return err
		}

		if d.RiderID == "" {
			return nil
		}
		switch to {
		case domain.StatusInProgress:
			return tx.SetRiderStatus(ctx, d.RiderID, domain.RiderOnDelivery, now)
		case domain.StatusDelivered, domain.StatusFailed:
			if err := s.refreshRiderStats(ctx, tx, d.RiderID, now); err != nil {
				return err
			}
			return tx.SetRiderStatus(ctx, d.RiderID, domain.RiderAvailable, now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.transitions != nil {
		s.transitions.WithLabelValues(string(from), string(to)).Inc()
	}
	s.logger.Info("delivery status changed",
		logx.String("event", "delivery_status_changed"),
		logx.String("delivery_id", id),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
	)
	return nil
}

// refreshRiderStats recomputes delivery totals and success rate from the
// rider's deliveries as seen inside the transaction.
func (s *Service) refreshRiderStats(ctx context.Context, tx deliverytx.Repository, riderID string, now time.Time) error {
	ds, err := tx.RiderDeliveries(ctx, riderID)
	if err != nil {
		return err
	}
	rate := stats.RiderSuccessRate(ds, riderID)
	return tx.UpdateRiderStats(ctx, riderID, len(ds), rate, now)
}

// SetPayment updates the payment sub-state. The assigned rider may confirm
// payment on their own delivered delivery; an admin may set either state at
// any point.
func (s *Service) SetPayment(ctx context.Context, actor domain.Actor, id string, to domain.PaymentStatus) error {
	if !to.Valid() {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}

		now := s.now()
		if !actor.IsAdmin() {
			if !actor.MayDrive(d) {
				return apperr.ErrUnauthorized
			}
			if to != domain.PaymentPaid || domain.CheckDeliveryStatus(d, now) != domain.StatusDelivered {
				return apperr.ErrUnauthorized
			}
		}
		if d.PaymentStatus == to {
			return nil
		}
		return tx.UpdatePayment(ctx, d.ID, to, d.UpdatedAt, now)
	})
}

// UpdatePartial applies a partial update to a delivery.
func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialDeliveryUpdate) error {
	if strings.TrimSpace(u.ID) == "" {
		return apperr.ErrInvalid
	}
	if u.RiderID == nil && u.Items == nil && u.Location == nil && u.Date == nil && u.Notes == nil {
		return apperr.ErrInvalid
	}
	if u.Items != nil && !domain.ValidItems(u.Items) {
		return apperr.ValidationErrors{"items": "at least one item is required"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if u.RiderID != nil && *u.RiderID != "" {
		r, err := s.riders.Get(ctx, *u.RiderID)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.ErrNotFound
		}
	}
	if u.Items != nil {
		u.Items = domain.TrimItems(u.Items)
	}

	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a delivery. Admin only.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return apperr.ErrUnauthorized
	}
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

// ExpirePending persists the failed state for pending deliveries whose
// response timeout elapsed. Returns the number of records affected.
func (s *Service) ExpirePending(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	n, err := s.repo.ExpirePending(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if s.transitions != nil {
			s.transitions.WithLabelValues(string(domain.StatusPending), string(domain.StatusFailed)).Add(float64(n))
		}
		s.logger.Info("pending deliveries expired",
			logx.String("event", "deliveries_expired"),
			logx.Int64("count", n),
		)
	}
	return n, nil
}

// topRidersLimit and recentLimit bound the dashboard leaderboard and feed.
const (
	topRidersLimit = 5
	recentLimit    = 10
)

// Overview aggregates dashboard statistics over all deliveries.
type Overview struct {
	Counts        stats.Counts
	SuccessRate   float64
	TopRiders     []stats.RiderStanding
	Recent        []domain.Delivery
	MonthlyGrowth [12]int
}

// Overview computes the dashboard aggregates from the full delivery list.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ds, err := s.repo.List(ctx, nil, nil)
	if err != nil {
		return Overview{}, err
	}
	s.deriveAll(ds)
	return Overview{
		Counts:        stats.StatusCounts(ds),
		SuccessRate:   stats.SuccessRate(ds),
		TopRiders:     stats.TopRiders(ds, topRidersLimit),
		Recent:        stats.RecentDeliveries(ds, recentLimit),
		MonthlyGrowth: stats.MonthlyGrowth(ds, s.now()),
	}, nil
}

func (s *Service) derive(d *domain.Delivery) {
	d.Status = domain.CheckDeliveryStatus(d, s.now())
}

func (s *Service) deriveAll(ds []domain.Delivery) {
	now := s.now()
	for i := range ds {
		ds[i].Status = domain.CheckDeliveryStatus(&ds[i], now)
	}
}
