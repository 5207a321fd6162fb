package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/ports/deliverytx"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

const deliveryColumns = `
    id, package_code, encoded_code, patient_id, patient_name, rider_id,
    items, location, delivery_date, status, payment_status, notes,
    cycle_length, cycle_start, cycle_end,
    tracking_status, tracking_location, tracking_estimated_arrival,
    tracking_last_updated, tracking_response_timeout,
    created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (*domain.Delivery, error) {
	var (
		d            domain.Delivery
		riderID      *string
		estArrival   *time.Time
		lastUpdated  *time.Time
		deliveryDate *time.Time
		cycleStart   *time.Time
		cycleEnd     *time.Time
	)
	err := row.Scan(
		&d.ID, &d.PackageCode, &d.EncodedCode, &d.PatientID, &d.PatientName, &riderID,
		&d.Items, &d.Location, &deliveryDate, &d.Status, &d.PaymentStatus, &d.Notes,
		&d.Cycle.Length, &cycleStart, &cycleEnd,
		&d.Tracking.Status, &d.Tracking.Location, &estArrival,
		&lastUpdated, &d.Tracking.ResponseTimeout,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if riderID != nil {
		d.RiderID = *riderID
	}
	if deliveryDate != nil {
		d.Date = *deliveryDate
	}
	if cycleStart != nil {
		d.Cycle.StartDate = *cycleStart
	}
	if cycleEnd != nil {
		d.Cycle.EndDate = *cycleEnd
	}
	if estArrival != nil {
		d.Tracking.EstimatedArrival = *estArrival
	}
	if lastUpdated != nil {
		d.Tracking.LastUpdated = *lastUpdated
	}
	return &d, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Create persists a new delivery. A package code collision is reported as
// DuplicatePackageCodeError.
func (r *DeliveryRepo) Create(ctx context.Context, d *domain.Delivery) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO deliveries (
            id, package_code, encoded_code, patient_id, patient_name, rider_id,
            items, location, delivery_date, status, payment_status, notes,
            cycle_length, cycle_start, cycle_end,
            tracking_status, tracking_location, tracking_estimated_arrival,
            tracking_last_updated, tracking_response_timeout,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
    `,
		d.ID, d.PackageCode, d.EncodedCode, d.PatientID, d.PatientName, nullStr(d.RiderID),
		d.Items, d.Location, nullTime(d.Date), d.Status, d.PaymentStatus, d.Notes,
		d.Cycle.Length, nullTime(d.Cycle.StartDate), nullTime(d.Cycle.EndDate),
		d.Tracking.Status, d.Tracking.Location, nullTime(d.Tracking.EstimatedArrival),
		nullTime(d.Tracking.LastUpdated), d.Tracking.ResponseTimeout,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if IsDuplicate(err) {
			return &apperr.DuplicatePackageCodeError{Code: d.PackageCode}
		}
		return fmt.Errorf("create delivery %s: %w", d.ID, err)
	}
	return nil
}

// Get - returns a delivery by its ID.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %s: %w", id, err)
	}
	return d, nil
}

// GetByCode returns a delivery matching a package code or record id.
func (r *DeliveryRepo) GetByCode(ctx context.Context, code string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE package_code=$1 OR id=$1`, code))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by code %q: %w", code, err)
	}
	return d, nil
}

// CodeExists reports whether a package code is already taken.
func (r *DeliveryRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM deliveries WHERE package_code=$1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check package code %q: %w", code, err)
	}
	return exists, nil
}

// List returns deliveries newest first. If limit/offset are nil, returns the full list.
func (r *DeliveryRepo) List(ctx context.Context, limit, offset *int) ([]domain.Delivery, error) {
	q := `SELECT ` + deliveryColumns + ` FROM deliveries ORDER BY created_at DESC`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}
	return r.queryMany(ctx, q, args...)
}

// FindByPatient returns the patient's deliveries, newest first.
func (r *DeliveryRepo) FindByPatient(ctx context.Context, patientID string) ([]domain.Delivery, error) {
	return r.queryMany(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE patient_id=$1 ORDER BY created_at DESC`,
		patientID)
}

// FindByRider returns the rider's deliveries, newest first.
func (r *DeliveryRepo) FindByRider(ctx context.Context, riderID string) ([]domain.Delivery, error) {
	return r.queryMany(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE rider_id=$1 ORDER BY created_at DESC`,
		riderID)
}

func (r *DeliveryRepo) queryMany(ctx context.Context, q string, args ...any) ([]domain.Delivery, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdatePartial applies a partial update to a delivery and returns true if a row was affected.
func (r *DeliveryRepo) UpdatePartial(ctx context.Context, u domain.PartialDeliveryUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries
        SET
            rider_id      = COALESCE($2, rider_id),
            items         = COALESCE($3, items),
            location      = COALESCE($4, location),
            delivery_date = COALESCE($5, delivery_date),
            notes         = COALESCE($6, notes),
            updated_at    = now()
        WHERE id = $1
    `, u.ID, u.RiderID, u.Items, u.Location, u.Date, u.Notes)
	if err != nil {
		return false, fmt.Errorf("update delivery %s: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes a delivery and returns true if a row was affected.
func (r *DeliveryRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM deliveries WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete delivery %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ExpirePending persists the lazy timeout derivation: pending deliveries
// whose response timeout elapsed become failed.
func (r *DeliveryRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries
        SET status = $1,
            tracking_status = $1,
            tracking_last_updated = $2,
            updated_at = $2
        WHERE status = $3
          AND tracking_response_timeout IS NOT NULL
          AND tracking_response_timeout < $2
    `, string(domain.StatusFailed), now, string(domain.StatusPending))
	if err != nil {
		return 0, fmt.Errorf("expire pending deliveries: %w", err)
	}
	return ct.RowsAffected(), nil
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

var _ deliverytx.Repository = (*TxRepo)(nil)

// GetForUpdate loads a delivery by id and locks its row.
func (r *TxRepo) GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.tx.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %s for update: %w", id, err)
	}
	return d, nil
}

// GetByCodeForUpdate loads a delivery by package code or id and locks its row.
func (r *TxRepo) GetByCodeForUpdate(ctx context.Context, code string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.tx.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE package_code=$1 OR id=$1 FOR UPDATE`, code))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by code %q for update: %w", code, err)
	}
	return d, nil
}

// AssignPackage binds an unassigned package to a patient. The guard on
// patient_id, status and updated_at makes the write a compare-and-swap:
// zero rows affected means the record moved underneath us.
func (r *TxRepo) AssignPackage(ctx context.Context, a domain.PackageAssignment) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET patient_id = $2,
            patient_name = $3,
            rider_id = $4,
            status = $5,
            location = $6,
            cycle_length = $7,
            cycle_start = $8,
            cycle_end = $9,
            tracking_status = $5,
            tracking_location = $6,
            tracking_estimated_arrival = $10,
            tracking_response_timeout = $11,
            tracking_last_updated = $12,
            notes = COALESCE(NULLIF($15, ''), notes),
            updated_at = $12
        WHERE id = $1
          AND patient_id IS NULL
          AND status = $13
          AND updated_at = $14
    `, a.DeliveryID, a.PatientID, a.PatientName, nullStr(a.RiderID),
		string(domain.StatusPending), a.Tracking.Location,
		a.Cycle.Length, nullTime(a.Cycle.StartDate), nullTime(a.Cycle.EndDate),
		nullTime(a.Tracking.EstimatedArrival), a.Tracking.ResponseTimeout, a.Now,
		string(domain.StatusUnassigned), a.ExpectedUpdatedAt, a.Notes)
	if err != nil {
		return fmt.Errorf("assign package %s: %w", a.DeliveryID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrConflict
	}
	return nil
}

// UpdateStatus applies one status transition with a CAS guard on the
// previous status and updated_at, mirroring the new value into tracking.
func (r *TxRepo) UpdateStatus(ctx context.Context, id string, from, to domain.DeliveryStatus, expectedUpdatedAt, now time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET status = $2,
            tracking_status = $2,
            tracking_last_updated = $3,
            updated_at = $3
        WHERE id = $1
          AND status = $4
          AND updated_at = $5
    `, id, string(to), now, string(from), expectedUpdatedAt)
	if err != nil {
		return fmt.Errorf("update delivery status %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrConflict
	}
	return nil
}

// UpdatePayment flips the payment sub-state with the same CAS guard.
func (r *TxRepo) UpdatePayment(ctx context.Context, id string, to domain.PaymentStatus, expectedUpdatedAt, now time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET payment_status = $2,
            updated_at = $3
        WHERE id = $1
          AND updated_at = $4
    `, id, string(to), now, expectedUpdatedAt)
	if err != nil {
		return fmt.Errorf("update delivery payment %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrConflict
	}
	return nil
}

// RiderDeliveries lists a rider's deliveries inside the transaction.
func (r *TxRepo) RiderDeliveries(ctx context.Context, riderID string) ([]domain.Delivery, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE rider_id=$1`, riderID)
	if err != nil {
		return nil, fmt.Errorf("rider deliveries %s: %w", riderID, err)
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateRiderStats persists recomputed delivery totals and success rate.
func (r *TxRepo) UpdateRiderStats(ctx context.Context, riderID string, totalDeliveries int, successRate float64, now time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE riders
        SET total_deliveries = $2,
            success_rate = $3,
            updated_at = $4
        WHERE id = $1
    `, riderID, totalDeliveries, successRate, now)
	if err != nil {
		return fmt.Errorf("update rider stats %s: %w", riderID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("rider %s not found", riderID)
	}
	return nil
}

// SetRiderStatus moves a rider between available and on_delivery.
func (r *TxRepo) SetRiderStatus(ctx context.Context, riderID string, status domain.RiderStatus, now time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE riders
        SET status = $2,
            updated_at = $3
        WHERE id = $1
    `, riderID, string(status), now)
	if err != nil {
		return fmt.Errorf("set rider status %s: %w", riderID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("rider %s not found", riderID)
	}
	return nil
}
