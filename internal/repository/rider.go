package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medtrack/internal/domain"
)

// RiderRepo represents rider repository.
type RiderRepo struct {
	db *pgxpool.Pool
}

// NewRiderRepo creates a new RiderRepo.
func NewRiderRepo(db *pgxpool.Pool) *RiderRepo {
	return &RiderRepo{db: db}
}

const riderColumns = `
    id, first_name, last_name, phone, status, vehicle_type,
    rating, total_ratings, total_deliveries, success_rate,
    created_at, updated_at`

func scanRider(row rowScanner) (*domain.Rider, error) {
	var r domain.Rider
	err := row.Scan(
		&r.ID, &r.FirstName, &r.LastName, &r.Phone, &r.Status, &r.VehicleType,
		&r.Rating, &r.TotalRatings, &r.TotalDeliveries, &r.SuccessRate,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persists a new rider.
func (r *RiderRepo) Create(ctx context.Context, rd *domain.Rider) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO riders (
            id, first_name, last_name, phone, status, vehicle_type,
            rating, total_ratings, total_deliveries, success_rate,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `,
		rd.ID, rd.FirstName, rd.LastName, rd.Phone, rd.Status, rd.VehicleType,
		rd.Rating, rd.TotalRatings, rd.TotalDeliveries, rd.SuccessRate,
		rd.CreatedAt, rd.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create rider %s: %w", rd.ID, err)
	}
	return nil
}

// Get - returns a rider by their ID.
func (r *RiderRepo) Get(ctx context.Context, id string) (*domain.Rider, error) {
	rd, err := scanRider(r.db.QueryRow(ctx,
		`SELECT `+riderColumns+` FROM riders WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rider %s: %w", id, err)
	}
	return rd, nil
}

// List returns all riders ordered by name.
func (r *RiderRepo) List(ctx context.Context) ([]domain.Rider, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+riderColumns+` FROM riders ORDER BY first_name, last_name`)
	if err != nil {
		return nil, fmt.Errorf("list riders: %w", err)
	}
	defer rows.Close()

	var out []domain.Rider
	for rows.Next() {
		rd, err := scanRider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rd)
	}
	return out, rows.Err()
}

// UpdatePartial applies a partial update and returns true if a row was affected.
func (r *RiderRepo) UpdatePartial(ctx context.Context, u domain.PartialRiderUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE riders
        SET
            first_name   = COALESCE($2, first_name),
            last_name    = COALESCE($3, last_name),
            phone        = COALESCE($4, phone),
            status       = COALESCE($5, status),
            vehicle_type = COALESCE($6, vehicle_type),
            updated_at   = now()
        WHERE id = $1
    `, u.ID, u.FirstName, u.LastName, u.Phone, u.Status, u.VehicleType)
	if err != nil {
		return false, fmt.Errorf("update rider %s: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateRating stores a recomputed rating average and count.
func (r *RiderRepo) UpdateRating(ctx context.Context, id string, rating float64, totalRatings int, now time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE riders
        SET rating = $2,
            total_ratings = $3,
            updated_at = $4
        WHERE id = $1
    `, id, rating, totalRatings, now)
	if err != nil {
		return false, fmt.Errorf("update rider rating %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes a rider and returns true if a row was affected.
func (r *RiderRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM riders WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete rider %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
