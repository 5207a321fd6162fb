package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
)

// PatientRepo represents patient repository.
type PatientRepo struct {
	db *pgxpool.Pool
}

// NewPatientRepo creates a new PatientRepo.
func NewPatientRepo(db *pgxpool.Pool) *PatientRepo {
	return &PatientRepo{db: db}
}

// Prescriptions and medication history are document-shaped and read as a
// whole, so they live in JSONB columns instead of separate tables.

const patientColumns = `
    id, hospital_id, first_name, last_name, phone, location,
    payment_status, prescriptions, medication_history,
    created_at, updated_at`

func scanPatient(row rowScanner) (*domain.Patient, error) {
	var (
		p             domain.Patient
		prescriptions []byte
		history       []byte
	)
	err := row.Scan(
		&p.ID, &p.HospitalID, &p.FirstName, &p.LastName, &p.Phone, &p.Location,
		&p.PaymentStatus, &prescriptions, &history,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(prescriptions) > 0 {
		if err := json.Unmarshal(prescriptions, &p.Prescriptions); err != nil {
			return nil, fmt.Errorf("decode prescriptions for %s: %w", p.ID, err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.MedicationHistory); err != nil {
			return nil, fmt.Errorf("decode medication history for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func marshalDocs(p *domain.Patient) (prescriptions, history []byte, err error) {
	prescriptions, err = json.Marshal(p.Prescriptions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode prescriptions: %w", err)
	}
	history, err = json.Marshal(p.MedicationHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("encode medication history: %w", err)
	}
	return prescriptions, history, nil
}

// Create persists a new patient. A hospital ID collision is reported as
// a conflict.
func (r *PatientRepo) Create(ctx context.Context, p *domain.Patient) error {
	prescriptions, history, err := marshalDocs(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO patients (
            id, hospital_id, first_name, last_name, phone, location,
            payment_status, prescriptions, medication_history,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `,
		p.ID, p.HospitalID, p.FirstName, p.LastName, p.Phone, p.Location,
		p.PaymentStatus, prescriptions, history,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("hospital id %s: %w", p.HospitalID, apperr.ErrConflict)
		}
		return fmt.Errorf("create patient %s: %w", p.ID, err)
	}
	return nil
}

// Get - returns a patient by their ID.
func (r *PatientRepo) Get(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := scanPatient(r.db.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient %s: %w", id, err)
	}
	return p, nil
}

// List returns all patients ordered by name.
func (r *PatientRepo) List(ctx context.Context) ([]domain.Patient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY first_name, last_name`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdatePartial applies a partial update and returns true if a row was affected.
func (r *PatientRepo) UpdatePartial(ctx context.Context, u domain.PartialPatientUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE patients
        SET
            first_name     = COALESCE($2, first_name),
            last_name      = COALESCE($3, last_name),
            phone          = COALESCE($4, phone),
            location       = COALESCE($5, location),
            payment_status = COALESCE($6, payment_status),
            updated_at     = now()
        WHERE id = $1
    `, u.ID, u.FirstName, u.LastName, u.Phone, u.Location, u.PaymentStatus)
	if err != nil {
		return false, fmt.Errorf("update patient %s: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ReplaceDocuments stores the full prescription list and medication history.
func (r *PatientRepo) ReplaceDocuments(ctx context.Context, p *domain.Patient) (bool, error) {
	prescriptions, history, err := marshalDocs(p)
	if err != nil {
		return false, err
	}
	ct, err := r.db.Exec(ctx, `
        UPDATE patients
        SET prescriptions = $2,
            medication_history = $3,
            updated_at = now()
        WHERE id = $1
    `, p.ID, prescriptions, history)
	if err != nil {
		return false, fmt.Errorf("replace patient documents %s: %w", p.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes a patient and returns true if a row was affected.
func (r *PatientRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete patient %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
