package repositories

import (
	"context"
	"fmt"

	"diet-backend/internal/models"
	"diet-backend/internal/workflow"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PatientRepository struct {
	DB *pgxpool.Pool
}

func NewPatientRepository(db *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{DB: db}
}

const patientColumns = `id, name, age, gender, room_number, bed_number, floor_number,
	diseases, allergies, contact_number,
	emergency_contact_name, emergency_contact_relationship, emergency_contact_phone,
	is_active, created_at, updated_at`

func scanPatient(row interface{ Scan(...any) error }) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.RoomNumber, &p.BedNumber, &p.FloorNumber,
		&p.Diseases, &p.Allergies, &p.ContactNumber,
		&p.EmergencyContact.Name, &p.EmergencyContact.Relationship, &p.EmergencyContact.Phone,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO patients (id, name, age, gender, room_number, bed_number, floor_number,
			diseases, allergies, contact_number,
			emergency_contact_name, emergency_contact_relationship, emergency_contact_phone, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Age, p.Gender, p.RoomNumber, p.BedNumber, p.FloorNumber,
		nonNil(p.Diseases), nonNil(p.Allergies), p.ContactNumber,
		p.EmergencyContact.Name, p.EmergencyContact.Relationship, p.EmergencyContact.Phone, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*models.Patient, error) {
	p, err := scanPatient(r.DB.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "patient", id)
	}
	return p, nil
}

func (r *PatientRepository) List(ctx context.Context, activeOnly bool) ([]*models.Patient, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE (NOT $1 OR is_active) ORDER BY seq`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients := []*models.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PatientRepository) Update(ctx context.Context, p *models.Patient) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE patients SET name=$2, age=$3, gender=$4, room_number=$5, bed_number=$6, floor_number=$7,
			diseases=$8, allergies=$9, contact_number=$10,
			emergency_contact_name=$11, emergency_contact_relationship=$12, emergency_contact_phone=$13,
			is_active=$14, updated_at=NOW()
		 WHERE id=$1
		 RETURNING updated_at`,
		p.ID, p.Name, p.Age, p.Gender, p.RoomNumber, p.BedNumber, p.FloorNumber,
		nonNil(p.Diseases), nonNil(p.Allergies), p.ContactNumber,
		p.EmergencyContact.Name, p.EmergencyContact.Relationship, p.EmergencyContact.Phone, p.IsActive,
	).Scan(&p.UpdatedAt)
	return notFound(err, "patient", p.ID)
}

// Delete removes a patient; their diet charts go with them (ON DELETE CASCADE).
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.NotFound("patient %s not found", id)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
