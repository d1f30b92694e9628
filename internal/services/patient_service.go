package services

import (
	"context"
	"strings"

	"diet-backend/internal/cache"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/workflow"

	"github.com/google/uuid"
)

type PatientService struct {
	Repo repositories.PatientStore
}

func NewPatientService(repo repositories.PatientStore) *PatientService {
	return &PatientService{Repo: repo}
}

func validatePatient(req *models.PatientRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return workflow.Validation("patient name is required")
	}
	if req.Age < 0 || req.Age > 150 {
		return workflow.Validation("age must be between 0 and 150")
	}
	if req.RoomNumber == "" || req.BedNumber == "" {
		return workflow.Validation("room and bed number are required")
	}
	return nil
}

func strs(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func applyPatient(p *models.Patient, req *models.PatientRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Age = req.Age
	p.Gender = req.Gender
	p.RoomNumber = req.RoomNumber
	p.BedNumber = req.BedNumber
	p.FloorNumber = req.FloorNumber
	p.Diseases = strs(req.Diseases)
	p.Allergies = strs(req.Allergies)
	p.ContactNumber = req.ContactNumber
	p.EmergencyContact = req.EmergencyContact
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, req *models.PatientRequest) (*models.Patient, error) {
	if err := validatePatient(req); err != nil {
		return nil, err
	}
	p := &models.Patient{ID: uuid.NewString(), IsActive: true}
	applyPatient(p, req)
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	return s.Repo.Get(ctx, id)
}

// ListPatients returns all patients, or only admitted ones when activeOnly.
func (s *PatientService) ListPatients(ctx context.Context, activeOnly bool) ([]*models.Patient, error) {
	return s.Repo.List(ctx, activeOnly)
}

func (s *PatientService) UpdatePatient(ctx context.Context, id string, req *models.PatientRequest) (*models.Patient, error) {
	if err := validatePatient(req); err != nil {
		return nil, err
	}
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPatient(p, req)
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// DeletePatient removes the patient together with their diet charts.
func (s *PatientService) DeletePatient(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateTaskStats(ctx)
	return nil
}
