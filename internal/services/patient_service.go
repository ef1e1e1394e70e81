package services

import (
	"context"
	"strings"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
)

// PatientService handles patient registration and profile management.
type PatientService struct {
	repo repository.PatientRepository
	auth *AuthService
}

func NewPatientService(repo repository.PatientRepository, auth *AuthService) *PatientService {
	return &PatientService{repo: repo, auth: auth}
}

func (s *PatientService) Register(ctx context.Context, req models.PatientSignupRequest) (*models.Patient, string, error) {
	p := &models.Patient{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      normalizeEmail(req.Email),
		CoName:     req.CoName,
		NationalID: req.NationalID,
		Gender:     req.Gender,
		Address:    req.Address,
	}
	if err := p.SetPassword(req.Password); err != nil {
		return nil, "", err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, "", ErrAccountExists
		}
		return nil, "", err
	}

	token, err := s.auth.IssueToken(p)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*models.Patient, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PatientService) UpdateProfile(ctx context.Context, id string, req models.UpdatePatientRequest) (*models.Patient, error) {
	return s.repo.UpdateProfile(ctx, id, req)
}

func (s *PatientService) Deactivate(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *PatientService) ListAll(ctx context.Context, includeInactive bool) ([]*models.Patient, error) {
	return s.repo.List(ctx, includeInactive)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
