package services

import (
	"context"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
)

// DoctorService handles doctor registration and profile management.
type DoctorService struct {
	repo repository.DoctorRepository
	auth *AuthService
}

func NewDoctorService(repo repository.DoctorRepository, auth *AuthService) *DoctorService {
	return &DoctorService{repo: repo, auth: auth}
}

// Register creates a doctor account and issues its first token. The password
// is hashed before the record is written; the change timestamp is NOT set on
// first creation.
func (s *DoctorService) Register(ctx context.Context, req models.DoctorSignupRequest) (*models.Doctor, string, error) {
	d := &models.Doctor{
		FullName:   req.FullName,
		ClinicName: req.ClinicName,
		LicenseID:  req.LicenseID,
		Email:      normalizeEmail(req.Email),
		Phone:      req.Phone,
		NationalID: req.NationalID,
		Gender:     req.Gender,
		Address:    req.Address,
	}
	if err := d.SetPassword(req.Password); err != nil {
		return nil, "", err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, "", ErrAccountExists
		}
		return nil, "", err
	}

	token, err := s.auth.IssueToken(d)
	if err != nil {
		return nil, "", err
	}
	return d, token, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*models.Doctor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DoctorService) UpdateProfile(ctx context.Context, id string, req models.UpdateDoctorRequest) (*models.Doctor, error) {
	return s.repo.UpdateProfile(ctx, id, req)
}

func (s *DoctorService) Deactivate(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// ListAll is the admin view and may include soft-deleted records on request.
func (s *DoctorService) ListAll(ctx context.Context, includeInactive bool) ([]*models.Doctor, error) {
	return s.repo.List(ctx, includeInactive)
}
