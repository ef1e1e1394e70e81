package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
)

// CareTeamService manages the symmetric doctor-patient relation. Both ends
// are checked to exist (and be active) before a link is written.
type CareTeamService struct {
	links    repository.CareTeamRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewCareTeamService(
	links repository.CareTeamRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
) *CareTeamService {
	return &CareTeamService{links: links, doctors: doctors, patients: patients}
}

// AddDoctor links a doctor to a patient's care team. Idempotent.
func (s *CareTeamService) AddDoctor(ctx context.Context, patientID, doctorID string) error {
	pid, did, err := s.resolvePair(ctx, patientID, doctorID)
	if err != nil {
		return err
	}
	return s.links.Add(ctx, did, pid)
}

// RemoveDoctor unlinks a doctor from a patient's care team. Removing an
// absent link succeeds without error.
func (s *CareTeamService) RemoveDoctor(ctx context.Context, patientID, doctorID string) error {
	pid, err := parseID(patientID)
	if err != nil {
		return err
	}
	did, err := parseID(doctorID)
	if err != nil {
		return err
	}
	return s.links.Remove(ctx, did, pid)
}

// DoctorsForPatient returns the patient's linked, active doctors.
func (s *CareTeamService) DoctorsForPatient(ctx context.Context, patientID string) ([]*models.Doctor, error) {
	pid, err := parseID(patientID)
	if err != nil {
		return nil, err
	}
	ids, err := s.links.DoctorIDsForPatient(ctx, pid)
	if err != nil {
		return nil, err
	}
	return s.doctors.FindByIDs(ctx, ids)
}

// PatientsForDoctor returns the doctor's linked, active patients.
func (s *CareTeamService) PatientsForDoctor(ctx context.Context, doctorID string) ([]*models.Patient, error) {
	did, err := parseID(doctorID)
	if err != nil {
		return nil, err
	}
	ids, err := s.links.PatientIDsForDoctor(ctx, did)
	if err != nil {
		return nil, err
	}
	return s.patients.FindByIDs(ctx, ids)
}

// AllDoctors is the browseable directory of active doctors.
func (s *CareTeamService) AllDoctors(ctx context.Context) ([]*models.Doctor, error) {
	return s.doctors.List(ctx, false)
}

func (s *CareTeamService) resolvePair(ctx context.Context, patientID, doctorID string) (pid, did primitive.ObjectID, err error) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return pid, did, err
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return pid, did, err
	}
	return patient.ID, doctor.ID, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}
