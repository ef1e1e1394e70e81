package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
	RoleAdmin   = "admin"
)

// Patient represents a patient account with optional medical metadata.
type Patient struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone" json:"phone"`
	Email      string             `bson:"email" json:"email"`
	CoName     string             `bson:"co_name,omitempty" json:"co_name,omitempty"`
	NationalID string             `bson:"national_id" json:"national_id"`
	Gender     string             `bson:"gender" json:"gender"`
	Address    string             `bson:"address" json:"address"`

	DateOfBirth      *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	AboutMe          string     `bson:"about_me,omitempty" json:"about_me,omitempty"`
	MedicalHistory   string     `bson:"medical_history,omitempty" json:"medical_history,omitempty"`
	Allergies        string     `bson:"allergies,omitempty" json:"allergies,omitempty"`
	BloodType        string     `bson:"blood_type,omitempty" json:"blood_type,omitempty"`
	EmergencyContact string     `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	Insurance        string     `bson:"insurance,omitempty" json:"insurance,omitempty"`
	Photo            string     `bson:"photo,omitempty" json:"photo,omitempty"`
	PatientDisease   string     `bson:"patient_disease,omitempty" json:"patient_disease,omitempty"`

	Account `bson:",inline"`

	Active bool `bson:"active" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (p *Patient) AccountID() primitive.ObjectID { return p.ID }
func (p *Patient) AccountEmail() string          { return p.Email }
func (p *Patient) Credentials() *Account         { return &p.Account }
func (p *Patient) Role() string                  { return RolePatient }

// CareTeamLink records one doctor-patient relationship. Storing the pair in
// its own collection keeps add/remove a single atomic document write and the
// relation queryable from both sides.
type CareTeamLink struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DoctorID  primitive.ObjectID `bson:"doctor_id" json:"doctor_id"`
	PatientID primitive.ObjectID `bson:"patient_id" json:"patient_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
