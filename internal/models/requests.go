package models

// Request bodies for both route families. Validation tags are enforced at
// the handler boundary before anything touches a service; in particular the
// password confirmation is checked here and never persisted.

type DoctorSignupRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	ClinicName      string `json:"clinic_name" validate:"required"`
	LicenseID       string `json:"license_id" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	NationalID      string `json:"national_id" validate:"required"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
	Address         string `json:"address" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type PatientSignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	CoName          string `json:"co_name"`
	NationalID      string `json:"national_id" validate:"required"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
	Address         string `json:"address" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetCodeRequest struct {
	Token string `json:"token" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// UpdateDoctorRequest carries profile-only fields; credential changes go
// through the password endpoints.
type UpdateDoctorRequest struct {
	FullName   *string `json:"full_name,omitempty"`
	ClinicName *string `json:"clinic_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
}

type UpdatePatientRequest struct {
	Name             *string `json:"name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	CoName           *string `json:"co_name,omitempty"`
	Address          *string `json:"address,omitempty"`
	AboutMe          *string `json:"about_me,omitempty"`
	MedicalHistory   *string `json:"medical_history,omitempty"`
	Allergies        *string `json:"allergies,omitempty"`
	BloodType        *string `json:"blood_type,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Insurance        *string `json:"insurance,omitempty"`
	Photo            *string `json:"photo,omitempty"`
	PatientDisease   *string `json:"patient_disease,omitempty"`
}

type CareTeamRequest struct {
	DoctorID string `json:"doctor_id" validate:"required"`
}
