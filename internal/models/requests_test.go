package models

import (
	"testing"

	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

func validPatientSignup() PatientSignupRequest {
	return PatientSignupRequest{
		Name:            "Amina Farouk",
		Phone:           "+201111111111",
		Email:           "amina@example.com",
		NationalID:      "29505050505050",
		Gender:          "female",
		Address:         "Giza",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
}

func TestPatientSignupValidation(t *testing.T) {
	if errs := utils.ValidateStruct(validPatientSignup()); errs != nil {
		t.Fatalf("valid request rejected: %v", errs)
	}

	tests := []struct {
		name     string
		mutate   func(*PatientSignupRequest)
		field    string
	}{
		{"missing name", func(r *PatientSignupRequest) { r.Name = "" }, "Name"},
		{"bad email", func(r *PatientSignupRequest) { r.Email = "not-an-email" }, "Email"},
		{"unknown gender", func(r *PatientSignupRequest) { r.Gender = "other" }, "Gender"},
		{"short password", func(r *PatientSignupRequest) { r.Password = "abc"; r.PasswordConfirm = "abc" }, "Password"},
		{"mismatched confirm", func(r *PatientSignupRequest) { r.PasswordConfirm = "different1" }, "PasswordConfirm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPatientSignup()
			tt.mutate(&req)
			errs := utils.ValidateStruct(req)
			if len(errs) == 0 {
				t.Fatal("invalid request accepted")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on %s: %v", tt.field, errs)
			}
		})
	}
}

func TestPasswordMismatchMessage(t *testing.T) {
	req := validPatientSignup()
	req.PasswordConfirm = "different1"
	errs := utils.ValidateStruct(req)
	if len(errs) != 1 || errs[0].Message != "passwords do not match" {
		t.Errorf("errs = %v", errs)
	}
}

func TestUpdatePatientBloodType(t *testing.T) {
	bad := "C+"
	if errs := utils.ValidateStruct(UpdatePatientRequest{BloodType: &bad}); len(errs) == 0 {
		t.Error("invalid blood type accepted")
	}
	good := "O-"
	if errs := utils.ValidateStruct(UpdatePatientRequest{BloodType: &good}); errs != nil {
		t.Errorf("valid blood type rejected: %v", errs)
	}
	if errs := utils.ValidateStruct(UpdatePatientRequest{}); errs != nil {
		t.Errorf("empty update rejected: %v", errs)
	}
}
