package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor represents a clinician account. Linked patients live in the
// care_team collection, not on this document.
type Doctor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	ClinicName string             `bson:"clinic_name" json:"clinic_name"`
	LicenseID  string             `bson:"license_id" json:"license_id"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	NationalID string             `bson:"national_id" json:"national_id"`
	Gender     string             `bson:"gender" json:"gender"`
	Address    string             `bson:"address" json:"address"`

	Account `bson:",inline"`

	// Admin grants access to the admin-gated listings.
	Admin  bool `bson:"admin,omitempty" json:"-"`
	Active bool `bson:"active" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (d *Doctor) AccountID() primitive.ObjectID { return d.ID }
func (d *Doctor) AccountEmail() string          { return d.Email }
func (d *Doctor) Credentials() *Account         { return &d.Account }

// Role reports the claim value carried in this doctor's tokens.
func (d *Doctor) Role() string {
	if d.Admin {
		return RoleAdmin
	}
	return RoleDoctor
}
