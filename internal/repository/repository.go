package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fathima-sithara/clinic-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

// AccountRepository is the credential-lifecycle view of an entity collection.
// Both the doctor and patient repositories implement it, which lets a single
// authentication service drive either role.
//
// All lookups are active-only: soft-deleted records behave as absent.
type AccountRepository interface {
	// FindAccountByEmail loads a record including its credential fields.
	FindAccountByEmail(ctx context.Context, email string) (models.AccountHolder, error)
	// FindAccountByID loads a record including its credential fields.
	FindAccountByID(ctx context.Context, id string) (models.AccountHolder, error)
	// FindAccountByResetDigest locates the record holding a pending reset
	// token digest.
	FindAccountByResetDigest(ctx context.Context, digest string) (models.AccountHolder, error)
	// SaveCredentials persists the credential block of an existing record.
	SaveCredentials(ctx context.Context, id primitive.ObjectID, acct *models.Account) error
}

// activeOnly is the default read filter: soft-deleted records are excluded
// unless a caller explicitly asks for the elevated view.
func activeOnly(filter bson.M) bson.M {
	filter["active"] = bson.M{"$ne": false}
	return filter
}

// publicProjection strips the secret credential fields from default reads.
// password_changed_at stays, the auth middleware needs it.
var publicProjection = bson.M{
	"password_hash":          0,
	"password_reset_token":   0,
	"password_reset_expires": 0,
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
