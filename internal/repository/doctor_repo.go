package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/clinic-backend/internal/models"
)

type DoctorRepository interface {
	AccountRepository

	Create(ctx context.Context, d *models.Doctor) error
	FindByID(ctx context.Context, id string) (*models.Doctor, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Doctor, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdateDoctorRequest) (*models.Doctor, error)
	SoftDelete(ctx context.Context, id string) error
	// List returns the doctor directory. includeInactive is the elevated
	// admin path; default callers pass false.
	List(ctx context.Context, includeInactive bool) ([]*models.Doctor, error)
}

const doctorCollection = "doctors"

type mongoDoctorRepo struct {
	col *mongo.Collection
}

func NewMongoDoctorRepo(db *mongo.Database) DoctorRepository {
	col := db.Collection(doctorCollection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "license_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "national_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "password_reset_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return &mongoDoctorRepo{col: col}
}

func (r *mongoDoctorRepo) Create(ctx context.Context, d *models.Doctor) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.Active = true
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

func (r *mongoDoctorRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Doctor, error) {
	var d models.Doctor
	err := r.col.FindOne(ctx, filter, opts...).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *mongoDoctorRepo) FindByID(ctx context.Context, id string) (*models.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, activeOnly(bson.M{"_id": oid}),
		options.FindOne().SetProjection(publicProjection))
}

func (r *mongoDoctorRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Doctor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findAll(ctx, activeOnly(bson.M{"_id": bson.M{"$in": ids}}))
}

func (r *mongoDoctorRepo) FindAccountByEmail(ctx context.Context, email string) (models.AccountHolder, error) {
	return r.findOne(ctx, activeOnly(bson.M{"email": email}))
}

func (r *mongoDoctorRepo) FindAccountByID(ctx context.Context, id string) (models.AccountHolder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, activeOnly(bson.M{"_id": oid}))
}

func (r *mongoDoctorRepo) FindAccountByResetDigest(ctx context.Context, digest string) (models.AccountHolder, error) {
	return r.findOne(ctx, activeOnly(bson.M{"password_reset_token": digest}))
}

func (r *mongoDoctorRepo) SaveCredentials(ctx context.Context, id primitive.ObjectID, acct *models.Account) error {
	update := bson.M{
		"$set": bson.M{
			"password_hash": acct.PasswordHash,
			"updated_at":    time.Now().UTC(),
		},
	}
	set := update["$set"].(bson.M)
	unset := bson.M{}
	if acct.PasswordChangedAt != nil {
		set["password_changed_at"] = acct.PasswordChangedAt
	}
	if acct.PasswordResetToken != "" {
		set["password_reset_token"] = acct.PasswordResetToken
		set["password_reset_expires"] = acct.PasswordResetExpires
	} else {
		unset["password_reset_token"] = ""
		unset["password_reset_expires"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoDoctorRepo) UpdateProfile(ctx context.Context, id string, req models.UpdateDoctorRequest) (*models.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if req.FullName != nil {
		set["full_name"] = *req.FullName
	}
	if req.ClinicName != nil {
		set["clinic_name"] = *req.ClinicName
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}

	res := r.col.FindOneAndUpdate(ctx,
		activeOnly(bson.M{"_id": oid}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(publicProjection),
	)
	var d models.Doctor
	if err := res.Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *mongoDoctorRepo) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoDoctorRepo) List(ctx context.Context, includeInactive bool) ([]*models.Doctor, error) {
	filter := bson.M{}
	if !includeInactive {
		filter = activeOnly(filter)
	}
	return r.findAll(ctx, filter)
}

func (r *mongoDoctorRepo) findAll(ctx context.Context, filter bson.M) ([]*models.Doctor, error) {
	cursor, err := r.col.Find(ctx, filter,
		options.Find().
			SetProjection(publicProjection).
			SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []*models.Doctor
	for cursor.Next(ctx) {
		var d models.Doctor
		if err := cursor.Decode(&d); err != nil {
			return nil, err
		}
		doctors = append(doctors, &d)
	}
	return doctors, cursor.Err()
}
