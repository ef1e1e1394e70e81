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

type PatientRepository interface {
	AccountRepository

	Create(ctx context.Context, p *models.Patient) error
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Patient, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdatePatientRequest) (*models.Patient, error)
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, includeInactive bool) ([]*models.Patient, error)
}

const patientCollection = "patients"

type mongoPatientRepo struct {
	col *mongo.Collection
}

func NewMongoPatientRepo(db *mongo.Database) PatientRepository {
	col := db.Collection(patientCollection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "national_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "password_reset_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return &mongoPatientRepo{col: col}
}

func (r *mongoPatientRepo) Create(ctx context.Context, p *models.Patient) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Active = true
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *mongoPatientRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Patient, error) {
	var p models.Patient
	err := r.col.FindOne(ctx, filter, opts...).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPatientRepo) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, activeOnly(bson.M{"_id": oid}),
		options.FindOne().SetProjection(publicProjection))
}

func (r *mongoPatientRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Patient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findAll(ctx, activeOnly(bson.M{"_id": bson.M{"$in": ids}}))
}

func (r *mongoPatientRepo) FindAccountByEmail(ctx context.Context, email string) (models.AccountHolder, error) {
	return r.findOne(ctx, activeOnly(bson.M{"email": email}))
}

func (r *mongoPatientRepo) FindAccountByID(ctx context.Context, id string) (models.AccountHolder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, activeOnly(bson.M{"_id": oid}))
}

func (r *mongoPatientRepo) FindAccountByResetDigest(ctx context.Context, digest string) (models.AccountHolder, error) {
	return r.findOne(ctx, activeOnly(bson.M{"password_reset_token": digest}))
}

func (r *mongoPatientRepo) SaveCredentials(ctx context.Context, id primitive.ObjectID, acct *models.Account) error {
	set := bson.M{
		"password_hash": acct.PasswordHash,
		"updated_at":    time.Now().UTC(),
	}
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
	update := bson.M{"$set": set}
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

func (r *mongoPatientRepo) UpdateProfile(ctx context.Context, id string, req models.UpdatePatientRequest) (*models.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for field, v := range map[string]*string{
		"name":              req.Name,
		"phone":             req.Phone,
		"co_name":           req.CoName,
		"address":           req.Address,
		"about_me":          req.AboutMe,
		"medical_history":   req.MedicalHistory,
		"allergies":         req.Allergies,
		"blood_type":        req.BloodType,
		"emergency_contact": req.EmergencyContact,
		"insurance":         req.Insurance,
		"photo":             req.Photo,
		"patient_disease":   req.PatientDisease,
	} {
		if v != nil {
			set[field] = *v
		}
	}

	res := r.col.FindOneAndUpdate(ctx,
		activeOnly(bson.M{"_id": oid}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(publicProjection),
	)
	var p models.Patient
	if err := res.Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *mongoPatientRepo) SoftDelete(ctx context.Context, id string) error {
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

func (r *mongoPatientRepo) List(ctx context.Context, includeInactive bool) ([]*models.Patient, error) {
	filter := bson.M{}
	if !includeInactive {
		filter = activeOnly(filter)
	}
	return r.findAll(ctx, filter)
}

func (r *mongoPatientRepo) findAll(ctx context.Context, filter bson.M) ([]*models.Patient, error) {
	cursor, err := r.col.Find(ctx, filter,
		options.Find().
			SetProjection(publicProjection).
			SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var patients []*models.Patient
	for cursor.Next(ctx) {
		var p models.Patient
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, cursor.Err()
}
