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

// CareTeamRepository manages doctor-patient links. Each link is one document
// keyed by the (doctor_id, patient_id) pair, so adds and removes are single
// atomic writes and the relation can never drift between two sides.
type CareTeamRepository interface {
	// Add links a doctor to a patient. Adding an existing link is a no-op.
	Add(ctx context.Context, doctorID, patientID primitive.ObjectID) error
	// Remove unlinks a doctor from a patient. Removing an absent link is a
	// no-op success.
	Remove(ctx context.Context, doctorID, patientID primitive.ObjectID) error
	DoctorIDsForPatient(ctx context.Context, patientID primitive.ObjectID) ([]primitive.ObjectID, error)
	PatientIDsForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error)
}

const careTeamCollection = "care_team"

type mongoCareTeamRepo struct {
	col *mongo.Collection
}

func NewMongoCareTeamRepo(db *mongo.Database) CareTeamRepository {
	col := db.Collection(careTeamCollection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "patient_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
	})
	return &mongoCareTeamRepo{col: col}
}

func (r *mongoCareTeamRepo) Add(ctx context.Context, doctorID, patientID primitive.ObjectID) error {
	filter := bson.M{"doctor_id": doctorID, "patient_id": patientID}
	update := bson.M{"$setOnInsert": models.CareTeamLink{
		DoctorID:  doctorID,
		PatientID: patientID,
		CreatedAt: time.Now().UTC(),
	}}
	// Upsert keeps the operation idempotent under the unique index: a
	// concurrent duplicate either matches or races into the same document.
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if IsDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *mongoCareTeamRepo) Remove(ctx context.Context, doctorID, patientID primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"doctor_id": doctorID, "patient_id": patientID})
	return err
}

func (r *mongoCareTeamRepo) DoctorIDsForPatient(ctx context.Context, patientID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.linkedIDs(ctx, bson.M{"patient_id": patientID}, "doctor_id")
}

func (r *mongoCareTeamRepo) PatientIDsForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.linkedIDs(ctx, bson.M{"doctor_id": doctorID}, "patient_id")
}

func (r *mongoCareTeamRepo) linkedIDs(ctx context.Context, filter bson.M, field string) ([]primitive.ObjectID, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var link models.CareTeamLink
		if err := cursor.Decode(&link); err != nil {
			return nil, err
		}
		if field == "doctor_id" {
			ids = append(ids, link.DoctorID)
		} else {
			ids = append(ids, link.PatientID)
		}
	}
	return ids, cursor.Err()
}
