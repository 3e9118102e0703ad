package vitals

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitals/vitals/internal/platform/db"
)

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongoRepository(database *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: database.Collection(db.CollectionName), logger: logger}
}

var sortNewestFirst = options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

func (r *mongoRepo) Insert(ctx context.Context, rec *Record) (string, error) {
	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("insert vitals: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	rec.ID = id
	return id.Hex(), nil
}

func (r *mongoRepo) ListByPatient(ctx context.Context, patientID string) ([]*Record, error) {
	cur, err := r.coll.Find(ctx, bson.M{"patient_id": patientID}, sortNewestFirst)
	if err != nil {
		return nil, fmt.Errorf("find vitals: %w", err)
	}
	defer cur.Close(ctx)

	var out []*Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vitals document: %w", err)
		}
		out = append(out, r.fromDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate vitals cursor: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) LatestByPatient(ctx context.Context, patientID string) (*Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"patient_id": patientID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find latest vitals: %w", err)
	}
	return r.fromDocument(doc), nil
}

func (r *mongoRepo) fromDocument(doc bson.M) *Record {
	rec, fellBack := RecordFromDocument(doc)
	if fellBack {
		r.logger.Warn().
			Str("patient_id", rec.PatientID).
			Str("id", rec.ID.Hex()).
			Msg("stored timestamp unparsable, substituting current time")
	}
	return rec
}
