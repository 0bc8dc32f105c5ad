package mongo

import (
	"context"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseCatalog implements repository.ExerciseCatalog
type mongoExerciseCatalog struct {
	collection *mongo.Collection
}

// NewMongoExerciseCatalog creates a new exercise catalog backed by MongoDB.
func NewMongoExerciseCatalog(db *mongo.Database) repository.ExerciseCatalog {
	return &mongoExerciseCatalog{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Query retrieves catalog records matching the filter, up to limit.
// No ordering is applied; the engine scores and orders results itself.
func (r *mongoExerciseCatalog) Query(ctx context.Context, filter repository.ExerciseFilter, limit int64) ([]domain.ExerciseRecord, error) {
	query := bson.M{}

	if len(filter.EquipmentIn) > 0 {
		query["equipment"] = bson.M{"$in": filter.EquipmentIn}
	}
	if filter.BodyPart != "" {
		query["bodyPart"] = filter.BodyPart
	}
	if len(filter.LevelIn) > 0 {
		query["level"] = bson.M{"$in": filter.LevelIn}
	}
	if len(filter.ExcludeIDs) > 0 {
		query["_id"] = bson.M{"$nin": filter.ExcludeIDs}
	}
	if filter.ActiveOnly {
		query["isActive"] = true
	}

	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.ExerciseRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// BulkUpsert writes catalog records keyed by slug ID, replacing existing
// documents. Used by the ingestion command.
func (r *mongoExerciseCatalog) BulkUpsert(ctx context.Context, records []domain.ExerciseRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(records))
	now := time.Now().UTC()
	for _, record := range records {
		record.IngestedAt = now
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": record.ID}).
			SetReplacement(record).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.ModifiedCount + result.MatchedCount), nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises
// collection. Call during startup or after ingestion.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: equipment + level + active
			Keys:    bson.D{{Key: "equipment", Value: 1}, {Key: "level", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "bodyPart", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isBodyweight", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
