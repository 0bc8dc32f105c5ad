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

const usageCollectionName = "exercise_history"

// Bounds the recency list; ranks beyond this carry negligible weight anyway.
const maxUsageEntries = 100

// mongoUsageRepository implements repository.UsageRepository
type mongoUsageRepository struct {
	collection *mongo.Collection
}

// NewMongoUsageRepository creates a new usage history repository.
func NewMongoUsageRepository(db *mongo.Database) repository.UsageRepository {
	return &mongoUsageRepository{
		collection: db.Collection(usageCollectionName),
	}
}

// RecentUsage returns usage entries within the lookback window, ordered
// most-recent-first. Entries are never deleted; anything older than the
// window simply stops being returned here.
func (r *mongoUsageRepository) RecentUsage(ctx context.Context, userID string, windowDays int) ([]domain.ExerciseUsageEntry, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	filter := bson.M{
		"userId":   userID,
		"lastUsed": bson.M{"$gte": cutoff},
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "lastUsed", Value: -1}}).
		SetLimit(maxUsageEntries)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.ExerciseUsageEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertUsage increments the use count and refreshes the last-used
// timestamp for a (user, exercise) pair, creating the entry on first use.
func (r *mongoUsageRepository) UpsertUsage(ctx context.Context, userID, exerciseID string, now time.Time) error {
	filter := bson.M{
		"userId":     userID,
		"exerciseId": exerciseID,
	}
	update := bson.M{
		"$set":         bson.M{"lastUsed": now},
		"$inc":         bson.M{"useCount": 1},
		"$setOnInsert": bson.M{"firstUsed": now},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// EnsureUsageIndexes creates necessary indexes. Call during startup.
func EnsureUsageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Compound index for the recency query and the upsert filter
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "lastUsed", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
