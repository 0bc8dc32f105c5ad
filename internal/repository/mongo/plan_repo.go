package mongo

import (
	"context"
	"errors"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "generated_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new weekly-plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// UpsertPlan overwrites the plan document for (userId, weekStart).
// Last write wins; concurrent regenerations are not serialized here.
func (r *mongoPlanRepository) UpsertPlan(ctx context.Context, plan *domain.WeeklyPlan) error {
	if plan.UserID == "" || plan.WeekStart == "" {
		return errors.New("plan requires userId and weekStart")
	}

	filter := bson.M{
		"userId":    plan.UserID,
		"weekStart": plan.WeekStart,
	}

	_, err := r.collection.ReplaceOne(ctx, filter, plan, options.Replace().SetUpsert(true))
	return err
}

// GetByUserAndWeek retrieves the plan for one (user, week) key.
func (r *mongoPlanRepository) GetByUserAndWeek(ctx context.Context, userID, weekStart string) (*domain.WeeklyPlan, error) {
	var plan domain.WeeklyPlan
	filter := bson.M{
		"userId":    userID,
		"weekStart": weekStart,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// RecentPlans returns the user's most recently generated plans, newest
// first. Used by the similarity checker (last 3).
func (r *mongoPlanRepository) RecentPlans(ctx context.Context, userID string, limit int64) ([]domain.WeeklyPlan, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "generatedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WeeklyPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The (user, week) key; one document per user-week
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "weekStart", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Recency queries for the similarity checker
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "generatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
