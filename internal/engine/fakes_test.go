package engine

import (
	"context"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"
)

// fakeCatalog is an in-memory ExerciseCatalog applying the same filter
// semantics as the Mongo implementation.
type fakeCatalog struct {
	records []domain.ExerciseRecord
	queries int
	err     error
}

func (f *fakeCatalog) Query(_ context.Context, filter repository.ExerciseFilter, limit int64) ([]domain.ExerciseRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries++

	equipment := toStringSet(filter.EquipmentIn)
	levels := toStringSet(filter.LevelIn)
	excluded := toStringSet(filter.ExcludeIDs)

	var matched []domain.ExerciseRecord
	for _, r := range f.records {
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if len(equipment) > 0 && !equipment[r.Equipment] {
			continue
		}
		if len(levels) > 0 && !levels[r.Level] {
			continue
		}
		if excluded[r.ID] {
			continue
		}
		if filter.BodyPart != "" && r.BodyPart != filter.BodyPart {
			continue
		}
		matched = append(matched, r)
		if int64(len(matched)) >= limit {
			break
		}
	}
	return matched, nil
}

func (f *fakeCatalog) BulkUpsert(_ context.Context, records []domain.ExerciseRecord) (int, error) {
	f.records = append(f.records, records...)
	return len(records), nil
}

func toStringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// fakeUsage is an in-memory UsageRepository recording upserts in order.
type fakeUsage struct {
	entries  map[string][]domain.ExerciseUsageEntry
	upserted map[string][]string
	readErr  error
	writeErr error
}

func newFakeUsage() *fakeUsage {
	return &fakeUsage{
		entries:  map[string][]domain.ExerciseUsageEntry{},
		upserted: map[string][]string{},
	}
}

func (f *fakeUsage) RecentUsage(_ context.Context, userID string, _ int) ([]domain.ExerciseUsageEntry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.entries[userID], nil
}

func (f *fakeUsage) UpsertUsage(_ context.Context, userID, exerciseID string, now time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.upserted[userID] = append(f.upserted[userID], exerciseID)
	f.entries[userID] = append([]domain.ExerciseUsageEntry{
		{UserID: userID, ExerciseID: exerciseID, LastUsed: now, FirstUsed: now, UseCount: 1},
	}, f.entries[userID]...)
	return nil
}

func (f *fakeUsage) upsertedIDs(userID string) []string {
	return f.upserted[userID]
}

// fakePlans is an in-memory PlanRepository keyed by (userId, weekStart).
type fakePlans struct {
	plans     map[string]*domain.WeeklyPlan
	order     []string
	upsertErr error
}

func newFakePlans() *fakePlans {
	return &fakePlans{plans: map[string]*domain.WeeklyPlan{}}
}

func planKey(userID, weekStart string) string {
	return userID + "/" + weekStart
}

func (f *fakePlans) UpsertPlan(_ context.Context, plan *domain.WeeklyPlan) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	key := planKey(plan.UserID, plan.WeekStart)
	if _, exists := f.plans[key]; !exists {
		f.order = append(f.order, key)
	}
	stored := *plan
	f.plans[key] = &stored
	return nil
}

func (f *fakePlans) GetByUserAndWeek(_ context.Context, userID, weekStart string) (*domain.WeeklyPlan, error) {
	plan, ok := f.plans[planKey(userID, weekStart)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	return &copied, nil
}

func (f *fakePlans) RecentPlans(_ context.Context, userID string, limit int64) ([]domain.WeeklyPlan, error) {
	var recent []domain.WeeklyPlan
	// Newest first by insertion order.
	for i := len(f.order) - 1; i >= 0 && int64(len(recent)) < limit; i-- {
		plan := f.plans[f.order[i]]
		if plan.UserID == userID {
			recent = append(recent, *plan)
		}
	}
	return recent, nil
}
