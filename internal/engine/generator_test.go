package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testBodyParts = []string{"Chest", "Back", "Quadriceps", "Shoulders", "Abdominals", "Glutes", "Hamstrings", "Calves"}

// safeCatalogRecords produces n distinct bodyweight beginner exercises
// spread across body parts, none of which trip any safety keyword.
func safeCatalogRecords(n int) []domain.ExerciseRecord {
	names := []string{"Row", "Press", "Raise", "Curl", "Hold", "Bridge", "Twist", "Crunch"}
	records := make([]domain.ExerciseRecord, 0, n)
	for i := 0; i < n; i++ {
		id := domain.ExerciseSlug(names[i%len(names)] + "-" + string(rune('a'+i/len(names))) + "-variation")
		records = append(records, domain.ExerciseRecord{
			ID:           id,
			Title:        id,
			BodyPart:     testBodyParts[i%len(testBodyParts)],
			Equipment:    "Bodyweight",
			Level:        "Beginner",
			IsBodyweight: true,
			IsActive:     true,
		})
	}
	return records
}

type generatorFixture struct {
	catalog *fakeCatalog
	usage   *fakeUsage
	plans   *fakePlans
	gen     *Generator
}

func newGeneratorFixture(catalogSize int) *generatorFixture {
	catalog := &fakeCatalog{records: safeCatalogRecords(catalogSize)}
	usage := newFakeUsage()
	plans := newFakePlans()

	cascade := NewCascade(catalog, 0)
	tracker := NewTracker(usage, DefaultUsageWindowDays)
	gen := NewGenerator(cascade, tracker, plans, SimilarityThreshold).
		WithClock(func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) })

	return &generatorFixture{catalog: catalog, usage: usage, plans: plans, gen: gen}
}

func severeObeseProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:           primitive.NewObjectID(),
		Name:         "Test User",
		HeightCm:     170,
		WeightKg:     120,
		FitnessLevel: domain.LevelBeginner,
		PrimaryGoal:  domain.GoalGeneralFitness,
		IsActive:     true,
	}
}

func neutralHistory() domain.HistorySummary {
	return domain.HistorySummary{RecentCompletionRate: 0.5, AvgSatisfaction: 5.0}
}

func slotDurationSum(slots []domain.ExerciseSlot) int {
	total := 0
	for _, s := range slots {
		total += s.DurationSecs
	}
	return total
}

func TestGenerateWeekSingleActiveDay(t *testing.T) {
	fx := newGeneratorFixture(40)
	profile := severeObeseProfile()

	plan, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
		map[string]int{domain.Monday: 30}, neutralHistory(), domain.DefaultPreferences(), 42)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	if plan.BMI != 41.52 {
		t.Errorf("BMI snapshot = %v, want 41.52", plan.BMI)
	}
	if plan.BMICategory != domain.BMISevereObese {
		t.Errorf("BMICategory = %v, want severe_obese", plan.BMICategory)
	}
	if plan.GenerationID == "" {
		t.Error("GenerationID must be set")
	}

	monday := plan.Days[domain.Monday]
	if monday.TargetDuration != 30 {
		t.Errorf("TargetDuration = %d, want 30", monday.TargetDuration)
	}
	// 30 minutes split: warmup max(5, 4) = 5, cooldown max(3, 3) = 3,
	// main 22 minutes which buckets to 4 exercises.
	if got := slotDurationSum(monday.Warmup); got != 5*60 {
		t.Errorf("warmup duration = %ds, want 300s", got)
	}
	if got := slotDurationSum(monday.Cooldown); got != 3*60 {
		t.Errorf("cooldown duration = %ds, want 180s", got)
	}
	if len(monday.Main) != 4 {
		t.Errorf("main exercise count = %d, want 4", len(monday.Main))
	}
	if plan.FallbacksUsed[domain.Monday] != domain.FallbackPerfect {
		t.Errorf("monday fallback = %v, want perfect", plan.FallbacksUsed[domain.Monday])
	}

	for _, slot := range monday.Main {
		if slot.RPERange[1] > 7 {
			t.Errorf("exercise %s RPE max = %d, exceeds severe obese cap of 7", slot.ExerciseID, slot.RPERange[1])
		}
		lower := strings.ToLower(slot.Name)
		if strings.Contains(lower, "jump") || strings.Contains(lower, "burpee") {
			t.Errorf("high impact exercise %q prescribed to severe obese user", slot.Name)
		}
	}

	for _, day := range domain.DaysOfWeek {
		if day == domain.Monday {
			continue
		}
		dayPlan := plan.Days[day]
		if !dayPlan.IsRestDay() {
			t.Errorf("%s should be a rest day", day)
		}
		if dayPlan.Motivation != restDayMessage {
			t.Errorf("%s motivation = %q, want rest day message", day, dayPlan.Motivation)
		}
		if plan.FallbacksUsed[day] != domain.FallbackRest {
			t.Errorf("%s fallback = %v, want rest", day, plan.FallbacksUsed[day])
		}
	}

	// Side effects: plan persisted, usage committed for main IDs only.
	stored, err := fx.plans.GetByUserAndWeek(context.Background(), plan.UserID, "2025-06-02")
	if err != nil {
		t.Fatalf("plan was not persisted: %v", err)
	}
	if stored.GenerationID != plan.GenerationID {
		t.Error("persisted plan differs from returned plan")
	}

	upserted := fx.usage.upsertedIDs(plan.UserID)
	if len(upserted) != 4 {
		t.Fatalf("usage upserts = %d, want 4", len(upserted))
	}
	for _, id := range upserted {
		if id == domain.SlotWarmupMobility || id == domain.SlotWarmupCardio || id == domain.SlotCooldownStretch {
			t.Errorf("synthetic slot %s leaked into usage tracking", id)
		}
	}
}

func TestGenerateWeekNoRepeatsAcrossDays(t *testing.T) {
	fx := newGeneratorFixture(60)
	profile := severeObeseProfile()

	minutes := map[string]int{}
	for _, day := range domain.DaysOfWeek {
		minutes[day] = 30
	}

	plan, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
		minutes, neutralHistory(), domain.DefaultPreferences(), 7)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	seen := map[string]string{}
	for _, day := range domain.DaysOfWeek {
		for _, slot := range plan.Days[day].Main {
			if prev, dup := seen[slot.ExerciseID]; dup {
				t.Errorf("exercise %s appears on both %s and %s", slot.ExerciseID, prev, day)
			}
			seen[slot.ExerciseID] = day
		}
	}
	if len(seen) != 7*4 {
		t.Errorf("total distinct main exercises = %d, want 28", len(seen))
	}
}

func TestGenerateWeekExcludesRecentUsage(t *testing.T) {
	fx := newGeneratorFixture(40)
	profile := severeObeseProfile()

	// Mark a handful of catalog exercises as recently used.
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	recent := fx.catalog.records[:5]
	for _, r := range recent {
		fx.usage.entries[profile.ID.Hex()] = append(fx.usage.entries[profile.ID.Hex()], domain.ExerciseUsageEntry{
			UserID: profile.ID.Hex(), ExerciseID: r.ID, LastUsed: now, UseCount: 1,
		})
	}

	plan, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
		map[string]int{domain.Monday: 30}, neutralHistory(), domain.DefaultPreferences(), 11)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	recentSet := map[string]bool{}
	for _, r := range recent {
		recentSet[r.ID] = true
	}
	for _, slot := range plan.Days[domain.Monday].Main {
		if recentSet[slot.ExerciseID] {
			t.Errorf("recently used exercise %s was prescribed again", slot.ExerciseID)
		}
	}
}

func TestGenerateWeekDeterministicForSeed(t *testing.T) {
	profile := severeObeseProfile()
	minutes := map[string]int{domain.Monday: 45, domain.Wednesday: 30, domain.Friday: 60}

	run := func() *domain.WeeklyPlan {
		fx := newGeneratorFixture(60)
		plan, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
			minutes, neutralHistory(), domain.DefaultPreferences(), 1234)
		if err != nil {
			t.Fatalf("GenerateWeek() error = %v", err)
		}
		return plan
	}

	first := run()
	second := run()

	// Everything except the generation UUID must match for a fixed seed.
	if diff := cmp.Diff(first.Days, second.Days); diff != "" {
		t.Errorf("same seed produced different days (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.FallbacksUsed, second.FallbacksUsed); diff != "" {
		t.Errorf("same seed produced different fallbacks (-first +second):\n%s", diff)
	}
	if first.GenerationID == second.GenerationID {
		t.Error("generation IDs should be unique per run")
	}
}

func TestGenerateWeekUsageReadErrorAborts(t *testing.T) {
	fx := newGeneratorFixture(40)
	storeErr := errors.New("usage store down")
	fx.usage.readErr = storeErr

	_, err := fx.gen.GenerateWeek(context.Background(), severeObeseProfile(), "2025-06-02",
		map[string]int{domain.Monday: 30}, neutralHistory(), domain.DefaultPreferences(), 1)
	if !errors.Is(err, storeErr) {
		t.Fatalf("GenerateWeek() error = %v, want %v", err, storeErr)
	}
	if len(fx.plans.plans) != 0 {
		t.Error("nothing should be persisted when generation aborts")
	}
}

func TestGenerateWeekUpsertErrorLeavesUsageUntouched(t *testing.T) {
	fx := newGeneratorFixture(40)
	storeErr := errors.New("plan store down")
	fx.plans.upsertErr = storeErr
	profile := severeObeseProfile()

	_, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
		map[string]int{domain.Monday: 30}, neutralHistory(), domain.DefaultPreferences(), 1)
	if !errors.Is(err, storeErr) {
		t.Fatalf("GenerateWeek() error = %v, want %v", err, storeErr)
	}
	if got := fx.usage.upsertedIDs(profile.ID.Hex()); len(got) != 0 {
		t.Errorf("usage committed despite failed plan upsert: %v", got)
	}
}

func TestGenerateWeekFlagsSimilarPlans(t *testing.T) {
	fx := newGeneratorFixture(40)
	profile := severeObeseProfile()
	minutes := map[string]int{domain.Monday: 30}

	first, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
		minutes, neutralHistory(), domain.DefaultPreferences(), 5)
	if err != nil {
		t.Fatalf("first GenerateWeek() error = %v", err)
	}
	if first.TooSimilar {
		t.Error("first plan cannot be similar to anything")
	}

	// Reset usage so the next run can pick the same exercises again, then
	// regenerate the following week with the same seed.
	fx.usage.entries = map[string][]domain.ExerciseUsageEntry{}
	second, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-09",
		minutes, neutralHistory(), domain.DefaultPreferences(), 5)
	if err != nil {
		t.Fatalf("second GenerateWeek() error = %v", err)
	}
	if !second.TooSimilar {
		t.Error("identical repeat plan was not flagged as too similar")
	}
}

func TestRegenerateDayKeepsWeekUnique(t *testing.T) {
	fx := newGeneratorFixture(80)
	profile := severeObeseProfile()

	minutes := map[string]int{}
	for _, day := range domain.DaysOfWeek {
		minutes[day] = 30
	}
	plan, err := fx.gen.GenerateWeek(context.Background(), profile, "2025-06-02",
		minutes, neutralHistory(), domain.DefaultPreferences(), 3)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	otherDayIDs := map[string]bool{}
	for _, day := range domain.DaysOfWeek {
		if day == domain.Monday {
			continue
		}
		for _, slot := range plan.Days[day].Main {
			otherDayIDs[slot.ExerciseID] = true
		}
	}

	updated, err := fx.gen.RegenerateDay(context.Background(), profile, "2025-06-02", domain.Monday,
		30, neutralHistory(), domain.DefaultPreferences(), 99)
	if err != nil {
		t.Fatalf("RegenerateDay() error = %v", err)
	}

	monday := updated.Days[domain.Monday]
	if len(monday.Main) != 4 {
		t.Fatalf("regenerated main count = %d, want 4", len(monday.Main))
	}
	for _, slot := range monday.Main {
		if otherDayIDs[slot.ExerciseID] {
			t.Errorf("regenerated monday reuses %s from another day", slot.ExerciseID)
		}
	}

	// The other days are untouched.
	for _, day := range domain.DaysOfWeek {
		if day == domain.Monday {
			continue
		}
		if diff := cmp.Diff(plan.Days[day], updated.Days[day]); diff != "" {
			t.Errorf("day %s changed during regeneration (-orig +new):\n%s", day, diff)
		}
	}
}

func TestRegenerateDayUnknownDay(t *testing.T) {
	fx := newGeneratorFixture(40)

	_, err := fx.gen.RegenerateDay(context.Background(), severeObeseProfile(), "2025-06-02", "someday",
		30, neutralHistory(), domain.DefaultPreferences(), 1)
	if err == nil {
		t.Fatal("expected error for unknown day")
	}
}

func TestRegenerateDayMissingPlan(t *testing.T) {
	fx := newGeneratorFixture(40)

	_, err := fx.gen.RegenerateDay(context.Background(), severeObeseProfile(), "2025-06-02", domain.Monday,
		30, neutralHistory(), domain.DefaultPreferences(), 1)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, repository.ErrNotFound)
	}
}

func TestSplitDuration(t *testing.T) {
	tests := []struct {
		duration     int
		wantWarmup   int
		wantMain     int
		wantCooldown int
	}{
		{30, 5, 22, 3},
		{45, 6, 35, 4},
		{60, 9, 45, 6},
		{90, 13, 68, 9},
		{20, 5, 12, 3},
		{10, 5, 2, 3},
	}

	for _, tt := range tests {
		warmup, main, cooldown := splitDuration(tt.duration)
		if warmup != tt.wantWarmup || main != tt.wantMain || cooldown != tt.wantCooldown {
			t.Errorf("splitDuration(%d) = (%d, %d, %d), want (%d, %d, %d)",
				tt.duration, warmup, main, cooldown, tt.wantWarmup, tt.wantMain, tt.wantCooldown)
		}
	}
}

func TestMainExerciseCount(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{0, 3}, {19, 3}, {20, 4}, {29, 4}, {30, 5}, {44, 5}, {45, 6}, {59, 6}, {60, 8}, {89, 8}, {90, 10}, {120, 10},
	}

	for _, tt := range tests {
		if got := mainExerciseCount(tt.minutes); got != tt.want {
			t.Errorf("mainExerciseCount(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestMotivationScore(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.HistorySummary
		want    float64
	}{
		{"perfect history", domain.HistorySummary{RecentCompletionRate: 1.0, AvgSatisfaction: 10}, 1.0},
		{"neutral history", domain.HistorySummary{RecentCompletionRate: 0.5, AvgSatisfaction: 5}, 0.3},
		{"poor history", domain.HistorySummary{RecentCompletionRate: 0.0, AvgSatisfaction: 0}, -0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MotivationScore(tt.summary)
			if got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("MotivationScore(%+v) = %v, want %v", tt.summary, got, tt.want)
			}
		})
	}
}

func TestExerciseNotes(t *testing.T) {
	squat := domain.ExerciseRecord{Title: "Goblet Squat"}

	withKnee := exerciseNotes(squat, []string{"knee"})
	if !strings.Contains(withKnee, "knees tracking") {
		t.Errorf("knee cue missing from notes: %q", withKnee)
	}

	without := exerciseNotes(squat, nil)
	if without != "Focus on controlled movement and proper form." {
		t.Errorf("default note = %q", without)
	}
}
