package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"

	"github.com/google/uuid"
)

// Generator is the weekly plan assembler. It drives day-by-day generation
// through the cascade controller, scorer and volume adapter, and defers
// every side effect until the full seven-day structure exists.
type Generator struct {
	cascade *Cascade
	tracker *Tracker
	plans   repository.PlanRepository

	similarityThreshold float64
	now                 func() time.Time
}

// NewGenerator wires the assembler. similarityThreshold <= 0 falls back to
// the 0.7 default.
func NewGenerator(cascade *Cascade, tracker *Tracker, plans repository.PlanRepository, similarityThreshold float64) *Generator {
	if similarityThreshold <= 0 {
		similarityThreshold = SimilarityThreshold
	}
	return &Generator{
		cascade:             cascade,
		tracker:             tracker,
		plans:               plans,
		similarityThreshold: similarityThreshold,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the generator's clock. Test hook.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// GenerateWeek builds, persists and records usage for one user-week.
//
// Store errors (catalog query, usage read, plan upsert) propagate to the
// caller, which owns retry policy; the upsert is idempotent per
// (user, week) so a retry simply overwrites. Any other per-day failure,
// including a recovered panic, degrades only that day to a rest day
// labeled "error". The worst-case output is an all-rest-day plan, never an
// unhandled failure.
func (g *Generator) GenerateWeek(
	ctx context.Context,
	profile *domain.UserProfile,
	weekStart string,
	dailyMinutes map[string]int,
	summary domain.HistorySummary,
	prefs domain.PreferenceAggregate,
	seed int64,
) (*domain.WeeklyPlan, error) {
	// Snapshot the derived BMI fields without mutating the caller's profile.
	snapshot := *profile
	snapshot.RefreshBMI()

	entries, err := g.tracker.RecentUsage(ctx, snapshot.ID.Hex())
	if err != nil {
		return nil, err
	}
	recencyScores := RecencyScores(entries)
	recentIDs := UsedIDs(entries)

	rng := rand.New(rand.NewSource(seed))
	scorer := NewScorerFromRNG(rng)
	adapter := NewVolumeAdapter(rng)
	motivation := MotivationScore(summary)

	plan := &domain.WeeklyPlan{
		UserID:        snapshot.ID.Hex(),
		WeekStart:     weekStart,
		GenerationID:  uuid.NewString(),
		GeneratedAt:   g.now(),
		BMI:           snapshot.BMI,
		BMICategory:   snapshot.BMICategory,
		Days:          make(map[string]domain.DayPlan, len(domain.DaysOfWeek)),
		FallbacksUsed: make(map[string]domain.FallbackLevel, len(domain.DaysOfWeek)),
	}

	var weekIDs []string
	for _, day := range domain.DaysOfWeek {
		duration := dailyMinutes[day]
		if duration == 0 {
			plan.Days[day] = restDay()
			plan.FallbacksUsed[day] = domain.FallbackRest
			continue
		}

		dayPlan, level, relaxed, err := g.generateDay(ctx, &snapshot, day, duration, recencyScores, append(recentIDs, weekIDs...), motivation, scorer, adapter, prefs, rng)
		if err != nil {
			// Store failures abort the whole call; nothing was written.
			return nil, err
		}

		plan.Days[day] = dayPlan
		plan.FallbacksUsed[day] = level
		if relaxed {
			plan.BMISafetyRelaxed = true
			log.Printf("WARN: bmi safety filter relaxed for user %s on %s (level 5 cascade)", plan.UserID, day)
		}
		for _, slot := range dayPlan.Main {
			weekIDs = append(weekIDs, slot.ExerciseID)
		}
	}

	// Advisory dedup signal against the last three persisted plans.
	recentPlans, err := g.plans.RecentPlans(ctx, plan.UserID, 3)
	if err != nil {
		return nil, err
	}
	plan.TooSimilar, _ = TooSimilar(weekIDs, recentPlans, g.similarityThreshold)

	// Side effects only after the full week was assembled.
	if err := g.plans.UpsertPlan(ctx, plan); err != nil {
		return nil, err
	}
	if err := g.tracker.CommitWeek(ctx, plan.UserID, weekIDs, g.now()); err != nil {
		return nil, err
	}
	return plan, nil
}

// RegenerateDay rebuilds a single day of an existing plan. Exercises on
// the other days remain excluded so the no-repeat-within-week invariant
// holds; duration allocation and safety filtering are unaffected by the
// jitter seed.
func (g *Generator) RegenerateDay(
	ctx context.Context,
	profile *domain.UserProfile,
	weekStart, day string,
	duration int,
	summary domain.HistorySummary,
	prefs domain.PreferenceAggregate,
	seed int64,
) (*domain.WeeklyPlan, error) {
	if !validDay(day) {
		return nil, fmt.Errorf("unknown day %q", day)
	}

	snapshot := *profile
	snapshot.RefreshBMI()

	plan, err := g.plans.GetByUserAndWeek(ctx, snapshot.ID.Hex(), weekStart)
	if err != nil {
		return nil, err
	}

	entries, err := g.tracker.RecentUsage(ctx, snapshot.ID.Hex())
	if err != nil {
		return nil, err
	}
	recencyScores := RecencyScores(entries)

	// Exclude recent usage plus every exercise already placed on the other
	// days of this week.
	excludeIDs := UsedIDs(entries)
	for _, other := range domain.DaysOfWeek {
		if other == day {
			continue
		}
		for _, slot := range plan.Days[other].Main {
			excludeIDs = append(excludeIDs, slot.ExerciseID)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	scorer := NewScorerFromRNG(rng)
	adapter := NewVolumeAdapter(rng)
	motivation := MotivationScore(summary)

	var dayPlan domain.DayPlan
	level := domain.FallbackRest
	relaxed := false
	if duration == 0 {
		dayPlan = restDay()
	} else {
		dayPlan, level, relaxed, err = g.generateDay(ctx, &snapshot, day, duration, recencyScores, excludeIDs, motivation, scorer, adapter, prefs, rng)
		if err != nil {
			return nil, err
		}
	}

	plan.Days[day] = dayPlan
	plan.FallbacksUsed[day] = level
	if relaxed {
		plan.BMISafetyRelaxed = true
		log.Printf("WARN: bmi safety filter relaxed for user %s on %s (level 5 cascade)", plan.UserID, day)
	}
	plan.GeneratedAt = g.now()

	if err := g.plans.UpsertPlan(ctx, plan); err != nil {
		return nil, err
	}

	var dayIDs []string
	for _, slot := range dayPlan.Main {
		dayIDs = append(dayIDs, slot.ExerciseID)
	}
	if err := g.tracker.CommitWeek(ctx, plan.UserID, dayIDs, g.now()); err != nil {
		return nil, err
	}
	return plan, nil
}

// generateDay assembles one active day. A panic anywhere in the in-memory
// pipeline degrades the day to a rest day labeled "error" instead of
// aborting the week; store errors are returned.
func (g *Generator) generateDay(
	ctx context.Context,
	profile *domain.UserProfile,
	day string,
	duration int,
	recencyScores map[string]float64,
	excludeIDs []string,
	motivationScore float64,
	scorer *Scorer,
	adapter *VolumeAdapter,
	prefs domain.PreferenceAggregate,
	rng *rand.Rand,
) (dayPlan domain.DayPlan, level domain.FallbackLevel, bmiRelaxed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: day generation panicked for %s: %v", day, r)
			dayPlan = restDay()
			level = domain.FallbackError
			bmiRelaxed = false
			err = nil
		}
	}()

	warmupMinutes, mainMinutes, cooldownMinutes := splitDuration(duration)
	mainCount := mainExerciseCount(mainMinutes)

	// Buffer the pool at three candidates per slot so the scorer has room
	// to enforce variety.
	result, err := g.cascade.Select(ctx, profile, mainCount*3, excludeIDs)
	if err != nil {
		return domain.DayPlan{}, "", false, err
	}

	selected := scorer.Select(result.Candidates, profile, recencyScores, prefs, mainCount)

	main := make([]domain.ExerciseSlot, 0, len(selected))
	for _, record := range selected {
		params := adapter.Params(profile, prefs)
		main = append(main, domain.ExerciseSlot{
			ExerciseID:  record.ID,
			Name:        record.Title,
			BodyPart:    record.BodyPart,
			Equipment:   record.Equipment,
			Sets:        params.Sets,
			Reps:        params.Reps,
			RestSeconds: params.RestSeconds,
			RPERange:    params.RPERange,
			Notes:       exerciseNotes(record, profile.InjuryTypes),
			Tags:        slotTags(record),
		})
	}

	dayPlan = domain.DayPlan{
		TargetDuration: duration,
		Warmup:         buildWarmup(warmupMinutes),
		Main:           main,
		Cooldown:       buildCooldown(cooldownMinutes),
		Motivation:     motivationMessage(motivationScore, rng),
	}
	return dayPlan, result.Level, result.BMISafetyRelaxed, nil
}

// splitDuration allocates a day's minutes: warmup at least max(5, 15%),
// cooldown at least max(3, 10%), main takes the remainder.
func splitDuration(duration int) (warmup, main, cooldown int) {
	warmup = int(float64(duration) * warmupShare)
	if warmup < minWarmupMinutes {
		warmup = minWarmupMinutes
	}
	cooldown = int(float64(duration) * cooldownShare)
	if cooldown < minCooldownMinutes {
		cooldown = minCooldownMinutes
	}
	main = duration - warmup - cooldown
	if main < 0 {
		main = 0
	}
	return warmup, main, cooldown
}

// buildWarmup emits the fixed two-block warmup: a mobility flow capped at
// two minutes, then light cardio for the remaining time.
func buildWarmup(minutes int) []domain.ExerciseSlot {
	totalSecs := minutes * 60
	mobilitySecs := totalSecs / 2
	if mobilitySecs > 120 {
		mobilitySecs = 120
	}
	cardioSecs := totalSecs - mobilitySecs

	return []domain.ExerciseSlot{
		{
			ExerciseID:   domain.SlotWarmupMobility,
			Name:         "Joint Mobility Flow",
			BodyPart:     "Full Body",
			Equipment:    "Bodyweight",
			DurationSecs: mobilitySecs,
			RPERange:     [2]int{2, 3},
			Notes:        "Neck rolls, arm circles, hip circles, leg swings",
			Tags:         []string{"warmup", "mobility"},
		},
		{
			ExerciseID:   domain.SlotWarmupCardio,
			Name:         "Light Cardio",
			BodyPart:     "Full Body",
			Equipment:    "Bodyweight",
			DurationSecs: cardioSecs,
			RPERange:     [2]int{3, 4},
			Notes:        "Marching in place, jumping jacks, or light jogging",
			Tags:         []string{"warmup", "cardio"},
		},
	}
}

// buildCooldown emits the single stretch block sized to the remaining time.
func buildCooldown(minutes int) []domain.ExerciseSlot {
	return []domain.ExerciseSlot{
		{
			ExerciseID:   domain.SlotCooldownStretch,
			Name:         "Full Body Stretch",
			BodyPart:     "Full Body",
			Equipment:    "Bodyweight",
			DurationSecs: minutes * 60,
			RPERange:     [2]int{1, 2},
			Notes:        "Hold each stretch 20-30 seconds. Focus on worked muscle groups.",
			Tags:         []string{"cooldown", "flexibility"},
		},
	}
}

func restDay() domain.DayPlan {
	return domain.DayPlan{
		TargetDuration: 0,
		Warmup:         []domain.ExerciseSlot{},
		Main:           []domain.ExerciseSlot{},
		Cooldown:       []domain.ExerciseSlot{},
		Motivation:     restDayMessage,
	}
}

// MotivationScore combines recent completion rate and normalized
// satisfaction (midpoint 5 maps to 0) into [-1, 1].
func MotivationScore(summary domain.HistorySummary) float64 {
	satisfactionNorm := (summary.AvgSatisfaction - 5) / 5
	score := summary.RecentCompletionRate*0.6 + satisfactionNorm*0.4
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

// motivationMessage picks a template uniformly from the tier selected by
// the motivation score.
func motivationMessage(score float64, rng *rand.Rand) string {
	tier := "neutral"
	if score > 0.3 {
		tier = "high"
	} else if score < -0.3 {
		tier = "low"
	}
	messages := motivationTemplates[tier]
	return messages[rng.Intn(len(messages))]
}

// exerciseNotes generates injury-aware form cues for a slot.
func exerciseNotes(record domain.ExerciseRecord, injuryTypes []string) string {
	title := strings.ToLower(record.Title)
	injuries := make(map[string]bool, len(injuryTypes))
	for _, injury := range injuryTypes {
		injuries[injury] = true
	}

	var notes []string
	if injuries["knee"] && containsAny(title, "squat", "lunge", "jump") {
		notes = append(notes, "Keep knees tracking over toes. Stop if pain occurs.")
	}
	if injuries["lower_back"] && containsAny(title, "deadlift", "row", "squat") {
		notes = append(notes, "Maintain neutral spine. Engage core. Consider substituting if pain.")
	}
	if injuries["shoulder"] && containsAny(title, "press", "overhead", "raise") {
		notes = append(notes, "Reduce range of motion if discomfort. Use lighter weight.")
	}
	if injuries["wrist"] && containsAny(title, "push", "plank", "press") {
		notes = append(notes, "Use wrist wraps or modify hand position.")
	}
	if len(notes) == 0 {
		notes = append(notes, "Focus on controlled movement and proper form.")
	}
	return strings.Join(notes, " ")
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func slotTags(record domain.ExerciseRecord) []string {
	var tags []string
	if record.Type != "" {
		tags = append(tags, strings.ToLower(record.Type))
	}
	return tags
}

func validDay(day string) bool {
	for _, known := range domain.DaysOfWeek {
		if known == day {
			return true
		}
	}
	return false
}
