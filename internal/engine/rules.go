// Package engine implements the weekly workout generation engine: safety
// filtering, cascade fallback candidate selection, recency-aware scoring,
// volume/rest adaptation and plan assembly. It is a library with no
// transport surface; stores are injected through the repository interfaces.
package engine

import "nutrix/workout-engine/internal/domain"

// bmiSafetyBlacklist lists keywords excluded per BMI category. Matching is
// case-insensitive substring against title + description.
var bmiSafetyBlacklist = map[domain.BMICategory][]string{
	domain.BMISevereObese: {
		"jump", "jumping", "sprint", "sprinting", "burpee", "box jump",
		"box-jump", "plyometric", "high-impact", "running", "hiit",
	},
	domain.BMIObese: {
		"jump", "jumping", "sprint", "sprinting", "burpee", "box jump",
		"box-jump", "plyometric", "high-impact", "running",
	},
	domain.BMISevereUnderweight: {
		"heavy lifting", "max strength", "powerlifting", "1rm", "one-rep max",
	},
	domain.BMIModerateUnderweight: {
		"heavy lifting", "max strength", "powerlifting", "1rm",
	},
}

// injuryContraindications maps injury types to excluded keywords.
var injuryContraindications = map[string][]string{
	"lower_back": {"deadlift", "good morning", "goodmorning", "hyperextension", "heavy squat", "back extension"},
	"knee":       {"deep squat", "lunge", "leg press", "running", "jump", "pistol", "bulgarian"},
	"shoulder":   {"overhead press", "military press", "handstand", "dip", "snatch", "jerk", "upright row"},
	"wrist":      {"push-up", "pushup", "plank", "handstand", "front rack", "heavy press"},
	"ankle":      {"running", "jump", "calf raise", "box jump", "sprint"},
	"hip":        {"deep squat", "sumo", "wide stance", "split"},
	"elbow":      {"tricep extension", "overhead", "heavy curl", "close-grip", "dip"},
	"neck":       {"overhead", "heavy shrug", "upright row"},
}

// bmiRPECaps is the max allowed RPE per BMI category.
var bmiRPECaps = map[domain.BMICategory]int{
	domain.BMISevereObese:         7,
	domain.BMIObese:               8,
	domain.BMIOverweight:          9,
	domain.BMINormal:              10,
	domain.BMIMildUnderweight:     9,
	domain.BMIModerateUnderweight: 8,
	domain.BMISevereUnderweight:   7,
}

// equipmentHierarchy lists substitute equipment used when the cascade
// relaxes the equipment constraint.
var equipmentHierarchy = map[string][]string{
	"Barbell":       {"Dumbbell", "Kettlebells", "Bodyweight"},
	"Dumbbell":      {"Kettlebells", "Bodyweight"},
	"Kettlebells":   {"Dumbbell", "Bodyweight"},
	"Machine":       {"Cable", "Dumbbell", "Bodyweight"},
	"Cable":         {"Bands", "Dumbbell", "Bodyweight"},
	"Bands":         {"Bodyweight"},
	"Medicine Ball": {"Dumbbell", "Bodyweight"},
	"Exercise Ball": {"Bodyweight"},
	"Other":         {"Bodyweight"},
}

// relatedGoals is the fixed mapping used at cascade level four.
var relatedGoals = map[domain.Goal][]domain.Goal{
	domain.GoalWeightLoss:     {domain.GoalEndurance, domain.GoalGeneralFitness},
	domain.GoalMuscleGain:     {domain.GoalStrength, domain.GoalGeneralFitness},
	domain.GoalStrength:       {domain.GoalMuscleGain, domain.GoalAthletic},
	domain.GoalEndurance:      {domain.GoalWeightLoss, domain.GoalGeneralFitness},
	domain.GoalGeneralFitness: {domain.GoalWeightLoss, domain.GoalEndurance},
	domain.GoalAthletic:       {domain.GoalStrength, domain.GoalMuscleGain},
}

// goalTypeSets maps a goal to the catalog exercise types serving it. A nil
// entry means the goal accepts any type. general_fitness is unrestricted;
// so is any goal absent from the map.
var goalTypeSets = map[domain.Goal][]string{
	domain.GoalMuscleGain: {"Strength", "Powerlifting", "Olympic Weightlifting", "Strongman"},
	domain.GoalStrength:   {"Strength", "Powerlifting", "Olympic Weightlifting", "Strongman"},
	domain.GoalWeightLoss: {"Cardio", "Plyometrics", "Strength"},
	domain.GoalEndurance:  {"Cardio", "Plyometrics"},
	domain.GoalAthletic:   {"Plyometrics", "Strength", "Olympic Weightlifting"},
}

// Duration split shares. Warmup has a 5 minute floor, cooldown 3 minutes.
const (
	warmupShare   = 0.15
	cooldownShare = 0.10

	minWarmupMinutes   = 5
	minCooldownMinutes = 3
)

// durationBucket maps a main-section duration range to an exercise count.
type durationBucket struct {
	minMinutes int // Inclusive
	maxMinutes int // Exclusive
	count      int
}

var exerciseCountBuckets = []durationBucket{
	{0, 20, 3},
	{20, 30, 4},
	{30, 45, 5},
	{45, 60, 6},
	{60, 90, 8},
	{90, 999, 10},
}

// mainExerciseCount returns the number of main exercises for a
// main-section duration in minutes.
func mainExerciseCount(mainMinutes int) int {
	for _, bucket := range exerciseCountBuckets {
		if mainMinutes >= bucket.minMinutes && mainMinutes < bucket.maxMinutes {
			return bucket.count
		}
	}
	return 5
}

// setsRepsRange is an inclusive range pair for sets and reps.
type setsRepsRange struct {
	setsMin, setsMax int
	repsMin, repsMax int
}

var setsRepsRanges = map[domain.FitnessLevel]map[domain.Goal]setsRepsRange{
	domain.LevelBeginner: {
		domain.GoalWeightLoss:     {2, 3, 12, 15},
		domain.GoalMuscleGain:     {3, 4, 8, 12},
		domain.GoalStrength:       {3, 4, 5, 8},
		domain.GoalEndurance:      {2, 3, 15, 20},
		domain.GoalGeneralFitness: {2, 3, 10, 15},
		domain.GoalAthletic:       {3, 4, 6, 10},
	},
	domain.LevelIntermediate: {
		domain.GoalWeightLoss:     {3, 4, 12, 15},
		domain.GoalMuscleGain:     {3, 5, 8, 12},
		domain.GoalStrength:       {4, 5, 4, 6},
		domain.GoalEndurance:      {3, 4, 15, 20},
		domain.GoalGeneralFitness: {3, 4, 10, 12},
		domain.GoalAthletic:       {4, 5, 5, 8},
	},
	domain.LevelExpert: {
		domain.GoalWeightLoss:     {4, 5, 12, 15},
		domain.GoalMuscleGain:     {4, 6, 6, 12},
		domain.GoalStrength:       {5, 6, 3, 5},
		domain.GoalEndurance:      {4, 5, 15, 25},
		domain.GoalGeneralFitness: {4, 5, 10, 12},
		domain.GoalAthletic:       {5, 6, 4, 8},
	},
}

// Rest categories for the rest-period table.
const (
	restStrength    = "strength"
	restHypertrophy = "hypertrophy"
	restEndurance   = "endurance"
)

var restPeriods = map[domain.FitnessLevel]map[string]int{
	domain.LevelBeginner: {
		restStrength:    120,
		restHypertrophy: 60,
		restEndurance:   45,
	},
	domain.LevelIntermediate: {
		restStrength:    150,
		restHypertrophy: 90,
		restEndurance:   60,
	},
	domain.LevelExpert: {
		restStrength:    180,
		restHypertrophy: 90,
		restEndurance:   60,
	},
}

// Adaptation thresholds for completion-rate and RPE feedback.
const (
	completionRateLow  = 0.7
	completionRateHigh = 0.95
	rpeHigh            = 8.5
	rpeLow             = 6.0

	setsFloor   = 2
	setsCeiling = 6

	restAdjustSeconds = 15
	restFloorSeconds  = 30
)

// Scoring weights.
const (
	baseScore              = 1.0
	recencyPenaltyWeight   = 0.8
	preferredBodyPartBoost = 0.2
	equipmentMatchBoost    = 0.15
	satisfactionWeight     = 0.1
	jitterMax              = 0.05

	// At most this many main exercises may share a body part per day,
	// unless relaxation is needed to fill the requested count.
	bodyPartCap = 2
)

// Default RPE display bounds before the BMI cap is applied.
const (
	baseRPEMin = 6
	baseRPEMax = 9
)

// Motivation message tiers, chosen by motivation score.
var motivationTemplates = map[string][]string{
	"high": {
		"You're crushing it — keep the momentum!",
		"Another week, another PR incoming.",
		"Your consistency is paying off.",
		"Solid work — aim for crisp reps; you're one step closer.",
		"You've got this — push for that extra set.",
		"On fire! Let's build on this streak.",
		"This is what dedication looks like. Proud of you!",
	},
	"neutral": {
		"Solid work — aim for crisp reps; you're one step closer.",
		"Small wins add up — stay consistent.",
		"Focus on form today.",
		"One step closer to your goals.",
		"Quality over quantity — nail each rep.",
		"Steady progress beats perfection.",
		"Every rep counts. Every set matters.",
		"Show up and do the work. That's all that matters.",
	},
	"low": {
		"Short session today — just show up.",
		"Any movement is progress.",
		"Start light — consistency beats perfection.",
		"Take it easy today — recovery matters.",
		"Baby steps — you've got this.",
		"Tough week, but you showed up. That's what counts.",
		"Every journey has ups and downs. Keep pushing.",
		"It's okay to struggle. Just don't quit.",
	},
}

const restDayMessage = "Rest and recovery day. Your body grows stronger during rest."

// emergencyExercises is the hardcoded last-resort pool used when the
// catalog itself returns nothing at cascade level six.
var emergencyExercises = []domain.ExerciseRecord{
	{ID: "pushups", Title: "Push-ups", BodyPart: "Chest", Equipment: "Bodyweight", Level: "Beginner", Type: "Compound", IsBodyweight: true, IsActive: true},
	{ID: "bodyweight-squats", Title: "Bodyweight Squats", BodyPart: "Quadriceps", Equipment: "Bodyweight", Level: "Beginner", Type: "Compound", IsBodyweight: true, IsActive: true},
	{ID: "plank", Title: "Plank", BodyPart: "Abdominals", Equipment: "Bodyweight", Level: "Beginner", Type: "Isometric", IsBodyweight: true, IsActive: true},
	{ID: "lunges", Title: "Lunges", BodyPart: "Quadriceps", Equipment: "Bodyweight", Level: "Beginner", Type: "Compound", IsBodyweight: true, IsActive: true},
	{ID: "mountain-climbers", Title: "Mountain Climbers", BodyPart: "Abdominals", Equipment: "Bodyweight", Level: "Intermediate", Type: "Cardio", IsBodyweight: true, IsActive: true},
	{ID: "glute-bridges", Title: "Glute Bridges", BodyPart: "Glutes", Equipment: "Bodyweight", Level: "Beginner", Type: "Isolation", IsBodyweight: true, IsActive: true},
	{ID: "wall-sit", Title: "Wall Sit", BodyPart: "Quadriceps", Equipment: "Bodyweight", Level: "Beginner", Type: "Isometric", IsBodyweight: true, IsActive: true},
}

// AllInjuryTypes lists the injury keys the evaluator knows about, for
// request validation at the API layer.
func AllInjuryTypes() []string {
	types := make([]string, 0, len(injuryContraindications))
	for injury := range injuryContraindications {
		types = append(types, injury)
	}
	return types
}

// RPECap returns the max RPE allowed for the BMI category.
func RPECap(category domain.BMICategory) int {
	if capped, ok := bmiRPECaps[category]; ok {
		return capped
	}
	return 10
}
