package domain

import "time"

// Weekday keys for plan maps. Kept lowercase to match the stored documents.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// DaysOfWeek is the fixed generation order.
var DaysOfWeek = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// FallbackLevel labels which cascade level produced a day's candidate pool.
type FallbackLevel string

const (
	FallbackPerfect             FallbackLevel = "perfect"
	FallbackEquipmentRelaxed    FallbackLevel = "equipment_relaxed"
	FallbackDifficultyRelaxed   FallbackLevel = "difficulty_relaxed"
	FallbackRelatedGoals        FallbackLevel = "related_goals"
	FallbackBMIRelaxed          FallbackLevel = "bmi_relaxed"
	FallbackEmergencyBodyweight FallbackLevel = "emergency_bodyweight"
	FallbackRest                FallbackLevel = "rest"
	FallbackError               FallbackLevel = "error"
)

// ExerciseSlot is one prescribed exercise inside a day plan.
// Warmup and cooldown slots use synthetic IDs and leave Sets/Reps at zero.
type ExerciseSlot struct {
	ExerciseID   string `bson:"exerciseId" json:"exerciseId"`
	Name         string `bson:"name" json:"name"`
	BodyPart     string `bson:"bodyPart,omitempty" json:"bodyPart,omitempty"`
	Equipment    string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Sets         int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps         int    `bson:"reps,omitempty" json:"reps,omitempty"`
	DurationSecs int    `bson:"durationSecs,omitempty" json:"durationSecs,omitempty"`
	RestSeconds  int    `bson:"restSeconds" json:"restSeconds"`
	// RPERange is [min, max] on the 1-10 perceived-exertion scale.
	RPERange [2]int   `bson:"rpeRange" json:"rpeRange"`
	Notes    string   `bson:"notes,omitempty" json:"notes,omitempty"`
	Tags     []string `bson:"tags,omitempty" json:"tags,omitempty"`
}

// Synthetic slot IDs excluded from usage tracking.
const (
	SlotWarmupMobility  = "warmup_mobility"
	SlotWarmupCardio    = "warmup_cardio"
	SlotCooldownStretch = "cooldown_stretch"
)

// DayPlan is the generated structure for a single day.
type DayPlan struct {
	TargetDuration int            `bson:"targetDuration" json:"targetDuration"` // Minutes
	Warmup         []ExerciseSlot `bson:"warmup" json:"warmup"`
	Main           []ExerciseSlot `bson:"main" json:"main"`
	Cooldown       []ExerciseSlot `bson:"cooldown" json:"cooldown"`
	Motivation     string         `bson:"motivation" json:"motivation"`
}

// IsRestDay reports whether the day has no scheduled work.
func (d DayPlan) IsRestDay() bool {
	return d.TargetDuration == 0 && len(d.Main) == 0
}

// WeeklyPlan is one generated week for one user. Plans are keyed by
// (userId, weekStart); regeneration replaces the whole document.
type WeeklyPlan struct {
	UserID       string    `bson:"userId" json:"userId"`
	WeekStart    string    `bson:"weekStart" json:"weekStart"` // ISO date, Monday
	GenerationID string    `bson:"generationId" json:"generationId"`
	GeneratedAt  time.Time `bson:"generatedAt" json:"generatedAt"`

	// BMI snapshot at generation time.
	BMI         float64     `bson:"bmi" json:"bmi"`
	BMICategory BMICategory `bson:"bmiCategory" json:"bmiCategory"`

	Days          map[string]DayPlan       `bson:"days" json:"days"`
	FallbacksUsed map[string]FallbackLevel `bson:"fallbacksUsed" json:"fallbacksUsed"`

	// BMISafetyRelaxed records that at least one day reached cascade level
	// five and regenerated without the BMI title blacklist. Audit signal.
	BMISafetyRelaxed bool `bson:"bmiSafetyRelaxed,omitempty" json:"bmiSafetyRelaxed,omitempty"`

	// TooSimilar is the advisory flag from the similarity checker.
	TooSimilar bool `bson:"tooSimilar,omitempty" json:"tooSimilar,omitempty"`
}

// MainExerciseIDs returns every main-section exercise ID across the week,
// in day order. Synthetic warmup/cooldown IDs never appear in main.
func (p *WeeklyPlan) MainExerciseIDs() []string {
	var ids []string
	for _, day := range DaysOfWeek {
		dayPlan, ok := p.Days[day]
		if !ok {
			continue
		}
		for _, slot := range dayPlan.Main {
			ids = append(ids, slot.ExerciseID)
		}
	}
	return ids
}
