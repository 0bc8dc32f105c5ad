package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitnessLevel matches the catalog's difficulty labels.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "Beginner"
	LevelIntermediate FitnessLevel = "Intermediate"
	LevelExpert       FitnessLevel = "Expert"
)

// Goal is the user's primary training goal.
type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalStrength       Goal = "strength"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
	GoalAthletic       Goal = "athletic"
)

// BMICategory is the banded body-mass-index classification driving
// safety blacklists and RPE caps.
type BMICategory string

const (
	BMISevereUnderweight   BMICategory = "severe_underweight"
	BMIModerateUnderweight BMICategory = "moderate_underweight"
	BMIMildUnderweight     BMICategory = "mild_underweight"
	BMINormal              BMICategory = "normal"
	BMIOverweight          BMICategory = "overweight"
	BMIObese               BMICategory = "obese"
	BMISevereObese         BMICategory = "severe_obese"
)

// UserProfile represents a user of the workout engine.
// Profiles are deactivated rather than deleted.
type UserProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`

	Age      int     `bson:"age" json:"age"`
	HeightCm float64 `bson:"heightCm" json:"heightCm"`
	WeightKg float64 `bson:"weightKg" json:"weightKg"`

	// Derived from height/weight, recomputed on every profile edit.
	BMI         float64     `bson:"bmi" json:"bmi"`
	BMICategory BMICategory `bson:"bmiCategory" json:"bmiCategory"`

	FitnessLevel  FitnessLevel `bson:"fitnessLevel" json:"fitnessLevel"`
	PrimaryGoal   Goal         `bson:"primaryGoal" json:"primaryGoal"`
	EquipmentList []string     `bson:"equipmentList" json:"equipmentList"`
	InjuryTypes   []string     `bson:"injuryTypes" json:"injuryTypes"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ComputeBMI computes BMI from weight (kg) and height (cm),
// rounded to two decimal places.
func ComputeBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	bmi := weightKg / (heightM * heightM)
	return math.Round(bmi*100) / 100
}

// bmiBands maps each category to its half-open [min, max) BMI range.
var bmiBands = []struct {
	category BMICategory
	min, max float64
}{
	{BMISevereUnderweight, 0, 16},
	{BMIModerateUnderweight, 16, 17},
	{BMIMildUnderweight, 17, 18.5},
	{BMINormal, 18.5, 25},
	{BMIOverweight, 25, 30},
	{BMIObese, 30, 35},
	{BMISevereObese, 35, 100},
}

// BMICategoryFor returns the category band containing the given BMI.
func BMICategoryFor(bmi float64) BMICategory {
	for _, band := range bmiBands {
		if bmi >= band.min && bmi < band.max {
			return band.category
		}
	}
	return BMINormal
}

// RefreshBMI recomputes the derived BMI fields from the current
// height and weight.
func (u *UserProfile) RefreshBMI() {
	u.BMI = ComputeBMI(u.WeightKg, u.HeightCm)
	u.BMICategory = BMICategoryFor(u.BMI)
}

// HasEquipment reports whether the given equipment is in the user's set.
// Bodyweight always counts as available.
func (u *UserProfile) HasEquipment(equipment string) bool {
	if equipment == "Bodyweight" {
		return true
	}
	for _, e := range u.EquipmentList {
		if e == equipment {
			return true
		}
	}
	return false
}
