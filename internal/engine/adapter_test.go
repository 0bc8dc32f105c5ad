package engine

import (
	"math/rand"
	"testing"

	"nutrix/workout-engine/internal/domain"
)

func adapterProfile(level domain.FitnessLevel, goal domain.Goal, category domain.BMICategory) *domain.UserProfile {
	return &domain.UserProfile{FitnessLevel: level, PrimaryGoal: goal, BMICategory: category}
}

func TestParamsStaysInsideBaseRanges(t *testing.T) {
	adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
	profile := adapterProfile(domain.LevelBeginner, domain.GoalMuscleGain, domain.BMINormal)
	prefs := domain.DefaultPreferences()

	for i := 0; i < 50; i++ {
		params := adapter.Params(profile, prefs)
		if params.Sets < 3 || params.Sets > 4 {
			t.Fatalf("Sets = %d, want within [3, 4]", params.Sets)
		}
		if params.Reps < 8 || params.Reps > 12 {
			t.Fatalf("Reps = %d, want within [8, 12]", params.Reps)
		}
	}
}

func TestParamsLowCompletionRemovesUpperSet(t *testing.T) {
	adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
	profile := adapterProfile(domain.LevelBeginner, domain.GoalMuscleGain, domain.BMINormal)
	prefs := domain.DefaultPreferences()
	prefs.AvgCompletionRate = 0.5

	// Base range 3-4 shrinks to 3-3, so every draw lands on 3.
	for i := 0; i < 20; i++ {
		if params := adapter.Params(profile, prefs); params.Sets != 3 {
			t.Fatalf("Sets = %d, want 3 after low-completion adjustment", params.Sets)
		}
	}
}

func TestParamsLowCompletionRespectsFloor(t *testing.T) {
	adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
	// Beginner weight_loss base range is 2-3; dropping a set keeps
	// everything at the floor of 2.
	profile := adapterProfile(domain.LevelBeginner, domain.GoalWeightLoss, domain.BMINormal)
	prefs := domain.DefaultPreferences()
	prefs.AvgCompletionRate = 0.4

	for i := 0; i < 20; i++ {
		if params := adapter.Params(profile, prefs); params.Sets < setsFloor {
			t.Fatalf("Sets = %d fell below floor %d", params.Sets, setsFloor)
		}
	}
}

func TestParamsHighCompletionAddsUpperSet(t *testing.T) {
	adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
	profile := adapterProfile(domain.LevelBeginner, domain.GoalMuscleGain, domain.BMINormal)
	prefs := domain.DefaultPreferences()
	prefs.AvgCompletionRate = 0.99

	sawFive := false
	for i := 0; i < 200; i++ {
		params := adapter.Params(profile, prefs)
		if params.Sets > 5 {
			t.Fatalf("Sets = %d exceeded widened range", params.Sets)
		}
		if params.Sets == 5 {
			sawFive = true
		}
	}
	if !sawFive {
		t.Error("high completion never produced the extra set")
	}
}

func TestParamsRestAdjustsWithRPEFeedback(t *testing.T) {
	profile := adapterProfile(domain.LevelIntermediate, domain.GoalStrength, domain.BMINormal)

	tests := []struct {
		name     string
		avgRPE   float64
		wantRest int
	}{
		{"neutral rpe keeps base rest", 7.0, 150},
		{"hard sessions earn more rest", 9.0, 165},
		{"easy sessions lose rest", 5.0, 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
			prefs := domain.DefaultPreferences()
			prefs.AvgRPE = tt.avgRPE

			if params := adapter.Params(profile, prefs); params.RestSeconds != tt.wantRest {
				t.Errorf("RestSeconds = %d, want %d", params.RestSeconds, tt.wantRest)
			}
		})
	}
}

func TestParamsRestFloor(t *testing.T) {
	adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
	// Beginner endurance base rest is 45s; the easy-session reduction
	// lands exactly on the 30s floor and must not go lower.
	profile := adapterProfile(domain.LevelBeginner, domain.GoalEndurance, domain.BMINormal)
	prefs := domain.DefaultPreferences()
	prefs.AvgRPE = 4.0

	if params := adapter.Params(profile, prefs); params.RestSeconds < restFloorSeconds {
		t.Errorf("RestSeconds = %d fell below floor %d", params.RestSeconds, restFloorSeconds)
	}
}

func TestParamsRPECappedByBMICategory(t *testing.T) {
	tests := []struct {
		category domain.BMICategory
		wantMax  int
	}{
		{domain.BMISevereObese, 7},
		{domain.BMIObese, 8},
		{domain.BMIOverweight, 9},
		{domain.BMINormal, 9}, // Base max 9 is below the cap of 10
		{domain.BMISevereUnderweight, 7},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			adapter := NewVolumeAdapter(rand.New(rand.NewSource(1)))
			profile := adapterProfile(domain.LevelIntermediate, domain.GoalGeneralFitness, tt.category)

			params := adapter.Params(profile, domain.DefaultPreferences())
			if params.RPERange[0] != baseRPEMin {
				t.Errorf("RPERange min = %d, want %d", params.RPERange[0], baseRPEMin)
			}
			if params.RPERange[1] != tt.wantMax {
				t.Errorf("RPERange max = %d, want %d", params.RPERange[1], tt.wantMax)
			}
		})
	}
}

func TestVolumeRangeFallsBackToIntermediate(t *testing.T) {
	got := volumeRange("Unknown", domain.GoalStrength)
	want := setsRepsRanges[domain.LevelIntermediate][domain.GoalStrength]
	if got != want {
		t.Errorf("volumeRange fallback = %+v, want %+v", got, want)
	}
}
