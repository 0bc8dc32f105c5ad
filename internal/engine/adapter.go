package engine

import (
	"math/rand"

	"nutrix/workout-engine/internal/domain"
)

// SlotParams holds the adapted per-exercise volume and rest parameters.
type SlotParams struct {
	Sets        int
	Reps        int
	RestSeconds int
	RPERange    [2]int
}

// VolumeAdapter derives sets/reps/rest/RPE bounds from the base
// (level x goal) tables, adjusted by the user's historical completion rate
// and RPE feedback. It shares the generation RNG so that a fixed seed
// yields fixed set/rep draws.
type VolumeAdapter struct {
	rng *rand.Rand
}

// NewVolumeAdapter creates an adapter over the shared generation RNG.
func NewVolumeAdapter(rng *rand.Rand) *VolumeAdapter {
	return &VolumeAdapter{rng: rng}
}

// Params computes the prescription for one exercise slot.
func (a *VolumeAdapter) Params(profile *domain.UserProfile, prefs domain.PreferenceAggregate) SlotParams {
	ranges := volumeRange(profile.FitnessLevel, profile.PrimaryGoal)

	// Completion-rate adaptation: struggling users lose an upper set,
	// users who finish everything gain one.
	if prefs.AvgCompletionRate < completionRateLow {
		if ranges.setsMax-1 >= setsFloor {
			ranges.setsMax--
		}
		if ranges.setsMin > ranges.setsMax {
			ranges.setsMin = ranges.setsMax
		}
	} else if prefs.AvgCompletionRate > completionRateHigh {
		if ranges.setsMax+1 <= setsCeiling {
			ranges.setsMax++
		}
	}

	sets := a.randBetween(ranges.setsMin, ranges.setsMax)
	reps := a.randBetween(ranges.repsMin, ranges.repsMax)

	rest := baseRest(profile.FitnessLevel, profile.PrimaryGoal)

	// RPE feedback adaptation: consistently hard sessions earn more rest,
	// consistently easy ones less, floored at 30 seconds.
	if prefs.AvgRPE > rpeHigh {
		rest += restAdjustSeconds
	} else if prefs.AvgRPE < rpeLow {
		rest -= restAdjustSeconds
		if rest < restFloorSeconds {
			rest = restFloorSeconds
		}
	}

	rpeMax := baseRPEMax
	if capped := RPECap(profile.BMICategory); capped < rpeMax {
		rpeMax = capped
	}

	return SlotParams{
		Sets:        sets,
		Reps:        reps,
		RestSeconds: rest,
		RPERange:    [2]int{baseRPEMin, rpeMax},
	}
}

// randBetween draws uniformly from [low, high] inclusive.
func (a *VolumeAdapter) randBetween(low, high int) int {
	if high <= low {
		return low
	}
	return low + a.rng.Intn(high-low+1)
}

// volumeRange looks up the base sets/reps range with sensible defaults for
// unknown level/goal combinations.
func volumeRange(level domain.FitnessLevel, goal domain.Goal) setsRepsRange {
	byGoal, ok := setsRepsRanges[level]
	if !ok {
		byGoal = setsRepsRanges[domain.LevelIntermediate]
	}
	if ranges, ok := byGoal[goal]; ok {
		return ranges
	}
	return setsRepsRange{3, 4, 10, 12}
}

// baseRest maps the goal to its rest category and looks up the
// (level x category) table.
func baseRest(level domain.FitnessLevel, goal domain.Goal) int {
	category := restEndurance
	switch goal {
	case domain.GoalMuscleGain:
		category = restHypertrophy
	case domain.GoalStrength:
		category = restStrength
	}

	byCategory, ok := restPeriods[level]
	if !ok {
		byCategory = restPeriods[domain.LevelIntermediate]
	}
	if rest, ok := byCategory[category]; ok {
		return rest
	}
	return 60
}
