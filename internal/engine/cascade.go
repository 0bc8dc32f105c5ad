package engine

import (
	"context"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"
)

// DefaultQueryLimit bounds every catalog query issued by the cascade.
const DefaultQueryLimit = 1000

// CascadeResult is the outcome of one cascade run: a candidate pool and
// the first fallback level whose safety-filtered pool was large enough.
type CascadeResult struct {
	Candidates []domain.ExerciseRecord
	Level      domain.FallbackLevel

	// BMISafetyRelaxed is the audit signal for level five: the pool was
	// produced without the BMI title blacklist (injury filters retained).
	BMISafetyRelaxed bool
}

// Cascade is the six-level constraint-relaxation controller. Each level
// widens the filter until the safety-filtered pool reaches minRequired;
// level six is guaranteed non-empty, so the cascade never fails.
type Cascade struct {
	catalog    repository.ExerciseCatalog
	queryLimit int64
}

// NewCascade creates a cascade controller over the injected catalog.
// queryLimit <= 0 falls back to the 1000-record default.
func NewCascade(catalog repository.ExerciseCatalog, queryLimit int64) *Cascade {
	if queryLimit <= 0 {
		queryLimit = DefaultQueryLimit
	}
	return &Cascade{catalog: catalog, queryLimit: queryLimit}
}

// Select runs the cascade for one day. excludeIDs carries both the user's
// recent-usage IDs and the IDs already placed earlier in the week being
// generated. Store errors propagate; every other outcome yields a
// non-empty pool.
func (c *Cascade) Select(ctx context.Context, profile *domain.UserProfile, minRequired int, excludeIDs []string) (CascadeResult, error) {
	equipment := profile.EquipmentList
	if len(equipment) == 0 {
		equipment = []string{"Bodyweight"}
	}
	levels := []string{string(profile.FitnessLevel)}
	goals := []domain.Goal{profile.PrimaryGoal}

	filter := repository.ExerciseFilter{
		EquipmentIn: equipment,
		LevelIn:     levels,
		ExcludeIDs:  excludeIDs,
		ActiveOnly:  true,
	}

	// Level 1: perfect match.
	pool, err := c.catalog.Query(ctx, filter, c.queryLimit)
	if err != nil {
		return CascadeResult{}, err
	}
	safe := FilterForSafety(filterByGoals(pool, goals), profile.BMICategory, profile.InjuryTypes)
	if len(safe) >= minRequired {
		return CascadeResult{Candidates: safe, Level: domain.FallbackPerfect}, nil
	}

	// Level 2: relax equipment via the hierarchy table. The expanded set
	// persists into every later level.
	filter.EquipmentIn = expandEquipment(equipment)
	pool, err = c.catalog.Query(ctx, filter, c.queryLimit)
	if err != nil {
		return CascadeResult{}, err
	}
	safe = FilterForSafety(filterByGoals(pool, goals), profile.BMICategory, profile.InjuryTypes)
	if len(safe) >= minRequired {
		return CascadeResult{Candidates: safe, Level: domain.FallbackEquipmentRelaxed}, nil
	}

	// Level 3: widen difficulty to adjacent levels.
	filter.LevelIn = adjacentLevels(profile.FitnessLevel)
	pool, err = c.catalog.Query(ctx, filter, c.queryLimit)
	if err != nil {
		return CascadeResult{}, err
	}
	safe = FilterForSafety(filterByGoals(pool, goals), profile.BMICategory, profile.InjuryTypes)
	if len(safe) >= minRequired {
		return CascadeResult{Candidates: safe, Level: domain.FallbackDifficultyRelaxed}, nil
	}

	// Level 4: union candidate pools across the related goals. Only the
	// in-memory goal partition widens, so the level-3 pool is reused
	// instead of re-issuing an identical store query.
	goals = append(goals, relatedGoals[profile.PrimaryGoal]...)
	safe = FilterForSafety(filterByGoals(pool, goals), profile.BMICategory, profile.InjuryTypes)
	if len(safe) >= minRequired {
		return CascadeResult{Candidates: safe, Level: domain.FallbackRelatedGoals}, nil
	}

	// Level 5: drop the BMI title blacklist, keep injury contraindications.
	// Callers must surface the audit flag: this can resurface exercises
	// previously excluded for the user's BMI category.
	safe = FilterForInjuries(filterByGoals(pool, goals), profile.InjuryTypes)
	if len(safe) >= minRequired {
		return CascadeResult{Candidates: safe, Level: domain.FallbackBMIRelaxed, BMISafetyRelaxed: true}, nil
	}

	// Level 6: emergency bodyweight.
	candidates, err := c.emergencyPool(ctx, profile, excludeIDs)
	if err != nil {
		return CascadeResult{}, err
	}
	return CascadeResult{Candidates: candidates, Level: domain.FallbackEmergencyBodyweight}, nil
}

// emergencyPool queries beginner/intermediate bodyweight exercises; if the
// catalog comes back empty it falls through to the hardcoded minimal set,
// which is never filtered so the result cannot be empty.
func (c *Cascade) emergencyPool(ctx context.Context, profile *domain.UserProfile, excludeIDs []string) ([]domain.ExerciseRecord, error) {
	filter := repository.ExerciseFilter{
		EquipmentIn: []string{"Bodyweight"},
		LevelIn:     []string{string(domain.LevelBeginner), string(domain.LevelIntermediate)},
		ExcludeIDs:  excludeIDs,
		ActiveOnly:  true,
	}

	pool, err := c.catalog.Query(ctx, filter, 20)
	if err != nil {
		return nil, err
	}

	safe := FilterForInjuries(pool, profile.InjuryTypes)
	if len(safe) > 0 {
		return safe, nil
	}
	return emergencyExercises, nil
}

// expandEquipment unions the user's equipment with its hierarchy
// substitutes, preserving first-seen order.
func expandEquipment(equipment []string) []string {
	seen := make(map[string]bool, len(equipment))
	expanded := make([]string, 0, len(equipment)+4)
	add := func(item string) {
		if !seen[item] {
			seen[item] = true
			expanded = append(expanded, item)
		}
	}
	for _, item := range equipment {
		add(item)
	}
	for _, item := range equipment {
		for _, substitute := range equipmentHierarchy[item] {
			add(substitute)
		}
	}
	add("Bodyweight")
	return expanded
}

// adjacentLevels widens a fitness level to itself plus its neighbors.
func adjacentLevels(level domain.FitnessLevel) []string {
	switch level {
	case domain.LevelBeginner:
		return []string{string(domain.LevelBeginner), string(domain.LevelIntermediate)}
	case domain.LevelExpert:
		return []string{string(domain.LevelIntermediate), string(domain.LevelExpert)}
	default:
		return []string{string(domain.LevelBeginner), string(domain.LevelIntermediate), string(domain.LevelExpert)}
	}
}

// filterByGoals keeps candidates whose catalog type serves any goal in the
// set. Goals without a type restriction (general_fitness) accept
// everything, as do records with no type metadata.
func filterByGoals(candidates []domain.ExerciseRecord, goals []domain.Goal) []domain.ExerciseRecord {
	allowed := map[string]bool{}
	for _, goal := range goals {
		types, restricted := goalTypeSets[goal]
		if !restricted {
			return candidates
		}
		for _, t := range types {
			allowed[t] = true
		}
	}

	matched := make([]domain.ExerciseRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Type == "" || allowed[candidate.Type] {
			matched = append(matched, candidate)
		}
	}
	return matched
}
