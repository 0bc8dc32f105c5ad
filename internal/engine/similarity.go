package engine

import "nutrix/workout-engine/internal/domain"

// SimilarityThreshold is the Jaccard overlap at or above which a proposed
// plan is flagged as too similar to a recent one. Advisory only.
const SimilarityThreshold = 0.7

// JaccardSimilarity computes |intersection| / |union| of two exercise-ID
// sets. Two empty sets are identical by convention.
func JaccardSimilarity(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for id := range setA {
		if setB[id] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// TooSimilar checks the proposed exercise-ID set against each recent plan
// and returns the highest observed similarity along with whether it
// reached the threshold. The flag is an advisory dedup signal, never an
// automatic block.
func TooSimilar(proposed []string, recent []domain.WeeklyPlan, threshold float64) (bool, float64) {
	if threshold <= 0 {
		threshold = SimilarityThreshold
	}

	highest := 0.0
	for _, plan := range recent {
		existing := plan.MainExerciseIDs()
		if len(existing) == 0 {
			continue
		}
		if similarity := JaccardSimilarity(proposed, existing); similarity > highest {
			highest = similarity
		}
	}
	return highest >= threshold, highest
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
