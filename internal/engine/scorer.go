package engine

import (
	"math/rand"
	"sort"
	"strings"

	"nutrix/workout-engine/internal/domain"
)

// Scorer ranks candidate exercises and greedily selects a day's main set.
// The jitter RNG is injected so tests (and day regeneration) can be
// deterministic for a fixed seed.
type Scorer struct {
	rng *rand.Rand
}

// NewScorer creates a scorer with its own seeded RNG.
func NewScorer(seed int64) *Scorer {
	return &Scorer{rng: rand.New(rand.NewSource(seed))}
}

// NewScorerFromRNG creates a scorer sharing an existing RNG, so one seed
// drives a whole generation run.
func NewScorerFromRNG(rng *rand.Rand) *Scorer {
	return &Scorer{rng: rng}
}

// scoredExercise pairs a candidate with its computed score.
type scoredExercise struct {
	record domain.ExerciseRecord
	score  float64
}

// rank computes the weighted score for every candidate:
// base 1.0, minus recency penalty (squared recency score x 0.8), plus
// preferred-body-part, equipment-fit and satisfaction boosts, plus a small
// uniform jitter for tie-breaking.
func (s *Scorer) rank(
	candidates []domain.ExerciseRecord,
	profile *domain.UserProfile,
	recencyScores map[string]float64,
	prefs domain.PreferenceAggregate,
) []scoredExercise {
	preferred := make(map[string]bool, len(prefs.PreferredBodyParts))
	for _, bodyPart := range prefs.PreferredBodyParts {
		preferred[strings.ToLower(bodyPart)] = true
	}

	scored := make([]scoredExercise, 0, len(candidates))
	for _, candidate := range candidates {
		score := baseScore
		bodyPart := strings.ToLower(candidate.BodyPart)

		// Recency penalty, squared for sharper decay. The most recently
		// used exercise loses close to 80% of its base score.
		if recency, ok := recencyScores[candidate.ID]; ok {
			score -= recency * recency * recencyPenaltyWeight
		}

		if preferred[bodyPart] {
			score += preferredBodyPartBoost
		}

		if candidate.IsBodyweight || profile.HasEquipment(candidate.Equipment) {
			score += equipmentMatchBoost
		}

		if satisfaction, ok := prefs.BodyPartSatisfaction[bodyPart]; ok {
			score += satisfaction * satisfactionWeight
		}

		score += s.rng.Float64() * jitterMax

		scored = append(scored, scoredExercise{record: candidate, score: score})
	}

	// Stable sort so equal scores keep candidate order and a fixed seed
	// yields a fixed selection.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// Select ranks the candidates and greedily picks up to count exercises,
// allowing at most two per body part. If the cap starves selection below
// the requested count, it is relaxed and remaining slots fill by score
// order regardless of body part.
func (s *Scorer) Select(
	candidates []domain.ExerciseRecord,
	profile *domain.UserProfile,
	recencyScores map[string]float64,
	prefs domain.PreferenceAggregate,
	count int,
) []domain.ExerciseRecord {
	scored := s.rank(candidates, profile, recencyScores, prefs)

	selected := make([]domain.ExerciseRecord, 0, count)
	picked := make(map[string]bool, count)
	perBodyPart := map[string]int{}

	for _, entry := range scored {
		if len(selected) >= count {
			break
		}
		bodyPart := strings.ToLower(entry.record.BodyPart)
		if perBodyPart[bodyPart] >= bodyPartCap {
			continue
		}
		selected = append(selected, entry.record)
		picked[entry.record.ID] = true
		perBodyPart[bodyPart]++
	}

	// Cap starved the selection; fill the rest by score order.
	if len(selected) < count {
		for _, entry := range scored {
			if len(selected) >= count {
				break
			}
			if picked[entry.record.ID] {
				continue
			}
			selected = append(selected, entry.record)
			picked[entry.record.ID] = true
		}
	}

	return selected
}
