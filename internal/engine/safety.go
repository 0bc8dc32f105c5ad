package engine

import (
	"strings"

	"nutrix/workout-engine/internal/domain"
)

// FilterForSafety removes candidates whose title or description matches the
// BMI-category blacklist or any contraindication keyword for the user's
// injuries. Pure function, no side effects.
//
// Records carrying precomputed safety tags are checked against the tag set
// directly; untagged records fall back to substring scanning.
func FilterForSafety(candidates []domain.ExerciseRecord, bmiCategory domain.BMICategory, injuryTypes []string) []domain.ExerciseRecord {
	keywords := blockedKeywords(bmiCategory, injuryTypes)
	if len(keywords) == 0 {
		return candidates
	}

	safe := make([]domain.ExerciseRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if !matchesAny(candidate, keywords) {
			safe = append(safe, candidate)
		}
	}
	return safe
}

// FilterForInjuries applies only the injury contraindication keywords,
// skipping the BMI blacklist. Used at cascade level five, where the BMI
// title filter is dropped but injuries are still honored.
func FilterForInjuries(candidates []domain.ExerciseRecord, injuryTypes []string) []domain.ExerciseRecord {
	return FilterForSafety(candidates, domain.BMINormal, injuryTypes)
}

// blockedKeywords collects the effective exclusion keyword list for a user.
func blockedKeywords(bmiCategory domain.BMICategory, injuryTypes []string) []string {
	var keywords []string
	keywords = append(keywords, bmiSafetyBlacklist[bmiCategory]...)
	for _, injury := range injuryTypes {
		keywords = append(keywords, injuryContraindications[injury]...)
	}
	return keywords
}

// matchesAny reports whether any keyword appears in the record. With
// precomputed safety tags this is a set lookup; otherwise a
// case-insensitive substring scan over title + description.
func matchesAny(record domain.ExerciseRecord, keywords []string) bool {
	if len(record.SafetyTags) > 0 {
		tagged := make(map[string]bool, len(record.SafetyTags))
		for _, tag := range record.SafetyTags {
			tagged[tag] = true
		}
		for _, keyword := range keywords {
			if tagged[keyword] {
				return true
			}
		}
		return false
	}

	haystack := strings.ToLower(record.Title + " " + record.Description)
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// SafetyTagsFor returns every known blacklist/contraindication keyword that
// appears in the record's title or description. Ingestion calls this once
// per record so request-time filtering is O(candidates).
func SafetyTagsFor(record domain.ExerciseRecord) []string {
	haystack := strings.ToLower(record.Title + " " + record.Description)

	seen := map[string]bool{}
	var tags []string
	add := func(keywords []string) {
		for _, keyword := range keywords {
			if !seen[keyword] && strings.Contains(haystack, keyword) {
				seen[keyword] = true
				tags = append(tags, keyword)
			}
		}
	}

	for _, keywords := range bmiSafetyBlacklist {
		add(keywords)
	}
	for _, keywords := range injuryContraindications {
		add(keywords)
	}
	return tags
}
