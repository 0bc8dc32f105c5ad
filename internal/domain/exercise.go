package domain

import (
	"regexp"
	"strings"
	"time"
)

// ExerciseRecord is a single entry in the exercise catalog.
// The catalog is loaded at ingestion time and queried read-only by the
// generation engine.
type ExerciseRecord struct {
	ID          string  `bson:"_id" json:"id"` // Slug derived from the title
	Title       string  `bson:"title" json:"title"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	BodyPart    string  `bson:"bodyPart" json:"bodyPart"`
	Equipment   string  `bson:"equipment" json:"equipment"`
	Level       string  `bson:"level" json:"level"` // Beginner / Intermediate / Expert
	Type        string  `bson:"type,omitempty" json:"type,omitempty"`
	Rating      float64 `bson:"rating,omitempty" json:"rating,omitempty"`

	IsBodyweight bool `bson:"isBodyweight" json:"isBodyweight"`
	IsActive     bool `bson:"isActive" json:"isActive"`

	// SafetyTags is the normalized set of blacklist/contraindication
	// keywords found in title+description, precomputed at ingestion so the
	// safety evaluator can avoid per-request substring scans. Empty for
	// records ingested before tagging existed; the evaluator falls back to
	// substring matching in that case.
	SafetyTags []string `bson:"safetyTags,omitempty" json:"safetyTags,omitempty"`

	IngestedAt time.Time `bson:"ingestedAt,omitempty" json:"ingestedAt,omitempty"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9-]`)

// ExerciseSlug normalizes an exercise title into its catalog ID.
func ExerciseSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slugCleaner.ReplaceAllString(slug, "")
}
