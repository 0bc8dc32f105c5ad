package domain

import "time"

// ExerciseUsageEntry records how recently and how often a user has been
// prescribed an exercise. Entries are upserted after every successful plan
// generation and never deleted; relevance simply decays once LastUsed falls
// outside the lookback window.
type ExerciseUsageEntry struct {
	UserID     string    `bson:"userId" json:"userId"`
	ExerciseID string    `bson:"exerciseId" json:"exerciseId"`
	LastUsed   time.Time `bson:"lastUsed" json:"lastUsed"`
	FirstUsed  time.Time `bson:"firstUsed" json:"firstUsed"`
	UseCount   int       `bson:"useCount" json:"useCount"`
}

// PreferenceAggregate is computed externally from logged sessions and
// supplied per generation call.
type PreferenceAggregate struct {
	AvgCompletionRate  float64  `json:"avgCompletionRate"`
	AvgRPE             float64  `json:"avgRPE"`
	PreferredBodyParts []string `json:"preferredBodyParts"`
	// BodyPartSatisfaction values are roughly in [-1, 1].
	BodyPartSatisfaction map[string]float64 `json:"bodyPartSatisfaction"`
}

// DefaultPreferences are used when a user has no logged sessions yet.
func DefaultPreferences() PreferenceAggregate {
	return PreferenceAggregate{
		AvgCompletionRate:    0.8,
		AvgRPE:               7.0,
		PreferredBodyParts:   nil,
		BodyPartSatisfaction: map[string]float64{},
	}
}

// HistorySummary feeds the motivation score: recent completion rate in
// [0, 1] and average satisfaction on a 0-10 scale centered at 5.
type HistorySummary struct {
	RecentCompletionRate float64 `json:"recentCompletionRate"`
	AvgSatisfaction      float64 `json:"avgSatisfaction"`
}
