package engine

import (
	"context"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"
)

// DefaultUsageWindowDays is the anti-repetition lookback window.
const DefaultUsageWindowDays = 14

// Tracker is the anti-repetition tracker: it reads a user's recent
// exercise usage, derives recency scores, and commits a week's worth of
// usage after a plan has been fully assembled.
type Tracker struct {
	usage      repository.UsageRepository
	windowDays int
}

// NewTracker creates a tracker over the given usage store. windowDays <= 0
// falls back to the 14-day default.
func NewTracker(usage repository.UsageRepository, windowDays int) *Tracker {
	if windowDays <= 0 {
		windowDays = DefaultUsageWindowDays
	}
	return &Tracker{usage: usage, windowDays: windowDays}
}

// RecentUsage returns the user's usage entries inside the lookback window,
// most recent first.
func (t *Tracker) RecentUsage(ctx context.Context, userID string) ([]domain.ExerciseUsageEntry, error) {
	return t.usage.RecentUsage(ctx, userID, t.windowDays)
}

// RecencyScores converts an ordered-by-recency usage list into per-exercise
// scores: 1 - rank/total, where rank 0 is the most recent entry. The decay
// is linear by ordinal rank, not wall-clock time.
func RecencyScores(entries []domain.ExerciseUsageEntry) map[string]float64 {
	scores := make(map[string]float64, len(entries))
	total := len(entries)
	for rank, entry := range entries {
		scores[entry.ExerciseID] = 1.0 - float64(rank)/float64(total)
	}
	return scores
}

// UsedIDs extracts the exercise IDs from a usage list, preserving order.
func UsedIDs(entries []domain.ExerciseUsageEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ExerciseID)
	}
	return ids
}

// CommitWeek upserts usage for every main exercise of a generated week.
// Called exactly once, after the full plan has been assembled and
// persisted; synthetic warmup/cooldown IDs must not be passed in.
func (t *Tracker) CommitWeek(ctx context.Context, userID string, exerciseIDs []string, now time.Time) error {
	for _, exerciseID := range exerciseIDs {
		if err := t.usage.UpsertUsage(ctx, userID, exerciseID, now); err != nil {
			return err
		}
	}
	return nil
}
