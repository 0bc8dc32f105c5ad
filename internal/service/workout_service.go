package service

import (
	"context"
	"errors"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/engine"
	"nutrix/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound = errors.New("no plan found for this user and week")
)

// WorkoutService is the facade the API layer calls to drive the
// generation engine. It resolves the user profile, applies preference
// defaults and delegates to the assembler.
type WorkoutService interface {
	GenerateWeek(ctx context.Context, userID primitive.ObjectID, req GenerateWeekRequest) (*domain.WeeklyPlan, error)
	RegenerateDay(ctx context.Context, userID primitive.ObjectID, req RegenerateDayRequest) (*domain.WeeklyPlan, error)
	GetPlan(ctx context.Context, userID primitive.ObjectID, weekStart string) (*domain.WeeklyPlan, error)
}

// GenerateWeekRequest carries everything one generation call needs.
// Preferences and history are computed externally from logged sessions;
// absent values fall back to neutral defaults. Seed is optional: zero
// means "derive from the clock", any other value makes the run
// reproducible.
type GenerateWeekRequest struct {
	WeekStart    string
	DailyMinutes map[string]int
	Preferences  *domain.PreferenceAggregate
	History      *domain.HistorySummary
	Seed         int64
}

// RegenerateDayRequest rebuilds a single day of an existing plan.
type RegenerateDayRequest struct {
	WeekStart   string
	Day         string
	Minutes     int
	Preferences *domain.PreferenceAggregate
	History     *domain.HistorySummary
	Seed        int64
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	userRepo  repository.UserRepository
	planRepo  repository.PlanRepository
	generator *engine.Generator
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(userRepo repository.UserRepository, planRepo repository.PlanRepository, generator *engine.Generator) WorkoutService {
	return &workoutService{
		userRepo:  userRepo,
		planRepo:  planRepo,
		generator: generator,
	}
}

// GenerateWeek produces and persists a full seven-day plan for the user.
func (s *workoutService) GenerateWeek(ctx context.Context, userID primitive.ObjectID, req GenerateWeekRequest) (*domain.WeeklyPlan, error) {
	profile, err := s.activeProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs, summary := resolveAggregates(req.Preferences, req.History)
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return s.generator.GenerateWeek(ctx, profile, req.WeekStart, req.DailyMinutes, summary, prefs, seed)
}

// RegenerateDay rebuilds one day of an already generated week.
func (s *workoutService) RegenerateDay(ctx context.Context, userID primitive.ObjectID, req RegenerateDayRequest) (*domain.WeeklyPlan, error) {
	profile, err := s.activeProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs, summary := resolveAggregates(req.Preferences, req.History)
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	plan, err := s.generator.RegenerateDay(ctx, profile, req.WeekStart, req.Day, req.Minutes, summary, prefs, seed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// GetPlan fetches the persisted plan for one (user, week) key.
func (s *workoutService) GetPlan(ctx context.Context, userID primitive.ObjectID, weekStart string) (*domain.WeeklyPlan, error) {
	plan, err := s.planRepo.GetByUserAndWeek(ctx, userID.Hex(), weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// activeProfile loads the user and rejects deactivated profiles.
func (s *workoutService) activeProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrUserInactive
	}
	return profile, nil
}

// resolveAggregates applies neutral defaults when the caller supplied no
// preference aggregate or history summary.
func resolveAggregates(prefs *domain.PreferenceAggregate, history *domain.HistorySummary) (domain.PreferenceAggregate, domain.HistorySummary) {
	resolvedPrefs := domain.DefaultPreferences()
	if prefs != nil {
		resolvedPrefs = *prefs
	}
	resolvedHistory := domain.HistorySummary{RecentCompletionRate: 0.5, AvgSatisfaction: 5.0}
	if history != nil {
		resolvedHistory = *history
	}
	return resolvedPrefs, resolvedHistory
}
