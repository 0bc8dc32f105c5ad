package api

import (
	"errors"
	"log"
	"net/http"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type generateWeekRequest struct {
	WeekStart    string                      `json:"weekStart" binding:"required"`
	DailyMinutes map[string]int              `json:"dailyMinutes" binding:"required"`
	Preferences  *domain.PreferenceAggregate `json:"preferences"`
	History      *domain.HistorySummary      `json:"history"`
	Seed         int64                       `json:"seed"`
}

type regenerateDayRequest struct {
	WeekStart   string                      `json:"weekStart" binding:"required"`
	Day         string                      `json:"day" binding:"required"`
	Minutes     int                         `json:"minutes" binding:"required"`
	Preferences *domain.PreferenceAggregate `json:"preferences"`
	History     *domain.HistorySummary      `json:"history"`
	Seed        int64                       `json:"seed"`
}

// GenerateWeek handles POST /api/v1/workouts/generate
func (h *WorkoutHandler) GenerateWeek(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
		return
	}

	var req generateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	plan, err := h.workoutService.GenerateWeek(c.Request.Context(), userID, service.GenerateWeekRequest{
		WeekStart:    req.WeekStart,
		DailyMinutes: req.DailyMinutes,
		Preferences:  req.Preferences,
		History:      req.History,
		Seed:         req.Seed,
	})
	if err != nil {
		h.respondWithServiceError(c, userID.Hex(), err, "generate plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// RegenerateDay handles POST /api/v1/workouts/regenerate-day
func (h *WorkoutHandler) RegenerateDay(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
		return
	}

	var req regenerateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	plan, err := h.workoutService.RegenerateDay(c.Request.Context(), userID, service.RegenerateDayRequest{
		WeekStart:   req.WeekStart,
		Day:         req.Day,
		Minutes:     req.Minutes,
		Preferences: req.Preferences,
		History:     req.History,
		Seed:        req.Seed,
	})
	if err != nil {
		h.respondWithServiceError(c, userID.Hex(), err, "regenerate day")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// GetPlan handles GET /api/v1/workouts/:weekStart
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
		return
	}

	weekStart := c.Param("weekStart")
	if weekStart == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weekStart path parameter is required"})
		return
	}

	plan, err := h.workoutService.GetPlan(c.Request.Context(), userID, weekStart)
	if err != nil {
		h.respondWithServiceError(c, userID.Hex(), err, "fetch plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *WorkoutHandler) respondWithServiceError(c *gin.Context, userID string, err error, action string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No plan found for this week"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrUserInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "Profile is deactivated"})
	case errors.Is(err, service.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Failed to %s for user %s: %v", action, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
