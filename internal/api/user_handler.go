package api

import (
	"errors"
	"log"
	"net/http"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	Name          *string   `json:"name"`
	Age           *int      `json:"age"`
	HeightCm      *float64  `json:"heightCm"`
	WeightKg      *float64  `json:"weightKg"`
	FitnessLevel  *string   `json:"fitnessLevel"`
	PrimaryGoal   *string   `json:"primaryGoal"`
	EquipmentList *[]string `json:"equipmentList"`
	InjuryTypes   *[]string `json:"injuryTypes"`
}

func mapUserToResponse(user *domain.UserProfile) userResponse {
	return userResponse{
		ID:            user.ID.Hex(),
		Name:          user.Name,
		Email:         user.Email,
		Age:           user.Age,
		HeightCm:      user.HeightCm,
		WeightKg:      user.WeightKg,
		BMI:           user.BMI,
		BMICategory:   string(user.BMICategory),
		FitnessLevel:  string(user.FitnessLevel),
		PrimaryGoal:   string(user.PrimaryGoal),
		EquipmentList: user.EquipmentList,
		InjuryTypes:   user.InjuryTypes,
	}
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("ERROR: Failed to get profile for %s: %v", userID.Hex(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	c.JSON(http.StatusOK, mapUserToResponse(user))
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	update := service.ProfileUpdate{
		Name:          req.Name,
		Age:           req.Age,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		EquipmentList: req.EquipmentList,
		InjuryTypes:   req.InjuryTypes,
	}
	if req.FitnessLevel != nil {
		level := domain.FitnessLevel(*req.FitnessLevel)
		update.FitnessLevel = &level
	}
	if req.PrimaryGoal != nil {
		goal := domain.Goal(*req.PrimaryGoal)
		update.PrimaryGoal = &goal
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrValidationFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("ERROR: Failed to update profile for %s: %v", userID.Hex(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, mapUserToResponse(user))
}

// DeactivateProfile handles DELETE /api/v1/users/me
func (h *UserHandler) DeactivateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
		return
	}

	if err := h.userService.DeactivateProfile(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("ERROR: Failed to deactivate profile for %s: %v", userID.Hex(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate profile"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
