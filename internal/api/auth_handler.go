package api

import (
	"errors"
	"log"
	"net/http"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type registerRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=8"`
	Age           int      `json:"age" binding:"required"`
	HeightCm      float64  `json:"heightCm" binding:"required"`
	WeightKg      float64  `json:"weightKg" binding:"required"`
	FitnessLevel  string   `json:"fitnessLevel"`
	PrimaryGoal   string   `json:"primaryGoal"`
	EquipmentList []string `json:"equipmentList"`
	InjuryTypes   []string `json:"injuryTypes"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Age           int      `json:"age"`
	HeightCm      float64  `json:"heightCm"`
	WeightKg      float64  `json:"weightKg"`
	BMI           float64  `json:"bmi"`
	BMICategory   string   `json:"bmiCategory"`
	FitnessLevel  string   `json:"fitnessLevel"`
	PrimaryGoal   string   `json:"primaryGoal"`
	EquipmentList []string `json:"equipmentList"`
	InjuryTypes   []string `json:"injuryTypes"`
}

// --- Handler Methods ---

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Age:           req.Age,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		FitnessLevel:  domain.FitnessLevel(req.FitnessLevel),
		PrimaryGoal:   domain.Goal(req.PrimaryGoal),
		EquipmentList: req.EquipmentList,
		InjuryTypes:   req.InjuryTypes,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, service.ErrValidationFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			log.Printf("ERROR: Failed to register user %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, mapUserToResponse(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		} else {
			log.Printf("ERROR: Login failed for %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: mapUserToResponse(user)})
}
