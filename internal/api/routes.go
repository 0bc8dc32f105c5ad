package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine with all application routes.
func SetupRouter(
	jwtSecret string,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	workoutHandler *WorkoutHandler,
) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		authed := v1.Group("")
		authed.Use(AuthMiddleware(jwtSecret))
		{
			users := authed.Group("/users")
			{
				users.GET("/me", userHandler.GetProfile)
				users.PUT("/me", userHandler.UpdateProfile)
				users.DELETE("/me", userHandler.DeactivateProfile)
			}

			workouts := authed.Group("/workouts")
			{
				workouts.POST("/generate", workoutHandler.GenerateWeek)
				workouts.POST("/regenerate-day", workoutHandler.RegenerateDay)
				workouts.GET("/:weekStart", workoutHandler.GetPlan)
			}
		}
	}

	return router
}
