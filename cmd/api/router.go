package api

import (
	"net/http"

	"cpsheet-backend/internal/auth/delivery"
	authUsecase "cpsheet-backend/internal/auth/usecase"
	problemDelivery "cpsheet-backend/internal/problem/delivery"
	problemUsecase "cpsheet-backend/internal/problem/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, problemUc problemUsecase.ProblemUsecase) {
	authHandler := delivery.NewAuthHandler(authUc)
	problemHandler := problemDelivery.NewProblemHandler(problemUc)

	api := r.Group("/api/v1")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// User account routes
		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.POST("/refresh", authHandler.Refresh)

			// Secured routes
			users.POST("/logout", delivery.AuthMiddleware(authUc), authHandler.Logout)
			users.POST("/change-password", delivery.AuthMiddleware(authUc), authHandler.ChangePassword)
			users.PATCH("/update-account", delivery.AuthMiddleware(authUc), authHandler.UpdateAccount)
			users.PUT("/change-email", delivery.AuthMiddleware(authUc), authHandler.ChangeEmail)
			users.PATCH("/verify-email", delivery.AuthMiddleware(authUc), authHandler.VerifyEmail)
			users.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Session probe behind the soft guard: never rejects, answers for
		// anonymous visitors too
		api.GET("/auth/session", delivery.SoftAuthMiddleware(authUc), authHandler.Session)

		// Google OAuth routes
		oauth := api.Group("/oauth")
		{
			oauth.GET("/google", authHandler.GoogleLogin)
			oauth.GET("/callback/google", authHandler.GoogleCallback)
		}

		// Problem routes (protected)
		problems := api.Group("/problems")
		problems.Use(delivery.AuthMiddleware(authUc))
		{
			problems.POST("", problemHandler.Add)
			problems.GET("", problemHandler.List)
			problems.PUT("/:id", problemHandler.Update)
			problems.DELETE("/:id", problemHandler.Delete)
			problems.PATCH("/:id/toggle-favourite", problemHandler.ToggleFavourite)
		}
	}
}
