package api

import (
	authUsecase "cpsheet-backend/internal/auth/usecase"
	problemUsecase "cpsheet-backend/internal/problem/usecase"
	"cpsheet-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	problemUsecase problemUsecase.ProblemUsecase
	config         *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, problemUc problemUsecase.ProblemUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:    authUc,
		problemUsecase: problemUc,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.problemUsecase)

	return r.Run(addr)
}
