package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mapmyissues/controllers"
	middlewares "mapmyissues/middleware"
)

type Handlers struct {
	Issues  *controllers.IssueController
	Auth    *controllers.AuthController
	Uploads *controllers.UploadController
	DB      controllers.Pinger
}

type Config struct {
	JWTSecret   []byte
	CORSOrigins []string
}

func SetupRoutes(r *gin.Engine, config Config, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", controllers.Health(h.DB))

	SetupAuthRoutes(r, config, h.Auth)
	SetupIssueRoutes(r, config, h.Issues)

	uploads := r.Group("/uploads", middlewares.RequireSession(config.JWTSecret))
	uploads.POST("/photo", h.Uploads.Photo)
}
