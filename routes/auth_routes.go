package routes

import (
	"github.com/gin-gonic/gin"

	"mapmyissues/controllers"
	middlewares "mapmyissues/middleware"
)

func SetupAuthRoutes(r *gin.Engine, config Config, auth *controllers.AuthController) {
	group := r.Group("/auth")
	group.POST("/register", auth.Register)
	group.POST("/login", auth.Login)
	group.POST("/logout", middlewares.OptionalSession(config.JWTSecret), auth.Logout)
	group.GET("/session", middlewares.RequireSession(config.JWTSecret), auth.Session)
}

func SetupIssueRoutes(r *gin.Engine, config Config, issues *controllers.IssueController) {
	public := r.Group("/issues", middlewares.OptionalSession(config.JWTSecret))
	public.GET("", issues.List)
	public.GET("/dashboard", issues.Dashboard)
	public.GET("/insights", issues.Insights)
	public.GET("/nearby", issues.Nearby)
	public.GET("/stream", issues.Stream)
	public.GET("/:id", issues.Get)

	private := r.Group("/issues", middlewares.RequireSession(config.JWTSecret))
	private.POST("", issues.Create)
	private.PUT("/:id", issues.Update)
	private.DELETE("/:id", issues.Delete)
	private.POST("/:id/vote", issues.Vote)
	private.POST("/:id/advance", issues.Advance)
	private.POST("/:id/validate", issues.Validate)
}
