package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiredesk/hiredesk/internal/api/handlers"
	"github.com/hiredesk/hiredesk/internal/api/middleware"
	"github.com/hiredesk/hiredesk/internal/auth"
)

type Deps struct {
	Auth         *handlers.AuthHandler
	Applications *handlers.ApplicationHandler
	Tokens       auth.TokenManager
	Limiter      *middleware.RedisLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public auth routes, throttled against credential stuffing
	pub := r.Group("/auth")
	pub.Use(middleware.RateLimit(d.Limiter, "auth", 10, time.Minute))
	pub.POST("/register", d.Auth.Register)
	pub.POST("/login", d.Auth.Login)

	// Candidate routes (JWT + user role)
	user := r.Group("/applications")
	user.Use(middleware.JWTAuth(d.Tokens), middleware.RequireUser())
	user.POST("", d.Applications.Submit)
	user.GET("/me", d.Applications.ListOwn)

	// Reviewer routes (JWT + admin role)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuth(d.Tokens), middleware.RequireAdmin())
	admin.GET("/applications", d.Applications.ListAll)
	admin.PATCH("/applications/:id/decision", d.Applications.Decide)
	admin.GET("/applications/:id/resume", d.Applications.ResumeURL)
}
