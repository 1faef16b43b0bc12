package routes

import (
	"net/http"

	"climatesolutions/handlers"
	"climatesolutions/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Pages    *handlers.PageHandler
	Auth     *handlers.AuthHandler
	Projects *handlers.ProjectHandler

	// LoginLimiter throttles the credential endpoints; nil disables it.
	LoginLimiter *middleware.RateLimiter
	Metrics      http.Handler
}

// SetupRoutes mounts every route on engine. Session and logging
// middleware are expected to be installed already.
func SetupRoutes(engine *gin.Engine, h Handlers) {
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	throttle := func(c *gin.Context) { c.Next() }
	if h.LoginLimiter != nil {
		throttle = h.LoginLimiter.Middleware()
	}

	engine.GET("/", h.Pages.Home)
	engine.GET("/about", h.Pages.About)
	engine.GET("/healthz", h.Pages.Healthz)
	if h.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(h.Metrics))
	}

	engine.GET("/login", h.Auth.LoginPage)
	engine.POST("/login", throttle, h.Auth.Login)
	engine.GET("/register", h.Auth.RegisterPage)
	engine.POST("/register", throttle, h.Auth.Register)
	engine.GET("/logout", h.Auth.Logout)

	engine.GET("/solutions/projects", h.Projects.ListProjects)
	engine.GET("/solutions/projects/:id", h.Projects.ShowProject)

	protected := engine.Group("/", middleware.EnsureLogin())
	{
		protected.GET("/userHistory", h.Auth.UserHistory)
		protected.GET("/solutions/addProject", h.Projects.AddProjectPage)
		protected.POST("/solutions/addProject", h.Projects.AddProject)
		protected.GET("/solutions/editProject/:id", h.Projects.EditProjectPage)
		protected.POST("/solutions/editProject", h.Projects.EditProject)
		protected.GET("/solutions/deleteProject/:id", h.Projects.DeleteProject)
	}

	engine.NoRoute(h.Pages.NotFound)
}
