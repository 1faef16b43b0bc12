package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static pages, the 404 fallback and the health check.
type PageHandler struct {
	// Checks are run by Healthz; each reports whether a store is reachable.
	Checks map[string]func(ctx context.Context) error
}

func (h *PageHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, "home", PageData{Page: "/"})
}

func (h *PageHandler) About(c *gin.Context) {
	render(c, http.StatusOK, "about", PageData{Page: "/about"})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	renderNotFound(c, notFoundMessage)
}

func (h *PageHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := gin.H{}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	c.JSON(status, result)
}
