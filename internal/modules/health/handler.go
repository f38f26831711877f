package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service string
}

func NewHandler(service string) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": h.service,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Check)
	r.GET("/api/health", h.Check)
}
