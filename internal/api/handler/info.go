package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Root describes the API.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  h.Localizer.GetString(h.lang(c), "api.banner"),
		"database": "PostgreSQL",
		"status":   "ativo",
		"features": gin.H{
			"async_ai_validation": true,
			"real_time_status":    true,
			"chat_integration":    true,
		},
		"endpoints": gin.H{
			"denuncias":         "/denuncias",
			"listar_denuncias":  "/denuncias/list",
			"status_validacao":  "/denuncias/{id}/status",
			"verdict_websocket": "/denuncias/{id}/ws",
			"chat":              "/chat",
			"mares":             "/mares",
			"anon_id":           "/anonid",
		},
	})
}

// HealthCheck pings the database and reports table counts.
func (h *Handler) HealthCheck(c *gin.Context) {
	stats, err := h.Health.Stats()
	if err != nil {
		log.Printf("ERROR: Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "error",
			"database":  "PostgreSQL erro: " + err.Error(),
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "PostgreSQL conectado ✅",
		"timestamp": time.Now(),
		"stats":     stats,
	})
}

// GetTides serves today's tide and sun data.
func (h *Handler) GetTides(c *gin.Context) {
	report, err := h.Tides.Today()
	if err != nil {
		log.Printf("ERROR: Failed to load tide data: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Erro ao obter dados de marés"})
		return
	}
	c.JSON(http.StatusOK, report)
}
