package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter создает gin.Engine с middleware и маршрутами API v1; metrics может быть nil
func NewRouter(h *Handler, log *logrus.Logger, metrics *Metrics, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(log), CORSMiddleware(allowedOrigins))
	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	return router
}

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты для управления инцидентами (CRUD)
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id", h.updateIncident)
		incidents.DELETE("/:id", h.deleteIncident)
	}

	// Маршрут Health-check
	api.GET("/health", h.healthCheck)
}
