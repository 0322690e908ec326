package handlers

import (
	"soil-nutrient-service/internal/core/ports/output"
	"soil-nutrient-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	dashboardSvc *services.DashboardService
	charts       ports.ChartRenderer
}

func New(dashboardSvc *services.DashboardService, charts ports.ChartRenderer) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		charts:       charts,
	}
}

// RegisterRoutes mounts the JSON API.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Variants
	r.GET("/variants", h.ListVariants)
	r.GET("/variants/:variant", h.GetVariant)
	r.POST("/variants/:variant/reload", h.ReloadVariant)

	// Predictions
	r.POST("/variants/:variant/predict", h.Predict)
	r.GET("/variants/:variant/charts/:kind", h.GetChart)
	r.GET("/variants/:variant/history", h.ListHistory)
}

// RegisterPages mounts the HTML dashboards.
func (h *Handler) RegisterPages(r *gin.Engine) {
	r.SetHTMLTemplate(pageTemplates)

	r.GET("/", h.Index)
	r.GET("/variants/:variant", h.ShowDashboard)
	r.POST("/variants/:variant", h.SubmitDashboard)
}
