package handlers

import (
	"net/http"
	"strconv"

	"soil-nutrient-service/internal/adapters/primary/http/dto"
	"soil-nutrient-service/internal/core/domain"
	"soil-nutrient-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Predict(c *gin.Context) {
	name := c.Param("variant")
	v, err := h.dashboardSvc.Variant(name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.dashboardSvc.Predict(c.Request.Context(), name, string(req.Impedance))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(v, report))
}

func (h *Handler) GetChart(c *gin.Context) {
	name := c.Param("variant")
	v, err := h.dashboardSvc.Variant(name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	kind := domain.Chart(c.Param("kind"))
	if !kind.IsValid() || kind == domain.ChartTable {
		mapDomainError(c, domain.ErrInvalidChart)
		return
	}
	if !v.HasChart(kind) {
		mapDomainError(c, domain.ErrChartDisabled)
		return
	}

	report, err := h.dashboardSvc.Compute(c.Request.Context(), name, c.Query("impedance"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	img, err := h.charts.Render(kind, report)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (h *Handler) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.JournalFilter{
		Limit:  limit,
		Offset: offset,
	}.Normalize()

	entries, total, err := h.dashboardSvc.History(c.Request.Context(), c.Param("variant"), filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.JournalEntry{}
	}

	c.JSON(http.StatusOK, dto.ListHistoryResponse{
		Items:      entries,
		Total:      total,
		PageSize:   filter.Limit,
		NextOffset: filter.Offset + len(entries),
	})
}
