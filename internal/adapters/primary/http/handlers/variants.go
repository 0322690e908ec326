package handlers

import (
	"net/http"

	"soil-nutrient-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListVariants(c *gin.Context) {
	variants := h.dashboardSvc.Variants()
	items := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		status, err := h.dashboardSvc.Status(v.Name)
		if err != nil {
			mapDomainError(c, err)
			return
		}
		items = append(items, dto.ToVariantResponse(v, status))
	}

	c.JSON(http.StatusOK, dto.ListVariantsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetVariant(c *gin.Context) {
	name := c.Param("variant")
	v, err := h.dashboardSvc.Variant(name)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	status, err := h.dashboardSvc.Status(name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVariantResponse(v, status))
}

func (h *Handler) ReloadVariant(c *gin.Context) {
	name := c.Param("variant")
	v, err := h.dashboardSvc.Variant(name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	status, err := h.dashboardSvc.Reload(c.Request.Context(), name)
	if err != nil {
		log.WithError(err).WithField("variant", name).Error("reload variant failed")
		mapDomainError(c, err)
		return
	}

	code := http.StatusOK
	if !status.Available {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, dto.ToVariantResponse(v, status))
}
