package handlers

import (
	"errors"
	"net/http"

	"soil-nutrient-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrVariantNotFound),
		errors.Is(err, domain.ErrChartDisabled),
		errors.Is(err, domain.ErrJournalDisabled):
		return http.StatusNotFound

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyImpedance),
		errors.Is(err, domain.ErrInvalidImpedance),
		errors.Is(err, domain.ErrInvalidChart):
		return http.StatusBadRequest

	// Prediction errors
	case errors.Is(err, domain.ErrPrediction),
		errors.Is(err, domain.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity

	// Service unavailable errors
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func mapDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
}
