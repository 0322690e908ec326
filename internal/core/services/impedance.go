package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"soil-nutrient-service/internal/core/domain"
)

// ParseImpedance converts user input into the model's single feature.
// Blank input yields ErrEmptyImpedance; anything that does not parse to a
// finite float yields ErrInvalidImpedance wrapping the cause.
func ParseImpedance(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.ErrEmptyImpedance
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidImpedance, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", domain.ErrInvalidImpedance, s)
	}
	return v, nil
}
