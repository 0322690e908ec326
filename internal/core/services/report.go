package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"soil-nutrient-service/internal/core/domain"
)

// ComposeReport merges an impedance and its prediction into a report,
// applying the variant's range policy to the predicted values.
func ComposeReport(variant *domain.Variant, impedance float64, vec domain.PredictionVector, now time.Time) *domain.Report {
	measurements := make([]domain.Measurement, len(vec.Measurements))
	copy(measurements, vec.Measurements)

	var warnings []string
	if variant.RangePolicy != domain.RangePolicyNone && variant.RangePolicy != "" {
		for i, m := range measurements {
			b := domain.BoundsFor(m.Name)
			if b.Contains(m.Value) {
				continue
			}
			switch variant.RangePolicy {
			case domain.RangePolicyClamp:
				clamped := b.Clamp(m.Value)
				warnings = append(warnings, fmt.Sprintf("%s: %.4g clamped to %.4g", m.Name, m.Value, clamped))
				measurements[i].Value = clamped
			case domain.RangePolicyFlag:
				warnings = append(warnings, fmt.Sprintf("%s: %.4g outside [%g, %g]", m.Name, m.Value, b.Min, b.Max))
			}
		}
	}

	return &domain.Report{
		ID:          uuid.New(),
		Variant:     variant.Name,
		Impedance:   impedance,
		Prediction:  domain.PredictionVector{Measurements: measurements},
		Warnings:    warnings,
		GeneratedAt: now,
	}
}
