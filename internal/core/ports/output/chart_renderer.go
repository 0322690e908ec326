package ports

import (
	"soil-nutrient-service/internal/core/domain"
)

// RenderedChart is an encoded chart image.
type RenderedChart struct {
	Kind        domain.Chart
	ContentType string
	Data        []byte
}

// ChartRenderer draws report projections as images.
type ChartRenderer interface {
	Render(kind domain.Chart, report *domain.Report) (*RenderedChart, error)
}
