package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"soil-nutrient-service/internal/core/domain"
)

// ============================================================================
// Prediction DTOs
// ============================================================================

// ImpedanceText accepts the impedance as a JSON string or number and keeps
// the raw text so the server-side validator sees exactly what was sent.
type ImpedanceText string

func (t *ImpedanceText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ImpedanceText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("impedance must be a string or number")
	}
	*t = ImpedanceText(n.String())
	return nil
}

type PredictRequest struct {
	Impedance ImpedanceText `json:"impedance"`
}

type ReportResponse struct {
	ID          uuid.UUID              `json:"id"`
	Variant     string                 `json:"variant"`
	Impedance   float64                `json:"impedance"`
	GeneratedAt time.Time              `json:"generated_at"`
	Table       domain.Table           `json:"table"`
	Bar         *domain.CategorySeries `json:"bar,omitempty"`
	Line        []domain.LinePoint     `json:"line,omitempty"`
	Radar       *domain.RadarSeries    `json:"radar,omitempty"`
	Warnings    []string               `json:"warnings"`
	Message     string                 `json:"message"`
}

const SuccessMessage = "Prediction successful! Check the charts for details."

// ToReportResponse includes only the projections the variant renders.
func ToReportResponse(v *domain.Variant, r *domain.Report) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID,
		Variant:     r.Variant,
		Impedance:   r.Impedance,
		GeneratedAt: r.GeneratedAt,
		Table:       r.Table(),
		Warnings:    r.Warnings,
		Message:     SuccessMessage,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if v.HasChart(domain.ChartBar) {
		bar := r.Bar()
		resp.Bar = &bar
	}
	if v.HasChart(domain.ChartLine) {
		resp.Line = r.Line()
	}
	if v.HasChart(domain.ChartRadar) {
		radar := r.RadarProjection()
		resp.Radar = &radar
	}
	return resp
}

// ============================================================================
// Variant DTOs
// ============================================================================

type VariantResponse struct {
	Name        string             `json:"name"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Schema      domain.Schema      `json:"schema"`
	Charts      []domain.Chart     `json:"charts"`
	RangePolicy domain.RangePolicy `json:"range_policy"`
	Model       domain.ModelStatus `json:"model"`
}

type ListVariantsResponse struct {
	Items []VariantResponse `json:"items"`
	Total int               `json:"total"`
}

func ToVariantResponse(v *domain.Variant, status domain.ModelStatus) VariantResponse {
	return VariantResponse{
		Name:        v.Name,
		Title:       v.Title,
		Description: v.Description,
		Schema:      v.Schema,
		Charts:      v.Charts,
		RangePolicy: v.RangePolicy,
		Model:       status,
	}
}

// ============================================================================
// History DTOs
// ============================================================================

type ListHistoryResponse struct {
	Items      []*domain.JournalEntry `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}
