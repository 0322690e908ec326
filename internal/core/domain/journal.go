package domain

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is one recorded prediction.
type JournalEntry struct {
	ID          uuid.UUID     `json:"id"`
	Variant     string        `json:"variant"`
	Impedance   float64       `json:"impedance"`
	Predictions []Measurement `json:"predictions"`
	Warnings    []string      `json:"warnings"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewJournalEntry captures a report for the journal.
func NewJournalEntry(r *Report) *JournalEntry {
	preds := make([]Measurement, len(r.Prediction.Measurements))
	copy(preds, r.Prediction.Measurements)
	warns := make([]string, len(r.Warnings))
	copy(warns, r.Warnings)
	return &JournalEntry{
		ID:          r.ID,
		Variant:     r.Variant,
		Impedance:   r.Impedance,
		Predictions: preds,
		Warnings:    warns,
		CreatedAt:   r.GeneratedAt,
	}
}
