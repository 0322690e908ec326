package ports

import (
	"context"

	"soil-nutrient-service/internal/core/domain"
)

const (
	DefaultJournalLimit = 20
	MaxJournalLimit     = 100
)

type JournalFilter struct {
	Variant string
	Limit   int
	Offset  int
}

// Normalize applies the default page size, caps it at MaxJournalLimit and
// clamps a negative offset to zero.
func (f JournalFilter) Normalize() JournalFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultJournalLimit
	}
	if f.Limit > MaxJournalLimit {
		f.Limit = MaxJournalLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// PredictionJournal records successful predictions for audit.
type PredictionJournal interface {
	Record(ctx context.Context, entry *domain.JournalEntry) error
	List(ctx context.Context, filter JournalFilter) ([]*domain.JournalEntry, int, error)
}
