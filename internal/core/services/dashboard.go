package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
)

// DashboardService runs the validate, predict and compose pipeline for a
// variant.
type DashboardService struct {
	registry *ModelRegistryService
	journal  output.PredictionJournal
	now      func() time.Time
}

// NewDashboardService wires the pipeline. journal may be nil.
func NewDashboardService(registry *ModelRegistryService, journal output.PredictionJournal) *DashboardService {
	return &DashboardService{
		registry: registry,
		journal:  journal,
		now:      time.Now,
	}
}

// Predict runs the pipeline and journals the resulting report.
func (s *DashboardService) Predict(ctx context.Context, variantName, raw string) (*domain.Report, error) {
	report, err := s.Compute(ctx, variantName, raw)
	if err != nil {
		return nil, err
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, domain.NewJournalEntry(report)); err != nil {
			log.WithError(err).WithField("variant", variantName).Warn("failed to record prediction")
		}
	}

	return report, nil
}

// Compute validates raw, predicts with the variant's model and composes the
// report without journaling it. An unavailable model short-circuits before
// the input is looked at.
func (s *DashboardService) Compute(ctx context.Context, variantName, raw string) (*domain.Report, error) {
	variant, err := s.registry.Variant(variantName)
	if err != nil {
		return nil, err
	}

	predictor, err := s.registry.Predictor(variantName)
	if err != nil {
		return nil, err
	}

	impedance, err := ParseImpedance(raw)
	if err != nil {
		return nil, err
	}

	vec, err := PredictVector(ctx, predictor, variant.Schema, impedance)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"variant":   variantName,
			"impedance": impedance,
		}).Warn("error predicting soil nutrients")
		return nil, err
	}

	return ComposeReport(variant, impedance, vec, s.now()), nil
}

// History lists journaled predictions of a variant, newest first.
func (s *DashboardService) History(ctx context.Context, variantName string, filter output.JournalFilter) ([]*domain.JournalEntry, int, error) {
	if _, err := s.registry.Variant(variantName); err != nil {
		return nil, 0, err
	}
	if s.journal == nil {
		return nil, 0, domain.ErrJournalDisabled
	}
	filter = filter.Normalize()
	filter.Variant = variantName
	return s.journal.List(ctx, filter)
}

func (s *DashboardService) Variant(name string) (*domain.Variant, error) {
	return s.registry.Variant(name)
}

func (s *DashboardService) Variants() []*domain.Variant {
	return s.registry.Variants()
}

func (s *DashboardService) Status(name string) (domain.ModelStatus, error) {
	return s.registry.Status(name)
}

func (s *DashboardService) Statuses() []domain.ModelStatus {
	return s.registry.Statuses()
}

// Reload loads the variant's artifact again, replacing the current model on
// success and marking it unavailable on failure.
func (s *DashboardService) Reload(ctx context.Context, name string) (domain.ModelStatus, error) {
	return s.registry.Reload(ctx, name)
}
