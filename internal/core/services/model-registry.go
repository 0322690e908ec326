package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
)

const maxConcurrentLoads = 4

type modelEntry struct {
	variant   *domain.Variant
	predictor output.Predictor
	status    domain.ModelStatus
	loadErr   error
}

// ModelRegistryService owns the configured variants and the predictor loaded
// for each of them. A variant whose artifact failed to load stays registered
// but unavailable.
type ModelRegistryService struct {
	loader  output.ModelLoader
	now     func() time.Time
	mu      sync.RWMutex
	order   []string
	entries map[string]*modelEntry
}

func NewModelRegistryService(loader output.ModelLoader, variants []domain.Variant) (*ModelRegistryService, error) {
	s := &ModelRegistryService{
		loader:  loader,
		now:     time.Now,
		entries: make(map[string]*modelEntry, len(variants)),
	}

	for i := range variants {
		v := variants[i]
		v.Schema = v.Schema.Clone()
		if len(v.Charts) == 0 {
			v.Charts = domain.DefaultCharts()
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.entries[v.Name]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateVariant, v.Name)
		}
		s.order = append(s.order, v.Name)
		s.entries[v.Name] = &modelEntry{
			variant: &v,
			status: domain.ModelStatus{
				Variant: v.Name,
				Error:   "model not loaded",
			},
			loadErr: fmt.Errorf("%w: not loaded", domain.ErrModelUnavailable),
		}
	}
	return s, nil
}

// LoadAll loads every variant's artifact. Failures are isolated to their
// variant and reported in the returned statuses.
func (s *ModelRegistryService) LoadAll(ctx context.Context) []domain.ModelStatus {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for _, name := range s.order {
		name := name
		g.Go(func() error {
			s.load(gctx, name)
			return nil
		})
	}
	_ = g.Wait()

	return s.Statuses()
}

// Reload loads a single variant again.
func (s *ModelRegistryService) Reload(ctx context.Context, name string) (domain.ModelStatus, error) {
	if _, err := s.Variant(name); err != nil {
		return domain.ModelStatus{}, err
	}
	s.load(ctx, name)
	return s.Status(name)
}

func (s *ModelRegistryService) load(ctx context.Context, name string) {
	s.mu.RLock()
	entry := s.entries[name]
	s.mu.RUnlock()

	p, err := s.safeLoad(ctx, entry.variant)

	status := domain.ModelStatus{Variant: name, LoadedAt: s.now()}
	var loadErr error
	if err != nil {
		status.Error = err.Error()
		loadErr = fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
		p = nil
		log.WithError(err).WithFields(log.Fields{
			"variant":  name,
			"artifact": entry.variant.ArtifactPath,
		}).Error("error loading the model")
	} else {
		status.Available = true
		status.Kind = p.Kind()
		log.WithFields(log.Fields{
			"variant": name,
			"kind":    p.Kind(),
			"columns": entry.variant.Schema.Len(),
		}).Info("model loaded")
	}

	s.mu.Lock()
	entry.predictor = p
	entry.status = status
	entry.loadErr = loadErr
	s.mu.Unlock()
}

func (s *ModelRegistryService) safeLoad(ctx context.Context, v *domain.Variant) (p output.Predictor, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("loader panicked: %v", r)
		}
	}()
	p, err = s.loader.Load(ctx, v)
	if err == nil && p == nil {
		err = errors.New("loader returned no model")
	}
	return p, err
}

// Variant returns the configuration of a variant.
func (s *ModelRegistryService) Variant(name string) (*domain.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[name]
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	return entry.variant, nil
}

// Variants lists the configured variants in configuration order.
func (s *ModelRegistryService) Variants() []*domain.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Variant, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.entries[name].variant)
	}
	return out
}

// Predictor returns the loaded model of a variant, or an error wrapping
// ErrModelUnavailable if loading failed.
func (s *ModelRegistryService) Predictor(name string) (output.Predictor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[name]
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	if entry.predictor == nil {
		return nil, entry.loadErr
	}
	return entry.predictor, nil
}

func (s *ModelRegistryService) Status(name string) (domain.ModelStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[name]
	if !ok {
		return domain.ModelStatus{}, domain.ErrVariantNotFound
	}
	return entry.status, nil
}

func (s *ModelRegistryService) Statuses() []domain.ModelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ModelStatus, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.entries[name].status)
	}
	return out
}
