package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"soil-nutrient-service/internal/core/domain"
	"soil-nutrient-service/internal/core/ports/output"
)

// MockPredictor is a mock of Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, batch [][]float64) ([][]float64, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float64), args.Error(1)
}

func (m *MockPredictor) Kind() domain.ArtifactKind {
	args := m.Called()
	return args.Get(0).(domain.ArtifactKind)
}

// MockModelLoader is a mock of ModelLoader.
type MockModelLoader struct {
	mock.Mock
}

func (m *MockModelLoader) Load(ctx context.Context, variant *domain.Variant) (ports.Predictor, error) {
	args := m.Called(ctx, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Predictor), args.Error(1)
}

// MockPredictionJournal is a mock of PredictionJournal.
type MockPredictionJournal struct {
	mock.Mock
}

func (m *MockPredictionJournal) Record(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPredictionJournal) List(ctx context.Context, filter ports.JournalFilter) ([]*domain.JournalEntry, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.JournalEntry), args.Int(1), args.Error(2)
}

// MockKServeClient is a mock of KServeClient.
type MockKServeClient struct {
	mock.Mock
}

func (m *MockKServeClient) GetStatus(ctx context.Context, namespace, name string) (*ports.KServeStatus, error) {
	args := m.Called(ctx, namespace, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.KServeStatus), args.Error(1)
}

func (m *MockKServeClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

// FuncPredictor adapts a function to Predictor.
type FuncPredictor func(batch [][]float64) ([][]float64, error)

func (f FuncPredictor) Predict(_ context.Context, batch [][]float64) ([][]float64, error) {
	return f(batch)
}

func (f FuncPredictor) Kind() domain.ArtifactKind {
	return domain.ArtifactLinear
}

// RampPredictor returns n outputs where output i is impedance*(i+1).
func RampPredictor(n int) FuncPredictor {
	return func(batch [][]float64) ([][]float64, error) {
		out := make([][]float64, len(batch))
		for r, row := range batch {
			out[r] = make([]float64, n)
			for i := range out[r] {
				out[r][i] = row[0] * float64(i+1)
			}
		}
		return out, nil
	}
}

// StaticLoader hands out fixed predictors or errors per variant name.
type StaticLoader struct {
	Predictors map[string]ports.Predictor
	Errors     map[string]error
}

func (l *StaticLoader) Load(_ context.Context, variant *domain.Variant) (ports.Predictor, error) {
	if err, ok := l.Errors[variant.Name]; ok {
		return nil, err
	}
	if p, ok := l.Predictors[variant.Name]; ok {
		return p, nil
	}
	return nil, domain.ErrUnsupportedArtifact
}

// MockChartRenderer mocks ports.ChartRenderer
type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) Render(kind domain.Chart, report *domain.Report) (*ports.RenderedChart, error) {
	args := m.Called(kind, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RenderedChart), args.Error(1)
}
