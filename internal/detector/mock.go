package detector

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
)

// MockClient is a scriptable Predictor, StatsFetcher and Uploader for tests
// and the offline demo panel.
type MockClient struct {
	PredictFn     func(ctx context.Context, name rsn.Name) (model.Prediction, error)
	FetchStatsFn  func(ctx context.Context, name rsn.Name) (*model.PlayerStats, error)
	UploadNamesFn func(ctx context.Context, reporter string, sightings []model.Sighting) (int, error)

	PredictCalls []rsn.Name
	StatsCalls   []rsn.Name
	UploadCalls  []UploadCall
	mu           sync.Mutex
}

// UploadCall records the parameters of an UploadNames call.
type UploadCall struct {
	Reporter  string
	Sightings []model.Sighting
}

// NewMockClient creates a mock that answers with synthetic predictions.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Predict implements Predictor.
func (m *MockClient) Predict(ctx context.Context, name rsn.Name) (model.Prediction, error) {
	m.mu.Lock()
	m.PredictCalls = append(m.PredictCalls, name)
	fn := m.PredictFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, name)
	}
	return SyntheticPrediction(name), nil
}

// FetchStats implements StatsFetcher.
func (m *MockClient) FetchStats(ctx context.Context, name rsn.Name) (*model.PlayerStats, error) {
	m.mu.Lock()
	m.StatsCalls = append(m.StatsCalls, name)
	fn := m.FetchStatsFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, name)
	}
	return nil, nil
}

// UploadNames implements Uploader.
func (m *MockClient) UploadNames(ctx context.Context, reporter string, sightings []model.Sighting) (int, error) {
	m.mu.Lock()
	m.UploadCalls = append(m.UploadCalls, UploadCall{Reporter: reporter, Sightings: sightings})
	fn := m.UploadNamesFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, reporter, sightings)
	}
	return len(sightings), nil
}

// PredictCount returns how many predictions were requested.
func (m *MockClient) PredictCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PredictCalls)
}

var syntheticLabels = []string{"Real_Player", "Fishing_bot", "Mining_bot", "Magic_bot", "Agility_bot"}

// SyntheticPrediction derives a stable fake prediction from name.
func SyntheticPrediction(name rsn.Name) model.Prediction {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum32()

	top := int(sum % uint32(len(syntheticLabels)))
	confidence := 0.5 + float64(sum%50)/100

	breakdown := make(model.Breakdown, 0, len(syntheticLabels))
	rest := (1 - confidence) / float64(len(syntheticLabels)-1)
	for i, label := range syntheticLabels {
		score := rest
		if i == top {
			score = confidence
		}
		breakdown = append(breakdown, model.CategoryScore{Label: label, Score: score})
	}

	return model.Prediction{
		PlayerName: name.String(),
		Label:      syntheticLabels[top],
		Confidence: confidence,
		Breakdown:  breakdown,
	}
}
