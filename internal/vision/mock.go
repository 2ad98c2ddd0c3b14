package vision

import (
	"context"

	"stylist-ai/internal/domain"
)

// MockSource permite tests y harnesses sin servicios reales.
type MockSource struct {
	SourceName domain.SourceName
	Bag        domain.FeatureBag
	Err        error
	Delay      func(ctx context.Context) error
}

func (m *MockSource) Name() domain.SourceName {
	return m.SourceName
}

func (m *MockSource) Analyze(ctx context.Context, _ []byte) (domain.FeatureBag, error) {
	if m.Delay != nil {
		if err := m.Delay(ctx); err != nil {
			return domain.FeatureBag{}, err
		}
	}
	return m.Bag, m.Err
}
