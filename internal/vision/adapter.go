package vision

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/fusion"
)

// Adapter despacha la imagen a todas las fuentes en paralelo y espera a que
// todas terminen (exito o fallo). La latencia total queda acotada por la
// fuente sobreviviente mas lenta, no por la suma de las tres.
type Adapter struct {
	sources []Source
	timeout time.Duration
	logger  *zap.Logger
}

// NewAdapter crea un adaptador con timeout estricto por fuente.
func NewAdapter(logger *zap.Logger, timeout time.Duration, sources ...Source) *Adapter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{
		sources: sources,
		timeout: timeout,
		logger:  logger,
	}
}

// Extract devuelve los FeatureBags de las fuentes que respondieron. Un fallo
// o timeout de una fuente no cancela las demas; si fallan todas devuelve
// *ExtractionUnavailableError con el hash de la imagen y las razones.
func (a *Adapter) Extract(ctx context.Context, image []byte) ([]domain.FeatureBag, error) {
	type outcome struct {
		source domain.SourceName
		bag    domain.FeatureBag
		err    error
	}

	results := make(chan outcome, len(a.sources))
	var wg sync.WaitGroup

	for _, src := range a.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			srcCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			bag, err := src.Analyze(srcCtx, image)
			results <- outcome{source: src.Name(), bag: bag, err: err}
		}(src)
	}

	wg.Wait()
	close(results)

	var bags []domain.FeatureBag
	reasons := make(map[domain.SourceName]string)
	for out := range results {
		if out.err != nil {
			reasons[out.source] = out.err.Error()
			a.logger.Warn("vision source failed",
				zap.String("source", string(out.source)),
				zap.Error(out.err),
			)
			continue
		}
		bags = append(bags, out.bag)
	}

	if len(bags) == 0 {
		return nil, &ExtractionUnavailableError{
			ImageHash: fusion.ImageHash(image),
			Reasons:   reasons,
		}
	}
	return bags, nil
}
