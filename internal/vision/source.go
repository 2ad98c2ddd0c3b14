// Package vision implementa el adaptador de extraccion de features: tres
// fuentes independientes de analisis de imagen detras de una sola interfaz.
package vision

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"stylist-ai/internal/domain"
)

// Source es una senal de analisis de imagen. Analyze es puro
// request/response; el caching vive una capa arriba, en fusion.
type Source interface {
	Name() domain.SourceName
	Analyze(ctx context.Context, image []byte) (domain.FeatureBag, error)
}

// ExtractionUnavailableError indica que las tres fuentes fallaron para una
// imagen. Es fatal para esa imagen pero reintentable mas tarde.
type ExtractionUnavailableError struct {
	ImageHash string
	Reasons   map[domain.SourceName]string
}

func (e *ExtractionUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Reasons))
	for source, reason := range e.Reasons {
		parts = append(parts, fmt.Sprintf("%s: %s", source, reason))
	}
	sort.Strings(parts)
	return fmt.Sprintf("feature extraction unavailable for image %s (%s)", e.ImageHash, strings.Join(parts, "; "))
}
