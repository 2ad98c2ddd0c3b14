// Package fusion mezcla los FeatureBags de varias fuentes en un set de
// consenso por garment, resolviendo desacuerdos por confianza y prioridad de
// fuente segun el namespace, con cache write-through por hash de imagen.
package fusion

import (
	"context"
	"sort"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/scoring"
)

// DefaultMinConfidence es el umbral que elimina tags espurios que una sola
// fuente pudo haber alucinado.
const DefaultMinConfidence = 0.35

// sourceWeights define la confiabilidad de cada fuente por namespace. El
// modelo de moda pesa mas para estilo y categoria; el heuristico de color
// manda en colores; material se promedia entre las tres.
var sourceWeights = map[string]map[domain.SourceName]float64{
	domain.NamespaceStyle: {
		domain.SourceFashionModel:   1.0,
		domain.SourceVisionModel:    0.5,
		domain.SourceColorHeuristic: 0.2,
	},
	domain.NamespaceCategory: {
		domain.SourceFashionModel:   1.0,
		domain.SourceVisionModel:    0.5,
		domain.SourceColorHeuristic: 0.2,
	},
	domain.NamespaceColor: {
		domain.SourceFashionModel:   0.4,
		domain.SourceVisionModel:    0.4,
		domain.SourceColorHeuristic: 1.0,
	},
	domain.NamespaceMaterial: {
		domain.SourceFashionModel:   1.0,
		domain.SourceVisionModel:    1.0,
		domain.SourceColorHeuristic: 1.0,
	},
	domain.NamespaceBrand: {
		domain.SourceFashionModel:   0.5,
		domain.SourceVisionModel:    1.0,
		domain.SourceColorHeuristic: 1.0,
	},
	domain.NamespacePattern: {
		domain.SourceFashionModel:   0.6,
		domain.SourceVisionModel:    0.6,
		domain.SourceColorHeuristic: 1.0,
	},
}

// exclusiveNamespaces marca namespaces donde sobrevive un solo feature
// (un garment tiene exactamente un color dominante, una categoria, etc).
var exclusiveNamespaces = map[string]bool{
	domain.NamespaceColor:    true,
	domain.NamespaceCategory: true,
	domain.NamespaceBrand:    true,
	domain.NamespacePattern:  true,
}

// Engine fusiona bags en sets de consenso.
type Engine struct {
	cache         ConsensusCache
	minConfidence float64
	logger        *zap.Logger
}

// NewEngine crea un engine; con minConfidence <= 0 usa el default 0.35.
func NewEngine(logger *zap.Logger, cache ConsensusCache, minConfidence float64) *Engine {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	if cache == nil {
		cache = NewMemoryConsensusCache()
	}
	return &Engine{
		cache:         cache,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// Fuse mezcla los bags de una imagen en un ConsensusFeatureSet. Con bags
// vacios devuelve un set vacio, nunca error: "sin features" es un estado
// valido de baja informacion. Dos fusiones concurrentes del mismo hash
// pueden computar dos veces; las escrituras son idempotentes.
func (e *Engine) Fuse(ctx context.Context, imageHash string, bags []domain.FeatureBag) (domain.ConsensusFeatureSet, error) {
	if cached, ok, err := e.cache.Get(ctx, imageHash); err != nil {
		e.logger.Warn("consensus cache read failed", zap.String("image_hash", imageHash), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	set := e.fuse(bags)

	// Un resultado vacio no se cachea: deja la imagen reintentable cuando
	// las fuentes se recuperen.
	if set.HasFeatures() {
		if err := e.cache.Set(ctx, imageHash, set); err != nil {
			e.logger.Warn("consensus cache write failed", zap.String("image_hash", imageHash), zap.Error(err))
		}
	}
	return set, nil
}

// Invalidate borra la entrada de cache de una imagen reemplazada.
func (e *Engine) Invalidate(ctx context.Context, imageHash string) error {
	return e.cache.Invalidate(ctx, imageHash)
}

func (e *Engine) fuse(bags []domain.FeatureBag) domain.ConsensusFeatureSet {
	set := domain.ConsensusFeatureSet{
		Features:   make(map[string]float64),
		Provenance: make(map[string][]domain.SourceName),
	}
	if len(bags) == 0 {
		return set
	}

	type proposal struct {
		weighted  float64
		totalW    float64
		proposers []domain.SourceName
	}
	proposals := make(map[string]*proposal)

	for _, bag := range bags {
		for name, conf := range bag.Features {
			conf = scoring.Clamp01(conf)
			w := weightFor(name, bag.Source)
			p, ok := proposals[name]
			if !ok {
				p = &proposal{}
				proposals[name] = p
			}
			p.weighted += w * conf
			p.totalW += w
			p.proposers = append(p.proposers, bag.Source)
		}
	}

	// fused = sum(w_s * conf_s) / sum(w_s) sobre fuentes que propusieron;
	// las que no proponen no penalizan.
	survivorsByNS := make(map[string][]string)
	for name, p := range proposals {
		if p.totalW == 0 {
			continue
		}
		fused := scoring.Clamp01(p.weighted / p.totalW)
		if fused < e.minConfidence {
			continue
		}
		set.Features[name] = fused
		sort.Slice(p.proposers, func(i, j int) bool { return p.proposers[i] < p.proposers[j] })
		set.Provenance[name] = p.proposers
		ns := domain.FeatureNamespace(name)
		survivorsByNS[ns] = append(survivorsByNS[ns], name)
	}

	// En namespaces exclusivos sobrevive solo el feature de mayor confianza;
	// desempate alfabetico para mantener el resultado reproducible.
	for ns, names := range survivorsByNS {
		if !exclusiveNamespaces[ns] || len(names) <= 1 {
			continue
		}
		sort.Slice(names, func(i, j int) bool {
			if set.Features[names[i]] != set.Features[names[j]] {
				return set.Features[names[i]] > set.Features[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names[1:] {
			delete(set.Features, name)
			delete(set.Provenance, name)
		}
	}

	// La confianza del set combina la evidencia dominante de cada namespace
	// sobreviviente: mas namespaces bien cubiertos, mas confianza agregada.
	var dominants []float64
	for ns := range survivorsByNS {
		if _, conf, ok := set.DominantIn(ns); ok {
			dominants = append(dominants, conf)
		}
	}
	set.Confidence = scoring.PropagateConfidence(dominants...)

	set.Embedding = pickEmbedding(bags)
	return set
}

// pickEmbedding toma el embedding de la fuente de moda si existe; si no, el
// primero no vacio en orden estable de fuente.
func pickEmbedding(bags []domain.FeatureBag) pgvector.Vector {
	sorted := make([]domain.FeatureBag, len(bags))
	copy(sorted, bags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return embeddingPriority(sorted[i].Source) < embeddingPriority(sorted[j].Source)
	})
	for _, bag := range sorted {
		if len(bag.Embedding) > 0 {
			return pgvector.NewVector(bag.Embedding)
		}
	}
	return pgvector.Vector{}
}

func embeddingPriority(s domain.SourceName) int {
	switch s {
	case domain.SourceFashionModel:
		return 0
	case domain.SourceVisionModel:
		return 1
	default:
		return 2
	}
}

func weightFor(feature string, source domain.SourceName) float64 {
	ns := domain.FeatureNamespace(feature)
	if weights, ok := sourceWeights[ns]; ok {
		if w, ok := weights[source]; ok {
			return w
		}
	}
	// Namespaces sin tabla pesan igual para todas las fuentes.
	return 1.0
}
