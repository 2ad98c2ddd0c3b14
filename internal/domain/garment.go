package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// SourceName identifica una de las tres senales de analisis de imagen.
type SourceName string

const (
	SourceFashionModel   SourceName = "fashion-model"
	SourceVisionModel    SourceName = "vision-model"
	SourceColorHeuristic SourceName = "color-heuristic"
)

// Namespaces de features. El nombre completo es "namespace:valor", ej "color:navy".
const (
	NamespaceCategory = "category"
	NamespaceStyle    = "style"
	NamespaceColor    = "color"
	NamespaceMaterial = "material"
	NamespaceOccasion = "occasion"
	NamespaceBrand    = "brand"
	NamespacePattern  = "pattern"
)

// FeatureBag es la salida cruda de una fuente para una imagen: nombre de
// feature -> confianza en [0,1]. Inmutable una vez producido.
type FeatureBag struct {
	Source    SourceName         `json:"source"`
	Features  map[string]float64 `json:"features"`
	Embedding []float32          `json:"embedding,omitempty"`
}

// FeatureNamespace extrae el namespace de un nombre de feature.
// "color:navy" -> "color". Sin separador devuelve el nombre completo.
func FeatureNamespace(name string) string {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// FeatureValue extrae el valor de un nombre de feature.
// "color:navy" -> "navy". Sin separador devuelve cadena vacia.
func FeatureValue(name string) string {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[idx+1:]
	}
	return ""
}

// ConsensusFeatureSet es el set fusionado y deduplicado de un garment.
// Provenance referencia solo fuentes que realmente propusieron cada feature.
// Confidence agrega la evidencia dominante de cada namespace sobreviviente;
// los consumidores downstream la usan como senal de calidad de extraccion.
type ConsensusFeatureSet struct {
	Features   map[string]float64      `json:"features"`
	Provenance map[string][]SourceName `json:"provenance"`
	Embedding  pgvector.Vector         `json:"embedding"`
	Confidence float64                 `json:"confidence"`
}

// HasFeatures indica si hay al menos un feature fusionado. Un set vacio es
// un estado valido de baja informacion, no un error.
func (c ConsensusFeatureSet) HasFeatures() bool {
	return len(c.Features) > 0
}

// DominantIn devuelve el feature de mayor confianza dentro de un namespace.
func (c ConsensusFeatureSet) DominantIn(namespace string) (string, float64, bool) {
	best := ""
	bestConf := 0.0
	for name, conf := range c.Features {
		if FeatureNamespace(name) != namespace {
			continue
		}
		if best == "" || conf > bestConf || (conf == bestConf && name < best) {
			best = name
			bestConf = conf
		}
	}
	return best, bestConf, best != ""
}

// GarmentRecord es un item del inventario del usuario. El embedding pertenece
// en exclusiva al garment y se recalcula cuando cambia su imagen.
type GarmentRecord struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Category  string              `json:"category"`
	Color     string              `json:"color"`
	Brand     string              `json:"brand,omitempty"`
	Consensus ConsensusFeatureSet `json:"consensus"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// StyleFeatures devuelve los valores de features style:* del garment.
func (g *GarmentRecord) StyleFeatures() []string {
	var styles []string
	for name := range g.Consensus.Features {
		if FeatureNamespace(name) == NamespaceStyle {
			styles = append(styles, FeatureValue(name))
		}
	}
	return styles
}
