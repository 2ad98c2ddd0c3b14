package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/scoring"
)

// IncompleteQuizError indica una submission con largo distinto al esperado.
// Error del caller: no reintentable sin corregir el input.
type IncompleteQuizError struct {
	Got  int
	Want int
}

func (e *IncompleteQuizError) Error() string {
	return fmt.Sprintf("incomplete quiz submission: got %d selections, want %d", e.Got, e.Want)
}

// UnknownCategoryError indica una categoria fuera del set configurado. Nunca
// se ignora en silencio: corromperia los scores sin que nadie lo note.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown style category %q", e.Category)
}

// StyleProfileConfig parametriza el builder. Los pesos por pregunta existen
// porque producto ha alternado entre variantes equal-weight y ponderadas;
// el loop de tally no cambia de forma entre una y otra.
type StyleProfileConfig struct {
	Categories         []string
	QuestionCount      int
	QuestionWeights    map[string]float64
	HybridTieThreshold float64
}

// StyleProfileBuilder convierte una secuencia de selecciones discretas en
// una distribucion ponderada de estilos. Computo puro, sin I/O.
type StyleProfileBuilder struct {
	categories    []string
	categoryOrder map[string]int
	questionCount int
	weights       map[string]float64
	tieThreshold  float64
}

// NewStyleProfileBuilder crea un builder; campos en cero toman defaults
// (las diez categorias del sistema, cinco preguntas, peso 1 por pregunta,
// umbral de empate 0).
func NewStyleProfileBuilder(cfg StyleProfileConfig) *StyleProfileBuilder {
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = domain.StyleCategories
	}
	questionCount := cfg.QuestionCount
	if questionCount <= 0 {
		questionCount = domain.QuizQuestionCount
	}
	order := make(map[string]int, len(categories))
	for i, cat := range categories {
		order[cat] = i
	}
	return &StyleProfileBuilder{
		categories:    categories,
		categoryOrder: order,
		questionCount: questionCount,
		weights:       cfg.QuestionWeights,
		tieThreshold:  cfg.HybridTieThreshold,
	}
}

// BuildProfile aplica el tally y deriva estilo primario, secundario,
// confianza e hibridez. El orden de las selecciones no afecta el resultado;
// los empates se resuelven de forma determinista por orden de creacion de
// categoria, nunca al azar, para que inputs identicos den outputs identicos.
func (b *StyleProfileBuilder) BuildProfile(userID uuid.UUID, selections []domain.QuizSelection) (domain.StyleProfile, error) {
	if len(selections) != b.questionCount {
		return domain.StyleProfile{}, &IncompleteQuizError{Got: len(selections), Want: b.questionCount}
	}

	// Scores arranca con todas las categorias en cero para que ningun
	// consumidor downstream truene por llave faltante.
	scores := make(map[string]float64, len(b.categories))
	for _, cat := range b.categories {
		scores[cat] = 0
	}

	var total float64
	for _, sel := range selections {
		if _, known := b.categoryOrder[sel.StyleCategory]; !known {
			return domain.StyleProfile{}, &UnknownCategoryError{Category: sel.StyleCategory}
		}
		w := 1.0
		if qw, ok := b.weights[sel.QuestionID]; ok && qw > 0 {
			w = qw
		}
		scores[sel.StyleCategory] += w
		total += w
	}

	ranked := make([]string, len(b.categories))
	copy(ranked, b.categories)
	// Tally descendente; a igual tally gana la categoria creada primero:
	// el slice arranca en orden de creacion y el sort estable lo conserva.
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	primary := ranked[0]
	var secondary *string
	if len(ranked) > 1 && scores[ranked[1]] > 0 {
		s := ranked[1]
		secondary = &s
	}

	isHybrid := secondary != nil && scores[primary]-scores[*secondary] <= b.tieThreshold

	confidence := 0.0
	if total > 0 {
		confidence = scoring.Clamp01(scores[primary] / total)
	}

	return domain.StyleProfile{
		ID:             uuid.New(),
		UserID:         userID,
		Scores:         scores,
		PrimaryStyle:   primary,
		SecondaryStyle: secondary,
		Confidence:     confidence,
		IsHybrid:       isHybrid,
		StyleMessage:   styleMessage(primary, secondary),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// styleMessage formatea el mensaje amigable del perfil:
// "Bohemian with a hint of Classic" o "Pure Minimalist".
func styleMessage(primary string, secondary *string) string {
	if secondary != nil {
		return fmt.Sprintf("%s with a hint of %s", primary, *secondary)
	}
	return fmt.Sprintf("Pure %s", primary)
}
