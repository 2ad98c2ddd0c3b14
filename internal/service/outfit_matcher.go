package service

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/scoring"
)

// MatchWeights pondera los cuatro componentes del score. Son configuracion,
// no invariantes: este reparto ha cambiado entre iteraciones de producto.
type MatchWeights struct {
	Semantic float64
	Style    float64
	Category float64
	Color    float64
}

// DefaultMatchWeights es el reparto vigente: 35/25/20/20.
var DefaultMatchWeights = MatchWeights{
	Semantic: 0.35,
	Style:    0.25,
	Category: 0.20,
	Color:    0.20,
}

// DefaultMinMatchScore descarta matches demasiado pobres; debajo de esto el
// rol queda sin cubrir en vez de cubrirse mal.
const DefaultMinMatchScore = 0.3

// roleCategories mapea cada rol a las categorias de inventario compatibles y
// su score de apropiacion: 1.0 para el calce exacto, decaido para categorias
// hermanas (un blazer puede sustituir outerwear).
var roleCategories = map[domain.Role]map[string]float64{
	domain.RoleTop: {
		"top": 1.0, "tops": 1.0, "shirt": 1.0, "blouse": 1.0,
		"t-shirt": 1.0, "tank": 0.9, "tee": 1.0, "sweater": 0.9,
	},
	domain.RoleBottom: {
		"bottom": 1.0, "bottoms": 1.0, "pants": 1.0, "jeans": 1.0,
		"trousers": 1.0, "shorts": 0.9, "skirt": 0.9,
	},
	domain.RoleShoes: {
		"shoes": 1.0, "footwear": 1.0, "sneakers": 1.0, "boots": 1.0,
		"sandals": 1.0, "heels": 1.0, "flats": 1.0,
	},
	domain.RoleOuterwear: {
		"outerwear": 1.0, "coat": 1.0, "jacket": 0.9, "blazer": 0.9,
		"cardigan": 0.9, "layering": 0.9, "hoodie": 0.8, "formal": 0.6,
	},
	domain.RoleAccessory: {
		"accessory": 1.0, "accessories": 1.0, "bag": 1.0, "hat": 1.0,
		"jewelry": 1.0, "belt": 1.0, "scarf": 1.0, "formal": 0.6,
	},
}

// semanticVocabulary traduce vocabulario del generador a descriptores reales
// de closet; cierra la brecha entre como describe un modelo y como etiqueta
// un usuario.
var semanticVocabulary = map[string][]string{
	"smart-casual":       {"business", "professional", "dressy", "polished"},
	"evening-ready":      {"formal", "dressy", "elegant", "sophisticated"},
	"polished finish":    {"formal", "dressy", "business", "professional"},
	"relaxed fit":        {"loose", "comfortable", "casual", "oversized"},
	"tailored fit":       {"fitted", "structured", "professional"},
	"wide leg":           {"flowy", "loose", "palazzo", "relaxed"},
	"cropped length":     {"short", "ankle", "cropped"},
	"brushed fleece":     {"soft", "warm", "cozy", "fleece"},
	"thermal knit":       {"warm", "winter", "thick", "cozy"},
	"moisture-wicking":   {"athletic", "sporty", "performance"},
	"breathable fabric":  {"summer", "light", "airy", "cotton"},
	"water-resistant":    {"outdoor", "practical", "jacket"},
	"vintage vibe":       {"retro", "classic", "timeless"},
	"modern aesthetic":   {"contemporary", "trendy", "fresh"},
	"minimalist":         {"simple", "clean", "basic"},
	"bohemian":           {"boho", "artistic", "flowing"},
	"minimal hardware":   {"simple", "clean", "understated"},
	"contrast stitching": {"detailed", "accented", "decorative"},
	"utility pockets":    {"functional", "practical", "cargo"},
}

// Familias de color para la armonia flexible.
var (
	neutralColors = map[string]bool{
		"black": true, "white": true, "gray": true, "grey": true,
		"light-gray": true, "beige": true, "navy": true, "cream": true,
	}
	earthTones = map[string]bool{
		"brown": true, "tan": true, "khaki": true, "olive": true,
		"camel": true, "rust": true, "maroon": true,
	}
	colorFamilies = []map[string]bool{
		{"blue": true, "navy": true, "teal": true, "turquoise": true, "cyan": true},
		{"red": true, "burgundy": true, "wine": true, "crimson": true, "coral": true, "maroon": true, "pink": true},
		{"green": true, "olive": true, "forest": true, "sage": true, "mint": true, "lime": true},
		{"yellow": true, "orange": true, "gold": true, "mustard": true},
		{"purple": true, "violet": true, "lavender": true, "magenta": true},
	}
	complementaryColors = map[string][]string{
		"red":    {"green", "teal"},
		"blue":   {"orange", "yellow"},
		"purple": {"yellow", "lime"},
		"green":  {"red", "pink"},
		"orange": {"blue", "navy"},
		"yellow": {"purple", "violet"},
	}
)

// OutfitMatcher reconcilia la descripcion de outfit del generador con el
// inventario real del usuario, rol por rol.
type OutfitMatcher struct {
	weights  MatchWeights
	minScore float64
	logger   *zap.Logger
}

// NewOutfitMatcher crea un matcher. Pesos en cero toman DefaultMatchWeights;
// minScore negativo toma el default 0.3 (cero desactiva el umbral).
func NewOutfitMatcher(logger *zap.Logger, weights MatchWeights, minScore float64) *OutfitMatcher {
	if weights == (MatchWeights{}) {
		weights = DefaultMatchWeights
	}
	if minScore < 0 {
		minScore = DefaultMinMatchScore
	}
	return &OutfitMatcher{
		weights:  weights,
		minScore: minScore,
		logger:   logger,
	}
}

// Match puntua cada candidato por rol y devuelve la mejor asignacion. Los
// roles se evaluan en el orden fijo de domain.MatchOrder: el color harmony
// de cada rol considera los colores ya comprometidos por roles anteriores.
// Inventario vacio o insuficiente produce roles sin match, nunca un error.
func (m *OutfitMatcher) Match(spec *domain.OutfitRequestSpec, inventory []domain.GarmentRecord, profile *domain.StyleProfile) domain.MatchResult {
	result := domain.MatchResult{}
	var committed []string
	used := make(map[uuid.UUID]bool)
	missing := make(map[domain.Role]bool)

	for _, role := range domain.MatchOrder {
		for _, target := range spec.TargetsFor(role) {
			match := m.matchRole(role, target, inventory, profile, committed, used)
			if match.Matched() {
				result.Matches = append(result.Matches, match)
				used[match.Garment.ID] = true
				if color := garmentColor(match.Garment); color != "" {
					committed = append(committed, color)
				}
			} else {
				missing[role] = true
			}
		}
	}

	for _, role := range domain.MatchOrder {
		if missing[role] {
			result.MissingRoles = append(result.MissingRoles, role)
		}
	}

	if len(result.Matches) > 0 {
		var sum float64
		for _, match := range result.Matches {
			sum += match.Breakdown.Overall
		}
		result.OverallScore = scoring.Clamp01(sum / float64(len(result.Matches)))
	}

	if m.logger != nil {
		m.logger.Debug("outfit match completed",
			zap.Int("matched_roles", len(result.Matches)),
			zap.Int("missing_roles", len(result.MissingRoles)),
			zap.Float64("overall", result.OverallScore),
		)
	}
	return result
}

// matchRole filtra candidatos compatibles y elige el de mayor overall. Un
// garment ya asignado a otro rol no es elegible. Empates: gana el semantic
// mas alto; persiste el empate, gana el primero en orden de insercion del
// inventario.
func (m *OutfitMatcher) matchRole(
	role domain.Role,
	target domain.OutfitTarget,
	inventory []domain.GarmentRecord,
	profile *domain.StyleProfile,
	committed []string,
	used map[uuid.UUID]bool,
) domain.RoleMatch {
	match := domain.RoleMatch{Role: role}

	for i := range inventory {
		candidate := &inventory[i]
		if used[candidate.ID] {
			continue
		}
		categoryScore, compatible := categoryAppropriateness(role, target, candidate)
		if !compatible {
			continue
		}

		breakdown := m.scoreCandidate(candidate, target, profile, committed, categoryScore)
		if match.Garment == nil ||
			breakdown.Overall > match.Breakdown.Overall ||
			(breakdown.Overall == match.Breakdown.Overall && breakdown.Semantic > match.Breakdown.Semantic) {
			match.Garment = candidate
			match.Breakdown = breakdown
		}
	}

	if match.Garment != nil && match.Breakdown.Overall < m.minScore {
		match.Garment = nil
		match.Breakdown = domain.ScoreBreakdown{}
	}
	return match
}

func (m *OutfitMatcher) scoreCandidate(
	candidate *domain.GarmentRecord,
	target domain.OutfitTarget,
	profile *domain.StyleProfile,
	committed []string,
	categoryScore float64,
) domain.ScoreBreakdown {
	breakdown := domain.ScoreBreakdown{
		Semantic:                semanticScore(candidate, target),
		StyleConsistency:        styleConsistency(candidate, profile),
		CategoryAppropriateness: scoring.Clamp01(categoryScore),
		ColorHarmony:            colorHarmony(candidate, target, committed),
	}
	breakdown.Overall = scoring.WeightedSum(
		[]float64{breakdown.Semantic, breakdown.StyleConsistency, breakdown.CategoryAppropriateness, breakdown.ColorHarmony},
		[]float64{m.weights.Semantic, m.weights.Style, m.weights.Category, m.weights.Color},
	)
	return breakdown
}

// semanticScore usa similitud coseno cuando hay embeddings de ambos lados;
// sin embedding del target cae a overlap estilo Jaccard con el vocabulario
// semantico para absorber la brecha de terminos del generador.
func semanticScore(candidate *domain.GarmentRecord, target domain.OutfitTarget) float64 {
	candidateEmb := candidate.Consensus.Embedding.Slice()
	if len(target.Embedding) > 0 && len(candidateEmb) > 0 {
		return scoring.CosineSim(candidateEmb, target.Embedding)
	}

	terms := make([]string, 0, len(target.Features))
	for _, feature := range target.Features {
		if term := strings.ToLower(strings.TrimSpace(feature)); term != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return 0.5
	}

	have := candidateDescriptors(candidate)
	direct := scoring.SetOverlap(have, terms)

	// Credito parcial para terminos del generador que el closet describe
	// con sinonimos en vez de literal.
	var synonymHits float64
	for _, term := range terms {
		if _, ok := have[term]; ok {
			continue
		}
		for _, synonym := range semanticVocabulary[term] {
			if _, ok := have[synonym]; ok {
				synonymHits += 0.7
				break
			}
		}
	}
	return scoring.Clamp01(direct + synonymHits/float64(len(terms)))
}

// candidateDescriptors junta todo lo que describe al garment: valores de
// features del consenso (con su confianza), nombres completos, categoria y
// color.
func candidateDescriptors(g *domain.GarmentRecord) map[string]float64 {
	have := make(map[string]float64)
	for name, conf := range g.Consensus.Features {
		have[name] = conf
		if v := domain.FeatureValue(name); v != "" {
			have[v] = conf
			have[strings.ReplaceAll(v, "-", " ")] = conf
		}
	}
	if g.Category != "" {
		have[strings.ToLower(g.Category)] = 1
	}
	if c := garmentColor(g); c != "" {
		have[c] = 1
	}
	if g.Brand != "" {
		have[strings.ToLower(g.Brand)] = 1
	}
	return have
}

// styleConsistency mide el calce con el estilo del usuario: primario a peso
// completo, secundario a medio peso cuando el perfil es hibrido. Sin perfil
// devuelve el neutro 0.5.
func styleConsistency(candidate *domain.GarmentRecord, profile *domain.StyleProfile) float64 {
	if profile == nil || profile.PrimaryStyle == "" {
		return 0.5
	}

	styles := make(map[string]bool)
	for _, s := range candidate.StyleFeatures() {
		styles[strings.ToLower(s)] = true
	}
	if len(styles) == 0 {
		return 0.5
	}

	denom := 1.0
	matched := 0.0
	if styles[strings.ToLower(profile.PrimaryStyle)] {
		matched += 1.0
	}
	if profile.IsHybrid && profile.SecondaryStyle != nil {
		denom += 0.5
		if styles[strings.ToLower(*profile.SecondaryStyle)] {
			matched += 0.5
		}
	}
	return scoring.Clamp01(matched / denom)
}

// categoryAppropriateness devuelve el score de categoria y si el candidato
// es siquiera elegible para el rol. Items versatiles (blazer, cardigan)
// suben a 0.9 cuando el target los pide explicitamente.
func categoryAppropriateness(role domain.Role, target domain.OutfitTarget, candidate *domain.GarmentRecord) (float64, bool) {
	category := strings.ToLower(strings.TrimSpace(candidate.Category))
	if category == "" {
		return 0, false
	}

	acceptable := roleCategories[role]
	score, ok := acceptable[category]
	if !ok {
		targetType := strings.ToLower(target.Type)
		if role == domain.RoleTop || role == domain.RoleOuterwear {
			for _, versatile := range []string{"cardigan", "blazer", "jacket"} {
				if strings.Contains(targetType, versatile) && strings.Contains(category, versatile) {
					return 0.9, true
				}
			}
		}
		return 0, false
	}
	if strings.Contains(strings.ToLower(target.Type), category) {
		// El tipo pedido nombra exactamente esta categoria.
		score = 1.0
	}
	return score, true
}

// colorHarmony compara el color del candidato contra la preferencia del
// target y, en segundo plano, contra los colores ya comprometidos en el
// mismo outfit: recompensa paletas coordinadas y castiga choques.
func colorHarmony(candidate *domain.GarmentRecord, target domain.OutfitTarget, committed []string) float64 {
	color := garmentColor(candidate)
	if color == "" {
		return 0.5
	}

	targetColors := make(map[string]bool)
	if c := strings.ToLower(strings.TrimSpace(target.Color)); c != "" {
		targetColors[c] = true
	}
	for _, alt := range target.ColorAlternatives {
		if c := strings.ToLower(strings.TrimSpace(alt)); c != "" {
			targetColors[c] = true
		}
	}

	targetScore := -1.0
	if len(targetColors) > 0 {
		targetScore = flexibleColorHarmony(color, targetColors)
	}

	committedScore := -1.0
	if len(committed) > 0 {
		var sum float64
		for _, other := range committed {
			sum += colorPairHarmony(color, other)
		}
		committedScore = sum / float64(len(committed))
	}

	switch {
	case targetScore >= 0 && committedScore >= 0:
		return scoring.Clamp01(0.6*targetScore + 0.4*committedScore)
	case targetScore >= 0:
		return scoring.Clamp01(targetScore)
	case committedScore >= 0:
		return scoring.Clamp01(committedScore)
	default:
		return 0.6
	}
}

// flexibleColorHarmony evalua un color contra la paleta pedida: match
// directo 1.0, neutros van con todo, tonos tierra entre si, misma familia
// despues, choque al piso de 0.3.
func flexibleColorHarmony(color string, palette map[string]bool) float64 {
	if palette[color] {
		return 1.0
	}
	if neutralColors[color] {
		return 0.8
	}
	if earthTones[color] {
		for other := range palette {
			if earthTones[other] {
				return 0.7
			}
		}
	}
	for _, family := range colorFamilies {
		if !family[color] {
			continue
		}
		for other := range palette {
			if family[other] {
				return 0.6
			}
		}
	}
	return 0.3
}

// colorPairHarmony evalua dos colores ya en el mismo outfit: igual color
// 1.0, neutros 0.9, complementarios 0.85, misma familia 0.8, resto 0.6.
func colorPairHarmony(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if neutralColors[a] || neutralColors[b] {
		return 0.9
	}
	for base, complements := range complementaryColors {
		for _, c := range complements {
			if (a == base && b == c) || (b == base && a == c) {
				return 0.85
			}
		}
	}
	for _, family := range colorFamilies {
		if family[a] && family[b] {
			return 0.8
		}
	}
	return 0.6
}

// garmentColor resuelve el color del garment: el campo propio primero, el
// dominante del consenso como fallback.
func garmentColor(g *domain.GarmentRecord) string {
	if c := strings.ToLower(strings.TrimSpace(g.Color)); c != "" {
		return c
	}
	if name, _, ok := g.Consensus.DominantIn(domain.NamespaceColor); ok {
		return domain.FeatureValue(name)
	}
	return ""
}
