package service

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
)

func testGarment(category, color string, styles ...string) domain.GarmentRecord {
	features := map[string]float64{
		"category:" + category: 0.9,
	}
	if color != "" {
		features["color:"+color] = 0.85
	}
	for _, s := range styles {
		features["style:"+s] = 0.8
	}
	return domain.GarmentRecord{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Category: category,
		Color:    color,
		Consensus: domain.ConsensusFeatureSet{
			Features: features,
		},
	}
}

func TestOutfitMatcher_EmptyInventory(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	spec := &domain.OutfitRequestSpec{
		Top:    &domain.OutfitTarget{Type: "shirt"},
		Bottom: &domain.OutfitTarget{Type: "jeans"},
		Shoes:  &domain.OutfitTarget{Type: "sneakers"},
	}

	result := matcher.Match(spec, nil, nil)

	if len(result.Matches) != 0 {
		t.Fatalf("inventario vacio no debe producir matches: %+v", result.Matches)
	}
	if len(result.MissingRoles) != 3 {
		t.Fatalf("esperados 3 roles faltantes, got %v", result.MissingRoles)
	}
	if result.OverallScore != 0 {
		t.Fatalf("sin matches el score global debe ser 0, got %f", result.OverallScore)
	}
}

func TestOutfitMatcher_ScoresInBounds(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	inventory := []domain.GarmentRecord{
		testGarment("shirt", "white", "classic"),
		testGarment("jeans", "blue", "streetwear"),
		testGarment("sneakers", "black"),
	}
	spec := &domain.OutfitRequestSpec{
		Top:    &domain.OutfitTarget{Type: "shirt", Color: "white", Features: []string{"tailored fit"}},
		Bottom: &domain.OutfitTarget{Type: "jeans", Color: "blue"},
		Shoes:  &domain.OutfitTarget{Type: "sneakers", Color: "black"},
	}

	result := matcher.Match(spec, inventory, nil)

	if len(result.Matches) != 3 {
		t.Fatalf("esperados 3 matches, got %d (missing %v)", len(result.Matches), result.MissingRoles)
	}
	for _, match := range result.Matches {
		b := match.Breakdown
		for name, v := range map[string]float64{
			"semantic": b.Semantic,
			"style":    b.StyleConsistency,
			"category": b.CategoryAppropriateness,
			"color":    b.ColorHarmony,
			"overall":  b.Overall,
		} {
			if v < 0 || v > 1 {
				t.Fatalf("rol %s: componente %s fuera de [0,1]: %f", match.Role, name, v)
			}
		}
	}
	if result.OverallScore < 0 || result.OverallScore > 1 {
		t.Fatalf("score global fuera de [0,1]: %f", result.OverallScore)
	}
}

func TestOutfitMatcher_CategoryGating(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	// Solo hay zapatos; el rol top debe quedar sin cubrir aunque el color
	// y el estilo calcen perfecto.
	inventory := []domain.GarmentRecord{
		testGarment("sneakers", "white", "classic"),
	}
	spec := &domain.OutfitRequestSpec{
		Top: &domain.OutfitTarget{Type: "shirt", Color: "white"},
	}

	result := matcher.Match(spec, inventory, nil)

	if len(result.Matches) != 0 {
		t.Fatalf("sneakers no puede cubrir top: %+v", result.Matches)
	}
	if len(result.MissingRoles) != 1 || result.MissingRoles[0] != domain.RoleTop {
		t.Fatalf("esperado top faltante, got %v", result.MissingRoles)
	}
}

func TestOutfitMatcher_CommittedColorsInfluenceLaterRoles(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	// El top compromete "blue". Entre dos bottoms identicos salvo el color,
	// navy (neutro, armoniza 0.9) debe ganarle a red (par neutro 0.6).
	red := testGarment("jeans", "red")
	navy := testGarment("jeans", "navy")
	inventory := []domain.GarmentRecord{
		testGarment("shirt", "blue"),
		red,
		navy,
	}
	spec := &domain.OutfitRequestSpec{
		Top:    &domain.OutfitTarget{Type: "shirt", Color: "blue"},
		Bottom: &domain.OutfitTarget{Type: "jeans"},
	}

	result := matcher.Match(spec, inventory, nil)

	var bottomMatch *domain.RoleMatch
	for i := range result.Matches {
		if result.Matches[i].Role == domain.RoleBottom {
			bottomMatch = &result.Matches[i]
		}
	}
	if bottomMatch == nil || bottomMatch.Garment == nil {
		t.Fatalf("bottom sin match: %+v", result)
	}
	if bottomMatch.Garment.ID != navy.ID {
		t.Fatalf("esperado el jean navy por armonia con el color comprometido, got %s", bottomMatch.Garment.Color)
	}
}

func TestOutfitMatcher_DeterministicTieBreak(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	first := testGarment("shirt", "white")
	second := testGarment("shirt", "white")
	inventory := []domain.GarmentRecord{first, second}
	spec := &domain.OutfitRequestSpec{
		Top: &domain.OutfitTarget{Type: "shirt", Color: "white"},
	}

	for i := 0; i < 10; i++ {
		result := matcher.Match(spec, inventory, nil)
		if len(result.Matches) != 1 {
			t.Fatalf("esperado un match, got %d", len(result.Matches))
		}
		if result.Matches[0].Garment.ID != first.ID {
			t.Fatalf("iteracion %d: un empate exacto debe favorecer al primero del inventario", i)
		}
	}
}

func TestOutfitMatcher_MinScoreRejectsWeakMatch(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, 0.95)
	inventory := []domain.GarmentRecord{
		testGarment("shirt", "red"),
	}
	spec := &domain.OutfitRequestSpec{
		Top: &domain.OutfitTarget{Type: "shirt", Color: "green"},
	}

	result := matcher.Match(spec, inventory, nil)

	if len(result.Matches) != 0 {
		t.Fatalf("match debajo del umbral debe descartarse: %+v", result.Matches)
	}
	if len(result.MissingRoles) != 1 || result.MissingRoles[0] != domain.RoleTop {
		t.Fatalf("esperado top faltante, got %v", result.MissingRoles)
	}
}

func TestOutfitMatcher_AggregateOverMatchedOnly(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	inventory := []domain.GarmentRecord{
		testGarment("shirt", "white"),
	}
	spec := &domain.OutfitRequestSpec{
		Top:   &domain.OutfitTarget{Type: "shirt", Color: "white"},
		Shoes: &domain.OutfitTarget{Type: "sneakers"},
	}

	result := matcher.Match(spec, inventory, nil)

	if len(result.Matches) != 1 {
		t.Fatalf("esperado solo el top, got %d", len(result.Matches))
	}
	if len(result.MissingRoles) != 1 || result.MissingRoles[0] != domain.RoleShoes {
		t.Fatalf("esperado shoes faltante, got %v", result.MissingRoles)
	}
	// El promedio ignora los roles sin cubrir: global == overall del top.
	if math.Abs(result.OverallScore-result.Matches[0].Breakdown.Overall) > 1e-9 {
		t.Fatalf("global %f != overall del unico match %f", result.OverallScore, result.Matches[0].Breakdown.Overall)
	}
}

func TestOutfitMatcher_SemanticFallbackOverlap(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	// Sin embeddings el semantic cae al overlap de descriptores: "classic"
	// calza directo (1/3), "tailored fit" via el sinonimo fitted (0.7/3),
	// "bohemian" no calza.
	inventory := []domain.GarmentRecord{
		testGarment("shirt", "white", "classic", "fitted"),
	}
	spec := &domain.OutfitRequestSpec{
		Top: &domain.OutfitTarget{
			Type:     "shirt",
			Features: []string{"classic", "tailored fit", "bohemian"},
		},
	}

	result := matcher.Match(spec, inventory, nil)

	if len(result.Matches) != 1 {
		t.Fatalf("esperado un match, got %d", len(result.Matches))
	}
	want := 1.7 / 3.0
	if got := result.Matches[0].Breakdown.Semantic; math.Abs(got-want) > 1e-9 {
		t.Fatalf("semantic esperado %f, got %f", want, got)
	}
}

func TestOutfitMatcher_RoleOrderIrrelevantForSingleRole(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	inventory := []domain.GarmentRecord{
		testGarment("shirt", "white"),
		testGarment("jeans", "navy", "classic"),
		testGarment("sneakers", "black"),
	}
	// Con un solo rol pedido no hay colores comprometidos de roles previos,
	// asi que el orden de evaluacion no puede cambiar el resultado.
	spec := &domain.OutfitRequestSpec{
		Bottom: &domain.OutfitTarget{Type: "jeans", Color: "navy", Features: []string{"relaxed fit"}},
	}

	original := domain.MatchOrder
	defer func() { domain.MatchOrder = original }()

	baseline := matcher.Match(spec, inventory, nil)
	if len(baseline.Matches) != 1 {
		t.Fatalf("esperado un match base, got %d", len(baseline.Matches))
	}

	permutations := [][]domain.Role{
		{domain.RoleAccessory, domain.RoleShoes, domain.RoleBottom, domain.RoleOuterwear, domain.RoleTop},
		{domain.RoleBottom, domain.RoleTop, domain.RoleOuterwear, domain.RoleShoes, domain.RoleAccessory},
		{domain.RoleShoes, domain.RoleAccessory, domain.RoleTop, domain.RoleBottom, domain.RoleOuterwear},
	}
	for i, order := range permutations {
		domain.MatchOrder = order
		result := matcher.Match(spec, inventory, nil)
		if len(result.Matches) != 1 {
			t.Fatalf("orden %d: esperado un match, got %d", i, len(result.Matches))
		}
		if result.Matches[0].Garment.ID != baseline.Matches[0].Garment.ID {
			t.Fatalf("orden %d: cambio el garment elegido", i)
		}
		if result.Matches[0].Breakdown != baseline.Matches[0].Breakdown {
			t.Fatalf("orden %d: cambio el breakdown: %+v vs %+v", i, result.Matches[0].Breakdown, baseline.Matches[0].Breakdown)
		}
	}
}

func TestOutfitMatcher_StyleProfileBias(t *testing.T) {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	classic := testGarment("shirt", "white", "classic")
	edgy := testGarment("shirt", "white", "edgy")
	inventory := []domain.GarmentRecord{edgy, classic}

	profile := &domain.StyleProfile{
		PrimaryStyle: "classic",
	}
	spec := &domain.OutfitRequestSpec{
		Top: &domain.OutfitTarget{Type: "shirt", Color: "white"},
	}

	result := matcher.Match(spec, inventory, profile)

	if len(result.Matches) != 1 {
		t.Fatalf("esperado un match, got %d", len(result.Matches))
	}
	if result.Matches[0].Garment.ID != classic.ID {
		t.Fatalf("el perfil classic debe preferir la camisa classic")
	}
}
