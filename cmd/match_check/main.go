// match_check es un harness offline: arma un closet sintetico, un perfil de
// estilo y un target de outfit, y corre el matcher completo sin base de
// datos ni servicios externos. Util para calibrar pesos a ojo.
package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

const cannedOutfit = `{
	"top": {"type": "blouse", "color": "white", "features": ["tailored fit", "polished finish"]},
	"bottom": {"type": "trousers", "color": "navy", "color_alternatives": ["black"]},
	"shoes": {"type": "flats", "color": "black"},
	"outerwear": {"type": "blazer", "color": "navy"},
	"accessories": [{"type": "belt", "color": "brown"}],
	"occasion": "oficina",
	"description": "look de oficina clasico y coordinado"
}`

func garment(category, color string, styles ...string) domain.GarmentRecord {
	features := map[string]float64{"category:" + category: 0.9}
	if color != "" {
		features["color:"+color] = 0.85
	}
	for _, s := range styles {
		features["style:"+s] = 0.8
	}
	return domain.GarmentRecord{
		ID:        uuid.New(),
		Category:  category,
		Color:     color,
		Consensus: domain.ConsensusFeatureSet{Features: features},
	}
}

func main() {
	logger := zap.NewNop()

	inventory := []domain.GarmentRecord{
		garment("blouse", "white", "classic"),
		garment("shirt", "red", "streetwear"),
		garment("trousers", "navy", "classic"),
		garment("jeans", "blue", "streetwear"),
		garment("flats", "black", "classic"),
		garment("sneakers", "white", "athleisure"),
		garment("blazer", "navy", "classic"),
		garment("belt", "brown"),
	}

	builder := service.NewStyleProfileBuilder(service.StyleProfileConfig{})
	userID := uuid.New()
	selections := make([]domain.QuizSelection, 0, domain.QuizQuestionCount)
	for i, cat := range []string{"Classic", "Classic", "Classic", "Minimalist", "Glamorous"} {
		selections = append(selections, domain.QuizSelection{
			QuestionID:    fmt.Sprintf("q%d", i+1),
			ChosenItemID:  uuid.New(),
			StyleCategory: cat,
		})
	}
	profile, err := builder.BuildProfile(userID, selections)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%sPerfil:%s %s (confianza %.2f, hibrido %v)\n\n",
		colorCyan, colorReset, profile.StyleMessage, profile.Confidence, profile.IsHybrid)

	spec, err := service.ParseOutfitResponse(cannedOutfit)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%sTarget:%s %s\n\n", colorCyan, colorReset, spec.Description)

	matcher := service.NewOutfitMatcher(logger, service.MatchWeights{}, -1)
	result := matcher.Match(spec, inventory, &profile)

	for _, match := range result.Matches {
		b := match.Breakdown
		fmt.Printf("%s%-10s%s %s %s (sem %.2f | style %.2f | cat %.2f | color %.2f => %s%.2f%s)\n",
			colorCyan, match.Role, colorReset,
			match.Garment.Color, match.Garment.Category,
			b.Semantic, b.StyleConsistency, b.CategoryAppropriateness, b.ColorHarmony,
			colorGreen, b.Overall, colorReset)
	}
	for _, role := range result.MissingRoles {
		fmt.Printf("%s%-10s%s sin match en el closet\n", colorRed, role, colorReset)
	}
	fmt.Printf("\nScore global: %s%.2f%s sobre %d roles cubiertos\n",
		colorGreen, result.OverallScore, colorReset, len(result.Matches))
}
