package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/llm"
	"stylist-ai/internal/repository"
)

const outfitSystemPrompt = `Eres un estilista personal. Disenas un outfit completo para la ocasion del usuario y lo devuelves SOLO como JSON con esta forma exacta:
{
  "top": {"type": "...", "color": "...", "color_alternatives": ["..."], "features": ["..."]},
  "bottom": {...},
  "shoes": {...},
  "outerwear": {...},
  "accessories": [{...}],
  "occasion": "...",
  "description": "..."
}
Reglas:
- Omite "outerwear" si el clima no lo amerita; omite "accessories" si no aportan.
- "features" son descriptores cortos de tela, corte y estetica (ej: "relaxed fit", "breathable fabric").
- Colores en ingles, en minusculas, una palabra cuando sea posible.
- No incluyas texto fuera del JSON.`

const outfitUserPromptTemplate = `Ocasion: %s
Clima: %s
Genero: %s
Estilo primario del usuario: %s%s
Preferencias adicionales: %s`

// OutfitRecommendation empaqueta lo que devuelve el flujo completo: el
// target generado, el match contra el closet y la descripcion narrativa.
type OutfitRecommendation struct {
	Spec        *domain.OutfitRequestSpec `json:"spec"`
	Result      domain.MatchResult        `json:"result"`
	Description string                    `json:"description,omitempty"`
}

// RecommendationRequest son los parametros de contexto del usuario para una
// recomendacion puntual.
type RecommendationRequest struct {
	Occasion    string `json:"occasion"`
	Weather     string `json:"weather,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Preferences string `json:"preferences,omitempty"`
}

// RecommendationService orquesta el flujo completo: genera el outfit ideal
// con el modelo generativo, lo parsea y lo reconcilia contra el inventario
// real del usuario con su perfil de estilo vigente.
type RecommendationService struct {
	client      llm.Client
	matcher     *OutfitMatcher
	garmentRepo repository.GarmentRepository
	profileRepo repository.StyleProfileRepository
	logger      *zap.Logger
}

func NewRecommendationService(
	logger *zap.Logger,
	client llm.Client,
	matcher *OutfitMatcher,
	garmentRepo repository.GarmentRepository,
	profileRepo repository.StyleProfileRepository,
) *RecommendationService {
	return &RecommendationService{
		client:      client,
		matcher:     matcher,
		garmentRepo: garmentRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Recommend genera y reconcilia una recomendacion. Un usuario sin perfil de
// estilo es valido: el matcher usa el neutro y el prompt omite el estilo.
func (s *RecommendationService) Recommend(ctx context.Context, userID uuid.UUID, req RecommendationRequest) (OutfitRecommendation, error) {
	var profile *domain.StyleProfile
	current, err := s.profileRepo.GetCurrentByUser(ctx, userID)
	switch {
	case err == nil:
		profile = &current
	case errors.Is(err, pgx.ErrNoRows):
		// Sin quiz todavia; se recomienda sin sesgo de estilo.
	default:
		return OutfitRecommendation{}, fmt.Errorf("cargando perfil de estilo: %w", err)
	}

	raw, err := s.client.Generate(ctx, outfitSystemPrompt, buildOutfitPrompt(req, profile))
	if err != nil {
		return OutfitRecommendation{}, fmt.Errorf("generando outfit: %w", err)
	}

	spec, err := ParseOutfitResponse(raw)
	if err != nil {
		return OutfitRecommendation{}, err
	}

	inventory, err := s.garmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return OutfitRecommendation{}, fmt.Errorf("cargando inventario: %w", err)
	}

	result := s.matcher.Match(spec, inventory, profile)

	s.logger.Info("outfit recommended",
		zap.String("user_id", userID.String()),
		zap.String("occasion", req.Occasion),
		zap.Int("matched", len(result.Matches)),
		zap.Int("missing", len(result.MissingRoles)),
		zap.Float64("score", result.OverallScore),
	)
	return OutfitRecommendation{
		Spec:        spec,
		Result:      result,
		Description: spec.Description,
	}, nil
}

// MatchSpec reconcilia un spec ya estructurado contra el closet, sin pasar
// por el generador. Lo usa el harness offline y cualquier caller que arme
// el target a mano.
func (s *RecommendationService) MatchSpec(ctx context.Context, userID uuid.UUID, spec *domain.OutfitRequestSpec) (domain.MatchResult, error) {
	var profile *domain.StyleProfile
	current, err := s.profileRepo.GetCurrentByUser(ctx, userID)
	if err == nil {
		profile = &current
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.MatchResult{}, fmt.Errorf("cargando perfil de estilo: %w", err)
	}

	inventory, err := s.garmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("cargando inventario: %w", err)
	}
	return s.matcher.Match(spec, inventory, profile), nil
}

func buildOutfitPrompt(req RecommendationRequest, profile *domain.StyleProfile) string {
	occasion := strings.TrimSpace(req.Occasion)
	if occasion == "" {
		occasion = "casual, dia a dia"
	}
	weather := strings.TrimSpace(req.Weather)
	if weather == "" {
		weather = "templado"
	}
	preferences := strings.TrimSpace(req.Preferences)
	if preferences == "" {
		preferences = "ninguna"
	}
	gender := strings.TrimSpace(req.Gender)
	if gender == "" {
		gender = "sin especificar"
	}

	primary := "desconocido"
	secondary := ""
	if profile != nil {
		primary = profile.PrimaryStyle
		if profile.IsHybrid && profile.SecondaryStyle != nil {
			secondary = fmt.Sprintf("\nEstilo secundario: %s", *profile.SecondaryStyle)
		}
	}
	return fmt.Sprintf(outfitUserPromptTemplate, occasion, weather, gender, primary, secondary, preferences)
}
