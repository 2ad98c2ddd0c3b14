package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/repository"
)

// ErrQuizItemNotFound indica que una submission referencia un item que no
// existe en el catalogo.
var ErrQuizItemNotFound = errors.New("quiz item no encontrado en el catalogo")

// QuizAnswer es lo minimo que manda el cliente: a que pregunta responde y
// que item eligio. La categoria de estilo la resuelve el servidor contra el
// catalogo, nunca se confia en el cliente.
type QuizAnswer struct {
	QuestionID   string    `json:"question_id"`
	ChosenItemID uuid.UUID `json:"chosen_item_id"`
}

// QuizService resuelve submissions contra el catalogo, construye el perfil
// y lo persiste como nueva entrada del historial.
type QuizService struct {
	builder     *StyleProfileBuilder
	itemRepo    repository.QuizItemRepository
	profileRepo repository.StyleProfileRepository
	logger      *zap.Logger
}

func NewQuizService(
	logger *zap.Logger,
	builder *StyleProfileBuilder,
	itemRepo repository.QuizItemRepository,
	profileRepo repository.StyleProfileRepository,
) *QuizService {
	return &QuizService{
		builder:     builder,
		itemRepo:    itemRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// SubmitQuiz resuelve las respuestas, arma el perfil y lo guarda. Los errores
// de validacion del builder (submission incompleta, categoria desconocida)
// se propagan sin envolver para que el handler los distinga.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID uuid.UUID, answers []QuizAnswer) (domain.StyleProfile, error) {
	selections, err := s.resolveSelections(ctx, answers)
	if err != nil {
		return domain.StyleProfile{}, err
	}

	profile, err := s.builder.BuildProfile(userID, selections)
	if err != nil {
		return domain.StyleProfile{}, err
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return domain.StyleProfile{}, fmt.Errorf("persistiendo perfil de estilo: %w", err)
	}

	s.logger.Info("style profile created",
		zap.String("user_id", userID.String()),
		zap.String("primary_style", profile.PrimaryStyle),
		zap.Bool("is_hybrid", profile.IsHybrid),
		zap.Float64("confidence", profile.Confidence),
	)
	return profile, nil
}

// ListItems devuelve los items seleccionables de una pregunta, con los que
// el cliente arma las respuestas de SubmitQuiz.
func (s *QuizService) ListItems(ctx context.Context, questionID string) ([]domain.QuizItem, error) {
	items, err := s.itemRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("cargando catalogo del quiz: %w", err)
	}
	return items, nil
}

// CurrentProfile devuelve el perfil vigente del usuario (el mas reciente).
func (s *QuizService) CurrentProfile(ctx context.Context, userID uuid.UUID) (domain.StyleProfile, error) {
	return s.profileRepo.GetCurrentByUser(ctx, userID)
}

// ProfileHistory devuelve todos los perfiles del usuario, mas reciente primero.
func (s *QuizService) ProfileHistory(ctx context.Context, userID uuid.UUID) ([]domain.StyleProfile, error) {
	return s.profileRepo.ListByUser(ctx, userID)
}

func (s *QuizService) resolveSelections(ctx context.Context, answers []QuizAnswer) ([]domain.QuizSelection, error) {
	ids := make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ChosenItemID)
	}

	items, err := s.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("cargando items del quiz: %w", err)
	}
	byID := make(map[uuid.UUID]domain.QuizItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	selections := make([]domain.QuizSelection, 0, len(answers))
	for _, a := range answers {
		item, ok := byID[a.ChosenItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrQuizItemNotFound, a.ChosenItemID)
		}
		selections = append(selections, domain.QuizSelection{
			QuestionID:    a.QuestionID,
			ChosenItemID:  a.ChosenItemID,
			StyleCategory: item.StyleCategory,
		})
	}
	return selections, nil
}
