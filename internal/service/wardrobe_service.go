package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/fusion"
	"stylist-ai/internal/repository"
	"stylist-ai/internal/scoring"
	"stylist-ai/internal/vision"
)

// WardrobeService maneja el ciclo de vida del inventario: analizar la imagen
// de un garment, fusionar las senales y persistir el consenso.
type WardrobeService struct {
	adapter     *vision.Adapter
	engine      *fusion.Engine
	garmentRepo repository.GarmentRepository
	logger      *zap.Logger
}

func NewWardrobeService(
	logger *zap.Logger,
	adapter *vision.Adapter,
	engine *fusion.Engine,
	garmentRepo repository.GarmentRepository,
) *WardrobeService {
	return &WardrobeService{
		adapter:     adapter,
		engine:      engine,
		garmentRepo: garmentRepo,
		logger:      logger,
	}
}

// AddGarment analiza la imagen, fusiona y crea el garment. Si todas las
// fuentes fallan propaga *vision.ExtractionUnavailableError sin persistir
// nada; un consenso vacio en cambio si se persiste, el usuario puede
// etiquetar a mano despues.
func (s *WardrobeService) AddGarment(ctx context.Context, userID uuid.UUID, image []byte) (domain.GarmentRecord, error) {
	consensus, imageHash, err := s.analyze(ctx, image)
	if err != nil {
		return domain.GarmentRecord{}, err
	}

	now := time.Now().UTC()
	garment := domain.GarmentRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Consensus: consensus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyDominants(&garment)

	if err := s.garmentRepo.Create(ctx, garment); err != nil {
		return domain.GarmentRecord{}, fmt.Errorf("persistiendo garment: %w", err)
	}

	s.logger.Info("garment added",
		zap.String("garment_id", garment.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("image_hash", imageHash),
		zap.Int("features", len(consensus.Features)),
	)
	return garment, nil
}

// ReplaceImage reanaliza un garment con una imagen nueva. Invalida la entrada
// de cache de la imagen anterior antes de fusionar la nueva.
func (s *WardrobeService) ReplaceImage(ctx context.Context, garmentID uuid.UUID, previousHash string, image []byte) (domain.GarmentRecord, error) {
	garment, err := s.garmentRepo.GetByID(ctx, garmentID)
	if err != nil {
		return domain.GarmentRecord{}, fmt.Errorf("cargando garment: %w", err)
	}

	if previousHash != "" {
		if err := s.engine.Invalidate(ctx, previousHash); err != nil {
			s.logger.Warn("consensus invalidate failed",
				zap.String("image_hash", previousHash),
				zap.Error(err),
			)
		}
	}

	consensus, imageHash, err := s.analyze(ctx, image)
	if err != nil {
		return domain.GarmentRecord{}, err
	}

	// Similitud entre el consenso anterior y el nuevo: una caida fuerte
	// sugiere que la imagen nueva es de otra prenda.
	drift := scoring.Jaccard(garment.Consensus.Features, consensus.Features)

	garment.Consensus = consensus
	garment.UpdatedAt = time.Now().UTC()
	applyDominants(&garment)

	if err := s.garmentRepo.UpdateConsensus(ctx, garment); err != nil {
		return domain.GarmentRecord{}, fmt.Errorf("actualizando garment: %w", err)
	}

	s.logger.Info("garment image replaced",
		zap.String("garment_id", garmentID.String()),
		zap.String("image_hash", imageHash),
		zap.Float64("consensus_similarity", drift),
	)
	return garment, nil
}

// ListCloset devuelve el inventario del usuario en orden de creacion.
func (s *WardrobeService) ListCloset(ctx context.Context, userID uuid.UUID) ([]domain.GarmentRecord, error) {
	return s.garmentRepo.ListByUser(ctx, userID)
}

// RemoveGarment borra un item del inventario.
func (s *WardrobeService) RemoveGarment(ctx context.Context, garmentID uuid.UUID) error {
	return s.garmentRepo.Delete(ctx, garmentID)
}

func (s *WardrobeService) analyze(ctx context.Context, image []byte) (domain.ConsensusFeatureSet, string, error) {
	imageHash := fusion.ImageHash(image)

	bags, err := s.adapter.Extract(ctx, image)
	if err != nil {
		return domain.ConsensusFeatureSet{}, "", err
	}

	consensus, err := s.engine.Fuse(ctx, imageHash, bags)
	if err != nil {
		return domain.ConsensusFeatureSet{}, "", fmt.Errorf("fusionando features: %w", err)
	}
	return consensus, imageHash, nil
}

// applyDominants copia a los campos planos del garment los features
// dominantes del consenso, para filtrar por SQL sin abrir el JSONB.
func applyDominants(g *domain.GarmentRecord) {
	if name, _, ok := g.Consensus.DominantIn(domain.NamespaceCategory); ok {
		g.Category = domain.FeatureValue(name)
	}
	if name, _, ok := g.Consensus.DominantIn(domain.NamespaceColor); ok {
		g.Color = domain.FeatureValue(name)
	}
	if name, _, ok := g.Consensus.DominantIn(domain.NamespaceBrand); ok {
		g.Brand = domain.FeatureValue(name)
	}
}
