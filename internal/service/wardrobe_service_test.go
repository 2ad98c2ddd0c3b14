package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/fusion"
	"stylist-ai/internal/vision"
)

func newTestWardrobeService(repo *mockGarmentRepo, sources ...vision.Source) *WardrobeService {
	logger := zap.NewNop()
	adapter := vision.NewAdapter(logger, 0, sources...)
	engine := fusion.NewEngine(logger, fusion.NewMemoryConsensusCache(), 0)
	return NewWardrobeService(logger, adapter, engine, repo)
}

func TestWardrobeService_AddGarment(t *testing.T) {
	repo := &mockGarmentRepo{}
	svc := newTestWardrobeService(repo,
		&vision.MockSource{
			SourceName: domain.SourceFashionModel,
			Bag: domain.FeatureBag{
				Source: domain.SourceFashionModel,
				Features: map[string]float64{
					"category:shirt": 0.9,
					"style:classic":  0.8,
				},
				Embedding: []float32{0.1, 0.2, 0.3},
			},
		},
		&vision.MockSource{
			SourceName: domain.SourceColorHeuristic,
			Bag: domain.FeatureBag{
				Source: domain.SourceColorHeuristic,
				Features: map[string]float64{
					"color:white": 0.9,
				},
			},
		},
	)
	userID := uuid.New()

	garment, err := svc.AddGarment(context.Background(), userID, []byte("fake image bytes"))
	if err != nil {
		t.Fatalf("add garment: %v", err)
	}

	if garment.Category != "shirt" {
		t.Fatalf("category dominante esperada shirt, got %q", garment.Category)
	}
	if garment.Color != "white" {
		t.Fatalf("color dominante esperado white, got %q", garment.Color)
	}
	if !garment.Consensus.HasFeatures() {
		t.Fatalf("el consenso debe tener features")
	}
	if len(garment.Consensus.Embedding.Slice()) != 3 {
		t.Fatalf("el embedding de la fuente de moda debe sobrevivir la fusion")
	}
	if len(repo.created) != 1 {
		t.Fatalf("el garment debe persistirse una vez, got %d", len(repo.created))
	}
}

func TestWardrobeService_AllSourcesFail(t *testing.T) {
	repo := &mockGarmentRepo{}
	failure := errors.New("modelo caido")
	svc := newTestWardrobeService(repo,
		&vision.MockSource{SourceName: domain.SourceFashionModel, Err: failure},
		&vision.MockSource{SourceName: domain.SourceVisionModel, Err: failure},
	)

	_, err := svc.AddGarment(context.Background(), uuid.New(), []byte("fake image bytes"))
	var unavailable *vision.ExtractionUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("esperado ExtractionUnavailableError, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("con extraccion fallida no se persiste nada")
	}
}

func TestWardrobeService_PartialFailurePersists(t *testing.T) {
	repo := &mockGarmentRepo{}
	svc := newTestWardrobeService(repo,
		&vision.MockSource{SourceName: domain.SourceFashionModel, Err: errors.New("timeout")},
		&vision.MockSource{
			SourceName: domain.SourceColorHeuristic,
			Bag: domain.FeatureBag{
				Source:   domain.SourceColorHeuristic,
				Features: map[string]float64{"color:navy": 0.9},
			},
		},
	)

	garment, err := svc.AddGarment(context.Background(), uuid.New(), []byte("fake image bytes"))
	if err != nil {
		t.Fatalf("una fuente viva basta: %v", err)
	}
	if garment.Color != "navy" {
		t.Fatalf("color esperado navy, got %q", garment.Color)
	}
}

func TestWardrobeService_ReplaceImage(t *testing.T) {
	repo := &mockGarmentRepo{}
	svc := newTestWardrobeService(repo,
		&vision.MockSource{
			SourceName: domain.SourceFashionModel,
			Bag: domain.FeatureBag{
				Source:   domain.SourceFashionModel,
				Features: map[string]float64{"category:jacket": 0.9},
			},
		},
	)

	garment, err := svc.AddGarment(context.Background(), uuid.New(), []byte("imagen original"))
	if err != nil {
		t.Fatalf("add garment: %v", err)
	}
	previousHash := fusion.ImageHash([]byte("imagen original"))

	updated, err := svc.ReplaceImage(context.Background(), garment.ID, previousHash, []byte("imagen nueva"))
	if err != nil {
		t.Fatalf("replace image: %v", err)
	}
	if updated.ID != garment.ID {
		t.Fatalf("el reemplazo no debe cambiar la identidad del garment")
	}
	if len(repo.updated) != 1 {
		t.Fatalf("el consenso actualizado debe persistirse, got %d updates", len(repo.updated))
	}
}
