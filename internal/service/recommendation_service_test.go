package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/llm"
)

type mockGarmentRepo struct {
	garments []domain.GarmentRecord
	created  []domain.GarmentRecord
	updated  []domain.GarmentRecord
	err      error
}

func (m *mockGarmentRepo) Create(ctx context.Context, g domain.GarmentRecord) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, g)
	m.garments = append(m.garments, g)
	return nil
}

func (m *mockGarmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.GarmentRecord, error) {
	for _, g := range m.garments {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.GarmentRecord{}, pgx.ErrNoRows
}

func (m *mockGarmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GarmentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.garments, nil
}

func (m *mockGarmentRepo) UpdateConsensus(ctx context.Context, g domain.GarmentRecord) error {
	m.updated = append(m.updated, g)
	return m.err
}

func (m *mockGarmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.err
}

type mockProfileRepo struct {
	current *domain.StyleProfile
	created []domain.StyleProfile
	err     error
}

func (m *mockProfileRepo) Create(ctx context.Context, p domain.StyleProfile) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, p)
	m.current = &p
	return nil
}

func (m *mockProfileRepo) GetCurrentByUser(ctx context.Context, userID uuid.UUID) (domain.StyleProfile, error) {
	if m.err != nil {
		return domain.StyleProfile{}, m.err
	}
	if m.current == nil {
		return domain.StyleProfile{}, pgx.ErrNoRows
	}
	return *m.current, nil
}

func (m *mockProfileRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StyleProfile, error) {
	if m.current == nil {
		return nil, nil
	}
	return []domain.StyleProfile{*m.current}, nil
}

func newTestRecommendationService(client llm.Client, garments *mockGarmentRepo, profiles *mockProfileRepo) *RecommendationService {
	matcher := NewOutfitMatcher(zap.NewNop(), MatchWeights{}, -1)
	return NewRecommendationService(zap.NewNop(), client, matcher, garments, profiles)
}

func TestRecommendationService_FullFlow(t *testing.T) {
	client := &llm.MockClient{
		Response: `{"top": {"type": "shirt", "color": "white"}, "bottom": {"type": "jeans", "color": "blue"}, "description": "casual y limpio"}`,
	}
	garments := &mockGarmentRepo{garments: []domain.GarmentRecord{
		testGarment("shirt", "white", "classic"),
		testGarment("jeans", "blue"),
	}}
	profiles := &mockProfileRepo{current: &domain.StyleProfile{
		UserID:       uuid.New(),
		PrimaryStyle: "Classic",
		Confidence:   0.6,
	}}
	svc := newTestRecommendationService(client, garments, profiles)

	rec, err := svc.Recommend(context.Background(), uuid.New(), RecommendationRequest{
		Occasion: "cena casual",
		Weather:  "templado",
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if len(rec.Result.Matches) != 2 {
		t.Fatalf("esperados 2 matches, got %d (missing %v)", len(rec.Result.Matches), rec.Result.MissingRoles)
	}
	if rec.Description != "casual y limpio" {
		t.Fatalf("description inesperada: %q", rec.Description)
	}
	if len(client.Prompts) != 1 || !strings.Contains(client.Prompts[0], "cena casual") {
		t.Fatalf("el prompt debe incluir la ocasion: %v", client.Prompts)
	}
	if !strings.Contains(client.Prompts[0], "Classic") {
		t.Fatalf("el prompt debe incluir el estilo primario: %q", client.Prompts[0])
	}
}

func TestRecommendationService_NoProfileIsValid(t *testing.T) {
	client := &llm.MockClient{
		Response: `{"top": {"type": "shirt", "color": "white"}}`,
	}
	garments := &mockGarmentRepo{garments: []domain.GarmentRecord{
		testGarment("shirt", "white"),
	}}
	svc := newTestRecommendationService(client, garments, &mockProfileRepo{})

	rec, err := svc.Recommend(context.Background(), uuid.New(), RecommendationRequest{Occasion: "trabajo"})
	if err != nil {
		t.Fatalf("un usuario sin quiz debe poder recibir recomendaciones: %v", err)
	}
	if len(rec.Result.Matches) != 1 {
		t.Fatalf("esperado 1 match, got %d", len(rec.Result.Matches))
	}
}

func TestRecommendationService_UnparseableResponse(t *testing.T) {
	client := &llm.MockClient{Response: "hoy no me siento creativo"}
	svc := newTestRecommendationService(client, &mockGarmentRepo{}, &mockProfileRepo{})

	_, err := svc.Recommend(context.Background(), uuid.New(), RecommendationRequest{Occasion: "gala"})
	if err == nil {
		t.Fatalf("respuesta sin JSON debe fallar")
	}
}

func TestRecommendationService_MatchSpecOffline(t *testing.T) {
	garments := &mockGarmentRepo{garments: []domain.GarmentRecord{
		testGarment("sneakers", "black"),
	}}
	svc := newTestRecommendationService(&llm.MockClient{}, garments, &mockProfileRepo{})

	spec := &domain.OutfitRequestSpec{
		Shoes: &domain.OutfitTarget{Type: "sneakers", Color: "black"},
	}
	result, err := svc.MatchSpec(context.Background(), uuid.New(), spec)
	if err != nil {
		t.Fatalf("match spec: %v", err)
	}
	if len(result.Matches) != 1 || result.Matches[0].Role != domain.RoleShoes {
		t.Fatalf("resultado inesperado: %+v", result)
	}
}
