package service

import (
	"errors"
	"testing"
)

func TestParseOutfitResponse_CleanJSON(t *testing.T) {
	raw := `{
		"top": {"type": "Blouse", "color": "White", "features": ["Tailored Fit"]},
		"bottom": {"type": "jeans", "color": "blue", "color_alternatives": ["Navy", " black "]},
		"shoes": {"type": "sneakers", "color": "white"},
		"occasion": "casual friday",
		"description": "look relajado de oficina"
	}`

	spec, err := ParseOutfitResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if spec.Top == nil || spec.Top.Type != "blouse" || spec.Top.Color != "white" {
		t.Fatalf("top no normalizado: %+v", spec.Top)
	}
	if spec.Top.Features[0] != "tailored fit" {
		t.Fatalf("features no normalizados: %v", spec.Top.Features)
	}
	if len(spec.Bottom.ColorAlternatives) != 2 || spec.Bottom.ColorAlternatives[1] != "black" {
		t.Fatalf("alternativas no normalizadas: %v", spec.Bottom.ColorAlternatives)
	}
	if spec.Outerwear != nil {
		t.Fatalf("outerwear ausente debe quedar nil")
	}
	if spec.Description != "look relajado de oficina" {
		t.Fatalf("description inesperada: %q", spec.Description)
	}
}

func TestParseOutfitResponse_FencedJSON(t *testing.T) {
	raw := "Claro, aqui tienes el outfit:\n```json\n{\"top\": {\"type\": \"shirt\", \"color\": \"white\"}}\n```\nEspero que te guste."

	spec, err := ParseOutfitResponse(raw)
	if err != nil {
		t.Fatalf("parse con fences: %v", err)
	}
	if spec.Top == nil || spec.Top.Type != "shirt" {
		t.Fatalf("top inesperado: %+v", spec.Top)
	}
}

func TestParseOutfitResponse_NoJSON(t *testing.T) {
	_, err := ParseOutfitResponse("lo siento, no puedo generar un outfit ahora")
	if !errors.Is(err, ErrUnparseableOutfit) {
		t.Fatalf("esperado ErrUnparseableOutfit, got %v", err)
	}
}

func TestParseOutfitResponse_EmptyObject(t *testing.T) {
	_, err := ParseOutfitResponse(`{"occasion": "gala"}`)
	if !errors.Is(err, ErrUnparseableOutfit) {
		t.Fatalf("un outfit sin ningun rol no es utilizable, got %v", err)
	}
}

func TestParseOutfitResponse_Accessories(t *testing.T) {
	raw := `{"accessories": [{"type": "Belt", "color": "Brown"}, {"type": "scarf"}]}`

	spec, err := ParseOutfitResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(spec.Accessories) != 2 || spec.Accessories[0].Type != "belt" || spec.Accessories[0].Color != "brown" {
		t.Fatalf("accesorios inesperados: %+v", spec.Accessories)
	}
}
