package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/llm"
)

// ErrUnparseableOutfit indica que la respuesta del generador no contenia
// ningun objeto JSON utilizable.
var ErrUnparseableOutfit = errors.New("respuesta del generador sin JSON de outfit utilizable")

// ParseOutfitResponse convierte la respuesta cruda del generador en un
// OutfitRequestSpec. Tolera fences de markdown y texto alrededor del JSON;
// falla solo si no hay objeto balanceado o el JSON no decodifica.
func ParseOutfitResponse(raw string) (*domain.OutfitRequestSpec, error) {
	cleaned := llm.CleanJSONResponse(raw)
	extracted := llm.ExtractFirstJSONObject(cleaned)
	if extracted == "" {
		return nil, ErrUnparseableOutfit
	}

	var spec domain.OutfitRequestSpec
	if err := json.Unmarshal([]byte(extracted), &spec); err != nil {
		return nil, fmt.Errorf("decodificando outfit del generador: %w", err)
	}

	normalizeTarget(spec.Top)
	normalizeTarget(spec.Bottom)
	normalizeTarget(spec.Shoes)
	normalizeTarget(spec.Outerwear)
	for i := range spec.Accessories {
		normalizeTarget(&spec.Accessories[i])
	}

	if spec.Top == nil && spec.Bottom == nil && spec.Shoes == nil &&
		spec.Outerwear == nil && len(spec.Accessories) == 0 {
		return nil, ErrUnparseableOutfit
	}
	return &spec, nil
}

// normalizeTarget baja a minusculas y limpia espacios en los campos que el
// matcher compara literalmente.
func normalizeTarget(t *domain.OutfitTarget) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	t.Color = strings.ToLower(strings.TrimSpace(t.Color))
	alts := t.ColorAlternatives[:0]
	for _, alt := range t.ColorAlternatives {
		if c := strings.ToLower(strings.TrimSpace(alt)); c != "" {
			alts = append(alts, c)
		}
	}
	t.ColorAlternatives = alts

	features := t.Features[:0]
	for _, f := range t.Features {
		if v := strings.ToLower(strings.TrimSpace(f)); v != "" {
			features = append(features, v)
		}
	}
	t.Features = features
}
