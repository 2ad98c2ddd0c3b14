package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/llm"
	"stylist-ai/internal/scoring"
)

const visionPrompt = `Eres un analista de prendas de ropa. Observa la imagen y devuelve SOLO un JSON:
{
  "features": {
    "style:casual": 0.8,
    "category:jeans": 0.7,
    "material:denim": 0.9,
    "color:navy": 0.6,
    "brand:levis": 0.5,
    "occasion:everyday": 0.7
  }
}
Reglas:
- Llaves en minusculas, formato namespace:valor, valores con guiones en vez de espacios.
- Namespaces validos: style, category, material, color, brand, occasion, pattern.
- Confianza en [0,1]. Omite lo que no puedas ver. No inventes marcas.`

// VisionModelClient consulta un modelo vision-lenguaje generalista via una
// API de chat OpenAI-compatible con contenido de imagen.
type VisionModelClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

func NewVisionModelClient(baseURL, apiKey, model string, logger *zap.Logger) *VisionModelClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &VisionModelClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
		logger:  logger,
	}
}

func (c *VisionModelClient) Name() domain.SourceName {
	return domain.SourceVisionModel
}

type visionChatRequest struct {
	Model    string              `json:"model"`
	Messages []visionChatMessage `json:"messages"`
}

type visionChatMessage struct {
	Role    string              `json:"role"`
	Content []visionChatContent `json:"content"`
}

type visionChatContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionImageURL struct {
	URL string `json:"url"`
}

type visionChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *VisionModelClient) Analyze(ctx context.Context, image []byte) (domain.FeatureBag, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	reqBody := visionChatRequest{
		Model: c.model,
		Messages: []visionChatMessage{
			{
				Role: "user",
				Content: []visionChatContent{
					{Type: "text", Text: visionPrompt},
					{Type: "image_url", ImageURL: &visionImageURL{URL: dataURL}},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Warn("vision model http error", zap.Int("status", resp.StatusCode))
		}
		return domain.FeatureBag{}, fmt.Errorf("vision model http error: status=%d", resp.StatusCode)
	}

	var cr visionChatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return domain.FeatureBag{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Error != nil {
		return domain.FeatureBag{}, fmt.Errorf("vision model api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return domain.FeatureBag{}, fmt.Errorf("vision model empty response")
	}

	return parseVisionFeatures(cr.Choices[0].Message.Content)
}

// parseVisionFeatures extrae el mapa de features del texto del modelo. Los
// nombres fuera de los namespaces validos y las confianzas fuera de rango se
// normalizan, no se consideran fatales.
func parseVisionFeatures(raw string) (domain.FeatureBag, error) {
	cleaned := llm.CleanJSONResponse(raw)
	jsonObj := llm.ExtractFirstJSONObject(cleaned)
	if jsonObj == "" {
		jsonObj = llm.ExtractFirstJSONObject(raw)
	}
	if jsonObj == "" {
		return domain.FeatureBag{}, fmt.Errorf("vision model response has no json object")
	}

	var parsed struct {
		Features map[string]float64 `json:"features"`
	}
	if err := json.Unmarshal([]byte(jsonObj), &parsed); err != nil {
		return domain.FeatureBag{}, fmt.Errorf("parse vision response: %w", err)
	}

	features := make(map[string]float64, len(parsed.Features))
	for name, conf := range parsed.Features {
		name = normalizeFeatureValue(name)
		if !validVisionNamespace(domain.FeatureNamespace(name)) || domain.FeatureValue(name) == "" {
			continue
		}
		features[name] = scoring.Clamp01(conf)
	}

	return domain.FeatureBag{
		Source:   domain.SourceVisionModel,
		Features: features,
	}, nil
}

func validVisionNamespace(ns string) bool {
	switch ns {
	case domain.NamespaceStyle, domain.NamespaceCategory, domain.NamespaceMaterial,
		domain.NamespaceColor, domain.NamespaceBrand, domain.NamespaceOccasion, domain.NamespacePattern:
		return true
	}
	return false
}
