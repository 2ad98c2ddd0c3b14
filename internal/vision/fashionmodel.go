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
)

// FashionModelClient consulta el servicio del clasificador especializado en
// moda: categorias, estilos, materiales y el embedding del garment.
type FashionModelClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewFashionModelClient crea el cliente. El timeout por llamada lo impone el
// adaptador via context, no este cliente.
func NewFashionModelClient(baseURL string, logger *zap.Logger) *FashionModelClient {
	return &FashionModelClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
}

func (c *FashionModelClient) Name() domain.SourceName {
	return domain.SourceFashionModel
}

type fashionEmbedRequest struct {
	Image          string `json:"image"`
	ReturnFeatures bool   `json:"return_features"`
}

type fashionEmbedResponse struct {
	Success          bool               `json:"success"`
	Embedding        []float32          `json:"embedding"`
	Category         string             `json:"category"`
	Style            []string           `json:"style"`
	Features         []string           `json:"features"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	Error            string             `json:"error"`
}

// Analyze manda la imagen en base64 y convierte la respuesta al formato de
// features namespaced con confianza por feature.
func (c *FashionModelClient) Analyze(ctx context.Context, image []byte) (domain.FeatureBag, error) {
	reqBody := fashionEmbedRequest{
		Image:          base64.StdEncoding.EncodeToString(image),
		ReturnFeatures: true,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(bodyBytes))
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("create request: %w", err)
	}
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
		return domain.FeatureBag{}, fmt.Errorf("fashion model http error: status=%d", resp.StatusCode)
	}

	var er fashionEmbedResponse
	if err := json.Unmarshal(respBody, &er); err != nil {
		return domain.FeatureBag{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if !er.Success {
		return domain.FeatureBag{}, fmt.Errorf("fashion model analysis failed: %s", er.Error)
	}

	return c.toFeatureBag(er), nil
}

// toFeatureBag traduce la respuesta del servicio a features namespaced.
// Cuando el servicio no manda confianza por feature usa defaults escalonados:
// el primer estilo pesa mas que el tercero.
func (c *FashionModelClient) toFeatureBag(er fashionEmbedResponse) domain.FeatureBag {
	features := make(map[string]float64)

	confOr := func(key string, fallback float64) float64 {
		if v, ok := er.ConfidenceScores[key]; ok && v > 0 {
			if v > 1 {
				return 1
			}
			return v
		}
		return fallback
	}

	if cat := normalizeFeatureValue(er.Category); cat != "" && cat != "unknown" {
		features[domain.NamespaceCategory+":"+cat] = confOr("category", 0.8)
	}
	for i, style := range er.Style {
		if s := normalizeFeatureValue(style); s != "" {
			features[domain.NamespaceStyle+":"+s] = confOr("style:"+s, laddered(0.75, i))
		}
	}
	for i, feat := range er.Features {
		if f := normalizeFeatureValue(feat); f != "" {
			features[domain.NamespaceMaterial+":"+f] = confOr("material:"+f, laddered(0.65, i))
		}
	}

	return domain.FeatureBag{
		Source:    domain.SourceFashionModel,
		Features:  features,
		Embedding: er.Embedding,
	}
}

// laddered baja la confianza default segun la posicion en la lista ordenada
// del modelo, sin caer debajo de 0.4.
func laddered(base float64, index int) float64 {
	conf := base - 0.1*float64(index)
	if conf < 0.4 {
		return 0.4
	}
	return conf
}

func normalizeFeatureValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.ReplaceAll(v, " ", "-")
}
