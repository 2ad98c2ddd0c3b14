package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Generador de outfits (API OpenAI-compatible).
	LLMAPIKey  string `env:"LLM_API_KEY,required"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-5.1"`

	// Fuentes de analisis de imagen.
	FashionModelURL string        `env:"FASHION_MODEL_URL"`
	VisionAPIKey    string        `env:"VISION_API_KEY"`
	VisionBaseURL   string        `env:"VISION_BASE_URL" envDefault:"https://api.openai.com/v1"`
	VisionModel     string        `env:"VISION_MODEL" envDefault:"gpt-5.1"`
	SourceTimeout   time.Duration `env:"SOURCE_TIMEOUT" envDefault:"10s"`

	FusionMinConfidence float64 `env:"FUSION_MIN_CONFIDENCE" envDefault:"0.35"`
	HybridTieThreshold  float64 `env:"HYBRID_TIE_THRESHOLD" envDefault:"0"`

	// Pesos del matcher; deben sumar 1.
	MatchWeightSemantic float64 `env:"MATCH_WEIGHT_SEMANTIC" envDefault:"0.35"`
	MatchWeightStyle    float64 `env:"MATCH_WEIGHT_STYLE" envDefault:"0.25"`
	MatchWeightCategory float64 `env:"MATCH_WEIGHT_CATEGORY" envDefault:"0.20"`
	MatchWeightColor    float64 `env:"MATCH_WEIGHT_COLOR" envDefault:"0.20"`
	MinMatchScore       float64 `env:"MIN_MATCH_SCORE" envDefault:"0.3"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
