package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"stylist-ai/internal/config"
	"stylist-ai/internal/db"
	"stylist-ai/internal/fusion"
	apihttp "stylist-ai/internal/http"
	"stylist-ai/internal/llm"
	"stylist-ai/internal/repository"
	"stylist-ai/internal/service"
	"stylist-ai/internal/vision"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	garmentRepo := repository.NewPgGarmentRepository(pool)
	profileRepo := repository.NewPgStyleProfileRepository(pool)
	quizItemRepo := repository.NewPgQuizItemRepository(pool)

	// Cache de consenso: redis compartido si esta configurado y responde,
	// memoria local si no.
	consensusCache := fusion.NewMemoryConsensusCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using memory cache", zap.Error(err))
		} else {
			consensusCache = fusion.NewRedisConsensusCache(redisClient)
		}
		cancel()
	}

	var sources []vision.Source
	if cfg.FashionModelURL != "" {
		sources = append(sources, vision.NewFashionModelClient(cfg.FashionModelURL, logger))
	}
	if cfg.VisionAPIKey != "" {
		sources = append(sources, vision.NewVisionModelClient(cfg.VisionBaseURL, cfg.VisionAPIKey, cfg.VisionModel, logger))
	}
	sources = append(sources, vision.NewColorHeuristic())

	adapter := vision.NewAdapter(logger, cfg.SourceTimeout, sources...)
	engine := fusion.NewEngine(logger, consensusCache, cfg.FusionMinConfidence)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)

	tokenSvc := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	wardrobeSvc := service.NewWardrobeService(logger, adapter, engine, garmentRepo)
	builder := service.NewStyleProfileBuilder(service.StyleProfileConfig{
		HybridTieThreshold: cfg.HybridTieThreshold,
	})
	quizSvc := service.NewQuizService(logger, builder, quizItemRepo, profileRepo)
	matcher := service.NewOutfitMatcher(logger, service.MatchWeights{
		Semantic: cfg.MatchWeightSemantic,
		Style:    cfg.MatchWeightStyle,
		Category: cfg.MatchWeightCategory,
		Color:    cfg.MatchWeightColor,
	}, cfg.MinMatchScore)
	recommendationSvc := service.NewRecommendationService(logger, llmClient, matcher, garmentRepo, profileRepo)

	closetHandler := apihttp.NewClosetHandler(logger, wardrobeSvc)
	quizHandler := apihttp.NewQuizHandler(logger, quizSvc)
	outfitHandler := apihttp.NewOutfitHandler(logger, recommendationSvc)
	router := apihttp.NewRouter(logger, tokenSvc, closetHandler, quizHandler, outfitHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
