package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stylist-ai/internal/service"
)

// OutfitHandler expone las recomendaciones de outfit.
type OutfitHandler struct {
	logger          *zap.Logger
	recommendations *service.RecommendationService
}

func NewOutfitHandler(logger *zap.Logger, recommendations *service.RecommendationService) *OutfitHandler {
	return &OutfitHandler{logger: logger, recommendations: recommendations}
}

// Recommend maneja POST /outfits/recommend.
func (h *OutfitHandler) Recommend(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	var req service.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommend request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rec, err := h.recommendations.Recommend(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrUnparseableOutfit) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generator returned unusable output"})
			return
		}
		h.logger.Error("recommend failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not recommend outfit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}
