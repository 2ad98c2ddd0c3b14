package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"stylist-ai/internal/service"
	"stylist-ai/internal/vision"
)

// maxImageBytes limita el tamano de imagen aceptado (8 MiB decodificados).
const maxImageBytes = 8 << 20

// ClosetHandler expone el inventario de prendas.
type ClosetHandler struct {
	logger   *zap.Logger
	wardrobe *service.WardrobeService
}

func NewClosetHandler(logger *zap.Logger, wardrobe *service.WardrobeService) *ClosetHandler {
	return &ClosetHandler{logger: logger, wardrobe: wardrobe}
}

// AddGarment maneja POST /closet/garments.
func (h *ClosetHandler) AddGarment(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add garment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	garment, err := h.wardrobe.AddGarment(c.Request.Context(), userID, image)
	if err != nil {
		var unavailable *vision.ExtractionUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":      "image analysis unavailable",
				"image_hash": unavailable.ImageHash,
			})
			return
		}
		h.logger.Error("add garment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add garment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"garment": garment})
}

// ListGarments maneja GET /closet/garments.
func (h *ClosetHandler) ListGarments(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	garments, err := h.wardrobe.ListCloset(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list closet failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list closet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"garments": garments})
}

// ReplaceImage maneja PUT /closet/garments/:id/image.
func (h *ClosetHandler) ReplaceImage(c *gin.Context) {
	if _, ok := GetAuthUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	garmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid garment id"})
		return
	}

	var req struct {
		Image        string `json:"image" binding:"required"`
		PreviousHash string `json:"previous_hash"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid replace image request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	garment, err := h.wardrobe.ReplaceImage(c.Request.Context(), garmentID, req.PreviousHash, image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "garment not found"})
			return
		}
		var unavailable *vision.ExtractionUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image analysis unavailable"})
			return
		}
		h.logger.Error("replace image failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not replace image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"garment": garment})
}

// RemoveGarment maneja DELETE /closet/garments/:id.
func (h *ClosetHandler) RemoveGarment(c *gin.Context) {
	if _, ok := GetAuthUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	garmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid garment id"})
		return
	}

	if err := h.wardrobe.RemoveGarment(c.Request.Context(), garmentID); err != nil {
		h.logger.Error("remove garment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove garment"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func decodeImage(encoded string) ([]byte, error) {
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.New("image must be base64 encoded")
	}
	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}
	if len(image) > maxImageBytes {
		return nil, errors.New("image too large")
	}
	return image, nil
}
