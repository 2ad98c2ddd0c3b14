package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"stylist-ai/internal/service"
)

// QuizHandler expone el quiz de estilo y los perfiles resultantes.
type QuizHandler struct {
	logger *zap.Logger
	quiz   *service.QuizService
}

func NewQuizHandler(logger *zap.Logger, quiz *service.QuizService) *QuizHandler {
	return &QuizHandler{logger: logger, quiz: quiz}
}

// SubmitQuiz maneja POST /quiz/submit.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	var req struct {
		Answers []service.QuizAnswer `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit quiz request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.quiz.SubmitQuiz(c.Request.Context(), userID, req.Answers)
	if err != nil {
		var incomplete *service.IncompleteQuizError
		var unknown *service.UnknownCategoryError
		switch {
		case errors.As(err, &incomplete), errors.As(err, &unknown), errors.Is(err, service.ErrQuizItemNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("submit quiz failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit quiz"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// GetItems maneja GET /quiz/items. Devuelve el catalogo de items
// seleccionables de una pregunta via query param question_id.
func (h *QuizHandler) GetItems(c *gin.Context) {
	questionID := c.Query("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}

	items, err := h.quiz.ListItems(c.Request.Context(), questionID)
	if err != nil {
		h.logger.Error("list quiz items failed", zap.String("question_id", questionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list quiz items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetProfile maneja GET /quiz/profile.
func (h *QuizHandler) GetProfile(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	profile, err := h.quiz.CurrentProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no style profile yet"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetProfileHistory maneja GET /quiz/profile/history.
func (h *QuizHandler) GetProfileHistory(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
		return
	}

	profiles, err := h.quiz.ProfileHistory(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("get profile history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
