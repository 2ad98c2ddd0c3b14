package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stylist-ai/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokenSvc *service.TokenService,
	closetH *ClosetHandler,
	quizH *QuizHandler,
	outfitH *OutfitHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := JWTAuthMiddleware(tokenSvc)

	closet := r.Group("/closet", auth)
	closet.POST("/garments", closetH.AddGarment)
	closet.GET("/garments", closetH.ListGarments)
	closet.PUT("/garments/:id/image", closetH.ReplaceImage)
	closet.DELETE("/garments/:id", closetH.RemoveGarment)

	quiz := r.Group("/quiz", auth)
	quiz.GET("/items", quizH.GetItems)
	quiz.POST("/submit", quizH.SubmitQuiz)
	quiz.GET("/profile", quizH.GetProfile)
	quiz.GET("/profile/history", quizH.GetProfileHistory)

	outfits := r.Group("/outfits", auth)
	outfits.POST("/recommend", outfitH.Recommend)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
