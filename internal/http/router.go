package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forms-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	formH *FormHandler,
	submissionH *SubmissionHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/owners", authH.RegisterOwner)

	auth := r.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Gestion de formularios: solo autores autenticados.
	forms := r.Group("/forms")
	forms.Use(JWTAuthMiddleware(jwtSvc))
	forms.POST("", formH.CreateForm)
	forms.GET("", formH.ListForms)
	forms.GET("/:id", formH.GetForm)
	forms.PATCH("/:id", formH.UpdateForm)
	forms.DELETE("/:id", formH.DeleteForm)
	forms.POST("/:id/questions", formH.AddQuestion)
	forms.DELETE("/:id/questions/:questionId", formH.DeleteQuestion)
	forms.GET("/:id/submissions", submissionH.ListSubmissions)

	// Rutas publicas para encuestados.
	public := r.Group("/public/forms")
	public.GET("/:id", submissionH.GetPublicForm)
	public.POST("/:id/submissions", submissionH.CreateSubmission)

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
