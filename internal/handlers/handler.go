package handlers

import (
	"errors"
	"net/http"

	"curtaincall/internal/logger"
	"curtaincall/internal/repository"
	"curtaincall/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	log         *logger.Logger
	requireAuth bool
}

// NewHandler constructs a new HTTP handler with dependencies. When
// requireAuth is set, dashboard-only routes demand a Bearer token; device
// routes stay open either way so the firmware needs no credentials.
func NewHandler(services *service.Service, log *logger.Logger, requireAuth bool) *Handler {
	return &Handler{services: services, log: log, requireAuth: requireAuth}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// The stock dashboard is served from another origin; mirror its
	// permissive preflight policy.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Device-facing endpoints: always open.
	router.POST("/sensor_data", h.postSensorData)
	router.GET("/command", h.pollCommand)

	// Dashboard endpoints; a subset is guarded when auth is enabled.
	router.GET("/sensor_data", h.getSensorData)
	router.POST("/command", h.postCommand)
	router.GET("/settings", h.getSettings)
	router.GET("/logs", h.getLogs)

	guarded := router.Group("/", h.maybeAuth())
	{
		guarded.POST("/settings", h.postSetting)
		guarded.POST("/ai_process", h.aiProcess)
	}

	// Live sensor/status snapshots over the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

// maybeAuth returns the token middleware when auth is enabled, or a no-op.
func (h *Handler) maybeAuth() gin.HandlerFunc {
	if h.requireAuth {
		return h.tokenMiddleware
	}
	return func(c *gin.Context) { c.Next() }
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// logAndJSONError logs err (when a logger is present) and writes a JSON error.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// serviceError maps domain errors to HTTP responses. Storage failures fall
// through to a generic 500 so internals never leak to the caller.
func (h *Handler) serviceError(c *gin.Context, err error, logKey string) {
	var malformed *service.MalformedAIResponseError
	var upstream *service.UpstreamError

	switch {
	case errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidSource),
		errors.Is(err, service.ErrEmptyUserInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrSettingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &malformed):
		if h.log != nil {
			h.log.Errorw(logKey, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":        "Failed to parse AI response",
			"raw_response": malformed.Raw,
		})
	case errors.As(err, &upstream):
		if h.log != nil {
			h.log.Errorw(logKey, "err", err, "upstream_status", upstream.StatusCode)
		}
		code := http.StatusBadGateway
		msg := "AI service unavailable"
		if upstream.RateLimited() {
			code = http.StatusTooManyRequests
			msg = "AI service rate limited, retry later"
		}
		c.JSON(code, gin.H{"error": msg})
	case errors.Is(err, service.ErrAINotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", logKey, err)
	}
}
