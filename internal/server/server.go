// Package server wires the HTTP surface: routing, middleware and the
// translation of flow errors into status codes.
package server

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/brieflyai/backend/internal/config"
	"github.com/brieflyai/backend/internal/identities"
	"github.com/brieflyai/backend/internal/summarize"
)

// Server represents the HTTP server
type Server struct {
	logger        *zap.Logger
	cfg           *config.Config
	identitiesSvc identities.IdentityService
	summarizeSvc  *summarize.Service
}

// NewServer creates a new HTTP server
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	identitiesSvc identities.IdentityService,
	summarizeSvc *summarize.Service,
) *Server {
	return &Server{
		logger:        logger,
		cfg:           cfg,
		identitiesSvc: identitiesSvc,
		summarizeSvc:  summarizeSvc,
	}
}

// Router creates a new HTTP router
func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.cfg.Server.Mode)

	// Field names in validation errors should match the JSON body
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}

	router := gin.New()

	// Add middleware
	router.Use(ginzap.Ginzap(s.logger, "2006-01-02T15:04:05Z07:00", true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(otelgin.Middleware("brieflyai"))
	router.Use(requestIDMiddleware())
	router.Use(s.corsMiddleware())

	// Liveness probe and metrics
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Add API routes
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.handleRegister)
			auth.POST("/login", s.handleLogin)
			auth.GET("/me", s.authMiddleware(), s.handleGetMe)
		}

		api.POST("/summarize", s.handleSummarize)
	}

	return router
}

// corsMiddleware builds the CORS policy from the configured origin list.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.cfg.CORS.Origins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	// The frontend reads the auth header from login responses
	corsConfig.ExposeHeaders = []string{"Authorization", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// requestIDMiddleware tags every request with an ID for log correlation.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// authMiddleware validates the bearer token and stores its subject in the
// request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeUnauthorized(c)
			c.Abort()
			return
		}

		subject, ok := s.identitiesSvc.DecodeToken(token)
		if !ok {
			s.writeUnauthorized(c)
			c.Abort()
			return
		}

		c.Set("subject", subject)
		c.Next()
	}
}

func (s *Server) writeUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    "UNAUTHORIZED",
		"message": "Missing or invalid bearer token.",
	})
}
